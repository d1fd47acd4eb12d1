package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	domainerrors "github.com/rafabene/avantpro-social/internal/domain/errors"
	"github.com/rafabene/avantpro-social/internal/domain/repositories"
	"github.com/rafabene/avantpro-social/internal/domain/valueobjects"
)

// UserRepository implementa repositories.UserRepository
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository cria um novo UserRepository
func NewUserRepository(db *gorm.DB) repositories.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	model := r.toModel(user)

	db := getDB(ctx, r.db)
	if err := db.Create(model).Error; err != nil {
		return translateUniqueError(err)
	}

	user.ID = model.ID
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entities.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

// FindFirstAdmin retorna o admin com menor id (o "admin original")
func (r *UserRepository) FindFirstAdmin(ctx context.Context) (*entities.User, error) {
	var model UserModel

	db := getDB(ctx, r.db)
	err := db.Where("role = ?", string(entities.RoleAdmin)).Order("id ASC").First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.toEntity(&model)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*entities.User, error) {
	var model UserModel

	db := getDB(ctx, r.db)
	if err := db.Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.toEntity(&model)
}

func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	model := r.toModel(user)

	db := getDB(ctx, r.db)
	err := db.Model(&UserModel{}).Where("id = ?", user.ID).Updates(map[string]any{
		"username":      model.Username,
		"email":         model.Email,
		"password_hash": model.PasswordHash,
		"role":          model.Role,
		"about_me":      model.AboutMe,
	}).Error
	return translateUniqueError(err)
}

// translateUniqueError converte a violação do índice único (corrida entre o pré-check e o
// insert) no erro de domínio. O driver não informa a coluna: username é o padrão e o
// serviço reconsulta o email para corrigir a mensagem.
func translateUniqueError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainerrors.ErrUsernameTaken
	}
	return err
}

func (r *UserRepository) TouchLastSeen(ctx context.Context, id int64, at time.Time) error {
	db := getDB(ctx, r.db)
	return db.Model(&UserModel{}).Where("id = ?", id).Update("last_seen", at.UTC()).Error
}

// Delete remove o usuário e tudo que depende dele.
// Os deletes explícitos garantem a cascata mesmo sem ON DELETE CASCADE no banco.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	db := getDB(ctx, r.db)
	return db.Transaction(func(tx *gorm.DB) error {
		ownPosts := tx.Model(&PostModel{}).Select("id").Where("user_id = ?", id)

		if err := tx.Where("user_id = ? OR post_id IN (?)", id, ownPosts).Delete(&CommentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&PostModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", id, id).Delete(&FollowModel{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&UserModel{}).Error
	})
}

func (r *UserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*entities.User, int64, error) {
	var models []*UserModel

	db := getDB(ctx, r.db)
	query := db.Model(&UserModel{})

	// Aplicar filtros
	if filters.Username != "" {
		query = query.Where("LOWER(username) LIKE ? ESCAPE '\\'", likePattern(filters.Username))
	}
	if filters.Role != nil {
		query = query.Where("role = ?", string(*filters.Role))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("username ASC").Order("id ASC")
	query = paginate(query, filters.Page, filters.PageSize)

	if err := query.Find(&models).Error; err != nil {
		return nil, 0, err
	}

	users, err := r.toEntities(models)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := getDB(ctx, r.db).Model(&UserModel{}).Count(&total).Error
	return total, err
}

func (r *UserRepository) CountActiveSince(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	err := getDB(ctx, r.db).Model(&UserModel{}).Where("last_seen >= ?", since.UTC()).Count(&total).Error
	return total, err
}

// Conversores
func (r *UserRepository) toModel(user *entities.User) *UserModel {
	return &UserModel{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email.String(),
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		AboutMe:      user.AboutMe,
		LastSeen:     user.LastSeen,
	}
}

func (r *UserRepository) toEntity(model *UserModel) (*entities.User, error) {
	return userToEntity(model)
}

func (r *UserRepository) toEntities(models []*UserModel) ([]*entities.User, error) {
	return usersToEntities(models)
}

func userToEntity(model *UserModel) (*entities.User, error) {
	email, err := valueobjects.NewEmail(model.Email)
	if err != nil {
		return nil, err
	}

	var lastSeen *time.Time
	if model.LastSeen != nil {
		ts := model.LastSeen.UTC()
		lastSeen = &ts
	}

	return &entities.User{
		ID:           model.ID,
		Username:     model.Username,
		Email:        email,
		PasswordHash: model.PasswordHash,
		Role:         entities.Role(model.Role),
		AboutMe:      model.AboutMe,
		LastSeen:     lastSeen,
	}, nil
}

func usersToEntities(models []*UserModel) ([]*entities.User, error) {
	users := make([]*entities.User, 0, len(models))

	for _, model := range models {
		entity, err := userToEntity(model)
		if err != nil {
			return nil, err
		}
		users = append(users, entity)
	}

	return users, nil
}
