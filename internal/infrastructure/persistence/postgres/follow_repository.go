package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	"github.com/rafabene/avantpro-social/internal/domain/repositories"
)

// FollowRepository implementa repositories.FollowRepository sobre a tabela followers
type FollowRepository struct {
	db *gorm.DB
}

// NewFollowRepository cria um novo FollowRepository
func NewFollowRepository(db *gorm.DB) repositories.FollowRepository {
	return &FollowRepository{db: db}
}

// Add insere a aresta; ON CONFLICT DO NOTHING torna a operação idempotente
func (r *FollowRepository) Add(ctx context.Context, followerID, followedID int64) error {
	model := &FollowModel{FollowerID: followerID, FollowedID: followedID}

	db := getDB(ctx, r.db)
	return db.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(model).Error
}

func (r *FollowRepository) Remove(ctx context.Context, followerID, followedID int64) error {
	db := getDB(ctx, r.db)
	return db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).Delete(&FollowModel{}).Error
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followedID int64) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&FollowModel{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *FollowRepository) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&FollowModel{}).Where("followed_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *FollowRepository) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&FollowModel{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

// Followers lista quem segue userID
func (r *FollowRepository) Followers(ctx context.Context, userID int64, page, pageSize int) ([]*entities.User, int64, error) {
	return r.listUsers(ctx, "followers.follower_id", "followers.followed_id", userID, page, pageSize)
}

// Following lista quem userID segue
func (r *FollowRepository) Following(ctx context.Context, userID int64, page, pageSize int) ([]*entities.User, int64, error) {
	return r.listUsers(ctx, "followers.followed_id", "followers.follower_id", userID, page, pageSize)
}

// listUsers é a mesma consulta nas duas direções: join em joinColumn, filtro em filterColumn
func (r *FollowRepository) listUsers(ctx context.Context, joinColumn, filterColumn string, userID int64, page, pageSize int) ([]*entities.User, int64, error) {
	db := getDB(ctx, r.db)
	query := db.Model(&UserModel{}).
		Joins("JOIN followers ON users.id = "+joinColumn).
		Where(filterColumn+" = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []*UserModel
	query = paginate(query.Select("users.*").Order("users.username ASC, users.id ASC"), page, pageSize)
	if err := query.Find(&models).Error; err != nil {
		return nil, 0, err
	}

	users, err := usersToEntities(models)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *FollowRepository) Neighbors(ctx context.Context, userID int64) ([]int64, error) {
	db := getDB(ctx, r.db)

	var followers, following []int64
	if err := db.Model(&FollowModel{}).Where("followed_id = ?", userID).Pluck("follower_id", &followers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&FollowModel{}).Where("follower_id = ?", userID).Pluck("followed_id", &following).Error; err != nil {
		return nil, err
	}

	return append(followers, following...), nil
}
