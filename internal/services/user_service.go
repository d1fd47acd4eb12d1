package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	domainerrors "github.com/rafabene/avantpro-social/internal/domain/errors"
	"github.com/rafabene/avantpro-social/internal/domain/ports"
	"github.com/rafabene/avantpro-social/internal/domain/repositories"
	"github.com/rafabene/avantpro-social/internal/domain/valueobjects"
)

// UserService contém a lógica de negócio para contas de usuário
type UserService struct {
	userRepo   repositories.UserRepository
	postRepo   repositories.PostRepository
	followRepo repositories.FollowRepository
	uow        ports.UnitOfWork
	hasher     ports.PasswordHasher
	blobs      ports.BlobStore
	cache      ports.CounterCache
	clock      ports.Clock
	recorder   ports.ActionRecorder
	logger     ports.Logger
}

// UserServiceDeps agrupa as dependências do UserService.
// Blobs, Cache e Recorder são opcionais.
type UserServiceDeps struct {
	Users    repositories.UserRepository
	Posts    repositories.PostRepository
	Follows  repositories.FollowRepository
	UoW      ports.UnitOfWork
	Hasher   ports.PasswordHasher
	Blobs    ports.BlobStore
	Cache    ports.CounterCache
	Clock    ports.Clock
	Recorder ports.ActionRecorder
	Logger   ports.Logger
}

// NewUserService cria um novo UserService
func NewUserService(deps UserServiceDeps) *UserService {
	return &UserService{
		userRepo:   deps.Users,
		postRepo:   deps.Posts,
		followRepo: deps.Follows,
		uow:        deps.UoW,
		hasher:     deps.Hasher,
		blobs:      deps.Blobs,
		cache:      deps.Cache,
		clock:      deps.Clock,
		recorder:   recorderOrNoop(deps.Recorder),
		logger:     deps.Logger,
	}
}

// RegisterInput representa os dados de auto-cadastro
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// CreateUserInput representa os dados para um admin criar uma conta
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// UpdateProfileInput contém os campos editáveis do próprio perfil.
// Campos nil não são alterados.
type UpdateProfileInput struct {
	Username *string
	AboutMe  *string
}

// Register cria uma conta com papel user
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*entities.User, error) {
	return s.createUser(ctx, input.Username, input.Email, input.Password, entities.RoleUser)
}

// CreateUser cria uma conta com qualquer papel; exige permissão de gestão de usuários
func (s *UserService) CreateUser(ctx context.Context, actor entities.Actor, input CreateUserInput) (*entities.User, error) {
	if err := require(actor, entities.PermissionManageUsers); err != nil {
		return nil, err
	}

	role, ok := entities.ParseRole(input.Role)
	if !ok {
		return nil, domainerrors.ErrInvalidRole
	}

	user, err := s.createUser(ctx, input.Username, input.Email, input.Password, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created by admin", "admin_id", actor.ID, "user_id", user.ID, "role", role)
	return user, nil
}

func (s *UserService) createUser(ctx context.Context, username, email, password string, role entities.Role) (*entities.User, error) {
	username = strings.TrimSpace(username)
	if err := entities.ValidateUsername(username); err != nil {
		return nil, err
	}
	addr, err := valueobjects.NewEmail(email)
	if err != nil {
		return nil, err
	}
	if err := entities.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, storageFailure(s.logger, "failed to hash password", err)
	}

	user := &entities.User{
		Username:     username,
		Email:        addr,
		PasswordHash: hash,
		Role:         role,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	err = s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.userRepo.FindByUsername(txCtx, username)
		if err != nil {
			return err
		}
		if existing != nil {
			return domainerrors.ErrUsernameTaken
		}

		existing, err = s.userRepo.FindByEmail(txCtx, addr.String())
		if err != nil {
			return err
		}
		if existing != nil {
			return domainerrors.ErrEmailAlreadyExists
		}

		return s.userRepo.Create(txCtx, user)
	})
	if errors.Is(err, domainerrors.ErrUsernameTaken) {
		err = s.duplicateField(ctx, username, addr.String())
	}
	if err != nil {
		return nil, passThrough(s.logger, "failed to create user", err, "username", username)
	}

	s.recorder.Record(ports.ActionUserCreated)
	s.logger.Info("user created", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return user, nil
}

// Authenticate verifica usuário e senha. Usuário inexistente e senha errada são indistinguíveis.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*entities.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, storageFailure(s.logger, "failed to load user", err, "username", username)
	}
	if user == nil || !s.hasher.Compare(user.PasswordHash, password) {
		s.logger.Warn("failed login attempt", "username", username)
		return nil, domainerrors.ErrInvalidCredentials
	}
	return user, nil
}

// GetUser busca um usuário por ID
func (s *UserService) GetUser(ctx context.Context, id int64) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storageFailure(s.logger, "failed to load user", err, "user_id", id)
	}
	if user == nil {
		return nil, domainerrors.ErrUserNotFound
	}
	return user, nil
}

// GetUserByUsername busca um usuário pelo username exato
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, storageFailure(s.logger, "failed to load user", err, "username", username)
	}
	if user == nil {
		return nil, domainerrors.ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile altera username e/ou about_me do próprio ator
func (s *UserService) UpdateProfile(ctx context.Context, actor entities.Actor, input UpdateProfileInput) (*entities.User, error) {
	if err := require(actor, entities.PermissionManageOwnContent); err != nil {
		return nil, err
	}

	var user *entities.User
	err := s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		user, err = s.userRepo.FindByID(txCtx, actor.ID)
		if err != nil {
			return err
		}
		if user == nil {
			return domainerrors.ErrUserNotFound
		}

		if input.Username != nil {
			username := strings.TrimSpace(*input.Username)
			if username != user.Username {
				if err := entities.ValidateUsername(username); err != nil {
					return err
				}
				other, err := s.userRepo.FindByUsername(txCtx, username)
				if err != nil {
					return err
				}
				if other != nil {
					return domainerrors.ErrUsernameTaken
				}
				user.Username = username
			}
		}
		if input.AboutMe != nil {
			about := strings.TrimSpace(*input.AboutMe)
			if about == "" {
				user.AboutMe = nil
			} else {
				user.AboutMe = &about
			}
		}

		if err := user.Validate(); err != nil {
			return err
		}
		return s.userRepo.Update(txCtx, user)
	})
	if err != nil {
		return nil, passThrough(s.logger, "failed to update profile", err, "user_id", actor.ID)
	}

	s.logger.Info("profile updated", "user_id", user.ID)
	return user, nil
}

// ChangeRole altera o papel de outro usuário. O admin original nunca perde o papel.
func (s *UserService) ChangeRole(ctx context.Context, actor entities.Actor, userID int64, role string) (*entities.User, error) {
	if err := require(actor, entities.PermissionManageUsers); err != nil {
		return nil, err
	}
	newRole, ok := entities.ParseRole(role)
	if !ok {
		return nil, domainerrors.ErrInvalidRole
	}

	var user *entities.User
	err := s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		user, err = s.userRepo.FindByID(txCtx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domainerrors.ErrUserNotFound
		}

		if newRole != entities.RoleAdmin {
			first, err := s.userRepo.FindFirstAdmin(txCtx)
			if err != nil {
				return err
			}
			if first != nil && first.ID == user.ID {
				return domainerrors.ErrProtectedAdmin
			}
		}

		user.Role = newRole
		return s.userRepo.Update(txCtx, user)
	})
	if err != nil {
		return nil, passThrough(s.logger, "failed to change role", err, "user_id", userID)
	}

	s.logger.Info("role changed", "admin_id", actor.ID, "user_id", userID, "role", newRole)
	return user, nil
}

// duplicateField descobre qual índice único barrou o cadastro. O índice do banco só informa
// a violação, e a corrida perdida pode ter sido no email.
func (s *UserService) duplicateField(ctx context.Context, username, email string) error {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil || existing != nil {
		return domainerrors.ErrUsernameTaken
	}
	existing, err = s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return domainerrors.ErrEmailAlreadyExists
	}
	return domainerrors.ErrUsernameTaken
}

// TouchLastSeen registra o instante da última requisição autenticada
func (s *UserService) TouchLastSeen(ctx context.Context, userID int64) error {
	if err := s.userRepo.TouchLastSeen(ctx, userID, s.clock.Now()); err != nil {
		return storageFailure(s.logger, "failed to update last_seen", err, "user_id", userID)
	}
	return nil
}

// DeleteUser remove a conta com posts, comentários e arestas de follow numa única transação.
// O admin original e o próprio ator não podem ser removidos.
func (s *UserService) DeleteUser(ctx context.Context, actor entities.Actor, userID int64) error {
	if err := require(actor, entities.PermissionManageUsers); err != nil {
		return err
	}
	if userID == actor.ID {
		return domainerrors.ErrSelfDelete
	}

	var (
		imageKeys []string
		neighbors []int64
	)
	err := s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		user, err := s.userRepo.FindByID(txCtx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domainerrors.ErrUserNotFound
		}

		first, err := s.userRepo.FindFirstAdmin(txCtx)
		if err != nil {
			return err
		}
		if first != nil && first.ID == userID {
			return domainerrors.ErrProtectedAdmin
		}

		if imageKeys, err = s.postRepo.ImageKeysByAuthor(txCtx, userID); err != nil {
			return err
		}
		if neighbors, err = s.followRepo.Neighbors(txCtx, userID); err != nil {
			return err
		}

		return s.userRepo.Delete(txCtx, userID)
	})
	if err != nil {
		return passThrough(s.logger, "failed to delete user", err, "user_id", userID)
	}

	removeBlobs(ctx, s.blobs, s.logger, imageKeys...)

	keys := []string{followersKey(userID), followingKey(userID)}
	for _, id := range neighbors {
		keys = append(keys, followersKey(id), followingKey(id))
	}
	invalidateCounts(ctx, s.cache, s.logger, keys...)

	s.recorder.Record(ports.ActionUserDeleted)
	s.logger.Info("user deleted", "admin_id", actor.ID, "user_id", userID, "images_removed", len(imageKeys))
	return nil
}

// EnsureAdmin garante que exista um admin com o username informado.
// Retorna created=false quando a conta já existia (promovida a admin se necessário).
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) (*entities.User, bool, error) {
	existing, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, false, storageFailure(s.logger, "failed to load user", err, "username", username)
	}

	if existing != nil {
		if existing.Role == entities.RoleAdmin {
			return existing, false, nil
		}
		existing.Role = entities.RoleAdmin
		if err := s.userRepo.Update(ctx, existing); err != nil {
			return nil, false, passThrough(s.logger, "failed to promote admin", err, "user_id", existing.ID)
		}
		s.logger.Info("user promoted to admin", "user_id", existing.ID)
		return existing, false, nil
	}

	user, err := s.createUser(ctx, username, email, password, entities.RoleAdmin)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}
