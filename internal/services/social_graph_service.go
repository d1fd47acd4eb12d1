package services

import (
	"context"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	domainerrors "github.com/rafabene/avantpro-social/internal/domain/errors"
	"github.com/rafabene/avantpro-social/internal/domain/ports"
	"github.com/rafabene/avantpro-social/internal/domain/repositories"
)

// SocialGraphService mantém a relação de follow e monta o feed
type SocialGraphService struct {
	userRepo   repositories.UserRepository
	followRepo repositories.FollowRepository
	postRepo   repositories.PostRepository
	uow        ports.UnitOfWork
	cache      ports.CounterCache
	recorder   ports.ActionRecorder
	logger     ports.Logger
	pageSize   int
}

// SocialGraphDeps agrupa as dependências do SocialGraphService. Cache e Recorder são opcionais.
type SocialGraphDeps struct {
	Users    repositories.UserRepository
	Follows  repositories.FollowRepository
	Posts    repositories.PostRepository
	UoW      ports.UnitOfWork
	Cache    ports.CounterCache
	Recorder ports.ActionRecorder
	Logger   ports.Logger
	PageSize int
}

// NewSocialGraphService cria um novo SocialGraphService
func NewSocialGraphService(deps SocialGraphDeps) *SocialGraphService {
	return &SocialGraphService{
		userRepo:   deps.Users,
		followRepo: deps.Follows,
		postRepo:   deps.Posts,
		uow:        deps.UoW,
		cache:      deps.Cache,
		recorder:   recorderOrNoop(deps.Recorder),
		logger:     deps.Logger,
		pageSize:   pageSizeOrDefault(deps.PageSize),
	}
}

// Follow cria a aresta actor -> target. Seguir de novo não é erro.
func (s *SocialGraphService) Follow(ctx context.Context, actor entities.Actor, targetID int64) error {
	if err := require(actor, entities.PermissionSocial); err != nil {
		return err
	}
	if targetID == actor.ID {
		return domainerrors.ErrSelfFollow
	}

	err := s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.ensureUser(txCtx, targetID); err != nil {
			return err
		}
		return s.followRepo.Add(txCtx, actor.ID, targetID)
	})
	if err != nil {
		return passThrough(s.logger, "failed to follow user", err, "follower_id", actor.ID, "followed_id", targetID)
	}

	invalidateCounts(ctx, s.cache, s.logger, followersKey(targetID), followingKey(actor.ID))
	s.recorder.Record(ports.ActionFollow)
	s.logger.Info("user followed", "follower_id", actor.ID, "followed_id", targetID)
	return nil
}

// Unfollow remove a aresta actor -> target. Remover aresta inexistente não é erro.
func (s *SocialGraphService) Unfollow(ctx context.Context, actor entities.Actor, targetID int64) error {
	if err := require(actor, entities.PermissionSocial); err != nil {
		return err
	}
	if targetID == actor.ID {
		return domainerrors.ErrSelfFollow
	}

	err := s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.ensureUser(txCtx, targetID); err != nil {
			return err
		}
		return s.followRepo.Remove(txCtx, actor.ID, targetID)
	})
	if err != nil {
		return passThrough(s.logger, "failed to unfollow user", err, "follower_id", actor.ID, "followed_id", targetID)
	}

	invalidateCounts(ctx, s.cache, s.logger, followersKey(targetID), followingKey(actor.ID))
	s.recorder.Record(ports.ActionUnfollow)
	s.logger.Info("user unfollowed", "follower_id", actor.ID, "followed_id", targetID)
	return nil
}

// IsFollowing verifica se existe a aresta follower -> target
func (s *SocialGraphService) IsFollowing(ctx context.Context, followerID, targetID int64) (bool, error) {
	ok, err := s.followRepo.Exists(ctx, followerID, targetID)
	if err != nil {
		return false, storageFailure(s.logger, "failed to check follow", err, "follower_id", followerID, "followed_id", targetID)
	}
	return ok, nil
}

// FollowersCount retorna quantos usuários seguem userID
func (s *SocialGraphService) FollowersCount(ctx context.Context, userID int64) (int64, error) {
	return s.count(ctx, followersKey(userID), func(ctx context.Context) (int64, error) {
		return s.followRepo.CountFollowers(ctx, userID)
	})
}

// FollowingCount retorna quantos usuários userID segue
func (s *SocialGraphService) FollowingCount(ctx context.Context, userID int64) (int64, error) {
	return s.count(ctx, followingKey(userID), func(ctx context.Context) (int64, error) {
		return s.followRepo.CountFollowing(ctx, userID)
	})
}

// count consulta o cache antes do banco; qualquer falha do cache cai para o banco.
// A versão lida antes da consulta impede gravar uma contagem anterior a um follow concorrente.
func (s *SocialGraphService) count(ctx context.Context, key string, load func(context.Context) (int64, error)) (int64, error) {
	cached := s.cache != nil
	var version int64
	if cached {
		value, v, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.logger.Warn("counter cache unavailable", "key", key, "error", err)
			cached = false
		case ok:
			return value, nil
		default:
			version = v
		}
	}

	value, err := load(ctx)
	if err != nil {
		return 0, storageFailure(s.logger, "failed to count follows", err, "key", key)
	}

	if cached {
		if err := s.cache.Set(ctx, key, value, version); err != nil {
			s.logger.Warn("failed to cache counter", "key", key, "error", err)
		}
	}
	return value, nil
}

// Feed retorna os posts aprovados do próprio usuário e de quem ele segue, mais recentes primeiro
func (s *SocialGraphService) Feed(ctx context.Context, actor entities.Actor, page int) (entities.Page[*entities.Post], error) {
	if err := require(actor, entities.PermissionSocial); err != nil {
		return entities.Page[*entities.Post]{}, err
	}

	req := entities.PageRequest{Page: page}.Normalize(s.pageSize)
	posts, total, err := s.postRepo.Feed(ctx, actor.ID, req.Page, req.PageSize)
	if err != nil {
		return entities.Page[*entities.Post]{}, storageFailure(s.logger, "failed to load feed", err, "user_id", actor.ID)
	}
	return entities.NewPage(posts, req, total), nil
}

// Followers lista quem segue userID, por username
func (s *SocialGraphService) Followers(ctx context.Context, userID int64, page int) (entities.Page[*entities.User], error) {
	return s.listUsers(ctx, userID, page, s.followRepo.Followers)
}

// Following lista quem userID segue, por username
func (s *SocialGraphService) Following(ctx context.Context, userID int64, page int) (entities.Page[*entities.User], error) {
	return s.listUsers(ctx, userID, page, s.followRepo.Following)
}

type userLister func(ctx context.Context, userID int64, page, pageSize int) ([]*entities.User, int64, error)

func (s *SocialGraphService) listUsers(ctx context.Context, userID int64, page int, list userLister) (entities.Page[*entities.User], error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return entities.Page[*entities.User]{}, passThrough(s.logger, "failed to load user", err, "user_id", userID)
	}

	req := entities.PageRequest{Page: page}.Normalize(s.pageSize)
	users, total, err := list(ctx, userID, req.Page, req.PageSize)
	if err != nil {
		return entities.Page[*entities.User]{}, storageFailure(s.logger, "failed to list follows", err, "user_id", userID)
	}
	return entities.NewPage(users, req, total), nil
}

func (s *SocialGraphService) ensureUser(ctx context.Context, id int64) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domainerrors.ErrUserNotFound
	}
	return nil
}
