package services

import (
	"context"
	"time"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	domainerrors "github.com/rafabene/avantpro-social/internal/domain/errors"
	"github.com/rafabene/avantpro-social/internal/domain/ports"
	"github.com/rafabene/avantpro-social/internal/domain/repositories"
)

// ModerationService controla aprovação e remoção de conteúdo.
// Alvos inexistentes são no-op silencioso.
type ModerationService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	userRepo    repositories.UserRepository
	uow         ports.UnitOfWork
	blobs       ports.BlobStore
	publisher   ports.EventPublisher
	recorder    ports.ActionRecorder
	clock       ports.Clock
	logger      ports.Logger
	pageSize    int
}

// ModerationDeps agrupa as dependências do ModerationService.
// Blobs, Publisher e Recorder são opcionais.
type ModerationDeps struct {
	Posts     repositories.PostRepository
	Comments  repositories.CommentRepository
	Users     repositories.UserRepository
	UoW       ports.UnitOfWork
	Blobs     ports.BlobStore
	Publisher ports.EventPublisher
	Recorder  ports.ActionRecorder
	Clock     ports.Clock
	Logger    ports.Logger
	PageSize  int
}

// NewModerationService cria um novo ModerationService
func NewModerationService(deps ModerationDeps) *ModerationService {
	return &ModerationService{
		postRepo:    deps.Posts,
		commentRepo: deps.Comments,
		userRepo:    deps.Users,
		uow:         deps.UoW,
		blobs:       deps.Blobs,
		publisher:   publisherOrNoop(deps.Publisher),
		recorder:    recorderOrNoop(deps.Recorder),
		clock:       deps.Clock,
		logger:      deps.Logger,
		pageSize:    pageSizeOrDefault(deps.PageSize),
	}
}

// ApprovePost marca o post como aprovado. Aprovar de novo não muda nada.
func (s *ModerationService) ApprovePost(ctx context.Context, actor entities.Actor, postID int64) error {
	if err := require(actor, entities.PermissionModerateContent); err != nil {
		return err
	}

	var approved bool
	err := s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		post, err := s.postRepo.FindByID(txCtx, postID)
		if err != nil || post == nil || post.IsApproved {
			return err
		}
		approved = true
		return s.postRepo.Approve(txCtx, postID)
	})
	if err != nil {
		return storageFailure(s.logger, "failed to approve post", err, "post_id", postID)
	}

	if approved {
		s.recorder.Record(ports.ActionPostApproved)
		s.publisher.Publish(ports.Event{
			Type:    ports.EventPostApproved,
			Payload: map[string]any{"post_id": postID, "moderator_id": actor.ID},
		})
		s.logger.Info("post approved", "post_id", postID, "moderator_id", actor.ID)
	}
	return nil
}

// DeletePost remove qualquer post com seus comentários
func (s *ModerationService) DeletePost(ctx context.Context, actor entities.Actor, postID int64) error {
	if err := require(actor, entities.PermissionModerateContent); err != nil {
		return err
	}
	return s.deletePost(ctx, actor, postID, nil)
}

// DeletePostByAuthor remove o próprio post, aprovado ou não
func (s *ModerationService) DeletePostByAuthor(ctx context.Context, actor entities.Actor, postID int64) error {
	if err := require(actor, entities.PermissionManageOwnContent); err != nil {
		return err
	}
	return s.deletePost(ctx, actor, postID, func(post *entities.Post) error {
		if post.AuthorID != actor.ID {
			return domainerrors.ErrForbidden
		}
		return nil
	})
}

func (s *ModerationService) deletePost(ctx context.Context, actor entities.Actor, postID int64, check func(*entities.Post) error) error {
	var deleted *entities.Post
	err := s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		post, err := s.postRepo.FindByID(txCtx, postID)
		if err != nil || post == nil {
			return err
		}
		if check != nil {
			if err := check(post); err != nil {
				return err
			}
		}
		deleted = post
		return s.postRepo.Delete(txCtx, postID)
	})
	if err != nil {
		return passThrough(s.logger, "failed to delete post", err, "post_id", postID)
	}
	if deleted == nil {
		return nil
	}

	if deleted.HasImage() {
		removeBlobs(ctx, s.blobs, s.logger, *deleted.Image)
	}

	s.recorder.Record(ports.ActionPostDeleted)
	s.publisher.Publish(ports.Event{
		Type:    ports.EventPostDeleted,
		Payload: map[string]any{"post_id": postID, "deleted_by": actor.ID},
	})
	s.logger.Info("post deleted", "post_id", postID, "actor_id", actor.ID, "author_id", deleted.AuthorID)
	return nil
}

// DeleteComment remove qualquer comentário
func (s *ModerationService) DeleteComment(ctx context.Context, actor entities.Actor, commentID int64) error {
	if err := require(actor, entities.PermissionModerateContent); err != nil {
		return err
	}
	return s.deleteComment(ctx, actor, commentID, nil)
}

// DeleteCommentByAuthor remove o próprio comentário
func (s *ModerationService) DeleteCommentByAuthor(ctx context.Context, actor entities.Actor, commentID int64) error {
	if err := require(actor, entities.PermissionManageOwnContent); err != nil {
		return err
	}
	return s.deleteComment(ctx, actor, commentID, func(comment *entities.Comment) error {
		if comment.AuthorID != actor.ID {
			return domainerrors.ErrForbidden
		}
		return nil
	})
}

func (s *ModerationService) deleteComment(ctx context.Context, actor entities.Actor, commentID int64, check func(*entities.Comment) error) error {
	var found bool
	err := s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		comment, err := s.commentRepo.FindByID(txCtx, commentID)
		if err != nil || comment == nil {
			return err
		}
		if check != nil {
			if err := check(comment); err != nil {
				return err
			}
		}
		found = true
		return s.commentRepo.Delete(txCtx, commentID)
	})
	if err != nil {
		return passThrough(s.logger, "failed to delete comment", err, "comment_id", commentID)
	}

	if found {
		s.recorder.Record(ports.ActionCommentDeleted)
		s.logger.Info("comment deleted", "comment_id", commentID, "actor_id", actor.ID)
	}
	return nil
}

// PendingQueue monta o dashboard: posts pendentes, total de usuários e ativos nas últimas 24h
func (s *ModerationService) PendingQueue(ctx context.Context, actor entities.Actor, page int) (entities.Dashboard, error) {
	if err := require(actor, entities.PermissionAdminViews); err != nil {
		return entities.Dashboard{}, err
	}

	req := entities.PageRequest{Page: page}.Normalize(s.pageSize)
	posts, total, err := s.postRepo.List(ctx, repositories.PostFilters{
		Status:   entities.PostStatusPending,
		Order:    entities.OrderTimestampDesc,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return entities.Dashboard{}, storageFailure(s.logger, "failed to list pending posts", err)
	}

	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return entities.Dashboard{}, storageFailure(s.logger, "failed to count users", err)
	}

	activeToday, err := s.userRepo.CountActiveSince(ctx, s.clock.Now().Add(-24*time.Hour))
	if err != nil {
		return entities.Dashboard{}, storageFailure(s.logger, "failed to count active users", err)
	}

	return entities.Dashboard{
		Pending:     entities.NewPage(posts, req, total),
		TotalUsers:  totalUsers,
		ActiveToday: activeToday,
	}, nil
}
