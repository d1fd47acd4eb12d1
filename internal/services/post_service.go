package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	domainerrors "github.com/rafabene/avantpro-social/internal/domain/errors"
	"github.com/rafabene/avantpro-social/internal/domain/ports"
	"github.com/rafabene/avantpro-social/internal/domain/repositories"
)

// MaxImageSize é o maior upload aceito (5 MiB)
const MaxImageSize = 5 << 20

var errNoBlobStore = errors.New("blob store not configured")

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// PostService cuida da autoria de posts e comentários e das listagens públicas
type PostService struct {
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

// PostServiceDeps agrupa as dependências do PostService. Publisher e Recorder são opcionais.
type PostServiceDeps struct {
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

// NewPostService cria um novo PostService
func NewPostService(deps PostServiceDeps) *PostService {
	return &PostService{
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

// ImageUpload é a imagem opcional enviada junto com um post
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// CreatePostInput representa os dados para criar um post
type CreatePostInput struct {
	Title string
	Body  string
	Image *ImageUpload
}

// CreatePost cria um post. Posts de quem pode moderar já nascem aprovados.
func (s *PostService) CreatePost(ctx context.Context, actor entities.Actor, input CreatePostInput) (*entities.Post, error) {
	if err := require(actor, entities.PermissionManageOwnContent); err != nil {
		return nil, err
	}

	post := &entities.Post{
		Title:      strings.TrimSpace(input.Title),
		Body:       strings.TrimSpace(input.Body),
		Timestamp:  s.clock.Now(),
		AuthorID:   actor.ID,
		IsApproved: entities.Can(actor, entities.PermissionModerateContent),
	}
	if err := post.Validate(); err != nil {
		return nil, err
	}

	var imageKey string
	if input.Image != nil {
		key, err := s.storeImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		imageKey = key
		post.Image = &imageKey
	}

	err := s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		author, err := s.userRepo.FindByID(txCtx, actor.ID)
		if err != nil {
			return err
		}
		if author == nil {
			return domainerrors.ErrUserNotFound
		}
		post.AuthorUsername = author.Username
		return s.postRepo.Create(txCtx, post)
	})
	if err != nil {
		removeBlobs(ctx, s.blobs, s.logger, imageKey)
		return nil, passThrough(s.logger, "failed to create post", err, "author_id", actor.ID)
	}

	s.recorder.Record(ports.ActionPostCreated)
	if !post.IsApproved {
		s.publisher.Publish(ports.Event{
			Type: ports.EventPostPending,
			Payload: map[string]any{
				"post_id": post.ID,
				"title":   post.Title,
				"author":  post.AuthorUsername,
			},
		})
	}
	s.logger.Info("post created", "post_id", post.ID, "author_id", actor.ID, "approved", post.IsApproved)
	return post, nil
}

func (s *PostService) storeImage(ctx context.Context, image *ImageUpload) (string, error) {
	ext := strings.ToLower(filepath.Ext(image.Filename))
	if !allowedImageExtensions[ext] || image.Size <= 0 || image.Size > MaxImageSize || image.Content == nil {
		return "", domainerrors.ErrInvalidImage
	}
	if s.blobs == nil {
		return "", storageFailure(s.logger, "failed to store image", errNoBlobStore)
	}

	key := uuid.NewString() + ext
	if err := s.blobs.Save(ctx, key, image.Content, image.Size, image.ContentType); err != nil {
		return "", storageFailure(s.logger, "failed to store image", err, "key", key)
	}
	return key, nil
}

// EditPost altera título e corpo do próprio post; o estado de aprovação não muda
func (s *PostService) EditPost(ctx context.Context, actor entities.Actor, postID int64, title, body string) (*entities.Post, error) {
	if err := require(actor, entities.PermissionManageOwnContent); err != nil {
		return nil, err
	}

	var post *entities.Post
	err := s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		post, err = s.postRepo.FindByID(txCtx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return domainerrors.ErrPostNotFound
		}
		if post.AuthorID != actor.ID {
			return domainerrors.ErrForbidden
		}

		post.Title = strings.TrimSpace(title)
		post.Body = strings.TrimSpace(body)
		if err := post.Validate(); err != nil {
			return err
		}
		return s.postRepo.Update(txCtx, post)
	})
	if err != nil {
		return nil, passThrough(s.logger, "failed to edit post", err, "post_id", postID)
	}

	s.logger.Info("post edited", "post_id", postID, "author_id", actor.ID)
	return post, nil
}

// GetPost retorna um post. Posts pendentes só são visíveis ao autor e a moderadores.
func (s *PostService) GetPost(ctx context.Context, viewer entities.Actor, postID int64) (*entities.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, storageFailure(s.logger, "failed to load post", err, "post_id", postID)
	}
	if post == nil || !canSee(viewer, post) {
		return nil, domainerrors.ErrPostNotFound
	}
	return post, nil
}

func canSee(viewer entities.Actor, post *entities.Post) bool {
	if post.IsApproved {
		return true
	}
	return (viewer.ID != 0 && viewer.ID == post.AuthorID) || entities.Can(viewer, entities.PermissionModerateContent)
}

// AddComment comenta um post visível ao ator
func (s *PostService) AddComment(ctx context.Context, actor entities.Actor, postID int64, body string) (*entities.Comment, error) {
	if err := require(actor, entities.PermissionManageOwnContent); err != nil {
		return nil, err
	}

	comment := &entities.Comment{
		Body:      strings.TrimSpace(body),
		Timestamp: s.clock.Now(),
		AuthorID:  actor.ID,
		PostID:    postID,
	}
	if err := comment.Validate(); err != nil {
		return nil, err
	}

	err := s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		post, err := s.postRepo.FindByID(txCtx, postID)
		if err != nil {
			return err
		}
		if post == nil || !canSee(actor, post) {
			return domainerrors.ErrPostNotFound
		}

		author, err := s.userRepo.FindByID(txCtx, actor.ID)
		if err != nil {
			return err
		}
		if author == nil {
			return domainerrors.ErrUserNotFound
		}
		comment.AuthorUsername = author.Username

		return s.commentRepo.Create(txCtx, comment)
	})
	if err != nil {
		return nil, passThrough(s.logger, "failed to add comment", err, "post_id", postID)
	}

	s.recorder.Record(ports.ActionCommentCreated)
	s.logger.Info("comment created", "comment_id", comment.ID, "post_id", postID, "author_id", actor.ID)
	return comment, nil
}

// Comments lista os comentários de um post, mais antigos primeiro
func (s *PostService) Comments(ctx context.Context, viewer entities.Actor, postID int64, page int) (entities.Page[*entities.Comment], error) {
	if _, err := s.GetPost(ctx, viewer, postID); err != nil {
		return entities.Page[*entities.Comment]{}, err
	}

	req := entities.PageRequest{Page: page}.Normalize(s.pageSize)
	comments, total, err := s.commentRepo.ListByPost(ctx, postID, req.Page, req.PageSize)
	if err != nil {
		return entities.Page[*entities.Comment]{}, storageFailure(s.logger, "failed to list comments", err, "post_id", postID)
	}
	return entities.NewPage(comments, req, total), nil
}

// Explore lista todos os posts aprovados, mais recentes primeiro
func (s *PostService) Explore(ctx context.Context, page int) (entities.Page[*entities.Post], error) {
	return s.listPosts(ctx, repositories.PostFilters{Status: entities.PostStatusApproved}, page)
}

// Search procura q no título ou no corpo dos posts aprovados, sem diferenciar maiúsculas
func (s *PostService) Search(ctx context.Context, actor entities.Actor, q string, page int) (entities.Page[*entities.Post], error) {
	if err := require(actor, entities.PermissionSocial); err != nil {
		return entities.Page[*entities.Post]{}, err
	}

	q = strings.TrimSpace(q)
	if q == "" {
		req := entities.PageRequest{Page: page}.Normalize(s.pageSize)
		return entities.NewPage[*entities.Post](nil, req, 0), nil
	}
	return s.listPosts(ctx, repositories.PostFilters{Status: entities.PostStatusApproved, Search: q}, page)
}

// UserPosts lista os posts aprovados de username; o próprio dono também vê os pendentes
func (s *PostService) UserPosts(ctx context.Context, viewer entities.Actor, username string, page int) (entities.Page[*entities.Post], error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return entities.Page[*entities.Post]{}, storageFailure(s.logger, "failed to load user", err, "username", username)
	}
	if user == nil {
		return entities.Page[*entities.Post]{}, domainerrors.ErrUserNotFound
	}

	filters := repositories.PostFilters{Status: entities.PostStatusApproved, AuthorID: &user.ID}
	if viewer.ID != 0 && viewer.ID == user.ID {
		filters.Status = entities.PostStatusAll
	}
	return s.listPosts(ctx, filters, page)
}

func (s *PostService) listPosts(ctx context.Context, filters repositories.PostFilters, page int) (entities.Page[*entities.Post], error) {
	req := entities.PageRequest{Page: page}.Normalize(s.pageSize)
	filters.Order = entities.OrderTimestampDesc
	filters.Page = req.Page
	filters.PageSize = req.PageSize

	posts, total, err := s.postRepo.List(ctx, filters)
	if err != nil {
		return entities.Page[*entities.Post]{}, storageFailure(s.logger, "failed to list posts", err)
	}
	return entities.NewPage(posts, req, total), nil
}
