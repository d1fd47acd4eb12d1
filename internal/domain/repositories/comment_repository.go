package repositories

import (
	"context"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
)

// CommentRepository define a interface para persistência de comentários
type CommentRepository interface {
	Create(ctx context.Context, comment *entities.Comment) error
	FindByID(ctx context.Context, id int64) (*entities.Comment, error)
	Delete(ctx context.Context, id int64) error
	ListByPost(ctx context.Context, postID int64, page, pageSize int) ([]*entities.Comment, int64, error)
}
