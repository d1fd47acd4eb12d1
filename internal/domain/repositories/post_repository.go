package repositories

import (
	"context"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
)

// PostRepository define a interface para persistência de posts
type PostRepository interface {
	Create(ctx context.Context, post *entities.Post) error
	FindByID(ctx context.Context, id int64) (*entities.Post, error)
	Update(ctx context.Context, post *entities.Post) error
	Approve(ctx context.Context, id int64) error
	// Delete remove o post e seus comentários
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filters PostFilters) ([]*entities.Post, int64, error)
	// Feed retorna posts aprovados do usuário e de quem ele segue
	Feed(ctx context.Context, userID int64, page, pageSize int) ([]*entities.Post, int64, error)
	ImageKeysByAuthor(ctx context.Context, authorID int64) ([]string, error)
}

// PostFilters contém filtros para listagem de posts
type PostFilters struct {
	Status   entities.PostStatusFilter
	Order    entities.PostOrder
	Username string // substring do autor, case-insensitive
	AuthorID *int64
	Search   string // substring de título ou corpo, case-insensitive
	Page     int
	PageSize int // <= 0 retorna todos
}
