package repositories

import (
	"context"
	"time"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
)

// UserRepository define a interface para persistência de usuários.
// Find* retorna (nil, nil) quando o registro não existe.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	FindByID(ctx context.Context, id int64) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	FindFirstAdmin(ctx context.Context) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	TouchLastSeen(ctx context.Context, id int64, at time.Time) error
	// Delete remove o usuário com seus posts, comentários e arestas de follow
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filters UserFilters) ([]*entities.User, int64, error)
	Count(ctx context.Context) (int64, error)
	CountActiveSince(ctx context.Context, since time.Time) (int64, error)
}

// UserFilters contém filtros para listagem de usuários
type UserFilters struct {
	Username string // substring, case-insensitive
	Role     *entities.Role
	Page     int // Página (começa em 1)
	PageSize int // Itens por página; <= 0 retorna todos
}
