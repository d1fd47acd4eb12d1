package repositories

import (
	"context"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
)

// FollowRepository é o conjunto de arestas (follower, followed) consultado nas duas direções
type FollowRepository interface {
	// Add é idempotente: aresta existente não gera erro
	Add(ctx context.Context, followerID, followedID int64) error
	// Remove é idempotente: aresta inexistente não gera erro
	Remove(ctx context.Context, followerID, followedID int64) error
	Exists(ctx context.Context, followerID, followedID int64) (bool, error)
	CountFollowers(ctx context.Context, userID int64) (int64, error)
	CountFollowing(ctx context.Context, userID int64) (int64, error)
	Followers(ctx context.Context, userID int64, page, pageSize int) ([]*entities.User, int64, error)
	Following(ctx context.Context, userID int64, page, pageSize int) ([]*entities.User, int64, error)
	// Neighbors retorna todos os ids ligados ao usuário em qualquer direção
	Neighbors(ctx context.Context, userID int64) ([]int64, error)
}
