package repositories

import (
	"context"
	"time"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
)

// PostStamp é o mínimo necessário para agregar posts por dia
type PostStamp struct {
	Timestamp  time.Time
	IsApproved bool
}

// StatsRepository concentra as consultas agregadas dos relatórios
type StatsRepository interface {
	Metrics(ctx context.Context) (entities.Metrics, error)
	PostStamps(ctx context.Context) ([]PostStamp, error)
	LastSeenStamps(ctx context.Context) ([]time.Time, error)
	TopPosters(ctx context.Context, limit int) ([]entities.PosterCount, error)
	PostCountsByAuthor(ctx context.Context, authorIDs []int64) (map[int64]int64, error)
}
