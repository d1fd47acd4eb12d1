package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	"github.com/rafabene/avantpro-social/internal/domain/repositories"
)

// StatsRepository implementa repositories.StatsRepository
type StatsRepository struct {
	db *gorm.DB
}

// NewStatsRepository cria um novo StatsRepository
func NewStatsRepository(db *gorm.DB) repositories.StatsRepository {
	return &StatsRepository{db: db}
}

// Metrics calcula os totais globais, sem nenhum filtro
func (r *StatsRepository) Metrics(ctx context.Context) (entities.Metrics, error) {
	var m entities.Metrics
	db := getDB(ctx, r.db)

	if err := db.Model(&PostModel{}).Count(&m.TotalPosts).Error; err != nil {
		return m, err
	}
	if err := db.Model(&PostModel{}).Where("is_approved = ?", false).Count(&m.PendingPosts).Error; err != nil {
		return m, err
	}
	if err := db.Model(&UserModel{}).Count(&m.TotalUsers).Error; err != nil {
		return m, err
	}
	if err := db.Model(&PostModel{}).Where("image IS NOT NULL AND image <> ''").Count(&m.PostsWithImage).Error; err != nil {
		return m, err
	}

	return m, nil
}

func (r *StatsRepository) PostStamps(ctx context.Context) ([]repositories.PostStamp, error) {
	var rows []struct {
		Timestamp  time.Time
		IsApproved bool
	}
	err := getDB(ctx, r.db).Model(&PostModel{}).
		Select("timestamp", "is_approved").
		Order("timestamp ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stamps := make([]repositories.PostStamp, 0, len(rows))
	for _, row := range rows {
		stamps = append(stamps, repositories.PostStamp{Timestamp: row.Timestamp.UTC(), IsApproved: row.IsApproved})
	}
	return stamps, nil
}

func (r *StatsRepository) LastSeenStamps(ctx context.Context) ([]time.Time, error) {
	var stamps []time.Time
	err := getDB(ctx, r.db).Model(&UserModel{}).
		Where("last_seen IS NOT NULL").
		Order("last_seen ASC").
		Pluck("last_seen", &stamps).Error
	if err != nil {
		return nil, err
	}
	return stamps, nil
}

// TopPosters agrupa posts por autor; empate resolvido pelo menor id
func (r *StatsRepository) TopPosters(ctx context.Context, limit int) ([]entities.PosterCount, error) {
	var rows []struct {
		UserID    int64
		Username  string
		PostCount int64
	}
	err := getDB(ctx, r.db).Table("users").
		Select("users.id AS user_id, users.username AS username, COUNT(posts.id) AS post_count").
		Joins("JOIN posts ON posts.user_id = users.id").
		Group("users.id, users.username").
		Order("post_count DESC, users.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	top := make([]entities.PosterCount, 0, len(rows))
	for _, row := range rows {
		top = append(top, entities.PosterCount{UserID: row.UserID, Username: row.Username, PostCount: row.PostCount})
	}
	return top, nil
}

func (r *StatsRepository) PostCountsByAuthor(ctx context.Context, authorIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		UserID    int64
		PostCount int64
	}
	err := getDB(ctx, r.db).Model(&PostModel{}).
		Select("user_id, COUNT(id) AS post_count").
		Where("user_id IN ?", authorIDs).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.UserID] = row.PostCount
	}
	return counts, nil
}
