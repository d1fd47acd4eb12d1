package postgres

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	"github.com/rafabene/avantpro-social/internal/domain/valueobjects"
	"github.com/rafabene/avantpro-social/internal/infrastructure/config"
	"github.com/rafabene/avantpro-social/internal/infrastructure/logging"
)

var dbCounter atomic.Int64

// newTestDB abre um SQLite em memória isolado por teste, com o schema migrado
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: fmt.Sprintf("file:repo_%d?mode=memory&cache=shared", dbCounter.Add(1)),
	}
	db, err := NewDatabaseConnection(cfg, logging.NewSlogLoggerTo(io.Discard, "error"))
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	t        *testing.T
	ctx      context.Context
	users    *UserRepository
	posts    *PostRepository
	comments *CommentRepository
	follows  *FollowRepository
	stats    *StatsRepository
	uow      *UnitOfWork
	db       *gorm.DB
	seq      int
}

func newFixture(t *testing.T) *fixture {
	return fixtureFor(t, newTestDB(t))
}

func fixtureFor(t *testing.T, db *gorm.DB) *fixture {
	return &fixture{
		t:        t,
		ctx:      context.Background(),
		users:    NewUserRepository(db).(*UserRepository),
		posts:    NewPostRepository(db).(*PostRepository),
		comments: NewCommentRepository(db).(*CommentRepository),
		follows:  NewFollowRepository(db).(*FollowRepository),
		stats:    NewStatsRepository(db).(*StatsRepository),
		uow:      NewUnitOfWork(db).(*UnitOfWork),
		db:       db,
	}
}

func (f *fixture) user(username string, role entities.Role) *entities.User {
	f.t.Helper()
	email, err := valueobjects.NewEmail(username + "@example.com")
	require.NoError(f.t, err)

	u := &entities.User{Username: username, Email: email, PasswordHash: "hash", Role: role}
	require.NoError(f.t, f.users.Create(f.ctx, u))
	return u
}

// post cria um post com timestamp crescente a cada chamada
func (f *fixture) post(author *entities.User, title string, approved bool) *entities.Post {
	f.t.Helper()
	f.seq++
	return f.postAt(author, title, approved, baseTime.Add(time.Duration(f.seq)*time.Minute))
}

// postAt cria um post com timestamp fixo, para empates de ordenação
func (f *fixture) postAt(author *entities.User, title string, approved bool, at time.Time) *entities.Post {
	f.t.Helper()
	p := &entities.Post{
		Title:      title,
		Body:       "body of " + title,
		Timestamp:  at,
		AuthorID:   author.ID,
		IsApproved: approved,
	}
	require.NoError(f.t, f.posts.Create(f.ctx, p))
	return p
}

func (f *fixture) comment(author *entities.User, post *entities.Post, body string) *entities.Comment {
	f.t.Helper()
	f.seq++
	c := &entities.Comment{
		Body:      body,
		Timestamp: baseTime.Add(time.Duration(f.seq) * time.Minute),
		AuthorID:  author.ID,
		PostID:    post.ID,
	}
	require.NoError(f.t, f.comments.Create(f.ctx, c))
	return c
}

func (f *fixture) follow(follower, followed *entities.User) {
	f.t.Helper()
	require.NoError(f.t, f.follows.Add(f.ctx, follower.ID, followed.ID))
}

func postIDs(posts []*entities.Post) []int64 {
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func usernames(users []*entities.User) []string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	return names
}

func mustEmailForTest(t *testing.T, s string) valueobjects.Email {
	t.Helper()
	email, err := valueobjects.NewEmail(s)
	require.NoError(t, err)
	return email
}
