package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	domainerrors "github.com/rafabene/avantpro-social/internal/domain/errors"
	"github.com/rafabene/avantpro-social/internal/infrastructure/logging"
)

type fakeTokens map[string]int64

func (f fakeTokens) Parse(token string) (int64, error) {
	if id, ok := f[token]; ok {
		return id, nil
	}
	return 0, errors.New("invalid token")
}

type fakeUsers struct {
	users   map[int64]*entities.User
	touched []int64
}

func (f *fakeUsers) GetUser(_ context.Context, id int64) (*entities.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, domainerrors.ErrUserNotFound
}

func (f *fakeUsers) TouchLastSeen(_ context.Context, id int64) error {
	f.touched = append(f.touched, id)
	return nil
}

func newTestAuth() (*AuthMiddleware, *fakeUsers) {
	users := &fakeUsers{users: map[int64]*entities.User{
		7: {ID: 7, Username: "ana", Role: entities.RoleAnalyst},
	}}
	// token de um usuário removido depois da emissão
	tokens := fakeTokens{"good": 7, "orphan": 99}
	deny := func(c *gin.Context) { c.String(http.StatusUnauthorized, "denied") }
	return NewAuthMiddleware(tokens, users, deny, logging.NewSlogLoggerTo(io.Discard, "error")), users
}

func actorEcho(c *gin.Context) {
	actor := ActorFrom(c)
	c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": actor.Role})
}

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		header string
		url    string
		status int
	}{
		{"aceita bearer válido", "Bearer good", "/", http.StatusOK},
		{"scheme é case-insensitive", "bearer good", "/", http.StatusOK},
		{"aceita token na query para websocket", "", "/?access_token=good", http.StatusOK},
		{"rejeita sem header", "", "/", http.StatusUnauthorized},
		{"rejeita scheme diferente", "Basic good", "/", http.StatusUnauthorized},
		{"rejeita token inválido", "Bearer nope", "/", http.StatusUnauthorized},
		{"rejeita usuário inexistente", "Bearer orphan", "/", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth, users := newTestAuth()
			router := gin.New()
			router.GET("/", auth.RequireAuth(), actorEcho)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"id":7,"role":"analyst"}`, w.Body.String())
				assert.Equal(t, []int64{7}, users.touched)
			} else {
				assert.Equal(t, "denied", w.Body.String())
				assert.Empty(t, users.touched)
			}
		})
	}
}

func TestAuthMiddleware_Identify(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth, _ := newTestAuth()
	router := gin.New()
	router.GET("/", auth.Identify(), actorEcho)

	t.Run("segue anônimo sem token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":0,"role":""}`, w.Body.String())
	})

	t.Run("segue anônimo com token inválido", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":0,"role":""}`, w.Body.String())
	})

	t.Run("resolve o ator com token válido", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.JSONEq(t, `{"id":7,"role":"analyst"}`, w.Body.String())
	})
}

func TestUserFrom(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := UserFrom(c)
	assert.False(t, ok)

	c.Set(UserContextKey, &entities.User{ID: 3})
	user, ok := UserFrom(c)
	assert.True(t, ok)
	assert.Equal(t, int64(3), user.ID)
}
