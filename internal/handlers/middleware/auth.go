package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	"github.com/rafabene/avantpro-social/internal/domain/ports"
)

const (
	// ActorContextKey guarda o entities.Actor autenticado
	ActorContextKey = "actor"
	// UserContextKey guarda o *entities.User autenticado
	UserContextKey = "user"
)

// TokenParser valida um bearer token e devolve o id do usuário
type TokenParser interface {
	Parse(token string) (int64, error)
}

// UserLookup carrega o usuário atual do token e registra a atividade
type UserLookup interface {
	GetUser(ctx context.Context, id int64) (*entities.User, error)
	TouchLastSeen(ctx context.Context, userID int64) error
}

// AuthMiddleware resolve o ator de cada requisição a partir do header Authorization
type AuthMiddleware struct {
	tokens TokenParser
	users  UserLookup
	deny   gin.HandlerFunc
	logger ports.Logger
}

// NewAuthMiddleware cria o middleware. deny escreve a resposta 401 e aborta a requisição.
func NewAuthMiddleware(tokens TokenParser, users UserLookup, deny gin.HandlerFunc, logger ports.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, deny: deny, logger: logger}
}

// RequireAuth rejeita requisições sem token válido
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.identify(c) {
			m.deny(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// Identify resolve o ator quando há token válido e segue como anônimo caso contrário
func (m *AuthMiddleware) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.identify(c)
		c.Next()
	}
}

func (m *AuthMiddleware) identify(c *gin.Context) bool {
	token := bearerToken(c.GetHeader("Authorization"))
	if token == "" {
		// websocket não permite headers no browser
		token = c.Query("access_token")
	}
	if token == "" {
		return false
	}

	userID, err := m.tokens.Parse(token)
	if err != nil {
		return false
	}

	ctx := c.Request.Context()
	user, err := m.users.GetUser(ctx, userID)
	if err != nil {
		return false
	}

	if err := m.users.TouchLastSeen(ctx, user.ID); err != nil {
		m.logger.Warn("failed to touch last_seen", "user_id", user.ID, "error", err)
	}

	c.Set(UserContextKey, user)
	c.Set(ActorContextKey, user.Actor())
	return true
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// ActorFrom retorna o ator da requisição; anônimo (ID 0) quando não autenticado
func ActorFrom(c *gin.Context) entities.Actor {
	if v, ok := c.Get(ActorContextKey); ok {
		if actor, ok := v.(entities.Actor); ok {
			return actor
		}
	}
	return entities.Actor{}
}

// UserFrom retorna o usuário autenticado, se houver
func UserFrom(c *gin.Context) (*entities.User, bool) {
	v, ok := c.Get(UserContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*entities.User)
	return user, ok
}
