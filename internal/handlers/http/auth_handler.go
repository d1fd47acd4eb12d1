package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	"github.com/rafabene/avantpro-social/internal/handlers/dto"
	"github.com/rafabene/avantpro-social/internal/services"
)

// TokenIssuer emite o access token de um usuário autenticado
type TokenIssuer interface {
	Issue(user *entities.User) (string, time.Time, error)
}

// AuthHandler lida com cadastro e login
type AuthHandler struct {
	userService *services.UserService
	tokens      TokenIssuer
}

// NewAuthHandler cria um novo AuthHandler
func NewAuthHandler(userService *services.UserService, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{userService: userService, tokens: tokens}
}

// Register cria uma conta com papel user
//
//	@Summary	Cadastro
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dto.RegisterRequest	true	"Dados da conta"
//	@Success	201		{object}	dto.TokenResponse
//	@Failure	400		{object}	dto.ErrorResponse
//	@Failure	409		{object}	dto.ErrorResponse
//	@Router		/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondToken(c, http.StatusCreated, user)
}

// Login troca usuário e senha por um access token
//
//	@Summary	Login
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dto.LoginRequest	true	"Credenciais"
//	@Success	200		{object}	dto.TokenResponse
//	@Failure	401		{object}	dto.ErrorResponse
//	@Router		/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondToken(c, http.StatusOK, user)
}

func (h *AuthHandler) respondToken(c *gin.Context, status int, user *entities.User) {
	token, expiresAt, err := h.tokens.Issue(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(status, dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        dto.ToUserResponse(user),
	})
}
