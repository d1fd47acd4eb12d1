package dto

import (
	"time"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
)

// RegisterRequest representa o auto-cadastro
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email,max=120"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest representa a requisição de login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse é devolvido no login e no cadastro
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

// CreateUserRequest representa a criação de conta por um admin
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email,max=120"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Role     string `json:"role" binding:"required,oneof=admin analyst user"`
}

// UpdateProfileRequest representa a edição do próprio perfil
type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=64"`
	AboutMe  *string `json:"about_me" binding:"omitempty,max=140"`
}

// ChangeRoleRequest representa a troca de papel de um usuário
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin analyst user"`
}

// UserResponse representa a resposta pública de um usuário
type UserResponse struct {
	ID       int64      `json:"id"`
	Username string     `json:"username"`
	Role     string     `json:"role"`
	AboutMe  *string    `json:"about_me,omitempty"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}

// AdminUserResponse inclui os campos visíveis apenas para administradores
type AdminUserResponse struct {
	UserResponse
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
}

// ProfileResponse é o perfil com as contagens do grafo social
type ProfileResponse struct {
	UserResponse
	Followers   int64 `json:"followers"`
	Following   int64 `json:"following"`
	IsFollowing bool  `json:"is_following"`
	IsSelf      bool  `json:"is_self"`
}

// ToUserResponse converte uma entidade User para UserResponse
func ToUserResponse(user *entities.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		AboutMe:  user.AboutMe,
		LastSeen: user.LastSeen,
	}
}

// ToAdminUserResponse converte uma entidade User para a visão administrativa
func ToAdminUserResponse(user *entities.User) AdminUserResponse {
	return AdminUserResponse{
		UserResponse: ToUserResponse(user),
		Email:        user.Email.String(),
		Permissions:  user.GetPermissions(),
	}
}
