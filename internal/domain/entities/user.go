package entities

import (
	"time"
	"unicode/utf8"

	domainerrors "github.com/rafabene/avantpro-social/internal/domain/errors"
	"github.com/rafabene/avantpro-social/internal/domain/valueobjects"
)

const (
	UsernameMinLength = 3
	UsernameMaxLength = 64
	AboutMeMaxLength  = 140
	PasswordMinLength = 6
	PasswordMaxLength = 72 // limite do bcrypt
)

// User representa um usuário do sistema
type User struct {
	ID           int64
	Username     string
	Email        valueobjects.Email
	PasswordHash string
	Role         Role
	AboutMe      *string
	LastSeen     *time.Time
}

// Actor retorna a identidade do usuário para checagens de permissão
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

// IsAdmin verifica se o usuário é admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPermission verifica se o usuário tem uma permissão
func (u *User) HasPermission(permission Permission) bool {
	return Can(u.Actor(), permission)
}

// GetPermissions retorna todas as permissões do usuário
func (u *User) GetPermissions() []string {
	perms := u.Role.GetPermissions()
	result := make([]string, len(perms))
	for i, p := range perms {
		result[i] = string(p)
	}
	return result
}

// Validate valida regras de negócio da entidade User
func (u *User) Validate() error {
	if err := ValidateUsername(u.Username); err != nil {
		return err
	}

	if u.Email.String() == "" {
		return domainerrors.ErrInvalidEmail
	}

	if !u.Role.IsValid() {
		return domainerrors.ErrInvalidRole
	}

	if u.AboutMe != nil && utf8.RuneCountInString(*u.AboutMe) > AboutMeMaxLength {
		return domainerrors.ErrInvalidAboutMe
	}

	return nil
}

// ValidateUsername aplica o limite de 3 a 64 caracteres
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < UsernameMinLength || n > UsernameMaxLength {
		return domainerrors.ErrInvalidUsername
	}
	return nil
}

// ValidatePassword aplica a política de senha antes do hash
func ValidatePassword(password string) error {
	n := len(password)
	if n < PasswordMinLength || n > PasswordMaxLength {
		return domainerrors.ErrInvalidPassword
	}
	return nil
}
