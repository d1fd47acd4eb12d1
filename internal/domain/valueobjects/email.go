package valueobjects

import (
	"regexp"
	"strings"

	domainerrors "github.com/rafabene/avantpro-social/internal/domain/errors"
)

// ErrInvalidEmail é o mesmo sentinel do domínio, para que a camada HTTP traduza uma única chave
var ErrInvalidEmail = domainerrors.ErrInvalidEmail

var emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

const emailMaxLength = 120

// Email é um value object que garante que emails sejam sempre válidos
type Email struct {
	value string
}

// NewEmail cria um novo Email validado
func NewEmail(email string) (Email, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if !isValidEmail(email) {
		return Email{}, ErrInvalidEmail
	}

	return Email{value: email}, nil
}

// String retorna o valor do email
func (e Email) String() string {
	return e.value
}

// isValidEmail valida o formato do email
func isValidEmail(email string) bool {
	if len(email) < 3 || len(email) > emailMaxLength {
		return false
	}
	return emailPattern.MatchString(email)
}
