package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	domainerrors "github.com/rafabene/avantpro-social/internal/domain/errors"
)

const (
	TitleMaxLength       = 200
	PostBodyMaxLength    = 500
	CommentBodyMaxLength = 200
	ImageKeyMaxLength    = 255
)

// Post representa uma publicação
type Post struct {
	ID         int64
	Title      string
	Body       string
	Image      *string // chave no blob store
	Timestamp  time.Time
	AuthorID   int64
	IsApproved bool

	// Preenchidos pelas consultas de listagem
	AuthorUsername string
	CommentCount   int64
}

// Status retorna o rótulo usado em relatórios
func (p *Post) Status() string {
	if p.IsApproved {
		return "Approved"
	}
	return "Pending"
}

// HasImage verifica se o post tem imagem associada
func (p *Post) HasImage() bool {
	return p.Image != nil && *p.Image != ""
}

// Validate valida título, corpo e chave da imagem
func (p *Post) Validate() error {
	if n := utf8.RuneCountInString(strings.TrimSpace(p.Title)); n == 0 || utf8.RuneCountInString(p.Title) > TitleMaxLength {
		return domainerrors.ErrInvalidTitle
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(p.Body)); n == 0 || utf8.RuneCountInString(p.Body) > PostBodyMaxLength {
		return domainerrors.ErrInvalidBody
	}
	if p.Image != nil && len(*p.Image) > ImageKeyMaxLength {
		return domainerrors.ErrInvalidImage
	}
	return nil
}

// Comment representa um comentário em um post
type Comment struct {
	ID        int64
	Body      string
	Timestamp time.Time
	AuthorID  int64
	PostID    int64

	AuthorUsername string
}

// Validate valida o corpo do comentário
func (c *Comment) Validate() error {
	if n := utf8.RuneCountInString(strings.TrimSpace(c.Body)); n == 0 || utf8.RuneCountInString(c.Body) > CommentBodyMaxLength {
		return domainerrors.ErrInvalidBody
	}
	return nil
}
