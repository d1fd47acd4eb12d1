package dto

import (
	"time"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
)

// CreatePostRequest aceita JSON ou multipart; a imagem só vem em multipart (campo "image")
type CreatePostRequest struct {
	Title string `json:"title" form:"title" binding:"required,max=200"`
	Body  string `json:"body" form:"body" binding:"required,max=500"`
}

// EditPostRequest representa a edição do próprio post
type EditPostRequest struct {
	Title string `json:"title" binding:"required,max=200"`
	Body  string `json:"body" binding:"required,max=500"`
}

// CommentRequest representa um novo comentário
type CommentRequest struct {
	Body string `json:"body" binding:"required,max=200"`
}

// PostResponse representa um post nas listagens
type PostResponse struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	ImageURL   *string   `json:"image_url,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	AuthorID   int64     `json:"author_id"`
	Author     string    `json:"author"`
	IsApproved bool      `json:"is_approved"`
	Status     string    `json:"status"`
	Comments   int64     `json:"comments"`
}

// CommentResponse representa um comentário
type CommentResponse struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
	AuthorID  int64     `json:"author_id"`
	Author    string    `json:"author"`
	PostID    int64     `json:"post_id"`
}

// PostConverter monta PostResponse resolvendo a URL pública da imagem
type PostConverter func(key string) string

// Convert converte uma entidade Post
func (urlFor PostConverter) Convert(post *entities.Post) PostResponse {
	resp := PostResponse{
		ID:         post.ID,
		Title:      post.Title,
		Body:       post.Body,
		Timestamp:  post.Timestamp,
		AuthorID:   post.AuthorID,
		Author:     post.AuthorUsername,
		IsApproved: post.IsApproved,
		Status:     post.Status(),
		Comments:   post.CommentCount,
	}
	if post.HasImage() && urlFor != nil {
		url := urlFor(*post.Image)
		resp.ImageURL = &url
	}
	return resp
}

// ToCommentResponse converte uma entidade Comment
func ToCommentResponse(comment *entities.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		Body:      comment.Body,
		Timestamp: comment.Timestamp,
		AuthorID:  comment.AuthorID,
		Author:    comment.AuthorUsername,
		PostID:    comment.PostID,
	}
}
