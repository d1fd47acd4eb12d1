package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	"github.com/rafabene/avantpro-social/internal/handlers/dto"
	"github.com/rafabene/avantpro-social/internal/handlers/middleware"
	"github.com/rafabene/avantpro-social/internal/services"
)

// PostHandler lida com posts, comentários, feed e busca
type PostHandler struct {
	postService       *services.PostService
	socialService     *services.SocialGraphService
	moderationService *services.ModerationService
	posts             dto.PostConverter
}

// NewPostHandler cria um novo PostHandler
func NewPostHandler(
	postService *services.PostService,
	socialService *services.SocialGraphService,
	moderationService *services.ModerationService,
	posts dto.PostConverter,
) *PostHandler {
	return &PostHandler{
		postService:       postService,
		socialService:     socialService,
		moderationService: moderationService,
		posts:             posts,
	}
}

// Feed lista os posts aprovados do usuário e de quem ele segue
//
//	@Summary	Feed
//	@Tags		posts
//	@Produce	json
//	@Security	BearerAuth
//	@Param		page	query		int	false	"Página"
//	@Success	200		{object}	dto.PageResponse[dto.PostResponse]
//	@Router		/feed [get]
func (h *PostHandler) Feed(c *gin.Context) {
	page, err := h.socialService.Feed(c.Request.Context(), middleware.ActorFrom(c), pageQuery(c))
	h.respondPosts(c, page, err)
}

// Explore lista todos os posts aprovados
//
//	@Summary	Explorar
//	@Tags		posts
//	@Produce	json
//	@Param		page	query		int	false	"Página"
//	@Success	200		{object}	dto.PageResponse[dto.PostResponse]
//	@Router		/posts [get]
func (h *PostHandler) Explore(c *gin.Context) {
	page, err := h.postService.Explore(c.Request.Context(), pageQuery(c))
	h.respondPosts(c, page, err)
}

// Search procura posts aprovados por título ou corpo
//
//	@Summary	Busca
//	@Tags		posts
//	@Produce	json
//	@Security	BearerAuth
//	@Param		q		query		string	true	"Termo"
//	@Param		page	query		int		false	"Página"
//	@Success	200		{object}	dto.PageResponse[dto.PostResponse]
//	@Router		/search [get]
func (h *PostHandler) Search(c *gin.Context) {
	page, err := h.postService.Search(c.Request.Context(), middleware.ActorFrom(c), c.Query("q"), pageQuery(c))
	h.respondPosts(c, page, err)
}

func (h *PostHandler) respondPosts(c *gin.Context, page entities.Page[*entities.Post], err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPageResponse(page, h.posts.Convert))
}

// Create publica um post; multipart/form-data permite enviar a imagem no campo "image"
//
//	@Summary	Novo post
//	@Tags		posts
//	@Accept		json,mpfd
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		dto.CreatePostRequest	true	"Post"
//	@Success	201		{object}	dto.PostResponse
//	@Failure	400		{object}	dto.ErrorResponse
//	@Router		/posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	var req dto.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	input := services.CreatePostInput{Title: req.Title, Body: req.Body}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if header, err := c.FormFile("image"); err == nil {
			file, err := header.Open()
			if err != nil {
				respondBindingError(c, err)
				return
			}
			defer file.Close() //nolint:errcheck

			input.Image = &services.ImageUpload{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Content:     file,
			}
		}
	}

	post, err := h.postService.CreatePost(c.Request.Context(), middleware.ActorFrom(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.posts.Convert(post))
}

// Get retorna um post
//
//	@Summary	Post
//	@Tags		posts
//	@Produce	json
//	@Param		id	path		int	true	"ID do post"
//	@Success	200	{object}	dto.PostResponse
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/posts/{id} [get]
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	post, err := h.postService.GetPost(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.posts.Convert(post))
}

// Edit altera título e corpo do próprio post
//
//	@Summary	Editar post
//	@Tags		posts
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int						true	"ID do post"
//	@Param		request	body		dto.EditPostRequest		true	"Campos"
//	@Success	200		{object}	dto.PostResponse
//	@Router		/posts/{id} [put]
func (h *PostHandler) Edit(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.EditPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	post, err := h.postService.EditPost(c.Request.Context(), middleware.ActorFrom(c), id, req.Title, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.posts.Convert(post))
}

// Delete remove o próprio post
//
//	@Summary	Remover post
//	@Tags		posts
//	@Security	BearerAuth
//	@Param		id	path	int	true	"ID do post"
//	@Success	204
//	@Router		/posts/{id} [delete]
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.moderationService.DeletePostByAuthor(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	noContent(c)
}

// Comments lista os comentários de um post
//
//	@Summary	Comentários
//	@Tags		comments
//	@Produce	json
//	@Param		id		path		int	true	"ID do post"
//	@Param		page	query		int	false	"Página"
//	@Success	200		{object}	dto.PageResponse[dto.CommentResponse]
//	@Router		/posts/{id}/comments [get]
func (h *PostHandler) Comments(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	page, err := h.postService.Comments(c.Request.Context(), middleware.ActorFrom(c), id, pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPageResponse(page, dto.ToCommentResponse))
}

// AddComment comenta um post
//
//	@Summary	Comentar
//	@Tags		comments
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int					true	"ID do post"
//	@Param		request	body		dto.CommentRequest	true	"Comentário"
//	@Success	201		{object}	dto.CommentResponse
//	@Router		/posts/{id}/comments [post]
func (h *PostHandler) AddComment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	comment, err := h.postService.AddComment(c.Request.Context(), middleware.ActorFrom(c), id, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToCommentResponse(comment))
}

// DeleteComment remove o próprio comentário
//
//	@Summary	Remover comentário
//	@Tags		comments
//	@Security	BearerAuth
//	@Param		id	path	int	true	"ID do comentário"
//	@Success	204
//	@Router		/comments/{id} [delete]
func (h *PostHandler) DeleteComment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.moderationService.DeleteCommentByAuthor(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	noContent(c)
}
