package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	"github.com/rafabene/avantpro-social/internal/handlers/dto"
	"github.com/rafabene/avantpro-social/internal/handlers/middleware"
	"github.com/rafabene/avantpro-social/internal/services"
)

// UserHandler lida com perfis e com o grafo social
type UserHandler struct {
	userService   *services.UserService
	socialService *services.SocialGraphService
	postService   *services.PostService
	posts         dto.PostConverter
}

// NewUserHandler cria um novo UserHandler
func NewUserHandler(
	userService *services.UserService,
	socialService *services.SocialGraphService,
	postService *services.PostService,
	posts dto.PostConverter,
) *UserHandler {
	return &UserHandler{
		userService:   userService,
		socialService: socialService,
		postService:   postService,
		posts:         posts,
	}
}

// Me retorna o usuário autenticado
//
//	@Summary	Usuário autenticado
//	@Tags		users
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	dto.AdminUserResponse
//	@Router		/users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := middleware.UserFrom(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	c.JSON(http.StatusOK, dto.ToAdminUserResponse(user))
}

// UpdateMe edita username e about_me do próprio perfil
//
//	@Summary	Editar perfil
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		dto.UpdateProfileRequest	true	"Campos alterados"
//	@Success	200		{object}	dto.UserResponse
//	@Router		/users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), middleware.ActorFrom(c), services.UpdateProfileInput{
		Username: req.Username,
		AboutMe:  req.AboutMe,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// Profile retorna o perfil público com as contagens de seguidores
//
//	@Summary	Perfil
//	@Tags		users
//	@Produce	json
//	@Param		username	path		string	true	"Username"
//	@Success	200			{object}	dto.ProfileResponse
//	@Failure	404			{object}	dto.ErrorResponse
//	@Router		/users/{username} [get]
func (h *UserHandler) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	actor := middleware.ActorFrom(c)

	user, err := h.userService.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	followers, err := h.socialService.FollowersCount(ctx, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	following, err := h.socialService.FollowingCount(ctx, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.ProfileResponse{
		UserResponse: dto.ToUserResponse(user),
		Followers:    followers,
		Following:    following,
		IsSelf:       actor.ID == user.ID,
	}
	if actor.ID != 0 && actor.ID != user.ID {
		if resp.IsFollowing, err = h.socialService.IsFollowing(ctx, actor.ID, user.ID); err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Posts lista os posts de um usuário
//
//	@Summary	Posts do usuário
//	@Tags		users
//	@Produce	json
//	@Param		username	path		string	true	"Username"
//	@Param		page		query		int		false	"Página"
//	@Success	200			{object}	dto.PageResponse[dto.PostResponse]
//	@Router		/users/{username}/posts [get]
func (h *UserHandler) Posts(c *gin.Context) {
	page, err := h.postService.UserPosts(c.Request.Context(), middleware.ActorFrom(c), c.Param("username"), pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPageResponse(page, h.posts.Convert))
}

// Followers lista os seguidores de um usuário
func (h *UserHandler) Followers(c *gin.Context) {
	h.listFollows(c, h.socialService.Followers)
}

// Following lista quem o usuário segue
func (h *UserHandler) Following(c *gin.Context) {
	h.listFollows(c, h.socialService.Following)
}

func (h *UserHandler) listFollows(c *gin.Context, list func(context.Context, int64, int) (entities.Page[*entities.User], error)) {
	ctx := c.Request.Context()
	user, err := h.userService.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := list(ctx, user.ID, pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPageResponse(page, dto.ToUserResponse))
}

// Follow segue o usuário
//
//	@Summary	Seguir
//	@Tags		social
//	@Security	BearerAuth
//	@Param		username	path	string	true	"Username"
//	@Success	204
//	@Failure	422	{object}	dto.ErrorResponse
//	@Router		/users/{username}/follow [post]
func (h *UserHandler) Follow(c *gin.Context) {
	h.changeFollow(c, h.socialService.Follow)
}

// Unfollow deixa de seguir o usuário
//
//	@Summary	Deixar de seguir
//	@Tags		social
//	@Security	BearerAuth
//	@Param		username	path	string	true	"Username"
//	@Success	204
//	@Router		/users/{username}/follow [delete]
func (h *UserHandler) Unfollow(c *gin.Context) {
	h.changeFollow(c, h.socialService.Unfollow)
}

func (h *UserHandler) changeFollow(c *gin.Context, change func(context.Context, entities.Actor, int64) error) {
	ctx := c.Request.Context()
	target, err := h.userService.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := change(ctx, middleware.ActorFrom(c), target.ID); err != nil {
		respondError(c, err)
		return
	}
	noContent(c)
}
