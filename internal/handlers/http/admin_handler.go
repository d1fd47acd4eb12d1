package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	domainerrors "github.com/rafabene/avantpro-social/internal/domain/errors"
	"github.com/rafabene/avantpro-social/internal/handlers/dto"
	"github.com/rafabene/avantpro-social/internal/handlers/middleware"
	"github.com/rafabene/avantpro-social/internal/infrastructure/realtime"
	"github.com/rafabene/avantpro-social/internal/services"
)

// AdminHandler expõe moderação e gestão de contas
type AdminHandler struct {
	userService       *services.UserService
	moderationService *services.ModerationService
	reportService     *services.ReportService
	hub               *realtime.Hub
	upgrader          websocket.Upgrader
	posts             dto.PostConverter
}

// NewAdminHandler cria um novo AdminHandler. hub nil desativa o stream de eventos.
func NewAdminHandler(
	userService *services.UserService,
	moderationService *services.ModerationService,
	reportService *services.ReportService,
	hub *realtime.Hub,
	posts dto.PostConverter,
) *AdminHandler {
	return &AdminHandler{
		userService:       userService,
		moderationService: moderationService,
		reportService:     reportService,
		hub:               hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// origem já validada pelo token de admin
			CheckOrigin: func(*http.Request) bool { return true },
		},
		posts: posts,
	}
}

// Dashboard retorna a fila de posts pendentes e os totais de usuários
//
//	@Summary	Dashboard
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		page	query		int	false	"Página"
//	@Success	200		{object}	dto.DashboardResponse
//	@Failure	403		{object}	dto.ErrorResponse
//	@Router		/admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.moderationService.PendingQueue(c.Request.Context(), middleware.ActorFrom(c), pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DashboardResponse{
		Pending:     dto.ToPageResponse(dashboard.Pending, h.posts.Convert),
		TotalUsers:  dashboard.TotalUsers,
		ActiveToday: dashboard.ActiveToday,
	})
}

// Posts lista todos os posts com filtro de status e ordenação
//
//	@Summary	Todos os posts
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		status	query		string	false	"all, approved ou pending"
//	@Param		order	query		string	false	"timestamp_desc, timestamp_asc, title_asc ou title_desc"
//	@Param		page	query		int		false	"Página"
//	@Success	200		{object}	dto.PageResponse[dto.PostResponse]
//	@Router		/admin/posts [get]
func (h *AdminHandler) Posts(c *gin.Context) {
	page, err := h.reportService.ListPosts(c.Request.Context(), middleware.ActorFrom(c), services.PostQuery{
		Status: c.Query("status"),
		Order:  c.Query("order"),
		Page:   pageQuery(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPageResponse(page, h.posts.Convert))
}

// ApprovePost aprova um post pendente
//
//	@Summary	Aprovar post
//	@Tags		admin
//	@Security	BearerAuth
//	@Param		id	path	int	true	"ID do post"
//	@Success	204
//	@Router		/admin/posts/{id}/approve [post]
func (h *AdminHandler) ApprovePost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.moderationService.ApprovePost(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	noContent(c)
}

// DeletePost remove qualquer post
//
//	@Summary	Remover post
//	@Tags		admin
//	@Security	BearerAuth
//	@Param		id	path	int	true	"ID do post"
//	@Success	204
//	@Router		/admin/posts/{id} [delete]
func (h *AdminHandler) DeletePost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.moderationService.DeletePost(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	noContent(c)
}

// DeleteComment remove qualquer comentário
//
//	@Summary	Remover comentário
//	@Tags		admin
//	@Security	BearerAuth
//	@Param		id	path	int	true	"ID do comentário"
//	@Success	204
//	@Router		/admin/comments/{id} [delete]
func (h *AdminHandler) DeleteComment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.moderationService.DeleteComment(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	noContent(c)
}

// Users lista usuários com filtro por username e papel
//
//	@Summary	Todos os usuários
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		username	query		string	false	"Parte do username"
//	@Param		role		query		string	false	"admin, analyst ou user"
//	@Param		page		query		int		false	"Página"
//	@Success	200			{object}	dto.PageResponse[dto.AdminUserResponse]
//	@Router		/admin/users [get]
func (h *AdminHandler) Users(c *gin.Context) {
	page, err := h.reportService.ListUsers(c.Request.Context(), middleware.ActorFrom(c), services.UserQuery{
		Username: c.Query("username"),
		Role:     c.Query("role"),
		Page:     pageQuery(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPageResponse(page, dto.ToAdminUserResponse))
}

// CreateUser cria uma conta com qualquer papel
//
//	@Summary	Criar usuário
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		dto.CreateUserRequest	true	"Conta"
//	@Success	201		{object}	dto.AdminUserResponse
//	@Router		/admin/users [post]
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), middleware.ActorFrom(c), services.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToAdminUserResponse(user))
}

// ChangeRole altera o papel de um usuário
//
//	@Summary	Alterar papel
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int						true	"ID do usuário"
//	@Param		request	body		dto.ChangeRoleRequest	true	"Papel"
//	@Success	200		{object}	dto.AdminUserResponse
//	@Router		/admin/users/{id}/role [put]
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := h.userService.ChangeRole(c.Request.Context(), middleware.ActorFrom(c), id, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAdminUserResponse(user))
}

// DeleteUser remove uma conta e todo o seu conteúdo
//
//	@Summary	Remover usuário
//	@Tags		admin
//	@Security	BearerAuth
//	@Param		id	path	int	true	"ID do usuário"
//	@Success	204
//	@Failure	422	{object}	dto.ErrorResponse
//	@Router		/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	noContent(c)
}

// Events abre um websocket com os eventos de moderação (post.pending, post.approved, post.deleted)
//
//	@Summary	Eventos de moderação
//	@Tags		admin
//	@Security	BearerAuth
//	@Router		/admin/events [get]
func (h *AdminHandler) Events(c *gin.Context) {
	if !entities.Can(middleware.ActorFrom(c), entities.PermissionModerateContent) {
		respondError(c, domainerrors.ErrForbidden)
		return
	}
	if h.hub == nil {
		respondError(c, domainerrors.ErrStorage)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade já respondeu ao cliente
		return
	}
	h.hub.Serve(conn)
}
