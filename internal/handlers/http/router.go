package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rafabene/avantpro-social/internal/handlers/middleware"
	"github.com/rafabene/avantpro-social/internal/infrastructure/i18n"
	"github.com/rafabene/avantpro-social/internal/infrastructure/metrics"
)

// RouterConfig reúne os handlers e middlewares montados pelo NewRouter
type RouterConfig struct {
	Env            string
	BaseURL        string
	AllowedOrigins string
	// UploadsDir e UploadsPrefix servem as imagens do storage local; vazio desativa
	UploadsDir    string
	UploadsPrefix string
	EnableDocs    bool

	I18n    *i18n.Service
	Auth    *middleware.AuthMiddleware
	Auths   *AuthHandler
	Users   *UserHandler
	Posts   *PostHandler
	Admin   *AdminHandler
	Reports *ReportHandler
}

// NewRouter monta o engine do gin com todas as rotas da API
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Env != "test" {
		router.Use(gin.Logger())
	}
	router.Use(metrics.Middleware())

	// base URL usada nos problem documents
	router.Use(func(c *gin.Context) {
		c.Set("base_url", cfg.BaseURL)
		c.Next()
	})
	router.Use(middleware.NewI18nMiddleware(cfg.I18n).DetectLanguage())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "env": cfg.Env})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.EnableDocs {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if cfg.UploadsDir != "" && strings.HasPrefix(cfg.UploadsPrefix, "/") {
		router.Static(strings.TrimSuffix(cfg.UploadsPrefix, "/"), cfg.UploadsDir)
	}

	identify := cfg.Auth.Identify()
	requireAuth := cfg.Auth.RequireAuth()

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", cfg.Auths.Register)
			auth.POST("/login", cfg.Auths.Login)
		}

		public := v1.Group("", identify)
		{
			public.GET("/posts", cfg.Posts.Explore)
			public.GET("/posts/:id", cfg.Posts.Get)
			public.GET("/posts/:id/comments", cfg.Posts.Comments)
			public.GET("/users/:username", cfg.Users.Profile)
			public.GET("/users/:username/posts", cfg.Users.Posts)
			public.GET("/users/:username/followers", cfg.Users.Followers)
			public.GET("/users/:username/following", cfg.Users.Following)
		}

		private := v1.Group("", requireAuth)
		{
			private.GET("/feed", cfg.Posts.Feed)
			private.GET("/search", cfg.Posts.Search)

			private.GET("/users/me", cfg.Users.Me)
			private.PUT("/users/me", cfg.Users.UpdateMe)
			private.POST("/users/:username/follow", cfg.Users.Follow)
			private.DELETE("/users/:username/follow", cfg.Users.Unfollow)

			private.POST("/posts", cfg.Posts.Create)
			private.PUT("/posts/:id", cfg.Posts.Edit)
			private.DELETE("/posts/:id", cfg.Posts.Delete)
			private.POST("/posts/:id/comments", cfg.Posts.AddComment)
			private.DELETE("/comments/:id", cfg.Posts.DeleteComment)
		}

		admin := v1.Group("/admin", requireAuth)
		{
			admin.GET("/dashboard", cfg.Admin.Dashboard)
			admin.GET("/posts", cfg.Admin.Posts)
			admin.POST("/posts/:id/approve", cfg.Admin.ApprovePost)
			admin.DELETE("/posts/:id", cfg.Admin.DeletePost)
			admin.DELETE("/comments/:id", cfg.Admin.DeleteComment)
			admin.GET("/users", cfg.Admin.Users)
			admin.POST("/users", cfg.Admin.CreateUser)
			admin.PUT("/users/:id/role", cfg.Admin.ChangeRole)
			admin.DELETE("/users/:id", cfg.Admin.DeleteUser)
			admin.GET("/events", cfg.Admin.Events)
		}

		reports := v1.Group("/reports", requireAuth)
		{
			reports.GET("", cfg.Reports.Report)
			reports.GET("/analytics", cfg.Reports.Analytics)
			reports.GET("/export", cfg.Reports.Export)
		}
	}

	return router
}
