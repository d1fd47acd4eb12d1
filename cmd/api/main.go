package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	_ "github.com/rafabene/avantpro-social/docs"
	"github.com/rafabene/avantpro-social/internal/domain/ports"
	"github.com/rafabene/avantpro-social/internal/handlers/dto"
	httphandlers "github.com/rafabene/avantpro-social/internal/handlers/http"
	"github.com/rafabene/avantpro-social/internal/handlers/middleware"
	"github.com/rafabene/avantpro-social/internal/infrastructure/auth"
	"github.com/rafabene/avantpro-social/internal/infrastructure/cache"
	"github.com/rafabene/avantpro-social/internal/infrastructure/clock"
	"github.com/rafabene/avantpro-social/internal/infrastructure/config"
	"github.com/rafabene/avantpro-social/internal/infrastructure/i18n"
	"github.com/rafabene/avantpro-social/internal/infrastructure/logging"
	"github.com/rafabene/avantpro-social/internal/infrastructure/metrics"
	"github.com/rafabene/avantpro-social/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/avantpro-social/internal/infrastructure/realtime"
	"github.com/rafabene/avantpro-social/internal/infrastructure/security"
	"github.com/rafabene/avantpro-social/internal/infrastructure/storage"
	"github.com/rafabene/avantpro-social/internal/services"
)

// @title						Avantpro Social API
// @version					1.0
// @description				Social blogging backend: posts, follows, moderation and reports.
// @BasePath					/api/v1
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	// Carregar configurações
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid config:", err)
	}

	// Inicializar logger
	logger := logging.NewSlogLogger(cfg.Logging.Level)
	logger.Info("starting avantpro social",
		"env", cfg.Env,
		"version", "dev",
	)

	ctx := context.Background()

	// Conectar ao banco de dados
	db, err := postgres.NewDatabaseConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		log.Fatal(err)
	}

	// Inicializar i18n
	i18nService, err := i18n.NewService(cfg.I18n.LocalesDir, cfg.I18n.DefaultLanguage)
	if err != nil {
		logger.Warn("locales dir unavailable, using embedded locales", "dir", cfg.I18n.LocalesDir, "error", err)
		if i18nService, err = i18n.NewEmbeddedService(cfg.I18n.DefaultLanguage); err != nil {
			logger.Error("failed to initialize i18n", "error", err)
			log.Fatal(err)
		}
	}
	logger.Info("i18n initialized",
		"default_language", i18nService.GetDefaultLanguage(),
		"supported_languages", i18nService.GetSupportedLanguages(),
	)

	// Armazenamento de imagens
	blobs, uploadsDir, err := newBlobStore(ctx, &cfg.Storage)
	if err != nil {
		logger.Error("failed to initialize blob store", "driver", cfg.Storage.Driver, "error", err)
		log.Fatal(err)
	}

	// Cache de contadores (opcional)
	var counters ports.CounterCache
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisCounterCache(ctx, cfg.Redis.URL, cfg.Redis.CountTTL)
		if err != nil {
			logger.Warn("redis unavailable, counters will hit the database", "error", err)
		} else {
			defer redisCache.Close() //nolint:errcheck
			counters = redisCache
		}
	}

	// Inicializar repositories
	userRepo := postgres.NewUserRepository(db)
	postRepo := postgres.NewPostRepository(db)
	commentRepo := postgres.NewCommentRepository(db)
	followRepo := postgres.NewFollowRepository(db)
	statsRepo := postgres.NewStatsRepository(db)
	uow := postgres.NewUnitOfWork(db)

	hasher := security.NewBcryptHasher(0)
	systemClock := clock.System{}
	recorder := metrics.Recorder{}
	hub := realtime.NewHub(logger)
	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.AccessExpiry)
	pageSize := cfg.Feed.PostsPerPage

	// Inicializar services
	userService := services.NewUserService(services.UserServiceDeps{
		Users:    userRepo,
		Posts:    postRepo,
		Follows:  followRepo,
		UoW:      uow,
		Hasher:   hasher,
		Blobs:    blobs,
		Cache:    counters,
		Clock:    systemClock,
		Recorder: recorder,
		Logger:   logger,
	})
	socialService := services.NewSocialGraphService(services.SocialGraphDeps{
		Users:    userRepo,
		Follows:  followRepo,
		Posts:    postRepo,
		UoW:      uow,
		Cache:    counters,
		Recorder: recorder,
		Logger:   logger,
		PageSize: pageSize,
	})
	postService := services.NewPostService(services.PostServiceDeps{
		Posts:     postRepo,
		Comments:  commentRepo,
		Users:     userRepo,
		UoW:       uow,
		Blobs:     blobs,
		Publisher: hub,
		Recorder:  recorder,
		Clock:     systemClock,
		Logger:    logger,
		PageSize:  pageSize,
	})
	moderationService := services.NewModerationService(services.ModerationDeps{
		Posts:     postRepo,
		Comments:  commentRepo,
		Users:     userRepo,
		UoW:       uow,
		Blobs:     blobs,
		Publisher: hub,
		Recorder:  recorder,
		Clock:     systemClock,
		Logger:    logger,
		PageSize:  pageSize,
	})
	reportService := services.NewReportService(services.ReportDeps{
		Posts:    postRepo,
		Users:    userRepo,
		Stats:    statsRepo,
		Recorder: recorder,
		Logger:   logger,
		PageSize: pageSize,
	})

	// Inicializar handlers
	posts := dto.PostConverter(blobs.URL)
	authMiddleware := middleware.NewAuthMiddleware(tokens, userService, httphandlers.AbortUnauthorized, logger)

	// Setup Gin
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := httphandlers.NewRouter(httphandlers.RouterConfig{
		Env:            cfg.Env,
		BaseURL:        cfg.Server.BaseURL,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		UploadsDir:     uploadsDir,
		UploadsPrefix:  cfg.Storage.URLPrefix,
		EnableDocs:     cfg.Env != "production",
		I18n:           i18nService,
		Auth:           authMiddleware,
		Auths:          httphandlers.NewAuthHandler(userService, tokens),
		Users:          httphandlers.NewUserHandler(userService, socialService, postService, posts),
		Posts:          httphandlers.NewPostHandler(postService, socialService, moderationService, posts),
		Admin:          httphandlers.NewAdminHandler(userService, moderationService, reportService, hub, posts),
		Reports:        httphandlers.NewReportHandler(reportService, posts),
	})

	// HTTP Server
	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info("server starting",
			"host", cfg.Server.Host,
			"port", cfg.Server.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			log.Fatal(err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

// newBlobStore escolhe o driver de imagens. O diretório retornado só é preenchido
// no driver local, que precisa ser servido pelo próprio router.
func newBlobStore(ctx context.Context, cfg *config.StorageConfig) (ports.BlobStore, string, error) {
	if cfg.Driver == config.StorageS3 {
		s3Store, err := storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			return nil, "", err
		}
		return s3Store, "", nil
	}

	local, err := storage.NewLocalStorage(cfg.LocalPath, cfg.URLPrefix)
	if err != nil {
		return nil, "", err
	}
	return local, local.BasePath(), nil
}
