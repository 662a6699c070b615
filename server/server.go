package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ZainyAct/browser-memory/config"
	"github.com/ZainyAct/browser-memory/docs"
	analyticsHandler "github.com/ZainyAct/browser-memory/internal/handler/analytics"
	eventHandler "github.com/ZainyAct/browser-memory/internal/handler/event"
	extensionKeyHandler "github.com/ZainyAct/browser-memory/internal/handler/extensionkey"
	memoryHandler "github.com/ZainyAct/browser-memory/internal/handler/memory"
	userHandler "github.com/ZainyAct/browser-memory/internal/handler/user"
	workflowHandler "github.com/ZainyAct/browser-memory/internal/handler/workflow"
	"github.com/ZainyAct/browser-memory/internal/metrics"
	"github.com/ZainyAct/browser-memory/internal/repository"
	"github.com/ZainyAct/browser-memory/internal/service/analytics"
	"github.com/ZainyAct/browser-memory/internal/service/event"
	"github.com/ZainyAct/browser-memory/internal/service/extensionkey"
	"github.com/ZainyAct/browser-memory/internal/service/memory"
	"github.com/ZainyAct/browser-memory/internal/service/redis"
	"github.com/ZainyAct/browser-memory/internal/service/user"
	"github.com/ZainyAct/browser-memory/internal/service/workflow"
	"github.com/ZainyAct/browser-memory/middleware"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const healthTimeout = 2 * time.Second

type RouterHandler struct {
	userHandler         *userHandler.UserHandler
	extensionKeyHandler *extensionKeyHandler.ExtensionKeyHandler
	eventHandler        *eventHandler.EventHandler
	memoryHandler       *memoryHandler.MemoryHandler
	analyticsHandler    *analyticsHandler.AnalyticsHandler
	workflowHandler     *workflowHandler.WorkflowHandler
	extensionKeys       extensionkey.ExtensionKeyService
	cache               redis.ServiceInterface
	db                  *sqlx.DB
	metrics             *metrics.Metrics
}

func RunServer(cfg *config.Config, logger *slog.Logger) error {
	switch cfg.Env {
	case "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	logger.Info("starting server", slog.String("env", cfg.Env), slog.String("gin_mode", gin.Mode()))

	db, err := repository.NewRepository(cfg.DB, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	cache := redis.NewRedisService(cfg.Redis, logger)
	defer cache.Close()

	denylist, err := config.LoadDenylist(cfg.Capture.DenylistPath)
	if err != nil {
		return err
	}
	logger.Info("loaded capture denylist", slog.Int("domains", len(denylist.Domains())))

	m := metrics.New()

	userRepo := repository.NewUserRepository(db)
	keyRepo := repository.NewExtensionKeyRepository(db)
	eventRepo := repository.NewEventRepository(db)
	memoryRepo := repository.NewMemoryRepository(db)

	userSrv := user.NewUserService(userRepo)
	keySrv := extensionkey.NewExtensionKeyService(keyRepo, logger)
	eventSrv := event.NewEventService(eventRepo, denylist, cache, m, logger)
	memorySrv := memory.NewMemoryService(eventRepo, memoryRepo, m, logger)
	analyticsSrv := analytics.NewAnalyticsService(eventRepo, cache, cfg.Limits.ViewCacheTTL, m, logger)
	workflowSrv := workflow.NewWorkflowService(eventRepo, cache, cfg.Limits.ViewCacheTTL, m, logger)

	secret := []byte(cfg.Auth.JWTSecret)
	secureCookie := gin.Mode() == gin.ReleaseMode

	routerHandler := &RouterHandler{
		userHandler:         userHandler.NewUserHandler(userSrv, secret, cfg.Auth.TokenTTL, secureCookie, logger),
		extensionKeyHandler: extensionKeyHandler.NewExtensionKeyHandler(keySrv, logger),
		eventHandler:        eventHandler.NewEventHandler(eventSrv, logger),
		memoryHandler:       memoryHandler.NewMemoryHandler(memorySrv, logger),
		analyticsHandler:    analyticsHandler.NewAnalyticsHandler(analyticsSrv, logger),
		workflowHandler:     workflowHandler.NewWorkflowHandler(workflowSrv, logger),
		extensionKeys:       keySrv,
		cache:               cache,
		db:                  db,
		metrics:             m,
	}

	r := setupRouter(routerHandler, cfg, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	return gracefulShutdown(srv, serveErr, logger)
}

func gracefulShutdown(srv *http.Server, serveErr <-chan error, logger *slog.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serveErr:
		if ok {
			logger.Error("failed to start server", slog.Any("error", err))
			return err
		}
		return nil
	case <-quit:
	}

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("error", err))
		return err
	}

	logger.Info("server gracefully stopped")
	return nil
}

func (h *RouterHandler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"database": "ok", "redis": "ok"}

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	if h.cache != nil {
		if err := h.cache.Health(ctx); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "degraded"
	}

	c.JSON(status, gin.H{
		"status":    state,
		"checks":    checks,
		"timestamp": time.Now().Unix(),
		"service":   "browser-memory",
	})
}

func setupRouter(h *RouterHandler, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if gin.Mode() != gin.ReleaseMode || cfg.Debug {
		r.Use(gin.Logger())
	}
	if err := r.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
		logger.Warn("failed to set trusted proxies", slog.Any("error", err))
	}

	r.Use(middleware.CORS(cfg.Server.FrontendOrigin))

	r.GET("/health", h.health)
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	if gin.Mode() != gin.ReleaseMode || cfg.Debug {
		docs.SwaggerInfo.Host = cfg.Server.BaseURLHost()
		docs.SwaggerInfo.Schemes = []string{"http", "https"}
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	secret := []byte(cfg.Auth.JWTSecret)

	api := r.Group("/api/v1")

	publicRoutes := api.Group("/users")
	{
		publicRoutes.POST("/register", h.userHandler.Register)
		publicRoutes.POST("/login", h.userHandler.Login)
	}

	ingestRoutes := api.Group("/ingest")
	ingestRoutes.Use(
		middleware.IngestAuthMiddleware(secret, h.extensionKeys),
		middleware.IngestRateLimit(h.cache, cfg.Limits.IngestPerMinute, h.metrics, logger),
	)
	{
		ingestRoutes.POST("/event", h.eventHandler.IngestEvent)
		ingestRoutes.POST("/batch", h.eventHandler.IngestBatch)
	}

	privateRoutes := api.Group("")
	privateRoutes.Use(middleware.AuthenticationMiddleware(secret))
	{
		privateRoutes.GET("/users/profile", h.userHandler.Profile)

		extensionRoutes := privateRoutes.Group("/extension")
		extensionRoutes.POST("/keys", h.extensionKeyHandler.CreateKey)
		extensionRoutes.GET("/keys", h.extensionKeyHandler.ListKeys)
		extensionRoutes.DELETE("/keys/:id", h.extensionKeyHandler.RevokeKey)

		privateRoutes.POST("/summarize/run", h.memoryHandler.Summarize)
		privateRoutes.GET("/search", h.memoryHandler.Search)
		privateRoutes.GET("/recent/memories", h.memoryHandler.RecentMemories)
		privateRoutes.GET("/recent/events", h.eventHandler.RecentEvents)
		privateRoutes.GET("/analytics/charts", h.analyticsHandler.GetCharts)
		privateRoutes.GET("/workflow/graph", h.workflowHandler.GetGraph)
	}

	return r
}
