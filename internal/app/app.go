package app

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/scizor/server/cmd/server/docs" // swagger docs
	"github.com/scizor/server/internal/module/ai"
	"github.com/scizor/server/internal/module/ai/interaction"
	"github.com/scizor/server/internal/module/ledger"
	"github.com/scizor/server/internal/shared/config"
	"github.com/scizor/server/internal/shared/database"
	"github.com/scizor/server/internal/utils/metrics"
	"github.com/scizor/server/internal/utils/middleware"
)

// App represents the application.
type App struct {
	config  *config.Config
	db      *gorm.DB
	redis   redis.UniversalClient
	router  *gin.Engine
	logger  *zap.Logger
	metrics *metrics.Metrics

	recorder *interaction.Recorder

	ledgerHandler *ledger.Handler
	aiHandler     *ai.Handler
}

// NewApp assembles the application from its wired dependencies. The returned
// cleanup releases every resource the app holds; call it only after the HTTP
// server has stopped accepting requests.
func NewApp(
	cfg *config.Config,
	db *gorm.DB,
	redisClient redis.UniversalClient,
	log *zap.Logger,
	m *metrics.Metrics,
	recorder *interaction.Recorder,
	ledgerHandler *ledger.Handler,
	aiHandler *ai.Handler,
) (*App, func()) {
	app := &App{
		config:        cfg,
		db:            db,
		redis:         redisClient,
		logger:        log,
		metrics:       m,
		recorder:      recorder,
		ledgerHandler: ledgerHandler,
		aiHandler:     aiHandler,
	}

	app.router = app.setupRouter()
	app.registerRoutes()

	return app, app.Stop
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Apply global middleware
	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Metrics(a.metrics))

	// Process liveness, distinct from the AI readiness probe
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation endpoint
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	return r
}

// registerRoutes registers routes for all modules.
func (a *App) registerRoutes() {
	public := a.router.Group("")
	a.ledgerHandler.RegisterRoutes(public)
	a.aiHandler.RegisterRoutes(public)

	admin := a.router.Group("/admin")
	admin.Use(middleware.AdminAuth(a.config.Auth.AdminSecret))
	a.ledgerHandler.RegisterAdminRoutes(admin)
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop stops the application and releases resources. The interaction recorder
// drains before the database closes under it.
func (a *App) Stop() {
	if a.recorder != nil {
		a.recorder.Close()
	}

	if a.logger != nil {
		_ = a.logger.Sync()
	}

	if a.redis != nil {
		_ = a.redis.Close()
	}

	if a.db != nil {
		_ = database.Close(a.db)
	}
}
