package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/blogicum/blogicum/internal/config"
	"github.com/blogicum/blogicum/internal/database"
	"github.com/blogicum/blogicum/internal/modules/storage/image"
	pkgcron "github.com/blogicum/blogicum/internal/pkg/cron"
	pkgredis "github.com/blogicum/blogicum/internal/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	redis  *pkgredis.Client
	store  image.Store
	logger *zap.Logger
	cancel context.CancelFunc
	sched  *pkgcron.Scheduler
}

// Deps are the connections an App is built on.
type Deps struct {
	DB *gorm.DB
	// Redis is optional; without it rate limiting and page caching are off.
	Redis *pkgredis.Client
	Store image.Store
}

// New initializes the application: config → DB → Redis → storage → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := database.Connect(cfg, false)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	var rc *pkgredis.Client
	if cfg.RedisURL != "" {
		rc, err = pkgredis.Connect(cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, rate limiting and page cache disabled", zap.Error(err))
			rc = nil
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := image.New(ctx, cfg.Storage, cfg.MediaDir())
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	return Build(logger, cfg, Deps{DB: db, Redis: rc, Store: store})
}

// Build wires routes and background jobs on top of ready connections.
func Build(logger *zap.Logger, cfg *config.AppConfig, deps Deps) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if deps.DB == nil {
		return nil, errors.New("database is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := applyRuntimeSettings(cfg, logger); err != nil {
		return nil, err
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sched := NewScheduler(deps.DB, logger)
	sched.Start(ctx)

	a := &App{
		cfg:    cfg,
		router: gin.New(),
		db:     deps.DB,
		redis:  deps.Redis,
		store:  deps.Store,
		logger: logger,
		cancel: cancel,
		sched:  sched,
	}
	if err := a.registerRoutes(); err != nil {
		cancel()
		return nil, err
	}
	return a, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background jobs and closes Redis.
func (a *App) Shutdown() {
	a.cancel()
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

var processStart = time.Now()
