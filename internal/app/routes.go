package app

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/blogicum/blogicum/internal/database"
	"github.com/blogicum/blogicum/internal/middleware"
	"github.com/blogicum/blogicum/internal/modules/auth/user"
	"github.com/blogicum/blogicum/internal/modules/content/category"
	"github.com/blogicum/blogicum/internal/modules/content/comment"
	"github.com/blogicum/blogicum/internal/modules/content/location"
	"github.com/blogicum/blogicum/internal/modules/content/post"
	"github.com/blogicum/blogicum/internal/modules/pages"
	"github.com/blogicum/blogicum/internal/modules/storage/image"
	"github.com/blogicum/blogicum/internal/pkg/form"
	"github.com/blogicum/blogicum/internal/pkg/view"
	"github.com/gin-gonic/gin"
)

// pageCacheSkip lists pages that must never be served from the cache.
var pageCacheSkip = []string{
	"/auth/*",
	"/media/*",
	"/healthz",
	"/edit_profile/",
	"/change_password/",
	"/posts/create/",
}

func (a *App) registerRoutes() error {
	r := a.router
	db := a.db
	cfg := a.cfg

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	if err := form.Setup(); err != nil {
		return fmt.Errorf("form validation: %w", err)
	}
	tmpl, err := view.Load(view.Options{Location: loc, Funcs: a.templateFuncs()})
	if err != nil {
		return fmt.Errorf("templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)
	r.HandleMethodNotAllowed = true

	pagesH := pages.NewHandler(a.logger)
	r.Use(gin.CustomRecovery(pagesH.Recover))
	r.Use(middleware.Logger(a.logger))
	r.Use(newCORS(cfg))
	r.Use(middleware.SameOrigin())
	r.Use(middleware.Authenticate(db))

	var counter middleware.Counter
	if a.redis != nil {
		rdb := a.redis.Raw()
		counter = a.redis
		r.Use(middleware.PurgeOnWrite(a.redis, a.logger))
		if cfg.PageCacheSeconds > 0 {
			r.Use(middleware.PageCache(rdb, middleware.PageCacheOptions{
				TTL:       time.Duration(cfg.PageCacheSeconds) * time.Second,
				SkipPaths: pageCacheSkip,
			}))
		}
	}
	window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
	rateLimit := func(scope string) gin.HandlerFunc {
		return middleware.RateLimit(counter, a.logger, scope, cfg.RateLimit.Max, window)
	}

	r.NoRoute(pagesH.NotFound)
	r.NoMethod(pagesH.MethodNotAllowed)

	if local, ok := a.store.(*image.Local); ok {
		r.Static("/media", local.Root())
	}
	r.GET("/healthz", a.healthz)

	loginMW := middleware.RequireLogin()
	maxImageBytes := int64(cfg.Storage.MaxSizeMB) << 20

	categorySvc := category.NewService(db)
	locationSvc := location.NewService(db)
	postSvc := post.NewService(db, a.store, maxImageBytes, a.logger)
	commentSvc := comment.NewService(db, postSvc)
	userSvc := user.NewService(db)

	pagesH.RegisterRoutes(r)
	post.NewHandler(postSvc, categorySvc, locationSvc, cfg.PageSize, loc).RegisterRoutes(r, loginMW)
	category.NewHandler(categorySvc, postSvc, cfg.PageSize).RegisterRoutes(r)
	comment.NewHandler(commentSvc, postSvc).RegisterRoutes(r, loginMW)
	user.NewHandler(userSvc, postSvc, user.Options{
		PageSize:     cfg.PageSize,
		SessionTTL:   time.Duration(cfg.SessionTTLH) * time.Hour,
		SecureCookie: !cfg.IsDev(),
	}).RegisterRoutes(r, loginMW, rateLimit)

	return nil
}

func (a *App) templateFuncs() template.FuncMap {
	funcs := template.FuncMap{}
	if a.store != nil {
		funcs["mediaURL"] = a.store.URL
	}
	return funcs
}

// healthz GET /healthz
func (a *App) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	uptime := humanizeDuration(time.Since(processStart))
	if err := database.Ping(ctx, a.db); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "uptime": uptime})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "uptime": uptime})
}
