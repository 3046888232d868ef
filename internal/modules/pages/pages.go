// Package pages serves the static pages and the catch-all error pages.
package pages

import (
	"fmt"
	"net/http"

	"github.com/blogicum/blogicum/internal/pkg/response"
	"github.com/blogicum/blogicum/internal/pkg/view"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	log *zap.Logger
}

func NewHandler(log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{log: log}
}

// RegisterRoutes mounts /pages/about/ and /pages/rules/.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/pages")
	g.GET("/about/", h.static("about.html", "About"))
	g.GET("/rules/", h.static("rules.html", "Rules"))
}

func (h *Handler) static(tmpl, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		view.OK(c, tmpl, gin.H{"Title": title})
	}
}

// NotFound renders the 404 page for unknown routes.
func (h *Handler) NotFound(c *gin.Context) {
	response.NotFound(c)
}

// Recover renders the 500 page after a panic.
func (h *Handler) Recover(c *gin.Context, recovered any) {
	h.log.Error("panic recovered",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Any("panic", recovered),
	)
	response.InternalError(c, fmt.Errorf("panic: %v", recovered))
}

// MethodNotAllowed renders the 405 page.
func (h *Handler) MethodNotAllowed(c *gin.Context) {
	response.Error(c, http.StatusMethodNotAllowed, "Method not allowed", "This address does not accept that kind of request.")
}
