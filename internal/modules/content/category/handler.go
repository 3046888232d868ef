package category

import (
	"errors"

	"github.com/blogicum/blogicum/internal/modules/content/post"
	"github.com/blogicum/blogicum/internal/pkg/pagination"
	"github.com/blogicum/blogicum/internal/pkg/response"
	"github.com/blogicum/blogicum/internal/pkg/view"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc      *Service
	posts    *post.Service
	pageSize int
}

func NewHandler(svc *Service, posts *post.Service, pageSize int) *Handler {
	return &Handler{svc: svc, posts: posts, pageSize: pageSize}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/category/:slug/", h.categoryPosts)
}

// categoryPosts GET /category/:slug/
func (h *Handler) categoryPosts(c *gin.Context) {
	cat, err := h.svc.GetPublishedBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}

	posts, page, err := h.posts.ListByCategory(cat.ID, pagination.FromContext(c, h.pageSize))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	view.OK(c, "category.html", gin.H{"Title": cat.Title, "Category": cat, "Posts": posts, "Page": page})
}
