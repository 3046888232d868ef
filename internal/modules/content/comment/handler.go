package comment

import (
	"errors"
	"net/http"

	"github.com/blogicum/blogicum/internal/middleware"
	"github.com/blogicum/blogicum/internal/models"
	"github.com/blogicum/blogicum/internal/modules/content/post"
	"github.com/blogicum/blogicum/internal/pkg/form"
	"github.com/blogicum/blogicum/internal/pkg/response"
	"github.com/blogicum/blogicum/internal/pkg/view"
	"github.com/gin-gonic/gin"
)

const (
	tmplDetail = "post_detail.html"
	tmplForm   = "comment_form.html"
	tmplDelete = "comment_delete.html"

	msgRequired = "This field is required."
)

type Handler struct {
	svc   *Service
	posts *post.Service
}

func NewHandler(svc *Service, posts *post.Service) *Handler {
	return &Handler{svc: svc, posts: posts}
}

// RegisterRoutes mounts the comment routes. All of them need a signed-in user.
func (h *Handler) RegisterRoutes(r gin.IRouter, loginMW gin.HandlerFunc) {
	g := r.Group("/posts/:id", loginMW)
	g.POST("/comment/", h.create)
	g.GET("/edit_comment/:comment_id/", h.editForm)
	g.POST("/edit_comment/:comment_id/", h.edit)
	g.GET("/delete_comment/:comment_id/", h.deleteForm)
	g.POST("/delete_comment/:comment_id/", h.delete)
}

// create POST /posts/:id/comment/
func (h *Handler) create(c *gin.Context) {
	postID := c.Param("id")
	var f Form
	errs := form.Errors(c.ShouldBind(&f))

	_, err := h.svc.Create(postID, middleware.CurrentUserID(c), f.Text)
	switch {
	case err == nil:
		response.Redirect(c, post.DetailPath(postID))
	case errors.Is(err, ErrNotFound):
		response.NotFound(c)
	case errors.Is(err, ErrEmptyText):
		if len(errs) == 0 {
			errs["text"] = msgRequired
		}
		h.renderDetail(c, postID, f, errs)
	default:
		response.InternalError(c, err)
	}
}

// editForm GET /posts/:id/edit_comment/:comment_id/
func (h *Handler) editForm(c *gin.Context) {
	cm, err := h.svc.GetOwned(c.Param("id"), c.Param("comment_id"), middleware.CurrentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderForm(c, http.StatusOK, cm, Form{Text: cm.Text}, nil)
}

// edit POST /posts/:id/edit_comment/:comment_id/
func (h *Handler) edit(c *gin.Context) {
	var f Form
	errs := form.Errors(c.ShouldBind(&f))

	cm, err := h.svc.Update(c.Param("id"), c.Param("comment_id"), middleware.CurrentUserID(c), f.Text)
	switch {
	case err == nil:
		response.Redirect(c, post.DetailPath(cm.PostID))
	case errors.Is(err, ErrEmptyText):
		if len(errs) == 0 {
			errs["text"] = msgRequired
		}
		h.renderForm(c, http.StatusBadRequest, cm, f, errs)
	default:
		h.fail(c, err)
	}
}

// deleteForm GET /posts/:id/delete_comment/:comment_id/
func (h *Handler) deleteForm(c *gin.Context) {
	cm, err := h.svc.GetOwned(c.Param("id"), c.Param("comment_id"), middleware.CurrentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	view.OK(c, tmplDelete, gin.H{"Title": "Delete comment", "Post": cm.Post, "Comment": cm})
}

// delete POST /posts/:id/delete_comment/:comment_id/
func (h *Handler) delete(c *gin.Context) {
	cm, err := h.svc.Delete(c.Param("id"), c.Param("comment_id"), middleware.CurrentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Redirect(c, post.DetailPath(cm.PostID))
}

// fail maps service errors. Comments of someone else send the visitor
// back to the post page.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(c)
	case errors.Is(err, ErrForbidden):
		response.Redirect(c, post.DetailPath(c.Param("id")))
	default:
		response.InternalError(c, err)
	}
}

func (h *Handler) renderForm(c *gin.Context, status int, cm *models.CommentModel, f Form, errs map[string]string) {
	view.Render(c, status, tmplForm, gin.H{
		"Title":   "Edit comment",
		"Post":    cm.Post,
		"Comment": cm,
		"Form":    f,
		"Errors":  errs,
	})
}

// renderDetail shows the post page again with the rejected comment.
func (h *Handler) renderDetail(c *gin.Context, postID string, f Form, errs map[string]string) {
	p, err := h.posts.GetVisible(postID)
	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	comments, err := h.posts.Comments(p.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	view.Render(c, http.StatusBadRequest, tmplDetail, gin.H{
		"Title":    p.Title,
		"Post":     p,
		"Comments": comments,
		"Form":     f,
		"Errors":   errs,
	})
}
