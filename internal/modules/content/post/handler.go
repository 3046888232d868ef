package post

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/blogicum/blogicum/internal/middleware"
	"github.com/blogicum/blogicum/internal/models"
	"github.com/blogicum/blogicum/internal/modules/storage/image"
	"github.com/blogicum/blogicum/internal/pkg/form"
	"github.com/blogicum/blogicum/internal/pkg/pagination"
	"github.com/blogicum/blogicum/internal/pkg/response"
	"github.com/blogicum/blogicum/internal/pkg/view"
	"github.com/gin-gonic/gin"
)

const (
	tmplIndex  = "index.html"
	tmplDetail = "post_detail.html"
	tmplForm   = "post_form.html"
	tmplDelete = "post_delete.html"
)

// Handler handles post HTTP requests.
type Handler struct {
	svc        *Service
	categories CategoryLister
	locations  LocationLister
	pageSize   int
	loc        *time.Location
}

func NewHandler(svc *Service, categories CategoryLister, locations LocationLister, pageSize int, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{svc: svc, categories: categories, locations: locations, pageSize: pageSize, loc: loc}
}

// RegisterRoutes mounts the index and post routes.
func (h *Handler) RegisterRoutes(r gin.IRouter, loginMW gin.HandlerFunc) {
	r.GET("/", h.index)

	posts := r.Group("/posts")
	posts.GET("/:id/", h.detail)

	authed := posts.Group("", loginMW)
	authed.GET("/create/", h.createForm)
	authed.POST("/create/", h.create)
	authed.GET("/:id/edit/", h.editForm)
	authed.POST("/:id/edit/", h.edit)
	authed.GET("/:id/delete/", h.deleteForm)
	authed.POST("/:id/delete/", h.delete)
}

// index GET /
func (h *Handler) index(c *gin.Context) {
	posts, page, err := h.svc.List(pagination.FromContext(c, h.pageSize))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	view.OK(c, tmplIndex, gin.H{"Posts": posts, "Page": page})
}

// detail GET /posts/:id/
func (h *Handler) detail(c *gin.Context) {
	post, err := h.svc.Get(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		h.fail(c, post, err)
		return
	}
	comments, err := h.svc.Comments(post.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	view.OK(c, tmplDetail, gin.H{"Title": post.Title, "Post": post, "Comments": comments})
}

// createForm GET /posts/create/
func (h *Handler) createForm(c *gin.Context) {
	h.renderForm(c, http.StatusOK, nil, Form{
		IsPublished: true,
		PubDate:     time.Now().In(h.loc).Format(view.DateTimeLocal),
	}, nil)
}

// create POST /posts/create/
func (h *Handler) create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	in, f, errs, closeUpload := h.bind(c)
	defer closeUpload()
	if len(errs) > 0 {
		h.renderForm(c, http.StatusBadRequest, nil, f, errs)
		return
	}

	if _, err := h.svc.Create(c.Request.Context(), user.ID, in); err != nil {
		var fe *FieldError
		if errors.As(err, &fe) {
			h.renderForm(c, http.StatusBadRequest, nil, f, map[string]string{fe.Field: fe.Message})
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Redirect(c, view.ProfilePath(user.Username))
}

// editForm GET /posts/:id/edit/
func (h *Handler) editForm(c *gin.Context) {
	post, err := h.svc.GetOwned(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		h.fail(c, post, err)
		return
	}
	h.renderForm(c, http.StatusOK, post, h.formFromPost(post), nil)
}

// edit POST /posts/:id/edit/
func (h *Handler) edit(c *gin.Context) {
	viewerID := middleware.CurrentUserID(c)
	post, err := h.svc.GetOwned(c.Param("id"), viewerID)
	if err != nil {
		h.fail(c, post, err)
		return
	}

	in, f, errs, closeUpload := h.bind(c)
	defer closeUpload()
	if len(errs) > 0 {
		h.renderForm(c, http.StatusBadRequest, post, f, errs)
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), post.ID, viewerID, in)
	if err != nil {
		var fe *FieldError
		if errors.As(err, &fe) {
			h.renderForm(c, http.StatusBadRequest, post, f, map[string]string{fe.Field: fe.Message})
			return
		}
		h.fail(c, post, err)
		return
	}
	response.Redirect(c, DetailPath(updated.ID))
}

// deleteForm GET /posts/:id/delete/
func (h *Handler) deleteForm(c *gin.Context) {
	post, err := h.svc.GetOwned(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		h.fail(c, post, err)
		return
	}
	view.OK(c, tmplDelete, gin.H{"Title": "Delete post", "Post": post})
}

// delete POST /posts/:id/delete/
func (h *Handler) delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	post, err := h.svc.Delete(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		h.fail(c, post, err)
		return
	}
	response.Redirect(c, view.ProfilePath(user.Username))
}

// fail maps service errors: unknown posts are 404, foreign posts send the
// visitor back to the post page.
func (h *Handler) fail(c *gin.Context, post *models.PostModel, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(c)
	case errors.Is(err, ErrForbidden) && post != nil:
		response.Redirect(c, DetailPath(post.ID))
	default:
		response.InternalError(c, err)
	}
}

// bind reads the editor. The returned func closes the uploaded file.
func (h *Handler) bind(c *gin.Context) (Input, Form, map[string]string, func()) {
	noop := func() {}

	var f Form
	bindErr := c.ShouldBind(&f)
	errs := form.Errors(bindErr)

	in := Input{
		Title:       strings.TrimSpace(f.Title),
		Text:        f.Text,
		CategoryID:  strings.TrimSpace(f.CategoryID),
		LocationID:  strings.TrimSpace(f.LocationID),
		IsPublished: f.IsPublished,
		ClearImage:  f.ClearImage,
	}
	if raw := strings.TrimSpace(f.PubDate); raw != "" {
		at, err := time.ParseInLocation(view.DateTimeLocal, raw, h.loc)
		if err != nil {
			errs["pub_date"] = "Enter a valid date/time."
		}
		in.PubDate = at
	}
	if bindErr == nil && in.Title == "" {
		errs["title"] = "This field is required."
	}

	upload, closeUpload, err := formUpload(c)
	if err != nil {
		errs["image"] = "The submitted file could not be read."
		return in, f, errs, noop
	}
	in.Image = upload
	return in, f, errs, closeUpload
}

func (h *Handler) renderForm(c *gin.Context, status int, post *models.PostModel, f Form, errs map[string]string) {
	categories, err := h.categories.ListPublished()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	locations, err := h.locations.ListPublished()
	if err != nil {
		response.InternalError(c, err)
		return
	}

	data := gin.H{
		"Form":       f,
		"Errors":     errs,
		"Categories": categories,
		"Locations":  locations,
		"Title":      "New post",
	}
	if post != nil {
		data["Post"] = post
		data["Title"] = "Edit post"
	}
	view.Render(c, status, tmplForm, data)
}

func (h *Handler) formFromPost(p *models.PostModel) Form {
	f := Form{
		Title:       p.Title,
		Text:        p.Text,
		PubDate:     p.PubDate.In(h.loc).Format(view.DateTimeLocal),
		IsPublished: p.IsPublished,
	}
	if p.CategoryID != nil {
		f.CategoryID = *p.CategoryID
	}
	if p.LocationID != nil {
		f.LocationID = *p.LocationID
	}
	return f
}

func formUpload(c *gin.Context) (*image.Upload, func(), error) {
	noop := func() {}
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}
	return &image.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, func() { _ = f.Close() }, nil
}

// DetailPath is the URL of a post page.
func DetailPath(id string) string { return "/posts/" + id + "/" }
