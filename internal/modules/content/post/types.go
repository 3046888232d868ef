package post

import (
	"errors"
	"time"

	"github.com/blogicum/blogicum/internal/models"
	"github.com/blogicum/blogicum/internal/modules/storage/image"
)

var (
	ErrNotFound  = errors.New("post not found")
	ErrForbidden = errors.New("only the author may change this post")
)

// FieldError is a validation failure tied to one form field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

// Form is the post editor as submitted by the browser.
type Form struct {
	Title       string `form:"title"       binding:"required,max=256"`
	Text        string `form:"text"        binding:"required"`
	PubDate     string `form:"pub_date"`
	CategoryID  string `form:"category_id" binding:"required"`
	LocationID  string `form:"location_id"`
	IsPublished bool   `form:"is_published"`
	ClearImage  bool   `form:"clear_image"`
}

// Input is a validated Form ready for the service.
type Input struct {
	Title       string
	Text        string
	PubDate     time.Time
	CategoryID  string
	LocationID  string
	IsPublished bool
	Image       *image.Upload
	ClearImage  bool
}

// CategoryLister supplies the category choices of the editor.
type CategoryLister interface {
	ListPublished() ([]models.CategoryModel, error)
}

// LocationLister supplies the location choices of the editor.
type LocationLister interface {
	ListPublished() ([]models.LocationModel, error)
}
