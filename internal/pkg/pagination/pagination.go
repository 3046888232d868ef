package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultPage = 1
	DefaultSize = 10
	MaxSize     = 100
)

// Query holds parsed pagination parameters.
type Query struct {
	Page int
	Size int
}

// Page is the pagination state handed to templates.
type Page struct {
	Number     int
	Size       int
	Total      int64
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// Next returns the following page number.
func (p Page) Next() int { return p.Number + 1 }

// Prev returns the preceding page number.
func (p Page) Prev() int { return p.Number - 1 }

// FromContext reads ?page= from the request; size comes from configuration.
func FromContext(c *gin.Context, size int) Query {
	return NewQuery(parseIntOr(c.Query("page"), DefaultPage), size)
}

// NewQuery clamps page and size into their valid ranges.
func NewQuery(page, size int) Query {
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return Query{Page: page, Size: size}
}

// Paginate counts the rows matched by db, then loads the requested page into
// dest with scopes applied. Pages past the end fall back to the last page.
func Paginate[T any](db *gorm.DB, q Query, dest *[]T, scopes ...func(*gorm.DB) *gorm.DB) (Page, error) {
	q = NewQuery(q.Page, q.Size)

	var total int64
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Page{}, err
	}

	totalPages := int((total + int64(q.Size) - 1) / int64(q.Size))
	if totalPages < 1 {
		totalPages = 1
	}
	if q.Page > totalPages {
		q.Page = totalPages
	}

	offset := (q.Page - 1) * q.Size
	if err := db.Session(&gorm.Session{}).Scopes(scopes...).Offset(offset).Limit(q.Size).Find(dest).Error; err != nil {
		return Page{}, err
	}

	return Page{
		Number:     q.Page,
		Size:       q.Size,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    q.Page < totalPages,
		HasPrev:    q.Page > 1,
	}, nil
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
