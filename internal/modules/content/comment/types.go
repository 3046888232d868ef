package comment

import "errors"

var (
	ErrNotFound  = errors.New("comment not found")
	ErrForbidden = errors.New("only the author may change this comment")
	ErrEmptyText = errors.New("comment text is required")
)

// Form is the comment box as submitted by the browser.
type Form struct {
	Text string `form:"text" binding:"required"`
}
