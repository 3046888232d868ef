// Package response writes HTML error pages and redirects.
package response

import (
	"net/http"
	"net/url"

	"github.com/blogicum/blogicum/internal/pkg/view"
	"github.com/gin-gonic/gin"
)

const errorTemplate = "error.html"

// Error renders the shared error page and aborts the chain.
func Error(c *gin.Context, status int, title, message string) {
	view.Render(c, status, errorTemplate, gin.H{
		"Status":  status,
		"Title":   title,
		"Message": message,
	})
	c.Abort()
}

// BadRequest sends a 400 error page.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "Bad request", message)
}

// Forbidden sends a 403 error page.
func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden", "You are not allowed to do that.")
}

// NotFound sends a 404 error page.
func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Page not found", "The page you are looking for does not exist or has been hidden.")
}

// TooManyRequests sends a 429 error page.
func TooManyRequests(c *gin.Context) {
	Error(c, http.StatusTooManyRequests, "Slow down", "Too many attempts. Please try again in a minute.")
}

// InternalError records err on the context for the request logger and sends a 500 page.
func InternalError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	Error(c, http.StatusInternalServerError, "Server error", "Something went wrong on our side. Please try again later.")
}

// Redirect sends a 302 to location (POST-redirect-GET).
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
	c.Abort()
}

// RedirectToLogin sends the visitor to the login page, returning to the current URL afterwards.
func RedirectToLogin(c *gin.Context) {
	Redirect(c, "/auth/login/?next="+url.QueryEscape(c.Request.URL.RequestURI()))
}
