package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/blogicum/blogicum/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// SameOrigin rejects form posts sent from another site. Requests without
// Origin and Referer headers pass; the session cookie is SameSite=Lax.
func SameOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		source := c.GetHeader("Origin")
		if source == "" || source == "null" {
			source = c.GetHeader("Referer")
		}
		if source == "" {
			c.Next()
			return
		}
		u, err := url.Parse(source)
		if err != nil || !strings.EqualFold(u.Host, c.Request.Host) {
			response.Forbidden(c)
			return
		}
		c.Next()
	}
}
