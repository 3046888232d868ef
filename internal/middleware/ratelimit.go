package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/blogicum/blogicum/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Counter counts hits inside a fixed window. *redis.Client from pkg/redis satisfies it.
type Counter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RateLimit caps POST requests per client IP for scope. A nil counter
// disables the limit and counter errors let the request through.
func RateLimit(counter Counter, log *zap.Logger, scope string, max int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		key := fmt.Sprintf("blogicum:rate_limit:%s:%s", scope, ip)
		count, left, err := counter.IncrWindow(c.Request.Context(), key, window)
		if err != nil {
			if log != nil {
				log.Warn("rate limit unavailable", zap.String("scope", scope), zap.Error(err))
			}
			c.Next()
			return
		}

		if count > int64(max) {
			secs := int(left.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			response.TooManyRequests(c)
			return
		}

		c.Next()
	}
}
