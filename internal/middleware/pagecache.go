package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	PageCachePrefix     = "blogicum:page:"
	defaultPageCacheTTL = 15 * time.Second
	defaultPageMaxBody  = 1 << 20
	pageCacheHeader     = "X-Page-Cache"
)

// PageCacheOptions configures PageCache.
type PageCacheOptions struct {
	TTL          time.Duration
	SkipPaths    []string
	MaxBodyBytes int
}

type cachedPage struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
}

type cacheBodyWriter struct {
	gin.ResponseWriter
	body         []byte
	maxBodyBytes int
	overflow     bool
}

func (w *cacheBodyWriter) Write(data []byte) (int, error) {
	w.capture(data)
	return w.ResponseWriter.Write(data)
}

func (w *cacheBodyWriter) WriteString(s string) (int, error) {
	w.capture([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

func (w *cacheBodyWriter) capture(data []byte) {
	if w.overflow || len(data) == 0 {
		return
	}
	if len(w.body)+len(data) > w.maxBodyBytes {
		w.overflow = true
		w.body = nil
		return
	}
	w.body = append(w.body, data...)
}

// PageCache serves anonymous GET pages from Redis. Signed-in visitors always
// get a fresh page since the layout shows their name and owner actions.
func PageCache(rdb *redis.Client, opts PageCacheOptions) gin.HandlerFunc {
	if opts.TTL <= 0 {
		opts.TTL = defaultPageCacheTTL
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultPageMaxBody
	}
	return func(c *gin.Context) {
		if rdb == nil || c.Request.Method != http.MethodGet || IsAuthenticated(c) ||
			shouldSkipCachePath(c.Request.URL.Path, opts.SkipPaths) {
			c.Next()
			return
		}

		key := PageCachePrefix + c.Request.URL.RequestURI()
		if page, ok := readCachedPage(c.Request.Context(), rdb, key); ok {
			c.Header(pageCacheHeader, "hit")
			c.Data(page.Status, page.ContentType, page.Body)
			c.Abort()
			return
		}

		buffer := &cacheBodyWriter{ResponseWriter: c.Writer, maxBodyBytes: opts.MaxBodyBytes}
		c.Writer = buffer
		c.Header(pageCacheHeader, "miss")
		c.Next()

		if c.Writer.Status() != http.StatusOK || buffer.overflow || len(buffer.body) == 0 || len(c.Errors) > 0 {
			return
		}
		raw, err := json.Marshal(cachedPage{
			Status:      http.StatusOK,
			ContentType: c.Writer.Header().Get("Content-Type"),
			Body:        buffer.body,
		})
		if err != nil {
			return
		}
		_ = rdb.Set(c.Request.Context(), key, raw, opts.TTL).Err()
	}
}

// PagePurger deletes keys by prefix; *redis.Client from pkg/redis satisfies it.
type PagePurger interface {
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
}

// PurgeOnWrite drops every cached page after a successful POST, so new or
// edited content is visible to anonymous readers straight away.
func PurgeOnWrite(p PagePurger, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if p == nil || c.Request.Method != http.MethodPost || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		if _, err := PurgePageCache(c.Request.Context(), p); err != nil && log != nil {
			log.Warn("page cache purge failed", zap.Error(err))
		}
	}
}

// PurgePageCache deletes all cached pages and reports how many were removed.
func PurgePageCache(ctx context.Context, p PagePurger) (int64, error) {
	if p == nil {
		return 0, nil
	}
	return p.DeletePrefix(ctx, PageCachePrefix)
}

func readCachedPage(ctx context.Context, rdb *redis.Client, key string) (cachedPage, bool) {
	raw, err := rdb.Get(ctx, key).Bytes()
	if err != nil || len(raw) == 0 {
		return cachedPage{}, false
	}
	var page cachedPage
	if err := json.Unmarshal(raw, &page); err != nil || page.Status <= 0 {
		return cachedPage{}, false
	}
	if page.ContentType == "" {
		page.ContentType = "text/html; charset=utf-8"
	}
	return page, true
}

func shouldSkipCachePath(path string, patterns []string) bool {
	for _, pattern := range patterns {
		p := strings.TrimSpace(pattern)
		if p == "" {
			continue
		}
		if strings.HasSuffix(p, "*") {
			if strings.HasPrefix(path, strings.TrimSuffix(p, "*")) {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}
