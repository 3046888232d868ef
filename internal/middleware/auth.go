package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/blogicum/blogicum/internal/models"
	"github.com/blogicum/blogicum/internal/pkg/jwt"
	"github.com/blogicum/blogicum/internal/pkg/response"
	sessionpkg "github.com/blogicum/blogicum/internal/pkg/session"
	"github.com/blogicum/blogicum/internal/pkg/view"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeySID    = "session_id"

	// SessionCookie carries the signed session token.
	SessionCookie = "blogicum_session"
)

var errSessionInactive = errors.New("session expired or revoked")

// Authenticate resolves the session cookie into the signed-in user. Requests
// without a valid session continue anonymously and lose the stale cookie.
func Authenticate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookie)
		if err != nil || strings.TrimSpace(raw) == "" {
			c.Next()
			return
		}

		claims, err := ValidateTokenClaims(db, raw)
		if err != nil {
			ClearSessionCookie(c)
			c.Next()
			return
		}

		var user models.UserModel
		if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
			ClearSessionCookie(c)
			c.Next()
			return
		}

		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeySID, claims.SessionID)
		c.Set(view.UserKey, &user)
		sessionpkg.Touch(db, claims.UserID, claims.SessionID)
		c.Next()
	}
}

// RequireLogin redirects anonymous visitors to the login page with ?next=.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAuthenticated(c) {
			response.RedirectToLogin(c)
			return
		}
		c.Next()
	}
}

// ValidateTokenClaims validates a session token and returns its claims.
func ValidateTokenClaims(db *gorm.DB, rawToken string) (*jwt.Claims, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return nil, errors.New("token is required")
	}

	claims, err := jwt.Parse(token)
	if err != nil {
		return nil, err
	}
	active, err := sessionpkg.IsActive(db, claims.UserID, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, errSessionInactive
	}
	return claims, nil
}

// SetSessionCookie stores token in an HttpOnly, SameSite=Lax cookie.
func SetSessionCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(ttl.Seconds()), "/", "", secure, true)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

// CurrentSessionID extracts the authenticated session ID from context.
func CurrentSessionID(c *gin.Context) string {
	v, _ := c.Get(ContextKeySID)
	id, _ := v.(string)
	return id
}

// CurrentUser returns the signed-in user or nil.
func CurrentUser(c *gin.Context) *models.UserModel {
	return view.CurrentUser(c)
}

// IsAuthenticated returns true if the request carries a live session.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != ""
}
