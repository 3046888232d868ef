package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/blogicum/blogicum/internal/middleware"
	"github.com/blogicum/blogicum/internal/models"
	"github.com/blogicum/blogicum/internal/pkg/form"
	"github.com/blogicum/blogicum/internal/pkg/session"
	"github.com/blogicum/blogicum/internal/pkg/view"
)

// NewEngine returns a gin engine with the page templates and cookie auth.
func NewEngine(t testing.TB, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := form.Setup(); err != nil {
		t.Fatalf("form setup: %v", err)
	}
	tmpl, err := view.Load(view.Options{})
	if err != nil {
		t.Fatalf("load templates: %v", err)
	}
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(middleware.Authenticate(db))
	return r
}

// Login opens a session for u and returns its cookie.
func Login(t testing.TB, db *gorm.DB, u *models.UserModel) *http.Cookie {
	t.Helper()
	token, _, err := session.Issue(db, u.ID, "127.0.0.1", "testutil", time.Hour)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	return &http.Cookie{Name: middleware.SessionCookie, Value: token}
}

// Get performs a GET, signed in when cookie is non-nil.
func Get(h http.Handler, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	return Do(h, http.MethodGet, target, nil, cookie)
}

// Post submits form url-encoded, signed in when cookie is non-nil.
func Post(h http.Handler, target string, values url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	return Do(h, http.MethodPost, target, values, cookie)
}

// Do runs one request against h.
func Do(h http.Handler, method, target string, values url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if values != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
