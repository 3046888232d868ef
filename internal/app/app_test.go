package app_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	qt "github.com/frankban/quicktest"
	"gorm.io/gorm"

	"github.com/blogicum/blogicum/internal/app"
	"github.com/blogicum/blogicum/internal/config"
	"github.com/blogicum/blogicum/internal/middleware"
	"github.com/blogicum/blogicum/internal/models"
	"github.com/blogicum/blogicum/internal/modules/storage/image"
	pkgredis "github.com/blogicum/blogicum/internal/pkg/redis"
	"github.com/blogicum/blogicum/internal/testutil"
)

type env struct {
	db      *gorm.DB
	handler http.Handler
	mr      *miniredis.Miniredis
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	mr := miniredis.RunT(t)
	rc, err := pkgredis.Connect("redis://" + mr.Addr())
	qt.Assert(t, err, qt.IsNil)
	store, err := image.NewLocal(t.TempDir(), "/media/")
	qt.Assert(t, err, qt.IsNil)

	cfg := &config.AppConfig{
		Port:             8000,
		Env:              "production",
		PageSize:         10,
		SessionTTLH:      1,
		PageCacheSeconds: 60,
		Storage:          config.StorageConfig{Backend: config.StorageLocal, MaxSizeMB: 1},
		RateLimit:        config.RateLimitConfig{Max: 3, WindowSeconds: 60},
		JWTSecret:        "test-secret",
	}
	a, err := app.Build(nil, cfg, app.Deps{DB: db, Redis: rc, Store: store})
	qt.Assert(t, err, qt.IsNil)
	t.Cleanup(a.Shutdown)
	return &env{db: db, handler: a.Router(), mr: mr}
}

func (e *env) login(t *testing.T, username string) *http.Cookie {
	t.Helper()
	w := testutil.Post(e.handler, "/auth/login/", url.Values{"username": {username}, "password": {testutil.Password}}, nil)
	qt.Assert(t, w.Code, qt.Equals, http.StatusFound)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			return &http.Cookie{Name: ck.Name, Value: ck.Value}
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func multipartPost(h http.Handler, target string, fields map[string]string, filename string, file []byte, cookie *http.Cookie) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	if filename != "" {
		fw, _ := mw.CreateFormFile("image", filename)
		_, _ = fw.Write(file)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAnonymousIsSentToLogin(t *testing.T) {
	c := qt.New(t)
	e := newEnv(t)
	author := testutil.CreateUser(t, e.db, "author")
	p := testutil.CreatePost(t, e.db, author, testutil.CreateCategory(t, e.db, "travel", true), "trip")

	for _, path := range []string{"/posts/create/", "/posts/" + p.ID + "/edit/", "/posts/" + p.ID + "/delete/", "/edit_profile/", "/change_password/"} {
		w := testutil.Get(e.handler, path, nil)
		c.Assert(w.Code, qt.Equals, http.StatusFound, qt.Commentf(path))
		c.Assert(w.Header().Get("Location"), qt.Equals, "/auth/login/?next="+url.QueryEscape(path))
	}
}

func TestNonOwnerIsRedirectedToPost(t *testing.T) {
	c := qt.New(t)
	e := newEnv(t)
	author := testutil.CreateUser(t, e.db, "author")
	testutil.CreateUser(t, e.db, "intruder")
	p := testutil.CreatePost(t, e.db, author, testutil.CreateCategory(t, e.db, "travel", true), "trip")
	cookie := e.login(t, "intruder")
	detail := "/posts/" + p.ID + "/"

	w := testutil.Get(e.handler, detail+"edit/", cookie)
	c.Assert(w.Code, qt.Equals, http.StatusFound)
	c.Assert(w.Header().Get("Location"), qt.Equals, detail)

	w = multipartPost(e.handler, detail+"edit/", map[string]string{"title": "pwned", "text": "x", "category_id": *p.CategoryID}, "", nil, cookie)
	c.Assert(w.Code, qt.Equals, http.StatusFound)
	c.Assert(w.Header().Get("Location"), qt.Equals, detail)

	w = testutil.Post(e.handler, detail+"delete/", url.Values{}, cookie)
	c.Assert(w.Code, qt.Equals, http.StatusFound)
	c.Assert(w.Header().Get("Location"), qt.Equals, detail)

	var stored models.PostModel
	c.Assert(e.db.First(&stored, "id = ?", p.ID).Error, qt.IsNil)
	c.Assert(stored.Title, qt.Equals, "trip")
}

func TestEditPostMovesCategoryAndLocation(t *testing.T) {
	c := qt.New(t)
	e := newEnv(t)
	author := testutil.CreateUser(t, e.db, "author")
	travel := testutil.CreateCategory(t, e.db, "travel", true)
	food := testutil.CreateCategory(t, e.db, "food", true)
	moscow := testutil.CreateLocation(t, e.db, "Moscow")
	kazan := testutil.CreateLocation(t, e.db, "Kazan")
	p := testutil.CreatePost(t, e.db, author, travel, "trip", testutil.AtLocation(moscow))
	cookie := e.login(t, "author")
	detail := "/posts/" + p.ID + "/"

	w := multipartPost(e.handler, detail+"edit/", map[string]string{
		"title":        "dinner",
		"text":         "soup",
		"category_id":  food.ID,
		"location_id":  kazan.ID,
		"is_published": "true",
	}, "", nil, cookie)
	c.Assert(w.Code, qt.Equals, http.StatusFound)
	c.Assert(w.Header().Get("Location"), qt.Equals, detail)

	var stored models.PostModel
	c.Assert(e.db.First(&stored, "id = ?", p.ID).Error, qt.IsNil)
	c.Assert(stored.Title, qt.Equals, "dinner")
	c.Assert(*stored.CategoryID, qt.Equals, food.ID)
	c.Assert(*stored.LocationID, qt.Equals, kazan.ID)

	w = testutil.Get(e.handler, "/category/food/", nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(w.Body.String(), qt.Contains, "dinner")
	c.Assert(testutil.Get(e.handler, "/category/travel/", nil).Body.String(), qt.Not(qt.Contains), "dinner")
}

func TestPublicListingsHideNonPublicPosts(t *testing.T) {
	c := qt.New(t)
	e := newEnv(t)
	author := testutil.CreateUser(t, e.db, "author")
	travel := testutil.CreateCategory(t, e.db, "travel", true)
	secret := testutil.CreateCategory(t, e.db, "secret", false)
	testutil.CreatePost(t, e.db, author, travel, "Visible post")
	draft := testutil.CreatePost(t, e.db, author, travel, "Draft post", testutil.Unpublished())
	testutil.CreatePost(t, e.db, author, secret, "Secret post")

	w := testutil.Get(e.handler, "/", nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(w.Body.String(), qt.Contains, "Visible post")
	c.Assert(w.Body.String(), qt.Not(qt.Contains), "Draft post")
	c.Assert(w.Body.String(), qt.Not(qt.Contains), "Secret post")

	c.Assert(testutil.Get(e.handler, "/category/secret/", nil).Code, qt.Equals, http.StatusNotFound)
	c.Assert(testutil.Get(e.handler, "/posts/"+draft.ID+"/", nil).Code, qt.Equals, http.StatusNotFound)

	owner := e.login(t, "author")
	w = testutil.Get(e.handler, "/posts/"+draft.ID+"/", owner)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(w.Body.String(), qt.Contains, "Draft post")
}

func TestPostLifecycle(t *testing.T) {
	c := qt.New(t)
	e := newEnv(t)
	testutil.CreateUser(t, e.db, "author")
	reader := testutil.CreateUser(t, e.db, "reader")
	travel := testutil.CreateCategory(t, e.db, "travel", true)
	cookie := e.login(t, "author")

	w := testutil.Get(e.handler, "/posts/create/", cookie)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(w.Body.String(), qt.Contains, "Category travel")

	w = multipartPost(e.handler, "/posts/create/", map[string]string{"title": "", "text": "x", "category_id": travel.ID}, "", nil, cookie)
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(w.Body.String(), qt.Contains, "This field is required.")

	w = multipartPost(e.handler, "/posts/create/", map[string]string{
		"title":        "Sea **trip**",
		"text":         "We went to the *sea*.",
		"category_id":  travel.ID,
		"is_published": "true",
	}, "sea.png", []byte("\x89PNG\r\n\x1a\nfake"), cookie)
	c.Assert(w.Code, qt.Equals, http.StatusFound)
	c.Assert(w.Header().Get("Location"), qt.Equals, "/profile/author/")

	var p models.PostModel
	c.Assert(e.db.First(&p, "title = ?", "Sea **trip**").Error, qt.IsNil)
	c.Assert(p.Image, qt.Not(qt.Equals), "")
	detail := "/posts/" + p.ID + "/"

	w = testutil.Get(e.handler, detail, nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(w.Body.String(), qt.Contains, "<em>sea</em>")
	c.Assert(w.Body.String(), qt.Contains, `src="/media/`+p.Image+`"`)

	w = testutil.Get(e.handler, "/media/"+p.Image, nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(strings.HasPrefix(w.Body.String(), "\x89PNG"), qt.IsTrue)

	readerCookie := e.login(t, reader.Username)
	w = testutil.Post(e.handler, detail+"comment/", url.Values{"text": {"Lovely"}}, readerCookie)
	c.Assert(w.Code, qt.Equals, http.StatusFound)

	w = testutil.Get(e.handler, "/", nil)
	c.Assert(w.Body.String(), qt.Contains, "Comments (1)")

	w = testutil.Get(e.handler, detail+"delete/", cookie)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	w = testutil.Post(e.handler, detail+"delete/", url.Values{}, cookie)
	c.Assert(w.Code, qt.Equals, http.StatusFound)
	c.Assert(w.Header().Get("Location"), qt.Equals, "/profile/author/")

	var comments int64
	c.Assert(e.db.Model(&models.CommentModel{}).Where("post_id = ?", p.ID).Count(&comments).Error, qt.IsNil)
	c.Assert(comments, qt.Equals, int64(0))
	c.Assert(testutil.Get(e.handler, detail, cookie).Code, qt.Equals, http.StatusNotFound)
	c.Assert(testutil.Get(e.handler, "/media/"+p.Image, nil).Code, qt.Equals, http.StatusNotFound)
}

func TestPageCache(t *testing.T) {
	c := qt.New(t)
	e := newEnv(t)
	author := testutil.CreateUser(t, e.db, "author")
	travel := testutil.CreateCategory(t, e.db, "travel", true)
	p := testutil.CreatePost(t, e.db, author, travel, "First")

	c.Assert(testutil.Get(e.handler, "/", nil).Header().Get("X-Page-Cache"), qt.Equals, "miss")
	c.Assert(testutil.Get(e.handler, "/", nil).Header().Get("X-Page-Cache"), qt.Equals, "hit")

	cookie := e.login(t, "author")
	w := testutil.Get(e.handler, "/", cookie)
	c.Assert(w.Header().Get("X-Page-Cache"), qt.Equals, "")

	w = testutil.Post(e.handler, "/posts/"+p.ID+"/comment/", url.Values{"text": {"bump"}}, cookie)
	c.Assert(w.Code, qt.Equals, http.StatusFound)

	w = testutil.Get(e.handler, "/", nil)
	c.Assert(w.Header().Get("X-Page-Cache"), qt.Equals, "miss")
	c.Assert(w.Body.String(), qt.Contains, "Comments (1)")
}

func TestLoginIsRateLimited(t *testing.T) {
	c := qt.New(t)
	e := newEnv(t)
	testutil.CreateUser(t, e.db, "alice")
	bad := url.Values{"username": {"alice"}, "password": {"wrong"}}

	for i := 0; i < 3; i++ {
		c.Assert(testutil.Post(e.handler, "/auth/login/", bad, nil).Code, qt.Equals, http.StatusBadRequest)
	}
	w := testutil.Post(e.handler, "/auth/login/", bad, nil)
	c.Assert(w.Code, qt.Equals, http.StatusTooManyRequests)
	c.Assert(w.Header().Get("Retry-After"), qt.Not(qt.Equals), "")

	e.mr.FastForward(61 * time.Second)
	c.Assert(testutil.Post(e.handler, "/auth/login/", bad, nil).Code, qt.Equals, http.StatusBadRequest)
}

func TestMiscRoutes(t *testing.T) {
	c := qt.New(t)
	e := newEnv(t)

	w := testutil.Get(e.handler, "/healthz", nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(w.Body.String(), qt.Contains, `"status":"ok"`)

	c.Assert(testutil.Get(e.handler, "/pages/about/", nil).Code, qt.Equals, http.StatusOK)
	c.Assert(testutil.Get(e.handler, "/pages/rules/", nil).Code, qt.Equals, http.StatusOK)
	c.Assert(testutil.Get(e.handler, "/nope/", nil).Code, qt.Equals, http.StatusNotFound)
	c.Assert(testutil.Do(e.handler, http.MethodPut, "/", nil, nil).Code, qt.Equals, http.StatusMethodNotAllowed)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	c.Assert(w.Code, qt.Equals, http.StatusForbidden)
}
