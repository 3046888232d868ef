package category_test

import (
	"net/http"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/blogicum/blogicum/internal/modules/content/category"
	"github.com/blogicum/blogicum/internal/modules/content/post"
	"github.com/blogicum/blogicum/internal/testutil"
)

func TestCategoryPage(t *testing.T) {
	c := qt.New(t)
	db := testutil.NewDB(t)
	author := testutil.CreateUser(t, db, "author")
	travel := testutil.CreateCategory(t, db, "travel", true)
	hidden := testutil.CreateCategory(t, db, "secret", false)
	testutil.CreatePost(t, db, author, travel, "Trip to the sea")
	testutil.CreatePost(t, db, author, travel, "Draft trip", testutil.Unpublished())
	testutil.CreatePost(t, db, author, travel, "Future trip", testutil.PublishedAt(time.Now().Add(time.Hour)))
	testutil.CreatePost(t, db, author, hidden, "Hidden trip")

	r := testutil.NewEngine(t, db)
	category.NewHandler(category.NewService(db), post.NewService(db, nil, 0, nil), 10).RegisterRoutes(r)

	w := testutil.Get(r, "/category/travel/", nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	body := w.Body.String()
	c.Assert(body, qt.Contains, "Category travel")
	c.Assert(body, qt.Contains, "Trip to the sea")
	c.Assert(body, qt.Not(qt.Contains), "Draft trip")
	c.Assert(body, qt.Not(qt.Contains), "Future trip")

	owner := testutil.Login(t, db, author)
	c.Assert(testutil.Get(r, "/category/secret/", nil).Code, qt.Equals, http.StatusNotFound)
	c.Assert(testutil.Get(r, "/category/secret/", owner).Code, qt.Equals, http.StatusNotFound)
	c.Assert(testutil.Get(r, "/category/missing/", nil).Code, qt.Equals, http.StatusNotFound)
}
