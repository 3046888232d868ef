package category

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/blogicum/blogicum/internal/models"
	"github.com/blogicum/blogicum/internal/testutil"
)

func TestCreateDerivesSlug(t *testing.T) {
	c := qt.New(t)
	svc := NewService(testutil.NewDB(t))

	cat, err := svc.Create(CreateCategoryDTO{Title: "  Еда и напитки ", IsPublished: true})
	c.Assert(err, qt.IsNil)
	c.Assert(cat.Slug, qt.Equals, "eda-i-napitki")
	c.Assert(cat.Title, qt.Equals, "Еда и напитки")
	c.Assert(cat.IsPublished, qt.IsTrue)

	_, err = svc.Create(CreateCategoryDTO{Title: "Eda i napitki"})
	c.Assert(errors.Is(err, ErrSlugTaken), qt.IsTrue, qt.Commentf("got %v", err))
}

func TestCreateRejectsBadInput(t *testing.T) {
	svc := NewService(testutil.NewDB(t))
	tests := map[string]struct {
		dto  CreateCategoryDTO
		want error
	}{
		"empty title":       {CreateCategoryDTO{Title: "  "}, ErrEmptyTitle},
		"slug with spaces":  {CreateCategoryDTO{Title: "Travel", Slug: "far away"}, ErrInvalidSlug},
		"nothing sluggable": {CreateCategoryDTO{Title: "!!!"}, ErrInvalidSlug},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(tt.dto)
			qt.Assert(t, err, qt.Equals, tt.want)
		})
	}
}

func TestVisibility(t *testing.T) {
	c := qt.New(t)
	db := testutil.NewDB(t)
	svc := NewService(db)
	testutil.CreateCategory(t, db, "travel", true)
	testutil.CreateCategory(t, db, "secret", false)

	published, err := svc.ListPublished()
	c.Assert(err, qt.IsNil)
	c.Assert(published, qt.HasLen, 1)
	c.Assert(published[0].Slug, qt.Equals, "travel")

	all, err := svc.List()
	c.Assert(err, qt.IsNil)
	c.Assert(all, qt.HasLen, 2)

	_, err = svc.GetPublishedBySlug("secret")
	c.Assert(err, qt.Equals, ErrNotFound)
	_, err = svc.GetPublishedBySlug("missing")
	c.Assert(err, qt.Equals, ErrNotFound)

	cat, err := svc.SetPublished("secret", true)
	c.Assert(err, qt.IsNil)
	c.Assert(cat.IsPublished, qt.IsTrue)
	_, err = svc.GetPublishedBySlug("secret")
	c.Assert(err, qt.IsNil)

	_, err = svc.SetPublished("travel", false)
	c.Assert(err, qt.IsNil)
	_, err = svc.GetPublishedBySlug("travel")
	c.Assert(err, qt.Equals, ErrNotFound)
}

func TestDeleteDetachesPosts(t *testing.T) {
	c := qt.New(t)
	db := testutil.NewDB(t)
	svc := NewService(db)
	author := testutil.CreateUser(t, db, "author")
	cat := testutil.CreateCategory(t, db, "travel", true)
	p := testutil.CreatePost(t, db, author, cat, "trip")

	c.Assert(svc.Delete("travel"), qt.IsNil)
	c.Assert(svc.Delete("travel"), qt.Equals, ErrNotFound)

	var stored models.PostModel
	c.Assert(db.First(&stored, "id = ?", p.ID).Error, qt.IsNil)
	c.Assert(stored.CategoryID, qt.IsNil)
}
