package comment

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/blogicum/blogicum/internal/models"
	"github.com/blogicum/blogicum/internal/modules/content/post"
	"github.com/blogicum/blogicum/internal/testutil"
)

func TestCreate(t *testing.T) {
	c := qt.New(t)
	db := testutil.NewDB(t)
	svc := NewService(db, post.NewService(db, nil, 0, nil))
	author := testutil.CreateUser(t, db, "author")
	reader := testutil.CreateUser(t, db, "reader")
	travel := testutil.CreateCategory(t, db, "travel", true)
	public := testutil.CreatePost(t, db, author, travel, "public")
	draft := testutil.CreatePost(t, db, author, travel, "draft", testutil.Unpublished())
	deferred := testutil.CreatePost(t, db, author, travel, "deferred", testutil.PublishedAt(time.Now().Add(time.Hour)))

	cm, err := svc.Create(public.ID, reader.ID, "  great read  ")
	c.Assert(err, qt.IsNil)
	c.Assert(cm.Text, qt.Equals, "great read")
	c.Assert(cm.PostID, qt.Equals, public.ID)
	c.Assert(cm.AuthorID, qt.Equals, reader.ID)

	_, err = svc.Create(public.ID, reader.ID, " \n ")
	c.Assert(err, qt.Equals, ErrEmptyText)

	for _, id := range []string{draft.ID, deferred.ID, "missing"} {
		_, err = svc.Create(id, reader.ID, "hello")
		c.Assert(err, qt.Equals, ErrNotFound)
		_, err = svc.Create(id, author.ID, "hello")
		c.Assert(err, qt.Equals, ErrNotFound)
	}
}

func TestOwnership(t *testing.T) {
	c := qt.New(t)
	db := testutil.NewDB(t)
	svc := NewService(db, post.NewService(db, nil, 0, nil))
	author := testutil.CreateUser(t, db, "author")
	reader := testutil.CreateUser(t, db, "reader")
	travel := testutil.CreateCategory(t, db, "travel", true)
	p := testutil.CreatePost(t, db, author, travel, "post")
	other := testutil.CreatePost(t, db, author, travel, "other")
	cm := testutil.CreateComment(t, db, reader, p, "first")

	_, err := svc.Update(p.ID, cm.ID, author.ID, "rewritten by post author")
	c.Assert(err, qt.Equals, ErrForbidden)
	_, err = svc.Delete(p.ID, cm.ID, author.ID)
	c.Assert(err, qt.Equals, ErrForbidden)

	_, err = svc.Update(other.ID, cm.ID, reader.ID, "wrong post")
	c.Assert(err, qt.Equals, ErrNotFound)

	_, err = svc.Update(p.ID, cm.ID, reader.ID, "")
	c.Assert(err, qt.Equals, ErrEmptyText)

	updated, err := svc.Update(p.ID, cm.ID, reader.ID, "second thoughts")
	c.Assert(err, qt.IsNil)
	c.Assert(updated.Text, qt.Equals, "second thoughts")
	c.Assert(updated.Post.ID, qt.Equals, p.ID)

	_, err = svc.Delete(p.ID, cm.ID, reader.ID)
	c.Assert(err, qt.IsNil)
	var count int64
	c.Assert(db.Model(&models.CommentModel{}).Count(&count).Error, qt.IsNil)
	c.Assert(count, qt.Equals, int64(0))

	_, err = svc.Get(p.ID, cm.ID)
	c.Assert(err, qt.Equals, ErrNotFound)
}
