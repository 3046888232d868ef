// Package testutil builds throwaway databases and fixtures for tests.
package testutil

import (
	"testing"
	"time"

	"github.com/blogicum/blogicum/internal/database"
	"github.com/blogicum/blogicum/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Password is the plain-text password of every fixture user.
const Password = "correct-horse-battery"

// NewDB returns a migrated in-memory SQLite database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Open(sqlite.Open(":memory:?_foreign_keys=1"), logger.Silent)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user whose password is Password.
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.UserModel {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &models.UserModel{Username: username, Email: username + "@example.com", Password: string(hash)}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// CreateCategory inserts a category with the given slug and visibility.
func CreateCategory(t testing.TB, db *gorm.DB, slug string, published bool) *models.CategoryModel {
	t.Helper()
	cat := &models.CategoryModel{
		Publishable: models.Publishable{IsPublished: published},
		Title:       "Category " + slug,
		Description: "About " + slug,
		Slug:        slug,
	}
	if err := db.Create(cat).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return cat
}

// PostOption tweaks a fixture post before it is stored.
type PostOption func(*models.PostModel)

// Unpublished marks the post hidden.
func Unpublished() PostOption {
	return func(p *models.PostModel) { p.IsPublished = false }
}

// PublishedAt sets the publication date.
func PublishedAt(at time.Time) PostOption {
	return func(p *models.PostModel) { p.PubDate = at.UTC() }
}

// AtLocation attaches the post to loc.
func AtLocation(loc *models.LocationModel) PostOption {
	return func(p *models.PostModel) { p.LocationID = &loc.ID }
}

// CreateLocation inserts a published location.
func CreateLocation(t testing.TB, db *gorm.DB, name string) *models.LocationModel {
	t.Helper()
	loc := &models.LocationModel{Publishable: models.Publishable{IsPublished: true}, Name: name}
	if err := db.Create(loc).Error; err != nil {
		t.Fatalf("create location: %v", err)
	}
	return loc
}

// CreatePost inserts a published post dated one hour ago.
func CreatePost(t testing.TB, db *gorm.DB, author *models.UserModel, cat *models.CategoryModel, title string, opts ...PostOption) *models.PostModel {
	t.Helper()
	p := &models.PostModel{
		Publishable: models.Publishable{IsPublished: true},
		Title:       title,
		Text:        "Body of " + title,
		PubDate:     time.Now().UTC().Add(-time.Hour),
		AuthorID:    author.ID,
	}
	if cat != nil {
		p.CategoryID = &cat.ID
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

// CreateComment inserts a comment by author on post.
func CreateComment(t testing.TB, db *gorm.DB, author *models.UserModel, post *models.PostModel, text string) *models.CommentModel {
	t.Helper()
	cm := &models.CommentModel{Text: text, PostID: post.ID, AuthorID: author.ID}
	if err := db.Create(cm).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}
	return cm
}
