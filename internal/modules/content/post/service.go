package post

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blogicum/blogicum/internal/models"
	"github.com/blogicum/blogicum/internal/modules/storage/image"
	"github.com/blogicum/blogicum/internal/pkg/pagination"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."

// Service handles post business logic.
type Service struct {
	db            *gorm.DB
	store         image.Store
	maxImageBytes int64
	log           *zap.Logger
	now           func() time.Time
}

func NewService(db *gorm.DB, store image.Store, maxImageBytes int64, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, store: store, maxImageBytes: maxImageBytes, log: log, now: time.Now}
}

// List returns the publicly visible posts, newest first.
func (s *Service) List(q pagination.Query) ([]models.PostModel, pagination.Page, error) {
	tx := s.db.Model(&models.PostModel{}).Scopes(publiclyVisible(s.now().UTC()))

	var posts []models.PostModel
	page, err := pagination.Paginate(tx, q, &posts, withCommentCount, withRelations, newestFirst)
	return posts, page, err
}

// ListByCategory returns the publicly visible posts of one category.
func (s *Service) ListByCategory(categoryID string, q pagination.Query) ([]models.PostModel, pagination.Page, error) {
	tx := s.db.Model(&models.PostModel{}).
		Scopes(publiclyVisible(s.now().UTC())).
		Where("posts.category_id = ?", categoryID)

	var posts []models.PostModel
	page, err := pagination.Paginate(tx, q, &posts, withCommentCount, withRelations, newestFirst)
	return posts, page, err
}

// ListByAuthor returns an author's posts. Hidden, deferred and
// uncategorized posts are included only when includeHidden is set.
func (s *Service) ListByAuthor(authorID string, includeHidden bool, q pagination.Query) ([]models.PostModel, pagination.Page, error) {
	tx := s.db.Model(&models.PostModel{}).Where("posts.author_id = ?", authorID)
	if !includeHidden {
		tx = tx.Scopes(publiclyVisible(s.now().UTC()))
	}

	var posts []models.PostModel
	page, err := pagination.Paginate(tx, q, &posts, withCommentCount, withRelations, newestFirst)
	return posts, page, err
}

// Get returns the post for viewerID. The author always sees it; everyone
// else only while it is publicly visible.
func (s *Service) Get(id, viewerID string) (*models.PostModel, error) {
	post, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if post.OwnedBy(viewerID) || post.IsVisible(s.now().UTC()) {
		return post, nil
	}
	return nil, ErrNotFound
}

// GetVisible returns the post only while it is publicly visible, whoever asks.
func (s *Service) GetVisible(id string) (*models.PostModel, error) {
	post, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if !post.IsVisible(s.now().UTC()) {
		return nil, ErrNotFound
	}
	return post, nil
}

// GetOwned returns the post with ErrForbidden when viewerID is not its
// author. The post is returned alongside ErrForbidden so callers can
// redirect to it.
func (s *Service) GetOwned(id, viewerID string) (*models.PostModel, error) {
	post, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if !post.OwnedBy(viewerID) {
		return post, ErrForbidden
	}
	return post, nil
}

// Comments returns the comments of a post, oldest first, with authors.
func (s *Service) Comments(postID string) ([]models.CommentModel, error) {
	var comments []models.CommentModel
	err := s.db.Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// Create stores a new post written by authorID.
func (s *Service) Create(ctx context.Context, authorID string, in Input) (*models.PostModel, error) {
	categoryID, locationID, err := s.checkRelations(in)
	if err != nil {
		return nil, err
	}

	post := models.PostModel{
		Publishable: models.Publishable{IsPublished: in.IsPublished},
		Title:       in.Title,
		Text:        in.Text,
		PubDate:     s.pubDate(in),
		AuthorID:    authorID,
		CategoryID:  categoryID,
		LocationID:  locationID,
	}

	if in.Image != nil {
		key, err := s.saveImage(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		post.Image = key
	}

	if err := s.db.Create(&post).Error; err != nil {
		s.removeImage(ctx, post.Image)
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &post, nil
}

// Update rewrites the post when viewerID is its author.
func (s *Service) Update(ctx context.Context, id, viewerID string, in Input) (*models.PostModel, error) {
	post, err := s.GetOwned(id, viewerID)
	if err != nil {
		return post, err
	}
	categoryID, locationID, err := s.checkRelations(in)
	if err != nil {
		return post, err
	}

	updates := map[string]interface{}{
		"title":        in.Title,
		"text":         in.Text,
		"pub_date":     s.pubDate(in),
		"category_id":  categoryID,
		"location_id":  locationID,
		"is_published": in.IsPublished,
	}

	oldImage := post.Image
	newImage := oldImage
	switch {
	case in.Image != nil:
		key, err := s.saveImage(ctx, *in.Image)
		if err != nil {
			return post, err
		}
		newImage = key
	case in.ClearImage:
		newImage = ""
	}
	updates["image"] = newImage

	// Preloaded associations would be saved back over the new foreign keys.
	err = s.db.Model(&models.PostModel{}).Where("id = ?", post.ID).Updates(updates).Error
	if err != nil {
		if newImage != oldImage {
			s.removeImage(ctx, newImage)
		}
		return post, fmt.Errorf("update post: %w", err)
	}
	if newImage != oldImage {
		s.removeImage(ctx, oldImage)
	}
	return s.load(id)
}

// Delete removes the post and its comments when viewerID is its author.
func (s *Service) Delete(ctx context.Context, id, viewerID string) (*models.PostModel, error) {
	post, err := s.GetOwned(id, viewerID)
	if err != nil {
		return post, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.CommentModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.PostModel{}, "id = ?", post.ID).Error
	})
	if err != nil {
		return post, fmt.Errorf("delete post: %w", err)
	}
	s.removeImage(ctx, post.Image)
	return post, nil
}

// ImageURL maps a stored image key to its public URL.
func (s *Service) ImageURL(key string) string {
	if key == "" || s.store == nil {
		return ""
	}
	return s.store.URL(key)
}

func (s *Service) load(id string) (*models.PostModel, error) {
	var post models.PostModel
	err := s.db.Scopes(withCommentCount, withRelations).First(&post, "posts.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (s *Service) checkRelations(in Input) (*string, *string, error) {
	var count int64
	if err := s.db.Model(&models.CategoryModel{}).Where("id = ?", in.CategoryID).Count(&count).Error; err != nil {
		return nil, nil, err
	}
	if count == 0 {
		return nil, nil, &FieldError{Field: "category_id", Message: msgInvalidChoice}
	}
	categoryID := in.CategoryID

	if in.LocationID == "" {
		return &categoryID, nil, nil
	}
	if err := s.db.Model(&models.LocationModel{}).Where("id = ?", in.LocationID).Count(&count).Error; err != nil {
		return nil, nil, err
	}
	if count == 0 {
		return nil, nil, &FieldError{Field: "location_id", Message: msgInvalidChoice}
	}
	locationID := in.LocationID
	return &categoryID, &locationID, nil
}

func (s *Service) pubDate(in Input) time.Time {
	if in.PubDate.IsZero() {
		return s.now().UTC()
	}
	return in.PubDate.UTC()
}

func (s *Service) saveImage(ctx context.Context, u image.Upload) (string, error) {
	if s.store == nil {
		return "", &FieldError{Field: "image", Message: "Image uploads are disabled."}
	}
	key, err := image.Save(ctx, s.store, u, s.maxImageBytes)
	switch {
	case errors.Is(err, image.ErrUnsupportedFormat):
		return "", &FieldError{Field: "image", Message: "Upload a valid image: jpg, jpeg, png, gif or webp."}
	case errors.Is(err, image.ErrTooLarge):
		return "", &FieldError{Field: "image", Message: fmt.Sprintf("The image must not exceed %d MB.", s.maxImageBytes>>20)}
	case errors.Is(err, image.ErrEmpty):
		return "", &FieldError{Field: "image", Message: "The submitted file is empty."}
	case err != nil:
		return "", err
	}
	return key, nil
}

func (s *Service) removeImage(ctx context.Context, key string) {
	if key == "" || s.store == nil {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.log.Warn("remove post image", zap.String("key", key), zap.Error(err))
	}
}
