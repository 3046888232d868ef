package comment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blogicum/blogicum/internal/models"
	"github.com/blogicum/blogicum/internal/modules/content/post"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	posts *post.Service
}

func NewService(db *gorm.DB, posts *post.Service) *Service {
	return &Service{db: db, posts: posts}
}

// Create adds a comment to a publicly visible post. Unknown and hidden
// posts are ErrNotFound.
func (s *Service) Create(postID, authorID, text string) (*models.CommentModel, error) {
	p, err := s.posts.GetVisible(postID)
	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	cm := models.CommentModel{Text: text, PostID: p.ID, AuthorID: authorID}
	if err := s.db.Create(&cm).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &cm, nil
}

// Get returns the comment only when it belongs to postID.
func (s *Service) Get(postID, commentID string) (*models.CommentModel, error) {
	var cm models.CommentModel
	err := s.db.Preload("Post").Preload("Author").
		Where("id = ? AND post_id = ?", commentID, postID).
		First(&cm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cm, nil
}

// GetOwned is Get plus ErrForbidden, returned with the comment, when
// viewerID did not write it.
func (s *Service) GetOwned(postID, commentID, viewerID string) (*models.CommentModel, error) {
	cm, err := s.Get(postID, commentID)
	if err != nil {
		return nil, err
	}
	if !cm.OwnedBy(viewerID) {
		return cm, ErrForbidden
	}
	return cm, nil
}

// Update replaces the text of the viewer's own comment.
func (s *Service) Update(postID, commentID, viewerID, text string) (*models.CommentModel, error) {
	cm, err := s.GetOwned(postID, commentID, viewerID)
	if err != nil {
		return cm, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return cm, ErrEmptyText
	}
	if err := s.db.Model(cm).Update("text", text).Error; err != nil {
		return cm, fmt.Errorf("update comment: %w", err)
	}
	cm.Text = text
	return cm, nil
}

// Delete removes the viewer's own comment.
func (s *Service) Delete(postID, commentID, viewerID string) (*models.CommentModel, error) {
	cm, err := s.GetOwned(postID, commentID, viewerID)
	if err != nil {
		return cm, err
	}
	if err := s.db.Delete(&models.CommentModel{}, "id = ?", cm.ID).Error; err != nil {
		return cm, fmt.Errorf("delete comment: %w", err)
	}
	return cm, nil
}
