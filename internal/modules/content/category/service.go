package category

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blogicum/blogicum/internal/database"
	"github.com/blogicum/blogicum/internal/models"
	"github.com/blogicum/blogicum/internal/pkg/form"
	"github.com/blogicum/blogicum/internal/pkg/slug"
	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("category not found")
	ErrSlugTaken   = errors.New("a category with this slug already exists")
	ErrInvalidSlug = errors.New("slug may contain only latin letters, digits, hyphens and underscores")
	ErrEmptyTitle  = errors.New("category title is required")
)

// CreateCategoryDTO carries the fields of a new category.
type CreateCategoryDTO struct {
	Title       string
	Slug        string
	Description string
	IsPublished bool
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns every category, hidden ones included.
func (s *Service) List() ([]models.CategoryModel, error) {
	var cats []models.CategoryModel
	return cats, s.db.Order("title ASC").Find(&cats).Error
}

// ListPublished returns the categories readers may browse.
func (s *Service) ListPublished() ([]models.CategoryModel, error) {
	var cats []models.CategoryModel
	return cats, s.db.Where("is_published = ?", true).Order("title ASC").Find(&cats).Error
}

// GetBySlug returns the category regardless of visibility.
func (s *Service) GetBySlug(slug string) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := s.db.First(&cat, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cat, nil
}

// GetPublishedBySlug treats hidden categories as missing.
func (s *Service) GetPublishedBySlug(slug string) (*models.CategoryModel, error) {
	cat, err := s.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if !cat.IsPublished {
		return nil, ErrNotFound
	}
	return cat, nil
}

// Create stores a category. An empty slug is derived from the title.
func (s *Service) Create(dto CreateCategoryDTO) (*models.CategoryModel, error) {
	title := strings.TrimSpace(dto.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	catSlug := strings.TrimSpace(dto.Slug)
	if catSlug == "" {
		catSlug = slug.Make(title)
	}
	if !form.IsValidSlug(catSlug) || len(catSlug) > slug.MaxLength {
		return nil, ErrInvalidSlug
	}

	cat := models.CategoryModel{
		Publishable: models.Publishable{IsPublished: dto.IsPublished},
		Title:       title,
		Description: strings.TrimSpace(dto.Description),
		Slug:        catSlug,
	}
	if err := s.db.Create(&cat).Error; err != nil {
		if database.IsDuplicate(err) {
			return nil, fmt.Errorf("%w: %s", ErrSlugTaken, catSlug)
		}
		return nil, err
	}
	return &cat, nil
}

// SetPublished shows or hides a category and, with it, all of its posts.
func (s *Service) SetPublished(slug string, published bool) (*models.CategoryModel, error) {
	cat, err := s.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(cat).Update("is_published", published).Error; err != nil {
		return nil, err
	}
	cat.IsPublished = published
	return cat, nil
}

// Delete removes the category and detaches its posts.
func (s *Service) Delete(slug string) error {
	cat, err := s.GetBySlug(slug)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PostModel{}).Where("category_id = ?", cat.ID).Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.CategoryModel{}, "id = ?", cat.ID).Error
	})
}
