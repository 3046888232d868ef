// Package location manages the places posts can be tagged with.
package location

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/blogicum/blogicum/internal/models"
	"gorm.io/gorm"
)

var (
	ErrEmptyName   = errors.New("location name is required")
	ErrNameTooLong = errors.New("location name is too long")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns every location, hidden ones included.
func (s *Service) List() ([]models.LocationModel, error) {
	var locs []models.LocationModel
	return locs, s.db.Order("name ASC").Find(&locs).Error
}

// ListPublished returns the locations offered in the post editor.
func (s *Service) ListPublished() ([]models.LocationModel, error) {
	var locs []models.LocationModel
	return locs, s.db.Where("is_published = ?", true).Order("name ASC").Find(&locs).Error
}

func (s *Service) Create(name string, published bool) (*models.LocationModel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if utf8.RuneCountInString(name) > models.TitleMaxLength {
		return nil, ErrNameTooLong
	}
	loc := models.LocationModel{Publishable: models.Publishable{IsPublished: published}, Name: name}
	return &loc, s.db.Create(&loc).Error
}
