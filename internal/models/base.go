package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TitleMaxLength bounds titles and names across content models.
const TitleMaxLength = 256

// Base is the base model for all entities.
type Base struct {
	ID        string    `json:"id"       gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"modified"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// Publishable is embedded by everything that can be hidden from readers.
// No column default, so an explicit false survives Create.
type Publishable struct {
	IsPublished bool `json:"is_published" gorm:"not null;index"`
}
