package models

import "time"

// PostModel is a blog post.
type PostModel struct {
	Base
	Publishable
	Title      string         `json:"title"       gorm:"type:varchar(256);not null"`
	Text       string         `json:"text"        gorm:"type:text;not null"`
	PubDate    time.Time      `json:"pub_date"    gorm:"not null;index"`
	AuthorID   string         `json:"author_id"   gorm:"type:char(36);not null;index"`
	Author     *UserModel     `json:"author,omitempty"   gorm:"foreignKey:AuthorID"`
	CategoryID *string        `json:"category_id" gorm:"type:char(36);index"`
	Category   *CategoryModel `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	LocationID *string        `json:"location_id" gorm:"type:char(36);index"`
	Location   *LocationModel `json:"location,omitempty" gorm:"foreignKey:LocationID"`
	Image      string         `json:"image"       gorm:"type:varchar(512)"`

	Comments []CommentModel `json:"comments,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`

	// CommentCount is filled by list queries only.
	CommentCount int64 `json:"comment_count" gorm:"->;-:migration"`
}

func (PostModel) TableName() string { return "posts" }

// IsVisible reports whether readers other than the author may see the post.
func (p PostModel) IsVisible(now time.Time) bool {
	if !p.IsPublished || p.PubDate.After(now) {
		return false
	}
	return p.Category != nil && p.Category.IsPublished
}

// OwnedBy reports whether userID authored the post.
func (p PostModel) OwnedBy(userID string) bool {
	return userID != "" && p.AuthorID == userID
}
