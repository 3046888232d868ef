package post

import (
	"time"

	"gorm.io/gorm"
)

// publiclyVisible keeps posts that are published, dated in the past and
// filed under a published category.
func publiclyVisible(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Joins("JOIN categories ON categories.id = posts.category_id").
			Where("posts.is_published = ? AND categories.is_published = ? AND posts.pub_date <= ?", true, true, now)
	}
}

func withCommentCount(tx *gorm.DB) *gorm.DB {
	return tx.Select("posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count")
}

func withRelations(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Author").Preload("Category").Preload("Location")
}

func newestFirst(tx *gorm.DB) *gorm.DB {
	return tx.Order("posts.pub_date DESC").Order("posts.created_at DESC")
}
