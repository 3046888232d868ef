package models

// CommentModel is a reader reply attached to a post.
type CommentModel struct {
	Base
	Text     string     `json:"text"      gorm:"type:text;not null"`
	PostID   string     `json:"post_id"   gorm:"type:char(36);not null;index"`
	Post     *PostModel `json:"post,omitempty"   gorm:"foreignKey:PostID"`
	AuthorID string     `json:"author_id" gorm:"type:char(36);not null;index"`
	Author   *UserModel `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

func (CommentModel) TableName() string { return "comments" }

// OwnedBy reports whether userID wrote the comment.
func (c CommentModel) OwnedBy(userID string) bool {
	return userID != "" && c.AuthorID == userID
}
