package models

import "strings"

// UserModel is a registered author.
type UserModel struct {
	Base
	Username  string `json:"username"   gorm:"type:varchar(150);uniqueIndex;not null"`
	Email     string `json:"email"      gorm:"type:varchar(254)"`
	FirstName string `json:"first_name" gorm:"type:varchar(150)"`
	LastName  string `json:"last_name"  gorm:"type:varchar(150)"`
	Password  string `json:"-"          gorm:"not null"`

	Posts    []PostModel    `json:"posts,omitempty"    gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Comments []CommentModel `json:"comments,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

func (UserModel) TableName() string { return "users" }

// DisplayName returns "First Last" when set, the username otherwise.
func (u UserModel) DisplayName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full == "" {
		return u.Username
	}
	return full
}
