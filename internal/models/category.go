package models

// CategoryModel groups posts under a URL slug.
type CategoryModel struct {
	Base
	Publishable
	Title       string `json:"title"       gorm:"type:varchar(256);not null"`
	Description string `json:"description" gorm:"type:text"`
	Slug        string `json:"slug"        gorm:"type:varchar(64);uniqueIndex;not null"`

	Posts []PostModel `json:"posts,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
}

func (CategoryModel) TableName() string { return "categories" }

// LocationModel is an optional place a post refers to.
type LocationModel struct {
	Base
	Publishable
	Name string `json:"name" gorm:"type:varchar(256);not null"`

	Posts []PostModel `json:"posts,omitempty" gorm:"foreignKey:LocationID;constraint:OnDelete:SET NULL"`
}

func (LocationModel) TableName() string { return "locations" }
