package models

// MaxCategories caps the flat category list. Business rule, not a schema constraint.
const MaxCategories = 4

type Category struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
}
