package models

// HeadCategory is a top-level grouping that fixes the preferred entry type
// of its categories.
type HeadCategory struct {
	Base
	SoftDelete
	BudgetID     string    `gorm:"type:varchar(36);not null;index" json:"budget_id"`
	Name         string    `gorm:"not null" json:"name"`
	PreferType   EntryType `gorm:"not null" json:"prefer_type"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	IsSystem     bool      `gorm:"not null;default:false" json:"is_system"`

	// Relationships
	Categories []Category `gorm:"foreignKey:HeadCategoryID" json:"categories,omitempty"`
}

// Category is what plans and transactions are recorded against. Archived
// categories drop out of selection lists but stay referenced by history.
type Category struct {
	Base
	SoftDelete
	HeadCategoryID string `gorm:"type:varchar(36);not null;index" json:"head_category_id"`
	Name           string `gorm:"not null" json:"name"`
	Icon           string `json:"icon"`
	Color          string `json:"color"`
	DisplayOrder   int    `gorm:"not null;default:0" json:"display_order"`
	IsArchived     bool   `gorm:"not null;default:false" json:"is_archived"`

	// Relationships
	HeadCategory *HeadCategory `gorm:"foreignKey:HeadCategoryID" json:"head_category,omitempty"`
}
