package models

// Section groups categories for display within one period. It has no
// financial meaning. DisplayOrder is contiguous from 0 within a period.
type Section struct {
	Base
	PeriodID     string `gorm:"type:varchar(36);not null;index" json:"period_id"`
	Name         string `gorm:"not null" json:"name"`
	DisplayOrder int    `gorm:"not null" json:"display_order"`

	// Relationships
	Mappings []CategoryMapping `gorm:"foreignKey:SectionID" json:"mappings,omitempty"`
}

// CategoryMapping places a category in a section. PeriodID is copied from
// the section so the store can back the one-section-per-category-per-period
// rule with a unique index.
type CategoryMapping struct {
	Base
	SectionID    string `gorm:"type:varchar(36);not null;index" json:"section_id"`
	PeriodID     string `gorm:"type:varchar(36);not null;uniqueIndex:uq_mappings_period_category" json:"period_id"`
	CategoryID   string `gorm:"type:varchar(36);not null;uniqueIndex:uq_mappings_period_category" json:"category_id"`
	DisplayOrder int    `gorm:"not null" json:"display_order"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
