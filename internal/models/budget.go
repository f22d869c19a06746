package models

// Budget is the root of an owner's planning hierarchy.
type Budget struct {
	Base
	SoftDelete
	OwnerID      string `gorm:"type:varchar(64);not null;index" json:"owner_id"`
	Name         string `gorm:"not null" json:"name"`
	Icon         string `json:"icon"`
	Color        string `json:"color"`
	CurrencyCode string `gorm:"size:3;not null;default:'USD'" json:"currency_code"`

	// Relationships
	Periods []Period `gorm:"foreignKey:BudgetID" json:"periods,omitempty"`
}

// DefaultBudgetName is used when an owner's first budget is auto-created.
const DefaultBudgetName = "My Budget"
