package models

// ActivityLog is one entry of the shared activity feed.
type ActivityLog struct {
	Base
	BudgetID    string `gorm:"type:varchar(36);index" json:"budget_id"`
	Module      string `gorm:"not null" json:"module"`
	Action      string `gorm:"not null" json:"action"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description,omitempty"`
	Metadata    string `json:"metadata,omitempty"`
}
