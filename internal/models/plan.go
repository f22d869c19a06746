package models

// Plan is the budgeted amount for one category in one period. There is at
// most one plan per (PeriodID, CategoryID).
type Plan struct {
	Base
	PeriodID    string    `gorm:"type:varchar(36);not null;uniqueIndex:uq_plans_period_category" json:"period_id"`
	CategoryID  string    `gorm:"type:varchar(36);not null;uniqueIndex:uq_plans_period_category" json:"category_id"`
	Type        EntryType `gorm:"not null" json:"type"`
	AmountCents int64     `gorm:"type:bigint;not null" json:"amount_cents"`
	Notes       string    `json:"notes"`
}

func (p Plan) EntryType() EntryType { return p.Type }

func (p Plan) Amount() int64 { return p.AmountCents }
