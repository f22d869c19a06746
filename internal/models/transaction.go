package models

import "time"

// Transaction is an actual inflow or outflow recorded against a category.
// Once its period is closed the service layer treats it as immutable.
type Transaction struct {
	Base
	SoftDelete
	BudgetID          string    `gorm:"type:varchar(36);not null;index" json:"budget_id"`
	PeriodID          string    `gorm:"type:varchar(36);not null;index" json:"period_id"`
	CategoryID        string    `gorm:"type:varchar(36);not null;index" json:"category_id"`
	Type              EntryType `gorm:"not null" json:"type"`
	AmountCents       int64     `gorm:"type:bigint;not null" json:"amount_cents"`
	Date              time.Time `gorm:"not null" json:"date"`
	Notes             string    `json:"notes"`
	RecurringSeriesID *string   `gorm:"type:varchar(36);index" json:"recurring_series_id,omitempty"`
	LiabilityID       *string   `gorm:"type:varchar(36);index" json:"liability_id,omitempty"`
}

func (t Transaction) EntryType() EntryType { return t.Type }

func (t Transaction) Amount() int64 { return t.AmountCents }
