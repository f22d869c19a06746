package models

import "time"

// Frequency is the unit a recurring series advances by.
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)

// RecurringTransactionSeries materializes transactions on a schedule.
// NextRunDate only ever moves forward.
type RecurringTransactionSeries struct {
	Base
	SoftDelete
	BudgetID    string     `gorm:"type:varchar(36);not null;index" json:"budget_id"`
	CategoryID  string     `gorm:"type:varchar(36);not null" json:"category_id"`
	Type        EntryType  `gorm:"not null" json:"type"`
	AmountCents int64      `gorm:"type:bigint;not null" json:"amount_cents"`
	Notes       string     `json:"notes"`
	Frequency   Frequency  `gorm:"not null" json:"frequency"`
	Interval    int        `gorm:"column:interval_count;not null;default:1" json:"interval"`
	AnchorDay   int        `gorm:"not null;default:1" json:"anchor_day"`
	NextRunDate time.Time  `gorm:"not null;index" json:"next_run_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	IsPaused    bool       `gorm:"not null;default:false" json:"is_paused"`
}

// TableName keeps the table name short.
func (RecurringTransactionSeries) TableName() string {
	return "recurring_series"
}
