package models

import (
	"time"

	"pennyplan/internal/calendar"
)

// PeriodType selects how successor periods are sized.
type PeriodType string

const (
	PeriodTypeMonthly   PeriodType = "MONTHLY"
	PeriodTypeQuarterly PeriodType = "QUARTERLY"
	PeriodTypeCustom    PeriodType = "CUSTOM"
)

// PeriodStatus is OPEN until closed; a closed period never reopens.
type PeriodStatus string

const (
	PeriodStatusOpen   PeriodStatus = "OPEN"
	PeriodStatusClosed PeriodStatus = "CLOSED"
)

// Period is a date-bounded accounting interval within a budget. Dates are
// stored as YYYY-MM-DD text and are inclusive on both ends. Sequence is
// strictly increasing in creation order within a budget.
type Period struct {
	Base
	BudgetID   string       `gorm:"type:varchar(36);not null;uniqueIndex:uq_periods_budget_sequence" json:"budget_id"`
	PeriodType PeriodType   `gorm:"not null" json:"period_type"`
	StartDate  string       `gorm:"size:32;not null" json:"start_date"`
	EndDate    string       `gorm:"size:32;not null" json:"end_date"`
	Status     PeriodStatus `gorm:"not null;default:'OPEN'" json:"status"`
	Sequence   int          `gorm:"not null;uniqueIndex:uq_periods_budget_sequence" json:"sequence"`

	// Relationships
	Sections []Section `gorm:"foreignKey:PeriodID" json:"sections,omitempty"`
}

// Range parses the persisted bounds. Either bound failing to parse is a
// *calendar.ParseError.
func (p *Period) Range() (calendar.Range, error) {
	start, err := calendar.ParseDate(p.StartDate)
	if err != nil {
		return calendar.Range{}, err
	}
	end, err := calendar.ParseDate(p.EndDate)
	if err != nil {
		return calendar.Range{}, err
	}
	return calendar.Range{Start: start, End: end}, nil
}

// SetRange writes the persisted bounds.
func (p *Period) SetRange(r calendar.Range) {
	p.StartDate = calendar.FormatDate(r.Start)
	p.EndDate = calendar.FormatDate(r.End)
}

// IsOpen reports whether the period still accepts changes to its actuals.
func (p *Period) IsOpen() bool {
	return p.Status == PeriodStatusOpen
}

// Contains reports whether day lies in the period. Unparsable bounds never
// contain anything.
func (p *Period) Contains(day time.Time) bool {
	r, err := p.Range()
	if err != nil {
		return false
	}
	return r.Contains(day)
}
