package services

import (
	"pennyplan/internal/models"
	"pennyplan/internal/money"
)

// TypedAmount is anything carrying an entry type and an amount in cents.
type TypedAmount interface {
	EntryType() models.EntryType
	Amount() int64
}

// Totals are amounts partitioned by entry type.
type Totals struct {
	Income  money.Cents `json:"income"`
	Expense money.Cents `json:"expense"`
}

// TotalsByType sums records by their Type field. The sign of an amount
// never decides the side it lands on.
func TotalsByType[T TypedAmount](records []T) Totals {
	var t Totals
	for _, r := range records {
		switch r.EntryType() {
		case models.EntryTypeIncome:
			t.Income += money.Cents(r.Amount())
		case models.EntryTypeExpense:
			t.Expense += money.Cents(r.Amount())
		}
	}
	return t
}
