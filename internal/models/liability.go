package models

// Liability is a debt owned by a budget. Payments are EXPENSE transactions
// that carry its ID.
type Liability struct {
	Base
	SoftDelete
	BudgetID       string `gorm:"type:varchar(36);not null;index" json:"budget_id"`
	Name           string `gorm:"not null" json:"name"`
	PrincipalCents int64  `gorm:"type:bigint;not null" json:"principal_cents"`
	Notes          string `json:"notes"`
}
