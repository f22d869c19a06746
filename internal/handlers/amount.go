package handlers

import (
	"encoding/json"
	"fmt"

	apperrors "pennyplan/internal/errors"
	"pennyplan/internal/money"
)

// MajorAmount is an amount in major units as a person types it: a JSON
// number (12.5) or a string such as "12,50" or "1.234,56". Digits past the
// second decimal are truncated.
type MajorAmount struct {
	cents money.Cents
}

// UnmarshalJSON accepts a number or a string.
func (a *MajorAmount) UnmarshalJSON(data []byte) error {
	var err error
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err = json.Unmarshal(data, &s); err != nil {
			return err
		}
		a.cents, err = money.ParseMajor(s)
	} else {
		var f float64
		if err = json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("amount: %w", money.ErrInvalidAmount)
		}
		a.cents, err = money.FromMajor(f)
	}
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	return nil
}

// resolveCents picks the cents of a request carrying either amount_cents or
// a major-unit amount. Nil means neither was sent.
func resolveCents(cents *int64, major *MajorAmount) (*int64, error) {
	if major == nil {
		return cents, nil
	}
	if cents != nil {
		return nil, apperrors.Validation("amount", "must not be sent together with amount_cents")
	}
	v := int64(major.cents)
	return &v, nil
}

// requireCents is resolveCents for requests where an amount is mandatory.
func requireCents(cents *int64, major *MajorAmount) (int64, error) {
	v, err := resolveCents(cents, major)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, apperrors.Validation("amount", "or amount_cents is required")
	}
	return *v, nil
}
