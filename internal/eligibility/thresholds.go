// internal/eligibility/thresholds.go
package eligibility

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Thresholds holds the rule cut-offs for the deterministic part of the
// assessment. Values are currency-agnostic annual amounts (the source data
// used AED).
type Thresholds struct {
	Income             float64 `mapstructure:"income"`
	FamilySize         int     `mapstructure:"family_size"`
	MinIncomePerMember float64 `mapstructure:"min_income_per_member"`
	DebtToIncome       float64 `mapstructure:"debt_to_income_ratio"`
}

// DefaultThresholds returns the production rule set.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Income:             50000,
		FamilySize:         5,
		MinIncomePerMember: 10000,
		DebtToIncome:       0.5,
	}
}

// ConfigurationError indicates an invalid threshold configuration. It is
// raised at engine construction, never per request.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid eligibility thresholds: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Validate rejects threshold sets the rule evaluation cannot make sense of.
func (t Thresholds) Validate() error {
	err := validation.ValidateStruct(&t,
		validation.Field(&t.Income, validation.Min(0.0)),
		validation.Field(&t.FamilySize, validation.Required, validation.Min(1)),
		validation.Field(&t.MinIncomePerMember, validation.Min(0.0)),
		validation.Field(&t.DebtToIncome, validation.Min(0.0), validation.Max(1.0)),
	)
	if err != nil {
		return &ConfigurationError{Err: err}
	}
	return nil
}
