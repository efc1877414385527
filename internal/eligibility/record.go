// internal/eligibility/record.go
package eligibility

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is the normalized applicant record consumed by the engine.
// It is produced upstream by the document extraction pipeline and is
// immutable for the duration of an assessment.
type Record struct {
	Income           float64
	FamilySize       int
	Assets           float64
	Liabilities      float64
	EmploymentStatus string
	Address          string
	Filename         string
}

// InputError reports a missing or malformed required field. Validation of
// optional fields belongs to the validate-application-data worker; the
// engine only refuses input it cannot score without corrupting the ratio
// computations.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid applicant record: field %q %s", e.Field, e.Reason)
}

// RecordFromMap builds a Record from the flat field map produced by the
// extraction pipeline. Income and family_size are required and must be
// numeric; assets and liabilities default to 0, employment_status to "".
func RecordFromMap(data map[string]interface{}) (*Record, error) {
	raw, ok := data["income"]
	if !ok || raw == nil {
		return nil, &InputError{Field: "income", Reason: "is missing"}
	}
	income, err := toFloat(raw)
	if err != nil {
		return nil, &InputError{Field: "income", Reason: "is not numeric"}
	}

	raw, ok = data["family_size"]
	if !ok || raw == nil {
		return nil, &InputError{Field: "family_size", Reason: "is missing"}
	}
	familySize, err := toInt(raw)
	if err != nil {
		return nil, &InputError{Field: "family_size", Reason: "is not numeric"}
	}

	rec := &Record{
		Income:     income,
		FamilySize: familySize,
	}

	if raw, ok := data["assets"]; ok && raw != nil {
		if v, err := toFloat(raw); err == nil {
			rec.Assets = v
		}
	}
	if raw, ok := data["liabilities"]; ok && raw != nil {
		if v, err := toFloat(raw); err == nil {
			rec.Liabilities = v
		}
	}
	if v, ok := data["employment_status"].(string); ok {
		rec.EmploymentStatus = v
	}
	if v, ok := data["address"].(string); ok {
		rec.Address = v
	}
	if v, ok := data["filename"].(string); ok {
		rec.Filename = v
	}

	return rec, nil
}

// Features returns the feature vector the statistical model was trained on.
// Order matters: income, family_size, income_per_member,
// debt_to_income_ratio, assets_to_income_ratio.
func (r *Record) Features() []float64 {
	ratios := r.ratios()
	return []float64{
		r.Income,
		float64(r.FamilySize),
		ratios.IncomePerMember,
		ratios.DebtToIncome,
		ratios.AssetsToIncome,
	}
}

func (r *Record) ratios() Ratios {
	var ratios Ratios
	if r.FamilySize > 0 {
		ratios.IncomePerMember = r.Income / float64(r.FamilySize)
	}
	if r.Income > 0 {
		ratios.DebtToIncome = r.Liabilities / r.Income
		ratios.AssetsToIncome = r.Assets / r.Income
	}
	return ratios
}

func toFloat(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
		return strconv.ParseFloat(cleaned, 64)
	default:
		return 0, fmt.Errorf("not a number: %T", raw)
	}
}

func toInt(raw interface{}) (int, error) {
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
		return strconv.Atoi(cleaned)
	default:
		return 0, fmt.Errorf("not a number: %T", raw)
	}
}
