// internal/common/validation/schema.go
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationResult reports the outcome of a schema check.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError describes one failed field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ApplicantRecordSchema is the JSON-schema shape of the flat field map
// produced by the document extraction pipeline. Range and cross-field rules
// beyond what JSON schema expresses live in the validation worker.
var ApplicantRecordSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"income": map[string]interface{}{
			"type":    "number",
			"minimum": 0,
			"maximum": 1000000,
		},
		"family_size": map[string]interface{}{
			"type":    "integer",
			"minimum": 1,
			"maximum": 20,
		},
		"assets": map[string]interface{}{
			"type":    "number",
			"minimum": 0,
		},
		"liabilities": map[string]interface{}{
			"type":    "number",
			"minimum": 0,
		},
		"employment_status": map[string]interface{}{
			"type": "string",
		},
		"address": map[string]interface{}{
			"type":      "string",
			"minLength": 5,
			"maxLength": 200,
		},
		"filename": map[string]interface{}{
			"type":    "string",
			"pattern": `(?i)\.(pdf|png|jpg|jpeg|xlsx)$`,
		},
	},
	"required":             []string{"income", "family_size", "address", "filename"},
	"additionalProperties": true,
}

// ValidateDocument checks a document against a Go-map schema and returns
// per-field errors.
func ValidateDocument(document map[string]interface{}, schema map[string]interface{}) (*ValidationResult, error) {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewGoLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	return out, nil
}
