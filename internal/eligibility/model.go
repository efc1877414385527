// internal/eligibility/model.go
package eligibility

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"
)

// FeatureCount is the width of the model's input vector:
// income, family_size, income_per_member, debt_to_income_ratio,
// assets_to_income_ratio.
const FeatureCount = 5

// Scaler standardizes features using the mean/std fit at training time.
// The same parameters must be applied at prediction time or the weights
// are meaningless.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Transform returns the standardized copy of the feature vector.
func (s *Scaler) Transform(features []float64) []float64 {
	scaled := make([]float64, len(features))
	for i, v := range features {
		std := s.Std[i]
		if std == 0 {
			std = 1
		}
		scaled[i] = (v - s.Mean[i]) / std
	}
	return scaled
}

// Model is a frozen logistic-regression classifier plus its feature scaler.
// It is immutable after construction; retraining produces a new Model that
// the engine publishes atomically.
type Model struct {
	Weights   []float64 `json:"weights"`
	Bias      float64   `json:"bias"`
	Scaler    Scaler    `json:"scaler"`
	TrainedAt time.Time `json:"trainedAt"`
}

// PredictProbability returns the eligibility probability in [0,1] for the
// raw (unscaled) feature vector.
func (m *Model) PredictProbability(features []float64) float64 {
	scaled := m.Scaler.Transform(features)
	z := m.Bias
	for i, w := range m.Weights {
		z += w * scaled[i]
	}
	return sigmoid(z)
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

func (m *Model) validate() error {
	if len(m.Weights) != FeatureCount {
		return fmt.Errorf("model has %d weights, want %d", len(m.Weights), FeatureCount)
	}
	if len(m.Scaler.Mean) != FeatureCount || len(m.Scaler.Std) != FeatureCount {
		return fmt.Errorf("scaler has %d/%d parameters, want %d",
			len(m.Scaler.Mean), len(m.Scaler.Std), FeatureCount)
	}
	return nil
}

// SaveModel writes the model parameters as JSON.
func SaveModel(m *Model, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write model file: %w", err)
	}
	return nil
}

// LoadModel reads model parameters written by SaveModel. A missing file is
// returned as-is so callers can distinguish "not trained yet" from a
// corrupt file.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse model file %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("model file %s: %w", path, err)
	}
	return &m, nil
}
