// internal/eligibility/model_test.go
package eligibility

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaler_Transform(t *testing.T) {
	scaler := Scaler{
		Mean: []float64{10, 0, 100, 0.5, 1},
		Std:  []float64{2, 1, 50, 0.25, 0},
	}

	scaled := scaler.Transform([]float64{14, 3, 50, 0.75, 2})

	assert.InDelta(t, 2.0, scaled[0], 1e-9)
	assert.InDelta(t, 3.0, scaled[1], 1e-9)
	assert.InDelta(t, -1.0, scaled[2], 1e-9)
	assert.InDelta(t, 1.0, scaled[3], 1e-9)
	// zero std falls back to 1 instead of dividing by zero
	assert.InDelta(t, 1.0, scaled[4], 1e-9)
}

func TestModel_PredictProbability(t *testing.T) {
	model := &Model{
		Weights: []float64{1, 0, 0, 0, 0},
		Bias:    0,
		Scaler: Scaler{
			Mean: []float64{0, 0, 0, 0, 0},
			Std:  []float64{1, 1, 1, 1, 1},
		},
	}

	// z = feature[0]; sigmoid(0) = 0.5
	assert.InDelta(t, 0.5, model.PredictProbability([]float64{0, 0, 0, 0, 0}), 1e-9)

	p := model.PredictProbability([]float64{5, 0, 0, 0, 0})
	assert.Greater(t, p, 0.99)

	p = model.PredictProbability([]float64{-5, 0, 0, 0, 0})
	assert.Less(t, p, 0.01)
}

func TestModel_PredictProbability_Bounded(t *testing.T) {
	model := &Model{
		Weights: []float64{100, 100, 100, 100, 100},
		Bias:    50,
		Scaler: Scaler{
			Mean: []float64{0, 0, 0, 0, 0},
			Std:  []float64{1, 1, 1, 1, 1},
		},
	}

	p := model.PredictProbability([]float64{1e6, 1e6, 1e6, 1e6, 1e6})
	assert.LessOrEqual(t, p, 1.0)

	p = model.PredictProbability([]float64{-1e6, -1e6, -1e6, -1e6, -1e6})
	assert.GreaterOrEqual(t, p, 0.0)
}

func TestSaveLoadModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")

	original := &Model{
		Weights: []float64{0.5, -0.2, 0.1, -1.3, 0.05},
		Bias:    0.42,
		Scaler: Scaler{
			Mean: []float64{50000, 3, 15000, 0.3, 0.8},
			Std:  []float64{20000, 1.5, 8000, 0.2, 0.5},
		},
		TrainedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, SaveModel(original, path))

	loaded, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, original.Weights, loaded.Weights)
	assert.Equal(t, original.Bias, loaded.Bias)
	assert.Equal(t, original.Scaler, loaded.Scaler)
	assert.True(t, original.TrainedAt.Equal(loaded.TrainedAt))
}

func TestLoadModel_MissingFile(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestLoadModel_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadModel(path)
	assert.Error(t, err)
	assert.False(t, os.IsNotExist(err))
}

func TestLoadModel_WrongFeatureCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"weights":[1,2],"bias":0,"scaler":{"mean":[0,0],"std":[1,1]}}`), 0o644))

	_, err := LoadModel(path)
	assert.Error(t, err)
}
