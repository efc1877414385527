// internal/eligibility/trainer.go
package eligibility

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"social-support-workers/internal/common/logger"
)

// TrainerConfig controls the offline training run. Training is a batch
// operation with its own lifecycle; it never runs inside the scoring path.
type TrainerConfig struct {
	Epochs       int
	LearningRate float64
	TestFraction float64
	Seed         int64
}

// DefaultTrainerConfig matches the settings the shipped model was fit with.
func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		Epochs:       500,
		LearningRate: 0.1,
		TestFraction: 0.2,
		Seed:         42,
	}
}

// Metrics summarizes held-out performance of a trained model.
type Metrics struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
}

// Train fits a logistic-regression model on the samples: shuffle, 80/20
// split, fit the scaler on the training portion only, then full-batch
// gradient descent on the logistic loss. Returns the frozen model and its
// held-out metrics.
func Train(samples []Sample, cfg TrainerConfig, log logger.Logger) (*Model, Metrics, error) {
	if len(samples) < 10 {
		return nil, Metrics{}, fmt.Errorf("not enough training samples: %d", len(samples))
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	shuffled := make([]Sample, len(samples))
	copy(shuffled, samples)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	testSize := int(float64(len(shuffled)) * cfg.TestFraction)
	if testSize < 1 {
		testSize = 1
	}
	train := shuffled[testSize:]
	test := shuffled[:testSize]

	scaler := fitScaler(train)

	model := &Model{
		Weights:   make([]float64, FeatureCount),
		Scaler:    scaler,
		TrainedAt: time.Now().UTC(),
	}

	scaledTrain := make([][]float64, len(train))
	for i, s := range train {
		scaledTrain[i] = scaler.Transform(s.Features)
	}

	n := float64(len(train))
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		gradW := make([]float64, FeatureCount)
		gradB := 0.0

		for i, s := range train {
			z := model.Bias
			for j, w := range model.Weights {
				z += w * scaledTrain[i][j]
			}
			p := sigmoid(z)
			y := 0.0
			if s.Eligible {
				y = 1.0
			}
			diff := p - y
			for j := range gradW {
				gradW[j] += diff * scaledTrain[i][j]
			}
			gradB += diff
		}

		for j := range model.Weights {
			model.Weights[j] -= cfg.LearningRate * gradW[j] / n
		}
		model.Bias -= cfg.LearningRate * gradB / n
	}

	metrics := evaluate(model, test)
	log.Info("model trained", map[string]interface{}{
		"trainSamples": len(train),
		"testSamples":  len(test),
		"accuracy":     metrics.Accuracy,
		"precision":    metrics.Precision,
		"recall":       metrics.Recall,
		"f1":           metrics.F1,
	})

	return model, metrics, nil
}

func fitScaler(samples []Sample) Scaler {
	mean := make([]float64, FeatureCount)
	std := make([]float64, FeatureCount)
	n := float64(len(samples))

	for _, s := range samples {
		for j, v := range s.Features {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= n
	}

	for _, s := range samples {
		for j, v := range s.Features {
			d := v - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / n)
	}

	return Scaler{Mean: mean, Std: std}
}

func evaluate(model *Model, test []Sample) Metrics {
	var tp, fp, tn, fn float64

	for _, s := range test {
		predicted := model.PredictProbability(s.Features) >= 0.5
		switch {
		case predicted && s.Eligible:
			tp++
		case predicted && !s.Eligible:
			fp++
		case !predicted && !s.Eligible:
			tn++
		default:
			fn++
		}
	}

	m := Metrics{}
	total := tp + fp + tn + fn
	if total > 0 {
		m.Accuracy = (tp + tn) / total
	}
	if tp+fp > 0 {
		m.Precision = tp / (tp + fp)
	}
	if tp+fn > 0 {
		m.Recall = tp / (tp + fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}
