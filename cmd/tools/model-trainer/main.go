// cmd/tools/model-trainer/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"social-support-workers/internal/common/logger"
	"social-support-workers/internal/eligibility"
)

func main() {
	outPath := flag.String("out", "models/eligibility.json", "Output path for the trained model")
	samples := flag.Int("samples", 5000, "Number of synthetic training samples")
	epochs := flag.Int("epochs", 500, "Gradient descent epochs")
	learningRate := flag.Float64("lr", 0.1, "Learning rate")
	seed := flag.Int64("seed", 42, "Random seed for data generation and shuffling")
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Generating training data",
		zap.Int("samples", *samples),
		zap.Int64("seed", *seed),
	)
	dataset := eligibility.SyntheticDataset(*samples, *seed)

	cfg := eligibility.DefaultTrainerConfig()
	cfg.Epochs = *epochs
	cfg.LearningRate = *learningRate
	cfg.Seed = *seed

	model, metrics, err := eligibility.Train(dataset, cfg, log)
	if err != nil {
		zapLog.Fatal("training failed", zap.Error(err))
	}

	if dir := filepath.Dir(*outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			zapLog.Fatal("create output directory", zap.Error(err))
		}
	}

	if err := eligibility.SaveModel(model, *outPath); err != nil {
		zapLog.Fatal("save model", zap.Error(err))
	}

	fmt.Printf("Model written to %s\n", *outPath)
	fmt.Printf("Held-out metrics: accuracy=%.3f precision=%.3f recall=%.3f f1=%.3f\n",
		metrics.Accuracy, metrics.Precision, metrics.Recall, metrics.F1)
}
