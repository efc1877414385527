// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"social-support-workers/internal/common/config"
	"social-support-workers/internal/common/database"
	"social-support-workers/internal/common/logger"
	"social-support-workers/internal/common/observability"
	"social-support-workers/internal/eligibility"

	ae "social-support-workers/internal/workers/application/assess-eligibility"
	car "social-support-workers/internal/workers/application/create-assessment-record"
	gr "social-support-workers/internal/workers/application/generate-recommendations"
	sn "social-support-workers/internal/workers/application/send-notification"
	vad "social-support-workers/internal/workers/application/validate-application-data"

	qra "social-support-workers/internal/workers/data-access/query-recent-assessments"
	sa "social-support-workers/internal/workers/data-access/search-assessments"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Build the eligibility engine ---
	thresholds := eligibility.Thresholds{
		Income:             cfg.Eligibility.IncomeThreshold,
		FamilySize:         cfg.Eligibility.FamilySizeThreshold,
		MinIncomePerMember: cfg.Eligibility.MinIncomePerMember,
		DebtToIncome:       cfg.Eligibility.DebtToIncomeThreshold,
	}

	// A missing model file is normal on first boot: the engine falls back
	// to rule-only decisions until the trainer produces one.
	model, err := eligibility.LoadModel(cfg.Eligibility.ModelPath)
	if err != nil {
		if os.IsNotExist(err) {
			zapLog.Warn("eligibility model not found, rule-only mode",
				zap.String("modelPath", cfg.Eligibility.ModelPath))
		} else {
			zapLog.Fatal("eligibility model load failed", zap.Error(err))
		}
	}

	engine, err := eligibility.NewEngine(thresholds, model, log)
	if err != nil {
		zapLog.Fatal("eligibility engine init failed", zap.Error(err))
	}
	zapLog.Info("Eligibility engine initialized", zap.Bool("modelLoaded", model != nil))

	// --- Register Workers ---

	if cfg.Workers[vad.TaskType].Enabled {
		handler := vad.NewHandler(
			&vad.Config{
				Timeout: time.Duration(cfg.Workers[vad.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		startWorker(zeebeClient, vad.TaskType, cfg.Workers[vad.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[ae.TaskType].Enabled {
		handler := ae.NewHandler(
			&ae.Config{
				Timeout:  time.Duration(cfg.Workers[ae.TaskType].Timeout) * time.Millisecond,
				CacheTTL: time.Duration(cfg.Eligibility.CacheTTLMinutes) * time.Minute,
			},
			engine, redis.Client, log,
		)
		startWorker(zeebeClient, ae.TaskType, cfg.Workers[ae.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[gr.TaskType].Enabled {
		handler := gr.NewHandler(
			&gr.Config{
				Timeout: time.Duration(cfg.Workers[gr.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		startWorker(zeebeClient, gr.TaskType, cfg.Workers[gr.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[car.TaskType].Enabled {
		handler := car.NewHandler(
			&car.Config{
				Timeout:         time.Duration(cfg.Workers[car.TaskType].Timeout) * time.Millisecond,
				AssessmentIndex: cfg.Database.Elasticsearch.AssessmentIndex,
			},
			pg.DB, esClient.Client, log,
		)
		startWorker(zeebeClient, car.TaskType, cfg.Workers[car.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[sn.TaskType].Enabled {
		handler, err := sn.NewHandler(
			&sn.Config{
				EmailEnabled: cfg.Notifications.AWS.SES.Enabled,
				SMSEnabled:   cfg.Notifications.AWS.SNS.Enabled,
				FromEmail:    cfg.Notifications.AWS.SES.FromEmail,
				AWSRegion:    cfg.Notifications.AWS.Region,
				Timeout:      time.Duration(cfg.Workers[sn.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		if err != nil {
			zapLog.Fatal("failed to create send-notification handler", zap.Error(err))
		}
		startWorker(zeebeClient, sn.TaskType, cfg.Workers[sn.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[qra.TaskType].Enabled {
		handler := qra.NewHandler(
			&qra.Config{
				Timeout: time.Duration(cfg.Workers[qra.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, qra.TaskType, cfg.Workers[qra.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[sa.TaskType].Enabled {
		handler := sa.NewHandler(
			&sa.Config{
				Timeout: time.Duration(cfg.Workers[sa.TaskType].Timeout) * time.Millisecond,
			},
			esClient.Client, log,
		)
		startWorker(zeebeClient, sa.TaskType, cfg.Workers[sa.TaskType], handler.Handle, zapLog)
	}

	zapLog.Info("All workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", cfg.App.MetricsPort)
		zapLog.Info("Health/Metrics server listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
