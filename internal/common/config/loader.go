// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads the base YAML config, merges the environment-specific overlay,
// applies env-var overrides, and validates the result.
func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like DATABASE_POSTGRES_PASSWORD
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig() // overlay is optional

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile tries the usual spots so workers, tools, and tests all pick
// up the same .env regardless of working directory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "social-support-workers"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.App.MetricsPort == 0 {
		cfg.App.MetricsPort = 8080
	}
	if cfg.Camunda.BrokerAddress == "" {
		cfg.Camunda.BrokerAddress = "localhost:26500"
	}
	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Redis.Address == "" {
		cfg.Database.Redis.Address = "localhost:6379"
	}
	if len(cfg.Database.Elasticsearch.Addresses) == 0 {
		cfg.Database.Elasticsearch.Addresses = []string{"http://localhost:9200"}
	}
	if cfg.Database.Elasticsearch.AssessmentIndex == "" {
		cfg.Database.Elasticsearch.AssessmentIndex = "assessments"
	}
	if cfg.Eligibility.IncomeThreshold == 0 {
		cfg.Eligibility.IncomeThreshold = 50000
	}
	if cfg.Eligibility.FamilySizeThreshold == 0 {
		cfg.Eligibility.FamilySizeThreshold = 5
	}
	if cfg.Eligibility.MinIncomePerMember == 0 {
		cfg.Eligibility.MinIncomePerMember = 10000
	}
	if cfg.Eligibility.DebtToIncomeThreshold == 0 {
		cfg.Eligibility.DebtToIncomeThreshold = 0.5
	}
	if cfg.Eligibility.CacheTTLMinutes == 0 {
		cfg.Eligibility.CacheTTLMinutes = 30
	}
	if cfg.Eligibility.ModelPath == "" {
		cfg.Eligibility.ModelPath = "models/eligibility.json"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Workers == nil {
		cfg.Workers = map[string]WorkerConfig{}
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required")
	}
	if cfg.Eligibility.IncomeThreshold < 0 {
		return fmt.Errorf("eligibility.income_threshold must not be negative")
	}
	if cfg.Eligibility.FamilySizeThreshold < 1 {
		return fmt.Errorf("eligibility.family_size_threshold must be at least 1")
	}
	if cfg.Eligibility.MinIncomePerMember < 0 {
		return fmt.Errorf("eligibility.min_income_per_member must not be negative")
	}
	if cfg.Eligibility.DebtToIncomeThreshold < 0 || cfg.Eligibility.DebtToIncomeThreshold > 1 {
		return fmt.Errorf("eligibility.debt_to_income_threshold must be within [0,1]")
	}
	for taskType, wcfg := range cfg.Workers {
		if wcfg.Enabled && wcfg.Timeout < 0 {
			return fmt.Errorf("workers.%s.timeout must not be negative", taskType)
		}
	}
	return nil
}
