// internal/workers/data-access/query-recent-assessments/config.go
package queryrecentassessments

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
