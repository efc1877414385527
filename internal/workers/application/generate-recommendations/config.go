// internal/workers/application/generate-recommendations/config.go
package generaterecommendations

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
