// internal/workers/application/create-assessment-record/config.go
package createassessmentrecord

import "time"

type Config struct {
	Timeout         time.Duration
	AssessmentIndex string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         10 * time.Second,
		AssessmentIndex: "assessments",
	}
}
