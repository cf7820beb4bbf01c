package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PlanPath string            // hcl file or directory of hcl files
	Vars     map[string]string // exposed to the plan as var.<name>

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	WorkerCount     int
	DryRun          bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.PlanPath == "" {
		return nil, errors.New("PlanPath is a required configuration field and cannot be empty")
	}
	if cfg.WorkerCount < 1 {
		return nil, fmt.Errorf("WorkerCount must be at least 1, got %d", cfg.WorkerCount)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("HealthcheckPort must be between 0 and 65535, got %d", cfg.HealthcheckPort)
	}
	if cfg.Vars == nil {
		cfg.Vars = map[string]string{}
	}

	return &cfg, nil
}
