// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package prover

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/Kaw-Aii/skintwinformx-sub000/pkg/logging"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/formalize"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/search"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/telemetry"
	"gopkg.in/yaml.v3"
)

// Config is the complete prover configuration.
type Config struct {
	// Search holds the defaults applied to requests that leave them unset.
	Search SearchConfig `json:"search" yaml:"search"`

	// TypeCheck configures the pre-search gate and the formalizer.
	TypeCheck TypeCheckConfig `json:"type_check" yaml:"type_check"`

	// Observability configures tracing, metrics, and logging.
	Observability ObservabilityConfig `json:"observability" yaml:"observability"`
}

// SearchConfig holds search defaults.
type SearchConfig struct {
	DefaultStrategy string        `json:"default_strategy" yaml:"default_strategy"`
	MaxDepth        int           `json:"max_depth" yaml:"max_depth"`
	Timeout         time.Duration `json:"timeout" yaml:"timeout"`

	// RecordTheorems appends every proved theorem to the store.
	RecordTheorems bool `json:"record_theorems" yaml:"record_theorems"`
}

// TypeCheckConfig configures the type-check gate.
type TypeCheckConfig struct {
	// DefaultMolecularWeight is used by the formalizer for ingredients with
	// no weight. It does not let such ingredients pass the gate.
	DefaultMolecularWeight float64 `json:"default_molecular_weight" yaml:"default_molecular_weight"`
}

// ObservabilityConfig configures tracing, metrics, and logging.
type ObservabilityConfig struct {
	TracingEnabled bool             `json:"tracing_enabled" yaml:"tracing_enabled"`
	MetricsEnabled bool             `json:"metrics_enabled" yaml:"metrics_enabled"`
	LogLevel       string           `json:"log_level" yaml:"log_level"`
	Telemetry      telemetry.Config `json:"telemetry" yaml:"telemetry"`
}

// DefaultConfig returns the production defaults: best_first, depth 10, a
// 30 second budget, metrics on, tracing off.
func DefaultConfig() Config {
	return Config{
		Search: SearchConfig{
			DefaultStrategy: search.NameBestFirst,
			MaxDepth:        search.DefaultMaxDepth,
			Timeout:         search.DefaultTimeout,
		},
		TypeCheck: TypeCheckConfig{
			DefaultMolecularWeight: formalize.DefaultMolecularWeight,
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: true,
			LogLevel:       "info",
			Telemetry:      telemetry.DefaultConfig(),
		},
	}
}

// LoadConfig loads configuration with priority: env > file > defaults.
//
// Inputs:
//   - configPath: Path to a YAML or JSON file. Empty or missing means defaults.
//
// Outputs:
//   - Config: Merged configuration.
//   - error: Non-nil if the file exists but cannot be parsed, or the result
//     fails Validate.
func LoadConfig(configPath string) (Config, error) {
	config := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, &config); err != nil {
			return config, fmt.Errorf("load config file: %w", err)
		}
	}

	loadConfigFromEnv(&config)

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func loadConfigFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		if jsonErr := json.Unmarshal(data, config); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

func loadConfigFromEnv(config *Config) {
	if v := os.Getenv("PROVER_DEFAULT_STRATEGY"); v != "" {
		config.Search.DefaultStrategy = v
	}
	if v := os.Getenv("PROVER_MAX_DEPTH"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.Search.MaxDepth = i
		}
	}
	if v := os.Getenv("PROVER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Search.Timeout = d
		}
	}
	if v := os.Getenv("PROVER_RECORD_THEOREMS"); v != "" {
		config.Search.RecordTheorems = v == "true" || v == "1"
	}

	if v := os.Getenv("PROVER_DEFAULT_MOLECULAR_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.TypeCheck.DefaultMolecularWeight = f
		}
	}

	if v := os.Getenv("PROVER_TRACING_ENABLED"); v != "" {
		config.Observability.TracingEnabled = v == "true" || v == "1"
	}
	if v := os.Getenv("PROVER_METRICS_ENABLED"); v != "" {
		config.Observability.MetricsEnabled = v == "true" || v == "1"
	}
	if v := os.Getenv("PROVER_LOG_LEVEL"); v != "" {
		config.Observability.LogLevel = v
	}
}

// Validate checks that the configuration is usable.
//
// Outputs:
//   - error: Non-nil if configuration is invalid.
func (c Config) Validate() error {
	if !slices.Contains(search.Names(), c.Search.DefaultStrategy) {
		return fmt.Errorf("default_strategy %q is not one of %v", c.Search.DefaultStrategy, search.Names())
	}
	if c.Search.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be >= 1")
	}
	if c.Search.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0")
	}
	if c.TypeCheck.DefaultMolecularWeight <= 0 {
		return fmt.Errorf("default_molecular_weight must be > 0")
	}
	if _, err := logging.ParseLevel(c.Observability.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}
