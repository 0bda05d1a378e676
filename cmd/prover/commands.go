// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/Kaw-Aii/skintwinformx-sub000/pkg/logging"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/theory"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/types"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// app holds the state shared by every subcommand. It is populated by the
// root command's PersistentPreRunE.
type app struct {
	// Flags
	configPath string
	envFile    string
	axiomFiles []string
	logLevel   string
	logDir     string
	jsonLogs   bool

	// Initialized state
	config prover.Config
	logger *logging.Logger
	prover *prover.Prover
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "prover",
		Short: "Goal-directed theorem prover for formulation verification",
		Long: `prover checks that a formulation is safe and achieves its target
effects by searching for a proof against a store of domain axioms.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger != nil {
				return a.logger.Close()
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a YAML or JSON config file")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.StringSliceVar(&a.axiomFiles, "axioms", nil, "additional axiom files (YAML), repeatable")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	flags.StringVar(&a.logDir, "log-dir", "", "also write JSON logs to this directory")
	flags.BoolVar(&a.jsonLogs, "json-logs", false, "write stderr logs as JSON")

	rootCmd.AddCommand(
		newProveCmd(a),
		newCompareCmd(a),
		newAxiomsCmd(a),
		newStrategiesCmd(a),
		newServeCmd(a),
	)
	return rootCmd
}

// init loads the environment, configuration, logger, axioms, and prover.
func (a *app) init(cmd *cobra.Command, args []string) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file: %w", err)
		}
	}

	cfg, err := prover.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Observability.LogLevel = a.logLevel
	}
	level, err := logging.ParseLevel(cfg.Observability.LogLevel)
	if err != nil {
		return err
	}
	a.config = cfg
	a.logger = logging.New(logging.Config{
		Level:   level,
		LogDir:  a.logDir,
		Service: "prover",
		JSON:    a.jsonLogs,
	})
	logger := a.logger.Slog()

	registry := types.NewDomainRegistry(logger)
	store := theory.NewDomainStore(logger)
	for _, path := range a.axiomFiles {
		axioms, err := theory.LoadAxiomFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for _, ax := range axioms {
			if err := store.AddAxiom(ax); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
		logger.Debug("axioms loaded", slog.String("path", path), slog.Int("count", len(axioms)))
	}

	a.prover, err = prover.New(cfg, registry, store, logger)
	return err
}
