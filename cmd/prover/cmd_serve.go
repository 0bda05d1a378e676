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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/handlers"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		addr      string
		rateLimit float64
		burst     int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the prover over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context(), addr, rate.Limit(rateLimit), burst)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().Float64Var(&rateLimit, "rate-limit", 50, "requests per second across all clients (0 = unlimited)")
	cmd.Flags().IntVar(&burst, "burst", 100, "rate limiter burst size")
	return cmd
}

func (a *app) serve(ctx context.Context, addr string, limit rate.Limit, burst int) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := a.logger.Slog()
	shutdownTelemetry, err := telemetry.Init(ctx, a.config.Observability.Telemetry)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(handlers.NewHandlers(a.prover, logger), handlers.RouterOptions{
		ServiceName: a.config.Observability.Telemetry.ServiceName,
		RateLimit:   limit,
		Burst:       burst,
	})
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("prover server listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down prover server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newAxiomsCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "axioms",
		Short: "List the axioms available to the search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			axioms := a.prover.Store().Axioms()
			if format == "json" {
				type view struct {
					ID         string  `json:"id"`
					Name       string  `json:"name"`
					Statement  string  `json:"statement"`
					Complexity float64 `json:"complexity"`
				}
				out := make([]view, 0, len(axioms))
				for _, ax := range axioms {
					out = append(out, view{ax.ID, ax.Name, ax.Statement.String(), ax.Complexity})
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCOMPLEXITY\tSTATEMENT")
			for _, ax := range axioms {
				fmt.Fprintf(tw, "%s\t%g\t%s\n", ax.ID, ax.Complexity, ax.Statement)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	return cmd
}

func newStrategiesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the registered search strategies",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			def := a.prover.Config().Search.DefaultStrategy
			for _, name := range a.prover.Strategies() {
				marker := ""
				if name == def {
					marker = " (default)"
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(name+marker))
			}
		},
	}
}
