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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/logic"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/search"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// maxRequestFileSize bounds request files read by prove and compare.
const maxRequestFileSize = 1 << 20

type searchFlags struct {
	strategy  string
	maxDepth  int
	timeoutMs int64
	format    string
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.strategy, "strategy", "", "search strategy ("+strings.Join(search.Names(), ", ")+")")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 0, "maximum proof depth (0 = config default)")
	cmd.Flags().Int64Var(&f.timeoutMs, "timeout-ms", 0, "search budget in milliseconds (0 = config default)")
	cmd.Flags().StringVar(&f.format, "format", "text", "output format: text or json")
}

// apply copies non-zero flags onto req.
func (f *searchFlags) apply(req *prover.VerificationRequest) {
	if f.strategy != "" {
		req.Strategy = f.strategy
	}
	if f.maxDepth != 0 {
		req.MaxDepth = f.maxDepth
	}
	if f.timeoutMs != 0 {
		req.TimeoutMs = f.timeoutMs
	}
}

func newProveCmd(a *app) *cobra.Command {
	var (
		flags       searchFlags
		theorem     string
		assumptions []string
	)
	cmd := &cobra.Command{
		Use:   "prove [request-file | -]",
		Short: "Verify a formulation request, or prove a raw theorem with --theorem",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if theorem != "" {
				if len(args) > 0 {
					return fmt.Errorf("--theorem and a request file are mutually exclusive")
				}
				return a.proveTheorem(cmd, flags, theorem, assumptions)
			}
			if len(args) == 0 {
				return fmt.Errorf("a request file or --theorem is required")
			}
			req, err := readRequest(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			flags.apply(req)

			res, err := a.prover.Verify(cmd.Context(), req)
			if err != nil {
				return err
			}
			if flags.format == "json" {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			printVerification(cmd.OutOrStdout(), res)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&theorem, "theorem", "", "prove this expression instead of a request, e.g. \"Safe(f)\"")
	cmd.Flags().StringArrayVar(&assumptions, "assume", nil, "fact available to a --theorem search, repeatable")
	return cmd
}

func newCompareCmd(a *app) *cobra.Command {
	var flags searchFlags
	cmd := &cobra.Command{
		Use:   "compare [request-file | -]",
		Short: "Run every strategy on a request and compare them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			flags.apply(req)

			report, err := a.prover.CompareStrategies(cmd.Context(), req)
			if err != nil {
				return err
			}
			if flags.format == "json" {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printComparison(cmd.OutOrStdout(), report)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) proveTheorem(cmd *cobra.Command, flags searchFlags, theorem string, assumed []string) error {
	statement, err := logic.Parse(theorem)
	if err != nil {
		return fmt.Errorf("--theorem: %w", err)
	}
	facts := make([]logic.Expression, 0, len(assumed))
	for _, s := range assumed {
		fact, err := logic.Parse(s)
		if err != nil {
			return fmt.Errorf("--assume %q: %w", s, err)
		}
		facts = append(facts, fact)
	}

	opts := search.Options{
		MaxDepth: flags.maxDepth,
		Timeout:  time.Duration(flags.timeoutMs) * time.Millisecond,
	}
	res, err := a.prover.ProveTheorem(cmd.Context(), statement, facts, flags.strategy, opts)
	if err != nil {
		return err
	}
	if flags.format == "json" {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	printSearch(cmd.OutOrStdout(), statement.String(), res)
	return nil
}

// readRequest decodes a request from path, or from stdin when path is "-".
// The file may be YAML or JSON.
func readRequest(stdin io.Reader, path string) (*prover.VerificationRequest, error) {
	var r io.Reader = stdin
	if path == "-" {
		if f, ok := stdin.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			return nil, errors.New("stdin is a terminal: pipe a request or pass a file path")
		}
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open request: %w", err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(io.LimitReader(r, maxRequestFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	if len(data) > maxRequestFileSize {
		return nil, fmt.Errorf("request too large (max %d bytes)", maxRequestFileSize)
	}

	var req prover.VerificationRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse request: %w", err)
	}
	return &req, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printVerification(w io.Writer, res *prover.VerificationResult) {
	fmt.Fprintf(w, "request:     %s\n", res.RequestID)
	fmt.Fprintf(w, "strategy:    %s\n", res.Strategy)
	if !res.TypeCheckPassed {
		fmt.Fprintln(w, "type check:  FAILED")
		for _, v := range res.TypeViolations {
			fmt.Fprintf(w, "  - %s\n", v)
		}
		fmt.Fprintln(w, "proven:      false (search skipped)")
		return
	}
	fmt.Fprintln(w, "type check:  passed")
	printSearch(w, res.Theorem, res.SearchStats)
	fmt.Fprintf(w, "confidence:  %.2f\n", res.Confidence)
}

func printSearch(w io.Writer, theorem string, r search.Result) {
	fmt.Fprintf(w, "theorem:     %s\n", theorem)
	fmt.Fprintf(w, "proven:      %t (%s)\n", r.Found, r.Outcome())
	if r.Proof != nil {
		fmt.Fprintf(w, "proof:       %s %s [%s]\n", r.Proof.Type, r.Proof.Term, r.Proof.Tactic)
	}
	fmt.Fprintf(w, "nodes:       %d\n", r.NodesExplored)
	fmt.Fprintf(w, "max depth:   %d\n", r.MaxDepth)
	fmt.Fprintf(w, "search time: %s\n", r.SearchTime)
}

func printComparison(w io.Writer, report *prover.ComparisonReport) {
	if !report.TypeCheckPassed {
		fmt.Fprintln(w, "type check FAILED, no strategies run:")
		for _, v := range report.TypeViolations {
			fmt.Fprintf(w, "  - %s\n", v)
		}
		return
	}
	fmt.Fprintf(w, "theorem: %s\n\n", report.Theorem)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tPROVEN\tOUTCOME\tNODES\tDEPTH\tTIME\tCONFIDENCE")
	for _, run := range report.Runs {
		r := run.Result
		fmt.Fprintf(tw, "%s\t%t\t%s\t%d\t%d\t%s\t%.2f\n",
			run.Strategy, r.Found, r.Outcome(), r.NodesExplored, r.MaxDepth, r.SearchTime, run.Confidence)
	}
	tw.Flush()

	s := report.Summary
	fmt.Fprintf(w, "\nnodes explored: mean %.1f, median %.1f\n", s.MeanNodesExplored, s.MedianNodesExplored)
	fmt.Fprintf(w, "search time ms: mean %.3f, median %.3f\n", s.MeanSearchTimeMs, s.MedianSearchTimeMs)
	if len(s.ProvenBy) > 0 {
		fmt.Fprintf(w, "proven by: %s (fewest nodes: %s)\n", strings.Join(s.ProvenBy, ", "), s.FewestNodes)
	} else {
		fmt.Fprintln(w, "proven by: none")
	}
}
