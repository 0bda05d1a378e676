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
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const safetyYAML = `
hypothesis: aloe is safe
ingredients:
  - id: aloe_vera
    molecular_weight: 150
strategy: breadth_first
`

const testAxioms = "../../services/prover/theory/testdata/axioms.yaml"

// run executes the CLI with args and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestProve_RequestFile(t *testing.T) {
	path := writeFile(t, "request.yaml", safetyYAML)

	out, err := run(t, "", "prove", path, "--format", "json")
	require.NoError(t, err)

	var res struct {
		Proven          bool    `json:"proven"`
		TypeCheckPassed bool    `json:"type_check_passed"`
		Strategy        string  `json:"strategy"`
		Confidence      float64 `json:"confidence"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Proven)
	assert.True(t, res.TypeCheckPassed)
	assert.Equal(t, search.NameBreadthFirst, res.Strategy)
	assert.InDelta(t, 0.9, res.Confidence, 1e-9)
}

func TestProve_StdinTextOutput(t *testing.T) {
	out, err := run(t, safetyYAML, "prove", "-", "--strategy", search.NameDepthFirst)
	require.NoError(t, err)

	assert.Contains(t, out, "strategy:    depth_first")
	assert.Contains(t, out, "type check:  passed")
	assert.Contains(t, out, "proven:      true (proven)")
	assert.Contains(t, out, "confidence:  0.90")
}

func TestProve_TypeViolationText(t *testing.T) {
	out, err := run(t, `{"ingredients": [{"id": "water"}]}`, "prove", "-")
	require.NoError(t, err)

	assert.Contains(t, out, "type check:  FAILED")
	assert.Contains(t, out, "water: missing molecular weight")
	assert.Contains(t, out, "search skipped")
}

func TestProve_TheoremWithLoadedAxioms(t *testing.T) {
	out, err := run(t, "",
		"--axioms", testAxioms,
		"prove", "--theorem", "Effective(glycerin_serum, hydration, 0.9)",
		"--strategy", search.NameBreadthFirst, "--format", "json")
	require.NoError(t, err)

	var res struct {
		Found bool `json:"found"`
		Proof struct {
			Type string `json:"type"`
		} `json:"proof"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Found)
	assert.Equal(t, "axiom", res.Proof.Type)
}

func TestProve_TheoremWithAssumption(t *testing.T) {
	out, err := run(t, "",
		"prove", "--theorem", "Safe(cream)", "--assume", "SafeIngredients(cream)")
	require.NoError(t, err)
	assert.Contains(t, out, "theorem:     Safe(cream)")
	assert.Contains(t, out, "proven:      true")
}

func TestProve_Errors(t *testing.T) {
	request := writeFile(t, "request.yaml", safetyYAML)

	tests := []struct {
		name string
		args []string
		is   error
		msg  string
	}{
		{name: "no input", args: []string{"prove"}, msg: "request file or --theorem"},
		{name: "both inputs", args: []string{"prove", request, "--theorem", "Safe(f)"}, msg: "mutually exclusive"},
		{name: "unknown strategy", args: []string{"prove", request, "--strategy", "beam"}, is: search.ErrUnknownStrategy},
		{name: "missing file", args: []string{"prove", filepath.Join(t.TempDir(), "nope.yaml")}, is: os.ErrNotExist},
		{name: "negative theorem timeout", args: []string{"prove", "--theorem", "Safe(f)", "--timeout-ms=-1"}, is: prover.ErrInvalidRequest},
		{name: "negative request timeout", args: []string{"prove", request, "--timeout-ms=-1"}, is: prover.ErrInvalidRequest},
		{name: "bad theorem", args: []string{"prove", "--theorem", "Safe(f"}, msg: "--theorem"},
		{name: "missing axiom file", args: []string{"--axioms", "nope.yaml", "strategies"}, msg: "nope.yaml"},
		{name: "bad log level", args: []string{"--log-level", "loud", "strategies"}, msg: "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.args...)
			require.Error(t, err)
			if tt.is != nil {
				assert.True(t, errors.Is(err, tt.is), "got %v", err)
			}
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestCompare_Text(t *testing.T) {
	path := writeFile(t, "request.json",
		`{"ingredients": [{"id": "aloe_vera", "molecular_weight": 150}]}`)

	out, err := run(t, "", "compare", path)
	require.NoError(t, err)

	for _, name := range search.Names() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "STRATEGY")
	assert.Contains(t, out, "proven by: "+strings.Join(search.Names(), ", "))
}

func TestAxioms(t *testing.T) {
	out, err := run(t, "", "--axioms", testAxioms, "axioms", "--format", "json")
	require.NoError(t, err)

	var axioms []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &axioms))
	require.Len(t, axioms, 5)
	assert.Equal(t, "humectant_hydration", axioms[3].ID)
	assert.Equal(t, "humectant_glycerin", axioms[4].ID)

	out, err = run(t, "", "axioms")
	require.NoError(t, err)
	assert.Contains(t, out, "safe_composition")
	assert.NotContains(t, out, "humectant")
}

func TestStrategies_DefaultFromEnvFile(t *testing.T) {
	out, err := run(t, "", "strategies")
	require.NoError(t, err)
	assert.Contains(t, out, search.NameBestFirst+" (default)")

	env := writeFile(t, ".env", "PROVER_DEFAULT_STRATEGY=depth_first\n")
	t.Cleanup(func() { os.Unsetenv("PROVER_DEFAULT_STRATEGY") })

	out, err = run(t, "", "--env-file", env, "strategies")
	require.NoError(t, err)
	assert.Contains(t, out, search.NameDepthFirst+" (default)")
	assert.NotContains(t, out, search.NameBestFirst+" (default)")
}
