// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command prover verifies formulations from the command line or over HTTP.
//
// Usage:
//
//	prover prove request.yaml
//	prover prove --theorem "Safe(Formulation(Ingredient(aloe, 150)))" --assume "SafeIngredients(Formulation(Ingredient(aloe, 150)))"
//	prover compare request.yaml
//	prover axioms --axioms extra.yaml
//	prover strategies
//	prover serve --addr :8080
//
// Configuration is read from --config (YAML or JSON), then PROVER_*
// environment variables. A .env file in the working directory is loaded
// first; existing environment variables win.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
