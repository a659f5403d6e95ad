// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// aura-sim replays one of spec.md §8's literal scenarios by driving the
// consensus and guard packages directly with fixed inputs, grounded on
// the teacher's cmd/consensus tool
// (a single cobra root command with one subcommand per scenario
// instead of one monolithic flag set).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aura-sim",
	Short: "Deterministic scenario runner for Aura's consensus and journal cores",
	Long: `aura-sim replays three of Aura's published test scenarios — clean
fast-path commit, absorbed equivocation, and budget refusal — by driving
the consensus and guard packages directly with fixed inputs, so every
run prints the same result. Snapshot soundness and concurrent-merge
convergence have no subcommand.`,
}

func main() {
	rootCmd.AddCommand(fastPathCmd(), equivocationCmd(), budgetRefusalCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
