// Package main provides the entry point for the restock CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "restock",
		Short:   "An autonomous inventory mitigation engine with governance controls",
		Version: version,
	}

	rootCmd.AddCommand(
		newInitCmd(),
		newEvaluateCmd(),
		newScanCmd(),
		newReviewsCmd(),
		newModeCmd(),
		newMetricsCmd(),
		newAuditCmd(),
		newMedicinesCmd(),
		newServeCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
