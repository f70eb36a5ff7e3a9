package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Show governance health aggregates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				metrics, err := d.Admin.HandleMetrics(cmd.Context())
				if err != nil {
					return fmt.Errorf("collecting metrics: %w", err)
				}
				fmt.Printf("Governance mode:       %s\n", metrics.CurrentMode)
				fmt.Printf("Total audit events:    %d\n", metrics.TotalAuditEvents)
				fmt.Printf("Ethical overrides:     %d\n", metrics.EthicalOverrides)
				fmt.Printf("Drift alerts:          %d\n", metrics.DriftAlerts)
				fmt.Printf("Window size:           %d\n", metrics.WindowSize)
				fmt.Printf("Average risk score:    %.1f\n", metrics.AverageRiskScore)
				fmt.Printf("Average confidence:    %.1f\n", metrics.AverageConfidence)
				fmt.Printf("Review mode frequency: %.2f\n", metrics.ReviewModeFrequency)
				return nil
			})
		},
	}
}
