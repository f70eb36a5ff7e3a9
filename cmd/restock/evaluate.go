package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/restock-core/internal/domain/entities"
)

func newEvaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate <medicine-id>",
		Short: "Run the mitigation pipeline for one medicine",
		Long:  "Computes the risk snapshot, consults the execution governor and either executes, defers or blocks the recommended mitigation.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				outcome, err := d.Mitigation.HandleEvaluate(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("evaluating mitigation: %w", err)
				}
				printOutcome(outcome)
				return nil
			})
		},
	}
}

func printOutcome(outcome *entities.MitigationOutcome) {
	fmt.Printf("Medicine:  %s\n", outcome.MedicineID)
	fmt.Printf("Status:    %s\n", outcome.Status)
	if outcome.Action != "" {
		fmt.Printf("Action:    %s\n", outcome.Action)
	}
	if outcome.Quantity > 0 {
		fmt.Printf("Quantity:  %d\n", outcome.Quantity)
	}
	if outcome.Reason != "" {
		fmt.Printf("Reason:    %s\n", outcome.Reason)
	}
	if outcome.ReviewID != "" {
		fmt.Printf("Review:    %s\n", outcome.ReviewID)
	}
	if outcome.Snapshot != nil && outcome.Snapshot.HasConsumptionData() {
		fmt.Printf("Risk:      %d (%s), priority %s\n", outcome.Snapshot.RiskScore, outcome.Snapshot.RiskLevel, outcome.Snapshot.Priority)
		fmt.Printf("Forecast:  %.1f days until depletion, %.1f units/day\n", outcome.Snapshot.DaysUntilDepletion, outcome.Snapshot.AvgDailyConsumption)
	}
	if outcome.Snapshot != nil && outcome.Snapshot.Explanation != "" {
		fmt.Printf("Detail:    %s\n", outcome.Snapshot.Explanation)
	}
}
