package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/restock-core/internal/application/handlers"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run batch scans over the inventory",
	}

	cmd.AddCommand(
		newScanInventoryCmd(),
		newScanDemandCmd(),
		newScanMitigationCmd(),
	)
	return cmd
}

func newScanInventoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inventory",
		Short: "Raise escalations for stock below the low-stock threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				result, err := d.Mitigation.HandleInventoryScan(cmd.Context())
				if err != nil {
					return fmt.Errorf("running inventory scan: %w", err)
				}
				printScanResult("Inventory scan", result)
				return nil
			})
		},
	}
}

func newScanDemandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demand",
		Short: "Enqueue restocks for medicines nearing depletion",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				result, err := d.Mitigation.HandleDemandScan(cmd.Context())
				if err != nil {
					return fmt.Errorf("running demand scan: %w", err)
				}
				printScanResult("Demand scan", result)
				return nil
			})
		},
	}
}

func newScanMitigationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mitigation",
		Short: "Run the full governance pipeline over every medicine",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				result, err := d.Mitigation.HandleMitigationScan(cmd.Context())
				if err != nil {
					return fmt.Errorf("running mitigation scan: %w", err)
				}
				printScanResult("Mitigation scan", result)
				return nil
			})
		},
	}
}

func printScanResult(label string, result *handlers.ScanResult) {
	fmt.Printf("%s: %d scanned, %d flagged\n", label, result.Scan.Scanned, result.Scan.Flagged)
	if result.Dispatch.Dispatched > 0 || result.Dispatch.Deferred > 0 {
		fmt.Printf("Dispatch: %d dispatched, %d deferred\n", result.Dispatch.Dispatched, result.Dispatch.Deferred)
	}
	for _, failure := range result.Scan.Failures {
		fmt.Printf("  failed: %s\n", failure)
	}
}
