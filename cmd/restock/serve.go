package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ersonp/restock-core/internal/application/handlers"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scan loops until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				return serve(cmd.Context(), d)
			})
		},
	}
}

// serve runs the three scans on their configured intervals until the
// context is canceled. Scan failures are reported and the loop continues.
func serve(ctx context.Context, d *Deps) error {
	inventoryInterval := time.Duration(d.Config.Scan.InventoryIntervalSeconds) * time.Second
	demandInterval := time.Duration(d.Config.Scan.DemandIntervalSeconds) * time.Second
	mitigationInterval := time.Duration(d.Config.Scan.MitigationIntervalSeconds) * time.Second

	inventoryTicker := time.NewTicker(inventoryInterval)
	defer inventoryTicker.Stop()
	demandTicker := time.NewTicker(demandInterval)
	defer demandTicker.Stop()
	mitigationTicker := time.NewTicker(mitigationInterval)
	defer mitigationTicker.Stop()

	fmt.Printf("Serving: inventory every %s, demand every %s, mitigation every %s\n",
		inventoryInterval, demandInterval, mitigationInterval)

	for {
		select {
		case <-ctx.Done():
			fmt.Println("Shutting down.")
			return nil
		case <-inventoryTicker.C:
			runScan(ctx, "Inventory scan", d.Mitigation.HandleInventoryScan)
		case <-demandTicker.C:
			runScan(ctx, "Demand scan", d.Mitigation.HandleDemandScan)
		case <-mitigationTicker.C:
			runScan(ctx, "Mitigation scan", d.Mitigation.HandleMitigationScan)
		}
	}
}

func runScan(ctx context.Context, label string, scan func(context.Context) (*handlers.ScanResult, error)) {
	result, err := scan(ctx)
	if err != nil {
		fmt.Printf("%s failed: %v\n", label, err)
		return
	}
	printScanResult(label, result)
}
