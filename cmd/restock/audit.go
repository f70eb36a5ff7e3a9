package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuditCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the newest audit events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				events, err := d.Admin.HandleRecentAudit(cmd.Context(), limit)
				if err != nil {
					return fmt.Errorf("reading audit events: %w", err)
				}
				if len(events) == 0 {
					fmt.Println("No audit events.")
					return nil
				}
				for _, event := range events {
					risk := "-"
					if event.RiskScore != nil {
						risk = fmt.Sprintf("%d", *event.RiskScore)
					}
					fmt.Printf("%s  %-20s  %-7s  mode=%-6s  risk=%-3s  %s\n",
						event.CreatedAt.Format("2006-01-02 15:04:05"),
						event.EventType,
						event.Actor,
						event.ModeAtTime,
						risk,
						event.Decision,
					)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of events to show")

	cmd.AddCommand(newAuditFulfillmentCmd())
	return cmd
}

func newAuditFulfillmentCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "fulfillment",
		Short: "Show the newest fulfillment log entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				logs, err := d.Admin.HandleRecentFulfillment(cmd.Context(), limit)
				if err != nil {
					return fmt.Errorf("reading fulfillment logs: %w", err)
				}
				if len(logs) == 0 {
					fmt.Println("No fulfillment log entries.")
					return nil
				}
				for _, entry := range logs {
					fmt.Printf("%s  %-22s  %s\n",
						entry.CreatedAt.Format("2006-01-02 15:04:05"),
						entry.Status,
						entry.Message,
					)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries to show")
	return cmd
}
