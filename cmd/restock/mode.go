package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newModeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mode",
		Short: "Show the current governance mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				mode, err := d.Admin.HandleCurrentMode(cmd.Context())
				if err != nil {
					return fmt.Errorf("reading governance mode: %w", err)
				}
				fmt.Printf("Governance mode: %s\n", mode)
				return nil
			})
		},
	}

	cmd.AddCommand(newModeSetCmd())
	return cmd
}

func newModeSetCmd() *cobra.Command {
	var updatedBy string

	cmd := &cobra.Command{
		Use:   "set <AUTO|REVIEW|SAFE>",
		Short: "Change the governance mode as an administrator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				mode, err := d.Admin.HandleSetMode(cmd.Context(), args[0], updatedBy)
				if err != nil {
					return fmt.Errorf("setting governance mode: %w", err)
				}
				fmt.Printf("Governance mode set to %s\n", mode)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&updatedBy, "by", "admin", "Administrator identity recorded on the change")
	return cmd
}
