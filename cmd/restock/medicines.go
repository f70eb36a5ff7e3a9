package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newMedicinesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "medicines",
		Short: "Manage medicines and consumption records",
	}

	cmd.AddCommand(
		newMedicinesAddCmd(),
		newMedicinesListCmd(),
		newMedicinesSetStockCmd(),
		newMedicinesOrderCmd(),
	)
	return cmd
}

func newMedicinesAddCmd() *cobra.Command {
	var stock int

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a medicine under governance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				medicine, err := d.Inventory.HandleAddMedicine(cmd.Context(), args[0], stock)
				if err != nil {
					return fmt.Errorf("adding medicine: %w", err)
				}
				fmt.Printf("Added %s (%s) with stock %d\n", medicine.Name, medicine.ID, medicine.Stock)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&stock, "stock", 0, "Initial stock level")
	return cmd
}

func newMedicinesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all medicines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				medicines, err := d.Inventory.HandleListMedicines(cmd.Context())
				if err != nil {
					return fmt.Errorf("listing medicines: %w", err)
				}
				if len(medicines) == 0 {
					fmt.Println("No medicines registered.")
					return nil
				}
				for _, medicine := range medicines {
					fmt.Printf("%s  %-30s  stock=%d\n", medicine.ID, medicine.Name, medicine.Stock)
				}
				return nil
			})
		},
	}
}

func newMedicinesSetStockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-stock <medicine-id> <stock>",
		Short: "Set a medicine's stock level",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stock, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid stock %q: %w", args[1], err)
			}
			return withDeps(func(d *Deps) error {
				if err := d.Inventory.HandleSetStock(cmd.Context(), args[0], stock); err != nil {
					return fmt.Errorf("setting stock: %w", err)
				}
				fmt.Printf("Stock for %s set to %d\n", args[0], stock)
				return nil
			})
		},
	}
}

func newMedicinesOrderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "order <medicine-id> <quantity>",
		Short: "Record one consumption order dated now",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q: %w", args[1], err)
			}
			return withDeps(func(d *Deps) error {
				order, err := d.Inventory.HandleRecordOrder(cmd.Context(), args[0], quantity)
				if err != nil {
					return fmt.Errorf("recording order: %w", err)
				}
				fmt.Printf("Recorded order %s for %d units of %s\n", order.ID, order.Quantity, order.MedicineID)
				return nil
			})
		},
	}
}
