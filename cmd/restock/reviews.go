package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReviewsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Administer pending mitigation reviews",
	}

	cmd.AddCommand(
		newReviewsListCmd(),
		newReviewsApproveCmd(),
		newReviewsRejectCmd(),
	)
	return cmd
}

func newReviewsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List reviews awaiting a decision",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				reviews, err := d.Review.HandleListPending(cmd.Context())
				if err != nil {
					return fmt.Errorf("listing pending reviews: %w", err)
				}
				if len(reviews) == 0 {
					fmt.Println("No pending reviews.")
					return nil
				}
				for _, review := range reviews {
					fmt.Printf("%s  %s  risk=%d  %s qty=%d  created=%s\n",
						review.ID,
						review.MitigationID,
						review.RiskScore,
						review.ActionType,
						review.Payload.Quantity,
						review.CreatedAt.Format("2006-01-02 15:04"),
					)
				}
				return nil
			})
		},
	}
}

func newReviewsApproveCmd() *cobra.Command {
	var reviewedBy string

	cmd := &cobra.Command{
		Use:   "approve <review-id>",
		Short: "Approve a review and execute its stored payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				outcome, err := d.Review.HandleApprove(cmd.Context(), args[0], reviewedBy)
				if err != nil {
					return fmt.Errorf("approving review: %w", err)
				}
				printOutcome(outcome)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&reviewedBy, "by", "admin", "Reviewer identity recorded on the decision")
	return cmd
}

func newReviewsRejectCmd() *cobra.Command {
	var reviewedBy string

	cmd := &cobra.Command{
		Use:   "reject <review-id>",
		Short: "Reject a review without executing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				if err := d.Review.HandleReject(cmd.Context(), args[0], reviewedBy); err != nil {
					return fmt.Errorf("rejecting review: %w", err)
				}
				fmt.Printf("Rejected review %s\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&reviewedBy, "by", "admin", "Reviewer identity recorded on the decision")
	return cmd
}
