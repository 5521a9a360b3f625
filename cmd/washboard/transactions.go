package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/washboardhq/washboard/internal/api"
	"github.com/washboardhq/washboard/internal/config"
	"github.com/washboardhq/washboard/internal/ratings"
	"github.com/washboardhq/washboard/internal/store"
	"github.com/washboardhq/washboard/internal/validate"
	"github.com/washboardhq/washboard/internal/views"
	"github.com/washboardhq/washboard/pkg/models"
)

func newTransactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "Manage laundry orders",
	}
	cmd.AddCommand(
		newTransactionsListCmd(),
		newTransactionsCreateCmd(),
		newTransactionsDeleteCmd(),
		newUpdateStatusCmd(),
		newRateCmd(),
	)
	return cmd
}

// openRatings opens the local rated-transactions store. Ratings are
// remembered per terminal, not per account, mirroring the dashboard's
// local persistence.
func openRatings(ctx context.Context, cfg *config.Config) (*ratings.Store, func(), error) {
	db, err := store.New(cfg.GetString("ratings.db_path"))
	if err != nil {
		return nil, nil, fmt.Errorf("open ratings store: %w", err)
	}
	rs, err := ratings.NewStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return rs, func() { db.Close() }, nil
}

func newTransactionsListCmd() *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List laundry orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			rated := map[int]bool{}
			if rs, closeFn, err := openRatings(cmd.Context(), a.cfg); err == nil {
				defer closeFn()
				if ids, err := rs.RatedIDs(cmd.Context()); err == nil {
					for _, id := range ids {
						rated[id] = true
					}
				}
			}

			v := views.NewTransactionsView(a.client)
			return runList(cmd.Context(), v, f,
				[]string{"ID", "CUSTOMER", "SERVICE", "QTY", "TOTAL", "STATUS", "CREATED", "RATED"},
				func(tx models.Transaction) []string {
					star := ""
					if rated[tx.ID] {
						star = "*"
					}
					return []string{
						strconv.Itoa(tx.ID),
						tx.Customer.FullName(),
						tx.Service.Name,
						fmt.Sprintf("%g", tx.Quantity),
						fmt.Sprintf("%.2f", tx.TotalPrice),
						string(tx.Status),
						tx.CreatedAt.Format("2006-01-02"),
						star,
					}
				})
		},
	}
	addListFlags(cmd, &f, true)
	return cmd
}

func newTransactionsCreateCmd() *cobra.Command {
	var form validate.TransactionForm
	var notes string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a new order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if errs := validate.Check(form); !errs.Ok() {
				return fieldErrorsError(errs)
			}
			a, err := newApp()
			if err != nil {
				return err
			}

			created, err := a.client.Transactions().Create(cmd.Context(), api.CreateTransactionInput{
				CustomerID: form.CustomerID,
				ServiceID:  form.ServiceID,
				Quantity:   form.Quantity,
				Notes:      notes,
			})
			if err != nil {
				return fmt.Errorf("%s", api.UserMessage(err))
			}
			fmt.Printf("Created order %d for %s: %s x%g = %.2f\n",
				created.ID, created.Customer.FullName(), created.Service.Name,
				created.Quantity, created.TotalPrice)
			return nil
		},
	}
	cmd.Flags().IntVar(&form.CustomerID, "customer", 0, "customer id")
	cmd.Flags().IntVar(&form.ServiceID, "service", 0, "service id")
	cmd.Flags().Float64Var(&form.Quantity, "quantity", 0, "quantity in the service's unit")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}

func newTransactionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.client.Transactions().Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("%s", api.UserMessage(err))
			}
			fmt.Printf("Deleted order %d\n", id)
			return nil
		},
	}
}

func newUpdateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update-status <id> <status>",
		Short: "Transition an order's lifecycle status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			status := models.TransactionStatus(args[1])
			if !models.ValidTransactionStatus(status) {
				return fmt.Errorf("unknown status %q", args[1])
			}
			a, err := newApp()
			if err != nil {
				return err
			}

			updated, err := a.client.Transactions().UpdateStatus(cmd.Context(), id, status)
			if err != nil {
				return fmt.Errorf("%s", api.UserMessage(err))
			}
			fmt.Printf("Order %d is now %s\n", updated.ID, updated.Status)
			return nil
		},
	}
}

func newRateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate <id> <stars>",
		Short: "Rate a completed order (1-5 stars)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			stars, err := strconv.Atoi(args[1])
			if err != nil || stars < 1 || stars > 5 {
				return fmt.Errorf("stars must be between 1 and 5")
			}
			a, err := newApp()
			if err != nil {
				return err
			}

			rs, closeFn, err := openRatings(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			already, err := rs.IsRated(cmd.Context(), id)
			if err != nil {
				return err
			}
			if already {
				return fmt.Errorf("order %d has already been rated", id)
			}

			if err := a.client.Transactions().Rate(cmd.Context(), id, stars); err != nil {
				return fmt.Errorf("%s", api.UserMessage(err))
			}
			if err := rs.MarkRated(cmd.Context(), id, stars); err != nil {
				return err
			}
			fmt.Printf("Rated order %d: %d star(s)\n", id, stars)
			return nil
		},
	}
}
