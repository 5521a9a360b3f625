package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/washboardhq/washboard/internal/api"
	"github.com/washboardhq/washboard/internal/report"
)

func newReportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Customer frequency and sales reports",
	}
	cmd.AddCommand(newFrequencyCmd(), newSalesCmd())
	return cmd
}

func newFrequencyCmd() *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "frequency",
		Short: "Rank customers by visit count",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			txs, err := a.client.Transactions().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s", api.UserMessage(err))
			}

			rows := report.CustomerFrequencies(txs)
			if top > 0 && top < len(rows) {
				rows = rows[:top]
			}
			if len(rows) == 0 {
				fmt.Println("No orders recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CUSTOMER\tVISITS\tSPENT\tITEMS\tLAST VISIT")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%d\t%.2f\t%g\t%s\n",
					r.Customer.FullName(), r.Visits, r.TotalSpent, r.TotalItems,
					r.LastVisit.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "limit to the top N customers")
	return cmd
}

func newSalesCmd() *cobra.Command {
	var fromStr, toStr string
	var days int
	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Daily revenue over a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			from := now.AddDate(0, 0, -days+1)
			to := now
			var err error
			if fromStr != "" {
				if from, err = time.ParseInLocation("2006-01-02", fromStr, time.Local); err != nil {
					return fmt.Errorf("invalid --from date %q", fromStr)
				}
			}
			if toStr != "" {
				if to, err = time.ParseInLocation("2006-01-02", toStr, time.Local); err != nil {
					return fmt.Errorf("invalid --to date %q", toStr)
				}
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			txs, err := a.client.Transactions().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s", api.UserMessage(err))
			}

			daysOut := report.SalesByDay(txs, from, to)
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tORDERS\tREVENUE")
			for _, d := range daysOut {
				fmt.Fprintf(w, "%s\t%d\t%.2f\n", d.Date.Format("2006-01-02"), d.Orders, d.Revenue)
			}
			w.Flush()

			fmt.Printf("\nTotal revenue: %.2f over %s day(s)\n",
				report.TotalRevenue(daysOut), strconv.Itoa(len(daysOut)))
			return nil
		},
	}
	cmd.Flags().StringVar(&fromStr, "from", "", "range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "range end (YYYY-MM-DD)")
	cmd.Flags().IntVar(&days, "days", 30, "default range length when --from is unset")
	return cmd
}
