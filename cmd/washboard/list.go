package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/washboardhq/washboard/internal/api"
	"github.com/washboardhq/washboard/internal/dataview"
)

// listFlags are the shared flags of every list subcommand. They mirror the
// dashboard's client-side pipeline: filter, sort, paginate.
type listFlags struct {
	search   string
	status   string
	sort     string
	desc     bool
	page     int
	pageSize int
}

func addListFlags(cmd *cobra.Command, f *listFlags, withStatus bool) {
	cmd.Flags().StringVar(&f.search, "search", "", "case-insensitive text filter")
	cmd.Flags().StringVar(&f.sort, "sort", "", "sort column")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "sort descending")
	cmd.Flags().IntVar(&f.page, "page", 1, "page number")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "rows per page (5, 10, 20, or 50)")
	if withStatus {
		cmd.Flags().StringVar(&f.status, "status", "", "filter by lifecycle status")
	}
}

// runList drives a data view through the standard pipeline and prints the
// requested page.
func runList[T any](ctx context.Context, v *dataview.View[T], f listFlags,
	headers []string, row func(T) []string) error {
	if f.pageSize != 0 {
		if !dataview.ValidPageSize(f.pageSize) {
			return fmt.Errorf("invalid page size %d (valid: %v)", f.pageSize, dataview.PageSizes)
		}
		v.SetPerPage(f.pageSize)
	}
	if f.search != "" {
		v.SetSearch(f.search)
	}
	if f.status != "" {
		v.SetCategory(f.status)
	}
	if f.sort != "" {
		v.CycleSort(f.sort)
		if f.desc {
			v.CycleSort(f.sort)
		}
	}

	if err := v.Load(ctx); err != nil {
		return fmt.Errorf("%s", api.UserMessage(err))
	}
	if f.page > 1 {
		v.GoToPage(f.page)
	}

	snap := v.Snapshot()
	if snap.Filtered == 0 {
		fmt.Println("No records found.")
		return nil
	}
	if snap.Page != f.page && f.page > 1 {
		return fmt.Errorf("page %d is out of range (1-%d)", f.page, snap.TotalPages)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, item := range snap.Items {
		fmt.Fprintln(w, strings.Join(row(item), "\t"))
	}
	w.Flush()

	fmt.Printf("\nPage %d of %d (%d of %d records)\n",
		snap.Page, snap.TotalPages, snap.Filtered, snap.Total)
	return nil
}
