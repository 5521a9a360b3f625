package main

import (
	"github.com/spf13/cobra"

	"github.com/washboardhq/washboard/internal/tui"
)

func newDashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Open the interactive dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDash(cmd)
		},
	}
}

func runDash(cmd *cobra.Command) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	return tui.Run(cmd.Context(), a.client, a.logger)
}
