package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/washboardhq/washboard/internal/api"
	"github.com/washboardhq/washboard/internal/auth"
	"github.com/washboardhq/washboard/internal/config"
	"github.com/washboardhq/washboard/internal/version"
)

// app carries the shared state every subcommand needs: configuration, the
// logger, the persisted token pair, and the API client built over them.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	tokens *auth.TokenStore
	client *api.Client
}

var (
	flagConfig  string
	flagVerbose bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "washboard",
		Short:         "Laundry service admin dashboard",
		Long:          "Washboard is the terminal client for the laundry service dashboard.\nRun without a subcommand to open the interactive dashboard.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDash(cmd)
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to configuration file")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newDashCmd(),
		newUsersCmd(),
		newCustomersCmd(),
		newServicesCmd(),
		newTransactionsCmd(),
		newReportsCmd(),
		newVersionCmd(),
	)
	return root
}

// newApp assembles the shared command state from the persistent flags.
func newApp() (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	var logger *zap.Logger
	if flagVerbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger = zap.NewNop()
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	tokens := auth.NewTokenStore(cfg.GetString("auth.token_file"))
	client := api.New(cfg, tokens, logger)

	return &app{
		cfg:    cfg,
		logger: logger,
		tokens: tokens,
		client: client,
	}, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Info())
		},
	}
}
