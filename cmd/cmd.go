package cmd

import (
	"context"
	"log/slog"

	"github.com/gaze-network/ledger-scanner/common"
	"github.com/gaze-network/ledger-scanner/internal/config"
	"github.com/gaze-network/ledger-scanner/pkg/logger"
	"github.com/gaze-network/ledger-scanner/pkg/logger/slogx"
	"github.com/spf13/cobra"
)

var cmd = &cobra.Command{
	Use:  "ledger-scanner",
	Long: `Scans the full ledger state of XRPL and Xahau networks and publishes token, NFT, structure and supply snapshots.`,
}

func init() {
	var configFile string

	// Add global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file, E.g. `./config.yaml`")
	flags.String("network", common.NetworkXahauMainnet.String(), "network to scan, E.g. `xahau-mainnet` or `xrpl-mainnet`")

	// Bind flags to configuration
	config.BindPFlag("network", flags.Lookup("network"))

	// Initialize configuration and logger on start command
	cobra.OnInitialize(func() {
		// Initialize configuration
		config := config.Parse(configFile)

		// Initialize logger
		if err := logger.Init(config.Logger); err != nil {
			logger.Panic("Failed to initialize logger", slogx.Error(err), slog.Any("config", config.Logger))
		}
	})
}

func Execute(ctx context.Context) {
	// Register sub-commands
	cmd.AddCommand(
		NewRunCommand(),
		NewScanCommand(),
		NewVersionCommand(),
		NewMigrateCommand(),
	)

	// Execute command
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Panic("Failed to execute root command", slogx.Error(err))
	}
}
