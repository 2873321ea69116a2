package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/core/scanner"
	"github.com/gaze-network/ledger-scanner/internal/config"
	"github.com/gaze-network/ledger-scanner/pkg/logger"
	"github.com/gaze-network/ledger-scanner/pkg/logger/slogx"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

type scanCmdOptions struct {
	Print bool
}

func NewScanCommand() *cobra.Command {
	opts := &scanCmdOptions{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run a single scan pass, publish its snapshots and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return scanHandler(opts, cmd)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.Print, "print", false, "Print the pass result as JSON")
	flags.Bool("reconcile", true, "Fetch every page in binary and JSON form and cross-check them")

	config.BindPFlag("scanner.reconcile", flags.Lookup("reconcile"))

	return cmd
}

func scanHandler(opts *scanCmdOptions, cmd *cobra.Command) error {
	conf := config.Load()
	if err := validateConfig(conf); err != nil {
		return errors.WithStack(err)
	}

	ctx := logger.WithContext(cmd.Context(), slogx.Stringer("network", conf.Network))
	injector := newInjector(ctx, conf)
	defer func() {
		if err := injector.Shutdown(); err != nil {
			logger.WarnContext(ctx, "Failed while shutting down", slogx.Error(err))
		}
	}()

	s, err := do.Invoke[*scanner.Scanner](injector)
	if err != nil {
		return errors.Wrap(err, "can't init scanner")
	}

	result, err := s.Scan(ctx)
	if err != nil {
		return errors.Wrap(err, "scan pass failed")
	}

	if opts.Print {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return errors.Wrap(err, "can't encode pass result")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	}
	return nil
}
