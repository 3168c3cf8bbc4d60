package cli_cmds

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"lunchsync/factory"
	"lunchsync/internal"
	"lunchsync/internal/cli"
)

// NewSync creates the sync command, the main work of the tool
func NewSync(params *cli.CmdParams) *cobra.Command {
	var (
		dryRun   bool
		watch    bool
		interval string
	)

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync priced asset balances with current market quotes",
		Long: `Sync lists Lunch Money assets, parses holdings out of names shaped like
"Apple [AAPL]: 10", fetches current quotes for every symbol in one batch,
and writes the recomputed balances back to the ledger.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(params)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if interval != "" {
				cfg.Interval = interval
			}

			logger := internal.NewLogger(cfg.Debug)
			svc, cleanup, err := factory.NewSyncService(cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()
			svc.SetDryRun(dryRun)

			if watch {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return svc.Start(ctx)
			}

			report, err := svc.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.String())
			return nil
		},
	}

	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute and log updates without writing to the ledger")
	syncCmd.Flags().BoolVar(&watch, "watch", false, "keep running, syncing on an interval")
	syncCmd.Flags().StringVar(&interval, "interval", "", "watch interval, e.g. 15m (overrides config)")

	return syncCmd
}
