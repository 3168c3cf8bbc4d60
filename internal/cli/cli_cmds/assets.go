package cli_cmds

import (
	"fmt"

	"github.com/spf13/cobra"

	"lunchsync/domain/models"
	"lunchsync/factory"
	"lunchsync/internal/cli"
)

// NewAssets creates the assets command, an inspection aid that shows how each
// ledger asset name parses without touching anything
func NewAssets(params *cli.CmdParams) *cobra.Command {
	assetsCmd := &cobra.Command{
		Use:   "assets",
		Short: "List ledger assets and how their names parse",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(params)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ledger := factory.NewLedgerClient(cfg)
			assets, err := ledger.ListAssets(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, asset := range assets {
				parsed, err := models.ParsePricedAsset(asset.Name)
				if err != nil {
					fmt.Fprintf(out, "%8d  %-45s  (not priced)\n", asset.ID, asset.Name)
					continue
				}
				fmt.Fprintf(out, "%8d  %-45s  %s x %s\n", asset.ID, asset.Name, parsed.Quantity.String(), parsed.Symbol)
			}
			return nil
		},
	}

	return assetsCmd
}
