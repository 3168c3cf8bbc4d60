package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"lunchsync/internal"
	"lunchsync/internal/cli"
	"lunchsync/internal/cli/cli_cmds"
)

func main() {
	// A .env file is honored when present, e.g. for LUNCHMONEY_ACCESS_TOKEN
	_ = godotenv.Load()

	cfg, err := internal.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger := internal.NewLogger(cfg.Debug)

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("lunchsync failed")
	}
}

func run(cfg *internal.Config, logger zerolog.Logger) error {
	rootParams := &cli.CmdParams{
		Config: cfg,
		Logger: logger,
		Use:    "lunchsync",
		Alias:  "lsync",
		Short:  "Sync Lunch Money asset balances with market prices",
		Long: `lunchsync keeps Lunch Money assets that encode holdings in their names,
like "Apple [AAPL]: 10", in sync with current market prices.`,
	}

	palette := cli_cmds.GeneratePalette(rootParams)
	rootParams.Palette = palette

	rootCmd := cli.NewRootCMD(rootParams)

	// Bare invocation runs a one-shot sync
	if len(os.Args) == 1 {
		rootCmd.Root.SetArgs([]string{"sync"})
	}

	return rootCmd.Root.Execute()
}
