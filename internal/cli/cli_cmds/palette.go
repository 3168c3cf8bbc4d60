package cli_cmds

import (
	"github.com/spf13/cobra"

	"lunchsync/internal"
	"lunchsync/internal/cli"
)

// GeneratePalette builds the set of commands attached to the root
func GeneratePalette(params *cli.CmdParams) []*cobra.Command {
	syncCmd := NewSync(params)
	assetsCmd := NewAssets(params)
	versionCmd := NewVersion(params)

	return []*cobra.Command{
		syncCmd,
		assetsCmd,
		versionCmd,
	}
}

// resolveConfig returns the active configuration, reloading it when the
// --config flag points somewhere else than the defaults
func resolveConfig(params *cli.CmdParams) (*internal.Config, error) {
	if cli.ConfigFile() == "" {
		return params.Config, nil
	}
	return internal.LoadConfig(cli.ConfigFile())
}
