package cli_cmds

import (
	"fmt"

	"github.com/spf13/cobra"

	"lunchsync/internal"
	"lunchsync/internal/cli"
)

// NewVersion creates the version command
func NewVersion(params *cli.CmdParams) *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "lunchsync")
			fmt.Fprintln(cmd.OutOrStdout(), internal.VersionInfo())
		},
	}

	return versionCmd
}
