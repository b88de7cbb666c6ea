package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/depthrig/depthrig/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Run: func(cmd *cobra.Command, _ []string) {
			info := version.Get()
			fmt.Fprintf(cmd.OutOrStdout(), "depthrig %s\n", info.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit:     %s\n", info.GitCommit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:      %s\n", info.BuildDate)
			fmt.Fprintf(cmd.OutOrStdout(), "  go version: %s\n", info.GoVersion)
			fmt.Fprintf(cmd.OutOrStdout(), "  platform:   %s\n", info.Platform)
		},
	}
}
