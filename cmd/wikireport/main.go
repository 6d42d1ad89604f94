// Package main provides the entry point for the wikireport CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/infinitehoax/WikiContributionReport/cmd/wikireport/commands"
	"github.com/infinitehoax/WikiContributionReport/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wikireport",
		Short: "Wiki contribution reports - per-author edit attribution",
		Long: `Wikireport turns the revision history of a wiki page into a ranked
per-author contribution report.

Commands:
  report    Build a contribution report for a page`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewReportCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "wikireport %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
