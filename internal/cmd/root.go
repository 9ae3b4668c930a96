package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "show-onboard",
	Short: "A tool for adding TV shows to a media library",
	Long: `show-onboard is a CLI tool that walks you through adding a TV show to your
library: find the show on an indexer, pick the parent folder, choose quality
and anime release group options, then add it.

Searches run against a show-onboard compatible server when server_url is
configured, or directly against TheTVDB, TMDB and OMDb otherwise.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
