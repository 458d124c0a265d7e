// Package main provides the nowsync CLI: a daemon that mirrors the Last.fm
// "now playing" track into a git-tracked README via a rolling amended commit.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nowsync",
	Short: "Mirror your Last.fm now-playing track into a git-tracked README",
	Long:  "nowsync polls Last.fm for the currently playing track and reflects it into a delimited block of a README, amending a single rolling commit and force-pushing so the profile page always shows fresh now-playing information.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
