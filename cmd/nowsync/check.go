package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nowsync/nowsync/internal/lastfm"
	"github.com/nowsync/nowsync/internal/track"
)

var checkCommand = &cobra.Command{
	Use:   "check",
	Short: "Fetch the current track once and print it",
	Long:  "Fetches the most recent listening event and prints the normalized record and its fingerprint without touching the README or the repository. Useful for verifying credentials.",
	RunE:  checkCmd,
}

var checkConfigPath string

func init() {
	checkCommand.Flags().StringVar(&checkConfigPath, "config", "", "Path to config.json file")

	rootCmd.AddCommand(checkCommand)
}

func checkCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(checkConfigPath)
	if err != nil {
		return err
	}

	client, err := lastfm.NewClient(lastfm.Config{
		APIKey: cfg.APIKey,
		User:   cfg.Username,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	t, err := client.CurrentTrack(ctx)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	fmt.Printf("Artist:      %s\n", t.Artist)
	fmt.Printf("Track:       %s\n", t.Name)
	fmt.Printf("Album:       %s\n", t.Album)
	fmt.Printf("URL:         %s\n", t.URL)
	fmt.Printf("Fingerprint: %s\n", track.Fingerprint(t))
	return nil
}
