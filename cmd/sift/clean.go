package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sift/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the sift result cache",
	Long:  "Remove the on-disk result cache so the next check re-evaluates every file.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(_ *cobra.Command, _ []string) error {
	cache, err := driver.OpenResultCache("sift")
	if err != nil {
		return fmt.Errorf("failed to open result cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to drop result cache: %w", err)
	}
	_, _ = fmt.Fprintln(os.Stdout, "result cache cleared")
	return nil
}
