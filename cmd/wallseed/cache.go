package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wallseed/wallseed/pkg/cache"
)

func newCacheCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the palette cache",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.env(cmd)
			if err != nil {
				return err
			}
			c, err := e.openCache()
			if err != nil {
				return err
			}

			stats := c.Stats()
			fmt.Fprintf(e.out, "Path:    %s\nEntries: %d\n", c.Path(), stats.Entries)
			return nil
		},
	}

	var imagePath string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the cached palette for an image",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.env(cmd)
			if err != nil {
				return err
			}
			c, err := e.openCache()
			if err != nil {
				return err
			}
			hash, err := cache.HashFile(imagePath)
			if err != nil {
				return fmt.Errorf("hash %s: %w", imagePath, err)
			}

			fmt.Fprintf(e.out, "Hash: %s\n", hash)
			p, ok := c.Get(hash, false)
			if !ok {
				fmt.Fprintln(e.out, "Not cached.")
				return nil
			}
			data, err := json.MarshalIndent(p, "", "  ")
			if err != nil {
				return fmt.Errorf("encode palette: %w", err)
			}
			fmt.Fprintln(e.out, string(data))
			return nil
		},
	}
	showCmd.Flags().StringVar(&imagePath, "image", "", "wallpaper image to look up")
	_ = showCmd.MarkFlagRequired("image")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached palette",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.env(cmd)
			if err != nil {
				return err
			}
			c, err := e.openCache()
			if err != nil {
				return err
			}
			if e.dryRun {
				fmt.Fprintf(e.out, "[dry-run] would clear %d entries from %s\n", c.Stats().Entries, c.Path())
				return nil
			}
			if err := cache.Save(c.Path(), cache.Document{}); err != nil {
				return err
			}
			fmt.Fprintln(e.out, "All cache entries cleared.")
			return nil
		},
	}

	cmd.AddCommand(statsCmd, showCmd, clearCmd)
	return cmd
}
