package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(g *globalFlags) *cobra.Command {
	var (
		limit   int
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently applied wallpapers",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.env(cmd)
			if err != nil {
				return err
			}
			store, err := e.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)

			if summary {
				sums, err := store.Summary(ctx)
				if err != nil {
					return err
				}
				if len(sums) == 0 {
					fmt.Fprintln(e.out, "No applies recorded.")
					return nil
				}
				fmt.Fprintln(w, "SOURCE\tAPPLIES")
				for _, s := range sums {
					fmt.Fprintf(w, "%s\t%d\n", s.Source, s.Count)
				}
				return w.Flush()
			}

			records, err := store.Recent(ctx, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(e.out, "No applies recorded.")
				return nil
			}
			fmt.Fprintln(w, "TIME\tMODE\tSOURCE\tRENDER\tDURATION\tCOLORS\tIMAGE")
			for _, r := range records {
				colors := strings.Join(r.Palette.Values(), ",")
				if colors == "" {
					colors = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.CreatedAt.Local().Format("2006-01-02T15:04:05"), r.Mode, r.Source, r.RenderPath,
					r.Duration.Round(time.Millisecond), colors, r.ImagePath)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of records to show (0 for all)")
	cmd.Flags().BoolVar(&summary, "summary", false, "show counts per palette source")
	return cmd
}
