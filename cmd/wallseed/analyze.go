package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"
	"github.com/wallseed/wallseed/pkg/imageproc"
	"github.com/wallseed/wallseed/pkg/models"
	"github.com/wallseed/wallseed/pkg/vision"
)

func newAnalyzeCmd(g *globalFlags) *cobra.Command {
	var (
		imagePath string
		swatch    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Ask the model for a palette and print it without applying",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.env(cmd)
			if err != nil {
				return err
			}

			img, err := imageproc.Open(imagePath)
			if err != nil {
				return err
			}
			q, err := vision.New(cmd.Context(), e.cfg.Model, e.log)
			if err != nil {
				return err
			}
			p, err := q.Query(cmd.Context(), img)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(p, "", "  ")
			if err != nil {
				return fmt.Errorf("encode palette: %w", err)
			}
			fmt.Fprintln(e.out, string(data))

			if swatch {
				writeSwatches(e.out, p)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "wallpaper image to analyze")
	cmd.Flags().BoolVar(&swatch, "swatch", false, "also print a colored swatch per role")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

// writeSwatches prints one colored block per palette role in canonical order.
func writeSwatches(w io.Writer, p models.Palette) {
	for _, role := range models.Roles {
		hex, ok := p[role]
		if !ok {
			continue
		}
		block := lipgloss.NewStyle().
			Background(lipgloss.Color(hex)).
			Foreground(lipgloss.Color(contrastText(hex))).
			Padding(0, 2).
			Render(hex)
		fmt.Fprintf(w, "%s %s\n", block, strings.TrimSuffix(string(role), "_hex"))
	}
}

// contrastText picks black or white text for a background color using its
// relative luminance.
func contrastText(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "#FFFFFF"
	}
	r, g, b := c.LinearRgb()
	if 0.2126*r+0.7152*g+0.0722*b > 0.179 {
		return "#000000"
	}
	return "#FFFFFF"
}
