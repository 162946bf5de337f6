package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newApplyCmd(g *globalFlags) *cobra.Command {
	var (
		imagePath string
		mode      string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Generate and apply a theme from a wallpaper",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseModeFlag(mode)
			if err != nil {
				return err
			}
			e, err := g.env(cmd)
			if err != nil {
				return err
			}
			svc, cleanup, err := e.newService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.Apply(cmd.Context(), imagePath, m, force)
			if err != nil {
				return err
			}

			colors := strings.Join(res.Palette.Values(), " ")
			if colors == "" {
				colors = "-"
			}
			fmt.Fprintf(e.out, "mode=%s source=%s render=%s colors=%s\n", res.Mode, res.Source, res.RenderPath, colors)
			return nil
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "wallpaper image to apply")
	cmd.Flags().StringVar(&mode, "mode", "", "auto, dark or light (default from config)")
	cmd.Flags().BoolVar(&force, "force", false, "ignore cached palettes")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}
