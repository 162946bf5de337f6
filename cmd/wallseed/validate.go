package main

import (
	"fmt"
	"os/exec"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// hookExecutables are optional helpers used by the reload hooks.
var hookExecutables = []string{"kitty", "waybar", "makoctl", "hyprctl", "fish"}

func newValidateCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the renderer and reload helpers are installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.env(cmd)
			if err != nil {
				return err
			}

			renderer := e.cfg.Renderer.Binary
			w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "EXECUTABLE\tSTATUS\tPATH")

			rendererFound := true
			for i, name := range append([]string{renderer}, hookExecutables...) {
				path, err := lookPath(name)
				if err != nil {
					if i == 0 {
						rendererFound = false
					}
					fmt.Fprintf(w, "%s\tmissing\t-\n", name)
					continue
				}
				fmt.Fprintf(w, "%s\tok\t%s\n", name, path)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if !rendererFound {
				return fmt.Errorf("renderer %q not found on PATH", renderer)
			}
			return nil
		},
	}
}
