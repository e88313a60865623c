package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foliagewm/foliage/internal/container"
	"github.com/foliagewm/foliage/internal/ipc"
)

func newWindowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Inspect the focused window",
	}
	cmd.AddCommand(newWindowInfoCmd())
	return cmd
}

func newWindowInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the currently focused window's state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dto, err := ipc.NewClient().GetTree()
			if err != nil {
				return err
			}
			w := findFocusedWindow(dto)
			if w == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no window focused")
				return nil
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "native id: %d\n", w.NativeWindow)
			fmt.Fprintf(out, "state: %s\n", w.State)
			fmt.Fprintf(out, "display state: %s\n", w.DisplayState)
			if w.State == "floating" || w.State == "fullscreen" {
				fmt.Fprintf(out, "rect: %d,%d %dx%d\n", w.X, w.Y, w.Width, w.Height)
			}
			return nil
		},
	}
}

func findFocusedWindow(d *container.DTO) *container.DTO {
	if d.HasFocus && (d.Kind == "tiling_window" || d.Kind == "non_tiling_window") {
		return d
	}
	for _, child := range d.Children {
		if found := findFocusedWindow(child); found != nil {
			return found
		}
	}
	return nil
}
