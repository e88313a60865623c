package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/foliagewm/foliage/internal/container"
	"github.com/foliagewm/foliage/internal/ipc"
)

var (
	treeFocusedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	treeKindStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the container tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dto, err := ipc.NewClient().GetTree()
			if err != nil {
				return err
			}
			printNode(cmd.OutOrStdout(), dto, "")
			return nil
		},
	}
}

func printNode(w io.Writer, d *container.DTO, indent string) {
	label := nodeLabel(d)
	if d.HasFocus {
		label = treeFocusedStyle.Render(label)
	}
	fmt.Fprintf(w, "%s%s\n", indent, label)
	for _, child := range d.Children {
		printNode(w, child, indent+"  ")
	}
}

func nodeLabel(d *container.DTO) string {
	kind := treeKindStyle.Render("[" + d.Kind + "]")
	var parts []string
	switch d.Kind {
	case "workspace":
		name := d.Name
		if d.IsDisplayed {
			name += " (displayed)"
		}
		parts = append(parts, name)
	case "monitor":
		parts = append(parts, fmt.Sprintf("display %d", d.NativeMonitor))
	case "tiling_window", "non_tiling_window":
		parts = append(parts, fmt.Sprintf("window %d (%s)", d.NativeWindow, d.State))
	}
	if len(parts) == 0 {
		return kind
	}
	return kind + " " + strings.Join(parts, " ")
}
