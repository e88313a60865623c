package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foliagewm/foliage/internal/container"
	"github.com/foliagewm/foliage/internal/ipc"
)

func newWorkspaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Inspect or switch workspaces",
	}
	cmd.AddCommand(newWorkspaceFocusCmd(), newWorkspaceListCmd())
	return cmd
}

func newWorkspaceFocusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "focus <name>",
		Short: "Activate the named workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ipc.NewClient().FocusWorkspace(args[0])
		},
	}
}

func newWorkspaceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every workspace and which is displayed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dto, err := ipc.NewClient().GetTree()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			walkWorkspaces(dto, func(ws *container.DTO) {
				marker := " "
				if ws.IsDisplayed {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s\n", marker, ws.Name)
			})
			return nil
		},
	}
}

func walkWorkspaces(d *container.DTO, visit func(*container.DTO)) {
	if d.Kind == "workspace" {
		visit(d)
	}
	for _, child := range d.Children {
		walkWorkspaces(child, visit)
	}
}
