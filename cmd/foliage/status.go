package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foliagewm/foliage/internal/ipc"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether the daemon is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := ipc.NewClient()
			if err := client.Ping(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "foliage daemon is running")
			return nil
		},
	}
}

func newReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Reload the daemon's config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := ipc.NewClient()
			if err := client.Reload(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "config reloaded")
			return nil
		},
	}
}
