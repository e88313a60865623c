// Command foliage is the daemon and CLI entrypoint: `foliage daemon` runs
// the window manager, the other subcommands talk to a running daemon over
// its Unix socket.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "foliage",
		Short:         "An X11 tiling window manager",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		newDaemonCmd(),
		newStatusCmd(),
		newReloadCmd(),
		newWorkspaceCmd(),
		newTreeCmd(),
		newWindowCmd(),
	)
	return cmd
}
