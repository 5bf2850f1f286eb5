package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/procwatch/internal/pstree"
)

func newKillCmd() *cobra.Command {
	var tree bool

	cmd := &cobra.Command{
		Use:   "kill [--tree] pid",
		Short: "Terminate a process, optionally with its children",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid pid %q", args[0])
			}
			return pstree.KillPid(pid, tree)
		},
	}

	cmd.Flags().BoolVar(&tree, "tree", false, "Also terminate the process's children")
	return cmd
}
