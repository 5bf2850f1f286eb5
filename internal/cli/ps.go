package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/procwatch/internal/pstable"
)

func newPsCmd() *cobra.Command {
	var childrenOf int

	cmd := &cobra.Command{
		Use:   "ps",
		Short: "Print a process-table snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				infos []pstable.ProcessInfo
				err   error
			)
			if childrenOf > 0 {
				infos, err = pstable.ChildrenOf(cmd.Context(), childrenOf)
			} else {
				infos, err = pstable.ListProcesses(cmd.Context())
			}
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PPID\tPID\tCOMMAND")
			for _, info := range infos {
				fmt.Fprintf(tw, "%d\t%d\t%s\n", info.ParentPid, info.Pid, info.Command)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&childrenOf, "children", 0, "Only list entries whose parent is the given pid")
	return cmd
}
