package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/procwatch/internal/observe"
	"github.com/Paintersrp/procwatch/internal/spawn"
)

func newExecCmd() *cobra.Command {
	var flags specFlags

	cmd := &cobra.Command{
		Use:   "exec [flags] -- command [args...]",
		Short: "Run a command and report only its exit status",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := flags.build(args)
			if err != nil {
				return err
			}

			results := observe.ObserveExit(cmd.Context(), spawn.StarterFor(spec), observe.Options{KillTree: flags.killTree})
			res, ok := <-results
			if !ok {
				return cmd.Context().Err()
			}
			if res.Err != nil {
				return res.Err
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Status)
			return exitOutcome(spec.Command, res.Status, nil, nil)
		},
	}

	flags.register(cmd)
	return cmd
}
