package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/procwatch/internal/tui"
)

func newTopCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Interactive process-table viewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := tui.NewView(tui.Options{Interval: interval})
			return view.Run(cmd.Context())
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "Refresh interval")
	return cmd
}
