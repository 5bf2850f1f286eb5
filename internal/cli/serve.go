package cli

import (
	"github.com/spf13/cobra"

	httpapi "github.com/Paintersrp/procwatch/internal/api/http"
	"github.com/Paintersrp/procwatch/internal/log"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the process table and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := httpapi.NewServer(httpapi.Config{Addr: addr})
			logger := log.WithComponent("api")
			logger.Info().Str("addr", server.Addr()).Msg("serving HTTP API")
			return server.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default 127.0.0.1:7663)")

	return cmd
}
