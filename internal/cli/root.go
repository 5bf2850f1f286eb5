package cli

import (
	stdcontext "context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Paintersrp/procwatch/internal/log"
)

// NewRootCmd builds the procwatch command tree.
func NewRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "procwatch",
		Short: "Observe processes and terminate process trees",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output := io.Writer(os.Stderr)
			if term.IsTerminal(int(os.Stderr.Fd())) {
				output = zerolog.ConsoleWriter{Out: os.Stderr}
			}
			log.Configure(log.Config{Level: logLevel, Output: output})
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	root.AddCommand(newRunCmd())
	root.AddCommand(newExecCmd())
	root.AddCommand(newKillCmd())
	root.AddCommand(newPsCmd())
	root.AddCommand(newTopCmd())
	root.AddCommand(newServeCmd())

	root.SilenceUsage = true
	root.SilenceErrors = true

	return root
}

// Execute runs the CLI entrypoint.
func Execute() {
	ctx, stop := signal.NotifyContext(stdcontext.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		os.Exit(1)
	}
}

// exitCodeError mirrors a child's non-zero exit through the CLI's own exit
// code.
type exitCodeError struct {
	command string
	code    int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("command %q exited with code %d", e.command, e.code)
}
