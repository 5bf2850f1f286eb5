package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/procwatch/internal/observe"
	"github.com/Paintersrp/procwatch/internal/spawn"
)

type specFlags struct {
	specFile string
	dir      string
	envPairs []string
	stdin    string
	killTree bool
}

func (f *specFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.specFile, "spec", "", "Path to a YAML spawn spec")
	cmd.Flags().StringVar(&f.dir, "dir", "", "Working directory for the command")
	cmd.Flags().StringArrayVar(&f.envPairs, "env", nil, "Extra environment entries (KEY=VALUE, repeatable)")
	cmd.Flags().StringVar(&f.stdin, "stdin", "", "Payload written to the command's stdin")
	cmd.Flags().BoolVar(&f.killTree, "kill-tree", false, "Terminate discovered children as well on teardown")
}

func (f *specFlags) build(args []string) (*spawn.Spec, error) {
	spec := &spawn.Spec{}
	if f.specFile != "" {
		loaded, err := spawn.Load(f.specFile)
		if err != nil {
			return nil, err
		}
		spec = loaded
	}
	if len(args) > 0 {
		spec.Command = args[0]
		spec.Args = append([]string(nil), args[1:]...)
	}
	if spec.Command == "" {
		return nil, errors.New("no command given (pass one after --, or use --spec)")
	}
	if f.dir != "" {
		spec.Dir = f.dir
	}
	if f.stdin != "" {
		spec.Stdin = f.stdin
	}
	for _, pair := range f.envPairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid env entry %q (want KEY=VALUE)", pair)
		}
		if spec.Env == nil {
			spec.Env = make(map[string]string)
		}
		spec.Env[k] = v
	}
	return spec, nil
}

func newRunCmd() *cobra.Command {
	var flags specFlags
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "run [flags] -- command [args...]",
		Short: "Run a command and stream its lifecycle events",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := flags.build(args)
			if err != nil {
				return err
			}
			return streamEvents(cmd, spec, flags.killTree, jsonOut)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit events as JSON records instead of raw lines")

	return cmd
}

func streamEvents(cmd *cobra.Command, spec *spawn.Spec, killTree, jsonOut bool) error {
	events := observe.Observe(cmd.Context(), spawn.StarterFor(spec), observe.Options{KillTree: killTree})
	enc := json.NewEncoder(cmd.OutOrStdout())

	var status *spawn.ExitStatus
	var termErr error
	for ev := range events {
		if jsonOut {
			if err := enc.Encode(newEventRecord(ev)); err != nil {
				return err
			}
		} else {
			switch ev.Type {
			case observe.EventTypeStdout:
				fmt.Fprintln(cmd.OutOrStdout(), ev.Line)
			case observe.EventTypeStderr:
				fmt.Fprintln(cmd.ErrOrStderr(), ev.Line)
			}
		}

		switch ev.Type {
		case observe.EventTypeExit:
			status = ev.Exit
		case observe.EventTypeError:
			termErr = ev.Err
		}
	}

	return exitOutcome(spec.Command, status, termErr, cmd.Context().Err())
}

func exitOutcome(command string, status *spawn.ExitStatus, termErr, ctxErr error) error {
	if termErr != nil {
		return termErr
	}
	if status == nil {
		// Torn down before a terminal event.
		return ctxErr
	}
	if status.Signal != "" {
		return fmt.Errorf("command %q terminated by %s", command, status.Signal)
	}
	if status.Code != nil && *status.Code != 0 {
		return &exitCodeError{command: command, code: *status.Code}
	}
	return nil
}
