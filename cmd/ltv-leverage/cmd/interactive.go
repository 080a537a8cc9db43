package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/ltv-leverage/internal/mode"
	"github.com/iwvelando/ltv-leverage/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const interactiveHelp = `Commands:
  mode <ltv|leverage|weights>   select the active mode
  set <field> <value>           set a slider of the active mode
  show                          print the current state
  reset                         restore the active mode's defaults
  modes                         list modes and their sliders
  help                          print this help
  quit                          leave
`

var errQuit = errors.New("quit")

func newInteractiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"repl"},
		Short:   "Adjust sliders from the terminal and watch the chart point move",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, err := a.format()
			if err != nil {
				return err
			}
			r := &repl{
				session: a.controller().NewSession(),
				format:  outputFormat,
				out:     cmd.OutOrStdout(),
				logger:  a.logger,
			}
			return r.run(cmd.InOrStdin())
		},
	}
}

type repl struct {
	session *mode.Session
	format  string
	out     io.Writer
	logger  *zap.Logger
}

func (r *repl) run(in io.Reader) error {
	fmt.Fprint(r.out, interactiveHelp)
	if err := r.show(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		err := r.exec(strings.Fields(scanner.Text()))
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			// Bad input keeps the session alive.
			r.logger.Debug("interactive command failed",
				zap.String("op", "cmd.interactive"),
				zap.Error(err),
			)
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	}
}

func (r *repl) exec(args []string) error {
	if len(args) == 0 {
		return nil
	}

	switch strings.ToLower(args[0]) {
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		fmt.Fprint(r.out, interactiveHelp)
		return nil
	case "show":
		return r.show()
	case "reset":
		r.session.Reset()
		return r.show()
	case "modes":
		for _, d := range mode.Descriptors() {
			fmt.Fprintf(r.out, "%-8s %s\n", d.Mode, d.Title)
			for _, s := range d.Sliders {
				fmt.Fprintf(r.out, "  %-12s [%g, %g] step %g default %g\n", s.Field, s.Min, s.Max, s.Step, s.Default)
			}
		}
		return nil
	case "mode":
		if len(args) != 2 {
			return fmt.Errorf("usage: mode <ltv|leverage|weights>")
		}
		m, err := mode.ParseMode(args[1])
		if err != nil {
			return err
		}
		if err := r.session.Select(m); err != nil {
			return err
		}
		return r.show()
	case "set":
		if len(args) != 3 {
			return fmt.Errorf("usage: set <field> <value>")
		}
		field, err := mode.ParseField(args[1])
		if err != nil {
			return err
		}
		value, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", args[2], err)
		}
		stored, err := r.session.Set(field, value)
		if err != nil {
			return err
		}
		if stored != value {
			fmt.Fprintf(r.out, "%s clamped to %g\n", field, stored)
		}
		return r.show()
	}
	return fmt.Errorf("unknown command %q, type help", args[0])
}

func (r *repl) show() error {
	state, err := r.session.Current()
	if err != nil {
		return err
	}
	return output.Write(r.out, r.format, state)
}
