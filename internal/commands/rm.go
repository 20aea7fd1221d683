package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskctl/internal/controller"
	"taskctl/internal/exitcode"
	"taskctl/internal/query"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	yes bool
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "taskctl rm [--yes] <id>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.yes, "yes", false, "")
	fs.BoolVar(&c.yes, "y", false, "")
}

func (c *RmCmd) Run(ctx context.Context, rt *Runtime, args []string) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return rt.userError("%v", err)
	}

	var confirm controller.Confirmer = promptConfirm(bufio.NewReader(rt.input()), rt.ErrOut)
	if c.yes {
		confirm = controller.ConfirmFunc(func(string) bool { return true })
	}

	p := rt.presenter(true)
	ctl := rt.controller(p, confirm, query.DefaultState())
	defer ctl.Close()

	deleted, err := ctl.Delete(ctx, id)
	if err != nil {
		return rt.failed(err)
	}
	if !deleted {
		if !rt.quiet() {
			fmt.Fprintln(rt.Out, "cancelled")
		}
		return exitcode.Success
	}
	return rt.done(p)
}

// promptConfirm asks on w and reads the answer from r. Only "y" or "yes"
// confirms; EOF declines.
func promptConfirm(r *bufio.Reader, w io.Writer) controller.ConfirmFunc {
	return func(prompt string) bool {
		fmt.Fprintf(w, "%s [y/N] ", prompt)
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
}
