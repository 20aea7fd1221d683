package commands

import (
	"context"
	"flag"

	"taskctl/internal/exitcode"
	"taskctl/internal/query"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd implements the show command.
type ShowCmd struct{}

func (c *ShowCmd) Name() string      { return "show" }
func (c *ShowCmd) Aliases() []string { return []string{"view"} }
func (c *ShowCmd) Synopsis() string  { return "Show one task" }
func (c *ShowCmd) Usage() string     { return "taskctl show <id>" }
func (c *ShowCmd) NeedsAuth() bool   { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, rt *Runtime, args []string) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return rt.userError("%v", err)
	}

	ctl := rt.controller(rt.presenter(false), nil, query.DefaultState())
	defer ctl.Close()

	if err := ctl.View(ctx, id); err != nil {
		return rt.failed(err)
	}
	return exitcode.Success
}
