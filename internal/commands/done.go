package commands

import (
	"context"
	"flag"

	"taskctl/internal/query"
	"taskctl/internal/service"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct {
	undo bool
}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "taskctl done [--undo] <id>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.undo, "undo", false, "")
}

func (c *DoneCmd) Run(ctx context.Context, rt *Runtime, args []string) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return rt.userError("%v", err)
	}

	ctl := rt.controller(rt.presenter(true), nil, query.DefaultState())
	form, err := ctl.Edit(ctx, id)
	ctl.Close()
	if err != nil {
		return rt.failed(err)
	}

	want := service.StatusDone
	if c.undo {
		want = service.StatusTodo
	}
	if form.Status == want {
		return rt.ok()
	}
	form.Status = want
	return submit(ctx, rt, form)
}
