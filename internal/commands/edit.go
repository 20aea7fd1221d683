package commands

import (
	"context"
	"flag"

	"taskctl/internal/query"
	"taskctl/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Fields without a flag keep their
// current values.
type EditCmd struct {
	title       optString
	description optString
	status      optString
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Change a task" }
func (c *EditCmd) Usage() string {
	return "taskctl edit [--title <text>] [--desc <text>] [--status <status>] <id>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title, c.description, c.status = optString{}, optString{}, optString{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.description, "desc", "")
	fs.Var(&c.description, "d", "")
	fs.Var(&c.status, "status", "")
}

func (c *EditCmd) Run(ctx context.Context, rt *Runtime, args []string) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return rt.userError("%v", err)
	}
	if !c.title.set && !c.description.set && !c.status.set {
		return rt.userError("nothing to change (use --title, --desc or --status)")
	}

	var status service.Status
	if c.status.set {
		if status, err = service.ParseStatus(c.status.value); err != nil {
			return rt.userError("%v", err)
		}
	}

	ctl := rt.controller(rt.presenter(true), nil, query.DefaultState())
	form, err := ctl.Edit(ctx, id)
	ctl.Close()
	if err != nil {
		return rt.failed(err)
	}

	if c.title.set {
		form.Title = c.title.value
	}
	if c.description.set {
		form.Description = c.description.value
	}
	if c.status.set {
		form.Status = status
	}
	return submit(ctx, rt, form)
}
