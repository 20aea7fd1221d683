package commands

import (
	"context"
	"flag"
	"strings"

	"taskctl/internal/controller"
	"taskctl/internal/query"
	"taskctl/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
	status      string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskctl add [--desc <text>] [--status <status>] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "desc", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.StringVar(&c.status, "status", string(service.StatusTodo), "")
}

func (c *AddCmd) Run(ctx context.Context, rt *Runtime, args []string) int {
	// Join args to form title
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		return rt.userError("title required")
	}

	status, err := service.ParseStatus(c.status)
	if err != nil {
		return rt.userError("%v", err)
	}

	form := controller.NewForm()
	form.Title = title
	form.Description = c.description
	form.Status = status

	return submit(ctx, rt, form)
}

// submit saves a form and prints the reloaded list.
func submit(ctx context.Context, rt *Runtime, form controller.Form) int {
	p := rt.presenter(true)
	ctl := rt.controller(p, nil, query.DefaultState())
	defer ctl.Close()

	if err := ctl.Submit(ctx, form); err != nil {
		return rt.failed(err)
	}
	return rt.done(p)
}
