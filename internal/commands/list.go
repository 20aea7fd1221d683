package commands

import (
	"context"
	"flag"

	"taskctl/internal/exitcode"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskctl` (no args) and `taskctl list [flags]`.
type ListCmd struct {
	filter string
	search string
	sort   string
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "taskctl list [--filter <name>] [--search <text>] [--sort <key>]"
}
func (c *ListCmd) NeedsAuth() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "", "")
	fs.StringVar(&c.filter, "f", "", "")
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.search, "s", "", "")
	fs.StringVar(&c.sort, "sort", "", "")
}

func (c *ListCmd) Run(ctx context.Context, rt *Runtime, args []string) int {
	if len(args) > 0 {
		return rt.userError("unexpected argument: %s", args[0])
	}

	st, err := parseState(c.filter, c.search, c.sort)
	if err != nil {
		return rt.userError("%v", err)
	}

	p := rt.presenter(true)
	ctl := rt.controller(p, nil, st)
	defer ctl.Close()

	err = ctl.Start(ctx)
	p.Flush()
	if err != nil {
		return rt.failed(err)
	}
	return exitcode.Success
}
