package commands

import (
	"context"
	"flag"
)

func init() {
	Register(&FavCmd{})
}

// FavCmd implements the fav command. The list for --filter is loaded
// first; toggling in the favorites view drops the task from that list
// without another fetch. If that load failed the list is fetched again.
type FavCmd struct {
	filter string
}

func (c *FavCmd) Name() string      { return "fav" }
func (c *FavCmd) Aliases() []string { return []string{"favorite"} }
func (c *FavCmd) Synopsis() string  { return "Toggle a task's favorite flag" }
func (c *FavCmd) Usage() string     { return "taskctl fav [--filter <name>] <id>" }
func (c *FavCmd) NeedsAuth() bool   { return true }

func (c *FavCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "", "")
	fs.StringVar(&c.filter, "f", "", "")
}

func (c *FavCmd) Run(ctx context.Context, rt *Runtime, args []string) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return rt.userError("%v", err)
	}
	st, err := parseState(c.filter, "", "")
	if err != nil {
		return rt.userError("%v", err)
	}

	p := rt.presenter(true)
	ctl := rt.controller(p, nil, st)
	defer ctl.Close()

	// A failed page load leaves an empty cache; the toggle still goes out.
	_ = ctl.Start(ctx)

	if err := ctl.ToggleFavorite(ctx, id); err != nil {
		return rt.failed(err)
	}
	return rt.done(p)
}
