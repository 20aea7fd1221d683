package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskctl/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskctl help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, rt *Runtime, args []string) int {
	WriteHelp(rt.Out, DefaultRegistry)
	return exitcode.Success
}

// WriteHelp prints usage for every command in r.
func WriteHelp(w io.Writer, r *Registry) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskctl                    List tasks, newest first")
	for _, cmd := range r.All() {
		fmt.Fprintf(w, "  %s\n", cmd.Usage())
		line := cmd.Synopsis()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			line += " (alias: " + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintf(w, "      %s\n", line)
	}
	fmt.Fprint(w, helpFooter)
}

const helpFooter = `
Filters:  all, pending, completed, favorites
Sorts:    newest, oldest, title_asc, title_desc
Statuses: todo, inprogress, done

Common flags:
  --config <dir>   Override config directory
  --url <url>      Task server URL (default: $TASKCTL_URL or http://localhost:8000)
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
  --no-color       Disable colored output

Environment:
  TASKCTL_URL, TASKCTL_TOKEN, TASKCTL_TIMEOUT, TASKCTL_LOG_LEVEL
  Also read from .env and <config dir>/config.env.
`
