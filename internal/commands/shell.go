package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"taskctl/internal/controller"
	"taskctl/internal/exitcode"
	"taskctl/internal/query"
	"taskctl/internal/service"
)

func init() {
	Register(&ShellCmd{})
}

// ShellCmd implements the interactive shell: one task list session that
// keeps its filter, search and sort between commands.
type ShellCmd struct {
	filter string
	search string
	sort   string
}

func (c *ShellCmd) Name() string      { return "shell" }
func (c *ShellCmd) Aliases() []string { return []string{"sh"} }
func (c *ShellCmd) Synopsis() string  { return "Interactive task list" }
func (c *ShellCmd) Usage() string {
	return "taskctl shell [--filter <name>] [--search <text>] [--sort <key>]"
}
func (c *ShellCmd) NeedsAuth() bool { return true }

func (c *ShellCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "", "")
	fs.StringVar(&c.filter, "f", "", "")
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.search, "s", "", "")
	fs.StringVar(&c.sort, "sort", "", "")
}

func (c *ShellCmd) Run(ctx context.Context, rt *Runtime, args []string) int {
	if len(args) > 0 {
		return rt.userError("unexpected argument: %s", args[0])
	}
	st, err := parseState(c.filter, c.search, c.sort)
	if err != nil {
		return rt.userError("%v", err)
	}

	sh := &shell{rt: rt, in: bufio.NewReader(rt.input())}
	sh.ctl = rt.controller(rt.presenter(false), promptConfirm(sh.in, rt.ErrOut), st)
	defer sh.ctl.Close()

	sh.report(sh.ctl.Start(ctx))

	for {
		if ctx.Err() != nil {
			return exitcode.Success
		}
		line, ok := sh.readLine("taskctl> ")
		if !ok {
			return exitcode.Success
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if !sh.exec(ctx, fields[0], fields[1:]) {
			return exitcode.Success
		}
	}
}

type shell struct {
	rt  *Runtime
	in  *bufio.Reader
	ctl *controller.Controller
}

// readLine prompts on the error stream and reads one line.
// It reports false at end of input.
func (sh *shell) readLine(prompt string) (string, bool) {
	fmt.Fprint(sh.rt.ErrOut, prompt)
	line, err := sh.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(sh.rt.ErrOut)
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

// report surfaces errors the presenter has not already shown.
func (sh *shell) report(err error) {
	if err == nil {
		return
	}
	_ = sh.rt.failed(err)
}

// exec runs one shell command. It returns false to leave the shell.
func (sh *shell) exec(ctx context.Context, name string, args []string) bool {
	switch name {
	case "quit", "exit":
		return false

	case "help", "?":
		fmt.Fprint(sh.rt.Out, shellHelp)

	case "list", "ls", "reload":
		sh.report(sh.ctl.Refresh(ctx))

	case "state":
		st := sh.ctl.State()
		fmt.Fprintf(sh.rt.Out, "filter: %s\nsearch: %q\nsort:   %s\n", st.Filter, st.Query, st.Sort)

	case "filter":
		if len(args) != 1 {
			fmt.Fprintln(sh.rt.ErrOut, "usage: filter <all|pending|completed|favorites>")
			break
		}
		f, err := query.ParseFilter(args[0])
		if err != nil {
			fmt.Fprintf(sh.rt.ErrOut, "error: %v\n", err)
			break
		}
		sh.report(sh.ctl.SetFilter(ctx, f))

	case "search":
		sh.report(sh.ctl.SetQuery(ctx, strings.Join(args, " ")))

	case "sort":
		if len(args) != 1 {
			fmt.Fprintln(sh.rt.ErrOut, "usage: sort <newest|oldest|title_asc|title_desc>")
			break
		}
		s, err := query.ParseSort(args[0])
		if err != nil {
			fmt.Fprintf(sh.rt.ErrOut, "error: %v\n", err)
			break
		}
		sh.report(sh.ctl.SetSort(ctx, s))

	case "view", "show":
		if id, ok := sh.taskID(args); ok {
			sh.report(sh.ctl.View(ctx, id))
		}

	case "new", "add":
		form := controller.NewForm()
		form.Title = strings.Join(args, " ")
		sh.runForm(ctx, form)

	case "edit":
		id, ok := sh.taskID(args)
		if !ok {
			break
		}
		form, err := sh.ctl.Edit(ctx, id)
		if err != nil {
			sh.report(err)
			break
		}
		sh.runForm(ctx, form)

	case "delete", "rm":
		if id, ok := sh.taskID(args); ok {
			_, err := sh.ctl.Delete(ctx, id)
			sh.report(err)
		}

	case "fav":
		if id, ok := sh.taskID(args); ok {
			sh.report(sh.ctl.ToggleFavorite(ctx, id))
		}

	default:
		fmt.Fprintf(sh.rt.ErrOut, "error: unknown command: %s (try: help)\n", name)
	}
	return true
}

func (sh *shell) taskID(args []string) (service.TaskID, bool) {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(sh.rt.ErrOut, "error: %v\n", err)
		return "", false
	}
	return id, true
}

// runForm fills in and submits a form. After a failed save the form stays
// open with the entered values until the user gives up.
func (sh *shell) runForm(ctx context.Context, form controller.Form) {
	confirm := promptConfirm(sh.in, sh.rt.ErrOut)
	for {
		if !sh.fill(&form) {
			return
		}
		err := sh.ctl.Submit(ctx, form)
		if err == nil {
			return
		}
		if !errors.Is(err, controller.ErrTitleRequired) {
			sh.report(err)
		}
		if !confirm("Keep editing?") {
			return
		}
	}
}

// fill prompts for each form field. An empty answer keeps the shown value
// and "-" clears the description. It reports false at end of input.
func (sh *shell) fill(form *controller.Form) bool {
	title, ok := sh.ask("Title", form.Title)
	if !ok {
		return false
	}
	desc, ok := sh.ask("Description", form.Description)
	if !ok {
		return false
	}
	if desc == "-" {
		desc = ""
	}

	for {
		answer, ok := sh.ask("Status (todo, inprogress, done)", string(form.Status))
		if !ok {
			return false
		}
		st, err := service.ParseStatus(answer)
		if err != nil {
			fmt.Fprintf(sh.rt.ErrOut, "error: %v\n", err)
			continue
		}
		form.Status = st
		break
	}

	form.Title = title
	form.Description = desc
	return true
}

func (sh *shell) ask(label, current string) (string, bool) {
	prompt := label + ": "
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]: ", label, current)
	}
	answer, ok := sh.readLine(prompt)
	if !ok {
		return "", false
	}
	if strings.TrimSpace(answer) == "" {
		return current, true
	}
	return answer, true
}

const shellHelp = `Commands:
  list                 Reload the list
  filter <name>        all, pending, completed or favorites
  search [text]        Search titles; no text clears the search
  sort <key>           newest, oldest, title_asc or title_desc
  state                Show the current filter, search and sort
  view <id>            Show one task
  new [title]          Create a task
  edit <id>            Change a task
  delete <id>          Delete a task
  fav <id>             Toggle a task's favorite flag
  help                 Show this help
  quit                 Leave the shell
`
