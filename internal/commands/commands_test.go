package commands_test

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskctl/internal/commands"
	"taskctl/internal/config"
	"taskctl/internal/controller"
	"taskctl/internal/exitcode"
	"taskctl/internal/logging"
	"taskctl/internal/service"
	"taskctl/internal/testutil"
	"taskctl/internal/view"
)

// harness runs commands against a FakeService with captured output.
type harness struct {
	svc    *testutil.FakeService
	auth   *testutil.FakeAuthenticator
	cfg    *config.Config
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{
		svc:  testutil.NewFakeService(),
		auth: &testutil.FakeAuthenticator{},
		cfg: &config.Config{
			Dir:     t.TempDir(),
			NoColor: true,
		},
	}
}

// run parses argv with the command's flags and runs it with stdin in.
func (h *harness) run(t *testing.T, cmd commands.Command, in string, argv ...string) int {
	t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	require.NoError(t, fs.Parse(argv))

	rt := &commands.Runtime{
		Config: h.cfg,
		Authenticator: func(ctx context.Context) (service.Authenticator, error) {
			return h.auth, nil
		},
		Logger: logging.Discard(),
		In:     strings.NewReader(in),
		Out:    &h.stdout,
		ErrOut: &h.stderr,
	}
	if cmd.NeedsAuth() {
		rt.Service = h.svc
	}
	return cmd.Run(context.Background(), rt, fs.Args())
}

func TestVersionCommand(t *testing.T) {
	h := newHarness(t)

	code := h.run(t, &commands.VersionCmd{}, "")

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, h.stderr.String())
	assert.Equal(t, "taskctl 0.1.0\n", h.stdout.String())
}

func TestHelpCommand(t *testing.T) {
	h := newHarness(t)

	code := h.run(t, &commands.HelpCmd{}, "")

	assert.Equal(t, exitcode.Success, code)
	assert.Contains(t, h.stdout.String(), "Usage:")
	assert.Contains(t, h.stdout.String(), "--filter")
}

func TestListCommand_DefaultNewestFirst(t *testing.T) {
	h := newHarness(t)
	h.svc.AddTask("Alpha", service.StatusTodo, false)
	h.svc.AddTask("Beta", service.StatusDone, true)

	code := h.run(t, &commands.ListCmd{}, "")

	require.Equal(t, exitcode.Success, code)
	out := h.stdout.String()
	assert.Contains(t, out, "#2  ★ Beta  [DONE]")
	assert.Contains(t, out, "#1  Alpha  [TO DO]")
	assert.Less(t, strings.Index(out, "Beta"), strings.Index(out, "Alpha"))
	require.Len(t, h.svc.ListCalls, 1)
	assert.Equal(t, service.ListParams{Ordering: "-created_at"}, h.svc.ListCalls[0])
}

func TestListCommand_Flags(t *testing.T) {
	h := newHarness(t)
	h.svc.AddTask("Beta", service.StatusTodo, true)
	h.svc.AddTask("Bear", service.StatusTodo, true)
	h.svc.AddTask("Best", service.StatusTodo, false)

	code := h.run(t, &commands.ListCmd{}, "", "--filter", "favorites", "--search", "be", "--sort", "title_desc")

	require.Equal(t, exitcode.Success, code)
	require.Len(t, h.svc.ListCalls, 1)
	assert.Equal(t, service.ListParams{Search: "be", Favorite: "1", Ordering: "-title"}, h.svc.ListCalls[0])

	out := h.stdout.String()
	assert.NotContains(t, out, "Best")
	assert.Less(t, strings.Index(out, "Beta"), strings.Index(out, "Bear"))
}

func TestListCommand_PendingDropsDone(t *testing.T) {
	h := newHarness(t)
	h.svc.IgnorePendingStatus = true
	h.svc.AddTask("Open", service.StatusInProgress, false)
	h.svc.AddTask("Closed", service.StatusDone, false)

	code := h.run(t, &commands.ListCmd{}, "", "-f", "pending")

	require.Equal(t, exitcode.Success, code)
	assert.Contains(t, h.stdout.String(), "Open")
	assert.NotContains(t, h.stdout.String(), "Closed")
}

func TestListCommand_Empty(t *testing.T) {
	h := newHarness(t)

	code := h.run(t, &commands.ListCmd{}, "", "--filter", "completed", "--search", "tax")

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "No completed tasks found matching \"tax\".\n", h.stdout.String())
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	h := newHarness(t)
	h.cfg.Quiet = true

	code := h.run(t, &commands.ListCmd{}, "")

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, h.stdout.String())
}

func TestListCommand_InvalidFlags(t *testing.T) {
	h := newHarness(t)

	code := h.run(t, &commands.ListCmd{}, "", "--filter", "archived")
	assert.Equal(t, exitcode.UserError, code)
	assert.True(t, strings.HasPrefix(h.stderr.String(), "error: invalid filter: archived"))

	code = h.run(t, &commands.ListCmd{}, "", "--sort", "priority")
	assert.Equal(t, exitcode.UserError, code)
	assert.True(t, strings.HasPrefix(h.stderr.String(), "error: invalid sort: priority"))

	code = h.run(t, &commands.ListCmd{}, "", "extra")
	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: unexpected argument: extra\n", h.stderr.String())
	assert.Empty(t, h.svc.ListCalls)
}

func TestListCommand_BackendError(t *testing.T) {
	h := newHarness(t)
	h.svc.ListTasksErr = errors.New("connection refused")

	code := h.run(t, &commands.ListCmd{}, "")

	assert.Equal(t, exitcode.BackendError, code)
	assert.Equal(t, "! "+view.LoadErrorMessage+"\n", h.stdout.String())
}

func TestListCommand_Unauthorized(t *testing.T) {
	h := newHarness(t)
	h.svc.ListTasksErr = service.ErrUnauthorized

	code := h.run(t, &commands.ListCmd{}, "")

	assert.Equal(t, exitcode.AuthError, code)
	assert.Contains(t, h.stderr.String(), "run: taskctl login")
}

func TestShowCommand(t *testing.T) {
	h := newHarness(t)
	id := h.svc.AddTask("Write report", service.StatusInProgress, false)

	code := h.run(t, &commands.ShowCmd{}, "", "#"+id.String())

	require.Equal(t, exitcode.Success, code)
	assert.Contains(t, h.stdout.String(), "Task: Write report\n")
	assert.Contains(t, h.stdout.String(), "[IN PROGRESS]")
	assert.Empty(t, h.svc.ListCalls, "show does not load the list")
}

func TestShowCommand_Errors(t *testing.T) {
	h := newHarness(t)

	code := h.run(t, &commands.ShowCmd{}, "")
	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: task id required\n", h.stderr.String())

	code = h.run(t, &commands.ShowCmd{}, "", "99")
	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: "+controller.AlertView+"\n", h.stderr.String())
}

func TestAddCommand(t *testing.T) {
	h := newHarness(t)

	code := h.run(t, &commands.AddCmd{}, "", "--desc", "2 liters", "Buy", "milk")

	require.Equal(t, exitcode.Success, code)
	assert.Equal(t, service.TaskInput{Title: "Buy milk", Description: "2 liters", Status: service.StatusTodo}, h.svc.LastCreated)
	assert.Contains(t, h.stdout.String(), "Buy milk")
	assert.Len(t, h.svc.ListCalls, 1, "the list is reloaded once")
}

func TestAddCommand_Status(t *testing.T) {
	h := newHarness(t)
	h.cfg.Quiet = true

	code := h.run(t, &commands.AddCmd{}, "", "--status", "InProgress", "Draft")

	require.Equal(t, exitcode.Success, code)
	assert.Equal(t, service.StatusInProgress, h.svc.LastCreated.Status)
	assert.Empty(t, h.stdout.String())
}

func TestAddCommand_Invalid(t *testing.T) {
	h := newHarness(t)

	code := h.run(t, &commands.AddCmd{}, "")
	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: title required\n", h.stderr.String())

	code = h.run(t, &commands.AddCmd{}, "", "--status", "later", "x")
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, h.stderr.String(), "invalid status: later")

	assert.Equal(t, 0, h.svc.CreateCalls)
}

func TestAddCommand_SaveFails(t *testing.T) {
	h := newHarness(t)
	h.svc.CreateTaskErr = errors.New("server returned 400")

	code := h.run(t, &commands.AddCmd{}, "", "x")

	assert.Equal(t, exitcode.BackendError, code)
	assert.Equal(t, "error: "+controller.AlertSave+"\n", h.stderr.String())
	assert.Empty(t, h.svc.ListCalls)
}

func TestEditCommand(t *testing.T) {
	h := newHarness(t)
	id := h.svc.AddTask("Report", service.StatusTodo, false)

	code := h.run(t, &commands.EditCmd{}, "", "--status", "done", id.String())

	require.Equal(t, exitcode.Success, code)
	task, _ := h.svc.Task(id)
	assert.Equal(t, service.StatusDone, task.Status)
	assert.Equal(t, "Report", task.Title)
	assert.Equal(t, id, h.svc.LastUpdatedID)
}

func TestEditCommand_ClearsDescription(t *testing.T) {
	h := newHarness(t)
	id := h.svc.AddTask("Report", service.StatusTodo, false)

	code := h.run(t, &commands.EditCmd{}, "", "--title", "Final report", "--desc", "", id.String())

	require.Equal(t, exitcode.Success, code)
	task, _ := h.svc.Task(id)
	assert.Equal(t, "Final report", task.Title)
	assert.Empty(t, task.Description)
}

func TestEditCommand_Errors(t *testing.T) {
	h := newHarness(t)
	id := h.svc.AddTask("Report", service.StatusTodo, false)

	code := h.run(t, &commands.EditCmd{}, "", id.String())
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, h.stderr.String(), "nothing to change")

	code = h.run(t, &commands.EditCmd{}, "", "--title", "x", "42")
	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: "+controller.AlertLoad+"\n", h.stderr.String())

	code = h.run(t, &commands.EditCmd{}, "", "--title", "  ", id.String())
	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: "+controller.AlertSave+"\n", h.stderr.String())
	assert.Equal(t, 0, h.svc.UpdateCalls)
}

func TestDoneCommand(t *testing.T) {
	h := newHarness(t)
	id := h.svc.AddTask("Report", service.StatusInProgress, false)

	code := h.run(t, &commands.DoneCmd{}, "", id.String())
	require.Equal(t, exitcode.Success, code)
	task, _ := h.svc.Task(id)
	assert.Equal(t, service.StatusDone, task.Status)

	code = h.run(t, &commands.DoneCmd{}, "", id.String())
	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "ok\n", h.stdout.String())
	assert.Equal(t, 1, h.svc.UpdateCalls, "already done")

	code = h.run(t, &commands.DoneCmd{}, "", "--undo", id.String())
	require.Equal(t, exitcode.Success, code)
	task, _ = h.svc.Task(id)
	assert.Equal(t, service.StatusTodo, task.Status)
}

func TestRmCommand_Yes(t *testing.T) {
	h := newHarness(t)
	h.svc.AddTask("Keep", service.StatusTodo, false)
	id := h.svc.AddTask("Drop", service.StatusTodo, false)

	code := h.run(t, &commands.RmCmd{}, "", "--yes", id.String())

	require.Equal(t, exitcode.Success, code)
	assert.Equal(t, 1, h.svc.Len())
	assert.Contains(t, h.stdout.String(), "Keep")
	assert.NotContains(t, h.stdout.String(), "Drop")
	assert.NotContains(t, h.stderr.String(), controller.DeletePrompt)
}

func TestRmCommand_Prompt(t *testing.T) {
	h := newHarness(t)
	id := h.svc.AddTask("Drop", service.StatusTodo, false)

	code := h.run(t, &commands.RmCmd{}, "n\n", id.String())
	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "cancelled\n", h.stdout.String())
	assert.Contains(t, h.stderr.String(), controller.DeletePrompt+" [y/N] ")
	assert.Equal(t, 0, h.svc.DeleteCalls)

	code = h.run(t, &commands.RmCmd{}, "", id.String())
	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, 0, h.svc.DeleteCalls, "end of input declines")

	code = h.run(t, &commands.RmCmd{}, "YES\n", id.String())
	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, 0, h.svc.Len())
}

func TestRmCommand_DeleteFails(t *testing.T) {
	h := newHarness(t)
	id := h.svc.AddTask("Drop", service.StatusTodo, false)
	h.svc.DeleteTaskErr = errors.New("server returned 500")

	code := h.run(t, &commands.RmCmd{}, "", "-y", id.String())

	assert.Equal(t, exitcode.BackendError, code)
	assert.Equal(t, "error: "+controller.AlertDelete+"\n", h.stderr.String())
	assert.Equal(t, 1, h.svc.Len())
}

func TestFavCommand_FavoritesViewSkipsRefetch(t *testing.T) {
	h := newHarness(t)
	h.svc.AddTask("Plain", service.StatusTodo, false)
	keep := h.svc.AddTask("Starred", service.StatusTodo, true)
	drop := h.svc.AddTask("Unstar me", service.StatusTodo, true)

	code := h.run(t, &commands.FavCmd{}, "", "--filter", "favorites", drop.String())

	require.Equal(t, exitcode.Success, code)
	assert.Len(t, h.svc.ListCalls, 1, "only the page load")
	task, _ := h.svc.Task(drop)
	assert.False(t, task.IsFavorite)

	out := h.stdout.String()
	assert.Contains(t, out, "#"+keep.String()+"  ★ Starred")
	assert.NotContains(t, out, "Unstar me")
	assert.NotContains(t, out, "Plain")
}

func TestFavCommand_FavoritesViewLoadFailure(t *testing.T) {
	h := newHarness(t)
	id := h.svc.AddTask("Starred", service.StatusTodo, true)
	h.svc.ListTasksErr = errors.New("connection refused")

	code := h.run(t, &commands.FavCmd{}, "", "--filter", "favorites", id.String())

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, 1, h.svc.ToggleCalls)
	assert.Len(t, h.svc.ListCalls, 2, "the list is fetched again after the toggle")
	assert.Equal(t, "! "+view.LoadErrorMessage+"\n", h.stdout.String())
}

func TestFavCommand_AllViewRefetches(t *testing.T) {
	h := newHarness(t)
	id := h.svc.AddTask("Plain", service.StatusTodo, false)

	code := h.run(t, &commands.FavCmd{}, "", id.String())

	require.Equal(t, exitcode.Success, code)
	assert.Len(t, h.svc.ListCalls, 2)
	assert.Contains(t, h.stdout.String(), "★ Plain")
}

func TestFavCommand_ToggleFails(t *testing.T) {
	h := newHarness(t)
	id := h.svc.AddTask("Plain", service.StatusTodo, false)
	h.svc.ToggleFavoriteErr = errors.New("server returned 500")

	code := h.run(t, &commands.FavCmd{}, "", id.String())

	assert.Equal(t, exitcode.BackendError, code)
	assert.Equal(t, "error: "+controller.AlertFavorite+"\n", h.stderr.String())
}

func TestRegistry_AliasesAndDuplicates(t *testing.T) {
	r := commands.NewRegistry()
	require.NoError(t, r.Register(&commands.RmCmd{}))

	cmd, ok := r.Find("delete")
	require.True(t, ok)
	assert.Equal(t, "rm", cmd.Name())

	err := r.Register(&commands.RmCmd{})
	assert.EqualError(t, err, "command name already registered: rm")
	assert.Len(t, r.All(), 1)
}

func TestWriteHelp_ListsEveryCommand(t *testing.T) {
	var buf bytes.Buffer
	commands.WriteHelp(&buf, commands.DefaultRegistry)

	for _, cmd := range commands.DefaultRegistry.All() {
		assert.Contains(t, buf.String(), cmd.Usage())
	}
	assert.Contains(t, buf.String(), "(alias: delete)")
}
