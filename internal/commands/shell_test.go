package commands_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskctl/internal/commands"
	"taskctl/internal/controller"
	"taskctl/internal/exitcode"
	"taskctl/internal/service"
)

func TestShellCommand_StateCarriesAcrossCommands(t *testing.T) {
	h := newHarness(t)
	h.svc.AddTask("Alpha", service.StatusTodo, false)
	h.svc.AddTask("Beta", service.StatusDone, false)

	input := strings.Join([]string{
		"filter completed",
		"search  be ",
		"sort title_asc",
		"state",
		"quit",
	}, "\n") + "\n"

	code := h.run(t, &commands.ShellCmd{}, input)

	require.Equal(t, exitcode.Success, code)
	require.Len(t, h.svc.ListCalls, 4)
	assert.Equal(t, service.ListParams{Ordering: "-created_at"}, h.svc.ListCalls[0])
	assert.Equal(t, service.ListParams{Status: "done", Ordering: "-created_at"}, h.svc.ListCalls[1])
	assert.Equal(t, service.ListParams{Search: "be", Status: "done", Ordering: "-created_at"}, h.svc.ListCalls[2])
	assert.Equal(t, service.ListParams{Search: "be", Status: "done", Ordering: "title"}, h.svc.ListCalls[3])
	assert.Contains(t, h.stdout.String(), "filter: completed\nsearch: \"be\"\nsort:   title_asc\n")
}

func TestShellCommand_EndOfInput(t *testing.T) {
	h := newHarness(t)

	code := h.run(t, &commands.ShellCmd{}, "")

	assert.Equal(t, exitcode.Success, code)
	assert.Contains(t, h.stdout.String(), "No tasks found.")
	assert.Contains(t, h.stderr.String(), "taskctl> ")
}

func TestShellCommand_BadInputKeepsRunning(t *testing.T) {
	h := newHarness(t)

	code := h.run(t, &commands.ShellCmd{}, "frobnicate\nfilter\nsort sideways\nview\nhelp\n")

	assert.Equal(t, exitcode.Success, code)
	errOut := h.stderr.String()
	assert.Contains(t, errOut, "error: unknown command: frobnicate")
	assert.Contains(t, errOut, "usage: filter")
	assert.Contains(t, errOut, "error: invalid sort: sideways")
	assert.Contains(t, errOut, "error: task id required")
	assert.Contains(t, h.stdout.String(), "Commands:")
	assert.Len(t, h.svc.ListCalls, 1)
}

func TestShellCommand_NewTask(t *testing.T) {
	h := newHarness(t)

	// Title, description, then an empty status keeps "todo".
	code := h.run(t, &commands.ShellCmd{}, "new\nHello\nfirst task\n\nquit\n")

	require.Equal(t, exitcode.Success, code)
	assert.Equal(t, service.TaskInput{Title: "Hello", Description: "first task", Status: service.StatusTodo}, h.svc.LastCreated)
	assert.Contains(t, h.stdout.String(), "#1  Hello  [TO DO]")
	assert.Contains(t, h.stderr.String(), "Status (todo, inprogress, done) [todo]: ")
}

func TestShellCommand_NewTaskRetriesAfterBlankTitle(t *testing.T) {
	h := newHarness(t)

	// The blank title is rejected, then the user keeps editing.
	input := strings.Join([]string{
		"new",
		"", "", "",
		"y",
		"Fixed", "", "done",
		"quit",
	}, "\n") + "\n"

	code := h.run(t, &commands.ShellCmd{}, input)

	require.Equal(t, exitcode.Success, code)
	assert.Contains(t, h.stderr.String(), "error: "+controller.AlertSave)
	assert.Equal(t, 1, h.svc.CreateCalls)
	assert.Equal(t, service.TaskInput{Title: "Fixed", Status: service.StatusDone}, h.svc.LastCreated)
}

func TestShellCommand_EditInvalidStatusReprompts(t *testing.T) {
	h := newHarness(t)
	id := h.svc.AddTask("Report", service.StatusTodo, false)

	input := "edit " + id.String() + "\n\n-\nlater\ninprogress\nquit\n"
	code := h.run(t, &commands.ShellCmd{}, input)

	require.Equal(t, exitcode.Success, code)
	assert.Contains(t, h.stderr.String(), "Title [Report]: ")
	assert.Contains(t, h.stderr.String(), "error: invalid status: later")
	task, _ := h.svc.Task(id)
	assert.Equal(t, "Report", task.Title)
	assert.Equal(t, service.StatusInProgress, task.Status)
	assert.Equal(t, 1, h.svc.UpdateCalls)
}

func TestShellCommand_DeleteAndFavorite(t *testing.T) {
	h := newHarness(t)
	keep := h.svc.AddTask("Keep", service.StatusTodo, true)
	drop := h.svc.AddTask("Drop", service.StatusTodo, true)

	input := strings.Join([]string{
		"filter favorites",
		"delete " + drop.String(),
		"n",
		"fav " + keep.String(),
		"delete " + drop.String(),
		"y",
		"quit",
	}, "\n") + "\n"

	code := h.run(t, &commands.ShellCmd{}, input)

	require.Equal(t, exitcode.Success, code)
	assert.Equal(t, 1, h.svc.DeleteCalls)
	assert.Equal(t, 1, h.svc.ToggleCalls)
	assert.Equal(t, 1, h.svc.Len())

	// Initial load, favorites filter, reload after the delete. The toggle in
	// the favorites view does not fetch.
	assert.Len(t, h.svc.ListCalls, 3)

	task, _ := h.svc.Task(keep)
	assert.False(t, task.IsFavorite)
}

func TestShellCommand_InvalidFlags(t *testing.T) {
	h := newHarness(t)

	code := h.run(t, &commands.ShellCmd{}, "", "--filter", "nope")

	assert.Equal(t, exitcode.UserError, code)
	assert.Empty(t, h.svc.ListCalls)
}
