// Package controller drives the task list: it owns the view state and the
// transient task cache, talks to the service, and hands view models to a
// Presenter.
package controller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"taskctl/internal/query"
	"taskctl/internal/service"
	"taskctl/internal/view"
)

// Alert messages shown when an action fails.
const (
	AlertSave     = "Error saving task."
	AlertLoad     = "Could not load task."
	AlertView     = "Could not load task details."
	AlertDelete   = "Delete failed."
	AlertFavorite = "Could not update favorite."

	DeletePrompt = "Are you sure you want to permanently delete this task?"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("controller closed")

// ErrTitleRequired is returned by Submit for a blank title.
var ErrTitleRequired = errors.New("title required")

// Presenter displays view models.
type Presenter interface {
	// ShowList replaces the displayed list.
	ShowList(v view.ListView)

	// ShowDetail displays a single task read-only.
	ShowDetail(d view.DetailView)

	// Alert reports a failed action to the user.
	Alert(message string)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Form is the shared create/edit form. An empty ID means create.
type Form struct {
	ID          service.TaskID
	Title       string
	Description string
	Status      service.Status
}

// NewForm returns a blank create form.
func NewForm() Form {
	return Form{Status: service.StatusTodo}
}

// Input returns the payload for the form.
func (f Form) Input() service.TaskInput {
	st := f.Status
	if st == "" {
		st = service.StatusTodo
	}
	return service.TaskInput{Title: f.Title, Description: f.Description, Status: st}
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for failure details.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithState sets the initial view state.
func WithState(st query.State) Option {
	return func(c *Controller) { c.state = st }
}

// Controller is one task list session. It is not safe for concurrent use;
// operations are expected to run one after another.
type Controller struct {
	svc       service.Service
	presenter Presenter
	confirm   Confirmer
	logger    *slog.Logger

	state  query.State
	cache  []service.Task
	stale  bool // last fetch failed
	closed bool
}

// New creates a controller in the default state.
func New(svc service.Service, p Presenter, confirm Confirmer, opts ...Option) *Controller {
	c := &Controller{
		svc:       svc,
		presenter: p,
		confirm:   confirm,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:     query.DefaultState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start performs the initial list load.
func (c *Controller) Start(ctx context.Context) error {
	return c.Refresh(ctx)
}

// Close tears the session down and drops the cache.
func (c *Controller) Close() {
	c.closed = true
	c.cache = nil
}

// State returns the current view state.
func (c *Controller) State() query.State { return c.state }

// Tasks returns a copy of the cached list.
func (c *Controller) Tasks() []service.Task {
	out := make([]service.Task, len(c.cache))
	copy(out, c.cache)
	return out
}

// SetFilter changes the active filter and reloads the list.
func (c *Controller) SetFilter(ctx context.Context, f query.Filter) error {
	if c.closed {
		return ErrClosed
	}
	c.state.Filter = f
	return c.Refresh(ctx)
}

// SetQuery changes the search text and reloads the list.
func (c *Controller) SetQuery(ctx context.Context, q string) error {
	if c.closed {
		return ErrClosed
	}
	c.state.Query = strings.TrimSpace(q)
	return c.Refresh(ctx)
}

// SetSort changes the ordering and reloads the list.
func (c *Controller) SetSort(ctx context.Context, s query.Sort) error {
	if c.closed {
		return ErrClosed
	}
	c.state.Sort = s
	return c.Refresh(ctx)
}

// Refresh fetches the list for the current state and replaces the display.
// On failure an error notice replaces the list and the cache is kept.
func (c *Controller) Refresh(ctx context.Context) error {
	if c.closed {
		return ErrClosed
	}

	params := query.Build(c.state)
	tasks, err := c.svc.ListTasks(ctx, params)
	if err != nil {
		c.logger.Info("fetch tasks failed", "query", params.Encode(), "error", err)
		c.stale = true
		c.presenter.ShowList(view.ErrorView())
		return err
	}

	c.stale = false
	c.cache = query.Refine(c.state.Filter, tasks)
	c.logger.Debug("tasks loaded", "query", params.Encode(), "count", len(c.cache))
	c.render()
	return nil
}

func (c *Controller) render() {
	c.presenter.ShowList(view.Render(view.NewSnapshot(c.cache, c.state)))
}

// Edit loads a task into a form for editing.
func (c *Controller) Edit(ctx context.Context, id service.TaskID) (Form, error) {
	if c.closed {
		return Form{}, ErrClosed
	}
	t, err := c.svc.GetTask(ctx, id)
	if err != nil {
		c.fail(AlertLoad, "load task failed", id, err)
		return Form{}, err
	}
	return Form{ID: t.ID, Title: t.Title, Description: t.Description, Status: t.Status}, nil
}

// Submit saves the form: create without an ID, update with one.
// On success the list is reloaded; on failure the form stays with the caller.
func (c *Controller) Submit(ctx context.Context, f Form) error {
	if c.closed {
		return ErrClosed
	}
	if strings.TrimSpace(f.Title) == "" {
		c.presenter.Alert(AlertSave)
		return ErrTitleRequired
	}

	var err error
	if f.ID == "" {
		_, err = c.svc.CreateTask(ctx, f.Input())
	} else {
		_, err = c.svc.UpdateTask(ctx, f.ID, f.Input())
	}
	if err != nil {
		c.fail(AlertSave, "save task failed", f.ID, err)
		return err
	}

	// A failed reload is already shown as the error notice.
	_ = c.Refresh(ctx)
	return nil
}

// View loads a task and presents it read-only.
func (c *Controller) View(ctx context.Context, id service.TaskID) error {
	if c.closed {
		return ErrClosed
	}
	t, err := c.svc.GetTask(ctx, id)
	if err != nil {
		c.fail(AlertView, "view task failed", id, err)
		return err
	}
	c.presenter.ShowDetail(view.Detail(t))
	return nil
}

// Delete removes a task after confirmation. It reports whether the task
// was deleted; a declined confirmation issues no request.
func (c *Controller) Delete(ctx context.Context, id service.TaskID) (bool, error) {
	if c.closed {
		return false, ErrClosed
	}
	if c.confirm == nil || !c.confirm.Confirm(DeletePrompt) {
		return false, nil
	}

	if err := c.svc.DeleteTask(ctx, id); err != nil {
		c.fail(AlertDelete, "delete task failed", id, err)
		return false, err
	}

	_ = c.Refresh(ctx)
	return true, nil
}

// ToggleFavorite flips the favorite flag of a task. In the favorites view
// the task is dropped from the cache and the list is re-rendered without a
// fetch; the server state is not re-read. After a failed fetch the list is
// reloaded instead.
func (c *Controller) ToggleFavorite(ctx context.Context, id service.TaskID) error {
	if c.closed {
		return ErrClosed
	}
	if _, err := c.svc.ToggleFavorite(ctx, id); err != nil {
		c.fail(AlertFavorite, "toggle favorite failed", id, err)
		return err
	}

	if c.state.Filter == query.FilterFavorites && !c.stale {
		kept := c.cache[:0:0]
		for _, t := range c.cache {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		c.cache = kept
		c.render()
		return nil
	}

	_ = c.Refresh(ctx)
	return nil
}

func (c *Controller) fail(alert, msg string, id service.TaskID, err error) {
	c.logger.Info(msg, "id", id.String(), "error", err)
	c.presenter.Alert(alert)
}
