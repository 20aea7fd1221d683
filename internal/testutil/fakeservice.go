// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"taskctl/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// It filters and orders the collection the way the REST server does.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int
	now    time.Time

	// IgnorePendingStatus makes status=pending a no-op, like servers that
	// do not know the pending alias.
	IgnorePendingStatus bool

	// Call log
	ListCalls     []service.ListParams
	GetCalls      int
	CreateCalls   int
	UpdateCalls   int
	DeleteCalls   int
	ToggleCalls   int
	LastCreated   service.TaskInput
	LastUpdatedID service.TaskID

	// Error injection for testing
	ListTasksErr      error
	GetTaskErr        error
	CreateTaskErr     error
	UpdateTaskErr     error
	DeleteTaskErr     error
	ToggleFavoriteErr error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID: 1,
		now:    time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

// AddTask adds a task and returns its ID. Each added task is one minute
// newer than the previous one.
func (f *FakeService) AddTask(title string, status service.Status, favorite bool) service.TaskID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insert(service.TaskInput{Title: title, Status: status}, favorite)
}

func (f *FakeService) insert(in service.TaskInput, favorite bool) service.TaskID {
	id := service.TaskID(strconv.Itoa(f.nextID))
	f.nextID++
	f.now = f.now.Add(time.Minute)
	f.tasks = append(f.tasks, service.Task{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		IsFavorite:  favorite,
		CreatedAt:   f.now,
		UpdatedAt:   f.now,
	})
	return id
}

// Task returns a stored task by ID.
func (f *FakeService) Task(id service.TaskID) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	i := f.indexOf(id)
	if i < 0 {
		return service.Task{}, false
	}
	return f.tasks[i], true
}

// Len returns the number of stored tasks.
func (f *FakeService) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.tasks)
}

func (f *FakeService) indexOf(id service.TaskID) int {
	for i, t := range f.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, p service.ListParams) ([]service.Task, error) {
	f.mu.Lock()
	f.ListCalls = append(f.ListCalls, p)
	f.mu.Unlock()

	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []service.Task
	for _, t := range f.tasks {
		if p.Search != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(p.Search)) {
			continue
		}
		switch p.Status {
		case "todo", "inprogress", "done":
			if string(t.Status) != p.Status {
				continue
			}
		case "completed":
			if t.Status != service.StatusDone {
				continue
			}
		case "pending":
			if !f.IgnorePendingStatus && t.Status == service.StatusDone {
				continue
			}
		}
		if p.Favorite != "" {
			want := p.Favorite == "1" || p.Favorite == "true" || p.Favorite == "yes"
			if t.IsFavorite != want {
				continue
			}
		}
		out = append(out, t)
	}

	ordering := p.Ordering
	if ordering == "" {
		ordering = "-created_at"
	}
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")
	sort.SliceStable(out, func(i, j int) bool {
		var less bool
		switch field {
		case "title":
			less = out[i].Title < out[j].Title
			if desc {
				less = out[i].Title > out[j].Title
			}
		default:
			less = out[i].CreatedAt.Before(out[j].CreatedAt)
			if desc {
				less = out[i].CreatedAt.After(out[j].CreatedAt)
			}
		}
		return less
	})
	return out, nil
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, id service.TaskID) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GetCalls++
	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}
	i := f.indexOf(id)
	if i < 0 {
		return service.Task{}, service.ErrNotFound
	}
	return f.tasks[i], nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	f.LastCreated = in
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	id := f.insert(in, false)
	return f.tasks[f.indexOf(id)], nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id service.TaskID, in service.TaskInput) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	f.LastUpdatedID = id
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	i := f.indexOf(id)
	if i < 0 {
		return service.Task{}, service.ErrNotFound
	}
	f.tasks[i].Title = in.Title
	f.tasks[i].Description = in.Description
	f.tasks[i].Status = in.Status
	return f.tasks[i], nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id service.TaskID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	i := f.indexOf(id)
	if i < 0 {
		return service.ErrNotFound
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return nil
}

// ToggleFavorite implements service.Service.
func (f *FakeService) ToggleFavorite(ctx context.Context, id service.TaskID) (service.FavoriteState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ToggleCalls++
	if f.ToggleFavoriteErr != nil {
		return service.FavoriteState{}, f.ToggleFavoriteErr
	}
	i := f.indexOf(id)
	if i < 0 {
		return service.FavoriteState{}, service.ErrNotFound
	}
	f.tasks[i].IsFavorite = !f.tasks[i].IsFavorite
	return service.FavoriteState{ID: id, IsFavorite: f.tasks[i].IsFavorite}, nil
}

// FakeAuthenticator records login and logout calls.
type FakeAuthenticator struct {
	Identifier string
	Password   string
	LoggedIn   bool

	LoginErr  error
	LogoutErr error
}

// Login implements service.Authenticator.
func (a *FakeAuthenticator) Login(ctx context.Context, identifier, password string) error {
	if a.LoginErr != nil {
		return a.LoginErr
	}
	a.Identifier = identifier
	a.Password = password
	a.LoggedIn = true
	return nil
}

// Logout implements service.Authenticator.
func (a *FakeAuthenticator) Logout(ctx context.Context) error {
	if a.LogoutErr != nil {
		return a.LogoutErr
	}
	a.LoggedIn = false
	return nil
}
