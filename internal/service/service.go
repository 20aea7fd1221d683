// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All REST calls go through this interface.
// Commands and the controller never import the HTTP client directly.
type Service interface {
	// ListTasks fetches the task collection with the given query parameters.
	// Results are in server order (no client-side sorting).
	ListTasks(ctx context.Context, params ListParams) ([]Task, error)

	// GetTask fetches a single task.
	GetTask(ctx context.Context, id TaskID) (Task, error)

	// CreateTask creates a task and returns the stored record.
	CreateTask(ctx context.Context, in TaskInput) (Task, error)

	// UpdateTask replaces the editable fields of a task.
	UpdateTask(ctx context.Context, id TaskID, in TaskInput) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id TaskID) error

	// ToggleFavorite flips the favorite flag of a task.
	ToggleFavorite(ctx context.Context, id TaskID) (FavoriteState, error)
}

// Authenticator manages the client session with the server.
type Authenticator interface {
	// Login exchanges credentials for a session and persists it.
	Login(ctx context.Context, identifier, password string) error

	// Logout ends the session and removes the stored credentials.
	Logout(ctx context.Context) error
}
