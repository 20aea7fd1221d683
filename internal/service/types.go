// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Status is the workflow state of a task.
// Values outside the known set are carried through as-is.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "inprogress"
	StatusDone       Status = "done"
)

// Valid reports whether s is one of the statuses the server accepts on write.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ParseStatus parses a status name (case-insensitive, trimmed).
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("invalid status: %s (want todo, inprogress or done)", s)
	}
	return st, nil
}

// TaskID is the opaque identifier of a task.
// The server may send it as a JSON number or a JSON string.
type TaskID string

// UnmarshalJSON accepts both numeric and string identifiers.
func (id *TaskID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TaskID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid task id %s: %w", data, err)
	}
	*id = TaskID(n.String())
	return nil
}

// String returns the identifier as it appears in URLs.
func (id TaskID) String() string { return string(id) }

// Task represents a single task record as returned by the server.
type Task struct {
	ID            TaskID    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Status        Status    `json:"status"`
	IsFavorite    bool      `json:"is_favorite"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
	OwnerUsername string    `json:"owner_username,omitempty"`
}

// TaskInput is the payload sent on create and update.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      Status `json:"status"`
}

// FavoriteState is the response of the toggle-favorite action.
type FavoriteState struct {
	ID         TaskID `json:"id"`
	IsFavorite bool   `json:"is_favorite"`
}

// ListParams are the query parameters of a collection fetch.
type ListParams struct {
	Search   string // q
	Status   string // status
	Favorite string // favorite
	Ordering string // ordering
}

// Encode renders the parameters as a query string in the fixed order
// q, status, favorite, ordering. Empty values are omitted; an empty
// parameter set encodes to "".
func (p ListParams) Encode() string {
	pairs := [][2]string{
		{"q", p.Search},
		{"status", p.Status},
		{"favorite", p.Favorite},
		{"ordering", p.Ordering},
	}

	var parts []string
	for _, kv := range pairs {
		if kv[1] == "" {
			continue
		}
		parts = append(parts, escape(kv[0])+"="+escape(kv[1]))
	}
	if len(parts) == 0 {
		return ""
	}
	return "?" + strings.Join(parts, "&")
}

// escape percent-encodes a query component, encoding spaces as %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
