// Package view turns a task list snapshot into a presentation-neutral view model.
package view

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"taskctl/internal/query"
	"taskctl/internal/service"
)

const (
	// DescriptionMaxLines is the number of description lines shown on a card.
	DescriptionMaxLines = 2

	// DescriptionMaxRunes caps the card description length.
	DescriptionMaxRunes = 120

	// NoDescription is shown when a task has no description.
	NoDescription = "No description."

	// LoadErrorMessage replaces the list when a fetch fails.
	LoadErrorMessage = "Could not load tasks. Try reloading."

	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04"
)

// NoticeKind distinguishes informational notices from errors.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeError
)

// Notice is a single message shown instead of cards.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// ActionKind identifies a card control.
type ActionKind string

const (
	ActionView     ActionKind = "view"
	ActionEdit     ActionKind = "edit"
	ActionDelete   ActionKind = "delete"
	ActionFavorite ActionKind = "favorite"
)

// Action is a control rendered on a card.
type Action struct {
	Kind   ActionKind
	Label  string
	Active bool
}

// Card is the rendered form of one task.
type Card struct {
	ID          service.TaskID
	Title       string
	Favorite    bool
	Badge       Badge
	Description string
	Created     string
	Actions     []Action
}

// ListView is either a list of cards or a single notice.
type ListView struct {
	Cards  []Card
	Notice *Notice
}

// Snapshot is the immutable input of Render.
type Snapshot struct {
	Tasks []service.Task
	State query.State
}

// NewSnapshot copies tasks so later cache changes do not leak into a render.
func NewSnapshot(tasks []service.Task, st query.State) Snapshot {
	cp := make([]service.Task, len(tasks))
	copy(cp, tasks)
	return Snapshot{Tasks: cp, State: st}
}

// Render builds the list view for a snapshot.
func Render(s Snapshot) ListView {
	if len(s.Tasks) == 0 {
		return ListView{Notice: &Notice{Kind: NoticeInfo, Message: EmptyMessage(s.State)}}
	}

	cards := make([]Card, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		cards = append(cards, NewCard(t))
	}
	return ListView{Cards: cards}
}

// ErrorView is the view shown when the list cannot be loaded.
func ErrorView() ListView {
	return ListView{Notice: &Notice{Kind: NoticeError, Message: LoadErrorMessage}}
}

// EmptyMessage returns the notice for an empty result in the given state.
func EmptyMessage(st query.State) string {
	msg := "No tasks found."
	if st.Filter != "" && st.Filter != query.FilterAll {
		msg = fmt.Sprintf("No %s tasks found.", st.Filter)
	}
	if q := strings.TrimSpace(st.Query); q != "" {
		msg = strings.TrimSuffix(msg, ".") + fmt.Sprintf(" matching %q.", q)
	}
	return msg
}

// NewCard renders one task.
func NewCard(t service.Task) Card {
	favLabel := "Fav"
	if t.IsFavorite {
		favLabel = "Unfav"
	}
	return Card{
		ID:          t.ID,
		Title:       t.Title,
		Favorite:    t.IsFavorite,
		Badge:       BadgeFor(t.Status),
		Description: Truncate(t.Description),
		Created:     formatTime(t.CreatedAt, dateLayout),
		Actions: []Action{
			{Kind: ActionView, Label: "View"},
			{Kind: ActionEdit, Label: "Edit"},
			{Kind: ActionDelete, Label: "Delete"},
			{Kind: ActionFavorite, Label: favLabel, Active: t.IsFavorite},
		},
	}
}

// Truncate shortens a description for card display.
func Truncate(desc string) string {
	desc = strings.TrimSpace(strings.ReplaceAll(desc, "\r\n", "\n"))
	if desc == "" {
		return NoDescription
	}

	cut := false
	lines := strings.Split(desc, "\n")
	if len(lines) > DescriptionMaxLines {
		lines = lines[:DescriptionMaxLines]
		cut = true
	}
	desc = strings.Join(lines, "\n")

	if utf8.RuneCountInString(desc) > DescriptionMaxRunes {
		desc = string([]rune(desc)[:DescriptionMaxRunes])
		cut = true
	}
	if cut {
		desc = strings.TrimRight(desc, " \n") + "…"
	}
	return desc
}

// DetailView holds the read-only fields of a single task.
type DetailView struct {
	ID          service.TaskID
	Heading     string
	Title       string
	Description string
	Badge       Badge
	Favorite    bool
	Created     string
}

// Detail renders a task for the read-only view.
func Detail(t service.Task) DetailView {
	desc := t.Description
	if strings.TrimSpace(desc) == "" {
		desc = NoDescription
	}
	return DetailView{
		ID:          t.ID,
		Heading:     "Task: " + t.Title,
		Title:       t.Title,
		Description: desc,
		Badge:       BadgeFor(t.Status),
		Favorite:    t.IsFavorite,
		Created:     "Created: " + formatTime(t.CreatedAt, timestampLayout),
	}
}

func formatTime(ts time.Time, layout string) string {
	if ts.IsZero() {
		return "unknown"
	}
	return ts.Local().Format(layout)
}
