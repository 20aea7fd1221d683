package view

import "taskctl/internal/service"

// Badge is the status marker of a card.
type Badge struct {
	Label string
	Color string // semantic color name: secondary, warning, success, light
	Icon  string
}

var badges = map[service.Status]Badge{
	service.StatusTodo:       {Label: "To Do", Color: "secondary", Icon: "list"},
	service.StatusInProgress: {Label: "In Progress", Color: "warning", Icon: "hourglass"},
	service.StatusDone:       {Label: "Done", Color: "success", Icon: "check"},
}

// UnknownBadge is used for any status outside the known set.
var UnknownBadge = Badge{Label: "Unknown", Color: "light", Icon: "question"}

// BadgeFor returns the badge for a status, falling back to UnknownBadge.
func BadgeFor(s service.Status) Badge {
	if b, ok := badges[s]; ok {
		return b
	}
	return UnknownBadge
}
