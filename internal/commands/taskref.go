package commands

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"taskctl/internal/query"
	"taskctl/internal/service"
)

// ErrTaskIDRequired indicates no task id was provided.
var ErrTaskIDRequired = errors.New("task id required")

// ParseTaskID parses the task id from args.
//
// Parsing rules:
// 1. No args → error: task id required
// 2. A leading "#" is dropped, so "#12" and "12" are the same task
// 3. The id must be a single token of letters, digits, "-" or "_"
// 4. Extra args → error: unexpected argument
func ParseTaskID(args []string) (service.TaskID, error) {
	if len(args) == 0 {
		return "", ErrTaskIDRequired
	}
	if len(args) > 1 {
		return "", fmt.Errorf("unexpected argument: %s", args[1])
	}

	raw := strings.TrimPrefix(strings.TrimSpace(args[0]), "#")
	if raw == "" {
		return "", ErrTaskIDRequired
	}
	if !isIDToken(raw) {
		return "", fmt.Errorf("invalid task id: %s", args[0])
	}
	return service.TaskID(raw), nil
}

// isIDToken returns true if s contains only letters, digits, '-' or '_'.
// Path separators and query characters are rejected.
func isIDToken(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			continue
		}
		return false
	}
	return true
}

// parseState builds the initial view state from the list flags.
// Empty values keep the defaults.
func parseState(filter, search, sort string) (query.State, error) {
	st := query.DefaultState()
	if filter != "" {
		f, err := query.ParseFilter(filter)
		if err != nil {
			return st, err
		}
		st.Filter = f
	}
	if sort != "" {
		s, err := query.ParseSort(sort)
		if err != nil {
			return st, err
		}
		st.Sort = s
	}
	st.Query = strings.TrimSpace(search)
	return st, nil
}
