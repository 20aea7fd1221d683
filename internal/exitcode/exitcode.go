// Package exitcode defines exit codes for the CLI.
package exitcode

// Exit codes returned by every command.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task, bad config).
	UserError = 1

	// AuthError indicates a missing or rejected session.
	AuthError = 2

	// BackendError indicates a server, API or network error.
	BackendError = 3
)
