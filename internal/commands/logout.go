package commands

import (
	"context"
	"flag"
	"fmt"

	"taskctl/internal/exitcode"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return nil }
func (c *LogoutCmd) Synopsis() string  { return "End the session and remove it" }
func (c *LogoutCmd) Usage() string     { return "taskctl logout [common flags]" }
func (c *LogoutCmd) NeedsAuth() bool   { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, rt *Runtime, args []string) int {
	// Check if session.json exists
	if !rt.Config.HasSession() {
		if !rt.quiet() {
			fmt.Fprintln(rt.Out, "not logged in")
		}
		return exitcode.Success
	}

	if rt.Authenticator != nil {
		auth, err := rt.Authenticator(ctx)
		if err == nil {
			err = auth.Logout(ctx)
		}
		if err != nil && rt.Logger != nil {
			rt.Logger.Warn("server logout failed", "error", err)
		}
	}

	// The client removes the file on logout; make sure it is gone either way.
	if rt.Config.HasSession() {
		if err := rt.Config.RemoveSession(); err != nil {
			fmt.Fprintf(rt.ErrOut, "error: failed to remove session: %v\n", err)
			return exitcode.AuthError
		}
	}

	return rt.ok()
}
