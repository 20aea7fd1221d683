// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"taskctl/internal/config"
	"taskctl/internal/controller"
	"taskctl/internal/exitcode"
	"taskctl/internal/output"
	"taskctl/internal/query"
	"taskctl/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command talks to the task API.
	// Commands like help, version, login, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command with positional arguments left after flag
	// parsing. Returns exit code.
	Run(ctx context.Context, rt *Runtime, args []string) int
}

// AuthenticatorFactory opens the login/logout endpoint for a command.
type AuthenticatorFactory func(ctx context.Context) (service.Authenticator, error)

// Runtime is everything a command runs with.
type Runtime struct {
	// Config is always provided (config dir, server, flags).
	Config *config.Config

	// Service is nil if NeedsAuth() returns false.
	Service service.Service

	// Authenticator is used by login and logout.
	Authenticator AuthenticatorFactory

	Logger *slog.Logger

	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// input returns the command input; a missing reader behaves as empty.
func (rt *Runtime) input() io.Reader {
	if rt.In == nil {
		return strings.NewReader("")
	}
	return rt.In
}

func (rt *Runtime) quiet() bool {
	return rt.Config != nil && rt.Config.Quiet
}

// presenter builds the terminal presenter. Deferred presenters print only
// the final list, on Flush.
func (rt *Runtime) presenter(deferred bool) *output.Presenter {
	color := rt.Config != nil && !rt.Config.NoColor
	return output.NewPresenter(rt.Out, rt.ErrOut, output.Options{
		Quiet:    rt.quiet(),
		Color:    color,
		Deferred: deferred,
	})
}

// controller opens a task list session on the runtime's service.
func (rt *Runtime) controller(p controller.Presenter, confirm controller.Confirmer, st query.State) *controller.Controller {
	opts := []controller.Option{controller.WithState(st)}
	if rt.Logger != nil {
		opts = append(opts, controller.WithLogger(rt.Logger))
	}
	return controller.New(rt.Service, p, confirm, opts...)
}

// ok prints the success marker unless quiet.
func (rt *Runtime) ok() int {
	if !rt.quiet() {
		fmt.Fprintln(rt.Out, "ok")
	}
	return exitcode.Success
}

// done finishes a successful mutation: the list the controller rendered
// last is printed unless quiet.
func (rt *Runtime) done(p *output.Presenter) int {
	if rt.quiet() {
		return exitcode.Success
	}
	if !p.Flush() {
		return rt.ok()
	}
	return exitcode.Success
}

// userError prints an error message and returns the user error code.
func (rt *Runtime) userError(format string, a ...any) int {
	fmt.Fprintf(rt.ErrOut, "error: "+format+"\n", a...)
	return exitcode.UserError
}

// failed maps an operation error to an exit code. Controller failures have
// already been shown as alerts; only the login hint is added here.
func (rt *Runtime) failed(err error) int {
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrNotLoggedIn):
		fmt.Fprintf(rt.ErrOut, "error: %v\n", err)
		return exitcode.AuthError
	case errors.Is(err, service.ErrNotFound):
		return exitcode.UserError
	case errors.Is(err, controller.ErrTitleRequired):
		return exitcode.UserError
	default:
		return exitcode.BackendError
	}
}

// optString is a string flag that remembers whether it was given.
type optString struct {
	value string
	set   bool
}

func (o *optString) String() string { return o.value }

func (o *optString) Set(v string) error {
	o.value = v
	o.set = true
	return nil
}
