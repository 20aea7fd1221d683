package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"taskctl/internal/exitcode"
	"taskctl/internal/service"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	user string
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in to the task server" }
func (c *LoginCmd) Usage() string     { return "taskctl login [common flags] [--user <name-or-email>]" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.user, "user", "", "")
	fs.StringVar(&c.user, "u", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, rt *Runtime, args []string) int {
	if len(args) > 0 {
		return rt.userError("unexpected argument: %s", args[0])
	}
	if rt.Authenticator == nil {
		fmt.Fprintln(rt.ErrOut, "error: login is not available")
		return exitcode.AuthError
	}

	in := bufio.NewReader(rt.input())

	identifier := strings.TrimSpace(c.user)
	if identifier == "" {
		fmt.Fprint(rt.ErrOut, "Username or email: ")
		line, _ := in.ReadString('\n')
		identifier = strings.TrimSpace(line)
	}
	if identifier == "" {
		return rt.userError("username or email required")
	}

	fmt.Fprint(rt.ErrOut, "Password: ")
	password, err := readPassword(rt, in)
	fmt.Fprintln(rt.ErrOut)
	if err != nil {
		return rt.userError("failed to read password: %v", err)
	}
	if password == "" {
		return rt.userError("password required")
	}

	if rt.Config != nil {
		if err := rt.Config.EnsureDir(); err != nil {
			fmt.Fprintf(rt.ErrOut, "error: failed to create config directory: %v\n", err)
			return exitcode.UserError
		}
	}

	auth, err := rt.Authenticator(ctx)
	if err != nil {
		fmt.Fprintf(rt.ErrOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if err := auth.Login(ctx, identifier, password); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			fmt.Fprintln(rt.ErrOut, "error: invalid username/email or password")
			return exitcode.AuthError
		}
		fmt.Fprintf(rt.ErrOut, "error: login failed: %v\n", err)
		return exitcode.AuthError
	}

	if rt.Config != nil && rt.Config.Token != "" && !rt.quiet() {
		fmt.Fprintln(rt.ErrOut, "note: a token is configured and takes precedence over the session")
	}
	return rt.ok()
}

// readPassword reads without echo from a terminal, or one line otherwise.
func readPassword(rt *Runtime, in *bufio.Reader) (string, error) {
	if f, ok := rt.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", nil
	}
	return strings.TrimRight(line, "\r\n"), nil
}
