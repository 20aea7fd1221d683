package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"taskctl/internal/commands"
	"taskctl/internal/config"
	"taskctl/internal/exitcode"
	"taskctl/internal/logging"
	"taskctl/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Service, error)

// AuthFactory creates the Authenticator used by login and logout.
type AuthFactory func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Authenticator, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
	auth     AuthFactory
}

// NewDispatcher creates a new dispatcher with the given registry and factories.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory, auth AuthFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
		auth:     auth,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, in, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], in, out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, in io.Reader, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, in, out, errOut)
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	url       string
	quiet     bool
	debug     bool
	noColor   bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configDir, "config", "", "")
	fs.StringVar(&c.url, "url", "", "")
	fs.BoolVar(&c.quiet, "quiet", false, "")
	fs.BoolVar(&c.quiet, "q", false, "")
	fs.BoolVar(&c.debug, "debug", false, "")
	fs.BoolVar(&c.noColor, "no-color", false, "")
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, in io.Reader, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var common commonFlags
	common.register(fs)

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") && positionalArgs[0] != "-" {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	// Create config
	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	if common.url != "" {
		cfg.BaseURL = strings.TrimRight(common.url, "/")
	}
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug
	cfg.NoColor = common.noColor || os.Getenv("NO_COLOR") != ""

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	logger := logging.New(errOut, cfg.LogLevel, cfg.Debug)
	logger.Debug("dispatch", "command", cmd.Name(), "url", cfg.BaseURL)

	rt := &commands.Runtime{
		Config: cfg,
		Logger: logger,
		In:     in,
		Out:    out,
		ErrOut: errOut,
	}
	if d.auth != nil {
		rt.Authenticator = func(ctx context.Context) (service.Authenticator, error) {
			return d.auth(ctx, cfg, logger)
		}
	}

	// Check auth requirements
	if cmd.NeedsAuth() {
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: no task backend configured")
			return exitcode.BackendError
		}
		svc, err := d.factory(ctx, cfg, logger)
		if err != nil {
			if errors.Is(err, service.ErrNotLoggedIn) || errors.Is(err, service.ErrUnauthorized) {
				fmt.Fprintf(errOut, "error: %s\n", err)
				return exitcode.AuthError
			}
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
		rt.Service = svc
	}

	// Run command
	return cmd.Run(ctx, rt, positionalArgs)
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()

	// Check for missing flag value
	if strings.HasPrefix(errStr, "flag needs an argument:") {
		flagPart := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
		return "flag needs an argument: " + flagPart
	}

	// Check for unknown flag
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		return "unknown flag: " + strings.TrimPrefix(errStr, "flag provided but not defined: ")
	}

	return errStr
}
