// Package main is the entry point for the taskctl CLI.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"taskctl/internal/backend/restapi"
	"taskctl/internal/cli"
	"taskctl/internal/commands"
	"taskctl/internal/config"
	"taskctl/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Commands that talk to the API need a session or a token.
	factory := func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Service, error) {
		client, err := restapi.New(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		if !client.HasCredentials() {
			return nil, service.ErrNotLoggedIn
		}
		return client, nil
	}

	auth := func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Authenticator, error) {
		client, err := restapi.New(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory, auth)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	os.Exit(code)
}
