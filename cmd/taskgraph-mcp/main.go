// Command taskgraph-mcp serves the workflow tools over the Model Context
// Protocol. It speaks stdio by default; -http serves streamable HTTP instead.
// With a database DSN the stateful tools (get_workflow, workspace lookups)
// are enabled as well.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Strob0t/taskgraph/internal/adapter/mcp"
	"github.com/Strob0t/taskgraph/internal/adapter/postgres"
	"github.com/Strob0t/taskgraph/internal/config"
	"github.com/Strob0t/taskgraph/internal/logger"
	"github.com/Strob0t/taskgraph/internal/secrets"
)

const version = "0.1.0"

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("taskgraph-mcp", flag.ContinueOnError)
	httpAddr := fs.String("http", "", "serve streamable HTTP on this address instead of stdio")
	dsn := fs.String("dsn", "", "PostgreSQL DSN; enables the stateful tools")
	logLevel := fs.String("log-level", "info", "debug|info|warn|error")
	if err := fs.Parse(args); err != nil {
		return err
	}

	_ = godotenv.Load(config.DefaultEnvFile)
	if *dsn == "" {
		*dsn = os.Getenv("TASKGRAPH_MCP_DSN")
	}

	// stdout carries the protocol in stdio mode, so logs go to stderr.
	log, closer := logger.NewWithWriter(config.Logging{Level: *logLevel, Service: "taskgraph-mcp"}, os.Stderr)
	defer closer.Close()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var deps mcp.ServerDeps
	if *dsn != "" {
		pgCfg := config.Defaults().Postgres
		pgCfg.DSN = *dsn
		pool, err := postgres.NewPool(ctx, pgCfg)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer pool.Close()
		store := postgres.NewStore(pool)
		deps = mcp.ServerDeps{Workflows: store, Workspaces: store}
		slog.Info("stateful tools enabled")
	}

	vault, err := secrets.NewVault(secrets.DotEnvLoader(config.DefaultEnvFile, secrets.MCPAPIKey))
	if err != nil {
		return fmt.Errorf("secrets: %w", err)
	}
	go reloadOnHUP(ctx, vault)

	srv := mcp.NewServer(mcp.ServerConfig{
		Addr:         *httpAddr,
		Name:         "taskgraph",
		Version:      version,
		APIKeySource: vault.Source(secrets.MCPAPIKey),
	}, deps)

	if *httpAddr == "" {
		return srv.ServeStdio()
	}

	if err := srv.Start(); err != nil {
		return err
	}
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

// reloadOnHUP rotates the API key when the process receives SIGHUP.
func reloadOnHUP(ctx context.Context, vault *secrets.Vault) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := vault.Reload(); err != nil {
				slog.Error("secret reload failed", "error", err)
				continue
			}
			slog.Info("secrets reloaded", "mcp_api_key", vault.Redacted(secrets.MCPAPIKey))
		}
	}
}
