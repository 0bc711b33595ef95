package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Strob0t/taskgraph/internal/adapter/postgres"
	"github.com/Strob0t/taskgraph/internal/config"
	"github.com/Strob0t/taskgraph/internal/domain/workspace"
	"github.com/Strob0t/taskgraph/internal/service"
)

// runAdmin dispatches admin subcommands.
func runAdmin(args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "--help" {
		printAdminHelp()
		return nil
	}

	switch args[0] {
	case "migrate":
		return runAdminMigrate(args[1:])
	case "create-workspace":
		return runAdminCreateWorkspace(args[1:])
	case "add-member":
		return runAdminAddMember(args[1:])
	case "list-workspaces":
		return runAdminListWorkspaces(args[1:])
	default:
		printAdminHelp()
		return fmt.Errorf("unknown admin command: %s", args[0])
	}
}

func printAdminHelp() {
	fmt.Fprintf(os.Stderr, `Usage: taskgraph admin <command> [options]

Commands:
  migrate            Apply, roll back or report database migrations (up|down|version)
  create-workspace   Create a workspace
  add-member         Add a member to a workspace
  list-workspaces    List all workspaces with their member counts
  help               Show this help message

Examples:
  taskgraph admin migrate up
  taskgraph admin migrate down --steps 2
  taskgraph admin create-workspace --name "Marketing"
  taskgraph admin add-member --workspace <id> --name Kim --email kim@example.com --role "Product Manager"
  taskgraph admin list-workspaces
`)
}

func loadAdminDeps() (*service.WorkspaceService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	svc := service.NewWorkspaceService(postgres.NewStore(pool))
	return svc, pool.Close, nil
}

func runAdminMigrate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("migrate requires one of: up, down, version")
	}
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	steps := fs.Int("steps", 1, "migrations to roll back (down only)")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ctx := context.Background()

	switch args[0] {
	case "up":
		if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	case "down":
		if *steps < 1 {
			return fmt.Errorf("--steps must be >= 1")
		}
		if err := postgres.RollbackMigrations(ctx, cfg.Postgres.DSN, *steps); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	case "version":
	default:
		return fmt.Errorf("unknown migrate command: %s", args[0])
	}

	v, err := postgres.MigrationVersion(ctx, cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("migration version: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Database at migration version %d\n", v)
	return nil
}

func runAdminCreateWorkspace(args []string) error {
	fs := flag.NewFlagSet("create-workspace", flag.ContinueOnError)
	name := fs.String("name", "", "workspace name (required)")
	description := fs.String("description", "", "workspace description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	ws, err := svc.Create(context.Background(), &workspace.CreateRequest{Name: *name, Description: *description})
	if err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Workspace created: %s (id=%s)\n", ws.Name, ws.ID)
	return nil
}

func runAdminAddMember(args []string) error {
	fs := flag.NewFlagSet("add-member", flag.ContinueOnError)
	wsID := fs.String("workspace", "", "workspace id (required)")
	name := fs.String("name", "", "member name (required)")
	email := fs.String("email", "", "member email (required)")
	role := fs.String("role", "", "member role, used for auto delegation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *wsID == "" {
		return fmt.Errorf("--workspace is required")
	}

	svc, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	if _, err := svc.Get(ctx, *wsID); err != nil {
		return fmt.Errorf("workspace %s: %w", *wsID, err)
	}
	m, err := svc.AddMember(ctx, *wsID, &workspace.AddMemberRequest{Name: *name, Email: *email, Role: *role})
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Member added: %s <%s> (id=%s, role=%q)\n", m.Name, m.Email, m.ID, m.Role)
	return nil
}

func runAdminListWorkspaces(args []string) error {
	fs := flag.NewFlagSet("list-workspaces", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	list, err := svc.List(ctx)
	if err != nil {
		return fmt.Errorf("list workspaces: %w", err)
	}

	if len(list) == 0 {
		fmt.Println("No workspaces found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tMEMBERS\tCREATED")
	for i := range list {
		members, err := svc.ListMembers(ctx, list[i].ID)
		if err != nil {
			return fmt.Errorf("list members of %s: %w", list[i].ID, err)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			list[i].ID, list[i].Name, len(members), list[i].CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}
