package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Tomlord1122/taskboard-backend/internal/config"
	"github.com/Tomlord1122/taskboard-backend/internal/database"
	"github.com/Tomlord1122/taskboard-backend/internal/logger"
	"github.com/Tomlord1122/taskboard-backend/internal/repository"
	"github.com/Tomlord1122/taskboard-backend/internal/service"
)

// app holds what a single CLI invocation needs. Commands build it lazily
// so --help works without a database.
type app struct {
	db       database.Service
	users    service.UserService
	deletion service.DeletionPolicy
}

// openApp is replaced in tests.
var openApp = func(ctx context.Context) (*app, func(), error) {
	cfg := config.Load()
	log := logger.New(cfg.Log.Level, true)
	zerolog.DefaultContextLogger = &log

	dbService, err := database.New(cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	return newApp(dbService), func() { _ = dbService.Close() }, nil
}

func newApp(dbService database.Service) *app {
	gormDB := dbService.GetDB()
	userRepo := repository.NewGormUserRepository(gormDB)
	taskRepo := repository.NewGormTaskRepository(gormDB)
	return &app{
		db:       dbService,
		users:    service.NewUserService(userRepo, taskRepo),
		deletion: service.NewDeletionPolicy(repository.NewGormStore(gormDB)),
	}
}

func withApp(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, closeFn, err := openApp(cmd.Context())
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer closeFn()
		return run(cmd, a, args)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users and tasks tables",
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.db.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations completed successfully")
			return nil
		}),
	}
}

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect and delete users",
	}
	cmd.AddCommand(usersListCmd(), usersCheckCmd(), usersDeleteCmd())
	return cmd
}

func usersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users with their task counts",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			users, err := a.users.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tTASKS")
			for _, u := range users {
				var count int64
				if u.TaskCount != nil {
					count = *u.TaskCount
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", u.ID, u.Name, u.Email, u.Role, count)
			}
			return tw.Flush()
		}),
	}
}

func usersCheckCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "check [user-id]",
		Short: "Report whether a user can be deleted",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			eligibility, err := a.deletion.CheckDeletionEligibility(cmd.Context(), id)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), eligibility)
			}
			printEligibility(cmd.OutOrStdout(), eligibility)
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")
	return cmd
}

func usersDeleteCmd() *cobra.Command {
	var intent string
	cmd := &cobra.Command{
		Use:   "delete [user-id]",
		Short: "Delete a user and purge their completed tasks",
		Long: `Delete a user after re-checking that none of their tasks is TODO or
IN_PROGRESS. The user's COMPLETED tasks are removed in the same transaction.

Example:
  taskctl users delete 3f2b... --intent delete`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			result, err := a.deletion.DeleteUser(cmd.Context(), id, intent)
			if err != nil {
				var pending *service.PendingTasksError
				if errors.As(err, &pending) {
					printEligibility(cmd.ErrOrStderr(), &pending.Eligibility)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s (%d completed tasks purged)\n", result.UserID, result.PurgedTasks)
			return nil
		}),
	}
	cmd.Flags().StringVar(&intent, "intent", "", `confirmation token, must be "delete"`)
	return cmd
}

func printEligibility(w io.Writer, e *service.Eligibility) {
	fmt.Fprintln(w, e.Message)
	for _, t := range e.PendingTasks {
		fmt.Fprintf(w, "  - %s (%s) %s\n", t.Title, t.Status, t.ID)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
