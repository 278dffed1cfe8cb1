// Package migrate provides the schema management CLI: apply migrations,
// report table status, or preview what an apply would create.
package migrate

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"todo-admin-service/internal/config"
	"todo-admin-service/internal/database"
	"todo-admin-service/internal/domain"
	"todo-admin-service/internal/tools/common"
)

type options struct {
	ci      bool
	envFile string
	timeout time.Duration
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the database schema",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&opts.ci, "ci", false, "emit machine-readable JSON output")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "env file loaded before reading configuration")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", time.Minute, "operation timeout")
	root.AddCommand(newUpCommand(opts), newStatusCommand(opts), newPlanCommand(opts))
	return root
}

func newUpCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := run(opts, "migrate up", "applied", func(ctx context.Context) ([]string, error) {
				_, db, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				if err := database.Migrate(db.WithContext(ctx)); err != nil {
					return nil, err
				}
				return tableNames(), nil
			})
			return err
		},
	}
}

func newStatusCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report which tables exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := run(opts, "migrate status", "checked", func(ctx context.Context) ([]string, error) {
				_, db, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				return tableStatus(db.WithContext(ctx)), nil
			})
			return err
		},
	}
}

func newPlanCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "List tables an apply would create",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := run(opts, "migrate plan", "planned", func(ctx context.Context) ([]string, error) {
				_, db, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				var missing []string
				for _, mt := range modelTables() {
					if !db.WithContext(ctx).Migrator().HasTable(mt.model) {
						missing = append(missing, "create "+mt.name)
					}
				}
				if len(missing) == 0 {
					missing = []string{"schema up to date"}
				}
				return missing, nil
			})
			return err
		},
	}
}

// run executes the action under the configured timeout and reports the
// outcome in the selected output mode.
func run(opts *options, title, status string, fn func(ctx context.Context) ([]string, error)) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()
	details, err := fn(ctx)
	if opts.ci {
		common.PrintCIResult(err == nil, title, details, err)
	} else {
		common.PrintResult(err == nil, fmt.Sprintf("%s (%s)", title, status), details, err)
	}
	return details, err
}

func loadConfigDB(envFile string) (*config.Config, *gorm.DB, error) {
	if err := common.LoadEnvFile(envFile); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

type modelTable struct {
	model any
	name  string
}

func modelTables() []modelTable {
	return []modelTable{
		{&domain.Permission{}, "permissions"},
		{&domain.Role{}, "roles"},
		{&domain.User{}, "users"},
		{&domain.Todo{}, "todos"},
		{&domain.UserRole{}, "user_roles"},
		{&domain.RolePermission{}, "role_permissions"},
	}
}

func tableNames() []string {
	names := make([]string, 0, 6)
	for _, mt := range modelTables() {
		names = append(names, mt.name)
	}
	return names
}

func tableStatus(db *gorm.DB) []string {
	out := make([]string, 0, 6)
	for _, mt := range modelTables() {
		state := "missing"
		if db.Migrator().HasTable(mt.model) {
			state = "present"
		}
		out = append(out, fmt.Sprintf("%s: %s", mt.name, state))
	}
	return out
}
