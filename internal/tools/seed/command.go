// Package seed provides the CLI for synchronizing the permission catalog
// and default roles into the database.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"todo-admin-service/internal/config"
	"todo-admin-service/internal/database"
	"todo-admin-service/internal/tools/common"
)

// errDryRun forces the dry-run transaction to roll back after the seed
// has computed its report.
var errDryRun = errors.New("dry run rollback")

type options struct {
	ci      bool
	envFile string
	timeout time.Duration
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "seed",
		Short:        "Synchronize permissions and default roles",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&opts.ci, "ci", false, "emit machine-readable JSON output")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "env file loaded before reading configuration")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", time.Minute, "operation timeout")
	root.AddCommand(newApplyCommand(opts), newDryRunCommand(opts))
	return root
}

func newApplyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Apply the permission catalog and role sync",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := run(opts, "seed apply", "applied", func(ctx context.Context) ([]string, error) {
				cfg, db, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				report, err := database.SeedSync(db.WithContext(ctx), cfg.BootstrapAdminEmail)
				if err != nil {
					return nil, err
				}
				return reportDetails(report), nil
			})
			return err
		},
	}
}

func newDryRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dry-run",
		Short: "Report what an apply would change without committing",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := run(opts, "seed dry-run", "planned", func(ctx context.Context) ([]string, error) {
				cfg, db, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				var report database.SeedReport
				txErr := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
					r, err := database.SeedSync(tx, cfg.BootstrapAdminEmail)
					if err != nil {
						return err
					}
					report = r
					return errDryRun
				})
				if txErr != nil && !errors.Is(txErr, errDryRun) {
					return nil, txErr
				}
				return reportDetails(report), nil
			})
			return err
		},
	}
}

func run(opts *options, title, status string, fn func(ctx context.Context) ([]string, error)) ([]string, error) {
	timeout := opts.timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
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

func reportDetails(r database.SeedReport) []string {
	if r.Noop {
		return []string{"nothing to do"}
	}
	return []string{
		fmt.Sprintf("permissions created: %d", r.CreatedPermissions),
		fmt.Sprintf("roles created: %d", r.CreatedRoles),
		fmt.Sprintf("roles resynced: %d", r.SyncedRoles),
		fmt.Sprintf("admin assigned: %t", r.AdminAssigned),
	}
}
