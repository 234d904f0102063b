package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jscales4000/LotPlanner-sub000/internal/infrastructure/database"
	"github.com/jscales4000/LotPlanner-sub000/migrations"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the project database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd, opts, func(ctx context.Context, db *database.DB, out io.Writer) error {
				return migrateUp(ctx, db, out)
			})
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations (the default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDB(cmd, opts, func(ctx context.Context, db *database.DB, out io.Writer) error {
					return migrateUp(ctx, db, out)
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDB(cmd, opts, func(ctx context.Context, db *database.DB, out io.Writer) error {
					if err := db.MigrateDown(ctx, migrations.FS); err != nil {
						return err
					}
					fmt.Fprintln(out, "rolled back one migration")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List applied and pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDB(cmd, opts, printMigrationStatus)
			},
		},
	)
	return cmd
}

// withDB opens the configured database for the duration of fn.
func withDB(cmd *cobra.Command, opts *rootOptions, fn func(context.Context, *database.DB, io.Writer) error) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	return fn(ctx, db, cmd.OutOrStdout())
}

func migrateUp(ctx context.Context, db *database.DB, out io.Writer) error {
	_, pending, err := db.MigrationStatus(ctx, migrations.FS)
	if err != nil {
		return err
	}
	if err := db.Migrate(ctx, migrations.FS); err != nil {
		return err
	}
	fmt.Fprintf(out, "applied %d migrations\n", len(pending))
	return nil
}

func printMigrationStatus(ctx context.Context, db *database.DB, out io.Writer) error {
	applied, pending, err := db.MigrationStatus(ctx, migrations.FS)
	if err != nil {
		return err
	}
	for _, r := range applied {
		fmt.Fprintf(out, "applied  %s  %s\n", r.Version, r.AppliedAt.Format("2006-01-02 15:04:05"))
	}
	for _, m := range pending {
		fmt.Fprintf(out, "pending  %s  %s\n", m.Version, m.Name)
	}
	return nil
}
