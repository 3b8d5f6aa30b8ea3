package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/officeplus/faq-api/internal/bootstrap"
	"github.com/officeplus/faq-api/internal/data"
	"github.com/officeplus/faq-api/internal/devseed"
	"github.com/officeplus/faq-api/internal/service"
)

const defaultMigrationTimeout = 5 * time.Minute

func newMigrateCmd(cc *commandContext) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return withPool(ctx, cc, func(pool *pgxpool.Pool) error {
				return bootstrap.RunMigrations(ctx, pool, cc.Logger)
			})
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", defaultMigrationTimeout, "overall migration timeout")
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List applied migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd.Context(), cc, func(pool *pgxpool.Pool) error {
				applied, err := bootstrap.MigrationStatus(cmd.Context(), pool)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "VERSION\tAPPLIED AT")
				for _, a := range applied {
					fmt.Fprintf(tw, "%s\t%s\n", a.Version, a.AppliedAt.Format(time.RFC3339))
				}
				return tw.Flush()
			})
		},
	})
	return cmd
}

func newDBStatusCmd(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "db-status",
		Short: "Check database connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd.Context(), cc, func(pool *pgxpool.Pool) error {
				repo := &data.StatusRepo{DB: pool, MaskedDSN: cc.Config.Postgres.MaskedConnString()}
				st, err := repo.Status(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "database:    %s\n", st.Database)
				fmt.Fprintf(out, "current time: %s\n", st.CurrentTime.Format(time.RFC3339))
				fmt.Fprintf(out, "dsn:         %s\n", st.DSN)
				return nil
			})
		},
	}
}

func withPool(ctx context.Context, cc *commandContext, fn func(*pgxpool.Pool) error) error {
	pool, err := bootstrap.ConnectDB(ctx, cc.Config.Postgres, cc.Logger)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer pool.Close()
	return fn(pool)
}

func newSeedCmd(cc *commandContext) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample tags and FAQs for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force && !cc.Config.DeploymentMode().IsLocal() {
				return fmt.Errorf("refusing to seed %q environment without --force", cc.Config.DeploymentMode().String())
			}
			return withPool(cmd.Context(), cc, func(pool *pgxpool.Pool) error {
				res, err := devseed.Run(cmd.Context(), devseed.Services{
					FAQs: service.NewFAQService(service.FAQServiceOptions{Repo: data.NewFAQRepo(pool), Logger: cc.Logger}),
					Tags: service.NewTagService(data.NewTagRepo(pool)),
				}, cc.Logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "tags created: %d, faqs created: %d, skipped: %t\n",
					res.TagsCreated, res.FAQsCreated, res.Skipped)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "seed outside local mode")
	return cmd
}
