// Command faq-admin runs maintenance tasks against the FAQ database and the
// shared SSO session cache.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/officeplus/faq-api/config"
	redisadapter "github.com/officeplus/faq-api/internal/adapters/redis"
	"github.com/officeplus/faq-api/internal/bootstrap"
)

// commandContext carries what every subcommand needs once the config is loaded.
type commandContext struct {
	Logger *slog.Logger
	Config config.AppConfig
	deps   cliDeps
}

// cliDeps are the seams tests replace.
type cliDeps struct {
	LoadConfig   func() (config.AppConfig, error)
	ConnectRedis func(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*redisadapter.ClientHandle, error)
}

func defaultDeps() cliDeps {
	return cliDeps{
		LoadConfig:   bootstrap.LoadConfig,
		ConnectRedis: bootstrap.ConnectRedis,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(defaultDeps()).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func newRootCmd(deps cliDeps) *cobra.Command {
	cc := &commandContext{deps: deps}
	root := &cobra.Command{
		Use:           "faq-admin",
		Short:         "Maintenance commands for the FAQ service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := deps.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cc.Config = cfg
			cc.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: cfg.Observability.SlogLevel(),
			}))
			return nil
		},
	}
	root.AddCommand(newMigrateCmd(cc), newDBStatusCmd(cc), newSeedCmd(cc), newSessionsCmd(cc))
	return root
}
