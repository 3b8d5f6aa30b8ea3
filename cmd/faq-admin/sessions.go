package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	redisadapter "github.com/officeplus/faq-api/internal/adapters/redis"
	"github.com/officeplus/faq-api/internal/bootstrap"
	"github.com/officeplus/faq-api/internal/ports"
)

const maxValueWidth = 80

func newSessionsCmd(cc *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect SSO sessions in Redis",
	}
	cmd.AddCommand(newSessionsListCmd(cc), newSessionsShowCmd(cc), newSessionsCheckCmd(cc))
	return cmd
}

func newSessionsListCmd(cc *commandContext) *cobra.Command {
	var (
		pattern string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List session keys with their TTL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRedis(cmd, cc, func(handle *redisadapter.ClientHandle) error {
				if pattern == "" {
					pattern = cc.Config.Session.KeyPrefix + "*"
				}
				entries, err := redisadapter.NewSessionStore(handle).Scan(cmd.Context(), pattern, limit)
				if err != nil {
					return err
				}
				return printEntries(cmd.OutOrStdout(), entries)
			})
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "", "key pattern (default <prefix>*)")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum number of keys")
	return cmd
}

func newSessionsShowCmd(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <key>",
		Short: "Print one session without refreshing its TTL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRedis(cmd, cc, func(handle *redisadapter.ClientHandle) error {
				key := sessionKey(cc.Config.Session.KeyPrefix, args[0])
				entry, err := redisadapter.NewSessionStore(handle).Inspect(cmd.Context(), key)
				if errors.Is(err, ports.ErrSessionNotFound) {
					return fmt.Errorf("session not found: %s", key)
				}
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "key:   %s\n", entry.Key)
				fmt.Fprintf(out, "ttl:   %ds\n", entry.TTL)
				fmt.Fprintf(out, "value: %s\n", entry.Value)
				return nil
			})
		},
	}
}

func newSessionsCheckCmd(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check <cookie>",
		Short: "Validate a cookie value as the API would, refreshing its TTL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRedis(cmd, cc, func(handle *redisadapter.ClientHandle) error {
				deps := &bootstrap.ServiceDeps{Config: &cc.Config, Redis: handle, Refresher: handle, Logger: cc.Logger}
				svcs, err := bootstrap.NewSessionServices(deps, bootstrap.ObservabilityContainer{})
				if err != nil {
					return err
				}
				key := cc.Config.Session.KeyPrefix + strings.TrimSpace(args[0])
				id, err := svcs.Validator.Validate(cmd.Context(), key)
				if err != nil {
					return fmt.Errorf("%s: %w", key, err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "valid: %s\n", key)
				fmt.Fprintf(out, "id:    %s\n", id.SubjectID)
				fmt.Fprintf(out, "name:  %s\n", id.DisplayName)
				fmt.Fprintf(out, "dept:  %s\n", id.DepartmentName)
				fmt.Fprintf(out, "corp:  %s\n", id.OrgCode)
				return nil
			})
		},
	}
}

func withRedis(cmd *cobra.Command, cc *commandContext, fn func(*redisadapter.ClientHandle) error) error {
	handle, err := cc.deps.ConnectRedis(cmd.Context(), cc.Config.Redis, cc.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = handle.Close() }()
	return fn(handle)
}

// sessionKey accepts either a full key or a bare cookie value.
func sessionKey(prefix, arg string) string {
	arg = strings.TrimSpace(arg)
	if strings.HasPrefix(arg, prefix) {
		return arg
	}
	return prefix + arg
}

func printEntries(w io.Writer, entries []ports.SessionEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tTTL\tVALUE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", e.Key, e.TTL, truncate(e.Value, maxValueWidth))
	}
	fmt.Fprintf(tw, "\n%d session(s)\n", len(entries))
	return tw.Flush()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
