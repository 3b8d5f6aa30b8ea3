// Package testutil holds shared fixtures for Postgres- and Redis-backed tests.
package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	domainauth "github.com/officeplus/faq-api/internal/domain/auth"
	"github.com/officeplus/faq-api/internal/migrate"
)

// TestingTB is the subset of testing.TB the helpers need.
type TestingTB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Skip(args ...any)
	Skipf(format string, args ...any)
	Logf(format string, args ...any)
	Cleanup(func())
}

// TestDBConfig holds configuration for test database.
type TestDBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DefaultTestDBConfig returns default test database configuration.
// Defaults to port 55432 (local test DB from docker-compose test profile).
// CI environments should set TEST_DB_PORT=5432 explicitly.
func DefaultTestDBConfig() TestDBConfig {
	return TestDBConfig{
		Host:     getEnvOrDefault("TEST_DB_HOST", "localhost"),
		Port:     getEnvOrDefault("TEST_DB_PORT", "55432"),
		User:     getEnvOrDefault("TEST_DB_USER", "faq"),
		Password: getEnvOrDefault("TEST_DB_PASSWORD", "faq"),
		DBName:   getEnvOrDefault("TEST_DB_NAME", "faq_test"),
	}
}

// DSN builds a connection string for cfg without a search_path.
func (cfg TestDBConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, cfg.Port),
		Path:     "/" + cfg.DBName,
		RawQuery: "sslmode=" + getEnvOrDefault("DB_SSL_MODE", "disable"),
	}
	return u.String()
}

// SkipIfNoTestDB skips the test if test database is not available.
// TEST_REQUIRE_DB or TEST_REQUIRE_INFRA turns the skip into a failure.
func SkipIfNoTestDB(t TestingTB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, DefaultTestDBConfig().DSN())
	if err == nil {
		defer pool.Close()
		err = pool.Ping(ctx)
	}
	if err != nil {
		if requireDB() {
			t.Fatal("Test database not available:", err)
		}
		t.Skip("Test database not available:", err)
	}
}

// SetupEphemeralSchemaDB creates a unique schema, points the pool's
// search_path at it, runs migrations, and drops the schema on cleanup.
func SetupEphemeralSchemaDB(t TestingTB) *pgxpool.Pool {
	t.Helper()
	SkipIfNoTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := DefaultTestDBConfig()
	admin, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		t.Fatal("Failed to open admin pool:", err)
	}
	schema := generateSchemaName()
	if _, err := admin.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+schema); err != nil {
		admin.Close()
		t.Fatalf("Failed to create schema %s: %v", schema, err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		admin.Close()
		t.Fatal("Failed to parse DSN:", err)
	}
	poolCfg.ConnConfig.RuntimeParams["search_path"] = schema + ",public"
	poolCfg.MaxConns = 10
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		admin.Close()
		t.Fatal("Failed to open schema-scoped pool:", err)
	}

	t.Logf("Using ephemeral schema: %s", schema)
	t.Cleanup(func() {
		cctx, ccancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer ccancel()
		pool.Close()
		if _, err := admin.Exec(cctx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("Warning: failed to drop schema %s: %v", schema, err)
		}
		admin.Close()
	})

	if err := RunMigrations(ctx, pool); err != nil {
		t.Fatal("Failed to run migrations in ephemeral schema:", err)
	}
	return pool
}

// RunMigrations applies production migrations through the database/sql bridge.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer closeQuietly(db)
	_, err := migrate.Run(ctx, db)
	return err
}

func closeQuietly(db *sql.DB) { _ = db.Close() }

// generateSchemaName creates a lowercase alphanumeric schema name with prefix.
func generateSchemaName() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("t_%d", time.Now().UnixNano())
	}
	return "t_" + hex.EncodeToString(b)
}

// NewMiniRedis starts an in-process Redis and a client pointed at it. Both
// are closed on cleanup.
func NewMiniRedis(t TestingTB) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal("Failed to start miniredis:", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

// SeedSession stores rec as JSON under "AX:"+cookie with the given TTL and
// returns the key.
func SeedSession(t TestingTB, mr *miniredis.Miniredis, cookie string, rec domainauth.SessionRecord, ttl time.Duration) string {
	t.Helper()
	body, err := json.Marshal(rec)
	if err != nil {
		t.Fatal("marshal session:", err)
	}
	key := domainauth.SessionKey(domainauth.DefaultKeyPrefix, cookie)
	if err := mr.Set(key, string(body)); err != nil {
		t.Fatal("seed session:", err)
	}
	if ttl > 0 {
		mr.SetTTL(key, ttl)
	}
	return key
}

// SetupTestRedis connects to a real Redis for tests that need server
// behaviour miniredis lacks. The test is skipped when none is reachable.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()
	addr := getEnvOrDefault("REDIS_ADDR", "localhost:56379")
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if requireRedis() {
			t.Fatalf("Redis not available for testing at %s: %v", addr, err)
		}
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}
	client.FlushDB(ctx)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func requireDB() bool    { return envBool("TEST_REQUIRE_DB") || envBool("TEST_REQUIRE_INFRA") }
func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }

// StringPtr returns a pointer to the given string value.
func StringPtr(s string) *string { return &s }

// BoolPtr returns a pointer to the given bool value.
func BoolPtr(b bool) *bool { return &b }

// Int64Ptr returns a pointer to the given int64 value.
func Int64Ptr(i int64) *int64 { return &i }

// TestTime returns a fixed UTC time for deterministic tests.
func TestTime() time.Time {
	return time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)
}
