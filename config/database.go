package config

import (
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	// DSN, when set, takes precedence over the discrete fields below.
	DSN      string `env:"DSN"`
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"postgres"`
	Password string `env:"PASSWORD" envDefault:""`
	Name     string `env:"DB"       envDefault:"postgres"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production

	PoolMin int `env:"POOL_MIN" envDefault:"1"`
	PoolMax int `env:"POOL_MAX" envDefault:"5"`
}

// Sanitize clamps pool sizes and normalises the DSN scheme.
func (c *DBConfig) Sanitize() {
	if c.PoolMin < 1 {
		c.PoolMin = 1
	}
	if c.PoolMax < c.PoolMin {
		c.PoolMax = c.PoolMin
	}
	c.DSN = strings.TrimSpace(c.DSN)
	if strings.HasPrefix(c.DSN, "postgresql://") {
		c.DSN = "postgres://" + strings.TrimPrefix(c.DSN, "postgresql://")
	}
}

// ConnString returns the pgx connection string.
func (c DBConfig) ConnString() string {
	if c.DSN != "" {
		return c.DSN
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Name,
	}
	switch {
	case c.User != "" && c.Password != "":
		u.User = url.UserPassword(c.User, c.Password)
	case c.User != "":
		u.User = url.User(c.User)
	}
	if c.SSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(c.SSLMode)
	}
	return u.String()
}

// MaskedConnString returns ConnString with any password replaced by "***".
func (c DBConfig) MaskedConnString() string {
	return MaskDSN(c.ConnString())
}

// MaskDSN hides the password component of a URL-style DSN.
func MaskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); !ok {
		return dsn
	}
	u.User = url.UserPassword(u.User.Username(), "***")
	// url.URL escapes '*' in userinfo; restore it for readability.
	return strings.Replace(u.String(), "%2A%2A%2A", "***", 1)
}

// RedisConfig contains Redis configuration for the shared SSO session store.
type RedisConfig struct {
	Host        string `env:"HOST"         envDefault:"localhost"`
	Port        int    `env:"PORT"         envDefault:"6379"`
	DB          int    `env:"DB"           envDefault:"0"`
	Password    string `env:"PASSWORD"     envDefault:""`
	ClusterMode bool   `env:"CLUSTER_MODE" envDefault:"false"`

	// ClusterNodes overrides the single Host:Port seed when running against a cluster.
	ClusterNodes []string `env:"CLUSTER_NODES" envDefault:""`

	PoolSize     int           `env:"POOL_SIZE"     envDefault:"20"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT"  envDefault:"5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT"  envDefault:"3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"3s"`

	// RefreshDrain is how long a replaced client stays open after a pool refresh.
	RefreshDrain time.Duration `env:"REFRESH_DRAIN" envDefault:"5s"`
}

// Sanitize applies guardrails to Redis values.
func (c *RedisConfig) Sanitize() {
	c.Host = strings.TrimSpace(c.Host)
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.PoolSize <= 0 {
		c.PoolSize = 20
	}
	if c.RefreshDrain < 0 {
		c.RefreshDrain = 0
	}
	nodes := c.ClusterNodes[:0]
	for _, n := range c.ClusterNodes {
		if n = strings.TrimSpace(n); n != "" {
			nodes = append(nodes, n)
		}
	}
	c.ClusterNodes = nodes
}

// Addr returns host:port.
func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Seeds returns the cluster seed addresses, falling back to Addr.
func (c RedisConfig) Seeds() []string {
	if len(c.ClusterNodes) > 0 {
		return c.ClusterNodes
	}
	return []string{c.Addr()}
}
