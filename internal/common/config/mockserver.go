package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/amoylab/npipe-admin/internal/common/cnst"
	"github.com/amoylab/npipe-admin/pkg/trace"
)

type (
	// MockServerConfig represents the mock npipe backend configuration
	MockServerConfig struct {
		Port       int              `yaml:"port"`
		PID        string           `yaml:"pid"` // path of the PID file used by `mock-server stop`
		SuperAdmin SuperAdminConfig `yaml:"super_admin"`
		Database   DatabaseConfig   `yaml:"database"`
		Session    SessionConfig    `yaml:"session"`
		JWT        JWTConfig        `yaml:"jwt"`
		Auth       AuthConfig       `yaml:"auth"`
		Logger     LoggerConfig     `yaml:"logger"`
		Metrics    MetricsConfig    `yaml:"metrics"`
		Tracing    trace.Config     `yaml:"tracing"`
	}

	// SuperAdminConfig represents the super admin configuration
	SuperAdminConfig struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	}

	DatabaseConfig struct {
		Type     string `yaml:"type"`     // mysql, postgres, sqlite
		Host     string `yaml:"host"`     // localhost
		Port     int    `yaml:"port"`     // 3306 (for mysql), 5432 (for postgres)
		User     string `yaml:"user"`     // root (for mysql), postgres (for postgres)
		Password string `yaml:"password"` // password
		DBName   string `yaml:"dbname"`   // database name, file path for sqlite
		SSLMode  string `yaml:"sslmode"`  // disable (for postgres)
	}

	// SessionConfig represents the session storage configuration
	SessionConfig struct {
		Type  string             `yaml:"type"`  // "memory" or "redis"
		TTL   time.Duration      `yaml:"ttl"`   // lifetime of a login session
		Redis SessionRedisConfig `yaml:"redis"` // Redis configuration
	}

	// SessionRedisConfig represents the Redis configuration for session storage
	SessionRedisConfig struct {
		Addr     string `yaml:"addr"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	}

	JWTConfig struct {
		SecretKey string        `yaml:"secret_key"`
		Duration  time.Duration `yaml:"duration"`
	}

	// AuthConfig controls how the backend rejects requests without a valid session
	AuthConfig struct {
		// RejectWithStatus answers 401 instead of 200 with the session expired code
		RejectWithStatus bool `yaml:"reject_with_status"`
	}
)

func (c *MockServerConfig) setDefaults() {
	if c.Port == 0 {
		c.Port = 8120
	}
	if c.PID == "" {
		c.PID = "./data/mock-server.pid"
	}
	if c.SuperAdmin.Username == "" {
		c.SuperAdmin.Username = "admin"
	}
	if c.Database.Type == "" {
		c.Database.Type = cnst.DatabaseTypeSQLite
	}
	if c.Database.DBName == "" && c.Database.Type == cnst.DatabaseTypeSQLite {
		c.Database.DBName = "./data/npipe-mock.db"
	}
	if c.Session.Type == "" {
		c.Session.Type = cnst.SessionTypeMemory
	}
	c.Session.TTL = durationOr(c.Session.TTL, time.Hour)
	c.JWT.Duration = durationOr(c.JWT.Duration, c.Session.TTL)
	c.Metrics.setDefaults("npipe_mock")
	setTracingDefaults(&c.Tracing, cnst.MockServerName)
}

// Validate checks the mock server configuration
func (c *MockServerConfig) Validate() error {
	var errs []*ValidationError
	switch c.Session.Type {
	case cnst.SessionTypeMemory, cnst.SessionTypeRedis:
	default:
		errs = append(errs, newValidationError(cnst.ErrInvalidSessionType, "session.type"))
	}
	switch c.Database.Type {
	case cnst.DatabaseTypeSQLite, cnst.DatabaseTypeMySQL, cnst.DatabaseTypePostgres:
	default:
		errs = append(errs, newValidationError(cnst.ErrInvalidDatabaseType, "database.type"))
	}
	return joinValidationErrors(errs)
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case cnst.DatabaseTypePostgres:
		return c.getPostgresDSN()
	case cnst.DatabaseTypeMySQL:
		return c.getMySQLDSN()
	case cnst.DatabaseTypeSQLite:
		// Ensure the directory for the SQLite database exists.
		if err := os.MkdirAll(filepath.Dir(c.DBName), 0755); err != nil {
			panic(fmt.Errorf("failed to create directory for sqlite database: %w", err))
		}
		return c.DBName // For SQLite, DBName is the file path
	default:
		return ""
	}
}

// getPostgresDSN returns PostgreSQL connection string
func (c *DatabaseConfig) getPostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// getMySQLDSN returns MySQL connection string
func (c *DatabaseConfig) getMySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}
