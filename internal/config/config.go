// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerPort                = 8080
	defaultServerHost                = "0.0.0.0"
	defaultReadTimeout               = 30 * time.Second
	defaultWriteTimeout              = 30 * time.Second
	defaultRequestTimeout            = 5 * time.Second
	defaultDatabaseDriver            = DriverPostgres
	defaultDatabasePath              = "./data/lyra.db"
	defaultDatabaseConnectionTimeout = 5 * time.Second
	defaultDatabaseRole              = "authenticated"
	defaultMigrationsPath            = "file://./migrations"
	defaultAuthIssuer                = "lyra"
	defaultAccessTTL                 = time.Hour
	defaultRefreshTTL                = 30 * 24 * time.Hour
	defaultBcryptCost                = 10
	defaultLogLevel                  = "info"
	defaultLogPretty                 = false
	envPrefix                        = "LYRA"

	minJWTSecretBytes = 32
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var roleNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int
	Host           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
}

// DatabaseConfig holds database connection configuration.
// Role is the database role assumed inside every request-scoped transaction.
type DatabaseConfig struct {
	Driver            string
	URL               string
	Path              string
	ConnectionTimeout time.Duration
	Role              string
	MigrationsPath    string
	AutoMigrate       bool
}

// AuthConfig holds token signing and password hashing settings
type AuthConfig struct {
	JWTSecret  string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	BcryptCost int
}

// RedisConfig holds the connection settings for the token revocation store.
// An empty Addr disables revocation.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// RevocationEnabled reports whether a revocation store is configured
func (c RedisConfig) RevocationEnabled() bool {
	return strings.TrimSpace(c.Addr) != ""
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	// .env files are optional in production and CI where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/lyra")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Keys without defaults are invisible to Unmarshal unless bound explicitly
	for _, key := range []string{"database.url", "auth.jwtsecret", "redis.addr", "redis.password"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.readtimeout", defaultReadTimeout)
	v.SetDefault("server.writetimeout", defaultWriteTimeout)
	v.SetDefault("server.requesttimeout", defaultRequestTimeout)

	v.SetDefault("database.driver", defaultDatabaseDriver)
	v.SetDefault("database.path", defaultDatabasePath)
	v.SetDefault("database.connectiontimeout", defaultDatabaseConnectionTimeout)
	v.SetDefault("database.role", defaultDatabaseRole)
	v.SetDefault("database.migrationspath", defaultMigrationsPath)
	v.SetDefault("database.automigrate", false)

	v.SetDefault("auth.issuer", defaultAuthIssuer)
	v.SetDefault("auth.accessttl", defaultAccessTTL)
	v.SetDefault("auth.refreshttl", defaultRefreshTTL)
	v.SetDefault("auth.bcryptcost", defaultBcryptCost)

	v.SetDefault("redis.db", 0)

	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout: %v (must be > 0)", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("invalid write timeout: %v (must be > 0)", c.Server.WriteTimeout)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("invalid request timeout: %v (must be > 0)", c.Server.RequestTimeout)
	}
	if c.Database.ConnectionTimeout <= 0 {
		return fmt.Errorf("invalid database connection timeout: %v (must be > 0)", c.Database.ConnectionTimeout)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if strings.TrimSpace(c.Database.URL) == "" {
			return errors.New("database url is required for the postgres driver")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.Database.Path) == "" {
			return errors.New("database path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("invalid database driver: %s (must be one of: %s, %s)", c.Database.Driver, DriverPostgres, DriverSQLite)
	}

	if c.Database.Role != "" && !roleNamePattern.MatchString(c.Database.Role) {
		return fmt.Errorf("invalid database role: %q", c.Database.Role)
	}

	if len(c.Auth.JWTSecret) < minJWTSecretBytes {
		return fmt.Errorf("auth jwt secret must be at least %d characters", minJWTSecretBytes)
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		return errors.New("auth token lifetimes must be > 0")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("invalid bcrypt cost: %d (must be between 4 and 31)", c.Auth.BcryptCost)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}

	return nil
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
