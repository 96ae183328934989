package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Loader defines the interface for loading configuration
type Loader interface {
	Load() (*Config, error)
	Validate(*Config) error
}

// ViperLoader implements Loader using Viper for configuration management
type ViperLoader struct {
	configFile string
	envPrefix  string
}

// NewViperLoader creates a new ViperLoader.
// configFile: path to configuration file (optional, can be empty)
// envPrefix: prefix for environment variables (e.g., "QUERYKIT")
func NewViperLoader(configFile, envPrefix string) *ViperLoader {
	return &ViperLoader{
		configFile: configFile,
		envPrefix:  envPrefix,
	}
}

// Load loads configuration with precedence: ENV > file > defaults
func (l *ViperLoader) Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	l.setDefaults(v, defaults)

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", l.configFile, err)
		}
	}

	v.SetEnvPrefix(l.envPrefix)
	l.bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults seeds viper with the baseline configuration values.
func (l *ViperLoader) setDefaults(v *viper.Viper, defaults Config) {
	v.SetDefault("logger.level", defaults.Logger.Level)
	v.SetDefault("logger.format", defaults.Logger.Format)

	v.SetDefault("postgres.max_open_conns", defaults.Postgres.MaxOpenConns)
	v.SetDefault("postgres.max_idle_conns", defaults.Postgres.MaxIdleConns)
	v.SetDefault("postgres.conn_max_lifetime", defaults.Postgres.ConnMaxLifetime)
	v.SetDefault("postgres.conn_max_idle_time", defaults.Postgres.ConnMaxIdleTime)

	v.SetDefault("mysql.max_open_conns", defaults.MySQL.MaxOpenConns)
	v.SetDefault("mysql.max_idle_conns", defaults.MySQL.MaxIdleConns)
	v.SetDefault("mysql.conn_max_lifetime", defaults.MySQL.ConnMaxLifetime)
	v.SetDefault("mysql.conn_max_idle_time", defaults.MySQL.ConnMaxIdleTime)

	v.SetDefault("mongodb.connect_timeout", defaults.MongoDB.ConnectTimeout)
	v.SetDefault("mongodb.operation_timeout", defaults.MongoDB.OperationTimeout)

	v.SetDefault("opensearch.max_conns", defaults.OpenSearch.MaxConns)
	v.SetDefault("opensearch.operation_timeout", defaults.OpenSearch.OperationTimeout)
}

// bindEnvVars explicitly binds environment variables for nested structs
func (l *ViperLoader) bindEnvVars(v *viper.Viper) {
	v.BindEnv("logger.level", l.prefixedEnv("LOG_LEVEL"))
	v.BindEnv("logger.format", l.prefixedEnv("LOG_FORMAT"))

	v.BindEnv("postgres.url", l.prefixedEnv("POSTGRES_URL"))
	v.BindEnv("postgres.max_open_conns", l.prefixedEnv("POSTGRES_MAX_OPEN_CONNS"))
	v.BindEnv("postgres.max_idle_conns", l.prefixedEnv("POSTGRES_MAX_IDLE_CONNS"))
	v.BindEnv("postgres.conn_max_lifetime", l.prefixedEnv("POSTGRES_CONN_MAX_LIFETIME"))
	v.BindEnv("postgres.conn_max_idle_time", l.prefixedEnv("POSTGRES_CONN_MAX_IDLE_TIME"))

	v.BindEnv("mysql.url", l.prefixedEnv("MYSQL_URL"))
	v.BindEnv("mysql.max_open_conns", l.prefixedEnv("MYSQL_MAX_OPEN_CONNS"))
	v.BindEnv("mysql.max_idle_conns", l.prefixedEnv("MYSQL_MAX_IDLE_CONNS"))
	v.BindEnv("mysql.conn_max_lifetime", l.prefixedEnv("MYSQL_CONN_MAX_LIFETIME"))
	v.BindEnv("mysql.conn_max_idle_time", l.prefixedEnv("MYSQL_CONN_MAX_IDLE_TIME"))

	v.BindEnv("mongodb.url", l.prefixedEnv("MONGODB_URL"))
	v.BindEnv("mongodb.database", l.prefixedEnv("MONGODB_DATABASE"))
	v.BindEnv("mongodb.connect_timeout", l.prefixedEnv("MONGODB_CONNECT_TIMEOUT"))
	v.BindEnv("mongodb.operation_timeout", l.prefixedEnv("MONGODB_OPERATION_TIMEOUT"))

	v.BindEnv("opensearch.url", l.prefixedEnv("OPENSEARCH_URL"))
	v.BindEnv("opensearch.username", l.prefixedEnv("OPENSEARCH_USERNAME"))
	v.BindEnv("opensearch.password", l.prefixedEnv("OPENSEARCH_PASSWORD"))
	v.BindEnv("opensearch.api_key", l.prefixedEnv("OPENSEARCH_API_KEY"))
	v.BindEnv("opensearch.max_conns", l.prefixedEnv("OPENSEARCH_MAX_CONNS"))
	v.BindEnv("opensearch.operation_timeout", l.prefixedEnv("OPENSEARCH_OPERATION_TIMEOUT"))
}

func (l *ViperLoader) prefixedEnv(name string) string {
	if l.envPrefix == "" {
		return name
	}
	return l.envPrefix + "_" + name
}

// Validate checks the loaded configuration for inconsistent values.
func (l *ViperLoader) Validate(cfg *Config) error {
	switch strings.ToLower(cfg.Logger.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid logger level %q", cfg.Logger.Level)
	}
	switch strings.ToLower(cfg.Logger.Format) {
	case "json", "text", "console":
	default:
		return fmt.Errorf("invalid logger format %q", cfg.Logger.Format)
	}

	if cfg.Postgres.MaxOpenConns < 0 || cfg.Postgres.MaxIdleConns < 0 {
		return fmt.Errorf("postgres connection pool sizes must not be negative")
	}
	if cfg.MySQL.MaxOpenConns < 0 || cfg.MySQL.MaxIdleConns < 0 {
		return fmt.Errorf("mysql connection pool sizes must not be negative")
	}
	if cfg.MongoDB.URL != "" && cfg.MongoDB.Database == "" {
		return fmt.Errorf("mongodb database is required when mongodb url is set")
	}
	if cfg.OpenSearch.MaxConns < 0 {
		return fmt.Errorf("opensearch max_conns must not be negative")
	}
	return nil
}
