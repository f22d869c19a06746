package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Env string `mapstructure:"env"`

	// Server. The adapter is local-only and binds to loopback by default.
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`

	// Database
	DBDriver   string `mapstructure:"db_driver"`
	DBPath     string `mapstructure:"db_path"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSSLMode  string `mapstructure:"db_sslmode"`

	// Bearer tokens are issued by the external identity provider and only
	// verified here.
	JWTSecret string `mapstructure:"jwt_secret"`

	// Maintenance endpoints stay disabled while empty.
	InternalAPIKey string `mapstructure:"internal_api_key"`

	// Optional activity fan-out
	AMQPURL      string `mapstructure:"amqp_url"`
	AMQPExchange string `mapstructure:"amqp_exchange"`
	AMQPQueue    string `mapstructure:"amqp_queue"`

	SummaryCacheSize  int           `mapstructure:"summary_cache_size"`
	SummaryCacheTTL   time.Duration `mapstructure:"summary_cache_ttl"`
	RecurringInterval time.Duration `mapstructure:"recurring_interval"`
}

var defaults = map[string]any{
	"env":                "development",
	"host":               "127.0.0.1",
	"port":               "8080",
	"db_driver":          "sqlite",
	"db_path":            "pennyplan.db",
	"db_host":            "localhost",
	"db_port":            "5432",
	"db_user":            "pennyplan",
	"db_password":        "pennyplan",
	"db_name":            "pennyplan",
	"db_sslmode":         "disable",
	"jwt_secret":         "fallback-secret-key-for-dev-only",
	"internal_api_key":   "",
	"amqp_url":           "",
	"amqp_exchange":      "pennyplan",
	"amqp_queue":         "activity",
	"summary_cache_size": 256,
	"summary_cache_ttl":  "10m",
	"recurring_interval": "1h",
}

// Load reads .env (if present), then an optional YAML file named by
// PENNYPLAN_CONFIG, then environment variables. Later sources win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only covers keys viper already knows about; BindEnv makes
	// the upper-case names explicit.
	for k := range defaults {
		_ = v.BindEnv(k, strings.ToUpper(k))
	}

	if path := v.GetString("pennyplan_config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the services cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (use sqlite or postgres)", c.DBDriver)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.SummaryCacheSize < 1 {
		return fmt.Errorf("SUMMARY_CACHE_SIZE must be positive, got %d", c.SummaryCacheSize)
	}
	if c.RecurringInterval <= 0 {
		return fmt.Errorf("RECURRING_INTERVAL must be positive, got %s", c.RecurringInterval)
	}
	return nil
}

// Addr is the listen address for the HTTP adapter.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// PostgresDSN is the gorm connection string for DB_DRIVER=postgres.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// PostgresURL is the migrate-style URL for DB_DRIVER=postgres.
func (c *Config) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}
