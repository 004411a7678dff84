package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Capability CapabilityConfig `mapstructure:"capability"`
	Ledger     LedgerConfig     `mapstructure:"ledger"`
	Quota      QuotaConfig      `mapstructure:"quota"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// DSN returns the database connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration. An empty address disables Redis and
// every feature that depends on it.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CapabilityConfig holds configuration for the external generative capability.
type CapabilityConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	APIKey           string        `mapstructure:"api_key"`
	TextModel        string        `mapstructure:"text_model"`
	SpeechModel      string        `mapstructure:"speech_model"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
	BreakerInterval  time.Duration `mapstructure:"breaker_interval"`
	BreakerTimeout   time.Duration `mapstructure:"breaker_timeout"`
}

// LedgerConfig holds usage ledger configuration.
type LedgerConfig struct {
	InitialGrant int64 `mapstructure:"initial_grant"`
	EnhanceCost  int64 `mapstructure:"enhance_cost"`
	GenerateCost int64 `mapstructure:"generate_cost"`
	SpeechCost   int64 `mapstructure:"speech_cost"`
}

// QuotaConfig holds the daily request cap. Zero disables the cap.
type QuotaConfig struct {
	DailyRequestLimit int64 `mapstructure:"daily_request_limit"`
}

// AuthConfig holds authentication configuration for the admin surface.
type AuthConfig struct {
	AdminSecret      string        `mapstructure:"admin_secret"`
	AdminTokenExpiry time.Duration `mapstructure:"admin_token_expiry"`
}

// StorageConfig holds object storage configuration for the audio archive.
// An empty bucket disables archiving.
type StorageConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Bucket          string `mapstructure:"bucket"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EnvCapabilityAPIKey is the environment variable holding the capability
// credential. The capability factory re-reads it on every construction
// attempt, so a credential provided after boot takes effect without a
// restart.
const EnvCapabilityAPIKey = "SCIZOR_CAPABILITY_API_KEY"

// Load loads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Set config file name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/scizor")

	// Set defaults
	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found, use defaults and env
	}

	// Read from environment variables
	v.SetEnvPrefix("SCIZOR")
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Override with environment variables for sensitive values
	if key := os.Getenv(EnvCapabilityAPIKey); key != "" {
		cfg.Capability.APIKey = key
	}
	if secret := os.Getenv("SCIZOR_ADMIN_SECRET"); secret != "" {
		cfg.Auth.AdminSecret = secret
	}
	if password := os.Getenv("SCIZOR_DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}
	if password := os.Getenv("SCIZOR_REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if key := os.Getenv("SCIZOR_STORAGE_SECRET_KEY"); key != "" {
		cfg.Storage.SecretAccessKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration values that have no sensible fallback.
func (c *Config) Validate() error {
	if c.Ledger.InitialGrant < 0 {
		return fmt.Errorf("ledger.initial_grant must not be negative")
	}
	if c.Ledger.EnhanceCost <= 0 || c.Ledger.GenerateCost <= 0 || c.Ledger.SpeechCost <= 0 {
		return fmt.Errorf("ledger operation costs must be positive")
	}
	if c.Capability.RequestTimeout <= 0 {
		return fmt.Errorf("capability.request_timeout must be positive")
	}
	return nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.address", ":5000")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.database", "scizor")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 30*time.Minute)

	// Redis defaults: disabled unless an address is configured
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.db", 0)

	// Capability defaults
	v.SetDefault("capability.base_url", "https://api.openai.com/v1")
	v.SetDefault("capability.text_model", "gpt-4o-mini")
	v.SetDefault("capability.speech_model", "tts-1")
	v.SetDefault("capability.request_timeout", 30*time.Second)
	v.SetDefault("capability.failure_threshold", 5)
	v.SetDefault("capability.breaker_interval", 60*time.Second)
	v.SetDefault("capability.breaker_timeout", 30*time.Second)

	// Ledger defaults
	v.SetDefault("ledger.initial_grant", 20)
	v.SetDefault("ledger.enhance_cost", 1)
	v.SetDefault("ledger.generate_cost", 1)
	v.SetDefault("ledger.speech_cost", 1)

	// Quota defaults: no daily cap unless configured
	v.SetDefault("quota.daily_request_limit", 0)

	// Auth defaults
	v.SetDefault("auth.admin_token_expiry", time.Hour)

	// Storage defaults
	v.SetDefault("storage.region", "auto")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
