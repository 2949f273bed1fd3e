package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Email    EmailConfig    `mapstructure:"email"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Identity IdentityConfig `mapstructure:"identity"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// EmailConfig holds SMTP and workflow addressing configuration.
// SendToDefault is the deployment-mode switch read by the workflow's
// recipient resolution.
type EmailConfig struct {
	SMTPHost         string `mapstructure:"smtp_host"`
	SMTPPort         int    `mapstructure:"smtp_port"`
	SMTPUsername     string `mapstructure:"smtp_username"`
	SMTPPassword     string `mapstructure:"smtp_password"`
	FromAddress      string `mapstructure:"from_address"`
	SendToDefault    bool   `mapstructure:"send_to_default"`
	DefaultToAddress string `mapstructure:"default_to_address"`
	DefaultCCAddress string `mapstructure:"default_cc_address"`
}

// QueueConfig holds outbound queue configuration
type QueueConfig struct {
	URL                 string `mapstructure:"url"`
	NotificationSubject string `mapstructure:"notification_subject"`
}

// IdentityConfig holds acting-user resolution configuration
type IdentityConfig struct {
	ServiceAccountEmail string `mapstructure:"service_account_email"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	viper.SetDefault("database.path", "data/seconnect.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	viper.SetDefault("email.smtp_port", 587)
	viper.SetDefault("email.send_to_default", false)

	viper.SetDefault("queue.url", "nats://127.0.0.1:4222")
	viper.SetDefault("queue.notification_subject", "workflow.tasks.notification")

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "console")
}

// bindEnvVars binds environment variable overrides
func bindEnvVars() {
	viper.BindEnv("database.path", "SECONNECT_DB_PATH")
	viper.BindEnv("email.smtp_host", "SECONNECT_SMTP_HOST")
	viper.BindEnv("email.smtp_username", "SECONNECT_SMTP_USERNAME")
	viper.BindEnv("email.smtp_password", "SECONNECT_SMTP_PASSWORD")
	viper.BindEnv("queue.url", "SECONNECT_QUEUE_URL")
}

// Validate checks required settings
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if !c.Email.SendToDefault {
		if c.Email.DefaultToAddress == "" {
			return fmt.Errorf("default to address is required when send_to_default is disabled")
		}
	}
	if c.Queue.NotificationSubject == "" {
		return fmt.Errorf("queue notification subject is required")
	}
	return nil
}
