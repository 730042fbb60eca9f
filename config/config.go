package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	Users     []User          `yaml:"users"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// DSN renders the gorm postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		d.Host, d.User, d.Password, d.Name, d.Port)
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	DryRun   bool   `yaml:"dry_run"`
}

type SchedulerConfig struct {
	// Spec is a standard 5-field cron expression.
	Spec string `yaml:"spec"`
	// Retries bounds how often a failed pass is re-attempted before the
	// job is marked failed until the next cycle.
	Retries        int `yaml:"retries"`
	RetryDelaySecs int `yaml:"retry_delay_secs"`
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// GetEnv returns an environment variable or the fallback.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Load reads the yaml file (a missing file is fine, env and defaults
// take over) and applies env overrides and defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8081
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = GetEnv("PGHOST", "localhost")
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = GetEnv("PGPORT", "5432")
	}
	if cfg.Database.User == "" {
		cfg.Database.User = GetEnv("PGUSER", "postgres")
	}
	if cfg.Database.Password == "" {
		cfg.Database.Password = GetEnv("PGPWD", "")
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = GetEnv("PGDB", "registry")
	}

	if cfg.SMTP.Host == "" {
		cfg.SMTP.Host = GetEnv("SMTP_HOST", "localhost")
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = GetEnv("SMTP_FROM", "registry@localhost")
	}

	if cfg.Scheduler.Spec == "" {
		cfg.Scheduler.Spec = "0 2 * * *" // daily at 02:00
	}
	if cfg.Scheduler.Retries == 0 {
		cfg.Scheduler.Retries = 3
	}
	if cfg.Scheduler.RetryDelaySecs == 0 {
		cfg.Scheduler.RetryDelaySecs = 60
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = GetEnv("JWT_SECRET", "")
	}
	if cfg.Auth.TokenExpireHours == 0 {
		cfg.Auth.TokenExpireHours = 24
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
