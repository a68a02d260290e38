package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type SMTPConfig struct {
	Host      string `yaml:"host"`
	Port      string `yaml:"port"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	Sender    string `yaml:"sender"`
	Recipient string `yaml:"recipient"`
}

type Config struct {
	Port          string
	DBPath        string
	CheckInterval time.Duration
	Workers       int
	FetchTimeout  time.Duration
	SMTP          SMTPConfig
}

// fileConfig mirrors Config for YAML decoding. Durations are strings in the
// file ("30m", "1h") and parsed during merge.
type fileConfig struct {
	Port          string     `yaml:"port"`
	DBPath        string     `yaml:"db_path"`
	CheckInterval string     `yaml:"check_interval"`
	Workers       int        `yaml:"workers"`
	FetchTimeout  string     `yaml:"fetch_timeout"`
	SMTP          SMTPConfig `yaml:"smtp"`
}

// Load builds the configuration from defaults, then an optional YAML file
// named by CONFIG_FILE, then environment variables. Later sources win.
func Load() (Config, error) {
	cfg := Config{
		Port:          "8080",
		DBPath:        "pricetracker.db",
		CheckInterval: time.Hour,
		Workers:       1,
		FetchTimeout:  10 * time.Second,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return cfg, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.CheckInterval = getEnvDuration("CHECK_INTERVAL", cfg.CheckInterval)
	cfg.Workers = getEnvInt("WORKERS", cfg.Workers)
	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", cfg.FetchTimeout)

	cfg.SMTP.Host = getEnv("SMTP_HOST", cfg.SMTP.Host)
	cfg.SMTP.Port = getEnv("SMTP_PORT", cfg.SMTP.Port)
	cfg.SMTP.Username = getEnv("SMTP_USER", cfg.SMTP.Username)
	cfg.SMTP.Password = getEnv("SMTP_PASSWORD", cfg.SMTP.Password)
	cfg.SMTP.Sender = getEnv("SENDER_EMAIL", cfg.SMTP.Sender)
	cfg.SMTP.Recipient = getEnv("ALERT_RECIPIENT_EMAIL", cfg.SMTP.Recipient)

	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var fc fileConfig
	if err := yaml.NewDecoder(f).Decode(&fc); err != nil {
		return fmt.Errorf("decode config file: %w", err)
	}

	if fc.Port != "" {
		cfg.Port = fc.Port
	}
	if fc.DBPath != "" {
		cfg.DBPath = fc.DBPath
	}
	if fc.Workers > 0 {
		cfg.Workers = fc.Workers
	}
	if fc.CheckInterval != "" {
		d, err := time.ParseDuration(fc.CheckInterval)
		if err != nil || d <= 0 {
			return fmt.Errorf("config file: invalid check_interval %q", fc.CheckInterval)
		}
		cfg.CheckInterval = d
	}
	if fc.FetchTimeout != "" {
		d, err := time.ParseDuration(fc.FetchTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("config file: invalid fetch_timeout %q", fc.FetchTimeout)
		}
		cfg.FetchTimeout = d
	}
	cfg.SMTP = mergeSMTP(cfg.SMTP, fc.SMTP)

	return nil
}

func mergeSMTP(base, override SMTPConfig) SMTPConfig {
	if override.Host != "" {
		base.Host = override.Host
	}
	if override.Port != "" {
		base.Port = override.Port
	}
	if override.Username != "" {
		base.Username = override.Username
	}
	if override.Password != "" {
		base.Password = override.Password
	}
	if override.Sender != "" {
		base.Sender = override.Sender
	}
	if override.Recipient != "" {
		base.Recipient = override.Recipient
	}
	return base
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
