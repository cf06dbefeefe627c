package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Mail     MailConfig     `yaml:"mail"`
	Database DatabaseConfig `yaml:"database"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port int `yaml:"port"`
	// AllowedRedirectOrigins lists the absolute-URL origins the contact
	// form may redirect to. Relative paths are always allowed.
	AllowedRedirectOrigins []string `yaml:"allowed_redirect_origins"`
}

// MailConfig holds SMTP relay credentials and routing
type MailConfig struct {
	SMTPHost  string `yaml:"smtp_host"`
	SMTPPort  int    `yaml:"smtp_port"`
	User      string `yaml:"user"`
	Pass      string `yaml:"pass"`
	Recipient string `yaml:"recipient"`
}

// DatabaseConfig holds MySQL connection parameters
type DatabaseConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
	Name string `yaml:"name"`
}

// DSN builds a go-sql-driver connection string. parseTime is required so
// createdAt columns scan into time.Time.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", d.User, d.Pass, d.Host, d.Port, d.Name)
}

// Load reads configuration from a YAML file and applies defaults.
// An empty path skips the file and yields defaults only.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Mail.SMTPHost == "" {
		cfg.Mail.SMTPHost = "smtp.gmail.com"
	}
	if cfg.Mail.SMTPPort == 0 {
		cfg.Mail.SMTPPort = 587
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 3306
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "root"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "contact"
	}

	return &cfg, nil
}

// LoadFromEnv loads config from an optional YAML file, then overrides with
// environment variables
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables if present
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		cfg.Server.Port = p
	}
	if origins := os.Getenv("ALLOWED_REDIRECT_ORIGINS"); origins != "" {
		cfg.Server.AllowedRedirectOrigins = splitAndTrim(origins)
	}
	if user := os.Getenv("GMAIL_USER"); user != "" {
		cfg.Mail.User = user
	}
	if pass := os.Getenv("GMAIL_PASS"); pass != "" {
		cfg.Mail.Pass = pass
	}
	if recipient := os.Getenv("CONTACT_RECIPIENT"); recipient != "" {
		cfg.Mail.Recipient = recipient
	}
	if host := os.Getenv("SMTP_HOST"); host != "" {
		cfg.Mail.SMTPHost = host
	}
	if port := os.Getenv("SMTP_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", port, err)
		}
		cfg.Mail.SMTPPort = p
	}
	if host := os.Getenv("MYSQL_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if user := os.Getenv("MYSQL_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("MYSQL_PASS"); pass != "" {
		cfg.Database.Pass = pass
	}
	if name := os.Getenv("MYSQL_DB"); name != "" {
		cfg.Database.Name = name
	}

	if err := cfg.Mail.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects a partially configured mail block. All-empty is allowed
// so the server can run without an outbound relay in development.
func (m MailConfig) validate() error {
	if m.User == "" && m.Pass == "" && m.Recipient == "" {
		return nil
	}
	if m.User == "" || m.Pass == "" || m.Recipient == "" {
		return errors.New("mail config requires GMAIL_USER, GMAIL_PASS and CONTACT_RECIPIENT together")
	}
	return nil
}

// Enabled reports whether the relay has credentials to send with
func (m MailConfig) Enabled() bool {
	return m.User != "" && m.Pass != "" && m.Recipient != ""
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
