package config

import (
	"flag"
	"fmt"
	"net/mail"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// maxUploadSizeMB keeps MaxUploadBytes well inside int64.
const maxUploadSizeMB = 1 << 20

type Config struct {
	// Server
	Port string
	Env  string // development, production

	// Message
	MailFrom       string
	MailRecipients []string

	// SMTP
	MailServer   string
	MailPort     int
	MailUsername string
	MailPassword string
	MailUseSSL   bool
	// Log outgoing mail instead of sending it.
	MailSuppressSend bool

	// Limits, zero disables
	MaxUploadSizeMB    int
	RateLimitPerMinute int
}

// Load reads configuration from the environment, an optional .env file and
// the given command line arguments.
func Load(args []string) (*Config, error) {
	// Load .env file if it exists (don't error if missing)
	_ = godotenv.Load()

	cfg := &Config{}

	fs := flag.NewFlagSet("logmailer", flag.ContinueOnError)
	fs.StringVar(&cfg.Port, "port", getEnv("PORT", "5000"), "Server port")
	fs.StringVar(&cfg.Env, "env", getEnv("ENV", "development"), "Environment (development, production)")

	cfg.MailFrom = getEnv("MAIL_FROM", "")
	cfg.MailRecipients = splitList(getEnv("MAIL_RECIPIENTS", ""))
	cfg.MailServer = getEnv("MAIL_SERVER", "localhost")
	cfg.MailUsername = getEnv("MAIL_USERNAME", "")
	cfg.MailPassword = getEnv("MAIL_PASSWORD", "")

	var err error
	if cfg.MailUseSSL, err = getEnvBool("MAIL_USE_SSL", false); err != nil {
		return nil, err
	}
	if cfg.MailSuppressSend, err = getEnvBool("MAIL_SUPPRESS_SEND", false); err != nil {
		return nil, err
	}
	if cfg.MailPort, err = getEnvInt("MAIL_PORT", 25); err != nil {
		return nil, err
	}
	if cfg.MaxUploadSizeMB, err = getEnvInt("MAX_UPLOAD_SIZE_MB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = getEnvInt("RATE_LIMIT_PER_MINUTE", 0); err != nil {
		return nil, err
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MailFrom == "" {
		return fmt.Errorf("MAIL_FROM is required")
	}
	if _, err := mail.ParseAddress(c.MailFrom); err != nil {
		return fmt.Errorf("MAIL_FROM %q: %w", c.MailFrom, err)
	}

	if len(c.MailRecipients) == 0 {
		return fmt.Errorf("MAIL_RECIPIENTS must name at least one address")
	}
	for _, rcpt := range c.MailRecipients {
		if _, err := mail.ParseAddress(rcpt); err != nil {
			return fmt.Errorf("MAIL_RECIPIENTS entry %q: %w", rcpt, err)
		}
	}

	if c.MailServer == "" && !c.MailSuppressSend {
		return fmt.Errorf("MAIL_SERVER is required unless MAIL_SUPPRESS_SEND is set")
	}
	if c.MailPort <= 0 || c.MailPort > 65535 {
		return fmt.Errorf("MAIL_PORT must be between 1 and 65535, got %d", c.MailPort)
	}

	if c.MaxUploadSizeMB < 0 || c.MaxUploadSizeMB > maxUploadSizeMB {
		return fmt.Errorf("MAX_UPLOAD_SIZE_MB must be between 0 and %d, got %d", maxUploadSizeMB, c.MaxUploadSizeMB)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// MaxUploadBytes returns the request body cap in bytes, or 0 when uploads are
// not capped.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadSizeMB) << 20
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return i, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

// splitList parses a comma-separated list, keeping order and dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
