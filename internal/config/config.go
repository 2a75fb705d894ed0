// Package config handles application configuration. Values are layered from
// built-in defaults, an optional YAML file named by INTAKE_CONFIG, a .env file
// and the process environment, in increasing precedence.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/wattgod/training-plans-component/internal/model"
)

// Email providers.
const (
	ProviderSendGrid = "sendgrid"
	ProviderSES      = "ses"
)

// Config holds all configurable values for the app.
type Config struct {
	Env            string
	Addr           string
	AllowedOrigins []string
	SchemaVersion  model.SchemaVersion
	BlockedDomains []string

	NotificationEmail string
	FromEmail         string
	FromName          string
	EmailProvider     string
	SendGridAPIKey    string
	SendGridBaseURL   string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	GitHubToken       string
	GitHubRepo        string
	GitHubAPIURL      string
	DispatchEventType string

	NotifyTimeout   time.Duration
	ShutdownTimeout time.Duration
}

var defaults = map[string]string{
	"env":                   "development",
	"addr":                  ":8080",
	"allowed_origins":       "https://gravelgodcycling.com,https://wattgod.github.io",
	"schema_version":        "3",
	"from_email":            "plans@gravelgodcycling.com",
	"from_name":             "Gravel God Training",
	"email_provider":        ProviderSendGrid,
	"sendgrid_base_url":     "https://api.sendgrid.com/v3",
	"aws_region":            "us-east-1",
	"github_repo":           "wattgod/training-plans-component",
	"github_api_url":        "https://api.github.com",
	"dispatch_event_type":   "training-plan-request",
	"notify_timeout":        "10s",
	"shutdown_timeout":      "10s",
	"notification_email":    "",
	"sendgrid_api_key":      "",
	"aws_access_key_id":     "",
	"aws_secret_access_key": "",
	"github_token":          "",
	"blocked_domains":       "",
}

// Load reads configuration and populates a Config struct. It panics on
// values that cannot be parsed.
func Load() *Config {
	_ = godotenv.Load()

	k := koanf.New(".")
	if path := os.Getenv("INTAKE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			log.Panicf("Invalid INTAKE_CONFIG %s: %v", path, err)
		}
	}

	// Only known keys are taken from the environment: ALLOWED_ORIGINS -> allowed_origins.
	envProvider := env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if _, ok := defaults[key]; !ok {
			return ""
		}
		return key
	})
	if err := k.Load(envProvider, nil); err != nil {
		log.Panicf("Invalid environment: %v", err)
	}

	schema, err := model.ParseSchemaVersion(get(k, "schema_version"))
	if err != nil {
		log.Panicf("Invalid SCHEMA_VERSION: %v", err)
	}

	provider := strings.ToLower(get(k, "email_provider"))
	if provider != ProviderSendGrid && provider != ProviderSES {
		log.Panicf("Invalid EMAIL_PROVIDER: %q", provider)
	}

	return &Config{
		Env:                get(k, "env"),
		Addr:               get(k, "addr"),
		AllowedOrigins:     getList(k, "allowed_origins"),
		SchemaVersion:      schema,
		BlockedDomains:     getList(k, "blocked_domains"),
		NotificationEmail:  get(k, "notification_email"),
		FromEmail:          get(k, "from_email"),
		FromName:           get(k, "from_name"),
		EmailProvider:      provider,
		SendGridAPIKey:     get(k, "sendgrid_api_key"),
		SendGridBaseURL:    strings.TrimRight(get(k, "sendgrid_base_url"), "/"),
		AWSRegion:          get(k, "aws_region"),
		AWSAccessKeyID:     get(k, "aws_access_key_id"),
		AWSSecretAccessKey: get(k, "aws_secret_access_key"),
		GitHubToken:        get(k, "github_token"),
		GitHubRepo:         get(k, "github_repo"),
		GitHubAPIURL:       strings.TrimRight(get(k, "github_api_url"), "/"),
		DispatchEventType:  get(k, "dispatch_event_type"),
		NotifyTimeout:      getDuration(k, "notify_timeout"),
		ShutdownTimeout:    getDuration(k, "shutdown_timeout"),
	}
}

// EmailEnabled reports whether delivery credentials for the configured
// provider are present.
func (c *Config) EmailEnabled() bool {
	if c.NotificationEmail == "" {
		return false
	}
	switch c.EmailProvider {
	case ProviderSES:
		return c.AWSAccessKeyID != "" && c.AWSSecretAccessKey != ""
	default:
		return c.SendGridAPIKey != ""
	}
}

// AutomationEnabled reports whether the repository trigger is configured.
func (c *Config) AutomationEnabled() bool {
	return c.GitHubToken != "" && c.GitHubRepo != ""
}

func get(k *koanf.Koanf, key string) string {
	if v := strings.TrimSpace(k.String(key)); v != "" {
		return v
	}
	return defaults[key]
}

// getList accepts a comma-separated string or, from YAML, a list. A blank
// value falls back to the default.
func getList(k *koanf.Koanf, key string) []string {
	var items []string
	switch v := k.Get(key).(type) {
	case []interface{}:
		for _, item := range v {
			items = append(items, fmt.Sprint(item))
		}
	default:
		raw := ""
		if v != nil {
			raw = strings.TrimSpace(fmt.Sprint(v))
		}
		if raw == "" {
			raw = defaults[key]
		}
		items = strings.Split(raw, ",")
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getDuration(k *koanf.Koanf, key string) time.Duration {
	d, err := time.ParseDuration(get(k, key))
	if err != nil {
		log.Panicf("Invalid %s: %v", strings.ToUpper(key), err)
	}
	return d
}
