// Package config manages environment variables.
//
// It reads variables from the `.env` file and the process environment,
// loads them into structured Go types (struct), and
// validates that required values are present so they
// can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (rate limits, observability).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	// Side-effect import: if a `.env` file exists in the working directory,
	// it gets loaded into the process env before any config is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix every environment variable read by the service carries.
const EnvPrefix = "CONTACT_"

/*
	Key mapping:
	- Env vars are read using the CONTACT_ prefix
	- Keys are lower-cased and the prefix is removed
	- A double underscore marks a nesting level, so single underscores
	  can stay inside field names:
	    CONTACT_MAIL__DEFAULT_SENDER_NAME -> mail.default_sender_name
	    CONTACT_OBSERVABILITY__NEW_RELIC__LICENSE_KEY -> observability.new_relic.license_key
*/

// Config is the root configuration object for the application.
//
// It is loaded once at startup and handed to constructors as an
// immutable value; nothing re-reads the environment per request.
type Config struct {
	Primary       Primary             `koanf:"primary" validate:"required"`
	Server        ServerConfig        `koanf:"server" validate:"required"`
	Mail          MailConfig          `koanf:"mail" validate:"required"`
	Redis         RedisConfig         `koanf:"redis"`
	Auth          AuthConfig          `koanf:"auth" validate:"required"`
	RateLimit     RateLimitConfig     `koanf:"rate_limit" validate:"required"`
	Observability ObservabilityConfig `koanf:"observability" validate:"required"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,min=1"`

	// TrustedProxies lists the CIDRs allowed to set X-Forwarded-For. Empty
	// means clients are identified by the socket peer address only.
	TrustedProxies []string `koanf:"trusted_proxies" validate:"omitempty,dive,cidr"`
}

// MailConfig describes the SMTP relay and the fixed addressing of contact emails.
//
// Recipient is the single inbox every submission is delivered to. It never
// comes from the submission itself.
type MailConfig struct {
	Server             string `koanf:"server" validate:"required"`
	Port               int    `koanf:"port" validate:"required,min=1,max=65535"`
	UseTLS             bool   `koanf:"use_tls"`
	UseSSL             bool   `koanf:"use_ssl"`
	Username           string `koanf:"username"`
	Password           string `koanf:"password"`
	DefaultSenderName  string `koanf:"default_sender_name"`
	DefaultSenderEmail string `koanf:"default_sender_email" validate:"required"`
	Recipient          string `koanf:"recipient" validate:"required"`

	// ReplyToSubmitter sets Reply-To to the address typed into the form.
	ReplyToSubmitter bool `koanf:"reply_to_submitter"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port"; empty means rate limits are kept in process memory.
type RedisConfig struct {
	Address  string `koanf:"address"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// Enabled reports whether a Redis server was configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// AuthConfig stores application secrets.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required"`
}

// RateLimitConfig holds the two per-client-IP policies.
//
// Global applies to every API route, Contact only to POST /api/contact.
// Windows are parsed as durations ("1h", "1m").
type RateLimitConfig struct {
	GlobalLimit   int           `koanf:"global_limit" validate:"min=1"`
	GlobalWindow  time.Duration `koanf:"global_window" validate:"min=1s"`
	ContactLimit  int           `koanf:"contact_limit" validate:"min=1"`
	ContactWindow time.Duration `koanf:"contact_window" validate:"min=1s"`
}

// Default returns a Config holding every default value. Env values are
// layered on top of it by LoadConfig.
func Default() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "8080",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
		},
		Mail: MailConfig{
			Port: 587,
		},
		RateLimit: RateLimitConfig{
			GlobalLimit:   5,
			GlobalWindow:  time.Hour,
			ContactLimit:  2,
			ContactWindow: time.Minute,
		},
		Observability: *DefaultObservabilityConfig(),
	}
}

// LoadConfig loads configuration from environment variables, unmarshals it on
// top of the defaults, validates it and returns the resulting config.
//
// Behavior summary:
//   - Loads env vars with prefix CONTACT_
//   - Converts env keys into koanf keys ("__" is the nesting delimiter)
//   - Unmarshals into a Config pre-filled with Default()
//   - Validates struct tags, then observability rules
//   - Forces observability service name + environment
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := Default()

	// Unmarshal only overwrites keys that are present, so defaults survive.
	// List values are comma separated in env vars.
	err = k.UnmarshalWithConf("", mainConfig, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			Result:           mainConfig,
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Mail.UseTLS && mainConfig.Mail.UseSSL {
		return nil, fmt.Errorf("config validation failed: mail.use_tls and mail.use_ssl are mutually exclusive")
	}

	// Service name and environment are not user-configurable so telemetry
	// stays consistently labeled.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// envKey maps CONTACT_MAIL__DEFAULT_SENDER_NAME to mail.default_sender_name.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}
