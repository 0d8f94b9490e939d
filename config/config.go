// Package config loads the service settings from the environment, after
// merging an optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store and sequence drivers
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Mail drivers
const (
	MailLog      = "log"
	MailPostmark = "postmark"
	MailSendgrid = "sendgrid"
)

// Config holds every setting of the API
type Config struct {
	Port   string `envconfig:"PORT" default:"5000"`
	AppEnv string `envconfig:"APP_ENV" default:"local"`

	MongoURI    string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDB     string `envconfig:"MONGO_DB" default:"Aruth"`
	StoreDriver string `envconfig:"STORE_DRIVER" default:"mongo"`

	SequenceDriver string `envconfig:"SEQUENCE_DRIVER" default:"mongo"`
	RedisAddr      string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword  string `envconfig:"REDIS_PASSWORD"`

	AccessToken string        `envconfig:"ACCESS_TOKEN" required:"true"`
	TokenTTL    time.Duration `envconfig:"TOKEN_TTL" default:"8760h"`

	MailDriver       string `envconfig:"MAIL_DRIVER" default:"log"`
	PostmarkAPIToken string `envconfig:"POSTMARK_API_TOKEN"`
	SendgridAPIKey   string `envconfig:"SENDGRID_API_KEY"`
	EmailSender      string `envconfig:"EMAIL_SENDER" default:"no-reply@aruth.shop"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects unknown drivers and drivers missing their credentials.
func (c Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case DriverMongo, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q is not one of mongo, memory", c.StoreDriver))
	}

	switch c.SequenceDriver {
	case DriverMongo, DriverRedis:
	default:
		errs = append(errs, fmt.Errorf("SEQUENCE_DRIVER %q is not one of mongo, redis", c.SequenceDriver))
	}

	switch c.MailDriver {
	case MailLog:
	case MailPostmark:
		if c.PostmarkAPIToken == "" {
			errs = append(errs, errors.New("POSTMARK_API_TOKEN is required by the postmark mail driver"))
		}
	case MailSendgrid:
		if c.SendgridAPIKey == "" {
			errs = append(errs, errors.New("SENDGRID_API_KEY is required by the sendgrid mail driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("MAIL_DRIVER %q is not one of log, postmark, sendgrid", c.MailDriver))
	}

	if strings.TrimSpace(c.AccessToken) == "" {
		errs = append(errs, errors.New("ACCESS_TOKEN must not be blank"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Production reports whether the service runs in production.
func (c Config) Production() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}
