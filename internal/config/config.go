package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	NOTIFIER_BACKEND_SES  = "ses"
	NOTIFIER_BACKEND_AMQP = "amqp"
)

type Config struct {
	Port          int    `env:"PORT" envDefault:"8080"`
	IsTestMode    bool   `env:"TEST_MODE" envDefault:"false"`
	Secret        string `env:"SECRET,required"`
	PostgresqlURL string `env:"POSTGRESQL_URL,required"`
	// MigrationsPath is only read by cmd/migrate.
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations"`

	BcryptHasherCost           int           `env:"BCRYPT_HASHER_COST" envDefault:"10"`
	PasswordResetValidDuration time.Duration `env:"PASSWORD_RESET_VALID_DURATION" envDefault:"1h"`
	PasswordResetBaseURL       url.URL       `env:"PASSWORD_RESET_BASE_URL" envDefault:"http://localhost:8080/#/outside/reset"`
	AuthTokenTTL               time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"24h"`

	MailRecoveryFrom     string `env:"MAIL_RECOVERY_FROM,required"`
	MailConfirmationFrom string `env:"MAIL_CONFIRMATION_FROM,required"`
	MailSubjectPrefix    string `env:"MAIL_SUBJECT_PREFIX"`

	NotifierBackend   string        `env:"NOTIFIER_BACKEND" envDefault:"ses"`
	AWSRegion         string        `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSAccessKey      string        `env:"AWS_ACCESS_KEY"`
	AWSSecretKey      string        `env:"AWS_SECRET_KEY"`
	RabbitMQURL       string        `env:"RABBITMQ_URL"`
	RabbitMQMailQueue string        `env:"RABBITMQ_MAIL_QUEUE" envDefault:"mail"`
	StoreTimeout      time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`
	NotifierTimeout   time.Duration `env:"NOTIFIER_TIMEOUT" envDefault:"10s"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFile        string   `env:"LOG_FILE"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env file: %w", err)
	}
	return Parse(env.Options{})
}

func Parse(opts env.Options) (*Config, error) {
	config := &Config{}
	if err := env.Parse(config, opts); err != nil {
		return nil, err
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	c.NotifierBackend = strings.ToLower(strings.TrimSpace(c.NotifierBackend))
	switch c.NotifierBackend {
	case NOTIFIER_BACKEND_SES:
	case NOTIFIER_BACKEND_AMQP:
		if c.RabbitMQURL == "" {
			return fmt.Errorf("RABBITMQ_URL must be set for %s notifier backend", NOTIFIER_BACKEND_AMQP)
		}
	default:
		return fmt.Errorf("unknown NOTIFIER_BACKEND value: %q", c.NotifierBackend)
	}
	if c.PasswordResetValidDuration <= 0 {
		return fmt.Errorf("PASSWORD_RESET_VALID_DURATION must be positive")
	}
	if c.PasswordResetBaseURL.Scheme == "" || c.PasswordResetBaseURL.Host == "" {
		return fmt.Errorf("PASSWORD_RESET_BASE_URL must be an absolute URL")
	}
	return nil
}
