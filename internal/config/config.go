// Package config loads the service configuration from defaults, command-line
// flags and environment variables (in ascending priority), with optional
// values from a .env file, and validates the result.
package config

import (
	"flag"
	"log"
	"os"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings of the service.
type Config struct {
	RunAddr                 string        `env:"SERVER_ADDRESS" validate:"hostname_port"`
	LogLevel                string        `env:"LOG_LEVEL" validate:"loglevel"`
	RedisAddr               string        `env:"REDIS_ADDR"`
	RedisPassword           string        `env:"REDIS_PASSWORD"`
	RedisDB                 int           `env:"REDIS_DB"`
	StoreConnectionTimeout  time.Duration `env:"STORE_CONNECTION_TIMEOUT"`
	SessionCookieName       string        `env:"SESSION_COOKIE_NAME" validate:"required"`
	SessionSigningSecretKey string        `env:"SESSION_SIGNING_SECRET_KEY" validate:"required,base64url"`
	SessionTTL              time.Duration `env:"SESSION_TTL"`
	ShortCodeLength         int           `env:"SHORT_CODE_LENGTH" validate:"gte=4,lte=32"`
}

var defaultConfig = Config{
	RunAddr:                "localhost:8080",
	LogLevel:               "info",
	RedisAddr:              "",
	StoreConnectionTimeout: 10 * time.Second,
	SessionCookieName:      "shortly_session",
	// Development-only key. Override SESSION_SIGNING_SECRET_KEY in production.
	SessionSigningSecretKey: "c2hvcnRseS1kZXYtc2lnbmluZy1rZXk=",
	SessionTTL:              365 * 24 * time.Hour,
	ShortCodeLength:         6,
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	allowedLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	return allowedLogLevels[fieldLevel.Field().String()]
}

func (c *Config) validate() error {
	validate := validator.New()

	if err := validate.RegisterValidation("loglevel", validateLogLevel); err != nil {
		return err
	}

	return validate.Struct(c)
}

// InitOption customizes config loading.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing disables command-line flag parsing.
// Tests use it to keep the flag set untouched.
func WithDisableFlagsParsing(disable bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disable
	}
}

// New loads, merges and validates the configuration.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	values := defaultConfig

	if !options.disableFlagsParsing {
		flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
		flags.StringVar(&values.RunAddr, "a", values.RunAddr, "address and port to run server")
		flags.StringVar(&values.LogLevel, "l", values.LogLevel, "logger level")
		flags.StringVar(&values.RedisAddr, "r", values.RedisAddr, "redis address (empty for in-memory storage)")
		flags.IntVar(&values.ShortCodeLength, "n", values.ShortCodeLength, "generated short code length")
		if err := flags.Parse(os.Args[1:]); err != nil {
			return nil, err
		}
	}

	// env.Parse only assigns fields whose environment variable is present,
	// so flag and default values survive the merge.
	if err := env.Parse(&values); err != nil {
		return nil, err
	}

	if err := values.validate(); err != nil {
		return nil, err
	}

	return &values, nil
}
