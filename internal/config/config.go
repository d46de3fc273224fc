// Package config assembles the service configuration from defaults, CLI
// flags, and environment variables (in that order of precedence, environment
// winning), and validates the result before the application starts.
package config

import (
	"flag"
	"log"
	"os"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	funk "github.com/thoas/go-funk"
)

// Config carries every externally tunable setting. It is constructed once in
// New and passed by reference into the components that need it; there is no
// other process-wide mutable state.
type Config struct {
	RunAddr             string        `env:"SERVER_ADDRESS" validate:"hostname_port"`
	DatabaseDSN         string        `env:"DATABASE_DSN"`
	DBFileName          string        `env:"FILE_STORAGE_PATH" validate:"filepath"`
	MigrationsDir       string        `env:"MIGRATIONS_DIR"`
	LogLevel            string        `env:"LOG_LEVEL" validate:"loglevel"`
	JWTSigningSecret    string        `env:"JWT_SECRET" validate:"required"`
	TokenTTL            time.Duration `env:"TOKEN_TTL"`
	DBConnectionTimeout time.Duration `env:"DB_CONNECTION_TIMEOUT"`
}

var defaultConfig = Config{
	RunAddr:             ":8080",
	MigrationsDir:       "cmd/memoapp/migrations",
	LogLevel:            "info",
	TokenTTL:            time.Hour,
	DBConnectionTimeout: 10 * time.Second,
}

func validateFilePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	if path == "" {
		return true
	}
	_, err := os.Stat(path)

	return err == nil || os.IsNotExist(err)
}

var allowedLogLevels = []string{"debug", "info", "warn", "warning", "error", "fatal"}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	return funk.ContainsString(allowedLogLevels, fieldLevel.Field().String())
}

func (c *Config) validate() error {
	validate := validator.New()

	if err := validate.RegisterValidation("loglevel", validateLogLevel); err != nil {
		return err
	}

	if err := validate.RegisterValidation("filepath", validateFilePath); err != nil {
		return err
	}

	return validate.Struct(c)
}

// InitOption customizes New.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing prevents New from touching the flag package.
// Tests use it so repeated construction does not redefine flags.
func WithDisableFlagsParsing(disable bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disable
	}
}

func applyDefaults(values *Config, defaults Config) {
	*values = defaults
}

func applyEnv(values *Config) error {
	var fromEnv Config
	if err := env.Parse(&fromEnv); err != nil {
		return err
	}

	if fromEnv.RunAddr != "" {
		values.RunAddr = fromEnv.RunAddr
	}
	if fromEnv.DatabaseDSN != "" {
		values.DatabaseDSN = fromEnv.DatabaseDSN
	}
	if fromEnv.DBFileName != "" {
		values.DBFileName = fromEnv.DBFileName
	}
	if fromEnv.MigrationsDir != "" {
		values.MigrationsDir = fromEnv.MigrationsDir
	}
	if fromEnv.LogLevel != "" {
		values.LogLevel = fromEnv.LogLevel
	}
	if fromEnv.JWTSigningSecret != "" {
		values.JWTSigningSecret = fromEnv.JWTSigningSecret
	}
	if fromEnv.TokenTTL != 0 {
		values.TokenTTL = fromEnv.TokenTTL
	}
	if fromEnv.DBConnectionTimeout != 0 {
		values.DBConnectionTimeout = fromEnv.DBConnectionTimeout
	}

	return nil
}

// New loads the configuration. A missing JWT signing secret is a fatal
// misconfiguration and is reported as an error.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	values := &Config{}
	applyDefaults(values, defaultConfig)

	if !options.disableFlagsParsing {
		flag.StringVar(&values.RunAddr, "a", values.RunAddr, "address and port to run server")
		flag.StringVar(&values.DatabaseDSN, "d", values.DatabaseDSN, "database connection string")
		flag.StringVar(&values.DBFileName, "f", values.DBFileName, "JSON file name with database")
		flag.StringVar(&values.MigrationsDir, "m", values.MigrationsDir, "directory with goose migrations")
		flag.StringVar(&values.LogLevel, "l", values.LogLevel, "logger level")
		flag.DurationVar(&values.TokenTTL, "t", values.TokenTTL, "bearer token validity duration")
		flag.Parse()
	}

	if err := applyEnv(values); err != nil {
		return nil, err
	}

	if err := values.validate(); err != nil {
		return nil, err
	}

	return values, nil
}
