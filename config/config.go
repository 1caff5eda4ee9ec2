package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Prefix is prepended to every environment variable, e.g. PASSING_THOUGHTS_TTL.
const Prefix = "PASSING_THOUGHTS"

// Config holds runtime settings. Zero-config runs with a 15 second lifetime
// and a one second sweep.
type Config struct {
	TTL           time.Duration `envconfig:"TTL" default:"15s" validate:"gt=0"`
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"1s" validate:"gt=0,ltefield=TTL"`

	// TUI owns stdout, so logs only go to a file when one is named.
	LogFile  string `envconfig:"LOG_FILE" default:""`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	SeedFile string `envconfig:"SEED_FILE" default:""`
	NoSeed   bool   `envconfig:"NO_SEED" default:"false"`

	// empty disables the /metrics listener
	MetricsAddr string `envconfig:"METRICS_ADDR" default:""`
}

var validate = validator.New()

// New reads the configuration from the environment. It does not validate, so
// callers can apply overrides first and then call Validate.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process environment variables")
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "invalid config")
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return errors.New("invalid config: " + strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be positive, got %v", field, e.Value())
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s, got %v", field, e.Param(), e.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
