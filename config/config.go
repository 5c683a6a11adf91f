package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/tendermint/lightcore/libs/log"
	tmmath "github.com/tendermint/lightcore/libs/math"
	"github.com/tendermint/lightcore/light"
)

const (
	// LogFormatPlain is a format for colored text
	LogFormatPlain = log.LogFormatPlain
	// LogFormatJSON is a format for json output
	LogFormatJSON = log.LogFormatJSON

	// DefaultLogLevel is the log level of the default configuration.
	DefaultLogLevel = log.LogLevelInfo

	defaultNamespace = "lightcore"
)

// NOTE: Most of the structs & relevant comments + the
// default configuration options were used to manually
// generate the config.toml. Please reflect any changes
// made here in the configFile struct in config/toml.go
var (
	DefaultConfigFileName = "config.toml"

	// EnvPrefix prefixes the environment variables that override values of
	// the config file, e.g. LIGHT_LIGHT_TRUST_LEVEL.
	EnvPrefix = "LIGHT"
)

// Config defines the top level configuration of the light verifier.
type Config struct {
	// Top level options use an anonymous struct
	BaseConfig `mapstructure:",squash"`

	// Options for services
	Light           *LightConfig           `mapstructure:"light"`
	Instrumentation *InstrumentationConfig `mapstructure:"instrumentation"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseConfig:      DefaultBaseConfig(),
		Light:           DefaultLightConfig(),
		Instrumentation: DefaultInstrumentationConfig(),
	}
}

// TestConfig returns a configuration that can be used for testing
func TestConfig() *Config {
	return &Config{
		BaseConfig:      TestBaseConfig(),
		Light:           TestLightConfig(),
		Instrumentation: TestInstrumentationConfig(),
	}
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *Config) ValidateBasic() error {
	if err := cfg.BaseConfig.ValidateBasic(); err != nil {
		return err
	}
	if cfg.Light == nil {
		return errors.New("missing [light] section")
	}
	if err := cfg.Light.ValidateBasic(); err != nil {
		return errors.Wrap(err, "error in [light] section")
	}
	if cfg.Instrumentation == nil {
		return errors.New("missing [instrumentation] section")
	}
	return errors.Wrap(
		cfg.Instrumentation.ValidateBasic(),
		"error in [instrumentation] section",
	)
}

// NewVerifier returns a light.Verifier using the options, logger and metrics
// the configuration describes.
func (cfg *Config) NewVerifier() (*light.Verifier, error) {
	if err := cfg.ValidateBasic(); err != nil {
		return nil, err
	}
	opts, err := cfg.Light.Options()
	if err != nil {
		return nil, err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}
	return light.NewVerifier(opts,
		light.Logger(logger.With("module", "light")),
		light.WithMetrics(cfg.Instrumentation.Metrics()),
	)
}

//-----------------------------------------------------------------------------
// BaseConfig

// BaseConfig defines the base configuration.
type BaseConfig struct {
	// Output level for logging: debug, info, warn or error
	LogLevel string `mapstructure:"log_level"`

	// Output format: 'plain' (colored text) or 'json'
	LogFormat string `mapstructure:"log_format"`
}

// DefaultBaseConfig returns a default base configuration.
func DefaultBaseConfig() BaseConfig {
	return BaseConfig{
		LogLevel:  DefaultLogLevel,
		LogFormat: LogFormatPlain,
	}
}

// TestBaseConfig returns a base configuration for testing.
func TestBaseConfig() BaseConfig {
	cfg := DefaultBaseConfig()
	cfg.LogLevel = log.LogLevelDebug
	return cfg
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg BaseConfig) ValidateBasic() error {
	switch cfg.LogFormat {
	case LogFormatPlain, log.LogFormatText, LogFormatJSON:
	default:
		return errors.New("unknown log_format (must be 'plain', 'text' or 'json')")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err != nil || cfg.LogLevel == "" {
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	return nil
}

// Logger returns the logger the configuration describes, writing to stderr.
func (cfg BaseConfig) Logger() (log.Logger, error) {
	return log.NewDefaultLogger(cfg.LogFormat, strings.ToLower(cfg.LogLevel))
}

//-----------------------------------------------------------------------------
// LightConfig

// LightConfig defines the parameters of header verification.
type LightConfig struct {
	// Share of the trusted validators' voting power that must sign a header
	// which is not adjacent to the trusted one, written as "n/d". Must be
	// within [1/3, 1].
	TrustLevel string `mapstructure:"trust_level"`

	// How long a trusted header can be used to verify new ones. Should be
	// significantly less than the unbonding period of the chain.
	TrustingPeriod time.Duration `mapstructure:"trusting_period"`

	// How far into the future a new header's time may be.
	MaxClockDrift time.Duration `mapstructure:"max_clock_drift"`
}

// DefaultLightConfig returns a default configuration for header verification.
func DefaultLightConfig() *LightConfig {
	return &LightConfig{
		TrustLevel:     light.DefaultTrustLevel.String(),
		TrustingPeriod: light.DefaultTrustingPeriod,
		MaxClockDrift:  light.DefaultMaxClockDrift,
	}
}

// TestLightConfig returns a configuration for header verification used in
// tests.
func TestLightConfig() *LightConfig {
	cfg := DefaultLightConfig()
	cfg.TrustingPeriod = 3 * time.Hour
	return cfg
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *LightConfig) ValidateBasic() error {
	_, err := cfg.Options()
	return err
}

// Options returns the light.Options the configuration describes.
func (cfg *LightConfig) Options() (light.Options, error) {
	lvl, err := tmmath.ParseFraction(cfg.TrustLevel)
	if err != nil {
		return light.Options{}, errors.Wrap(err, "invalid trust_level")
	}
	opts := light.Options{
		TrustLevel:     lvl,
		TrustingPeriod: cfg.TrustingPeriod,
		MaxClockDrift:  cfg.MaxClockDrift,
	}
	if err := opts.ValidateBasic(); err != nil {
		return light.Options{}, err
	}
	return opts, nil
}

//-----------------------------------------------------------------------------
// InstrumentationConfig

// InstrumentationConfig defines the configuration for metrics reporting.
type InstrumentationConfig struct {
	// When true, metrics are registered with the default Prometheus
	// registry. Serving them is left to the embedding program.
	// Check out the documentation for the list of available metrics.
	Prometheus bool `mapstructure:"prometheus"`

	// Instrumentation namespace.
	Namespace string `mapstructure:"namespace"`
}

// DefaultInstrumentationConfig returns a default configuration for metrics
// reporting.
func DefaultInstrumentationConfig() *InstrumentationConfig {
	return &InstrumentationConfig{
		Prometheus: false,
		Namespace:  defaultNamespace,
	}
}

// TestInstrumentationConfig returns a default configuration for metrics
// reporting.
func TestInstrumentationConfig() *InstrumentationConfig {
	return DefaultInstrumentationConfig()
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *InstrumentationConfig) ValidateBasic() error {
	if cfg.Prometheus && cfg.Namespace == "" {
		return errors.New("namespace can't be empty when prometheus is enabled")
	}
	return nil
}

// Metrics returns Prometheus metrics if they are enabled and no-op metrics
// otherwise.
func (cfg *InstrumentationConfig) Metrics() *light.Metrics {
	if cfg.Prometheus {
		return light.PrometheusMetrics(cfg.Namespace)
	}
	return light.NopMetrics()
}
