package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// defaultDirPerm is the default permissions used when creating directories.
const defaultDirPerm = 0700

// configFile is the layout of config.toml. Durations are written in the
// form time.ParseDuration reads, e.g. "168h0m0s".
// Note: any changes to the variables/toml tags must be reflected in the
// mapstructure tags of the structs in config/config.go
type configFile struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	Light struct {
		TrustLevel     string `toml:"trust_level"`
		TrustingPeriod string `toml:"trusting_period"`
		MaxClockDrift  string `toml:"max_clock_drift"`
	} `toml:"light"`

	Instrumentation struct {
		Prometheus bool   `toml:"prometheus"`
		Namespace  string `toml:"namespace"`
	} `toml:"instrumentation"`
}

func newConfigFile(cfg *Config) configFile {
	var f configFile
	f.LogLevel = cfg.LogLevel
	f.LogFormat = cfg.LogFormat
	f.Light.TrustLevel = cfg.Light.TrustLevel
	f.Light.TrustingPeriod = cfg.Light.TrustingPeriod.String()
	f.Light.MaxClockDrift = cfg.Light.MaxClockDrift.String()
	f.Instrumentation.Prometheus = cfg.Instrumentation.Prometheus
	f.Instrumentation.Namespace = cfg.Instrumentation.Namespace
	return f
}

/****** these are for production settings ***********/

// WriteConfigFile writes config as TOML to path, creating the parent
// directory if needed.
func WriteConfigFile(path string, config *Config) error {
	if err := config.ValidateBasic(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), defaultDirPerm); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(configHeader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(newConfigFile(config)); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return f.Close()
}

// LoadConfig reads the TOML config file at path on top of the defaults.
// Environment variables prefixed with EnvPrefix override values of the
// file: LIGHT_LOG_LEVEL, LIGHT_LIGHT_TRUSTING_PERIOD, ...
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	conf := DefaultConfig()
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if err := conf.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return conf, nil
}

const configHeader = `# This is a TOML config file.
# For more information, see https://github.com/toml-lang/toml

# Output level for logging: debug, info, warn or error.
# Output format: 'plain' (colored text) or 'json'.
#
# [light]
# trust_level: share of the trusted validators' voting power that must sign a
#   header which is not adjacent to the trusted one, within [1/3, 1].
# trusting_period: how long a trusted header can be used to verify new ones.
#   Should be significantly less than the unbonding period of the chain.
# max_clock_drift: how far into the future a new header's time may be.
#
# [instrumentation]
# prometheus: when true, metrics are registered with the default Prometheus
#   registry under namespace.

`
