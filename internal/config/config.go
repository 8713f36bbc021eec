// Package config loads lawnstrings settings from a configuration file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/aretw0/lawnstrings/pkg/adapters/remote"
	"github.com/aretw0/lawnstrings/pkg/core"
)

const (
	// FileName is the base name searched for in the working directory.
	FileName = "lawnstrings"
	// DefaultFile is the file written by WriteDefault.
	DefaultFile = FileName + ".toml"
	// EnvPrefix prefixes environment overrides, e.g. LAWNSTRINGS_SORT_STRICT.
	EnvPrefix = "LAWNSTRINGS"
)

// Config represents the complete lawnstrings configuration.
type Config struct {
	Encoding EncodingConfig `mapstructure:"encoding" toml:"encoding"`
	Sort     SortConfig     `mapstructure:"sort" toml:"sort"`
	Output   OutputConfig   `mapstructure:"output" toml:"output"`
	Exclude  ExcludeConfig  `mapstructure:"exclude" toml:"exclude"`
	Remote   RemoteConfig   `mapstructure:"remote" toml:"remote"`
	Log      LogConfig      `mapstructure:"log" toml:"log"`
}

// EncodingConfig names the plain-text encodings read and written.
type EncodingConfig struct {
	In  string `mapstructure:"in" toml:"in"`
	Out string `mapstructure:"out" toml:"out"`
}

type SortConfig struct {
	Strict bool `mapstructure:"strict" toml:"strict"`
}

// OutputConfig sets where results go. An empty Dir writes next to the input.
type OutputConfig struct {
	Dir string `mapstructure:"dir" toml:"dir"`
}

type ExcludeConfig struct {
	File string `mapstructure:"file" toml:"file"`
}

// RemoteConfig contains the download settings and the server table.
type RemoteConfig struct {
	Timeout   string         `mapstructure:"timeout" toml:"timeout"`
	Transform string         `mapstructure:"transform" toml:"transform"`
	Servers   remote.Servers `mapstructure:"servers" toml:"servers"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" toml:"level"`
	Format string `mapstructure:"format" toml:"format"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Encoding: EncodingConfig{
			In:  core.EncodingUTF8BOM.String(),
			Out: core.EncodingUTF8BOM.String(),
		},
		Remote: RemoteConfig{
			Timeout:   remote.DefaultTimeout.String(),
			Transform: string(remote.TransformPlain),
			Servers:   remote.DefaultServers(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the configuration. With an empty path it looks for
// lawnstrings.{yaml,toml,json} in the working directory and falls back to the
// defaults when none exists. Environment variables override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("encoding.in", d.Encoding.In)
	v.SetDefault("encoding.out", d.Encoding.Out)
	v.SetDefault("sort.strict", d.Sort.Strict)
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("exclude.file", d.Exclude.File)
	v.SetDefault("remote.timeout", d.Remote.Timeout)
	v.SetDefault("remote.transform", d.Remote.Transform)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	servers := make(map[string]any, len(d.Remote.Servers))
	for name, s := range d.Remote.Servers {
		servers[name] = map[string]any{"strings": s.Strings, "hash": s.Hash}
	}
	v.SetDefault("remote.servers", servers)
}

// Validate checks that every enumerated setting holds a known value.
func (c *Config) Validate() error {
	if _, err := core.ParseEncoding(c.Encoding.In); err != nil {
		return &ConfigError{Field: "encoding.in", Message: err.Error()}
	}
	if _, err := core.ParseEncoding(c.Encoding.Out); err != nil {
		return &ConfigError{Field: "encoding.out", Message: err.Error()}
	}
	if _, err := c.RemoteTimeout(); err != nil {
		return &ConfigError{Field: "remote.timeout", Message: err.Error()}
	}
	if _, err := remote.ParseTransform(c.Remote.Transform); err != nil {
		return &ConfigError{Field: "remote.transform", Message: err.Error()}
	}
	for _, name := range c.Remote.Servers.Names() {
		if c.Remote.Servers[name].Strings == "" {
			return &ConfigError{Field: "remote.servers." + name + ".strings", Message: "missing url"}
		}
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return &ConfigError{Field: "log.level", Message: err.Error()}
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return &ConfigError{Field: "log.format", Message: fmt.Sprintf("unknown format %q", c.Log.Format)}
	}
	return nil
}

// Encodings returns the parsed input and output encodings.
func (c *Config) Encodings() (in, out core.Encoding, err error) {
	if in, err = core.ParseEncoding(c.Encoding.In); err != nil {
		return in, out, err
	}
	out, err = core.ParseEncoding(c.Encoding.Out)
	return in, out, err
}

// RemoteTimeout parses remote.timeout. An empty value yields the default.
func (c *Config) RemoteTimeout() (time.Duration, error) {
	if c.Remote.Timeout == "" {
		return remote.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Remote.Timeout)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", d)
	}
	return d, nil
}

// LogLevel returns the slog level for log.level.
func (c *Config) LogLevel() slog.Level {
	l, _ := parseLevel(c.Log.Level)
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, err
	}
	return l, nil
}

// WriteDefault writes the default configuration to path as TOML. An existing
// file is left untouched and reported as an error.
func WriteDefault(path string) error {
	data, err := toml.Marshal(Default())
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return f.Close()
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
