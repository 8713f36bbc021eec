package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lawnstrings/pkg/core"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}

	in, out, err := cfg.Encodings()
	require.NoError(t, err)
	assert.Equal(t, core.EncodingUTF8BOM, in)
	assert.Equal(t, core.EncodingUTF8BOM, out)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()

	t.Run("TOML", func(t *testing.T) {
		path := filepath.Join(dir, "custom.toml")
		content := `
[encoding]
out = "utf16"

[sort]
strict = true

[remote]
timeout = "5s"
transform = "base64-zlib"

[remote.servers.mirror]
strings = "https://example.com/pvz2_l.txt"
hash = "https://example.com/file_list.txt"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.True(t, cfg.Sort.Strict)
		_, out, err := cfg.Encodings()
		require.NoError(t, err)
		assert.Equal(t, core.EncodingUTF16LE, out)

		timeout, err := cfg.RemoteTimeout()
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, timeout)
		assert.Equal(t, "base64-zlib", cfg.Remote.Transform)

		require.Contains(t, cfg.Remote.Servers, "mirror")
		assert.Equal(t, "https://example.com/pvz2_l.txt", cfg.Remote.Servers["mirror"].Strings)
	})

	t.Run("YAML In Working Directory", func(t *testing.T) {
		wd := t.TempDir()
		content := "log:\n  level: debug\n  format: json\noutput:\n  dir: out\n"
		require.NoError(t, os.WriteFile(filepath.Join(wd, "lawnstrings.yaml"), []byte(content), 0644))
		t.Chdir(wd)

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "out", cfg.Output.Dir)
	})

	t.Run("Explicit Missing File", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing.toml"))
		require.Error(t, err)
	})
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LAWNSTRINGS_SORT_STRICT", "true")
	t.Setenv("LAWNSTRINGS_ENCODING_IN", "utf16le")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Sort.Strict)
	assert.Equal(t, "utf16le", cfg.Encoding.In)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*Config)
	}{
		{"encoding.in", func(c *Config) { c.Encoding.In = "latin1" }},
		{"encoding.out", func(c *Config) { c.Encoding.Out = "ebcdic" }},
		{"remote.timeout", func(c *Config) { c.Remote.Timeout = "-1s" }},
		{"remote.transform", func(c *Config) { c.Remote.Transform = "gzip" }},
		{"remote.servers.release.strings", func(c *Config) {
			s := c.Remote.Servers["release"]
			s.Strings = ""
			c.Remote.Servers["release"] = s
		}},
		{"log.level", func(c *Config) { c.Log.Level = "loud" }},
		{"log.format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}

	require.NoError(t, Default().Validate())
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)

	require.NoError(t, WriteDefault(path))
	require.Error(t, WriteDefault(path), "existing file must not be overwritten")

	cfg, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
