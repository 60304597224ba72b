package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Data:    DataConfig{Path: "oscars.json"},
		Server:  ServerConfig{Addr: ":8080"},
		Query:   QueryConfig{BatchSize: 100},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "Valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "Missing data path",
			mutate:  func(c *Config) { c.Data.Path = "" },
			wantErr: "data.path is required",
		},
		{
			name:    "Missing listen address",
			mutate:  func(c *Config) { c.Server.Addr = "" },
			wantErr: "server.addr is required",
		},
		{
			name:    "Negative workers",
			mutate:  func(c *Config) { c.Query.Workers = -1 },
			wantErr: "query.workers must not be negative",
		},
		{
			name:    "Zero batch size",
			mutate:  func(c *Config) { c.Query.BatchSize = 0 },
			wantErr: "query.batch_size must be positive",
		},
		{
			name:    "Invalid logging level",
			mutate:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: "invalid logging level: trace",
		},
		{
			name:    "Invalid logging format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid logging format: xml",
		},
		{
			name: "Empty preset",
			mutate: func(c *Config) {
				c.Presets = map[string]PresetConfig{"nothing": {}}
			},
			wantErr: "preset 'nothing' has neither params nor where",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
data:
  path: /srv/content/oscars.json
  container: content/oscars
server:
  addr: ":9090"
  read_timeout: 5s
logging:
  level: debug
  format: json
presets:
  recent-winners:
    params:
      minYear: 2015
      isBestPicture: "true"
      sortBy: year
  the-films:
    where: hasPrefixFold(Title, "the ")
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/content/oscars.json", cfg.Data.Path)
	assert.Equal(t, "content/oscars", cfg.Data.Container)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 100, cfg.Query.BatchSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	require.Len(t, cfg.Presets, 2)
	// Keys come back lowercased; values are decoded as strings.
	assert.Equal(t, "2015", cfg.Presets["recent-winners"].Params["minyear"])
	assert.Equal(t, `hasPrefixFold(Title, "the ")`, cfg.Presets["the-films"].Where)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config")
}

func TestLoad_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid logging level: loud")
}
