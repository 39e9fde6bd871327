package config

import (
	"runtime"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadWithEnv resets viper state and loads configuration with the given
// environment. The keychain fallback is disabled so results do not depend
// on the developer's keyring contents.
func loadWithEnv(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()

	viper.Reset()
	t.Setenv("DOCLENS_KEYRING_DISABLED", "true")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_MODEL", "")
	for k, v := range env {
		t.Setenv(k, v)
	}

	return Load()
}

func TestLoad_MissingAPIKey(t *testing.T) {
	cfg, err := loadWithEnv(t, nil)

	require.Error(t, err)
	require.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrAPIKeyMissing)
	assert.Contains(t, err.Error(), "GOOGLE_API_KEY")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadWithEnv(t, map[string]string{
		"GOOGLE_API_KEY": "test-key",
	})

	require.NoError(t, err)
	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, 10*time.Minute, cfg.Timeout)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8517, cfg.Server.Port)
	assert.True(t, cfg.Keyring.Disabled)
}

func TestLoad_AlternateKeySpelling(t *testing.T) {
	cfg, err := loadWithEnv(t, map[string]string{
		"GEMINI_API_KEY": "alt-key",
	})

	require.NoError(t, err)
	assert.Equal(t, "alt-key", cfg.APIKey)
}

func TestLoad_EnvOverrides(t *testing.T) {
	cfg, err := loadWithEnv(t, map[string]string{
		"GOOGLE_API_KEY":      "test-key",
		"GEMINI_MODEL":        "gemini-1.5-pro-latest",
		"DOCLENS_TIMEOUT":     "2m",
		"DOCLENS_OUTPUT_DIR":  "/tmp/out",
		"DOCLENS_LOG_LEVEL":   "debug",
		"DOCLENS_SERVER_PORT": "9000",
	})

	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-pro-latest", cfg.Model)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	_, err := loadWithEnv(t, map[string]string{
		"GOOGLE_API_KEY":    "test-key",
		"DOCLENS_LOG_LEVEL": "loud",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			APIKey:    "key",
			Model:     DefaultModel,
			Timeout:   time.Minute,
			OutputDir: ".",
			Log:       LogConfig{Level: "info", Format: "console"},
			Server: ServerConfig{
				Host:         "127.0.0.1",
				Port:         8517,
				ReadTimeout:  time.Minute,
				WriteTimeout: time.Minute,
				IdleTimeout:  time.Minute,
				BodyLimit:    1024,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing api key",
			mutate:  func(c *Config) { c.APIKey = "" },
			wantErr: true,
			errMsg:  "gemini API key is not configured",
		},
		{
			name:    "whitespace api key",
			mutate:  func(c *Config) { c.APIKey = "   " },
			wantErr: true,
			errMsg:  "gemini API key is not configured",
		},
		{
			name:    "empty model",
			mutate:  func(c *Config) { c.Model = "" },
			wantErr: true,
			errMsg:  "model cannot be empty",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Timeout = 0 },
			wantErr: true,
			errMsg:  "timeout must be positive",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
			errMsg:  "log format must be",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestServerConfig_Validate(t *testing.T) {
	valid := func() ServerConfig {
		return ServerConfig{
			Host:         "127.0.0.1",
			Port:         8517,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
			BodyLimit:    1024 * 1024,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			mutate:  func(sc *ServerConfig) {},
			wantErr: false,
		},
		{
			name:    "empty host",
			mutate:  func(sc *ServerConfig) { sc.Host = "" },
			wantErr: true,
			errMsg:  "server host cannot be empty",
		},
		{
			name:    "port too low",
			mutate:  func(sc *ServerConfig) { sc.Port = 0 },
			wantErr: true,
			errMsg:  "server port must be between",
		},
		{
			name:    "port too high",
			mutate:  func(sc *ServerConfig) { sc.Port = 70000 },
			wantErr: true,
			errMsg:  "server port must be between",
		},
		{
			name:    "zero read timeout",
			mutate:  func(sc *ServerConfig) { sc.ReadTimeout = 0 },
			wantErr: true,
			errMsg:  "read_timeout must be positive",
		},
		{
			name:    "negative write timeout",
			mutate:  func(sc *ServerConfig) { sc.WriteTimeout = -time.Second },
			wantErr: true,
			errMsg:  "write_timeout must be positive",
		},
		{
			name:    "zero body limit",
			mutate:  func(sc *ServerConfig) { sc.BodyLimit = 0 },
			wantErr: true,
			errMsg:  "body_limit must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := valid()
			tt.mutate(&sc)
			err := sc.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestServerConfig_Addr(t *testing.T) {
	sc := ServerConfig{Host: "127.0.0.1", Port: 8517}
	assert.Equal(t, "127.0.0.1:8517", sc.Addr())
}

func TestDataDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME redirect only applies on linux")
	}

	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	dir, err := DataDir()
	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Contains(t, dir, "doclens")
}
