package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// DefaultModel is used when GEMINI_MODEL is not set.
const DefaultModel = "gemini-2.0-flash"

// ErrAPIKeyMissing means no Gemini API key could be resolved from the
// environment or the system keychain. The application must not open any
// network connection once this is returned.
var ErrAPIKeyMissing = errors.New("gemini API key is not configured")

// Config represents the application configuration
type Config struct {
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	Timeout   time.Duration `mapstructure:"timeout"`
	OutputDir string        `mapstructure:"output_dir"`
	Log       LogConfig     `mapstructure:"log"`
	Server    ServerConfig  `mapstructure:"server"`
	Keyring   KeyringConfig `mapstructure:"keyring"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`  // trace, debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
}

// ServerConfig contains HTTP server settings for serve mode
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	BodyLimit    int           `mapstructure:"body_limit"`
}

// KeyringConfig controls the system keychain fallback for the API key
type KeyringConfig struct {
	Disabled bool `mapstructure:"disabled"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	config, err := LoadUnvalidated()
	if err != nil {
		return nil, err
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if !strings.Contains(config.Model, "gemini-1.5") && !strings.Contains(config.Model, "gemini-2") {
		log.Warn().Str("model", config.Model).Msg("Model may not support document input")
	}

	return config, nil
}

// LoadUnvalidated resolves configuration from all sources without requiring
// a usable API key. Commands that only display configuration use it.
func LoadUnvalidated() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := loadEnvFile(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	viper.SetConfigName("doclens")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(dir, "doclens"))
	}

	// Set defaults
	setDefaults()

	// Enable environment variable support with underscore replacer
	viper.AutomaticEnv()
	viper.SetEnvPrefix("DOCLENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// The key and model variables keep their documented names, without the
	// DOCLENS prefix. GEMINI_API_KEY is the alternate spelling of the key.
	viper.BindEnv("api_key", "GOOGLE_API_KEY", "GEMINI_API_KEY")
	viper.BindEnv("model", "GEMINI_MODEL")

	// Read config file (if it exists)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; use defaults and environment variables
		log.Debug().Msg("No config file found, using environment variables and defaults")
	} else {
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("Config file loaded")
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Keychain is the last key source, after both environment spellings.
	if config.APIKey == "" && !config.Keyring.Disabled {
		if key, err := LoadAPIKeyFromKeychain(); err == nil && key != "" {
			config.APIKey = key
			log.Debug().Msg("API key loaded from system keychain")
		}
	}

	return &config, nil
}

// loadEnvFile loads environment variables from .env file
func loadEnvFile() error {
	// Check multiple locations for .env file
	locations := []string{
		".env",
		".env.local",
		"../.env", // For when running from subdirectories
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			if err := godotenv.Load(location); err != nil {
				return fmt.Errorf("error loading .env file from %s: %w", location, err)
			}
			log.Debug().Str("file", location).Msg(".env file loaded")
			return nil
		}
	}

	return fmt.Errorf("no .env file found")
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("model", DefaultModel)
	viper.SetDefault("timeout", "10m")
	viper.SetDefault("output_dir", ".")

	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")

	// Server defaults; loopback only, the GUI shell runs on the same machine
	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", 8517)
	viper.SetDefault("server.read_timeout", "5m")
	viper.SetDefault("server.write_timeout", "15m")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.body_limit", 105*1024*1024)

	// Keyring defaults
	viper.SetDefault("keyring.disabled", false)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: set GOOGLE_API_KEY (or GEMINI_API_KEY), or store a key with 'doclens config set-key'", ErrAPIKeyMissing)
	}

	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("model cannot be empty")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if err := c.Log.Validate(); err != nil {
		return err
	}

	return c.Server.Validate()
}

// Validate validates logging configuration
func (lc *LogConfig) Validate() error {
	switch lc.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", lc.Level)
	}

	if lc.Format != "console" && lc.Format != "json" {
		return fmt.Errorf("log format must be 'console' or 'json'")
	}

	return nil
}

// Validate validates server configuration
func (sc *ServerConfig) Validate() error {
	if sc.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}

	if sc.Port < 1 || sc.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got: %d", sc.Port)
	}

	if sc.ReadTimeout <= 0 {
		return fmt.Errorf("read_timeout must be positive")
	}

	if sc.WriteTimeout <= 0 {
		return fmt.Errorf("write_timeout must be positive")
	}

	if sc.IdleTimeout <= 0 {
		return fmt.Errorf("idle_timeout must be positive")
	}

	if sc.BodyLimit <= 0 {
		return fmt.Errorf("body_limit must be positive")
	}

	return nil
}

// Addr returns the host:port address the server binds to
func (sc *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", sc.Host, sc.Port)
}

// DataDir returns the directory doclens keeps its state in (history journal).
// The directory is created on first use.
func DataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user config dir: %w", err)
	}

	dir := filepath.Join(base, "doclens")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create data dir %s: %w", dir, err)
	}

	return dir, nil
}
