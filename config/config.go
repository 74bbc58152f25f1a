// Package config loads FieldHQ configuration via Viper.
//
// Sources, in precedence order: environment variables (FIELDHQ_ prefix),
// a fieldhq.toml found by walking up from the working directory, defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/fieldhq/fieldhq/errors"
)

// Config is the root FieldHQ configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Upload   UploadConfig   `mapstructure:"upload"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds SQLite settings
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// AuthConfig holds admin authentication settings
type AuthConfig struct {
	// JWTSecret signs access tokens. Auto-generated at startup when empty.
	JWTSecret   string `mapstructure:"jwt_secret"`
	TokenExpiry string `mapstructure:"token_expiry"`
}

// UploadConfig holds file ingestion settings
type UploadConfig struct {
	MaxSizeMB int    `mapstructure:"max_size_mb"`
	TmpDir    string `mapstructure:"tmp_dir"`
}

var globalConfig *Config

// Load reads the FieldHQ configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	globalConfig = &cfg
	return globalConfig, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", configPath)
	}

	return &cfg, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost",
		"http://127.0.0.1",
	})

	v.SetDefault("database.path", "fieldhq.db")

	v.SetDefault("auth.token_expiry", "24h")

	v.SetDefault("upload.max_size_mb", 10)
	v.SetDefault("upload.tmp_dir", os.TempDir())
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("FIELDHQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Sensitive values come from the environment, never from checked-in files
	v.BindEnv("auth.jwt_secret", "FIELDHQ_JWT_SECRET")

	SetDefaults(v)

	if path := findProjectConfig(); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		// Missing or unreadable project config is not fatal; defaults apply
		_ = v.ReadInConfig()
	}

	return v
}

// findProjectConfig searches for fieldhq.toml by walking up the directory tree.
// Returns the path to the first config file found, or empty string if none found.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, "fieldhq.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
