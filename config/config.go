package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the application configuration, loaded from defaults, an
// optional YAML file, and FAMLEDGER_* environment variables, in that
// order of increasing precedence.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Firebase FirebaseConfig `mapstructure:"firebase"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds the HTTP surface settings.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	// DevMode swaps the Firestore-backed store for the in-memory one and
	// disables ID-token verification.
	DevMode bool `mapstructure:"dev_mode"`
}

// CacheConfig holds the local key-value cache settings.
type CacheConfig struct {
	Path string `mapstructure:"path"`
}

// FirebaseConfig holds the backend project settings. CredentialsJSON takes
// precedence over CredentialsFile; with neither set, application default
// credentials are used.
type FirebaseConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
	CredentialsJSON string `mapstructure:"credentials_json"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration. configPath may be empty, in which case only
// defaults and environment variables apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.dev_mode", false)
	v.SetDefault("cache.path", "./famledger.db")
	v.SetDefault("firebase.project_id", "")
	v.SetDefault("firebase.credentials_file", "")
	v.SetDefault("firebase.credentials_json", "")
	v.SetDefault("log.level", "info")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configPath, err)
		}
	}

	v.SetEnvPrefix("FAMLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
