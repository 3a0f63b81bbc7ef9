package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/spf13/viper"
)

// Config stores runtime configuration for a calling session.
type Config struct {
	Signaling SignalingConfig `mapstructure:"signaling"`
	Call      CallConfig      `mapstructure:"call"`
	Grid      GridConfig      `mapstructure:"grid"`
	Log       LogConfig       `mapstructure:"log"`
	Session   SessionConfig   `mapstructure:"session"`
}

type SignalingConfig struct {
	URL               string        `mapstructure:"url"`
	Token             string        `mapstructure:"token"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int64         `mapstructure:"burst"`
	DialTimeout       time.Duration `mapstructure:"dial_timeout"`
}

type CallConfig struct {
	DisplayName         string `mapstructure:"display_name"`
	StartWithCamera     bool   `mapstructure:"start_with_camera"`
	StartWithMicrophone bool   `mapstructure:"start_with_microphone"`
	Role                string `mapstructure:"role"`
}

type GridConfig struct {
	MaxCount int `mapstructure:"max_count"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SessionConfig struct {
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
}

// Load reads an optional TOML file and CALLCORE_* environment overrides on
// top of defaults. CALLCORE_CONFIG points at an explicit file.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("signaling.url", "")
	v.SetDefault("signaling.token", "")
	v.SetDefault("signaling.requests_per_second", 20.0)
	v.SetDefault("signaling.burst", 20)
	v.SetDefault("signaling.dial_timeout", "10s")
	v.SetDefault("call.display_name", "")
	v.SetDefault("call.start_with_camera", false)
	v.SetDefault("call.start_with_microphone", true)
	v.SetDefault("call.role", "attendee")
	v.SetDefault("grid.max_count", 6)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("session.operation_timeout", "30s")

	v.SetConfigType("toml")
	if path := strings.TrimSpace(os.Getenv("CALLCORE_CONFIG")); path != "" {
		v.SetConfigFile(path)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "callcore"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CALLCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	normalize(&cfg)
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func normalize(cfg *Config) {
	cfg.Signaling.URL = strings.TrimSpace(cfg.Signaling.URL)
	cfg.Signaling.Token = strings.TrimSpace(cfg.Signaling.Token)
	cfg.Call.DisplayName = strings.TrimSpace(cfg.Call.DisplayName)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))

	if cfg.Signaling.RequestsPerSecond <= 0 {
		cfg.Signaling.RequestsPerSecond = 20
	}
	if cfg.Signaling.Burst <= 0 {
		cfg.Signaling.Burst = 20
	}
	if cfg.Signaling.DialTimeout <= 0 {
		cfg.Signaling.DialTimeout = 10 * time.Second
	}
	if cfg.Grid.MaxCount <= 0 {
		cfg.Grid.MaxCount = 6
	}
	if cfg.Session.OperationTimeout < time.Second {
		cfg.Session.OperationTimeout = 30 * time.Second
	}
	if cfg.Log.Format != "console" {
		cfg.Log.Format = "json"
	}
	if cfg.Call.Role == "" {
		cfg.Call.Role = "attendee"
	}
}

func validate(cfg Config) error {
	if cfg.Signaling.URL == "" {
		return nil
	}
	if !govalidator.IsURL(cfg.Signaling.URL) {
		return fmt.Errorf("invalid signaling url %q", cfg.Signaling.URL)
	}
	if !strings.HasPrefix(cfg.Signaling.URL, "ws://") && !strings.HasPrefix(cfg.Signaling.URL, "wss://") {
		return fmt.Errorf("signaling url must use ws or wss: %q", cfg.Signaling.URL)
	}
	return nil
}
