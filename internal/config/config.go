// Package config provides Viper-based configuration loading for the chat
// server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// TCPConfig holds the raw TCP frontend settings.
type TCPConfig struct {
	// Host is the bind address for the TCP listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the packet listener.
	Port int `mapstructure:"port"`
	// ReadTimeout is the per-read timeout for client connections.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the per-write timeout for client connections.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the "host:port" listen address.
func (t TCPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

// WebsocketConfig holds the WebSocket frontend settings.
type WebsocketConfig struct {
	// Enabled toggles the WebSocket frontend.
	Enabled bool `mapstructure:"enabled"`
	// Host is the bind address for the HTTP listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the HTTP listener.
	Port int `mapstructure:"port"`
	// Path is the HTTP path of the WebSocket endpoint.
	Path string `mapstructure:"path"`
	// WriteTimeout is the per-write timeout for client connections.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the "host:port" listen address.
func (w WebsocketConfig) Addr() string {
	return fmt.Sprintf("%s:%d", w.Host, w.Port)
}

// LobbyConfig holds the lobby content settings.
type LobbyConfig struct {
	// DefinitionsPath is the path to the lobby definition YAML file.
	DefinitionsPath string `mapstructure:"definitions_path"`
}

// DispatchConfig holds the request dispatcher settings.
type DispatchConfig struct {
	// Workers is the number of dispatch worker goroutines. Sessions are
	// sharded across workers by session id.
	Workers int `mapstructure:"workers"`
	// QueueDepth is the per-worker inbound queue depth.
	QueueDepth int `mapstructure:"queue_depth"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	TCP       TCPConfig       `mapstructure:"tcp"`
	Websocket WebsocketConfig `mapstructure:"websocket"`
	Lobby     LobbyConfig     `mapstructure:"lobby"`
	Dispatch  DispatchConfig  `mapstructure:"dispatch"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateTCP(c.TCP); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateWebsocket(c.Websocket); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Lobby.DefinitionsPath == "" {
		errs = append(errs, "lobby.definitions_path must not be empty")
	}
	if err := validateDispatch(c.Dispatch); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateTCP(t TCPConfig) error {
	var errs []string
	if t.Port < 1 || t.Port > 65535 {
		errs = append(errs, fmt.Sprintf("tcp.port must be 1-65535, got %d", t.Port))
	}
	if t.ReadTimeout < 0 {
		errs = append(errs, "tcp.read_timeout must not be negative")
	}
	if t.WriteTimeout < 0 {
		errs = append(errs, "tcp.write_timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateWebsocket(w WebsocketConfig) error {
	if !w.Enabled {
		return nil
	}
	var errs []string
	if w.Port < 1 || w.Port > 65535 {
		errs = append(errs, fmt.Sprintf("websocket.port must be 1-65535, got %d", w.Port))
	}
	if !strings.HasPrefix(w.Path, "/") {
		errs = append(errs, fmt.Sprintf("websocket.path must start with /, got %q", w.Path))
	}
	if w.WriteTimeout < 0 {
		errs = append(errs, "websocket.write_timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDispatch(d DispatchConfig) error {
	var errs []string
	if d.Workers < 1 {
		errs = append(errs, fmt.Sprintf("dispatch.workers must be >= 1, got %d", d.Workers))
	}
	if d.QueueDepth < 1 {
		errs = append(errs, fmt.Sprintf("dispatch.queue_depth must be >= 1, got %d", d.QueueDepth))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with CHAT_ prefix
	v.SetEnvPrefix("CHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("tcp.host", "0.0.0.0")
	v.SetDefault("tcp.port", 11021)
	v.SetDefault("tcp.read_timeout", "5m")
	v.SetDefault("tcp.write_timeout", "30s")

	v.SetDefault("websocket.enabled", true)
	v.SetDefault("websocket.host", "0.0.0.0")
	v.SetDefault("websocket.port", 11022)
	v.SetDefault("websocket.path", "/ws")
	v.SetDefault("websocket.write_timeout", "30s")

	v.SetDefault("lobby.definitions_path", "configs/lobbies.yaml")

	v.SetDefault("dispatch.workers", 8)
	v.SetDefault("dispatch.queue_depth", 64)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
