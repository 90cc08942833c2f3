package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		TCP: TCPConfig{
			Host:         "0.0.0.0",
			Port:         11021,
			ReadTimeout:  5 * time.Minute,
			WriteTimeout: 30 * time.Second,
		},
		Websocket: WebsocketConfig{
			Enabled:      true,
			Host:         "0.0.0.0",
			Port:         11022,
			Path:         "/ws",
			WriteTimeout: 30 * time.Second,
		},
		Lobby: LobbyConfig{
			DefinitionsPath: "configs/lobbies.yaml",
		},
		Dispatch: DispatchConfig{
			Workers:    8,
			QueueDepth: 64,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfigValidate_TCP(t *testing.T) {
	cfg := validConfig()
	cfg.TCP.Port = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tcp.port")

	cfg = validConfig()
	cfg.TCP.ReadTimeout = -time.Second
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tcp.read_timeout")
}

func TestConfigValidate_Websocket(t *testing.T) {
	cfg := validConfig()
	cfg.Websocket.Path = "ws"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "websocket.path")

	cfg = validConfig()
	cfg.Websocket.Port = 70000
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "websocket.port")
}

func TestConfigValidate_WebsocketDisabledSkipsChecks(t *testing.T) {
	cfg := validConfig()
	cfg.Websocket = WebsocketConfig{Enabled: false}
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate_Lobby(t *testing.T) {
	cfg := validConfig()
	cfg.Lobby.DefinitionsPath = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lobby.definitions_path")
}

func TestConfigValidate_Dispatch(t *testing.T) {
	cfg := validConfig()
	cfg.Dispatch.Workers = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dispatch.workers")

	cfg = validConfig()
	cfg.Dispatch.QueueDepth = 0
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dispatch.queue_depth")
}

func TestConfigValidate_Logging(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")

	cfg = validConfig()
	cfg.Logging.Format = "xml"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.format")
}

func TestConfigValidate_CollectsAllViolations(t *testing.T) {
	cfg := validConfig()
	cfg.TCP.Port = 0
	cfg.Dispatch.Workers = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tcp.port")
	assert.Contains(t, err.Error(), "dispatch.workers")
}

func TestAddr(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "0.0.0.0:11021", cfg.TCP.Addr())
	assert.Equal(t, "0.0.0.0:11022", cfg.Websocket.Addr())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tcp:
  host: 127.0.0.1
  port: 4000
logging:
  level: debug
  format: console
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.TCP.Host)
	assert.Equal(t, 4000, cfg.TCP.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// unset sections fall back to defaults
	assert.Equal(t, 11022, cfg.Websocket.Port)
	assert.Equal(t, 8, cfg.Dispatch.Workers)
	assert.Equal(t, 5*time.Minute, cfg.TCP.ReadTimeout)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tcp:\n  port: -1\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tcp.port")
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tcp:\n  port: 4000\n"), 0644))

	t.Setenv("CHAT_TCP_PORT", "5000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.TCP.Port)
}

func TestPropertyValidPortsAccepted(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig()
		cfg.TCP.Port = rapid.IntRange(1, 65535).Draw(t, "tcp_port")
		cfg.Websocket.Port = rapid.IntRange(1, 65535).Draw(t, "ws_port")
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid ports rejected: %v", err)
		}
	})
}
