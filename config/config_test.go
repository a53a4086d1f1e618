package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, int32(0), cfg.Engine.IDStart)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Pretty())
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, DriverNone, cfg.Messaging.Driver)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Messaging.Brokers)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
engine:
  id_start: 1000
  id_min: 1
log:
  level: debug
  format: json
telemetry:
  enabled: true
  endpoint: collector:4317
messaging:
  driver: redis
  redis_addr: cache:6379
  stream: book
`)

	cfg, err := LoadConfig([]string{"-config", path})
	require.NoError(t, err)

	assert.Equal(t, int32(1000), cfg.Engine.IDStart)
	assert.Equal(t, int32(1), cfg.Engine.IDMin)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Pretty())
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "collector:4317", cfg.Telemetry.Endpoint)
	assert.Equal(t, "matchbook", cfg.Telemetry.ServiceName, "unset keys keep defaults")
	assert.Equal(t, DriverRedis, cfg.Messaging.Driver)
	assert.Equal(t, "cache:6379", cfg.Messaging.RedisAddr)
	assert.Equal(t, "book", cfg.Messaging.Stream)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, "log:\n  level: debug\nmessaging:\n  driver: redis\n")

	cfg, err := LoadConfig([]string{
		"-config", path,
		"-log_level", "warn",
		"-messaging", "kafka",
		"-brokers", "k1:9092,k2:9092",
	})
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, DriverKafka, cfg.Messaging.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Messaging.Brokers)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = LoadConfig([]string{"-config", writeConfig(t, "engine: [")})
	assert.ErrorContains(t, err, "failed to parse config file")

	_, err = LoadConfig([]string{"-messaging", "carrier-pigeon"})
	assert.ErrorContains(t, err, "unknown messaging driver")

	_, err = LoadConfig([]string{"-config", writeConfig(t, "engine:\n  id_start: 1\n  id_min: 5\n")})
	assert.ErrorContains(t, err, "invalid id range")

	_, err = LoadConfig([]string{"-no-such-flag"})
	assert.Error(t, err)
}
