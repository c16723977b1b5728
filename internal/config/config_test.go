package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644))
	return dir
}

const sampleConfig = `
server:
  port: "9090"
  mode: debug
database:
  driver: sqlite
  dsn: "file::memory:"
redis:
  enabled: true
  definition_ttl_seconds: 30
jwt:
  secret: test-secret
  expire_hours: 2
storage:
  type: minio
rate_limit:
  max_requests: 10
  window_minutes: 5
`

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, 30*time.Second, cfg.Redis.DefinitionTTL())
	assert.Equal(t, 5*time.Minute, cfg.RateLimit.Window())
	assert.Equal(t, "classroom-backend", cfg.Tracing.ServiceName)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DATABASE_DRIVER", "postgres")

	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestLoadConfigFlagOverride(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("port", "", "")
	require.NoError(t, flags.Parse([]string{"--port", "7070"}))
	BindFlags(flags)
	t.Cleanup(func() { BindFlags(nil) })

	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
}

func TestLoadConfigRejectsShortSecretInRelease(t *testing.T) {
	body := `
server:
  mode: release
database:
  driver: sqlite
jwt:
  secret: short
`
	_, err := LoadConfig(writeConfig(t, body))
	assert.Error(t, err)
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	body := `
database:
  driver: oracle
`
	_, err := LoadConfig(writeConfig(t, body))
	assert.Error(t, err)
}

func TestRedisDefinitionTTLDefault(t *testing.T) {
	assert.Equal(t, 10*time.Minute, RedisConfig{}.DefinitionTTL())
}
