package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/circuitlab/internal/config"
	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "circuitlab.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, domain.DefaultSnapThreshold, cfg.Engine.SnapThreshold)
	assert.Equal(t, config.DriverFile, cfg.Store.Driver)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), true)
	assert.ErrorContains(t, err, "failed to read config")
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "circuitlab.yaml", `
engine:
  snap_threshold: 40
  merge_mode: transitive
store:
  driver: redis
  redis:
    addr: cache:6379
    ttl: 24h
server:
  port: 9090
`)

	cfg, err := config.Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, 40.0, cfg.Engine.SnapThreshold)
	assert.Equal(t, "transitive", cfg.Engine.MergeMode)
	assert.Equal(t, domain.DefaultStepLimit, cfg.Engine.StepLimit, "untouched keys keep defaults")
	assert.Equal(t, "cache:6379", cfg.Store.Redis.Addr)
	ttl, err := cfg.Store.Redis.TTLDuration()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, ttl)
	assert.Equal(t, ":9090", cfg.Server.Addr())
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "circuitlab.json", `{"store": {"driver": "badger", "path": "data"}, "challenges": {"dir": "levels"}}`)

	cfg, err := config.Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, config.DriverBadger, cfg.Store.Driver)
	assert.Equal(t, "data", cfg.Store.Path)
	assert.Equal(t, "levels", cfg.Challenges.Dir)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"Unknown driver", "store:\n  driver: postgres\n", "Driver"},
		{"Negative threshold", "engine:\n  snap_threshold: -1\n", "SnapThreshold"},
		{"Bad merge mode", "engine:\n  merge_mode: sideways\n", "MergeMode"},
		{"Bad ttl", "store:\n  redis:\n    ttl: soon\n", "store.redis.ttl"},
		{"Redis without addr", "store:\n  driver: redis\n  redis:\n    addr: \"\"\n", "store.redis.addr"},
		{"Badger without path", "store:\n  driver: badger\n  path: \"\"\n", "store.path"},
		{"Malformed", "engine: [", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "circuitlab.yaml", tt.content)
			_, err := config.Load(path, true)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
