package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 4, cfg.MaxLength)
	assert.Equal(t, 10, cfg.MaxWords)
	assert.Equal(t, Limits{MaxLength: 10, MaxWords: 50}, cfg.Limits)
}

func TestLoad_Limits(t *testing.T) {
	path := writeFile(t, "chomsky.yaml", `
max_length: 12
limits:
  max_length: 20
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.MaxLength)
	assert.Equal(t, Limits{MaxLength: 20, MaxWords: 50}, cfg.Limits)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "chomsky.yaml", `
max_length: 6
http:
  port: 9090
redis:
  addr: localhost:6379
  ttl: 1h
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.MaxLength)
	assert.Equal(t, 10, cfg.MaxWords, "unset fields keep defaults")
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "chomsky:conversion:", cfg.Redis.Prefix)

	ttl, err := cfg.Redis.TTLDuration()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, ttl)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "chomsky.json", `{"max_words": 3, "grammars_dir": "lib"}`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxWords)
	assert.Equal(t, "lib", cfg.GrammarsDir)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":   "max_length: [",
		"zero bound": "max_length: 0",
		"bad ttl":    "redis:\n  ttl: soon",
		"over limit": "max_words: 60",
		"low limit":  "limits:\n  max_length: 3",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "chomsky.yaml", content))
			assert.Error(t, err)
		})
	}
}
