package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"racedash/cache"
)

func newViper() *viper.Viper {
	v := viper.New()
	Init(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, "https://api.jolpi.ca/ergast/f1", cfg.APIURL)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "f1_cache_v1", cfg.CachePrefix)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, "racedash.db", cfg.SQLitePath)
	assert.Equal(t, "3000", cfg.HTTPPort)
	assert.Equal(t, "current", cfg.Season)
	assert.Equal(t, time.UTC, cfg.Location)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("RACEDASH_STORAGE", "Memory")
	t.Setenv("RACEDASH_HTTP_TIMEOUT", "0")
	t.Setenv("RACEDASH_SEASON", "2024")
	t.Setenv("RACEDASH_TIMEZONE", "Europe/Moscow")

	cfg, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Zero(t, cfg.HTTPTimeout)
	assert.Equal(t, "2024", cfg.Season)
	assert.Equal(t, "Europe/Moscow", cfg.Location.String())
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown storage", KeyStorage, "postgres"},
		{"negative timeout", KeyHTTPTimeout, "-1s"},
		{"empty prefix", KeyCachePrefix, ""},
		{"bad timezone", KeyTimezone, "Mars/Olympus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.val)
			_, err := Load(v)
			assert.Error(t, err)
		})
	}
}

func TestNewStorage(t *testing.T) {
	s, err := NewStorage(&Config{Storage: StorageNone})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = NewStorage(&Config{Storage: StorageMemory})
	require.NoError(t, err)
	assert.IsType(t, &cache.MemoryStorage{}, s)

	s, err = NewStorage(&Config{Storage: StorageSQLite, SQLitePath: filepath.Join(t.TempDir(), "cache.db")})
	require.NoError(t, err)
	assert.IsType(t, &cache.SQLiteStorage{}, s)
	require.NoError(t, s.Close())

	_, err = NewStorage(&Config{Storage: "redis"})
	assert.Error(t, err)
}

func TestBotTokens(t *testing.T) {
	t.Setenv("RACEVK_BOT", "")
	_, err := VkToken()
	assert.Error(t, err)

	t.Setenv("RACETG_BOT", "123:abc")
	token, err := TgToken()
	require.NoError(t, err)
	assert.Equal(t, "123:abc", token)
}
