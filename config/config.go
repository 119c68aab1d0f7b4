// Package config reads racedash settings from flags, the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	_ "time/tzdata"

	"github.com/spf13/viper"

	"racedash/cache"
	"racedash/ergast"
)

const envPrefix = "RACEDASH"

const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
	StorageValkey = "valkey"
	StorageNone   = "none"
)

const (
	KeyAPIURL         = "api_url"
	KeyHTTPTimeout    = "http_timeout"
	KeyCachePrefix    = "cache_prefix"
	KeyStorage        = "storage"
	KeySQLitePath     = "sqlite_path"
	KeyValkeyAddress  = "valkey_address"
	KeyValkeyPassword = "valkey_password"
	KeyValkeyDB       = "valkey_db"
	KeyHTTPPort       = "http_port"
	KeySeason         = "season"
	KeyTimezone       = "timezone"
	KeyDebug          = "debug"
)

type Config struct {
	APIURL      string
	HTTPTimeout time.Duration
	CachePrefix string

	Storage        string
	SQLitePath     string
	ValkeyAddress  string
	ValkeyPassword string
	ValkeyDB       int

	HTTPPort string
	Season   string
	Location *time.Location
	Debug    bool
}

// Init binds v to the RACEDASH_ environment and registers the defaults.
func Init(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyAPIURL, ergast.DefaultBaseURL)
	v.SetDefault(KeyHTTPTimeout, ergast.DefaultTimeout)
	v.SetDefault(KeyCachePrefix, cache.DefaultPrefix)
	v.SetDefault(KeyStorage, StorageSQLite)
	v.SetDefault(KeySQLitePath, "racedash.db")
	v.SetDefault(KeyValkeyAddress, "localhost:6379")
	v.SetDefault(KeyValkeyPassword, "")
	v.SetDefault(KeyValkeyDB, 0)
	v.SetDefault(KeyHTTPPort, "3000")
	v.SetDefault(KeySeason, "current")
	v.SetDefault(KeyTimezone, "UTC")
	v.SetDefault(KeyDebug, false)
}

func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		APIURL:         v.GetString(KeyAPIURL),
		HTTPTimeout:    v.GetDuration(KeyHTTPTimeout),
		CachePrefix:    v.GetString(KeyCachePrefix),
		Storage:        strings.ToLower(v.GetString(KeyStorage)),
		SQLitePath:     v.GetString(KeySQLitePath),
		ValkeyAddress:  v.GetString(KeyValkeyAddress),
		ValkeyPassword: v.GetString(KeyValkeyPassword),
		ValkeyDB:       v.GetInt(KeyValkeyDB),
		HTTPPort:       v.GetString(KeyHTTPPort),
		Season:         v.GetString(KeySeason),
		Debug:          v.GetBool(KeyDebug),
	}

	switch cfg.Storage {
	case StorageSQLite, StorageMemory, StorageValkey, StorageNone:
	default:
		return nil, fmt.Errorf("unknown storage %q, want one of sqlite, memory, valkey, none", cfg.Storage)
	}
	if cfg.HTTPTimeout < 0 {
		return nil, fmt.Errorf("negative http timeout %s", cfg.HTTPTimeout)
	}
	if cfg.CachePrefix == "" {
		return nil, fmt.Errorf("empty cache prefix")
	}

	loc, err := time.LoadLocation(v.GetString(KeyTimezone))
	if err != nil {
		return nil, fmt.Errorf("error loading timezone: %w", err)
	}
	cfg.Location = loc

	return cfg, nil
}

// NewStorage opens the snapshot backend named by cfg.Storage. It returns a
// nil Storage for "none", which disables the fallback tier.
func NewStorage(cfg *Config) (cache.Storage, error) {
	switch cfg.Storage {
	case StorageSQLite:
		s, err := cache.NewSQLiteStorage(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case StorageMemory:
		return cache.NewMemoryStorage(), nil
	case StorageValkey:
		s, err := cache.NewValkeyStorage(cache.ValkeyConfig{
			Address:  cfg.ValkeyAddress,
			Password: cfg.ValkeyPassword,
			DB:       cfg.ValkeyDB,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case StorageNone:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
}

// Bot tokens keep the bot's own variable names and are only required by the
// bot commands.
func VkToken() (string, error) {
	return getEnv("RACEVK_BOT")
}

func TgToken() (string, error) {
	return getEnv("RACETG_BOT")
}

func getEnv(key string) (string, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", fmt.Errorf("error getting environment %s", key)
	}
	return value, nil
}
