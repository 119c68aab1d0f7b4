// Package cache keeps the last successfully fetched value for each
// cacheable resource and season, so the dashboard can degrade to stale data
// when the upstream API is unreachable.
//
// Entries are opaque JSON snapshots. They are replaced wholesale on every
// successful fetch and never expire; the only way to invalidate all of them
// at once is to change the key prefix.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/dustin/go-humanize"

	"racedash/fetcherr"
	"racedash/models"
)

// DefaultPrefix namespaces every key. Bump the version to abandon old entries.
const DefaultPrefix = "f1_cache_v1"

// Kind names a cacheable resource. Race results have no kind on purpose.
type Kind string

const (
	KindDrivers      Kind = "drivers"
	KindConstructors Kind = "constructors"
	KindSchedule     Kind = "schedule"
)

// Key identifies one snapshot. It is derived per call and never stored.
type Key struct {
	Kind   Kind
	Season string
}

func DriversKey(season string) Key      { return Key{Kind: KindDrivers, Season: season} }
func ConstructorsKey(season string) Key { return Key{Kind: KindConstructors, Season: season} }
func ScheduleKey(season string) Key     { return Key{Kind: KindSchedule, Season: season} }

// Snapshot bundles whatever is cached for one season. A nil field means
// nothing was cached for that resource.
type Snapshot struct {
	Drivers      []models.DriverStandingsItem      `json:"drivers"`
	Constructors []models.ConstructorStandingsItem `json:"constructors"`
	Schedule     []models.Race                     `json:"schedule"`
}

type Stats struct {
	Entries   int      `json:"entries"`
	TotalSize int64    `json:"total_size"`
	HumanSize string   `json:"human_size"`
	Keys      []string `json:"keys"`
}

// Cache is safe for concurrent use. A nil storage turns every read into a
// miss and every write into a no-op.
type Cache struct {
	storage Storage
	prefix  string
	log     *slog.Logger
}

func New(storage Storage, prefix string, log *slog.Logger) *Cache {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if log == nil {
		log = slog.Default()
	}
	return &Cache{storage: storage, prefix: prefix, log: log}
}

// StorageKey renders k as {prefix}_{kind}_{season}.
func (c *Cache) StorageKey(k Key) string {
	return c.prefix + "_" + string(k.Kind) + "_" + k.Season
}

func (c *Cache) Prefix() string {
	return c.prefix
}

// Write replaces the entry for k with value. Failures are logged and dropped.
func (c *Cache) Write(ctx context.Context, k Key, value any) {
	if c.storage == nil {
		return
	}
	key := c.StorageKey(k)

	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("Cache not updated", slog.String("key", key), slog.Any("error", fetcherr.Storage("write", key, err)))
		return
	}

	if err := c.storage.Set(context.WithoutCancel(ctx), key, string(data)); err != nil {
		c.log.Warn("Cache not updated", slog.String("key", key), slog.Any("error", fetcherr.Storage("write", key, err)))
		return
	}
	c.log.Debug("Cache updated", slog.String("key", key), slog.Int("bytes", len(data)))
}

// Read decodes the entry for k into dst. It reports false when the entry is
// missing, unreadable or corrupted, in which case dst must not be used.
func (c *Cache) Read(ctx context.Context, k Key, dst any) bool {
	if c.storage == nil {
		return false
	}
	key := c.StorageKey(k)

	raw, ok, err := c.storage.Get(context.WithoutCancel(ctx), key)
	if err != nil {
		c.log.Warn("Cache read failed", slog.String("key", key), slog.Any("error", fetcherr.Storage("read", key, err)))
		return false
	}
	if !ok || raw == "" {
		return false
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		c.log.Warn("Corrupted cache entry ignored", slog.String("key", key), slog.Any("error", err))
		return false
	}
	return true
}

// Lookup is the typed form of Read. A stored JSON null counts as a miss.
func Lookup[T any](ctx context.Context, c *Cache, k Key) (T, bool) {
	var v *T
	if !c.Read(ctx, k, &v) || v == nil {
		var zero T
		return zero, false
	}
	return *v, true
}

// ReadSnapshot returns every cached resource for season, or nil when none
// of them is cached.
func (c *Cache) ReadSnapshot(ctx context.Context, season string) *Snapshot {
	drivers, okD := Lookup[[]models.DriverStandingsItem](ctx, c, DriversKey(season))
	constructors, okC := Lookup[[]models.ConstructorStandingsItem](ctx, c, ConstructorsKey(season))
	schedule, okS := Lookup[[]models.Race](ctx, c, ScheduleKey(season))

	if !okD && !okC && !okS {
		return nil
	}

	snap := &Snapshot{}
	if okD {
		snap.Drivers = nonNil(drivers)
	}
	if okC {
		snap.Constructors = nonNil(constructors)
	}
	if okS {
		snap.Schedule = nonNil(schedule)
	}
	return snap
}

func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Keys: []string{}, HumanSize: humanize.Bytes(0)}
	if c.storage == nil {
		return stats, nil
	}

	keys, err := c.storage.Keys(ctx, c.prefix+"_")
	if err != nil {
		return stats, fetcherr.Storage("stats", c.prefix, err)
	}

	for _, key := range keys {
		raw, ok, err := c.storage.Get(ctx, key)
		if err != nil {
			return stats, fetcherr.Storage("stats", key, err)
		}
		if !ok {
			continue
		}
		stats.Entries++
		stats.TotalSize += int64(len(raw))
		stats.Keys = append(stats.Keys, key)
	}
	stats.HumanSize = humanize.Bytes(uint64(stats.TotalSize))
	return stats, nil
}

// Clear drops every entry under the prefix. Only an explicit user action
// calls this; fetches never delete entries.
func (c *Cache) Clear(ctx context.Context) error {
	if c.storage == nil {
		return nil
	}
	if err := c.storage.Clear(ctx, c.prefix+"_"); err != nil {
		return fetcherr.Storage("clear", c.prefix, err)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
