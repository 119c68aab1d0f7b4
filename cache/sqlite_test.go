package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"racedash/models"
)

func newTestSQLite(t *testing.T) (*SQLiteStorage, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "racedash.db")
	s, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestSQLiteStorage_GetSet(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSQLite(t)

	_, ok, err := s.Get(ctx, "f1_cache_v1_drivers_2025")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "f1_cache_v1_drivers_2025", `[1]`))
	require.NoError(t, s.Set(ctx, "f1_cache_v1_drivers_2025", `[2]`))

	v, ok, err := s.Get(ctx, "f1_cache_v1_drivers_2025")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[2]`, v)
}

func TestSQLiteStorage_KeysAndClear(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSQLite(t)

	require.NoError(t, s.Set(ctx, "f1_cache_v1_schedule_2025", "[]"))
	require.NoError(t, s.Set(ctx, "f1_cache_v1_drivers_2025", "[]"))
	require.NoError(t, s.Set(ctx, "f1_cache_v0_drivers_2025", "[]"))

	keys, err := s.Keys(ctx, "f1_cache_v1_")
	require.NoError(t, err)
	assert.Equal(t, []string{"f1_cache_v1_drivers_2025", "f1_cache_v1_schedule_2025"}, keys)

	require.NoError(t, s.Clear(ctx, "f1_cache_v1_"))
	keys, err = s.Keys(ctx, "f1_cache_")
	require.NoError(t, err)
	assert.Equal(t, []string{"f1_cache_v0_drivers_2025"}, keys)
}

func TestSQLiteStorage_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	s, path := newTestSQLite(t)
	c := New(s, DefaultPrefix, quietLog)
	want := []models.Race{{Round: "5", RaceName: "Miami Grand Prix", Date: "2025-05-04"}}

	c.Write(ctx, ScheduleKey("2025"), want)
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok := Lookup[[]models.Race](ctx, New(reopened, DefaultPrefix, quietLog), ScheduleKey("2025"))
	require.True(t, ok)
	assert.Equal(t, want, got)
}
