package cmd

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upstream = map[string]string{
	"/2025/driverStandings.json": `{"MRData":{"StandingsTable":{"StandingsLists":[{"DriverStandings":[
		{"position":"1","points":"423","wins":"7","Driver":{"driverId":"norris","givenName":"Lando","familyName":"Norris"},"Constructors":[{"constructorId":"mclaren","name":"McLaren"}]},
		{"position":"2","points":"410","wins":"7","Driver":{"driverId":"piastri","givenName":"Oscar","familyName":"Piastri"},"Constructors":[{"constructorId":"mclaren","name":"McLaren"}]}]}]}}}`,
	"/2025.json":           `{"MRData":{"RaceTable":{"Races":[{"round":"1","raceName":"Australian Grand Prix","date":"2025-03-16","Circuit":{"circuitName":"Albert Park Grand Prix Circuit"}}]}}}`,
	"/2025/1/results.json": `{"MRData":{"RaceTable":{"Races":[{"round":"1","raceName":"Australian Grand Prix","Results":[{"position":"1","number":"4","points":"25","Driver":{"givenName":"Lando","familyName":"Norris"},"Time":{"time":"1:42:06.304"}}]}]}}}`,
}

// run executes the command line against a fake upstream with its own
// sqlite file and returns what was printed.
func run(t *testing.T, apiURL, dbPath string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("RACEDASH_API_URL", apiURL)
	t.Setenv("RACEDASH_SQLITE_PATH", dbPath)
	t.Setenv("RACEDASH_HTTP_TIMEOUT", "2s")

	var stdout, stderr bytes.Buffer
	root := NewRootCmd(slog.New(slog.NewTextHandler(io.Discard, nil)), new(slog.LevelVar))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := upstream[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStandingsFallBackToSnapshot(t *testing.T) {
	srv := newUpstream(t)
	db := filepath.Join(t.TempDir(), "racedash.db")

	out, stderr, err := run(t, srv.URL, db, "standings", "drivers", "--season", "2025")
	require.NoError(t, err)
	assert.Contains(t, out, "Lando Norris")
	assert.Empty(t, stderr)

	srv.Close()

	out, stderr, err = run(t, srv.URL, db, "standings", "drivers", "--season", "2025")
	require.NoError(t, err)
	assert.Contains(t, out, "Oscar Piastri")
	assert.Contains(t, stderr, "source: cache")

	_, _, err = run(t, srv.URL, db, "standings", "constructors", "--season", "2025")
	assert.Error(t, err)
}

func TestCacheCommands(t *testing.T) {
	srv := newUpstream(t)
	db := filepath.Join(t.TempDir(), "racedash.db")

	_, _, err := run(t, srv.URL, db, "schedule", "--season", "2025")
	require.NoError(t, err)

	out, _, err := run(t, srv.URL, db, "cache", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "f1_cache_v1_schedule_2025")
	assert.Contains(t, out, "1 ENTRIES")

	out, _, err = run(t, srv.URL, db, "snapshot", "--season", "2025")
	require.NoError(t, err)
	assert.Contains(t, out, "Australian Grand Prix")

	out, _, err = run(t, srv.URL, db, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "f1_cache_v1")

	out, _, err = run(t, srv.URL, db, "snapshot", "--season", "2025")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing cached for season 2025")
}

func TestResultsCommand(t *testing.T) {
	srv := newUpstream(t)
	db := filepath.Join(t.TempDir(), "racedash.db")

	out, _, err := run(t, srv.URL, db, "results", "1", "--season", "2025")
	require.NoError(t, err)
	assert.Contains(t, out, "Australian Grand Prix, round 1")
	assert.Contains(t, out, "1:42:06.304")

	_, _, err = run(t, srv.URL, db, "results", "1", "--season", "2025", "--session", "sprint")
	assert.Error(t, err)

	_, _, err = run(t, srv.URL, db, "results", "1", "--season", "2025", "--session", "practice")
	assert.Error(t, err)

	_, _, err = run(t, srv.URL, db, "results", "first", "--season", "2025")
	assert.Error(t, err)
}

func TestCompareCommand(t *testing.T) {
	srv := newUpstream(t)
	db := filepath.Join(t.TempDir(), "racedash.db")

	out, _, err := run(t, srv.URL, db, "compare", "norris", "piastri", "--season", "2025")
	require.NoError(t, err)
	assert.Contains(t, out, "Lando Norris")
	assert.Contains(t, out, "Grand Prix Wins")

	out, _, err = run(t, srv.URL, db, "compare", "--team", "mclaren", "--season", "2025")
	require.NoError(t, err)
	assert.Contains(t, out, "Oscar Piastri")

	_, _, err = run(t, srv.URL, db, "compare", "norris", "--season", "2025")
	assert.Error(t, err)
}

func TestUnavailableStorageDegradesToLive(t *testing.T) {
	srv := newUpstream(t)
	db := filepath.Join(t.TempDir(), "missing", "dir", "racedash.db")

	out, _, err := run(t, srv.URL, db, "standings", "drivers", "--season", "2025")
	require.NoError(t, err)
	assert.Contains(t, out, "Lando Norris")

	out, _, err = run(t, srv.URL, db, "cache", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "0 ENTRIES")

	out, _, err = run(t, srv.URL, db, "snapshot", "--season", "2025")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing cached for season 2025")
}

func TestUnknownStorage(t *testing.T) {
	_, _, err := run(t, "http://127.0.0.1:1", "unused.db", "schedule", "--storage", "postgres")
	assert.ErrorContains(t, err, "unknown storage")
}
