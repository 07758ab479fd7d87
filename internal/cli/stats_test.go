package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/autotimer/internal/ir"
	"github.com/roach88/autotimer/internal/store"
	"github.com/roach88/autotimer/internal/testutil"
	"github.com/roach88/autotimer/internal/timing"
)

type seedRun struct {
	session string
	startMS int64
	events  []ir.Event
}

func transitionAt(id int, name string, ms int64) ir.Event {
	return ir.NewTransition(ir.Tile{ID: id, Name: name, At: testutil.At(ms)})
}

func checkAt(kind ir.CheckKind, id int, ms int64) ir.Event {
	return ir.EventFor(ir.Check{ID: id, Kind: kind, CheckedAt: testutil.At(ms)})
}

// seedStore writes runs to a new database and returns its path.
func seedStore(t *testing.T, runs ...seedRun) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stats.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	var seq int64
	for _, r := range runs {
		require.NoError(t, st.StartSession(ctx, ir.Session{
			ID:            r.session,
			DataHash:      "test-hash",
			EngineVersion: ir.EngineVersion,
			StartedAt:     testutil.At(r.startMS),
		}))
		for _, e := range r.events {
			seq++
			rec, err := ir.NewRecord(e, r.session, seq)
			require.NoError(t, err)
			require.NoError(t, st.WriteEvent(ctx, rec))
		}
	}
	return path
}

// threeFinishedRuns are 10.000, 9.000 and 10.500 long with one abandoned
// run between the second and third.
func threeFinishedRuns(t *testing.T) string {
	return seedStore(t,
		seedRun{"s1", 0, []ir.Event{
			transitionAt(2, "Link's House Area", 100),
			checkAt(ir.KindItem, 7, 1100),
			checkAt(ir.KindEvent, 5, 10100),
		}},
		seedRun{"s2", 20000, []ir.Event{
			transitionAt(2, "Link's House Area", 20100),
			checkAt(ir.KindItem, 7, 21000),
			checkAt(ir.KindEvent, 5, 29100),
		}},
		seedRun{"s3", 40000, []ir.Event{
			transitionAt(2, "Link's House Area", 40100),
			checkAt(ir.KindItem, 1, 41000),
			checkAt(ir.KindAction, 1, 41500),
		}},
		seedRun{"s4", 60000, []ir.Event{
			transitionAt(2, "Link's House Area", 60100),
			checkAt(ir.KindItem, 7, 61300),
			transitionAt(556, "End Credits", 70600),
		}},
	)
}

func executeStats(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewStatsCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestStatsMissingDatabaseFlag(t *testing.T) {
	_, err := executeStats(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
	assert.Contains(t, err.Error(), "db")
}

func TestStatsNonExistentDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")
	output, err := executeStats(t, "text", "--db", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, "Error [E005]")
	assert.NoFileExists(t, path, "stats never creates a database")
}

func TestStatsInvalidWindow(t *testing.T) {
	_, err := executeStats(t, "text", "--db", seedStore(t), "--window", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestStatsEmptyDatabase(t *testing.T) {
	output, err := executeStats(t, "text", "--db", seedStore(t))
	require.NoError(t, err)
	assert.Contains(t, output, "No completed runs found in database.")
}

func TestStatsText(t *testing.T) {
	output, err := executeStats(t, "text", "--db", threeFinishedRuns(t), "--window", "2")
	require.NoError(t, err)

	assert.Contains(t, output, "Completed runs: 3")
	assert.Contains(t, output, "Best:           9.000")
	assert.Contains(t, output, "Average:        9.833")
	assert.Contains(t, output, "Rolling (2):    9.750")
	assert.Contains(t, output, "Latest (s4)")
	assert.Contains(t, output, "Finished in 10.500 (+ 1.500)")
	assert.Contains(t, output, "Sword")
	assert.Contains(t, output, "End Credits")
}

func TestStatsJSON(t *testing.T) {
	output, err := executeStats(t, "json", "--db", threeFinishedRuns(t))
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   StatsResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)

	stats := resp.Data
	assert.Equal(t, 3, stats.Runs)
	assert.Equal(t, int64(9000), stats.BestMS)
	assert.Equal(t, int64(9833), stats.AverageMS)
	assert.Equal(t, int64(9833), stats.RollingMS, "window 5 covers every run")
	assert.Equal(t, DefaultWindow, stats.Window)

	require.NotNil(t, stats.Latest)
	assert.Equal(t, LatestRun{Session: "s4", DurationMS: 10500, Verdict: "bad", DiffMS: 1500}, *stats.Latest)

	assert.Equal(t, []SplitStat{
		{Index: 1, Name: "Sword", BestMS: 900, AvgMS: 1033},
		{Index: 2, Name: "End Credits", BestMS: 8100, AvgMS: 8800},
	}, stats.Splits)
}

func TestSummarize(t *testing.T) {
	run := func(session string, ms ...int64) timing.RunRecord {
		r := timing.RunRecord{Session: session}
		for i, v := range ms {
			r.Splits = append(r.Splits, timing.Split{Kind: ir.EventItemGet, ID: i + 1, At: testutil.At(v)})
		}
		return r
	}

	t.Run("first run is best", func(t *testing.T) {
		got := Summarize([]timing.RunRecord{run("a", 0, 5000)}, 5, nil)
		require.NotNil(t, got.Latest)
		assert.Equal(t, "best", got.Latest.Verdict)
		assert.Equal(t, int64(0), got.Latest.DiffMS)
		assert.Equal(t, "item_get #2", got.Splits[0].Name)
	})

	t.Run("new best", func(t *testing.T) {
		got := Summarize([]timing.RunRecord{run("a", 0, 5000), run("b", 0, 4000)}, 5, nil)
		assert.Equal(t, LatestRun{Session: "b", DurationMS: 4000, Verdict: "best", DiffMS: 1000}, *got.Latest)
	})

	t.Run("within tolerance", func(t *testing.T) {
		got := Summarize([]timing.RunRecord{run("a", 0, 5000), run("b", 0, 5020)}, 5, nil)
		assert.Equal(t, "ok", got.Latest.Verdict)
		assert.Equal(t, timing.Tolerance.Milliseconds(), got.Latest.DiffMS)
	})

	t.Run("no runs", func(t *testing.T) {
		got := Summarize(nil, 5, nil)
		assert.Zero(t, got.Runs)
		assert.Nil(t, got.Latest)
	})
}

func TestCompletedRuns(t *testing.T) {
	victory := timing.RunRecord{Session: "won", Splits: []timing.Split{
		{Kind: ir.EventTransition, ID: 2},
		{Kind: ir.EventOther, ID: 5},
	}}
	credits := timing.RunRecord{Session: "credits", Splits: []timing.Split{
		{Kind: ir.EventTransition, ID: 556},
	}}
	abandoned := timing.RunRecord{Session: "abandoned", Splits: []timing.Split{
		{Kind: ir.EventOther, ID: 5},
		{Kind: ir.EventItemGet, ID: 7, At: time.Time{}},
	}}
	empty := timing.RunRecord{Session: "empty"}

	got := completedRuns([]timing.RunRecord{victory, abandoned, credits, empty})
	require.Len(t, got, 2)
	assert.Equal(t, "won", got[0].Session)
	assert.Equal(t, "credits", got[1].Session)
}
