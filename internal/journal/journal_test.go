package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/javajack/xlbudget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "sub", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournal_RecordAndRecent(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()

	runID := NewRunID()
	require.NoError(t, j.Record(ctx,
		Entry{RunID: runID, Input: "in.xlsx", Output: "out.xlsx", Sheet: "Sheet1", Status: StatusOK, Range: "A1:U40", Formulas: 12, Duration: 3 * time.Millisecond},
		Entry{RunID: runID, Input: "in.xlsx", Output: "out.xlsx", Sheet: "Sheet2", Status: StatusSkipped},
	))

	entries, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Sheet2", entries[0].Sheet, "newest first")
	assert.Equal(t, StatusSkipped, entries[0].Status)

	first := entries[1]
	assert.Equal(t, runID, first.RunID)
	assert.Equal(t, "A1:U40", first.Range)
	assert.Equal(t, 12, first.Formulas)
	assert.Equal(t, 3*time.Millisecond, first.Duration)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestJournal_RecentLimit(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, j.Record(ctx, Entry{RunID: NewRunID(), Status: StatusOK}))
	}
	entries, err := j.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestJournal_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Record(context.Background(), Entry{RunID: "r1", Status: StatusOK}))
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()
	entries, err := j.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "r1", entries[0].RunID)
}

func TestNewRunID_Unique(t *testing.T) {
	assert.NotEqual(t, NewRunID(), NewRunID())
}

func TestFromReport(t *testing.T) {
	rep := &xlbudget.Report{Sheets: []xlbudget.SheetResult{
		{Sheet: "A", Range: xlbudget.Range{MaxRow: 9, MaxCol: 20}, Formulas: 4},
		{Sheet: "B", Skipped: true},
		{Sheet: "C", Err: errors.New("boom")},
	}}
	entries := FromReport("run", "in.xlsx", "out.xlsx", rep, nil)
	require.Len(t, entries, 3)

	assert.Equal(t, StatusOK, entries[0].Status)
	assert.Equal(t, "A1:U10", entries[0].Range)
	assert.Equal(t, 4, entries[0].Formulas)
	assert.Equal(t, StatusSkipped, entries[1].Status)
	assert.Equal(t, StatusFailed, entries[2].Status)
	assert.Equal(t, "boom", entries[2].Error)
}

func TestFromReport_NoReport(t *testing.T) {
	entries := FromReport("run", "in.xlsx", "", nil, errors.New("not a zip"))
	require.Len(t, entries, 1)
	assert.Equal(t, StatusFailed, entries[0].Status)
	assert.Equal(t, "not a zip", entries[0].Error)
}
