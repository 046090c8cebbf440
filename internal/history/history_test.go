package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-dashboard-verification/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_RecordAndReload(t *testing.T) {
	dir := t.TempDir()
	l := NewLog(dir)

	older := &models.Run{ID: "a", Status: models.StatusPassed, StartedAt: time.Now().Add(-time.Hour)}
	newer := &models.Run{ID: "b", Status: models.StatusFailed, StartedAt: time.Now()}
	require.NoError(t, l.Record(context.Background(), older))
	require.NoError(t, l.Record(context.Background(), newer))

	reloaded := NewLog(dir)
	runs := reloaded.Recent(0)
	require.Len(t, runs, 2)
	assert.Equal(t, "b", runs[0].ID, "newest first")
	assert.Equal(t, "a", runs[1].ID)

	assert.Len(t, reloaded.Recent(1), 1)
}

func TestLog_DropsExpiredRuns(t *testing.T) {
	dir := t.TempDir()
	runs := []models.Run{
		{ID: "stale", StartedAt: time.Now().Add(-31 * 24 * time.Hour)},
		{ID: "fresh", StartedAt: time.Now().Add(-24 * time.Hour)},
	}
	data, err := json.Marshal(runs)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "runs.json"), data, 0644))

	l := NewLog(dir)
	got := l.Recent(0)
	require.Len(t, got, 1)
	assert.Equal(t, "fresh", got[0].ID)
}

func TestLog_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "runs.json"), []byte("{oops"), 0644))

	l := NewLog(dir)
	assert.Empty(t, l.Recent(0))
}
