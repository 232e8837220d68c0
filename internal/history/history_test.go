package history

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/execanything/xa/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	core.UseConfigDir(t.TempDir())
	t.Cleanup(core.ResetPaths)

	manager, err := NewManager(core.HistoryFile())
	require.NoError(t, err)
	return manager
}

func TestNewManager_WritesSchemaVersion(t *testing.T) {
	newTestManager(t)

	data, err := os.ReadFile(core.SchemaVersionFile())
	require.NoError(t, err)
	assert.Equal(t, "1", strings.TrimSpace(string(data)))
}

func TestNewManager_ReopensExistingDatabase(t *testing.T) {
	core.UseConfigDir(t.TempDir())
	t.Cleanup(core.ResetPaths)

	first, err := NewManager(core.HistoryFile())
	require.NoError(t, err)
	_, err = first.Record("translate", "hello", "test-model", time.Second, StatusOK)
	require.NoError(t, err)

	second, err := NewManager(core.HistoryFile())
	require.NoError(t, err)

	entries, err := second.RecentEntries(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "translate", entries[0].Command)
}

func TestRecord(t *testing.T) {
	manager := newTestManager(t)

	entry, err := manager.Record("polish", "fix this sentence", "test-model", 1500*time.Millisecond, StatusOK)
	require.NoError(t, err)

	assert.NotZero(t, entry.ID)
	assert.Equal(t, "polish", entry.Command)
	assert.Equal(t, "fix this sentence", entry.Input)
	assert.Equal(t, "test-model", entry.Model)
	assert.Equal(t, int64(1500), entry.DurationMs)
	assert.Equal(t, StatusOK, entry.Status)
}

func TestRecord_TruncatesLongInput(t *testing.T) {
	manager := newTestManager(t)

	long := strings.Repeat("word ", 100)
	entry, err := manager.Record("summarize", long, "test-model", time.Second, StatusOK)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(entry.Input), inputPreviewLimit+len("…"))
	assert.True(t, strings.HasSuffix(entry.Input, "…"))
}

func TestRecord_CollapsesWhitespaceInPreview(t *testing.T) {
	manager := newTestManager(t)

	entry, err := manager.Record("ask", "line one\n\tline two", "test-model", time.Second, StatusOK)
	require.NoError(t, err)
	assert.Equal(t, "line one line two", entry.Input)
}

func TestRecentEntries_ChronologicalOrderWithLimit(t *testing.T) {
	manager := newTestManager(t)

	base := time.Now().Add(-time.Hour)
	for i, command := range []string{"first", "second", "third"} {
		entry := InvocationEntry{
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Command:   command,
			Model:     "test-model",
			Status:    StatusOK,
		}
		require.NoError(t, manager.db.Create(&entry).Error)
	}

	entries, err := manager.RecentEntries(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Command)
	assert.Equal(t, "third", entries[1].Command)
}

func TestReset(t *testing.T) {
	manager := newTestManager(t)

	_, err := manager.Record("translate", "hello", "test-model", time.Second, StatusError)
	require.NoError(t, err)
	require.NoError(t, manager.Reset())

	entries, err := manager.RecentEntries(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
