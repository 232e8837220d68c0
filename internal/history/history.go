// Package history records template-command invocations in a local sqlite
// database. Recording is best-effort: failures are reported as warnings and
// never abort the command being run.
package history

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/execanything/xa/internal/core"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type Manager struct {
	db *gorm.DB
}

type InvocationEntry struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Command    string
	Input      string
	Model      string
	DurationMs int64
	Status     string
}

const (
	historySchemaVersion = 1

	// StatusOK and StatusError are the recorded invocation outcomes.
	StatusOK    = "ok"
	StatusError = "error"

	inputPreviewLimit = 80
)

func NewManager(dbFilePath string) (*Manager, error) {
	dbFileExists := true
	if _, err := os.Stat(dbFilePath); errors.Is(err, os.ErrNotExist) {
		dbFileExists = false
	} else if err != nil {
		return nil, fmt.Errorf("error checking history db: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbFilePath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("error opening history db: %w", err)
	}

	if needsMigration(dbFileExists, db) {
		if err := db.AutoMigrate(&InvocationEntry{}); err != nil {
			return nil, fmt.Errorf("error migrating history schema: %w", err)
		}
		if err := writeSchemaVersion(historySchemaVersion); err != nil {
			return nil, fmt.Errorf("error writing history schema version: %w", err)
		}
	}

	return &Manager{db: db}, nil
}

func needsMigration(dbFileExists bool, db *gorm.DB) bool {
	if !dbFileExists {
		return true
	}

	versionMatches, err := schemaVersionMatches()
	if err != nil || !versionMatches {
		return true
	}

	// If the version marker is present but the table is missing (corruption
	// or manual deletion), re-run migrations to restore the schema.
	return !db.Migrator().HasTable(&InvocationEntry{})
}

func writeSchemaVersion(version int) error {
	return os.WriteFile(core.SchemaVersionFile(), []byte(strconv.Itoa(version)), 0644)
}

func schemaVersionMatches() (bool, error) {
	data, err := os.ReadFile(core.SchemaVersionFile())
	if err != nil {
		return false, err
	}
	version, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return false, err
	}
	if version != historySchemaVersion {
		return false, fmt.Errorf("history schema version mismatch: got %d, want %d", version, historySchemaVersion)
	}
	return true, nil
}

// Record stores one invocation. The input is truncated to a short preview so
// the history never accumulates large pasted texts.
func (m *Manager) Record(command string, input string, model string, duration time.Duration, status string) (*InvocationEntry, error) {
	entry := InvocationEntry{
		Command:    command,
		Input:      previewOf(input),
		Model:      model,
		DurationMs: duration.Milliseconds(),
		Status:     status,
	}

	result := m.db.Create(&entry)
	if result.Error != nil {
		return nil, result.Error
	}

	return &entry, nil
}

// RecentEntries returns up to limit entries in chronological order.
func (m *Manager) RecentEntries(limit int) ([]InvocationEntry, error) {
	var entries []InvocationEntry
	result := m.db.Order("created_at desc").Limit(limit).Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	slices.Reverse(entries)
	return entries, nil
}

// Reset deletes all recorded invocations.
func (m *Manager) Reset() error {
	result := m.db.Exec("DELETE FROM invocation_entries")
	return result.Error
}

func previewOf(input string) string {
	input = strings.Join(strings.Fields(input), " ")
	if len(input) <= inputPreviewLimit {
		return input
	}
	return input[:inputPreviewLimit] + "…"
}
