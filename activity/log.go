// ABOUTME: Append-only activity log persisted to local key-value storage
// ABOUTME: Bounded at 100 entries, newest first, best-effort writes
package activity

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	"github.com/harperreed/userdesk/models"
)

const (
	// StorageKey is the fixed key holding the serialized log blob.
	StorageKey = "activityLogs"

	// MaxEntries caps the persisted sequence; the oldest entry is evicted
	// once the cap is exceeded.
	MaxEntries = 100
)

// Storage is the durable key-value capability the logger writes through.
// Injected rather than ambient so tests can substitute a fake.
type Storage interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
}

// Logger records audit events. It is stateless between calls; the stored
// blob is the only state, read-modify-written on every append. Safe only
// under a single logical writer.
type Logger struct {
	storage Storage
	diag    *log.Logger
}

// NewLogger creates a logger over the given storage.
func NewLogger(storage Storage) *Logger {
	return &Logger{
		storage: storage,
		diag:    log.Default(),
	}
}

// WithDiagnostics replaces the diagnostic logger. Diagnostics never reach
// the operator surfaces.
func (l *Logger) WithDiagnostics(diag *log.Logger) *Logger {
	l.diag = diag
	return l
}

// Append persists a new entry at the front of the stored sequence,
// truncating to MaxEntries. The existing sequence is re-read on every call;
// unreadable or malformed contents are treated as empty rather than fatal.
func (l *Logger) Append(action, targetUsername string) error {
	entry := models.ActivityLog{
		ID:             newEntryID(),
		Action:         action,
		TargetUsername: targetUsername,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}

	existing := l.ReadAll()

	updated := make([]models.ActivityLog, 0, len(existing)+1)
	updated = append(updated, entry)
	updated = append(updated, existing...)
	if len(updated) > MaxEntries {
		updated = updated[:MaxEntries]
	}

	data, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("failed to encode activity log: %w", err)
	}
	if err := l.storage.Set([]byte(StorageKey), data); err != nil {
		return fmt.Errorf("failed to write activity log: %w", err)
	}
	return nil
}

// Record is the fire-and-forget form of Append used by the user store.
// Logging is best-effort: a storage failure is reported to the diagnostic
// channel and never rolls back or fails the triggering mutation.
func (l *Logger) Record(action, targetUsername string) {
	if err := l.Append(action, targetUsername); err != nil {
		l.diag.Error("failed to write to activity log", "action", action, "err", err)
	}
}

// ReadAll loads the persisted sequence, newest first. Absent, empty, or
// malformed storage reads as an empty sequence.
func (l *Logger) ReadAll() []models.ActivityLog {
	data, err := l.storage.Get([]byte(StorageKey))
	if err != nil || len(data) == 0 {
		return []models.ActivityLog{}
	}

	var entries []models.ActivityLog
	if err := json.Unmarshal(data, &entries); err != nil {
		l.diag.Warn("discarding malformed activity log", "err", err)
		return []models.ActivityLog{}
	}
	return entries
}

// Filter returns the entries matching both filters. An empty actionFilter
// matches every action; a non-empty one must equal the entry action exactly.
// An empty dateFilter matches every date; a non-empty one must prefix the
// entry's UTC calendar date (the first 10 characters of the timestamp).
func Filter(entries []models.ActivityLog, actionFilter, dateFilter string) []models.ActivityLog {
	filtered := make([]models.ActivityLog, 0, len(entries))
	for _, e := range entries {
		if actionFilter != "" && e.Action != actionFilter {
			continue
		}
		if dateFilter != "" {
			datePart := e.Timestamp
			if len(datePart) > 10 {
				datePart = datePart[:10]
			}
			if !strings.HasPrefix(datePart, dateFilter) {
				continue
			}
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// newEntryID builds a practically unique identifier from the current
// timestamp plus random entropy. Not cryptographic.
func newEntryID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return "log-" + ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
