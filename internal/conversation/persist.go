package conversation

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"ml-course-assistant/backend/internal/models"
)

// Snapshot file names inside the snapshot directory. Each file holds the full
// current state keyed by conversation id; every mutation rewrites both.
const (
	conversationsFile = "conversations.json"
	messagesFile      = "messages.json"
)

// loadSnapshots restores state from the snapshot directory. Missing files mean
// a fresh start; unreadable or malformed files are logged and skipped so the
// process still comes up empty rather than failing.
func (s *Store) loadSnapshots() {
	var convs map[string]*models.Conversation
	if s.readSnapshot(conversationsFile, &convs) && convs != nil {
		s.conversations = convs
	}

	var msgs map[string][]models.Message
	if s.readSnapshot(messagesFile, &msgs) && msgs != nil {
		s.messages = msgs
	}

	s.log.Info("store snapshots loaded",
		"dir", s.snapshotDir,
		"conversations", len(s.conversations),
	)
}

func (s *Store) readSnapshot(name string, v any) bool {
	data, err := os.ReadFile(filepath.Join(s.snapshotDir, name))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.LogError(err, "failed to read store snapshot", "file", name)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.log.LogError(err, "failed to parse store snapshot", "file", name)
		return false
	}
	return true
}

// saveSnapshotsLocked mirrors the current state to disk. Callers must hold the
// write lock. Failures are logged and swallowed: the in-memory state stays
// authoritative for the request/response cycle.
func (s *Store) saveSnapshotsLocked() {
	if s.snapshotDir == "" {
		return
	}

	if err := os.MkdirAll(s.snapshotDir, 0o755); err != nil {
		s.log.LogError(err, "failed to create snapshot directory", "dir", s.snapshotDir)
		return
	}

	s.writeSnapshot(conversationsFile, s.conversations)
	s.writeSnapshot(messagesFile, s.messages)
}

func (s *Store) writeSnapshot(name string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		s.log.LogError(err, "failed to encode store snapshot", "file", name)
		return
	}
	if err := os.WriteFile(filepath.Join(s.snapshotDir, name), data, 0o644); err != nil {
		s.log.LogError(err, "failed to write store snapshot", "file", name)
	}
}
