// Package history holds the session-scoped translation log and the
// human-feedback map. Both stores live for one session and are passed
// explicitly into the components that need them; there is no global
// state and no persistence.
package history

import (
	"errors"
	"sync"
	"time"

	"spl2cql/internal/translate"
)

// ErrUnknownRecord is returned when feedback references a record id
// that was never translated in this session. This is a caller bug, not
// a runtime condition to tolerate.
var ErrUnknownRecord = errors.New("unknown record id")

// Entry pairs one query record with the result of one translation
// attempt.
type Entry struct {
	Record translate.QueryRecord
	Result translate.TranslationResult
}

// Judgment is a human correctness verdict on a translation.
type Judgment string

const (
	JudgmentCorrect   Judgment = "correct"
	JudgmentIncorrect Judgment = "incorrect"
)

// Feedback attaches a judgment to a past translation. At most one
// feedback entry exists per record id; resubmission overwrites.
type Feedback struct {
	RecordID  string
	Judgment  Judgment
	Note      string
	Timestamp time.Time
}

// Store is the append-only log of translation attempts plus the
// feedback map. Safe for concurrent use; append is the only mutation of
// the log, entries are never edited, removed or reordered.
type Store struct {
	mu       sync.RWMutex
	entries  []Entry
	feedback map[string]Feedback
	order    []string // feedback insertion order, stable across overwrites
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{feedback: make(map[string]Feedback)}
}

// Append records one translation attempt. Repeated calls create
// distinct entries; a retry is a new attempt, not an edit.
func (s *Store) Append(record translate.QueryRecord, result translate.TranslationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, Entry{Record: record, Result: result})
}

// All returns a snapshot of the log in insertion order.
func (s *Store) All() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of recorded attempts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Find returns the most recent entry for a record id.
func (s *Store) Find(recordID string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].Record.ID == recordID {
			return s.entries[i], true
		}
	}
	return Entry{}, false
}

// SetFeedback inserts or replaces the feedback for a record. The record
// must already exist in the log; otherwise ErrUnknownRecord.
func (s *Store) SetFeedback(recordID string, judgment Judgment, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := false
	for i := range s.entries {
		if s.entries[i].Record.ID == recordID {
			known = true
			break
		}
	}
	if !known {
		return ErrUnknownRecord
	}

	if _, exists := s.feedback[recordID]; !exists {
		s.order = append(s.order, recordID)
	}
	s.feedback[recordID] = Feedback{
		RecordID:  recordID,
		Judgment:  judgment,
		Note:      note,
		Timestamp: time.Now(),
	}
	return nil
}

// GetFeedback returns the feedback for a record, if any.
func (s *Store) GetFeedback(recordID string) (Feedback, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fb, ok := s.feedback[recordID]
	return fb, ok
}

// Feedbacks returns all feedback in first-submission order.
func (s *Store) Feedbacks() []Feedback {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Feedback, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.feedback[id])
	}
	return out
}
