package memory

import (
	"fmt"
	"sync"
)

// NoteStore is the short-term memory tier: an ordered list of raw text
// notes living in process memory. Each conversation loop instance owns its
// own NoteStore; nothing survives the instance.
type NoteStore struct {
	mu       sync.RWMutex
	notes    []string
	maxNotes int
}

// NoteOption configures a NoteStore.
type NoteOption func(*NoteStore)

// WithMaxNotes caps the number of stored notes. Appends beyond the cap
// fail rather than evicting, so the transcript and the tier stay in
// agreement about what was remembered. Zero means unbounded (the default).
func WithMaxNotes(n int) NoteOption {
	return func(s *NoteStore) {
		s.maxNotes = n
	}
}

// NewNoteStore creates an empty short-term note store.
func NewNoteStore(opts ...NoteOption) *NoteStore {
	s := &NoteStore{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append adds a note at the end of the list.
func (s *NoteStore) Append(note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxNotes > 0 && len(s.notes) >= s.maxNotes {
		return fmt.Errorf("note limit reached (%d)", s.maxNotes)
	}
	s.notes = append(s.notes, note)
	return nil
}

// All returns the notes in insertion order. The returned slice is a copy.
func (s *NoteStore) All() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.notes))
	copy(out, s.notes)
	return out
}

// Len returns the number of stored notes.
func (s *NoteStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}
