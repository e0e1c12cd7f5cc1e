package session

import (
	"sync"
	"time"

	"github.com/jinzhu/copier"

	"github.com/attartravel/voice-core/core/events"
)

// Entry is one line of the call transcript. Markup entries carry rendered
// card content rather than speech.
type Entry struct {
	Role      events.Role
	Content   string
	Final     bool
	Markup    bool
	Timestamp time.Time
}

// Transcript is the append-only, de-duplicated conversation record for one
// call. It holds at most one trailing non-final entry per role; a later
// revision of the same utterance replaces that entry in place instead of
// appending.
//
// All mutation happens from the single event-handling goroutine that drains
// SDK events, so the lock only guards snapshot readers.
type Transcript struct {
	mu      sync.RWMutex
	entries []Entry

	// speaking indicates who produced the most recent fragment. It is
	// informational only and never authoritative for data flow.
	speaking events.Role
}

// Ingest applies one transcript fragment and returns the updated sequence.
//
// A non-final fragment for the role currently holding the trailing partial
// coalesces into it; a final fragment converts that partial in place. A
// final fragment whose (role, content) already exists as a final entry
// anywhere in the sequence is discarded, because the same final utterance
// may arrive through two delivery channels.
func (t *Transcript) Ingest(event events.TranscriptUpdated) []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.speaking = event.Role

	last := t.lastEntry()
	hasTrailingPartial := last != nil && last.Role == event.Role && !last.Final

	if !event.Final {
		if hasTrailingPartial {
			last.Content = event.Text
		} else {
			t.entries = append(t.entries, Entry{
				Role:      event.Role,
				Content:   event.Text,
				Timestamp: event.Timestamp(),
			})
		}
		return t.snapshotLocked()
	}

	for _, entry := range t.entries {
		if entry.Final && entry.Role == event.Role && entry.Content == event.Text {
			return t.snapshotLocked()
		}
	}

	if hasTrailingPartial {
		last.Content = event.Text
		last.Final = true
		last.Timestamp = event.Timestamp()
	} else {
		t.entries = append(t.entries, Entry{
			Role:      event.Role,
			Content:   event.Text,
			Final:     true,
			Timestamp: event.Timestamp(),
		})
	}
	return t.snapshotLocked()
}

// AppendNotice appends a final system entry, used for session-level
// confirmations surfaced inline with the conversation.
func (t *Transcript) AppendNotice(content string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, Entry{
		Role:      events.RoleSystem,
		Content:   content,
		Final:     true,
		Timestamp: time.Now(),
	})
}

// AppendMarkup appends a final assistant entry carrying rendered card
// content.
func (t *Transcript) AppendMarkup(content string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, Entry{
		Role:      events.RoleAssistant,
		Content:   content,
		Final:     true,
		Markup:    true,
		Timestamp: time.Now(),
	})
}

// Snapshot returns a copy of the current sequence.
func (t *Transcript) Snapshot() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshotLocked()
}

// Speaking reports who produced the most recent fragment.
func (t *Transcript) Speaking() events.Role {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.speaking
}

// Len reports the number of entries.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Clear discards all entries at call teardown.
func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = nil
	t.speaking = ""
}

func (t *Transcript) lastEntry() *Entry {
	if len(t.entries) == 0 {
		return nil
	}
	return &t.entries[len(t.entries)-1]
}

func (t *Transcript) snapshotLocked() []Entry {
	var entries []Entry
	copier.Copy(&entries, t.entries)
	return entries
}
