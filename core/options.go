package session

import (
	"time"

	"github.com/attartravel/voice-core/core/backend"
	"github.com/attartravel/voice-core/core/bus"
	"github.com/attartravel/voice-core/core/events"
)

type Option func(*Session)

func WithBackendClient(client *backend.Client) Option {
	return func(s *Session) { s.backendClient = client }
}

func WithBus(b *bus.Bus) Option {
	return func(s *Session) { s.eventBus = b }
}

func WithVoiceClient(client VoiceClient) Option {
	return func(s *Session) { s.voiceClient = client }
}

func WithAssistantID(assistantID string) Option {
	return func(s *Session) { s.assistantID = assistantID }
}

// WithPollCadence overrides how often and how many times result caches are
// checked after a search trigger.
func WithPollCadence(interval time.Duration, budget int) Option {
	return func(s *Session) {
		if interval > 0 {
			s.pollInterval = interval
		}
		if budget > 0 {
			s.pollBudget = budget
		}
	}
}

// WithGraceDelay overrides how long call state survives after the call
// ends, so late poll results can still render.
func WithGraceDelay(delay time.Duration) Option {
	return func(s *Session) {
		if delay >= 0 {
			s.graceDelay = delay
		}
	}
}

// WithMaxDirectResults caps how many flights a transcript-driven search
// broadcasts.
func WithMaxDirectResults(limit int) Option {
	return func(s *Session) {
		if limit > 0 {
			s.maxDirectResults = limit
		}
	}
}

type StartOptions struct {
	onTranscriptUpdated func(entries []Entry)
	onSpeakingChanged   func(role events.Role)
	onDiagnostic        func(message string)
}

type StartOption func(*StartOptions)

// WithTranscriptUpdatedCallback registers a callback for transcript
// changes. The callback receives the entries affected by the update, which
// may be an in-place revision of an existing partial rather than an
// append.
func WithTranscriptUpdatedCallback(callback func(entries []Entry)) StartOption {
	return func(o *StartOptions) {
		o.onTranscriptUpdated = callback
	}
}

// WithSpeakingChangedCallback registers a callback reporting which side of
// the conversation most recently produced speech.
func WithSpeakingChangedCallback(callback func(role events.Role)) StartOption {
	return func(o *StartOptions) {
		o.onSpeakingChanged = callback
	}
}

// WithDiagnosticCallback registers a callback for human-readable error
// diagnostics extracted from SDK and server failures.
func WithDiagnosticCallback(callback func(message string)) StartOption {
	return func(o *StartOptions) {
		o.onDiagnostic = callback
	}
}
