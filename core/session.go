// Package session reconciles the asynchronous, partially-ordered event
// stream of a voice travel-assistant call into a consistent transcript and
// a set of normalized search results delivered exactly once to the host
// page.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/attartravel/voice-core/core/backend"
	"github.com/attartravel/voice-core/core/bus"
	"github.com/attartravel/voice-core/core/events"
	"github.com/attartravel/voice-core/core/offers"
	"github.com/attartravel/voice-core/core/voice"
)

// Phase is the call lifecycle state.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseConnecting Phase = "connecting"
	PhaseActive     Phase = "active"
	PhaseEnding     Phase = "ending"
)

const defaultGraceDelay = 3 * time.Second

// ErrNotIdle is returned when a call start is requested while a previous
// call is still live or tearing down.
var ErrNotIdle = errors.New("session is not idle")

// VoiceClient is the call-control surface of the voice SDK.
type VoiceClient interface {
	Start(ctx context.Context, assistantID string, callbacks voice.Callbacks, opts ...voice.StartOption) error
	Stop() error
	SetMuted(muted bool) error
}

// Session owns the state of one voice call at a time: lifecycle phase,
// transcript, trigger and displayed flags, and the per-kind poll loops.
// State is reset at call start and frozen once teardown completes.
type Session struct {
	mu sync.Mutex

	phase     Phase
	callID    string
	muted     bool
	triggers  TriggerFlags
	displayed TriggerFlags

	flightPoller  *poller
	hotelPoller   *poller
	teardownTimer *time.Timer

	transcript    *Transcript
	backendClient *backend.Client
	eventBus      *bus.Bus
	voiceClient   VoiceClient

	assistantID      string
	pollInterval     time.Duration
	pollBudget       int
	graceDelay       time.Duration
	maxDirectResults int

	startOptions StartOptions
	baseContext  context.Context
}

// New builds a session. At minimum a backend client, a bus and a voice
// client must be supplied before Start.
func New(opts ...Option) *Session {
	s := &Session{
		phase:            PhaseIdle,
		transcript:       &Transcript{},
		eventBus:         bus.New(),
		pollInterval:     defaultPollInterval,
		pollBudget:       defaultPollBudget,
		graceDelay:       defaultGraceDelay,
		maxDirectResults: defaultMaxDirectResults,
		baseContext:      context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bus exposes the broadcast channel so consumers can attach.
func (s *Session) Bus() *bus.Bus { return s.eventBus }

// Transcript exposes the call transcript.
func (s *Session) Transcript() *Transcript { return s.transcript }

// Phase reports the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// CallID reports the identifier of the live call, if any.
func (s *Session) CallID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callID
}

// IsMuted reports the session's authoritative mute flag.
func (s *Session) IsMuted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// Start opens a call. It blocks only for the SDK handshake: events flow
// through the callbacks registered here until the call ends. A start
// failure returns the session to idle and carries the extracted server
// diagnostic.
func (s *Session) Start(ctx context.Context, opts ...StartOption) error {
	ctx, span := tracer.Start(ctx, "start call")
	defer span.End()

	s.mu.Lock()
	if s.phase != PhaseIdle {
		s.mu.Unlock()
		return ErrNotIdle
	}
	if s.voiceClient == nil {
		s.mu.Unlock()
		return fmt.Errorf("no voice client configured")
	}
	s.phase = PhaseConnecting
	s.startOptions = StartOptions{}
	for _, opt := range opts {
		opt(&s.startOptions)
	}
	s.baseContext = ctx
	assistantID := s.assistantID
	s.mu.Unlock()

	err := s.voiceClient.Start(ctx, assistantID, voice.Callbacks{
		OnCallStarted:   func(callID string) { s.Handle(events.NewCallStarted(callID)) },
		OnCallEnded:     func() { s.Handle(events.NewCallEnded()) },
		OnSpeechStarted: func() { s.Handle(events.NewSpeechStarted()) },
		OnSpeechEnded:   func() { s.Handle(events.NewSpeechEnded()) },
		OnTranscript: func(role, text string, final bool) {
			s.Handle(events.NewTranscriptUpdated(events.Role(role), text, final))
		},
		OnFunctionCall: func(id, name, arguments string) {
			s.Handle(events.NewFunctionCalled(id, name, arguments))
		},
		OnFunctionResult: func(id, name, result string) {
			s.Handle(events.NewFunctionResult(id, name, result))
		},
		OnConversationUpdate: func(messages []voice.HistoryMessage) {
			history := make([]events.HistoryMessage, 0, len(messages))
			for _, message := range messages {
				history = append(history, events.HistoryMessage{
					Role:    events.Role(message.Role),
					Content: message.Content,
				})
			}
			s.Handle(events.NewConversationUpdated(history))
		},
		OnError: func(stage string, statusCode int, message string) {
			s.Handle(events.NewSessionError(stage, statusCode, message))
		},
	}, voice.WithTools(searchTools()...))
	if err != nil {
		s.mu.Lock()
		s.phase = PhaseIdle
		s.mu.Unlock()

		recordedErr := fmt.Errorf("failed to start call: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		s.diagnose(err.Error())
		return recordedErr
	}

	return nil
}

// Stop requests call termination. Cleanup happens on the SDK's call-end
// event; if the stop request itself fails, state is torn down immediately
// so a wedged SDK cannot leak a live session.
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.voiceClient == nil || s.phase == PhaseIdle {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if err := s.voiceClient.Stop(); err != nil {
		logger.Warn("stop request failed, forcing teardown", "error", err)
		s.forceTeardown()
		return fmt.Errorf("failed to stop call: %w", err)
	}
	return nil
}

// SetMuted toggles microphone muting. The session flag stays authoritative
// even when the SDK rejects the control, so the surface reflects the
// user's intent.
func (s *Session) SetMuted(muted bool) {
	s.mu.Lock()
	s.muted = muted
	client := s.voiceClient
	s.mu.Unlock()

	if client == nil {
		return
	}
	if err := client.SetMuted(muted); err != nil {
		logger.Warn("mute control rejected, keeping local state", "muted", muted, "error", err)
	}
}

// Handle applies one SDK event. Events for a session must be delivered
// from a single goroutine, which the voice client's read loop guarantees.
func (s *Session) Handle(event events.Event) {
	switch typedEvent := event.(type) {
	case events.CallStarted:
		s.handleCallStarted(typedEvent)
	case events.CallEnded:
		s.handleCallEnded()
	case events.SpeechStarted, events.SpeechEnded:
		// Speaking state is clarified by transcript fragments; the bare
		// speech boundary events carry no role.
	case events.TranscriptUpdated:
		s.handleTranscript(typedEvent)
	case events.FunctionCalled:
		s.arm(triggersFromFunction(typedEvent.Name))
	case events.FunctionResult:
		s.arm(triggersFromFunction(typedEvent.Name))
	case events.ConversationUpdated:
		s.handleConversationUpdate(typedEvent)
	case events.SessionError:
		s.handleError(typedEvent)
	default:
		logger.Debug("skipping event of unknown type", "kind", event.Kind())
	}
}

func (s *Session) handleCallStarted(event events.CallStarted) {
	callID := event.CallID
	if callID == "" {
		callID = backend.SentinelCallID
	}

	s.mu.Lock()
	if s.teardownTimer != nil {
		s.teardownTimer.Stop()
		s.teardownTimer = nil
	}
	flightPoller, hotelPoller := s.flightPoller, s.hotelPoller
	s.phase = PhaseActive
	s.callID = callID
	s.muted = false
	s.triggers = TriggerFlags{}
	s.displayed = TriggerFlags{}
	s.flightPoller = nil
	s.hotelPoller = nil
	s.mu.Unlock()

	// A start inside the previous call's grace interval skips that call's
	// teardown, so its poll loops must be cancelled here or they would
	// keep reading the new call's cache.
	if flightPoller != nil {
		flightPoller.Cancel()
	}
	if hotelPoller != nil {
		hotelPoller.Cancel()
	}

	s.transcript.Clear()
	s.eventBus.Publish(bus.CallStart{CallID: callID})
}

func (s *Session) handleTranscript(event events.TranscriptUpdated) {
	entries := s.transcript.Ingest(event)

	if s.startOptions.onTranscriptUpdated != nil {
		s.startOptions.onTranscriptUpdated(entries)
	}
	if s.startOptions.onSpeakingChanged != nil {
		s.startOptions.onSpeakingChanged(event.Role)
	}

	if !event.Final {
		return
	}
	switch event.Role {
	case events.RoleAssistant:
		s.arm(detectSearchIntent(event.Text))
	case events.RoleUser:
		go s.searchFromUtterance(s.baseContext, event.Text)
	}
}

func (s *Session) handleConversationUpdate(event events.ConversationUpdated) {
	flags := TriggerFlags{}
	for _, message := range event.Messages {
		if message.Role != events.RoleAssistant || message.Content == "" {
			continue
		}
		flags = flags.merge(detectSearchIntent(message.Content))
	}
	if flags.Any() {
		s.arm(flags)
	}
}

func (s *Session) handleError(event events.SessionError) {
	s.mu.Lock()
	if s.phase == PhaseConnecting {
		s.phase = PhaseIdle
	}
	s.mu.Unlock()

	span := trace.SpanFromContext(s.baseContext)
	span.RecordError(fmt.Errorf("session error at %s: %s", event.Stage, event.Message))
	s.diagnose(event.Message)
}

func (s *Session) diagnose(message string) {
	if s.startOptions.onDiagnostic != nil {
		s.startOptions.onDiagnostic(message)
	}
}

// arm records trigger flags and starts the corresponding poll loops. Only
// a live call polls; arming is monotonic until a poller consumes the flag
// or teardown resets it.
func (s *Session) arm(flags TriggerFlags) {
	if !flags.Any() {
		return
	}

	s.mu.Lock()
	if s.phase != PhaseActive {
		s.mu.Unlock()
		return
	}
	s.triggers = s.triggers.merge(flags)

	if s.triggers.Flights && !s.displayed.Flights && s.flightPoller == nil {
		s.flightPoller = newPoller(s.pollInterval, s.pollBudget)
		s.launchPollerLocked(s.flightPoller, s.pollFlightsOnce, s.clearFlightCycle)
	}
	if s.triggers.Hotels && !s.displayed.Hotels && s.hotelPoller == nil {
		s.hotelPoller = newPoller(s.pollInterval, s.pollBudget)
		s.launchPollerLocked(s.hotelPoller, s.pollHotelsOnce, s.clearHotelCycle)
	}
	s.mu.Unlock()
}

func (s *Session) launchPollerLocked(p *poller, attempt func(ctx context.Context) bool, onFinished func(*poller)) {
	p.Start(s.baseContext, attempt)
	go func() {
		<-p.Done()
		onFinished(p)
	}()
}

// clearFlightCycle releases the finished poller's slot so a later trigger
// can start a fresh cycle, and marks a timed-out trigger as consumed. The
// slot may already hold a newer cycle's poller; a stale watcher must not
// touch that one.
func (s *Session) clearFlightCycle(p *poller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flightPoller != p {
		return
	}
	if p.Outcome() == pollExhausted {
		s.triggers.Flights = false
	}
	s.flightPoller = nil
}

func (s *Session) clearHotelCycle(p *poller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hotelPoller != p {
		return
	}
	if p.Outcome() == pollExhausted {
		s.triggers.Hotels = false
	}
	s.hotelPoller = nil
}

// pollFlightsOnce issues one idempotent cache read. Transport errors are
// absorbed so the loop keeps its cadence; only found results (or the
// displayed-flag duplicate guard) stop it early.
func (s *Session) pollFlightsOnce(ctx context.Context) bool {
	response, err := s.backendClient.FlightCards(ctx, s.CallID())
	if err != nil {
		logger.Warn("flight card poll failed", "error", err)
		return false
	}
	if !response.Success || len(response.Cards) == 0 {
		return false
	}

	s.mu.Lock()
	if s.displayed.Flights {
		s.triggers.Flights = false
		s.mu.Unlock()
		return true
	}
	s.displayed.Flights = true
	s.triggers.Flights = false
	s.mu.Unlock()

	delivered := 0
	seen := map[string]bool{}
	for _, card := range response.Cards {
		flight := offers.NormalizeFlightCard(card)
		if seen[flight.Key()] {
			continue
		}
		seen[flight.Key()] = true
		s.eventBus.Publish(bus.FlightCardData{Flight: flight})
		s.transcript.AppendMarkup(renderFlightLine(flight))
		delivered++
	}
	s.transcript.AppendNotice(fmt.Sprintf(
		"Found %d flight options above. Please review and let me know which flight you'd like to book.", delivered))
	return true
}

func (s *Session) pollHotelsOnce(ctx context.Context) bool {
	response, err := s.backendClient.HotelCards(ctx, s.CallID())
	if err != nil {
		logger.Warn("hotel card poll failed", "error", err)
		return false
	}
	if !response.Success || len(response.Cards) == 0 {
		return false
	}

	s.mu.Lock()
	if s.displayed.Hotels {
		s.triggers.Hotels = false
		s.mu.Unlock()
		return true
	}
	s.displayed.Hotels = true
	s.triggers.Hotels = false
	s.mu.Unlock()

	seen := map[string]bool{}
	for _, card := range response.Cards {
		hotel := offers.NormalizeHotelCard(card)
		if seen[hotel.Key()] {
			continue
		}
		seen[hotel.Key()] = true
		s.eventBus.Publish(bus.HotelCardData{Hotel: hotel})
		s.transcript.AppendMarkup(renderHotelLine(hotel))
	}
	return true
}

// handleCallEnded delays destructive cleanup by the grace interval so that
// poll results arriving just after termination still render before state
// is discarded.
func (s *Session) handleCallEnded() {
	s.mu.Lock()
	if s.phase != PhaseActive && s.phase != PhaseConnecting {
		s.mu.Unlock()
		return
	}
	s.phase = PhaseEnding
	grace := s.graceDelay
	s.teardownTimer = time.AfterFunc(grace, s.teardown)
	s.mu.Unlock()
}

func (s *Session) teardown() {
	s.mu.Lock()
	flightPoller, hotelPoller := s.flightPoller, s.hotelPoller
	s.flightPoller, s.hotelPoller = nil, nil
	s.phase = PhaseIdle
	s.callID = ""
	s.muted = false
	s.triggers = TriggerFlags{}
	s.displayed = TriggerFlags{}
	s.teardownTimer = nil
	s.mu.Unlock()

	if flightPoller != nil {
		flightPoller.Cancel()
	}
	if hotelPoller != nil {
		hotelPoller.Cancel()
	}

	s.transcript.Clear()
	s.eventBus.Publish(bus.CallEnd{})
}

// forceTeardown skips the grace interval, used when the SDK cannot be
// stopped cleanly.
func (s *Session) forceTeardown() {
	s.mu.Lock()
	if s.teardownTimer != nil {
		s.teardownTimer.Stop()
		s.teardownTimer = nil
	}
	if s.phase == PhaseIdle {
		s.mu.Unlock()
		return
	}
	s.phase = PhaseEnding
	s.mu.Unlock()

	s.teardown()
}

func renderFlightLine(flight offers.Flight) string {
	return fmt.Sprintf("%s → %s | %s %s | %s - %s | ₹%d | %s",
		flight.Origin, flight.Destination, flight.Airline, flight.FlightNumber,
		flight.DepartureTime, flight.ArrivalTime, flight.PriceMinor, flight.Duration)
}

func renderHotelLine(hotel offers.Hotel) string {
	parts := []string{hotel.Name, hotel.Location, hotel.Price}
	if hotel.Stars > 0 {
		parts = append(parts, strings.Repeat("⭐", hotel.Stars))
	}
	return strings.Join(parts, " | ")
}
