// Package host mirrors the broadcast stream into renderable state for a
// results surface that lives in a separate context from the call itself:
// de-duplicated offer lists, booking status, and the post-call summary.
package host

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/codes"

	"github.com/attartravel/voice-core/core/backend"
	"github.com/attartravel/voice-core/core/bus"
	"github.com/attartravel/voice-core/core/offers"
)

const (
	defaultSummaryDelay    = 4 * time.Second
	defaultSummaryBackoff  = 2 * time.Second
	defaultSummaryAttempts = 3
)

var errSummaryPending = errors.New("summary not available yet")

// Page accumulates everything the results surface renders. It receives
// the same stream a second browsing context would, so delivery guarantees
// are enforced upstream and the page only has to be idempotent.
type Page struct {
	client      *backend.Client
	broadcast   *bus.Bus
	unsubscribe func()

	recipientName  string
	recipientEmail string

	summaryDelay    time.Duration
	summaryBackoff  time.Duration
	summaryAttempts uint64
	sleep           func(ctx context.Context, d time.Duration) error

	mu         sync.Mutex
	flights    []offers.Flight
	flightKeys map[string]bool
	hotels     []offers.Hotel
	hotelKeys  map[string]bool
	booking    *backend.Booking
	summary    *backend.CallSummary
	notices    []string
	inCall     bool

	background sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
}

type Option func(*Page)

// WithRecipient sets who the booking confirmation and call summary
// notifications are addressed to.
func WithRecipient(name, email string) Option {
	return func(p *Page) {
		p.recipientName = name
		p.recipientEmail = email
	}
}

// WithSummarySchedule overrides when and how persistently the post-call
// summary is fetched: an initial delay, then constant-interval retries up
// to the attempt count.
func WithSummarySchedule(delay, backoff time.Duration, attempts int) Option {
	return func(p *Page) {
		if delay >= 0 {
			p.summaryDelay = delay
		}
		if backoff > 0 {
			p.summaryBackoff = backoff
		}
		if attempts > 0 {
			p.summaryAttempts = uint64(attempts)
		}
	}
}

// Attach subscribes a new page to the broadcast stream. Close releases
// the subscription.
func Attach(client *backend.Client, broadcast *bus.Bus, opts ...Option) *Page {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Page{
		client:          client,
		broadcast:       broadcast,
		summaryDelay:    defaultSummaryDelay,
		summaryBackoff:  defaultSummaryBackoff,
		summaryAttempts: defaultSummaryAttempts,
		sleep:           sleepContext,
		flightKeys:      map[string]bool{},
		hotelKeys:       map[string]bool{},
		ctx:             ctx,
		cancel:          cancel,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.unsubscribe = broadcast.Subscribe(p.handle)
	return p
}

// Close detaches the page and waits for in-flight notification work.
func (p *Page) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
	}
	p.cancel()
	p.background.Wait()
}

func (p *Page) handle(message bus.Message) {
	switch typedMessage := message.(type) {
	case bus.CallStart:
		p.reset()
	case bus.FlightCardData:
		p.addFlight(typedMessage.Flight)
	case bus.HotelCardData:
		p.addHotel(typedMessage.Hotel)
	case bus.BookingConfirmed:
		p.confirmBooking(typedMessage.Booking)
	case bus.CallEnd:
		p.mu.Lock()
		p.inCall = false
		p.mu.Unlock()
		p.background.Add(1)
		go p.acquireSummary()
	case bus.CallSummaryReady:
		summary := typedMessage.Summary
		p.mu.Lock()
		p.summary = &summary
		p.mu.Unlock()
	default:
		logger.Debug("skipping broadcast of unknown type", "type", message.Type())
	}
}

// reset clears the previous call's results so a new call starts from a
// blank surface. The summary survives until the next call produces one.
func (p *Page) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flights = nil
	p.flightKeys = map[string]bool{}
	p.hotels = nil
	p.hotelKeys = map[string]bool{}
	p.booking = nil
	p.notices = nil
	p.inCall = true
}

// addFlight appends an offer unless one with the same key is already on
// the page. Rebroadcasts and overlapping delivery paths both funnel
// through this guard.
func (p *Page) addFlight(flight offers.Flight) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.flightKeys[flight.Key()] {
		return
	}
	p.flightKeys[flight.Key()] = true
	p.flights = append(p.flights, flight)
}

func (p *Page) addHotel(hotel offers.Hotel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.hotelKeys[hotel.Key()] {
		return
	}
	p.hotelKeys[hotel.Key()] = true
	p.hotels = append(p.hotels, hotel)
}

func (p *Page) confirmBooking(booking backend.Booking) {
	p.mu.Lock()
	if p.booking != nil && p.booking.Reference == booking.Reference {
		p.mu.Unlock()
		return
	}
	p.booking = &booking
	p.notices = append(p.notices, fmt.Sprintf(
		"Booking confirmed! Reference: %s. A confirmation email is on its way to %s.",
		booking.Reference, booking.CustomerEmail))
	p.mu.Unlock()

	p.background.Add(1)
	go p.notifyBooking(booking)
}

func (p *Page) notifyBooking(booking backend.Booking) {
	defer p.background.Done()

	ctx, span := tracer.Start(p.ctx, "send booking confirmation")
	defer span.End()

	err := p.client.SendBookingConfirmation(ctx, backend.BookingConfirmationRequest{
		RecipientEmail:   p.recipientOr(booking.CustomerEmail),
		RecipientName:    p.recipientNameOr(booking.CustomerName),
		BookingReference: booking.Reference,
		BookingDetails:   booking,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn("booking confirmation not sent", "reference", booking.Reference, "error", err)
	}
}

// acquireSummary polls for the post-call summary. Summarization runs
// asynchronously after the call ends, so the fetch waits out an initial
// delay and then retries on a constant cadence before giving up quietly.
func (p *Page) acquireSummary() {
	defer p.background.Done()

	ctx, span := tracer.Start(p.ctx, "acquire call summary")
	defer span.End()

	if err := p.sleep(ctx, p.summaryDelay); err != nil {
		return
	}

	var summary backend.CallSummary
	backoff := retry.WithMaxRetries(p.summaryAttempts, retry.NewConstant(p.summaryBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		fetched, err := p.client.LatestCallSummary(ctx)
		if err != nil {
			return retry.RetryableError(err)
		}
		if fetched.Empty() {
			return retry.RetryableError(errSummaryPending)
		}
		summary = fetched
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn("call summary unavailable", "error", err)
		return
	}

	p.mu.Lock()
	p.summary = &summary
	booking := p.booking
	p.mu.Unlock()

	p.broadcast.Publish(bus.CallSummaryReady{Summary: summary})

	request := backend.CallSummaryRequest{
		RecipientEmail: p.recipientOr(summary.CustomerEmail),
		RecipientName:  p.recipientNameOr(summary.CustomerName),
		Transcript:     summary.Transcript,
		Summary:        summary.SummaryText(),
		CallDuration:   summary.Duration,
		SessionID:      summary.CallID,
		Timestamp:      summary.Timestamp,
		BookingDetails: summary.BookingDetails,
	}
	if request.BookingDetails == nil {
		request.BookingDetails = booking
	}
	if err := p.client.SendCallSummary(ctx, request); err != nil {
		logger.Warn("call summary notification not sent", "error", err)
	}
}

func (p *Page) recipientOr(fallback string) string {
	if p.recipientEmail != "" {
		return p.recipientEmail
	}
	return fallback
}

func (p *Page) recipientNameOr(fallback string) string {
	if p.recipientName != "" {
		return p.recipientName
	}
	return fallback
}

// Flights returns the offers currently on the page in arrival order.
func (p *Page) Flights() []offers.Flight {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]offers.Flight(nil), p.flights...)
}

// Hotels returns the offers currently on the page in arrival order.
func (p *Page) Hotels() []offers.Hotel {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]offers.Hotel(nil), p.hotels...)
}

// Booking returns the confirmed booking, if any.
func (p *Page) Booking() *backend.Booking {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.booking == nil {
		return nil
	}
	booking := *p.booking
	return &booking
}

// Summary returns the post-call summary once acquired.
func (p *Page) Summary() *backend.CallSummary {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.summary == nil {
		return nil
	}
	summary := *p.summary
	return &summary
}

// Notices returns user-facing confirmations in arrival order.
func (p *Page) Notices() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.notices...)
}

// InCall reports whether a call is currently live.
func (p *Page) InCall() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inCall
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
