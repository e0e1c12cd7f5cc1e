// Package bus is the one-directional broadcast contract between the voice
// widget and the host page. The two surfaces share no memory, so messages
// cross as tagged JSON envelopes; delivery is fire-and-forget and
// at-least-once, and consumers are expected to be idempotent.
package bus

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/attartravel/voice-core/core/backend"
	"github.com/attartravel/voice-core/core/offers"
)

type Type string

const (
	TypeCallStart        Type = "call-start"
	TypeCallEnd          Type = "call-end"
	TypeFlightCardData   Type = "flight-card-data"
	TypeHotelCardData    Type = "hotel-card-data"
	TypeBookingConfirmed Type = "booking-confirmed"
	TypeCallSummary      Type = "call-summary"
)

// ErrUnknownType marks an envelope whose tag is not part of the contract.
// Receivers ignore these rather than failing.
var ErrUnknownType = errors.New("unknown message type")

type Message interface {
	Type() Type
}

// CallStart resets all session-scoped display state on the receiving side.
type CallStart struct {
	CallID string `json:"call_id,omitempty"`
}

func (CallStart) Type() Type { return TypeCallStart }

// CallEnd signals call termination; the receiving side starts its
// best-effort summary fetch on this message.
type CallEnd struct{}

func (CallEnd) Type() Type { return TypeCallEnd }

// FlightCardData carries one normalized flight offer.
type FlightCardData struct {
	Flight offers.Flight `json:"flight"`
}

func (FlightCardData) Type() Type { return TypeFlightCardData }

// HotelCardData carries one normalized hotel offer.
type HotelCardData struct {
	Hotel offers.Hotel `json:"hotel"`
}

func (HotelCardData) Type() Type { return TypeHotelCardData }

// BookingConfirmed carries confirmed booking details.
type BookingConfirmed struct {
	Booking backend.Booking `json:"booking"`
}

func (BookingConfirmed) Type() Type { return TypeBookingConfirmed }

// CallSummaryReady carries the post-call summary once fetched.
type CallSummaryReady struct {
	Summary backend.CallSummary `json:"summary"`
}

func (CallSummaryReady) Type() Type { return TypeCallSummary }

type envelope struct {
	Type Type `json:"type"`
}

// Encode wraps a message in its tagged wire envelope.
func Encode(message Message) ([]byte, error) {
	payload, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s message: %w", message.Type(), err)
	}

	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(payload, &merged); err != nil {
		return nil, fmt.Errorf("failed to flatten %s message: %w", message.Type(), err)
	}
	tag, _ := json.Marshal(message.Type())
	merged["type"] = tag

	return json.Marshal(merged)
}

// Decode parses a tagged wire envelope. Unknown tags return ErrUnknownType
// so receivers can skip them; a malformed payload for a known tag is an
// error.
func Decode(data []byte) (Message, error) {
	var head envelope
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("failed to decode message envelope: %w", err)
	}

	fail := func(err error) (Message, error) {
		return nil, fmt.Errorf("failed to decode %s message: %w", head.Type, err)
	}

	switch head.Type {
	case TypeCallStart:
		var message CallStart
		if err := json.Unmarshal(data, &message); err != nil {
			return fail(err)
		}
		return message, nil
	case TypeCallEnd:
		return CallEnd{}, nil
	case TypeFlightCardData:
		var message FlightCardData
		if err := json.Unmarshal(data, &message); err != nil {
			return fail(err)
		}
		return message, nil
	case TypeHotelCardData:
		var message HotelCardData
		if err := json.Unmarshal(data, &message); err != nil {
			return fail(err)
		}
		return message, nil
	case TypeBookingConfirmed:
		var message BookingConfirmed
		if err := json.Unmarshal(data, &message); err != nil {
			return fail(err)
		}
		return message, nil
	case TypeCallSummary:
		var message CallSummaryReady
		if err := json.Unmarshal(data, &message); err != nil {
			return fail(err)
		}
		return message, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, head.Type)
	}
}
