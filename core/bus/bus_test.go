package bus

import (
	"errors"
	"testing"

	"github.com/attartravel/voice-core/core/offers"
)

func TestEncodeDecodeRoundTripsTaggedEnvelope(t *testing.T) {
	original := FlightCardData{Flight: offers.Flight{ID: "flight-7", Airline: "Air India"}}

	data, err := Encode(original)
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}

	message, ok := decoded.(FlightCardData)
	if !ok {
		t.Fatalf("expected FlightCardData, got %T", decoded)
	}
	if message.Flight.ID != "flight-7" || message.Flight.Airline != "Air India" {
		t.Fatalf("unexpected decoded payload %+v", message.Flight)
	}
}

func TestDecodeIgnoresUnknownTags(t *testing.T) {
	_, err := Decode([]byte(`{"type":"volume-level","value":0.4}`))

	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestPublishReachesEverySubscriber(t *testing.T) {
	b := New()

	var first, second []Type
	b.Subscribe(func(message Message) { first = append(first, message.Type()) })
	b.Subscribe(func(message Message) { second = append(second, message.Type()) })

	b.Publish(CallStart{CallID: "call-1"})
	b.Publish(CallEnd{})

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected both subscribers to see both messages, got %d and %d", len(first), len(second))
	}
	if first[0] != TypeCallStart || first[1] != TypeCallEnd {
		t.Fatalf("unexpected delivery order %v", first)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()

	var delivered int
	cancel := b.Subscribe(func(Message) { delivered++ })

	b.Publish(CallStart{})
	cancel()
	b.Publish(CallEnd{})

	if delivered != 1 {
		t.Fatalf("expected one delivery after unsubscribe, got %d", delivered)
	}
}
