package offers

import (
	"encoding/json"
	"testing"
)

func TestNormalizeFlightCardParsesDelimitedFields(t *testing.T) {
	flight := NormalizeFlightCard(Card{
		Title:    "BLR → JED",
		Subtitle: "Air India | IX 881",
		Footer:   "⏰ 02:15 - 05:30 | 💰 ₹28,450 | ⏱️ 5h 45m",
	})

	if flight.Origin != "BLR" || flight.Destination != "JED" {
		t.Fatalf("expected BLR→JED, got %q→%q", flight.Origin, flight.Destination)
	}
	if flight.Airline != "Air India" || flight.FlightNumber != "IX 881" {
		t.Fatalf("expected airline/number split, got %q / %q", flight.Airline, flight.FlightNumber)
	}
	if flight.DepartureTime != "02:15" || flight.ArrivalTime != "05:30" {
		t.Fatalf("expected time range 02:15-05:30, got %q-%q", flight.DepartureTime, flight.ArrivalTime)
	}
	if flight.PriceMinor != 28450 {
		t.Fatalf("expected price 28450, got %d", flight.PriceMinor)
	}
	if flight.Duration != "5h 45m" {
		t.Fatalf("expected duration 5h 45m, got %q", flight.Duration)
	}
}

func TestNormalizeFlightCardDefaultsEveryMissingField(t *testing.T) {
	flight := NormalizeFlightCard(Card{Title: "BLR → JED"})

	if flight.Origin != "BLR" || flight.Destination != "JED" {
		t.Fatalf("expected title split to survive, got %q→%q", flight.Origin, flight.Destination)
	}
	if flight.Airline != "Airline" || flight.FlightNumber != "N/A" {
		t.Fatalf("expected subtitle defaults, got %q / %q", flight.Airline, flight.FlightNumber)
	}
	if flight.DepartureTime != "00:00" || flight.ArrivalTime != "00:00" {
		t.Fatalf("expected time defaults, got %q-%q", flight.DepartureTime, flight.ArrivalTime)
	}
	if flight.PriceMinor != 0 {
		t.Fatalf("expected zero price, got %d", flight.PriceMinor)
	}
	if flight.Duration != "N/A" {
		t.Fatalf("expected duration default, got %q", flight.Duration)
	}
}

func TestNormalizeFlightCardEmptyCardStillYieldsRecord(t *testing.T) {
	flight := NormalizeFlightCard(Card{})

	if flight.Origin != "N/A" || flight.Destination != "N/A" {
		t.Fatalf("expected full defaults, got %q→%q", flight.Origin, flight.Destination)
	}
}

func TestFlightKeyPrefersStableID(t *testing.T) {
	flight := NormalizeFlightCard(Card{ID: "flight-7", Title: "BLR → JED"})

	if flight.Key() != "flight-7" {
		t.Fatalf("expected id key, got %q", flight.Key())
	}
}

func TestFlightFallbackKeyFoldsWhitespaceAndCase(t *testing.T) {
	first := NormalizeFlightCard(Card{
		Subtitle: "Air India | IX 881",
		Footer:   "⏰ 02:15 - 05:30",
	})
	second := NormalizeFlightCard(Card{
		Subtitle: "AIR  INDIA | ix 881",
		Footer:   "⏰ 02:15 - 05:30",
	})

	if first.Key() != second.Key() {
		t.Fatalf("expected identical fallback keys, got %q vs %q", first.Key(), second.Key())
	}
}

func TestPriceMinorDecodesNumbersAndDelimitedStrings(t *testing.T) {
	testCases := []struct {
		name     string
		payload  string
		expected PriceMinor
	}{
		{name: "integer", payload: `28450`, expected: 28450},
		{name: "float rounds", payload: `28449.7`, expected: 28450},
		{name: "string with glyph and separators", payload: `"₹28,450"`, expected: 28450},
		{name: "garbage defaults to zero", payload: `"soon"`, expected: 0},
		{name: "null defaults to zero", payload: `null`, expected: 0},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var price PriceMinor
			if err := json.Unmarshal([]byte(testCase.payload), &price); err != nil {
				t.Fatalf("expected lenient decode, got error: %v", err)
			}
			if price != testCase.expected {
				t.Fatalf("expected %d, got %d", testCase.expected, price)
			}
		})
	}
}

func TestNormalizeFlightKeepsAbsentIDForFallbackKey(t *testing.T) {
	flight := NormalizeFlight(Flight{Airline: "Air India", FlightNumber: "IX 881", DepartureTime: "02:15"})

	if flight.ID != "" {
		t.Fatalf("expected absent id to stay absent, got %q", flight.ID)
	}
	if flight.Key() != "air india|ix 881|02:15" {
		t.Fatalf("unexpected fallback key %q", flight.Key())
	}
}
