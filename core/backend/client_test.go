package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFlightCardsUsesSentinelKeyWhenCallIDMissing(t *testing.T) {
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		json.NewEncoder(w).Encode(CardsResponse{Success: true})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.FlightCards(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if requestedPath != "/api/flight-cards/latest" {
		t.Fatalf("expected sentinel cache key in path, got %q", requestedPath)
	}
}

func TestHotelCardsDecodesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"cards":[{"title":"Hilton Riyadh","subtitle":"Olaya Street"}]}`))
	}))
	defer server.Close()

	response, err := NewClient(server.URL).HotelCards(context.Background(), "call-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !response.Success || len(response.Cards) != 1 {
		t.Fatalf("expected one card, got %+v", response)
	}
	if response.Cards[0].Title != "Hilton Riyadh" {
		t.Fatalf("unexpected card title %q", response.Cards[0].Title)
	}
}

func TestCardsReturnsErrorOnNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	if _, err := NewClient(server.URL).FlightCards(context.Background(), "call-1"); err == nil {
		t.Fatalf("expected transport error for 502 response")
	}
}

func TestSearchFlightsNormalizesResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/search-flights" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var request SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Errorf("failed to decode search request: %v", err)
		}
		if request.Origin != "BLR" || request.CabinClass != "economy" {
			t.Errorf("unexpected search request %+v", request)
		}
		w.Write([]byte(`{"flights":[{"airline":" Air India ","price":"₹28,450"}]}`))
	}))
	defer server.Close()

	flights, err := NewClient(server.URL).SearchFlights(context.Background(), SearchRequest{
		Origin: "BLR", Destination: "JED", DepartureDate: "2025-12-15", Passengers: 1, CabinClass: "economy",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(flights) != 1 {
		t.Fatalf("expected one flight, got %d", len(flights))
	}
	if flights[0].Airline != "Air India" || flights[0].PriceMinor != 28450 {
		t.Fatalf("expected normalized flight, got %+v", flights[0])
	}
	if flights[0].Origin != "N/A" {
		t.Fatalf("expected origin default, got %q", flights[0].Origin)
	}
}

func TestCallSummaryEmptyAndFlattening(t *testing.T) {
	if !(CallSummary{}).Empty() {
		t.Fatalf("expected zero summary to be empty")
	}

	var plain CallSummary
	if err := json.Unmarshal([]byte(`{"summary":"Booked a flight"}`), &plain); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plain.Empty() {
		t.Fatalf("expected plain summary to be non-empty")
	}
	if plain.SummaryText() != "Booked a flight" {
		t.Fatalf("unexpected flattened text %q", plain.SummaryText())
	}

	var nested CallSummary
	payload := `{"summary":{"summary":"Planned a trip to Jeddah"}}`
	if err := json.Unmarshal([]byte(payload), &nested); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nested.SummaryText() != "Planned a trip to Jeddah" {
		t.Fatalf("unexpected flattened text %q", nested.SummaryText())
	}

	var structured CallSummary
	payload = `{"summary":{"main_topic":"Flight booking","key_points":["BLR to JED"],"actions_taken":"Searched flights","next_steps":"Confirm by email"}}`
	if err := json.Unmarshal([]byte(payload), &structured); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := structured.SummaryText()
	if text == "" || text == string(structured.Summary) {
		t.Fatalf("expected structured summary to flatten, got %q", text)
	}
}

func TestSendBookingConfirmationChecksAcceptance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false}`))
	}))
	defer server.Close()

	err := NewClient(server.URL).SendBookingConfirmation(context.Background(), BookingConfirmationRequest{})
	if err == nil {
		t.Fatalf("expected rejection error when backend does not accept")
	}
}
