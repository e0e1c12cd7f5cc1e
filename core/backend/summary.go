package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// FlightDetails is the itinerary slice of a call summary.
type FlightDetails struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	Passengers  int    `json:"passengers"`
}

// Booking carries confirmed booking details as reported by the assistant.
type Booking struct {
	Reference         string `json:"booking_reference"`
	CustomerName      string `json:"customer_name"`
	CustomerEmail     string `json:"customer_email"`
	Airline           string `json:"airline"`
	DepartureLocation string `json:"departure_location"`
	Destination       string `json:"destination"`
}

// CallSummary is the post-call report produced asynchronously by the
// backend's own summarization. Summary is kept raw because the producer
// emits either plain text or a structured object; SummaryText flattens it.
type CallSummary struct {
	Summary          json.RawMessage `json:"summary"`
	Transcript       []SummaryLine   `json:"transcript"`
	FlightDetails    *FlightDetails  `json:"flight_details"`
	BookingDetails   *Booking        `json:"booking_details"`
	BookingConfirmed bool            `json:"booking_confirmed"`
	BookingID        string          `json:"booking_id"`
	CustomerName     string          `json:"customer_name"`
	CustomerEmail    string          `json:"customer_email"`
	CallID           string          `json:"call_id"`
	Duration         int             `json:"call_duration"`
	Timestamp        string          `json:"timestamp"`
}

// SummaryLine is one transcript line of a call summary.
type SummaryLine struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Empty reports whether the backend has nothing for this call yet. A JSON
// null summary decodes into the raw bytes "null", so it counts as absent.
func (s CallSummary) Empty() bool {
	return !s.hasSummary() && s.FlightDetails == nil && s.BookingDetails == nil
}

func (s CallSummary) hasSummary() bool {
	return len(s.Summary) > 0 && string(s.Summary) != "null"
}

type structuredSummary struct {
	Summary      string   `json:"summary"`
	MainTopic    string   `json:"main_topic"`
	KeyPoints    []string `json:"key_points"`
	ActionsTaken string   `json:"actions_taken"`
	NextSteps    string   `json:"next_steps"`
}

// SummaryText flattens the summary payload to display text regardless of
// which shape the summarizer produced.
func (s CallSummary) SummaryText() string {
	if !s.hasSummary() {
		return ""
	}

	var asText string
	if err := json.Unmarshal(s.Summary, &asText); err == nil {
		return asText
	}

	var structured structuredSummary
	if err := json.Unmarshal(s.Summary, &structured); err == nil {
		if structured.Summary != "" {
			return structured.Summary
		}
		if structured.MainTopic != "" {
			var b strings.Builder
			fmt.Fprintf(&b, "Main topic: %s\n", structured.MainTopic)
			for _, point := range structured.KeyPoints {
				fmt.Fprintf(&b, "- %s\n", point)
			}
			if structured.ActionsTaken != "" {
				fmt.Fprintf(&b, "Actions taken: %s\n", structured.ActionsTaken)
			}
			if structured.NextSteps != "" {
				fmt.Fprintf(&b, "Next steps: %s", structured.NextSteps)
			}
			return strings.TrimRight(b.String(), "\n")
		}
	}

	return string(s.Summary)
}

// LatestCallSummary reads the most recent call summary. The backend
// summarizes asynchronously relative to call end, so an empty summary is a
// normal, retryable outcome rather than an error.
func (c *Client) LatestCallSummary(ctx context.Context) (CallSummary, error) {
	var summary CallSummary
	if err := c.getJSON(ctx, "/api/call-summary-latest", &summary); err != nil {
		return CallSummary{}, fmt.Errorf("failed to fetch call summary: %w", err)
	}
	return summary, nil
}

// BookingConfirmationRequest is the fire-and-forget booking notification.
type BookingConfirmationRequest struct {
	RecipientEmail   string        `json:"recipient_email"`
	RecipientName    string        `json:"recipient_name"`
	BookingReference string        `json:"booking_reference"`
	BookingDetails   Booking       `json:"booking_details"`
	Transcript       []SummaryLine `json:"transcript"`
}

// SendBookingConfirmation asks the backend to send a booking confirmation.
// The response body only signals acceptance; failures are the caller's to
// absorb since the notification is best effort.
func (c *Client) SendBookingConfirmation(ctx context.Context, request BookingConfirmationRequest) error {
	var response struct {
		Success bool `json:"success"`
	}
	if err := c.postJSON(ctx, "/api/send-booking-confirmation", request, &response); err != nil {
		return fmt.Errorf("failed to send booking confirmation: %w", err)
	}
	if !response.Success {
		return fmt.Errorf("booking confirmation was not accepted")
	}
	return nil
}

// CallSummaryRequest is the fire-and-forget summary notification.
type CallSummaryRequest struct {
	RecipientEmail string        `json:"recipient_email"`
	RecipientName  string        `json:"recipient_name"`
	Transcript     []SummaryLine `json:"transcript"`
	Summary        string        `json:"summary"`
	CallDuration   int           `json:"call_duration"`
	SessionID      string        `json:"session_id"`
	Timestamp      string        `json:"timestamp"`
	BookingDetails *Booking      `json:"booking_details,omitempty"`
}

// SendCallSummary asks the backend to send a call summary notification.
func (c *Client) SendCallSummary(ctx context.Context, request CallSummaryRequest) error {
	var response struct {
		Success bool `json:"success"`
	}
	if err := c.postJSON(ctx, "/api/send-call-summary", request, &response); err != nil {
		return fmt.Errorf("failed to send call summary: %w", err)
	}
	if !response.Success {
		logger.WarnContext(ctx, "call summary notification not accepted")
	}
	return nil
}
