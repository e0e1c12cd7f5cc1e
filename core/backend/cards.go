package backend

import (
	"context"
	"fmt"

	"github.com/attartravel/voice-core/core/offers"
)

// CardsResponse is the card cache envelope returned for both result kinds.
type CardsResponse struct {
	Success bool          `json:"success"`
	Cards   []offers.Card `json:"cards"`
}

// FlightCards reads the flight card cache slot for callID. The read is
// idempotent; an empty slot is a successful response with no cards.
func (c *Client) FlightCards(ctx context.Context, callID string) (CardsResponse, error) {
	return c.cards(ctx, "/api/flight-cards/", callID)
}

// HotelCards reads the hotel card cache slot for callID.
func (c *Client) HotelCards(ctx context.Context, callID string) (CardsResponse, error) {
	return c.cards(ctx, "/api/hotel-cards/", callID)
}

func (c *Client) cards(ctx context.Context, prefix, callID string) (CardsResponse, error) {
	if callID == "" {
		callID = SentinelCallID
	}

	var response CardsResponse
	if err := c.getJSON(ctx, prefix+pathEscape(callID), &response); err != nil {
		return CardsResponse{}, fmt.Errorf("failed to fetch cards: %w", err)
	}
	return response, nil
}
