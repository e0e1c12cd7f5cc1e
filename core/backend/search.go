package backend

import (
	"context"
	"fmt"

	"github.com/attartravel/voice-core/core/offers"
)

// SearchRequest describes a direct flight search.
type SearchRequest struct {
	Origin        string `json:"origin" jsonschema:"title=Origin,description=IATA code of the departure airport"`
	Destination   string `json:"destination" jsonschema:"title=Destination,description=IATA code of the arrival airport"`
	DepartureDate string `json:"departure_date" jsonschema:"title=Departure date,description=Travel date in YYYY-MM-DD form"`
	Passengers    int    `json:"passengers" jsonschema:"title=Passengers,description=Number of travellers"`
	CabinClass    string `json:"cabin_class" jsonschema:"title=Cabin class,enum=economy,enum=business,enum=first"`
}

type searchResponse struct {
	Flights []offers.Flight `json:"flights"`
}

// SearchFlights issues a direct flight search and returns normalized offers.
func (c *Client) SearchFlights(ctx context.Context, request SearchRequest) ([]offers.Flight, error) {
	ctx, span := tracer.Start(ctx, "search flights")
	defer span.End()

	var response searchResponse
	if err := c.postJSON(ctx, "/api/search-flights", request, &response); err != nil {
		return nil, fmt.Errorf("flight search failed: %w", err)
	}

	flights := make([]offers.Flight, 0, len(response.Flights))
	for _, flight := range response.Flights {
		flights = append(flights, offers.NormalizeFlight(flight))
	}
	return flights, nil
}
