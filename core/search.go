package session

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/attartravel/voice-core/core/backend"
	"github.com/attartravel/voice-core/core/bus"
)

const defaultMaxDirectResults = 6

var searchCues = []string{"flight", "show", "find", "search", "travel"}

// cityCodes maps spoken city names to IATA codes, in the order the
// assistant's route coverage introduces them. Matching walks the utterance
// for the earliest mention of each city, so "from Bangalore to Jeddah"
// and "to Jeddah from Bangalore" resolve to the same route.
var cityCodes = []struct {
	names []string
	code  string
}{
	{[]string{"bangalore", "bengaluru", "blr"}, "BLR"},
	{[]string{"jeddah", "jed"}, "JED"},
	{[]string{"dubai", "dxb"}, "DXB"},
	{[]string{"mumbai", "bom"}, "BOM"},
	{[]string{"delhi", "del"}, "DEL"},
}

// parseRoute extracts an origin and destination from a spoken request. It
// returns false unless the text sounds like a search and names two
// distinct known cities.
func parseRoute(text string) (origin, destination string, ok bool) {
	lowered := strings.ToLower(text)

	cued := false
	for _, cue := range searchCues {
		if strings.Contains(lowered, cue) {
			cued = true
			break
		}
	}
	if !cued {
		return "", "", false
	}

	type mention struct {
		index int
		code  string
	}
	var mentions []mention
	for _, city := range cityCodes {
		earliest := -1
		for _, name := range city.names {
			if index := strings.Index(lowered, name); index >= 0 && (earliest < 0 || index < earliest) {
				earliest = index
			}
		}
		if earliest >= 0 {
			mentions = append(mentions, mention{index: earliest, code: city.code})
		}
	}
	if len(mentions) < 2 {
		return "", "", false
	}

	sort.Slice(mentions, func(i, j int) bool { return mentions[i].index < mentions[j].index })
	return mentions[0].code, mentions[1].code, true
}

// searchFromUtterance runs a direct flight search when the user's words
// name a recognizable route, without waiting for the assistant to invoke
// its search tool. Results flow through the same broadcast path as polled
// cards, so receivers cannot tell the two apart.
func (s *Session) searchFromUtterance(ctx context.Context, text string) {
	origin, destination, ok := parseRoute(text)
	if !ok {
		return
	}

	s.mu.Lock()
	if s.phase != PhaseActive || s.displayed.Flights {
		s.mu.Unlock()
		return
	}
	limit := s.maxDirectResults
	s.mu.Unlock()

	ctx, span := tracer.Start(ctx, "direct flight search")
	defer span.End()

	flights, err := s.backendClient.SearchFlights(ctx, backend.SearchRequest{
		Origin:        origin,
		Destination:   destination,
		DepartureDate: time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		Passengers:    1,
		CabinClass:    "economy",
	})
	if err != nil {
		logger.Warn("direct flight search failed", "origin", origin, "destination", destination, "error", err)
		return
	}
	if len(flights) == 0 {
		return
	}

	s.mu.Lock()
	if s.phase != PhaseActive || s.displayed.Flights {
		s.mu.Unlock()
		return
	}
	s.displayed.Flights = true
	s.triggers.Flights = false
	s.mu.Unlock()

	seen := map[string]bool{}
	delivered := 0
	for _, flight := range flights {
		if delivered >= limit {
			break
		}
		if seen[flight.Key()] {
			continue
		}
		seen[flight.Key()] = true
		s.eventBus.Publish(bus.FlightCardData{Flight: flight})
		s.transcript.AppendMarkup(renderFlightLine(flight))
		delivered++
	}
}
