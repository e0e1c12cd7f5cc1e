package session

import "strings"

// Search operations the assistant can invoke. A function-call notification
// naming one of these arms the corresponding poll loop regardless of
// transcript wording.
const (
	FunctionSearchFlights = "search_flights"
	FunctionSearchHotels  = "search_hotels"
)

// TriggerFlags says which poll loops to arm. Arming is monotonic within a
// call: the two detection paths are OR'd and a set flag stays set until the
// poller consumes it or the call ends.
type TriggerFlags struct {
	Flights bool
	Hotels  bool
}

func (f TriggerFlags) Any() bool { return f.Flights || f.Hotels }

func (f TriggerFlags) merge(other TriggerFlags) TriggerFlags {
	return TriggerFlags{Flights: f.Flights || other.Flights, Hotels: f.Hotels || other.Hotels}
}

// The phrase sets are intentionally permissive: a false positive only
// starts an idempotent poll, and a miss is mitigated by the function-call
// path.
var (
	flightPhrases = []string{
		"flight options",
		"here are your flights",
		"found several flights",
		"found flights",
		"search is for",
	}
	hotelPhrases = []string{
		"hotel options",
		"here are your hotels",
		"found hotels",
		"accommodation",
	}
)

// detectSearchIntent scans finalized assistant text for signals that a
// search has started.
func detectSearchIntent(text string) TriggerFlags {
	lowered := strings.ToLower(text)

	flags := TriggerFlags{}
	for _, phrase := range flightPhrases {
		if strings.Contains(lowered, phrase) {
			flags.Flights = true
			break
		}
	}
	if !flags.Flights && strings.Contains(lowered, "found") && strings.Contains(lowered, "flight") {
		flags.Flights = true
	}

	for _, phrase := range hotelPhrases {
		if strings.Contains(lowered, phrase) {
			flags.Hotels = true
			break
		}
	}

	return flags
}

// triggersFromFunction arms flags for a named search operation.
func triggersFromFunction(name string) TriggerFlags {
	switch name {
	case FunctionSearchFlights:
		return TriggerFlags{Flights: true}
	case FunctionSearchHotels:
		return TriggerFlags{Hotels: true}
	default:
		return TriggerFlags{}
	}
}
