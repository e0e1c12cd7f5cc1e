package session

import "testing"

func TestDetectSearchIntent(t *testing.T) {
	for _, testCase := range []struct {
		name string
		text string
		want TriggerFlags
	}{
		{"flight phrase", "Here are your flight options from Bangalore.", TriggerFlags{Flights: true}},
		{"flight phrase uppercase", "I FOUND SEVERAL FLIGHTS for you.", TriggerFlags{Flights: true}},
		{"found plus flight conjunction", "I found a great flight with Saudia.", TriggerFlags{Flights: true}},
		{"search confirmation", "Your search is for tomorrow morning.", TriggerFlags{Flights: true}},
		{"hotel phrase", "Here are your hotels in Jeddah.", TriggerFlags{Hotels: true}},
		{"accommodation", "I can look for accommodation near the corniche.", TriggerFlags{Hotels: true}},
		{"both kinds", "Found flights and hotel options for your dates.", TriggerFlags{Flights: true, Hotels: true}},
		{"no intent", "The weather in Jeddah is warm this week.", TriggerFlags{}},
		{"found without flight", "I found the answer to your question.", TriggerFlags{}},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			if got := detectSearchIntent(testCase.text); got != testCase.want {
				t.Fatalf("detectSearchIntent(%q) = %+v, want %+v", testCase.text, got, testCase.want)
			}
		})
	}
}

func TestTriggersFromFunction(t *testing.T) {
	if got := triggersFromFunction(FunctionSearchFlights); !got.Flights || got.Hotels {
		t.Fatalf("expected flights trigger, got %+v", got)
	}
	if got := triggersFromFunction(FunctionSearchHotels); !got.Hotels || got.Flights {
		t.Fatalf("expected hotels trigger, got %+v", got)
	}
	if got := triggersFromFunction("book_flight"); got.Any() {
		t.Fatalf("expected no trigger for unrelated function, got %+v", got)
	}
}

func TestTriggerFlagsMergeIsMonotonic(t *testing.T) {
	flags := TriggerFlags{Flights: true}
	merged := flags.merge(TriggerFlags{Hotels: true}).merge(TriggerFlags{})
	if !merged.Flights || !merged.Hotels {
		t.Fatalf("merge lost a set flag: %+v", merged)
	}
}

func TestParseRoute(t *testing.T) {
	for _, testCase := range []struct {
		name        string
		text        string
		origin      string
		destination string
		ok          bool
	}{
		{"from-to order", "Find me a flight from Bangalore to Jeddah", "BLR", "JED", true},
		{"to-from order", "Search flights to Jeddah from Bangalore please", "JED", "BLR", true},
		{"alias names", "show travel options bengaluru dubai", "BLR", "DXB", true},
		{"three cities take the two earliest", "find flights dubai jeddah bangalore", "DXB", "JED", true},
		{"three cities reversed", "find flights bangalore jeddah dubai", "BLR", "JED", true},
		{"missing cue", "Bangalore and Jeddah are both lovely", "", "", false},
		{"single city", "find a flight to Dubai", "", "", false},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			origin, destination, ok := parseRoute(testCase.text)
			if ok != testCase.ok || origin != testCase.origin || destination != testCase.destination {
				t.Fatalf("parseRoute(%q) = %q, %q, %v; want %q, %q, %v",
					testCase.text, origin, destination, ok, testCase.origin, testCase.destination, testCase.ok)
			}
		})
	}
}
