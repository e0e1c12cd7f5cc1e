package offers

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	defaultText = "N/A"
	defaultTime = "00:00"
)

// PriceMinor is a price in the smallest currency unit. It decodes leniently:
// JSON numbers are rounded, strings may carry a currency glyph and thousands
// separators, and anything unparseable defaults to zero.
type PriceMinor int64

func (p *PriceMinor) UnmarshalJSON(data []byte) error {
	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err == nil {
		if value, err := asNumber.Int64(); err == nil {
			*p = PriceMinor(value)
			return nil
		}
		if value, err := asNumber.Float64(); err == nil {
			*p = PriceMinor(value + 0.5)
			return nil
		}
	}

	var asText string
	if err := json.Unmarshal(data, &asText); err != nil {
		*p = 0
		return nil
	}
	*p = parsePrice(asText)
	return nil
}

// Flight is the canonical flight offer consumed by all downstream surfaces.
type Flight struct {
	ID            string     `json:"id"`
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	Airline       string     `json:"airline"`
	FlightNumber  string     `json:"flight_number"`
	DepartureTime string     `json:"departure_time"`
	ArrivalTime   string     `json:"arrival_time"`
	PriceMinor    PriceMinor `json:"price"`
	Duration      string     `json:"duration"`
}

// Key is the sole de-duplication key for a flight: the stable ID when
// present, otherwise a composite of airline, flight number and departure
// time folded for case and whitespace.
func (f Flight) Key() string {
	if f.ID != "" {
		return f.ID
	}
	return fmt.Sprintf("%s|%s|%s",
		foldKeyPart(f.Airline), foldKeyPart(f.FlightNumber), foldKeyPart(f.DepartureTime))
}

var (
	timeRangePattern = regexp.MustCompile(`(\d{2}:\d{2})\s*-\s*(\d{2}:\d{2})`)
	pricePattern     = regexp.MustCompile(`₹\s*([\d,]+)`)
	durationPattern  = regexp.MustCompile(`⏱️?\s*(\d+h(?:\s*\d+m)?)`)
)

// NormalizeFlightCard turns a raw free-text card into a canonical flight.
// Title splits on the arrow separator into origin/destination, subtitle on
// the pipe separator into airline/flight number, and the footer is scanned
// with three independent pattern extractions (time range, currency amount,
// duration token). Each extraction defaults on failure instead of rejecting
// the record, so a card with only a title still yields a valid offer.
func NormalizeFlightCard(card Card) Flight {
	flight := Flight{
		ID:            card.ID,
		Origin:        defaultText,
		Destination:   defaultText,
		Airline:       "Airline",
		FlightNumber:  defaultText,
		DepartureTime: defaultTime,
		ArrivalTime:   defaultTime,
		Duration:      defaultText,
	}

	if origin, destination, found := splitPair(card.Title, "→"); found {
		flight.Origin, flight.Destination = origin, destination
	} else if trimmed := strings.TrimSpace(card.Title); trimmed != "" {
		flight.Origin = trimmed
	}

	if airline, number, found := splitPair(card.Subtitle, "|"); found {
		flight.Airline, flight.FlightNumber = airline, number
	} else if trimmed := strings.TrimSpace(card.Subtitle); trimmed != "" {
		flight.Airline = trimmed
	}

	if match := timeRangePattern.FindStringSubmatch(card.Footer); match != nil {
		flight.DepartureTime, flight.ArrivalTime = match[1], match[2]
	}
	if match := pricePattern.FindStringSubmatch(card.Footer); match != nil {
		flight.PriceMinor = parsePrice(match[1])
	}
	if match := durationPattern.FindStringSubmatch(card.Footer); match != nil {
		flight.Duration = strings.TrimSpace(match[1])
	}

	return flight
}

// NormalizeFlight fills defaults on an already-structured offer so that
// downstream consumers never see empty required fields. The ID is left as
// delivered: an absent ID selects the composite fallback key instead of a
// synthetic one, which would defeat cross-delivery de-duplication.
func NormalizeFlight(flight Flight) Flight {
	if flight.Origin = strings.TrimSpace(flight.Origin); flight.Origin == "" {
		flight.Origin = defaultText
	}
	if flight.Destination = strings.TrimSpace(flight.Destination); flight.Destination == "" {
		flight.Destination = defaultText
	}
	if flight.Airline = strings.TrimSpace(flight.Airline); flight.Airline == "" {
		flight.Airline = "Airline"
	}
	if flight.FlightNumber = strings.TrimSpace(flight.FlightNumber); flight.FlightNumber == "" {
		flight.FlightNumber = defaultText
	}
	if flight.DepartureTime == "" {
		flight.DepartureTime = defaultTime
	}
	if flight.ArrivalTime == "" {
		flight.ArrivalTime = defaultTime
	}
	if flight.Duration = strings.TrimSpace(flight.Duration); flight.Duration == "" {
		flight.Duration = defaultText
	}
	return flight
}

func splitPair(text, separator string) (left, right string, found bool) {
	left, right, found = strings.Cut(text, separator)
	if !found {
		return "", "", false
	}
	left, right = strings.TrimSpace(left), strings.TrimSpace(right)
	if left == "" && right == "" {
		return "", "", false
	}
	return left, right, true
}

func parsePrice(text string) PriceMinor {
	cleaned := strings.NewReplacer("₹", "", ",", "", " ", "").Replace(text)
	value, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0
	}
	return PriceMinor(value)
}
