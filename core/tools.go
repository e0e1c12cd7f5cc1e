package session

import (
	"github.com/invopop/jsonschema"

	"github.com/attartravel/voice-core/core/backend"
	"github.com/attartravel/voice-core/core/voice"
)

// hotelSearchParams mirrors the assistant-side hotel search arguments. The
// backend resolves hotel searches itself, so no client request type exists
// for them; this struct only feeds the tool schema.
type hotelSearchParams struct {
	Location     string `json:"location" jsonschema:"title=Location,description=City or area to search hotels in"`
	CheckInDate  string `json:"check_in_date" jsonschema:"title=Check-in date,description=Date in YYYY-MM-DD form"`
	CheckOutDate string `json:"check_out_date" jsonschema:"title=Check-out date,description=Date in YYYY-MM-DD form"`
	Guests       int    `json:"guests" jsonschema:"title=Guests,description=Number of guests"`
}

// searchTools builds the tool declarations registered with the assistant
// at call start. Schemas are reflected from the argument structs so the
// wire form cannot drift from the decoded form.
func searchTools() []voice.Tool {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
		Anonymous:      true,
	}
	return []voice.Tool{
		{
			Name:        FunctionSearchFlights,
			Description: "Search for available flights between two airports on a date.",
			Parameters:  reflector.Reflect(&backend.SearchRequest{}),
		},
		{
			Name:        FunctionSearchHotels,
			Description: "Search for hotels in a city for a stay window.",
			Parameters:  reflector.Reflect(&hotelSearchParams{}),
		},
	}
}
