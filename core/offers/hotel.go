package offers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Hotel is the canonical hotel offer consumed by all downstream surfaces.
type Hotel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Stars    int    `json:"stars"`
	Type     string `json:"type"`
	Reviews  string `json:"reviews"`
	MapURL   string `json:"google_maps_url"`
	Price    string `json:"price"`
	Image    string `json:"image"`
}

// Key is the de-duplication key for a hotel: the stable ID when present,
// otherwise name and location folded for case and whitespace.
func (h Hotel) Key() string {
	if h.ID != "" {
		return h.ID
	}
	return fmt.Sprintf("%s|%s", foldKeyPart(h.Name), foldKeyPart(h.Location))
}

var starsPattern = regexp.MustCompile(`(\d)\s*-?\s*star`)

// NormalizeHotelCard turns a raw free-text card into a canonical hotel.
// The title is the hotel name, the subtitle its location, and the footer is
// scanned for a star rating. Missing fields default rather than fail.
func NormalizeHotelCard(card Card) Hotel {
	hotel := Hotel{
		ID:       card.ID,
		Name:     defaultText,
		Location: defaultText,
		Type:     "Hotel",
		Reviews:  "No reviews available",
		Price:    "Contact for pricing",
	}

	if name := strings.TrimSpace(card.Title); name != "" {
		hotel.Name = name
	}
	if location := strings.TrimSpace(card.Subtitle); location != "" {
		hotel.Location = location
	}
	if match := starsPattern.FindStringSubmatch(strings.ToLower(card.Footer)); match != nil {
		if stars, err := strconv.Atoi(match[1]); err == nil {
			hotel.Stars = clampStars(stars)
		}
	} else if count := strings.Count(card.Footer, "⭐"); count > 0 {
		hotel.Stars = clampStars(count)
	}
	if len(card.Buttons) > 0 && card.Buttons[0].URL != "" {
		hotel.MapURL = card.Buttons[0].URL
	}

	return hotel
}

// NormalizeHotel fills defaults on an already-structured offer.
func NormalizeHotel(hotel Hotel) Hotel {
	if hotel.Name = strings.TrimSpace(hotel.Name); hotel.Name == "" {
		hotel.Name = defaultText
	}
	if hotel.Location = strings.TrimSpace(hotel.Location); hotel.Location == "" {
		hotel.Location = defaultText
	}
	if hotel.Type == "" {
		hotel.Type = "Hotel"
	}
	if hotel.Reviews == "" {
		hotel.Reviews = "No reviews available"
	}
	if hotel.Price == "" {
		hotel.Price = "Contact for pricing"
	}
	hotel.Stars = clampStars(hotel.Stars)
	return hotel
}

func clampStars(stars int) int {
	if stars < 0 {
		return 0
	}
	if stars > 5 {
		return 5
	}
	return stars
}
