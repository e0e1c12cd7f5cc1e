// Package offers normalizes heterogeneous search result payloads into
// canonical flight and hotel records.
//
// Upstream producers are semi-structured text generators, so decoding is
// deliberately lenient: every field has a defined default and a malformed
// field never rejects the rest of the record.
package offers

import "strings"

// Card is the raw free-text result shape delivered by the backend cache:
// a title, subtitle and footer with embedded delimiters, plus optional
// action buttons. It is transient and normalized immediately.
type Card struct {
	ID       string   `json:"id,omitempty"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Footer   string   `json:"footer,omitempty"`
	Buttons  []Button `json:"buttons,omitempty"`
}

// Button is a card action link.
type Button struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// foldKeyPart lowercases and collapses whitespace so that fallback dedup
// keys are stable across cosmetic differences in upstream text.
func foldKeyPart(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
