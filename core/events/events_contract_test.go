package events

import "testing"

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "call started", event: NewCallStarted("call-1"), expected: KindCallStarted},
		{name: "call ended", event: NewCallEnded(), expected: KindCallEnded},
		{name: "speech started", event: NewSpeechStarted(), expected: KindSpeechStarted},
		{name: "speech ended", event: NewSpeechEnded(), expected: KindSpeechEnded},
		{name: "transcript updated", event: NewTranscriptUpdated(RoleUser, "text", false), expected: KindTranscriptUpdated},
		{name: "function called", event: NewFunctionCalled("id", "search_flights", "{}"), expected: KindFunctionCalled},
		{name: "function result", event: NewFunctionResult("id", "search_flights", "{}"), expected: KindFunctionResult},
		{name: "conversation updated", event: NewConversationUpdated(nil), expected: KindConversationUpdated},
		{name: "session error", event: NewSessionError("start", 400, "bad assistant"), expected: KindSessionError},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestTranscriptUpdatedStringMarksPartials(t *testing.T) {
	partial := NewTranscriptUpdated(RoleAssistant, "searching", false)
	final := NewTranscriptUpdated(RoleAssistant, "searching", true)

	if partial.String() == final.String() {
		t.Fatalf("expected partial and final renderings to differ, both were %q", partial.String())
	}
}
