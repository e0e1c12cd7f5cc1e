package voice

import (
	"context"
	"testing"
)

func TestProcessMessageDispatchesKnownKinds(t *testing.T) {
	var (
		startedCallID string
		ended         bool
		transcripts   []string
		functionNames []string
		historyLens   []int
		errorMessages []string
	)

	callbacks := Callbacks{
		OnCallStarted: func(callID string) { startedCallID = callID },
		OnCallEnded:   func() { ended = true },
		OnTranscript: func(role, text string, final bool) {
			transcripts = append(transcripts, role+":"+text)
		},
		OnFunctionCall:       func(id, name, arguments string) { functionNames = append(functionNames, name) },
		OnConversationUpdate: func(messages []HistoryMessage) { historyLens = append(historyLens, len(messages)) },
		OnError:              func(stage string, statusCode int, message string) { errorMessages = append(errorMessages, message) },
	}

	client := NewClient("pk-test")
	ctx := context.Background()

	client.processMessage(ctx, []byte(`{"type":"call-start","call_id":"call-9"}`), callbacks)
	client.processMessage(ctx, []byte(`{"type":"transcript","role":"user","transcript":"show me flights","transcriptType":"final"}`), callbacks)
	client.processMessage(ctx, []byte(`{"type":"function-call","functionCall":{"id":"fc-1","name":"search_flights","parameters":{"origin":"BLR"}}}`), callbacks)
	client.processMessage(ctx, []byte(`{"type":"conversation-update","messages":[{"role":"assistant","content":"hi"}]}`), callbacks)
	client.processMessage(ctx, []byte(`{"type":"error","status":400,"error":{"message":"assistant not published"}}`), callbacks)
	client.processMessage(ctx, []byte(`{"type":"call-end"}`), callbacks)

	if startedCallID != "call-9" {
		t.Fatalf("expected call id from call-start, got %q", startedCallID)
	}
	if len(transcripts) != 1 || transcripts[0] != "user:show me flights" {
		t.Fatalf("unexpected transcripts %v", transcripts)
	}
	if len(functionNames) != 1 || functionNames[0] != "search_flights" {
		t.Fatalf("unexpected function calls %v", functionNames)
	}
	if len(historyLens) != 1 || historyLens[0] != 1 {
		t.Fatalf("unexpected conversation updates %v", historyLens)
	}
	if len(errorMessages) != 1 || errorMessages[0] != "assistant not published" {
		t.Fatalf("unexpected error messages %v", errorMessages)
	}
	if !ended {
		t.Fatalf("expected call-end dispatch")
	}
}

func TestProcessMessageSkipsUnknownKindsAndNilCallbacks(t *testing.T) {
	client := NewClient("pk-test")
	ctx := context.Background()

	// Neither may panic: unknown kind, and a known kind with no callback set.
	client.processMessage(ctx, []byte(`{"type":"volume-level","value":0.3}`), Callbacks{})
	client.processMessage(ctx, []byte(`{"type":"transcript","transcript":"hello"}`), Callbacks{})
}

func TestTranscriptRoleDefaultsToAssistant(t *testing.T) {
	var role string
	callbacks := Callbacks{OnTranscript: func(r, text string, final bool) { role = r }}

	NewClient("pk-test").processMessage(context.Background(),
		[]byte(`{"type":"transcript","transcript":"hello","transcriptType":"partial"}`), callbacks)

	if role != "assistant" {
		t.Fatalf("expected assistant default role, got %q", role)
	}
}

func TestServerMessageExtractionOrder(t *testing.T) {
	testCases := []struct {
		name     string
		payload  errorEvent
		expected string
	}{
		{name: "nested message wins", payload: errorEvent{Message: "outer", Error: []byte(`{"message":"inner"}`)}, expected: "inner"},
		{name: "nested detail next", payload: errorEvent{Message: "outer", Error: []byte(`{"detail":"specifics"}`)}, expected: "specifics"},
		{name: "nested plain text", payload: errorEvent{Error: []byte(`"plain failure"`)}, expected: "plain failure"},
		{name: "top-level fallback", payload: errorEvent{Message: "outer"}, expected: "outer"},
		{name: "unknown", payload: errorEvent{}, expected: "unknown error"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.payload.serverMessage(); got != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestStartDiagnosticsMapStatusCodes(t *testing.T) {
	err := &StartError{StatusCode: 401, Message: startDiagnostic(401)}

	if err.Error() != "call start failed (status 401): invalid public key" {
		t.Fatalf("unexpected diagnostic %q", err.Error())
	}
}
