package voice

import "encoding/json"

type startRequest struct {
	Type        string `json:"type"`
	AssistantID string `json:"assistant_id"`
	SessionID   string `json:"session_id"`
	Tools       []Tool `json:"tools,omitempty"`
}

type controlRequest struct {
	Type  string `json:"type"`
	Muted bool   `json:"muted,omitempty"`
}

type callStartEvent struct {
	CallID string `json:"call_id"`
}

type transcriptEvent struct {
	Role           string `json:"role"`
	Transcript     string `json:"transcript"`
	TranscriptType string `json:"transcriptType"`
}

type functionCallEvent struct {
	FunctionCall struct {
		ID         string          `json:"id"`
		Name       string          `json:"name"`
		Parameters json.RawMessage `json:"parameters"`
	} `json:"functionCall"`
}

type functionResultEvent struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Result json.RawMessage `json:"result"`
}

type conversationUpdateEvent struct {
	Messages []HistoryMessage `json:"messages"`
}

type errorEvent struct {
	StatusCode int             `json:"status"`
	Message    string          `json:"message"`
	Error      json.RawMessage `json:"error"`
}

// serverMessage extracts the most specific human-readable diagnostic the
// payload offers: a nested error message, the nested error as plain text,
// then the top-level message.
func (e errorEvent) serverMessage() string {
	if len(e.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
			Detail  string `json:"detail"`
		}
		if err := json.Unmarshal(e.Error, &nested); err == nil {
			if nested.Message != "" {
				return nested.Message
			}
			if nested.Detail != "" {
				return nested.Detail
			}
		}
		var asText string
		if err := json.Unmarshal(e.Error, &asText); err == nil && asText != "" {
			return asText
		}
	}
	if e.Message != "" {
		return e.Message
	}
	return "unknown error"
}
