// Package voice is the client for the hosted voice-assistant SDK: a
// websocket event stream carrying call lifecycle, transcript fragments and
// function-call notifications, plus the call-control operations start, stop
// and mute.
//
// Voice capture and speech recognition happen on the SDK side; only the
// event delivery contract matters here.
package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const defaultEndpoint = "wss://voice.attartravel.example/v1/session"

// Client maintains one websocket session with the voice SDK. A client may
// run at most one call at a time.
type Client struct {
	publicKey string
	endpoint  string

	connMu    sync.Mutex
	conn      *websocket.Conn
	sessionID string
}

type ClientOption func(*Client)

// WithEndpoint overrides the SDK endpoint, mainly for tests.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

func NewClient(publicKey string, opts ...ClientOption) *Client {
	client := &Client{publicKey: publicKey, endpoint: defaultEndpoint}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Callbacks receive decoded SDK events. Nil callbacks are skipped. They are
// invoked from the single read loop goroutine, so handlers for the same
// session are never re-entered concurrently.
type Callbacks struct {
	OnCallStarted        func(callID string)
	OnCallEnded          func()
	OnSpeechStarted      func()
	OnSpeechEnded        func()
	OnTranscript         func(role, text string, final bool)
	OnFunctionCall       func(id, name, arguments string)
	OnFunctionResult     func(id, name, result string)
	OnConversationUpdate func(messages []HistoryMessage)
	OnError              func(stage string, statusCode int, message string)
}

// Tool describes an assistant operation registered at call start. Parameters
// is a JSON schema for the operation's arguments.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Parameters  any    `json:"parameters,omitempty"`
}

// HistoryMessage is one entry of a batched conversation snapshot.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type StartOptions struct {
	tools []Tool
}

type StartOption func(*StartOptions)

// WithTools registers assistant tools for the call.
func WithTools(tools ...Tool) StartOption {
	return func(o *StartOptions) { o.tools = append(o.tools, tools...) }
}

// Start opens the SDK session for assistantID and begins delivering events
// to callbacks until the call ends or ctx is cancelled. A start failure
// carries whatever server diagnostic could be extracted.
func (c *Client) Start(ctx context.Context, assistantID string, callbacks Callbacks, opts ...StartOption) error {
	options := StartOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	conn, err := c.connect(ctx, assistantID)
	if err != nil {
		return err
	}

	c.connMu.Lock()
	c.conn = conn
	c.sessionID = uuid.NewString()
	sessionID := c.sessionID
	c.connMu.Unlock()

	if err := c.writeJSON(startRequest{
		Type:        "start",
		AssistantID: assistantID,
		SessionID:   sessionID,
		Tools:       options.tools,
	}); err != nil {
		c.closeConn()
		return fmt.Errorf("failed to start call: %w", err)
	}

	go c.readAndProcessMessages(ctx, conn, callbacks)
	return nil
}

func (c *Client) connect(ctx context.Context, assistantID string) (*websocket.Conn, error) {
	sessionURL, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid voice endpoint: %w", err)
	}
	queryParams := sessionURL.Query()
	queryParams.Set("assistant_id", assistantID)
	sessionURL.RawQuery = queryParams.Encode()

	conn, response, err := websocket.DefaultDialer.DialContext(ctx, sessionURL.String(),
		http.Header{"Authorization": {"Bearer " + c.publicKey}})
	if err != nil {
		statusCode := 0
		if response != nil {
			statusCode = response.StatusCode
		}
		return nil, &StartError{
			StatusCode: statusCode,
			Message:    startDiagnostic(statusCode),
			cause:      err,
		}
	}
	return conn, nil
}

// Stop ends the active call. Safe to call when no call is active.
func (c *Client) Stop() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return nil
	}
	if err := c.conn.WriteJSON(controlRequest{Type: "stop"}); err != nil {
		return fmt.Errorf("failed to request call stop: %w", err)
	}
	return nil
}

// SetMuted toggles microphone muting on the SDK side.
func (c *Client) SetMuted(muted bool) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("no active call")
	}
	if err := c.conn.WriteJSON(controlRequest{Type: "set-muted", Muted: muted}); err != nil {
		return fmt.Errorf("failed to set muted state: %w", err)
	}
	return nil
}

// Close tears the connection down without the stop handshake.
func (c *Client) Close() error {
	c.closeConn()
	return nil
}

func (c *Client) writeJSON(payload any) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("no active connection")
	}
	return c.conn.WriteJSON(payload)
}

func (c *Client) closeConn() {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *Client) readAndProcessMessages(ctx context.Context, conn *websocket.Conn, callbacks Callbacks) {
	defer c.closeConn()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.WarnContext(ctx, "voice socket closed unexpectedly", "error", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		c.processMessage(ctx, msg, callbacks)
	}
}

func (c *Client) processMessage(ctx context.Context, msg []byte, callbacks Callbacks) {
	var parsedMsg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		logger.WarnContext(ctx, "failed to unmarshal voice message", "error", err)
		return
	}

	switch parsedMsg.Type {
	case "call-start":
		var payload callStartEvent
		if err := json.Unmarshal(msg, &payload); err != nil {
			logger.WarnContext(ctx, "failed to unmarshal call-start", "error", err)
			return
		}
		if callbacks.OnCallStarted != nil {
			callbacks.OnCallStarted(payload.CallID)
		}

	case "call-end":
		if callbacks.OnCallEnded != nil {
			callbacks.OnCallEnded()
		}

	case "speech-start":
		if callbacks.OnSpeechStarted != nil {
			callbacks.OnSpeechStarted()
		}

	case "speech-end":
		if callbacks.OnSpeechEnded != nil {
			callbacks.OnSpeechEnded()
		}

	case "transcript":
		var payload transcriptEvent
		if err := json.Unmarshal(msg, &payload); err != nil {
			logger.WarnContext(ctx, "failed to unmarshal transcript", "error", err)
			return
		}
		if callbacks.OnTranscript != nil {
			role := payload.Role
			if role == "" {
				role = "assistant"
			}
			callbacks.OnTranscript(role, payload.Transcript, payload.TranscriptType == "final")
		}

	case "function-call":
		var payload functionCallEvent
		if err := json.Unmarshal(msg, &payload); err != nil {
			logger.WarnContext(ctx, "failed to unmarshal function-call", "error", err)
			return
		}
		if callbacks.OnFunctionCall != nil {
			callbacks.OnFunctionCall(payload.FunctionCall.ID, payload.FunctionCall.Name, string(payload.FunctionCall.Parameters))
		}

	case "function-call-result":
		var payload functionResultEvent
		if err := json.Unmarshal(msg, &payload); err != nil {
			logger.WarnContext(ctx, "failed to unmarshal function-call-result", "error", err)
			return
		}
		if callbacks.OnFunctionResult != nil {
			callbacks.OnFunctionResult(payload.ID, payload.Name, string(payload.Result))
		}

	case "conversation-update":
		var payload conversationUpdateEvent
		if err := json.Unmarshal(msg, &payload); err != nil {
			logger.WarnContext(ctx, "failed to unmarshal conversation-update", "error", err)
			return
		}
		if callbacks.OnConversationUpdate != nil {
			callbacks.OnConversationUpdate(payload.Messages)
		}

	case "error":
		var payload errorEvent
		if err := json.Unmarshal(msg, &payload); err != nil {
			logger.WarnContext(ctx, "failed to unmarshal error event", "error", err)
			return
		}
		if callbacks.OnError != nil {
			callbacks.OnError("call", payload.StatusCode, payload.serverMessage())
		}

	default:
		// Unknown kinds (volume levels and similar) are not part of the
		// contract and are skipped.
	}
}
