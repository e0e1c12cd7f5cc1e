package events

const (
	// KindSessionError identifies an SDK or call-control failure.
	KindSessionError Kind = "session.error"
)

// SessionError carries an SDK failure with whatever human-readable server
// message could be extracted from the error payload.
type SessionError struct {
	Base
	Stage      string
	StatusCode int
	Message    string
}

func (e SessionError) String() string { return e.Message }

// NewSessionError creates a session error event.
func NewSessionError(stage string, statusCode int, message string) SessionError {
	return SessionError{Base: NewBase(KindSessionError), Stage: stage, StatusCode: statusCode, Message: message}
}
