package voice

import "fmt"

// StartError is a call start failure with a user-presentable diagnostic.
type StartError struct {
	StatusCode int
	Message    string
	cause      error
}

func (e *StartError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("call start failed (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("call start failed: %s", e.Message)
}

func (e *StartError) Unwrap() error { return e.cause }

func startDiagnostic(statusCode int) string {
	switch statusCode {
	case 400:
		return "invalid assistant configuration; check that the assistant is published with a model and voice configured"
	case 401:
		return "invalid public key"
	case 403:
		return "access denied for this workspace"
	default:
		return "could not reach the voice service"
	}
}
