package events

const (
	// KindCallStarted identifies call start acknowledgment.
	KindCallStarted Kind = "call.started"
	// KindCallEnded identifies call termination.
	KindCallEnded Kind = "call.ended"
)

// CallStarted marks the SDK's call start acknowledgment.
type CallStarted struct {
	Base
	CallID string
}

// NewCallStarted creates a call started event.
func NewCallStarted(callID string) CallStarted {
	return CallStarted{Base: NewBase(KindCallStarted), CallID: callID}
}

// CallEnded marks call termination reported by the SDK.
type CallEnded struct{ Base }

// NewCallEnded creates a call ended event.
func NewCallEnded() CallEnded {
	return CallEnded{Base: NewBase(KindCallEnded)}
}
