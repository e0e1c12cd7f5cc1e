package events

const (
	// KindFunctionCalled identifies assistant invocation of a named operation.
	KindFunctionCalled Kind = "function.called"
	// KindFunctionResult identifies a result payload for a previous call.
	KindFunctionResult Kind = "function.result"
)

// FunctionCalled marks the assistant invoking a backend operation.
type FunctionCalled struct {
	Base
	ID        string
	Name      string
	Arguments string
}

// NewFunctionCalled creates a function call event.
func NewFunctionCalled(id, name, arguments string) FunctionCalled {
	return FunctionCalled{Base: NewBase(KindFunctionCalled), ID: id, Name: name, Arguments: arguments}
}

// FunctionResult carries the outcome of a previous function call. Result is
// the raw payload as delivered; it may embed result cards but the session
// never renders from here, card display flows through the backend cache.
type FunctionResult struct {
	Base
	ID     string
	Name   string
	Result string
}

// NewFunctionResult creates a function result event.
func NewFunctionResult(id, name, result string) FunctionResult {
	return FunctionResult{Base: NewBase(KindFunctionResult), ID: id, Name: name, Result: result}
}
