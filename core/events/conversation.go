package events

const (
	// KindConversationUpdated identifies a batched message history snapshot.
	KindConversationUpdated Kind = "conversation.updated"
)

// HistoryMessage is one entry of a batched conversation snapshot.
type HistoryMessage struct {
	Role    Role
	Content string
}

// ConversationUpdated carries a batched snapshot of the message history so
// far. Assistant entries are inspected for search triggers the same way
// final transcript fragments are.
type ConversationUpdated struct {
	Base
	Messages []HistoryMessage
}

// NewConversationUpdated creates a conversation snapshot event.
func NewConversationUpdated(messages []HistoryMessage) ConversationUpdated {
	return ConversationUpdated{Base: NewBase(KindConversationUpdated), Messages: messages}
}
