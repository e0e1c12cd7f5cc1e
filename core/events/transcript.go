package events

// Role tags which side of the conversation produced a transcript fragment.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

const (
	// KindTranscriptUpdated identifies a partial or final transcript fragment.
	KindTranscriptUpdated Kind = "transcript.updated"
)

// TranscriptUpdated carries a role-tagged transcript fragment. The same
// final fragment may arrive more than once.
type TranscriptUpdated struct {
	Base
	Role  Role
	Text  string
	Final bool
}

func (t TranscriptUpdated) String() string {
	if t.Final {
		return t.Text
	}
	return t.Text + "..."
}

// NewTranscriptUpdated creates a transcript fragment event.
func NewTranscriptUpdated(role Role, text string, final bool) TranscriptUpdated {
	return TranscriptUpdated{Base: NewBase(KindTranscriptUpdated), Role: role, Text: text, Final: final}
}
