package events

const (
	// KindSpeechStarted identifies start of speech activity.
	KindSpeechStarted Kind = "speech.started"
	// KindSpeechEnded identifies end of speech activity.
	KindSpeechEnded Kind = "speech.ended"
)

// SpeechStarted marks when speech activity starts.
type SpeechStarted struct{ Base }

// NewSpeechStarted creates a speech started event.
func NewSpeechStarted() SpeechStarted {
	return SpeechStarted{Base: NewBase(KindSpeechStarted)}
}

// SpeechEnded marks when speech activity ends.
type SpeechEnded struct{ Base }

// NewSpeechEnded creates a speech ended event.
func NewSpeechEnded() SpeechEnded {
	return SpeechEnded{Base: NewBase(KindSpeechEnded)}
}
