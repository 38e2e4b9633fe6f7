package events

const (
	// KindEmotionChange identifies a change of the assistant's displayed emotion.
	KindEmotionChange Kind = "emotion_change"
	// KindStateChange identifies a change of the assistant's activity state.
	KindStateChange Kind = "state_change"
)

// EmotionChange reports the emotion the avatar should display.
type EmotionChange struct {
	Base
	Emotion   string  `json:"emotion" validate:"required"`
	Intensity float64 `json:"intensity,omitempty"`
}

// NewEmotionChange creates an emotion change event.
func NewEmotionChange(emotion string, opts ...BaseOption) EmotionChange {
	return EmotionChange{Base: newBase(KindEmotionChange, opts), Emotion: emotion}
}

// StateChange reports the assistant's activity state, e.g. "listening",
// "thinking" or "speaking".
type StateChange struct {
	Base
	State    string `json:"state" validate:"required"`
	Previous string `json:"previous,omitempty"`
}

// NewStateChange creates an activity state change event.
func NewStateChange(state string, opts ...BaseOption) StateChange {
	return StateChange{Base: newBase(KindStateChange, opts), State: state}
}
