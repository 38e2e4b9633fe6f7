package events

const (
	// KindTTSStart identifies the start of speech synthesis.
	KindTTSStart Kind = "tts_start"
	// KindTTSProgress identifies synthesis progress.
	KindTTSProgress Kind = "tts_progress"
	// KindTTSResult identifies completed synthesis.
	KindTTSResult Kind = "tts_result"
	// KindTTSError identifies a synthesis failure.
	KindTTSError Kind = "tts_error"
	// KindTTSStatus identifies a synthesis engine status change.
	KindTTSStatus Kind = "tts_status"
	// KindTTSStop identifies interrupted playback.
	KindTTSStop Kind = "tts_stop"
)

// TTSStart marks the start of speech synthesis.
type TTSStart struct {
	Base
	Text     string `json:"text" validate:"required"`
	Voice    string `json:"voice,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// NewTTSStart creates a synthesis start event.
func NewTTSStart(text string, opts ...BaseOption) TTSStart {
	return TTSStart{Base: newBase(KindTTSStart, opts), Text: text}
}

// TTSProgress reports synthesis progress in percent.
type TTSProgress struct {
	Base
	PercentComplete *float64 `json:"percent_complete" validate:"required"`
}

// NewTTSProgress creates a synthesis progress event.
func NewTTSProgress(percent float64, opts ...BaseOption) TTSProgress {
	return TTSProgress{Base: newBase(KindTTSProgress, opts), PercentComplete: &percent}
}

// TTSResult marks completed synthesis.
type TTSResult struct {
	Base
	DurationSeconds      float64 `json:"duration_seconds,omitempty"`
	AudioDurationSeconds float64 `json:"audio_duration_seconds,omitempty"`
	CharCount            int     `json:"char_count,omitempty"`
}

// NewTTSResult creates a synthesis result event.
func NewTTSResult(audioDuration float64, charCount int, opts ...BaseOption) TTSResult {
	return TTSResult{Base: newBase(KindTTSResult, opts), AudioDurationSeconds: audioDuration, CharCount: charCount}
}

// TTSError reports a synthesis failure.
type TTSError struct {
	Base
	Message string         `json:"message" validate:"required"`
	Details map[string]any `json:"details,omitempty"`
}

// NewTTSError creates a synthesis error event.
func NewTTSError(message string, opts ...BaseOption) TTSError {
	return TTSError{Base: newBase(KindTTSError, opts), Message: message}
}

// TTSStatus reports a synthesis engine status change ("loaded", "unloaded",
// "switching").
type TTSStatus struct {
	Base
	Status  string         `json:"status" validate:"required"`
	Details map[string]any `json:"details,omitempty"`
}

// NewTTSStatus creates a synthesis status event.
func NewTTSStatus(status string, opts ...BaseOption) TTSStatus {
	return TTSStatus{Base: newBase(KindTTSStatus, opts), Status: status}
}

// TTSStop marks interrupted playback.
type TTSStop struct {
	Base
	Reason string `json:"reason,omitempty"`
}

// NewTTSStop creates a synthesis stop event.
func NewTTSStop(reason string, opts ...BaseOption) TTSStop {
	return TTSStop{Base: newBase(KindTTSStop, opts), Reason: reason}
}
