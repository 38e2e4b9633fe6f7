package events

const (
	// KindSTTStart identifies the start of speech capture for transcription.
	KindSTTStart Kind = "stt_start"
	// KindSTTInterim identifies a mutable interim transcript.
	KindSTTInterim Kind = "stt_interim"
	// KindSTTResult identifies the final transcript of an utterance.
	KindSTTResult Kind = "stt_result"
	// KindSTTError identifies a transcription failure.
	KindSTTError Kind = "stt_error"
)

// STTStart marks the start of transcription. Mode is one of "push_to_talk",
// "continuous" or "file".
type STTStart struct {
	Base
	Mode string `json:"mode,omitempty"`
}

// NewSTTStart creates a transcription start event.
func NewSTTStart(mode string, opts ...BaseOption) STTStart {
	return STTStart{Base: newBase(KindSTTStart, opts), Mode: mode}
}

// STTInterim carries an interim transcript that may still change.
type STTInterim struct {
	Base
	Text       string  `json:"text" validate:"required"`
	Confidence float64 `json:"confidence,omitempty"`
}

// NewSTTInterim creates an interim transcript event.
func NewSTTInterim(text string, opts ...BaseOption) STTInterim {
	return STTInterim{Base: newBase(KindSTTInterim, opts), Text: text}
}

// STTResult carries the final transcript of an utterance.
type STTResult struct {
	Base
	Text            string  `json:"text" validate:"required"`
	Confidence      float64 `json:"confidence,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	Language        string  `json:"language,omitempty"`
}

func (e STTResult) String() string { return e.Text }

// NewSTTResult creates a final transcript event.
func NewSTTResult(text string, opts ...BaseOption) STTResult {
	return STTResult{Base: newBase(KindSTTResult, opts), Text: text}
}

// STTError reports a transcription failure.
type STTError struct {
	Base
	Message string         `json:"message" validate:"required"`
	Details map[string]any `json:"details,omitempty"`
}

// NewSTTError creates a transcription error event.
func NewSTTError(message string, opts ...BaseOption) STTError {
	return STTError{Base: newBase(KindSTTError, opts), Message: message}
}
