package events

const (
	// KindLatencyTrace identifies the per-turn latency breakdown.
	KindLatencyTrace Kind = "latency_trace"
	// KindComponentTiming identifies one timed component operation.
	KindComponentTiming Kind = "component_timing"
	// KindComponentStats identifies aggregated component statistics.
	KindComponentStats Kind = "component_stats"
)

// LatencyTrace breaks down processing time of one turn. Audio durations are
// reported separately from processing time.
type LatencyTrace struct {
	Base
	STTSeconds              float64  `json:"stt_seconds,omitempty"`
	LLMSeconds              float64  `json:"llm_seconds,omitempty"`
	TTSSeconds              float64  `json:"tts_seconds,omitempty"`
	TotalSeconds            *float64 `json:"total_seconds" validate:"required"`
	ToolSeconds             float64  `json:"tool_seconds,omitempty"`
	MemorySeconds           float64  `json:"memory_seconds,omitempty"`
	TotalProcessingSeconds  float64  `json:"total_processing_seconds,omitempty"`
	STTAudioDuration        float64  `json:"stt_audio_duration,omitempty"`
	TTSAudioDuration        float64  `json:"tts_audio_duration,omitempty"`
	TotalInteractionSeconds float64  `json:"total_interaction_seconds,omitempty"`
}

// NewLatencyTrace creates a latency trace event.
func NewLatencyTrace(stt, llm, tts float64, opts ...BaseOption) LatencyTrace {
	total := stt + llm + tts
	return LatencyTrace{
		Base:       newBase(KindLatencyTrace, opts),
		STTSeconds: stt, LLMSeconds: llm, TTSSeconds: tts,
		TotalSeconds: &total,
	}
}

type ComponentTiming struct {
	Base
	Component       string  `json:"component" validate:"required"`
	Operation       string  `json:"operation" validate:"required"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
}

// NewComponentTiming creates a component timing event.
func NewComponentTiming(component, operation string, seconds float64, opts ...BaseOption) ComponentTiming {
	return ComponentTiming{Base: newBase(KindComponentTiming, opts), Component: component, Operation: operation, DurationSeconds: seconds}
}

// ComponentStats maps component -> operation -> statistic name -> value.
type ComponentStats struct {
	Base
	Components map[string]map[string]map[string]any `json:"components" validate:"required"`
}

// NewComponentStats creates a component statistics event.
func NewComponentStats(components map[string]map[string]map[string]any, opts ...BaseOption) ComponentStats {
	return ComponentStats{Base: newBase(KindComponentStats, opts), Components: components}
}
