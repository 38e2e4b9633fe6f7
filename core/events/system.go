package events

import "encoding/json"

const (
	// KindSystemInfo identifies free-form backend information.
	KindSystemInfo Kind = "system_info"
	// KindSystemError identifies a backend error report.
	KindSystemError Kind = "system_error"
	// KindSystemMetrics identifies a backend resource usage sample.
	KindSystemMetrics Kind = "system_metrics"
)

// SystemInfo carries free-form backend information. The whole data object is
// kept in Info.
type SystemInfo struct {
	Base
	Info map[string]any
}

func (e SystemInfo) MarshalJSON() ([]byte, error) {
	if e.Info == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(e.Info)
}

func (e *SystemInfo) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &e.Info)
}

// NewSystemInfo creates a system info event.
func NewSystemInfo(info map[string]any, opts ...BaseOption) SystemInfo {
	return SystemInfo{Base: newBase(KindSystemInfo, opts), Info: info}
}

// SystemError reports a backend error. Level is one of "warning", "error" or
// "critical".
type SystemError struct {
	Base
	Level   string         `json:"level,omitempty"`
	Message string         `json:"message" validate:"required"`
	Details map[string]any `json:"details,omitempty"`
}

// NewSystemError creates a system error event.
func NewSystemError(level, message string, opts ...BaseOption) SystemError {
	return SystemError{Base: newBase(KindSystemError, opts), Level: level, Message: message}
}

// SystemMetrics is a backend resource usage sample.
type SystemMetrics struct {
	Base
	MemoryMB      *float64 `json:"memory_mb" validate:"required"`
	CPUPercent    *float64 `json:"cpu_percent" validate:"required"`
	GPUVRAMMB     *float64 `json:"gpu_vram_mb,omitempty"`
	UptimeSeconds *float64 `json:"uptime_seconds,omitempty"`
}

// NewSystemMetrics creates a system metrics event.
func NewSystemMetrics(memoryMB, cpuPercent float64, opts ...BaseOption) SystemMetrics {
	return SystemMetrics{Base: newBase(KindSystemMetrics, opts), MemoryMB: &memoryMB, CPUPercent: &cpuPercent}
}
