package events

const (
	// KindMemoryStore identifies a stored memory.
	KindMemoryStore Kind = "memory_store"
	// KindMemoryRetrieve identifies a memory lookup.
	KindMemoryRetrieve Kind = "memory_retrieve"
	// KindMemoryUpdate identifies a change to a stored memory.
	KindMemoryUpdate Kind = "memory_update"
)

// MemoryStore reports a stored memory.
type MemoryStore struct {
	Base
	MemoryID       ID      `json:"memory_id" validate:"required"`
	ContentPreview string  `json:"content_preview,omitempty"`
	MemoryType     string  `json:"memory_type,omitempty"`
	Importance     float64 `json:"importance,omitempty"`
}

// NewMemoryStore creates a memory store event.
func NewMemoryStore(memoryID ID, preview string, opts ...BaseOption) MemoryStore {
	return MemoryStore{Base: newBase(KindMemoryStore, opts), MemoryID: memoryID, ContentPreview: preview}
}

// MemoryResult is one entry of a memory lookup.
type MemoryResult struct {
	ID       ID             `json:"id,omitempty"`
	Content  string         `json:"content,omitempty"`
	Score    float64        `json:"score,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// MemoryRetrieve reports a memory lookup and its results.
type MemoryRetrieve struct {
	Base
	Query            string         `json:"query" validate:"required"`
	ResultsCount     int            `json:"results_count,omitempty"`
	TopResultPreview string         `json:"top_result_preview,omitempty"`
	Results          []MemoryResult `json:"results,omitempty"`
}

// NewMemoryRetrieve creates a memory lookup event.
func NewMemoryRetrieve(query string, results []MemoryResult, opts ...BaseOption) MemoryRetrieve {
	return MemoryRetrieve{Base: newBase(KindMemoryRetrieve, opts), Query: query, ResultsCount: len(results), Results: results}
}

// MemoryUpdate reports a change of one field of a stored memory.
type MemoryUpdate struct {
	Base
	MemoryID ID     `json:"memory_id" validate:"required"`
	Field    string `json:"field" validate:"required"`
	OldValue any    `json:"old_value,omitempty"`
	NewValue any    `json:"new_value,omitempty"`
}

// NewMemoryUpdate creates a memory update event.
func NewMemoryUpdate(memoryID ID, field string, oldValue, newValue any, opts ...BaseOption) MemoryUpdate {
	return MemoryUpdate{Base: newBase(KindMemoryUpdate, opts), MemoryID: memoryID, Field: field, OldValue: oldValue, NewValue: newValue}
}
