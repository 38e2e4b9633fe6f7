// Package dispatch fans connection statuses and decoded events out to
// registered observers.
package dispatch

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/koscakluka/coda-realtime/core/events"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Handle identifies one registration. The zero Handle is never issued.
type Handle struct {
	id uuid.UUID
}

func (h Handle) IsZero() bool {
	return h.id == uuid.Nil
}

func (h Handle) String() string {
	return h.id.String()
}

type StatusFunc func(events.ConnectionStatus)

type EventFunc func(events.Event)

// Observer receives both connection statuses and events.
type Observer interface {
	OnStatus(events.ConnectionStatus)
	OnEvent(events.Event)
}

type registration struct {
	handle   Handle
	onStatus StatusFunc
	onEvent  EventFunc
}

// Registry holds the ordered set of observers.
//
// Dispatch methods are meant to be called from a single goroutine; observers
// are invoked synchronously and in registration order. Register and
// Unregister may be called from any goroutine, including from inside an
// observer.
type Registry struct {
	mu sync.Mutex
	// registrations is replaced, never modified in place, so a dispatch can
	// iterate a snapshot without holding mu.
	registrations []registration
	// generation changes whenever registrations is replaced.
	generation atomic.Uint64
}

func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterStatus adds an observer of connection statuses.
func (r *Registry) RegisterStatus(fn StatusFunc) Handle {
	if fn == nil {
		return Handle{}
	}
	return r.add(registration{onStatus: fn})
}

// RegisterEvents adds an observer of decoded events.
func (r *Registry) RegisterEvents(fn EventFunc) Handle {
	if fn == nil {
		return Handle{}
	}
	return r.add(registration{onEvent: fn})
}

// Register adds an observer of both statuses and events under one handle.
func (r *Registry) Register(observer Observer) Handle {
	if observer == nil {
		return Handle{}
	}
	return r.add(registration{onStatus: observer.OnStatus, onEvent: observer.OnEvent})
}

func (r *Registry) add(reg registration) Handle {
	reg.handle = Handle{id: uuid.New()}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]registration, len(r.registrations), len(r.registrations)+1)
	copy(next, r.registrations)
	r.registrations = append(next, reg)
	r.generation.Add(1)

	return reg.handle
}

// Unregister removes the registration behind handle. Unknown and zero handles
// are ignored, so unregistering twice is harmless.
//
// Unregistering while an item is being dispatched takes effect from the next
// item on; the observer may or may not still receive the current one.
func (r *Registry) Unregister(handle Handle) bool {
	if handle.IsZero() {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, reg := range r.registrations {
		if reg.handle != handle {
			continue
		}
		next := make([]registration, 0, len(r.registrations)-1)
		next = append(next, r.registrations[:i]...)
		next = append(next, r.registrations[i+1:]...)
		r.registrations = next
		r.generation.Add(1)
		return true
	}
	return false
}

// Len is the number of live registrations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.registrations)
}

func (r *Registry) snapshot() ([]registration, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registrations, r.generation.Load()
}

// DispatchStatus calls every status observer once with status.
func (r *Registry) DispatchStatus(status events.ConnectionStatus) {
	registrations, generation := r.snapshot()
	for _, reg := range registrations {
		if reg.onStatus == nil || !r.stillRegistered(reg.handle, generation) {
			continue
		}
		r.safeCall(reg.handle, events.KindConnectionStatus, func() { reg.onStatus(status) })
	}
}

// DispatchEvent calls every event observer once with its own copy of event.
func (r *Registry) DispatchEvent(event events.Event) {
	if event == nil {
		return
	}

	registrations, generation := r.snapshot()
	for _, reg := range registrations {
		if reg.onEvent == nil || !r.stillRegistered(reg.handle, generation) {
			continue
		}
		delivered := events.Clone(event)
		r.safeCall(reg.handle, event.Kind(), func() { reg.onEvent(delivered) })
	}
}

// stillRegistered drops observers unregistered earlier in the same dispatch.
// The set is only searched when it changed since the snapshot was taken.
func (r *Registry) stillRegistered(handle Handle, generation uint64) bool {
	if r.generation.Load() == generation {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.registrations {
		if reg.handle == handle {
			return true
		}
	}
	return false
}

func (r *Registry) safeCall(handle Handle, kind events.Kind, call func()) {
	defer func() {
		if recovered := recover(); recovered != nil {
			observerPanics.Add(context.Background(), 1, metric.WithAttributes(attribute.String("event.kind", string(kind))))
			logger.Error("observer panicked",
				"handle", handle.String(),
				"kind", string(kind),
				"panic", fmt.Sprint(recovered),
				"stack", string(debug.Stack()),
			)
		}
	}()
	call()
}
