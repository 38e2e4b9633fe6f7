package events

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/jinzhu/copier"
)

// Clone returns a deep copy of event so that a consumer can modify what it
// receives without affecting other consumers. Events that cannot be copied
// are returned as is.
func Clone(event Event) Event {
	switch e := event.(type) {
	case nil:
		return nil
	case Unknown:
		e.Raw = bytes.Clone(e.Raw)
		return e
	case Replay:
		return cloneReplay(e)
	case *Replay:
		clone := cloneReplay(*e)
		return &clone
	}

	carrier, ok := event.(interface{ base() Base })
	if !ok {
		return event
	}

	eventType := reflect.TypeOf(event)
	isPointer := eventType.Kind() == reflect.Pointer
	if isPointer {
		eventType = eventType.Elem()
	}

	dst := reflect.New(eventType)
	if err := copier.CopyWithOption(dst.Interface(), event, copier.Option{DeepCopy: true}); err != nil {
		logger.Warn("failed to clone event", "kind", event.Kind(), "error", err)
		return event
	}
	settable, ok := dst.Interface().(interface{ setBase(Base) })
	if !ok {
		return event
	}
	settable.setBase(carrier.base())

	if isPointer {
		return dst.Interface().(Event)
	}
	return dst.Elem().Interface().(Event)
}

func cloneReplay(replay Replay) Replay {
	clone := Replay{Base: replay.Base}
	if replay.Events != nil {
		clone.Events = make([]Event, len(replay.Events))
		for i, event := range replay.Events {
			clone.Events[i] = Clone(event)
		}
	}
	if replay.raw != nil {
		clone.raw = make([]json.RawMessage, len(replay.raw))
		for i, raw := range replay.raw {
			clone.raw[i] = bytes.Clone(raw)
		}
	}
	return clone
}
