package events

import (
	"fmt"

	"github.com/invopop/jsonschema"
)

// JSONSchema describes the data payload of kind. Required properties are the
// fields Decode requires before it accepts a frame as that kind.
func JSONSchema(kind Kind) (*jsonschema.Schema, error) {
	entry, ok := catalogIndex[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedKind, kind)
	}

	reflector := jsonschema.Reflector{DoNotReference: true, Anonymous: true}
	schema := reflector.Reflect(entry.schema)
	schema.Title = string(kind)
	return schema, nil
}

func (ConnectionState) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "string",
		Enum: []any{
			StateIdle.String(),
			StateConnecting.String(),
			StateOpen.String(),
			StateReconnecting.String(),
			StateClosed.String(),
		},
	}
}

func (ID) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "integer"},
		},
	}
}
