package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/invopop/jsonschema"
	"github.com/koscakluka/coda-realtime/core/events"
)

// writeSchemas prints the payload schema of kind, or of every kind when kind
// is "all", as indented JSON.
func writeSchemas(w io.Writer, kind string) error {
	kinds := []events.Kind{events.Kind(kind)}
	if kind == "all" {
		kinds = events.Kinds()
	}

	schemas := make(map[events.Kind]*jsonschema.Schema, len(kinds))
	for _, k := range kinds {
		schema, err := events.JSONSchema(k)
		if err != nil {
			return err
		}
		schemas[k] = schema
	}

	var out any = schemas
	if kind != "all" {
		out = schemas[events.Kind(kind)]
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}
	_, err = fmt.Fprintln(w, string(encoded))
	return err
}
