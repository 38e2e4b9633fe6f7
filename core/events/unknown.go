package events

import (
	"errors"
	"fmt"
	"strings"
)

// KindUnknown identifies a frame that could not be decoded into a catalog
// event.
const KindUnknown Kind = "unknown"

var (
	// ErrMalformedFrame is the reason for frames that are not a JSON object.
	ErrMalformedFrame = errors.New("malformed frame")
	// ErrMissingType is the reason for envelopes without a "type" field.
	ErrMissingType = errors.New("missing event type")
	// ErrUnrecognizedKind is the reason for envelopes whose type is not in
	// the catalog.
	ErrUnrecognizedKind = errors.New("unrecognized event kind")
)

// ValidationError lists the required payload fields a recognized event is
// missing.
type ValidationError struct {
	Kind    Kind
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: missing required fields: %s", e.Kind, strings.Join(e.Missing, ", "))
}

// Unknown is the catch-all variant for unrecognized or malformed frames.
type Unknown struct {
	Base
	// Raw is the frame exactly as received.
	Raw []byte
	// DeclaredType is the envelope type, empty when it could not be read.
	DeclaredType string
	// Reason is ErrMalformedFrame, ErrMissingType, ErrUnrecognizedKind or a
	// *ValidationError, possibly wrapped.
	Reason error
}

func (e Unknown) String() string {
	if e.DeclaredType != "" {
		return fmt.Sprintf("unknown %q: %v", e.DeclaredType, e.Reason)
	}
	return fmt.Sprintf("unknown: %v", e.Reason)
}

func newUnknown(base Base, raw []byte, declared string, reason error) Unknown {
	base.kind = KindUnknown
	return Unknown{Base: base, Raw: raw, DeclaredType: declared, Reason: reason}
}
