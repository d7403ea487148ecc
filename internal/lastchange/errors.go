package lastchange

import "errors"

// Domain errors for the lastchange package.
var (
	// ErrUnknownKind is returned when constructing a value for a kind
	// outside the closed kind table.
	ErrUnknownKind = errors.New("lastchange: unknown evented value kind")

	// ErrMissingValue is returned when a LastChange element has no
	// "val" attribute.
	ErrMissingValue = errors.New("lastchange: missing val attribute")

	// ErrMalformedEvent is returned when a LastChange document is not
	// well-formed XML or lacks the Event/InstanceID structure.
	ErrMalformedEvent = errors.New("lastchange: malformed event document")
)
