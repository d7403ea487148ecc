package datatypes

import (
	"errors"
	"fmt"
)

// Domain errors for the datatypes package.
var (
	// ErrInvalidValue is returned (wrapped in *InvalidValueError) when a
	// wire string cannot be decoded under its declared datatype.
	ErrInvalidValue = errors.New("datatypes: invalid value")

	// ErrUnsupportedValue is returned when a native value cannot be
	// formatted by a datatype (wrong Go type or out of range).
	ErrUnsupportedValue = errors.New("datatypes: unsupported native value")
)

// InvalidValueError reports a wire string that failed to decode under
// its declared datatype. It always carries the offending text and the
// underlying parse error, and matches ErrInvalidValue via errors.Is.
type InvalidValueError struct {
	// Value is the offending wire string, verbatim.
	Value string

	// Err is the underlying format or range failure.
	Err error
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("datatypes: invalid value %q: %v", e.Value, e.Err)
}

func (e *InvalidValueError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrInvalidValue) match any decode failure.
func (e *InvalidValueError) Is(target error) bool { return target == ErrInvalidValue }

