package descriptor

import (
	"errors"
	"fmt"
)

// ErrBindingFailed is matched (via errors.Is) by every *BindingError.
var ErrBindingFailed = errors.New("descriptor: binding failed")

// BindingError reports a descriptor document that structurally violates
// the schema beyond what the active binder variant can recover from.
// Path locates the offending element in the source document.
type BindingError struct {
	// Path is the element path of the fault, e.g. "root/device/UDN".
	Path string

	// Err is the underlying cause, when one exists.
	Err error
}

func (e *BindingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("descriptor: binding failed at %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("descriptor: binding failed at %s", e.Path)
}

func (e *BindingError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrBindingFailed) match.
func (e *BindingError) Is(target error) bool { return target == ErrBindingFailed }

// bindErr builds a *BindingError from a path and a cause message.
func bindErr(path string, format string, args ...any) error {
	return &BindingError{Path: path, Err: fmt.Errorf(format, args...)}
}
