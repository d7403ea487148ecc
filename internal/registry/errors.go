package registry

import (
	"errors"
	"fmt"

	"github.com/nerrad567/gray-logic-upnp/internal/meta"
)

var (
	// ErrDuplicateUDN is matched (via errors.Is) by every
	// *RegistrationError raised for a UDN identity conflict.
	ErrDuplicateUDN = errors.New("registry: duplicate UDN")

	// ErrForeignHost reports an absolute resource URI whose host is not
	// the registry's advertised host.
	ErrForeignHost = errors.New("registry: absolute URI for a foreign host")

	// ErrInvalidResourcePath reports a resource path argument that is
	// structurally invalid.
	ErrInvalidResourcePath = errors.New("registry: invalid resource path")
)

// RegistrationError reports a registration that violates the registry's
// identity invariant: the UDN is already held by a registered tree.
type RegistrationError struct {
	UDN    meta.UDN
	Reason string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registry: cannot register %s: %s", e.UDN, e.Reason)
}

// Is makes errors.Is(err, ErrDuplicateUDN) match.
func (e *RegistrationError) Is(target error) bool { return target == ErrDuplicateUDN }
