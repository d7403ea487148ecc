package meta

import "errors"

// Domain errors for the metadata model.
var (
	// ErrInvalidUDN is returned when a UDN string is malformed.
	ErrInvalidUDN = errors.New("meta: invalid UDN")

	// ErrInvalidDeviceType is returned when a device type URN is malformed.
	ErrInvalidDeviceType = errors.New("meta: invalid device type")

	// ErrInvalidServiceType is returned when a service type URN is malformed.
	ErrInvalidServiceType = errors.New("meta: invalid service type")

	// ErrInvalidServiceID is returned when a service ID URN is malformed.
	ErrInvalidServiceID = errors.New("meta: invalid service ID")

	// ErrInvalidDevice is returned by ValidateDevice when a device tree
	// violates a structural invariant.
	ErrInvalidDevice = errors.New("meta: invalid device")

	// ErrValueNotAllowed is returned by SetCurrent when a value is not
	// in the state variable's allowed-value set or range.
	ErrValueNotAllowed = errors.New("meta: value not allowed")
)
