// Package meta holds the UPnP device metadata model: devices, embedded
// devices, services, actions and state variables, plus the identity
// types (UDN, device/service type URNs) they are keyed by.
//
// Trees are built once — by the descriptor binder for remote devices or
// by local assembly — and are immutable afterwards, with one exception:
// a StateVariable's current value, which eventing updates through
// SetCurrent under the variable's own lock.
//
//	Device
//	├── Services []*Service
//	│     ├── Actions        []*Action
//	│     └── StateVariables []*StateVariable
//	└── Embedded []*Device (same shape, single owning parent)
//
// ValidateDevice checks the structural invariants every tree must hold
// before it is handed to the registry.
package meta
