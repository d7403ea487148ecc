package meta

import (
	"fmt"
	"slices"
	"sync"

	"github.com/nerrad567/gray-logic-upnp/internal/datatypes"
)

// Service is one service entry of a device: its type, instance ID, the
// URLs the transport layer uses to reach it, and its action/state
// variable tables from the SCPD document.
type Service struct {
	Type ServiceType
	ID   ServiceID

	// Descriptor URLs, relative to the device's descriptor location.
	SCPDURL              string
	ControlURL           string
	EventSubscriptionURL string

	Actions        []*Action
	StateVariables []*StateVariable

	device *Device
}

// Device returns the owning device.
func (s *Service) Device() *Device { return s.device }

// Action returns the named action, or nil.
func (s *Service) Action(name string) *Action {
	for _, a := range s.Actions {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// StateVariable returns the named state variable, or nil.
func (s *Service) StateVariable(name string) *StateVariable {
	for _, v := range s.StateVariables {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Direction marks an action argument as input or output.
type Direction string

// Argument directions per the SCPD schema.
const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Action describes one invocable operation of a service.
type Action struct {
	Name      string
	Arguments []Argument
}

// Argument describes one action argument and the state variable its
// datatype is drawn from.
type Argument struct {
	Name                 string
	Direction            Direction
	RelatedStateVariable string
	ReturnValue          bool
}

// AllowedRange constrains a numeric state variable. Step 0 means
// unconstrained step.
type AllowedRange struct {
	Min  int64
	Max  int64
	Step int64
}

// TypeDetails binds a state variable to its datatype and value
// constraints.
type TypeDetails struct {
	Datatype datatypes.Datatype

	// Default is the defaultValue element verbatim; "" means none.
	Default string

	// AllowedValues, when non-empty, closes the legal value set. Only
	// valid for string-typed variables; order follows the descriptor.
	AllowedValues []string

	AllowedRange *AllowedRange
}

// Allows reports whether a formatted value is in the allowed-value set.
// An empty set allows everything.
func (t TypeDetails) Allows(s string) bool {
	if len(t.AllowedValues) == 0 {
		return true
	}
	return slices.Contains(t.AllowedValues, s)
}

// StateVariable is a service's typed variable. The descriptor-derived
// fields are immutable; only the current value changes after
// construction, driven by eventing, under the variable's own lock.
type StateVariable struct {
	Name       string
	Type       TypeDetails
	SendEvents bool

	service *Service

	mu      sync.RWMutex
	current any
}

// Service returns the owning service, or nil for detached variables.
func (v *StateVariable) Service() *Service { return v.service }

// Bind attaches the variable to its owning service. Called during tree
// assembly only.
func (v *StateVariable) Bind(s *Service) { v.service = s }

// Current returns the last value set by eventing, or nil when no value
// has been seen.
func (v *StateVariable) Current() any {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// SetCurrent updates the current value after validating it against the
// variable's datatype, allowed-value set and allowed range. nil clears
// the value.
func (v *StateVariable) SetCurrent(val any) error {
	if val != nil {
		if !v.Type.Datatype.IsValid(val) {
			return fmt.Errorf("%w: %v is not a valid %s value for %s",
				ErrValueNotAllowed, val, v.Type.Datatype.Name(), v.Name)
		}
		formatted, err := v.Type.Datatype.Format(val)
		if err != nil {
			return fmt.Errorf("%w: %v for %s", ErrValueNotAllowed, err, v.Name)
		}
		if !v.Type.Allows(formatted) {
			return fmt.Errorf("%w: %q not in allowed values of %s",
				ErrValueNotAllowed, formatted, v.Name)
		}
		if r := v.Type.AllowedRange; r != nil {
			n, ok := val.(int64)
			if !ok {
				return fmt.Errorf("%w: range-constrained %s needs an integer value, got %T",
					ErrValueNotAllowed, v.Name, val)
			}
			if n < r.Min || n > r.Max {
				return fmt.Errorf("%w: %d outside range [%d, %d] of %s",
					ErrValueNotAllowed, n, r.Min, r.Max, v.Name)
			}
			if r.Step > 0 && (n-r.Min)%r.Step != 0 {
				return fmt.Errorf("%w: %d not on step %d of %s",
					ErrValueNotAllowed, n, r.Step, v.Name)
			}
		}
	}

	v.mu.Lock()
	v.current = val
	v.mu.Unlock()
	return nil
}
