package meta

import (
	"fmt"

	"github.com/nerrad567/gray-logic-upnp/internal/datatypes"
)

// ValidateDevice checks the structural invariants of a device tree.
// It returns the first violation found. The descriptor binder runs this
// before returning any tree; the registry relies on trees being valid.
//
// Invariants:
//   - every device has a UDN with the canonical "uuid:" prefix
//   - every device has a device type
//   - UDNs are unique within the tree
//   - every service has a type and an ID
//   - allowed-value state variables use the string builtin
//   - declared defaults decode under their datatype and, when an
//     allowed-value set exists, appear in it
func ValidateDevice(d *Device) error {
	if d == nil {
		return fmt.Errorf("%w: nil device", ErrInvalidDevice)
	}

	seen := make(map[UDN]struct{})
	for _, dev := range d.AllDevices() {
		if err := validateNode(dev); err != nil {
			return err
		}
		if _, dup := seen[dev.Identity.UDN]; dup {
			return fmt.Errorf("%w: duplicate UDN %q within tree", ErrInvalidDevice, dev.Identity.UDN)
		}
		seen[dev.Identity.UDN] = struct{}{}
	}
	return nil
}

func validateNode(d *Device) error {
	if _, err := ParseUDN(string(d.Identity.UDN)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDevice, err)
	}
	if d.Type.IsZero() {
		return fmt.Errorf("%w: device %q has no device type", ErrInvalidDevice, d.Identity.UDN)
	}

	for _, s := range d.services {
		if err := ValidateService(s); err != nil {
			return fmt.Errorf("%w on device %q", err, d.Identity.UDN)
		}
	}
	return nil
}

// ValidateService checks one service's invariants: type and ID present,
// state variables well-formed.
func ValidateService(s *Service) error {
	if s == nil {
		return fmt.Errorf("%w: nil service", ErrInvalidDevice)
	}
	if s.Type.IsZero() {
		return fmt.Errorf("%w: service without type", ErrInvalidDevice)
	}
	if s.ID.IsZero() {
		return fmt.Errorf("%w: service %s without ID", ErrInvalidDevice, s.Type)
	}
	for _, v := range s.StateVariables {
		if err := validateStateVariable(s, v); err != nil {
			return err
		}
	}
	return nil
}

func validateStateVariable(s *Service, v *StateVariable) error {
	if v.Name == "" {
		return fmt.Errorf("%w: unnamed state variable in service %s", ErrInvalidDevice, s.ID)
	}

	if len(v.Type.AllowedValues) > 0 && v.Type.Datatype.Builtin() != datatypes.String {
		return fmt.Errorf("%w: state variable %s declares allowed values but is %s, not string",
			ErrInvalidDevice, v.Name, v.Type.Datatype.Name())
	}

	if v.Type.Default != "" {
		if _, err := v.Type.Datatype.ValueOf(v.Type.Default); err != nil {
			return fmt.Errorf("%w: default %q of %s does not decode as %s: %w",
				ErrInvalidDevice, v.Type.Default, v.Name, v.Type.Datatype.Name(), err)
		}
		if !v.Type.Allows(v.Type.Default) {
			return fmt.Errorf("%w: default %q of %s not in its allowed-value set",
				ErrInvalidDevice, v.Type.Default, v.Name)
		}
	}
	return nil
}
