package meta

// Device is one node of a device tree: a root or embedded UPnP device
// with its services and embedded children. Trees are assembled through
// AddService/AddEmbedded and treated as immutable once handed out.
type Device struct {
	Identity Identity
	Type     DeviceType
	Details  DeviceDetails
	Icons    []Icon

	services []*Service
	embedded []*Device
	parent   *Device
}

// UDN returns the device's unique device name.
func (d *Device) UDN() UDN { return d.Identity.UDN }

// Services returns the device's own services (not those of embedded
// devices).
func (d *Device) Services() []*Service { return d.services }

// Embedded returns the device's directly embedded devices.
func (d *Device) Embedded() []*Device { return d.embedded }

// Parent returns the owning device, or nil for a root device.
func (d *Device) Parent() *Device { return d.parent }

// IsRoot reports whether the device is a top-level (non-embedded) device.
func (d *Device) IsRoot() bool { return d.parent == nil }

// Root walks up to the top of the tree.
func (d *Device) Root() *Device {
	r := d
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// AddService attaches a service and sets its back-pointer. A service
// has exactly one owning device.
func (d *Device) AddService(s *Service) {
	s.device = d
	d.services = append(d.services, s)
}

// AddEmbedded attaches an embedded device and sets its parent pointer.
func (d *Device) AddEmbedded(child *Device) {
	child.parent = d
	d.embedded = append(d.embedded, child)
}

// FindDevice searches the subtree rooted at d for the given UDN.
// Returns nil when absent.
func (d *Device) FindDevice(udn UDN) *Device {
	if d.Identity.UDN == udn {
		return d
	}
	for _, child := range d.embedded {
		if found := child.FindDevice(udn); found != nil {
			return found
		}
	}
	return nil
}

// AllDevices returns the subtree rooted at d in depth-first order,
// including d itself.
func (d *Device) AllDevices() []*Device {
	out := []*Device{d}
	for _, child := range d.embedded {
		out = append(out, child.AllDevices()...)
	}
	return out
}

// AllServices returns every service in the subtree rooted at d.
func (d *Device) AllServices() []*Service {
	var out []*Service
	for _, dev := range d.AllDevices() {
		out = append(out, dev.services...)
	}
	return out
}

// ServicesByType returns every service in the subtree whose type
// matches t exactly (no sub-typing).
func (d *Device) ServicesByType(t ServiceType) []*Service {
	var out []*Service
	for _, s := range d.AllServices() {
		if s.Type == t {
			out = append(out, s)
		}
	}
	return out
}

// HasServiceType reports whether any service in the subtree has the
// given type.
func (d *Device) HasServiceType(t ServiceType) bool {
	return len(d.ServicesByType(t)) > 0
}

// FindService returns the service with the given ID anywhere in the
// subtree, or nil.
func (d *Device) FindService(id ServiceID) *Service {
	for _, s := range d.AllServices() {
		if s.ID == id {
			return s
		}
	}
	return nil
}
