package meta

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// udnPrefix is the canonical UDN scheme prefix per the UPnP Device
// Architecture.
const udnPrefix = "uuid:"

// UDN is a Unique Device Name: the globally unique identifier of a
// UPnP device, canonically "uuid:" followed by the device's identifier.
type UDN string

// NewUDN mints a fresh UDN for a locally assembled device.
func NewUDN() UDN {
	return UDN(udnPrefix + uuid.New().String())
}

// ParseUDN validates a UDN string. The "uuid:" prefix is required; the
// identifier after it is accepted verbatim since real devices frequently
// use non-RFC-4122 identifiers there.
func ParseUDN(s string) (UDN, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, udnPrefix) {
		return "", fmt.Errorf("%w: missing %q prefix in %q", ErrInvalidUDN, udnPrefix, s)
	}
	if len(s) == len(udnPrefix) {
		return "", fmt.Errorf("%w: empty identifier in %q", ErrInvalidUDN, s)
	}
	return UDN(s), nil
}

// String returns the canonical "uuid:..." form.
func (u UDN) String() string { return string(u) }

// Identifier returns the UDN without its "uuid:" prefix.
func (u UDN) Identifier() string { return strings.TrimPrefix(string(u), udnPrefix) }

// DeviceType identifies a device kind:
// urn:{namespace}:device:{type}:{version}.
type DeviceType struct {
	Namespace string
	Type      string
	Version   int
}

// ParseDeviceType parses a device type URN.
func ParseDeviceType(s string) (DeviceType, error) {
	ns, typ, ver, err := parseURN(s, "device")
	if err != nil {
		return DeviceType{}, fmt.Errorf("%w: %w", ErrInvalidDeviceType, err)
	}
	return DeviceType{Namespace: ns, Type: typ, Version: ver}, nil
}

// String returns the URN form.
func (t DeviceType) String() string {
	return fmt.Sprintf("urn:%s:device:%s:%d", t.Namespace, t.Type, t.Version)
}

// IsZero reports whether the type is unset.
func (t DeviceType) IsZero() bool { return t.Type == "" }

// ServiceType identifies a service kind:
// urn:{namespace}:service:{type}:{version}.
type ServiceType struct {
	Namespace string
	Type      string
	Version   int
}

// ParseServiceType parses a service type URN.
func ParseServiceType(s string) (ServiceType, error) {
	ns, typ, ver, err := parseURN(s, "service")
	if err != nil {
		return ServiceType{}, fmt.Errorf("%w: %w", ErrInvalidServiceType, err)
	}
	return ServiceType{Namespace: ns, Type: typ, Version: ver}, nil
}

// String returns the URN form.
func (t ServiceType) String() string {
	return fmt.Sprintf("urn:%s:service:%s:%d", t.Namespace, t.Type, t.Version)
}

// IsZero reports whether the type is unset.
func (t ServiceType) IsZero() bool { return t.Type == "" }

// ServiceID identifies a service instance within a device:
// urn:{namespace}:serviceId:{id}.
type ServiceID struct {
	Namespace string
	ID        string
}

// ParseServiceID parses a service ID URN.
func ParseServiceID(s string) (ServiceID, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 4 || parts[0] != "urn" || parts[2] != "serviceId" {
		return ServiceID{}, fmt.Errorf("%w: %q", ErrInvalidServiceID, s)
	}
	// Some IDs legitimately contain colons; everything after the
	// serviceId token is the identifier.
	id := strings.Join(parts[3:], ":")
	if parts[1] == "" || id == "" {
		return ServiceID{}, fmt.Errorf("%w: %q", ErrInvalidServiceID, s)
	}
	return ServiceID{Namespace: parts[1], ID: id}, nil
}

// String returns the URN form.
func (s ServiceID) String() string {
	return fmt.Sprintf("urn:%s:serviceId:%s", s.Namespace, s.ID)
}

// IsZero reports whether the ID is unset.
func (s ServiceID) IsZero() bool { return s.ID == "" }

// parseURN splits urn:{ns}:{kind}:{type}:{version}.
func parseURN(s, kind string) (ns, typ string, ver int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 5 || parts[0] != "urn" || parts[2] != kind {
		return "", "", 0, fmt.Errorf("expected urn:{ns}:%s:{type}:{version}, got %q", kind, s)
	}
	if parts[1] == "" || parts[3] == "" {
		return "", "", 0, fmt.Errorf("empty namespace or type in %q", s)
	}
	ver, err = strconv.Atoi(parts[4])
	if err != nil {
		return "", "", 0, fmt.Errorf("bad version in %q: %w", s, err)
	}
	return parts[1], parts[3], ver, nil
}

// DeviceDetails carries the descriptive fields of a device descriptor.
type DeviceDetails struct {
	FriendlyName     string
	Manufacturer     string
	ManufacturerURL  string
	ModelName        string
	ModelDescription string
	ModelNumber      string
	ModelURL         string
	SerialNumber     string
	UPC              string
	PresentationURL  string
}

// Icon describes one entry of a device's icon list.
type Icon struct {
	Mimetype string
	Width    int
	Height   int
	Depth    int
	URI      string
}

// Identity pairs a device's UDN with its discovery bookkeeping: the
// max-age lease from the SSDP advertisement and the URL the descriptor
// was fetched from. Local devices carry a zero MaxAgeSeconds and a nil
// DescriptorURL.
type Identity struct {
	UDN           UDN
	MaxAgeSeconds int
	DescriptorURL *url.URL
}
