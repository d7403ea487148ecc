package lastchange

import (
	"fmt"

	"github.com/nerrad567/gray-logic-upnp/internal/datatypes"
)

// Kind names an evented state-variable semantic. The kind table below
// is closed: each kind binds its UPnP datatype once, at compile time.
type Kind string

// RenderingControl kinds.
const (
	Volume         Kind = "Volume"
	VolumeDB       Kind = "VolumeDB"
	Mute           Kind = "Mute"
	Loudness       Kind = "Loudness"
	Brightness     Kind = "Brightness"
	PresetNameList Kind = "PresetNameList"
)

// AVTransport kinds.
const (
	TransportState        Kind = "TransportState"
	TransportStatus       Kind = "TransportStatus"
	PlaybackStorageMedium Kind = "PlaybackStorageMedium"
	CurrentTrack          Kind = "CurrentTrack"
	NumberOfTracks        Kind = "NumberOfTracks"
	CurrentTrackDuration  Kind = "CurrentTrackDuration"
	AVTransportURI        Kind = "AVTransportURI"
)

// kindTable binds each kind to its builtin datatype.
var kindTable = map[Kind]datatypes.Builtin{
	Volume:                datatypes.UI2,
	VolumeDB:              datatypes.I2,
	Mute:                  datatypes.Boolean,
	Loudness:              datatypes.Boolean,
	Brightness:            datatypes.UI2,
	PresetNameList:        datatypes.String,
	TransportState:        datatypes.String,
	TransportStatus:       datatypes.String,
	PlaybackStorageMedium: datatypes.String,
	CurrentTrack:          datatypes.UI4,
	NumberOfTracks:        datatypes.UI4,
	CurrentTrackDuration:  datatypes.String,
	AVTransportURI:        datatypes.URI,
}

// channelScoped marks the RenderingControl kinds that carry a channel
// attribute (Master, LF, RF, ...).
var channelScoped = map[Kind]bool{
	Volume:   true,
	VolumeDB: true,
	Mute:     true,
	Loudness: true,
}

// Known reports whether the kind is in the closed table.
func (k Kind) Known() bool {
	_, ok := kindTable[k]
	return ok
}

// Datatype returns the kind's bound datatype. Panics are avoided:
// unknown kinds fall back to string semantics, but New and Parse reject
// them first.
func (k Kind) Datatype() datatypes.Datatype {
	b, ok := kindTable[k]
	if !ok {
		return datatypes.Custom(string(k))
	}
	return datatypes.Get(b)
}

// KindFor resolves a LastChange element name to its kind.
func KindFor(name string) (Kind, bool) {
	k := Kind(name)
	return k, k.Known()
}

// EventedValue pairs one evented kind with a decoded value and, for
// channel-scoped kinds, the channel it applies to. Immutable once
// constructed.
type EventedValue struct {
	kind    Kind
	value   any
	channel string
}

// New constructs an evented value from a native value, validating it
// against the kind's datatype. nil is the absent value.
func New(kind Kind, value any) (EventedValue, error) {
	if !kind.Known() {
		return EventedValue{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if !kind.Datatype().IsValid(value) {
		return EventedValue{}, fmt.Errorf("lastchange: %v is not a valid %s value for %s",
			value, kind.Datatype().Name(), kind)
	}
	return EventedValue{kind: kind, value: value}, nil
}

// Parse constructs an evented value from a LastChange element's
// attributes. The wire value is decoded from attrs["val"] via the
// kind's datatype; decode failures propagate unchanged so callers see
// the datatype layer's *InvalidValueError directly. Channel-scoped
// kinds take their channel from attrs["channel"].
func Parse(kind Kind, attrs map[string]string) (EventedValue, error) {
	if !kind.Known() {
		return EventedValue{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	raw, ok := attrs["val"]
	if !ok {
		return EventedValue{}, fmt.Errorf("%w: element %s", ErrMissingValue, kind)
	}

	value, err := kind.Datatype().ValueOf(raw)
	if err != nil {
		return EventedValue{}, err
	}

	ev := EventedValue{kind: kind, value: value}
	if channelScoped[kind] {
		ev.channel = attrs["channel"]
	}
	return ev, nil
}

// Kind returns the value's kind.
func (v EventedValue) Kind() Kind { return v.kind }

// Value returns the decoded native value; nil means absent.
func (v EventedValue) Value() any { return v.value }

// Channel returns the channel attribute for channel-scoped kinds,
// "" otherwise.
func (v EventedValue) Channel() string { return v.channel }

// String renders the value in its wire form.
func (v EventedValue) String() string {
	s, err := v.kind.Datatype().Format(v.value)
	if err != nil {
		return fmt.Sprintf("%v", v.value)
	}
	return s
}
