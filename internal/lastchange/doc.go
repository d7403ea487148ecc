// Package lastchange implements the evented value model: typed
// wrappers over state-variable values carried by UPnP LastChange event
// documents.
//
// Every evented value kind (Volume, Mute, TransportState, ...) fixes
// its UPnP datatype once, in a closed compile-time table; one generic
// EventedValue container holds any kind. Values are constructed either
// from a native value (New) or from a LastChange element's XML
// attributes (Parse) and are immutable afterwards.
//
// ParseEvent decodes a whole LastChange document into per-instance
// value lists; Apply pushes decoded values into a service's state
// variables.
package lastchange
