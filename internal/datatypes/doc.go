// Package datatypes implements the UPnP builtin datatype system: the
// coercion layer between SCPD wire strings and typed Go values.
//
// Every builtin datatype (ui1..ui4, i1..i4, int, the float family, char,
// string, boolean, the date/time family, bin.base64, bin.hex, uri, uuid)
// is a stateless immutable value obtained from Get or ByDescriptorName and
// shared by every state variable that references it.
//
// Coercion contract:
//
//	ValueOf("")          -> (nil, nil)        // absent, never an error
//	ValueOf(bad string)  -> *InvalidValueError
//	Format(nil)          -> ""                // absent round-trips
//	ValueOf(Format(v))   == v                 // for every accepted v
//
// Range checks are part of ValueOf: a two-byte signed integer rejects
// "40000" at decode time, not later. Formatting is locale-independent.
//
// Descriptors occasionally carry vendor datatype names; Custom wraps such
// a name with plain string semantics so binding never stalls on them.
package datatypes
