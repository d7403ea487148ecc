package datatypes

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Builtin identifies a UPnP builtin datatype by its descriptor name.
type Builtin string

// UPnP builtin datatypes per the Device Architecture service template.
const (
	UI1         Builtin = "ui1"
	UI2         Builtin = "ui2"
	UI4         Builtin = "ui4"
	I1          Builtin = "i1"
	I2          Builtin = "i2"
	I4          Builtin = "i4"
	Int         Builtin = "int"
	R4          Builtin = "r4"
	R8          Builtin = "r8"
	Number      Builtin = "number"
	Fixed144    Builtin = "fixed.14.4"
	Float       Builtin = "float"
	Char        Builtin = "char"
	String      Builtin = "string"
	Boolean     Builtin = "boolean"
	Date        Builtin = "date"
	DateTime    Builtin = "dateTime"
	DateTimeTZ  Builtin = "dateTime.tz"
	TimeOfDay   Builtin = "time"
	TimeOfDayTZ Builtin = "time.tz"
	BinBase64   Builtin = "bin.base64"
	BinHex      Builtin = "bin.hex"
	URI         Builtin = "uri"
	UUID        Builtin = "uuid"
)

// ValueKind classifies the native Go representation a datatype produces
// from ValueOf and accepts in Format. The explicit kind table replaces
// reflective type inspection when matching values to datatypes.
type ValueKind int

// Native value kinds. Integer builtins share KindInt (int64) with
// per-builtin range bounds; float builtins share KindFloat (float64).
const (
	KindString ValueKind = iota // string
	KindInt                     // int64
	KindFloat                   // float64
	KindBool                    // bool
	KindChar                    // rune
	KindTime                    // time.Time
	KindBytes                   // []byte
	KindURI                     // *url.URL
	KindUUID                    // uuid.UUID
)

// String returns the kind name for logging and error messages.
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindTime:
		return "time"
	case KindBytes:
		return "bytes"
	case KindURI:
		return "uri"
	case KindUUID:
		return "uuid"
	default:
		return "unknown"
	}
}

// Datatype coerces between UPnP wire strings and typed Go values.
//
// Datatypes are immutable values; the builtin instances are constructed
// once at package load and shared by every state variable referencing
// them. The zero Datatype is not usable — obtain instances via Get,
// ByDescriptorName or Custom.
type Datatype struct {
	name    string
	builtin Builtin
	kind    ValueKind
	decode  func(string) (any, error)
	encode  func(any) (string, error)
}

// Builtin returns the builtin tag, or "" for custom datatypes.
func (d Datatype) Builtin() Builtin { return d.builtin }

// Kind returns the native value kind this datatype produces.
func (d Datatype) Kind() ValueKind { return d.kind }

// Name returns the descriptor name: the builtin name, or the vendor
// name for custom datatypes.
func (d Datatype) Name() string { return d.name }

// IsCustom reports whether this is a vendor datatype with string semantics.
func (d Datatype) IsCustom() bool { return d.builtin == "" }

// Handles reports whether this datatype produces and accepts values of
// the given native kind.
func (d Datatype) Handles(k ValueKind) bool { return d.kind == k }

// String returns the descriptor name.
func (d Datatype) String() string { return d.name }

// ValueOf decodes a wire string into the datatype's native value.
//
// The empty string is the universal "no value" sentinel: it decodes to
// (nil, nil) for every datatype, never an error. Any other string that
// fails format or range checks returns a *InvalidValueError carrying the
// offending text and the underlying cause.
func (d Datatype) ValueOf(s string) (any, error) {
	if s == "" {
		return nil, nil
	}
	v, err := d.decode(s)
	if err != nil {
		return nil, &InvalidValueError{Value: s, Err: err}
	}
	return v, nil
}

// Format encodes a native value to its wire string. nil (the absent
// value) formats to "", keeping ValueOf and Format exact inverses.
// Values of the wrong native type or outside the builtin's range return
// an error wrapping ErrUnsupportedValue.
func (d Datatype) Format(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	return d.encode(v)
}

// IsValid reports whether v is an acceptable value for this datatype:
// nil (absent), or a value of the right native kind within range.
func (d Datatype) IsValid(v any) bool {
	if v == nil {
		return true
	}
	_, err := d.encode(v)
	return err == nil
}

// Get returns the datatype for a builtin tag. Unknown tags fall back to
// a custom datatype with string semantics.
func Get(b Builtin) Datatype {
	if d, ok := builtinTable[b]; ok {
		return d
	}
	return Custom(string(b))
}

// ByDescriptorName resolves a dataType element value from an SCPD
// document. Matching is case-insensitive; devices are sloppy about
// casing ("dateTime" vs "datetime"). Returns false for names outside
// the builtin set — callers decide between rejection (strict binding)
// and Custom fallback.
func ByDescriptorName(name string) (Datatype, bool) {
	d, ok := byLowerName[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// Custom returns a datatype for a vendor-specific dataType name.
// Custom datatypes pass values through with plain string semantics.
func Custom(name string) Datatype {
	return Datatype{
		name:   name,
		kind:   KindString,
		decode: decodeString,
		encode: encodeString,
	}
}

// ISO 8601-style layouts per the UPnP textual encodings.
const (
	layoutDate       = "2006-01-02"
	layoutDateTime   = "2006-01-02T15:04:05"
	layoutDateTimeTZ = "2006-01-02T15:04:05-07:00"
	layoutTime       = "15:04:05"
	layoutTimeTZ     = "15:04:05-07:00"
)

var builtinTable = buildBuiltins()

var byLowerName = func() map[string]Datatype {
	m := make(map[string]Datatype, len(builtinTable))
	for b, d := range builtinTable {
		m[strings.ToLower(string(b))] = d
	}
	return m
}()

func buildBuiltins() map[Builtin]Datatype {
	t := make(map[Builtin]Datatype)
	add := func(b Builtin, k ValueKind, dec func(string) (any, error), enc func(any) (string, error)) {
		t[b] = Datatype{name: string(b), builtin: b, kind: k, decode: dec, encode: enc}
	}

	add(UI1, KindInt, decodeInt(0, math.MaxUint8), encodeInt(0, math.MaxUint8))
	add(UI2, KindInt, decodeInt(0, math.MaxUint16), encodeInt(0, math.MaxUint16))
	add(UI4, KindInt, decodeInt(0, math.MaxUint32), encodeInt(0, math.MaxUint32))
	add(I1, KindInt, decodeInt(math.MinInt8, math.MaxInt8), encodeInt(math.MinInt8, math.MaxInt8))
	add(I2, KindInt, decodeInt(math.MinInt16, math.MaxInt16), encodeInt(math.MinInt16, math.MaxInt16))
	add(I4, KindInt, decodeInt(math.MinInt32, math.MaxInt32), encodeInt(math.MinInt32, math.MaxInt32))
	add(Int, KindInt, decodeInt(math.MinInt64, math.MaxInt64), encodeInt(math.MinInt64, math.MaxInt64))

	add(R4, KindFloat, decodeFloat(32), encodeFloat(32))
	add(R8, KindFloat, decodeFloat(64), encodeFloat(64))
	add(Number, KindFloat, decodeFloat(64), encodeFloat(64))
	add(Fixed144, KindFloat, decodeFloat(64), encodeFloat(64))
	add(Float, KindFloat, decodeFloat(64), encodeFloat(64))

	add(Char, KindChar, decodeChar, encodeChar)
	add(String, KindString, decodeString, encodeString)
	add(Boolean, KindBool, decodeBool, encodeBool)

	add(Date, KindTime, decodeTime(layoutDate), encodeTime(layoutDate))
	add(DateTime, KindTime, decodeTime(layoutDateTime, layoutDate), encodeTime(layoutDateTime))
	add(DateTimeTZ, KindTime, decodeTime(layoutDateTimeTZ, layoutDateTime, layoutDate), encodeTime(layoutDateTimeTZ))
	add(TimeOfDay, KindTime, decodeTime(layoutTime), encodeTime(layoutTime))
	add(TimeOfDayTZ, KindTime, decodeTime(layoutTimeTZ, layoutTime), encodeTime(layoutTimeTZ))

	add(BinBase64, KindBytes, decodeBase64, encodeBase64)
	add(BinHex, KindBytes, decodeHex, encodeHex)
	add(URI, KindURI, decodeURI, encodeURI)
	add(UUID, KindUUID, decodeUUID, encodeUUID)

	return t
}

// decodeInt returns a decoder for an integer builtin with inclusive bounds.
// Range checks happen at decode time, not deferred to consumers.
func decodeInt(minVal, maxVal int64) func(string) (any, error) {
	return func(s string) (any, error) {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("not a decimal integer: %w", err)
		}
		if v < minVal || v > maxVal {
			return nil, fmt.Errorf("out of range [%d, %d]: %d", minVal, maxVal, v)
		}
		return v, nil
	}
}

func encodeInt(minVal, maxVal int64) func(any) (string, error) {
	return func(v any) (string, error) {
		var n int64
		switch x := v.(type) {
		case int64:
			n = x
		case int:
			n = int64(x)
		default:
			return "", fmt.Errorf("%w: integer datatype cannot format %T", ErrUnsupportedValue, v)
		}
		if n < minVal || n > maxVal {
			return "", fmt.Errorf("%w: %d out of range [%d, %d]", ErrUnsupportedValue, n, minVal, maxVal)
		}
		return strconv.FormatInt(n, 10), nil
	}
}

func decodeFloat(bits int) func(string) (any, error) {
	return func(s string) (any, error) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("not a decimal number: %w", err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("non-finite value %q", s)
		}
		if bits == 32 && math.Abs(v) > math.MaxFloat32 {
			return nil, fmt.Errorf("out of single-precision range: %g", v)
		}
		return v, nil
	}
}

func encodeFloat(bits int) func(any) (string, error) {
	return func(v any) (string, error) {
		f, ok := v.(float64)
		if !ok {
			return "", fmt.Errorf("%w: float datatype cannot format %T", ErrUnsupportedValue, v)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("%w: non-finite value", ErrUnsupportedValue)
		}
		if bits == 32 && math.Abs(f) > math.MaxFloat32 {
			return "", fmt.Errorf("%w: %g out of single-precision range", ErrUnsupportedValue, f)
		}
		// 'g' with -1 precision is locale-independent and exactly
		// invertible by ParseFloat.
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	}
}

func decodeChar(s string) (any, error) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return nil, fmt.Errorf("expected exactly one character, got %q", s)
	}
	return r, nil
}

func encodeChar(v any) (string, error) {
	r, ok := v.(rune)
	if !ok {
		return "", fmt.Errorf("%w: char datatype cannot format %T", ErrUnsupportedValue, v)
	}
	return string(r), nil
}

func decodeString(s string) (any, error) { return s, nil }

func encodeString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: string datatype cannot format %T", ErrUnsupportedValue, v)
	}
	return s, nil
}

// decodeBool accepts the boolean spellings seen in the wild; the
// canonical wire form on output is "1"/"0".
func decodeBool(s string) (any, error) {
	switch strings.ToLower(s) {
	case "1", "true", "yes":
		return true, nil
	case "0", "false", "no":
		return false, nil
	default:
		return nil, fmt.Errorf("not a boolean: %q", s)
	}
}

func encodeBool(v any) (string, error) {
	b, ok := v.(bool)
	if !ok {
		return "", fmt.Errorf("%w: boolean datatype cannot format %T", ErrUnsupportedValue, v)
	}
	if b {
		return "1", nil
	}
	return "0", nil
}

// decodeTime tries each layout in order; devices frequently omit the
// time-of-day or zone portion of dateTime variants.
func decodeTime(layouts ...string) func(string) (any, error) {
	return func(s string) (any, error) {
		var lastErr error
		for _, layout := range layouts {
			t, err := time.Parse(layout, s)
			if err == nil {
				return t, nil
			}
			lastErr = err
		}
		return nil, fmt.Errorf("not a valid date/time: %w", lastErr)
	}
}

func encodeTime(layout string) func(any) (string, error) {
	return func(v any) (string, error) {
		t, ok := v.(time.Time)
		if !ok {
			return "", fmt.Errorf("%w: date/time datatype cannot format %T", ErrUnsupportedValue, v)
		}
		return t.Format(layout), nil
	}
}

func decodeBase64(s string) (any, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("not valid base64: %w", err)
	}
	return b, nil
}

func encodeBase64(v any) (string, error) {
	b, ok := v.([]byte)
	if !ok {
		return "", fmt.Errorf("%w: bin.base64 datatype cannot format %T", ErrUnsupportedValue, v)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func decodeHex(s string) (any, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("not valid hex: %w", err)
	}
	return b, nil
}

func encodeHex(v any) (string, error) {
	b, ok := v.([]byte)
	if !ok {
		return "", fmt.Errorf("%w: bin.hex datatype cannot format %T", ErrUnsupportedValue, v)
	}
	return hex.EncodeToString(b), nil
}

func decodeURI(s string) (any, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("not a valid URI: %w", err)
	}
	return u, nil
}

func encodeURI(v any) (string, error) {
	u, ok := v.(*url.URL)
	if !ok {
		return "", fmt.Errorf("%w: uri datatype cannot format %T", ErrUnsupportedValue, v)
	}
	return u.String(), nil
}

func decodeUUID(s string) (any, error) {
	u, err := uuid.Parse(strings.TrimPrefix(s, "uuid:"))
	if err != nil {
		return nil, fmt.Errorf("not a valid uuid: %w", err)
	}
	return u, nil
}

func encodeUUID(v any) (string, error) {
	u, ok := v.(uuid.UUID)
	if !ok {
		return "", fmt.Errorf("%w: uuid datatype cannot format %T", ErrUnsupportedValue, v)
	}
	return u.String(), nil
}
