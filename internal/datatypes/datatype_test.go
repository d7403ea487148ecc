package datatypes

import (
	"errors"
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

// ─── Round-trip ────────────────────────────────────────────────────

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		builtin Builtin
		value   any
	}{
		{"ui1 max", UI1, int64(255)},
		{"ui2 mid", UI2, int64(40000)},
		{"ui4 max", UI4, int64(4294967295)},
		{"i1 min", I1, int64(-128)},
		{"i2 negative", I2, int64(-32768)},
		{"i4 max", I4, int64(2147483647)},
		{"int large", Int, int64(9007199254740993)},
		{"r4 fraction", R4, 1.5},
		{"r8 precise", R8, 3.141592653589793},
		{"number negative", Number, -0.25},
		{"fixed.14.4", Fixed144, 12.3456},
		{"float", Float, 2.5e10},
		{"char ascii", Char, 'x'},
		{"char multibyte", Char, 'ü'},
		{"string", String, "WiFi Router"},
		{"boolean true", Boolean, true},
		{"boolean false", Boolean, false},
		{"date", Date, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)},
		{"dateTime", DateTime, time.Date(2024, 3, 9, 14, 30, 5, 0, time.UTC)},
		{"time", TimeOfDay, time.Date(0, 1, 1, 8, 15, 0, 0, time.UTC)},
		{"bin.base64", BinBase64, []byte{0xDE, 0xAD, 0xBE, 0xEF}},
		{"bin.hex", BinHex, []byte{0x01, 0x02, 0xFF}},
		{"uuid", UUID, uuid.MustParse("2fac1234-31f8-11b4-a222-08002b34c003")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Get(tt.builtin)
			s, err := d.Format(tt.value)
			if err != nil {
				t.Fatalf("Format(%v) error = %v", tt.value, err)
			}
			got, err := d.ValueOf(s)
			if err != nil {
				t.Fatalf("ValueOf(%q) error = %v", s, err)
			}
			if !reflect.DeepEqual(got, tt.value) {
				t.Errorf("ValueOf(Format(%v)) = %v, want original", tt.value, got)
			}
		})
	}
}

func TestRoundTripURI(t *testing.T) {
	d := Get(URI)
	const raw = "http://192.168.1.33:8080/desc/device.xml"

	v, err := d.ValueOf(raw)
	if err != nil {
		t.Fatalf("ValueOf(%q) error = %v", raw, err)
	}
	u, ok := v.(*url.URL)
	if !ok {
		t.Fatalf("ValueOf(%q) = %T, want *url.URL", raw, v)
	}
	s, err := d.Format(u)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if s != raw {
		t.Errorf("Format(ValueOf(%q)) = %q", raw, s)
	}
}

// ─── Empty-is-absent ───────────────────────────────────────────────

func TestEmptyStringIsAbsent(t *testing.T) {
	for builtin := range builtinTable {
		t.Run(string(builtin), func(t *testing.T) {
			d := Get(builtin)
			v, err := d.ValueOf("")
			if err != nil {
				t.Errorf("ValueOf(\"\") error = %v, want nil", err)
			}
			if v != nil {
				t.Errorf("ValueOf(\"\") = %v, want nil (absent)", v)
			}

			s, err := d.Format(nil)
			if err != nil {
				t.Errorf("Format(nil) error = %v, want nil", err)
			}
			if s != "" {
				t.Errorf("Format(nil) = %q, want \"\"", s)
			}
		})
	}
}

// ─── Range and format rejection ────────────────────────────────────

func TestValueOfRejects(t *testing.T) {
	tests := []struct {
		name    string
		builtin Builtin
		input   string
	}{
		{"i2 over range", I2, "40000"},
		{"i2 under range", I2, "-40000"},
		{"ui1 negative", UI1, "-1"},
		{"ui1 over range", UI1, "256"},
		{"ui4 over range", UI4, "4294967296"},
		{"int not numeric", Int, "abc"},
		{"float not numeric", R8, "1.2.3"},
		{"r4 out of single precision", R4, "1e40"},
		{"boolean garbage", Boolean, "maybe"},
		{"char two runes", Char, "ab"},
		{"date malformed", Date, "03/09/2024"},
		{"base64 malformed", BinBase64, "@@@@"},
		{"hex odd length", BinHex, "ABC"},
		{"uuid malformed", UUID, "not-a-uuid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Get(tt.builtin)
			_, err := d.ValueOf(tt.input)
			if err == nil {
				t.Fatalf("ValueOf(%q) succeeded, want error", tt.input)
			}
			if !errors.Is(err, ErrInvalidValue) {
				t.Errorf("error %v does not match ErrInvalidValue", err)
			}
			var ive *InvalidValueError
			if !errors.As(err, &ive) {
				t.Fatalf("error %v is not *InvalidValueError", err)
			}
			if ive.Value != tt.input {
				t.Errorf("InvalidValueError.Value = %q, want %q", ive.Value, tt.input)
			}
			if ive.Err == nil {
				t.Error("InvalidValueError.Err is nil, want underlying cause")
			}
		})
	}
}

func TestFormatRejectsWrongType(t *testing.T) {
	tests := []struct {
		name    string
		builtin Builtin
		value   any
	}{
		{"string value to int", I2, "12"},
		{"int value to string", String, int64(12)},
		{"float value to int", UI2, 1.5},
		{"out of range int", I2, int64(40000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Get(tt.builtin)
			if _, err := d.Format(tt.value); !errors.Is(err, ErrUnsupportedValue) {
				t.Errorf("Format(%v) error = %v, want ErrUnsupportedValue", tt.value, err)
			}
			if d.IsValid(tt.value) {
				t.Errorf("IsValid(%v) = true, want false", tt.value)
			}
		})
	}
}

// ─── Boolean spellings ─────────────────────────────────────────────

func TestBooleanSpellings(t *testing.T) {
	d := Get(Boolean)
	truthy := []string{"1", "true", "TRUE", "yes", "Yes"}
	falsy := []string{"0", "false", "False", "no", "NO"}

	for _, s := range truthy {
		v, err := d.ValueOf(s)
		if err != nil || v != true {
			t.Errorf("ValueOf(%q) = %v, %v; want true", s, v, err)
		}
	}
	for _, s := range falsy {
		v, err := d.ValueOf(s)
		if err != nil || v != false {
			t.Errorf("ValueOf(%q) = %v, %v; want false", s, v, err)
		}
	}

	// Canonical wire form is 1/0, not true/false.
	if s, _ := d.Format(true); s != "1" {
		t.Errorf("Format(true) = %q, want \"1\"", s)
	}
	if s, _ := d.Format(false); s != "0" {
		t.Errorf("Format(false) = %q, want \"0\"", s)
	}
}

// ─── Lookup ────────────────────────────────────────────────────────

func TestByDescriptorName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Builtin
		found bool
	}{
		{"exact", "ui2", UI2, true},
		{"mixed case", "dateTime", DateTime, true},
		{"wrong case accepted", "DATETIME", DateTime, true},
		{"whitespace trimmed", " string ", String, true},
		{"vendor name", "X_MyVendorType", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := ByDescriptorName(tt.input)
			if ok != tt.found {
				t.Fatalf("ByDescriptorName(%q) found = %v, want %v", tt.input, ok, tt.found)
			}
			if ok && d.Builtin() != tt.want {
				t.Errorf("ByDescriptorName(%q) = %v, want %v", tt.input, d.Builtin(), tt.want)
			}
		})
	}
}

func TestCustomDatatype(t *testing.T) {
	d := Custom("X_MyVendorType")

	if !d.IsCustom() {
		t.Error("IsCustom() = false")
	}
	if d.Name() != "X_MyVendorType" {
		t.Errorf("Name() = %q", d.Name())
	}
	if !d.Handles(KindString) {
		t.Error("custom datatype should handle string values")
	}

	v, err := d.ValueOf("opaque-vendor-payload")
	if err != nil {
		t.Fatalf("ValueOf() error = %v", err)
	}
	if v != "opaque-vendor-payload" {
		t.Errorf("ValueOf() = %v, want passthrough", v)
	}
}

func TestHandles(t *testing.T) {
	if !Get(I2).Handles(KindInt) {
		t.Error("i2 should handle int values")
	}
	if Get(I2).Handles(KindString) {
		t.Error("i2 should not handle string values")
	}
	if !Get(Boolean).Handles(KindBool) {
		t.Error("boolean should handle bool values")
	}
	if !Get(URI).Handles(KindURI) {
		t.Error("uri should handle URL values")
	}
}

// ─── uuid specifics ────────────────────────────────────────────────

func TestUUIDAcceptsPrefix(t *testing.T) {
	d := Get(UUID)
	want := uuid.MustParse("2fac1234-31f8-11b4-a222-08002b34c003")

	v, err := d.ValueOf("uuid:2fac1234-31f8-11b4-a222-08002b34c003")
	if err != nil {
		t.Fatalf("ValueOf() error = %v", err)
	}
	if v != want {
		t.Errorf("ValueOf() = %v, want %v", v, want)
	}
}
