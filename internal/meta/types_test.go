package meta

import (
	"errors"
	"strings"
	"testing"
)

func TestParseUDN(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"canonical", "uuid:2fac1234-31f8-11b4-a222-08002b34c003", false},
		{"vendor identifier", "uuid:MyRouter-001", false},
		{"surrounding whitespace", "  uuid:abc  ", false},
		{"missing prefix", "2fac1234-31f8-11b4-a222-08002b34c003", true},
		{"prefix only", "uuid:", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			udn, err := ParseUDN(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseUDN(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidUDN) {
					t.Errorf("error %v does not match ErrInvalidUDN", err)
				}
				return
			}
			if !strings.HasPrefix(udn.String(), "uuid:") {
				t.Errorf("ParseUDN(%q) = %q, missing prefix", tt.input, udn)
			}
		})
	}
}

func TestNewUDN(t *testing.T) {
	a, b := NewUDN(), NewUDN()
	if a == b {
		t.Errorf("NewUDN() minted duplicate %q", a)
	}
	if _, err := ParseUDN(string(a)); err != nil {
		t.Errorf("NewUDN() = %q, not parseable: %v", a, err)
	}
	if a.Identifier() == string(a) {
		t.Errorf("Identifier() did not strip prefix from %q", a)
	}
}

func TestParseDeviceType(t *testing.T) {
	dt, err := ParseDeviceType("urn:schemas-upnp-org:device:MediaRenderer:1")
	if err != nil {
		t.Fatalf("ParseDeviceType() error = %v", err)
	}
	if dt.Namespace != "schemas-upnp-org" || dt.Type != "MediaRenderer" || dt.Version != 1 {
		t.Errorf("ParseDeviceType() = %+v", dt)
	}
	if dt.String() != "urn:schemas-upnp-org:device:MediaRenderer:1" {
		t.Errorf("String() = %q, not round-tripped", dt.String())
	}

	bad := []string{
		"",
		"urn:schemas-upnp-org:service:MediaRenderer:1", // wrong kind token
		"urn:schemas-upnp-org:device:MediaRenderer",    // missing version
		"urn:schemas-upnp-org:device:MediaRenderer:x",  // non-numeric version
		"urn::device:MediaRenderer:1",                  // empty namespace
	}
	for _, s := range bad {
		if _, err := ParseDeviceType(s); !errors.Is(err, ErrInvalidDeviceType) {
			t.Errorf("ParseDeviceType(%q) error = %v, want ErrInvalidDeviceType", s, err)
		}
	}
}

func TestParseServiceType(t *testing.T) {
	st, err := ParseServiceType("urn:schemas-upnp-org:service:AVTransport:2")
	if err != nil {
		t.Fatalf("ParseServiceType() error = %v", err)
	}
	if st.Type != "AVTransport" || st.Version != 2 {
		t.Errorf("ParseServiceType() = %+v", st)
	}
	if _, err := ParseServiceType("urn:schemas-upnp-org:device:AVTransport:2"); !errors.Is(err, ErrInvalidServiceType) {
		t.Errorf("device URN accepted as service type")
	}
}

func TestParseServiceID(t *testing.T) {
	id, err := ParseServiceID("urn:upnp-org:serviceId:AVTransport")
	if err != nil {
		t.Fatalf("ParseServiceID() error = %v", err)
	}
	if id.Namespace != "upnp-org" || id.ID != "AVTransport" {
		t.Errorf("ParseServiceID() = %+v", id)
	}

	// IDs containing colons keep everything after the serviceId token.
	id, err = ParseServiceID("urn:upnp-org:serviceId:urn:av-openhome-org:serviceId:Product")
	if err != nil {
		t.Fatalf("ParseServiceID() error = %v", err)
	}
	if id.ID != "urn:av-openhome-org:serviceId:Product" {
		t.Errorf("ParseServiceID() ID = %q", id.ID)
	}

	if _, err := ParseServiceID("urn:upnp-org:service:AVTransport"); !errors.Is(err, ErrInvalidServiceID) {
		t.Errorf("serviceType URN accepted as service ID")
	}
}
