package descriptor

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/nerrad567/gray-logic-upnp/internal/meta"
)

// deviceNamespace is the required namespace of UDA 1.0 device
// descriptors.
const deviceNamespace = "urn:schemas-upnp-org:device-1-0"

// parseState tracks where the binder is in a descriptor document.
type parseState int

const (
	stateStart parseState = iota
	stateReadingDevice
	stateReadingService
	stateReadingEmbedded
	stateDone
)

// Binder parses descriptor documents into meta device trees. Binders
// hold no per-document state; one instance may be used from any number
// of goroutines.
type Binder struct {
	recovering bool
}

// NewStrict returns a binder that fails on every structural violation.
func NewStrict() *Binder { return &Binder{} }

// NewRecovering returns a binder that corrects the fixed allow-list of
// known real-world malformations and fails on everything else.
func NewRecovering() *Binder { return &Binder{recovering: true} }

// DescribeDevice binds a device descriptor document. The identity
// argument supplies the discovery bookkeeping (lease, descriptor URL);
// the UDN comes from the document itself. The returned tree satisfies
// meta.ValidateDevice; on any failure no tree is returned.
func (b *Binder) DescribeDevice(identity meta.Identity, text string) (*meta.Device, error) {
	if b.recovering {
		text = stripGarbage(text)
	}

	p := &parser{binder: b, dec: xml.NewDecoder(strings.NewReader(text))}
	root, misnested, err := p.parseRoot()
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, bindErr("root", "no device element in document")
	}

	// Allow-list: vendor serviceList misnested directly under <root>
	// belongs to the root device.
	for _, s := range misnested {
		root.AddService(s)
	}

	root.Identity.MaxAgeSeconds = identity.MaxAgeSeconds
	root.Identity.DescriptorURL = identity.DescriptorURL

	if err := meta.ValidateDevice(root); err != nil {
		return nil, &BindingError{Path: "root/device", Err: err}
	}
	return root, nil
}

// parser is the per-document state of one DescribeDevice call.
type parser struct {
	binder *Binder
	dec    *xml.Decoder
	state  parseState
}

// parseRoot consumes the whole document. It returns the root device
// and any services found misnested directly under <root>.
func (p *parser) parseRoot() (*meta.Device, []*meta.Service, error) {
	p.state = stateStart
	var root *meta.Device
	var misnested []*meta.Service

	for {
		tok, err := p.dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, bindErr("root", "malformed XML: %v", err)
		}

		switch t := tok.(type) {
		case xml.CharData:
			if (p.state == stateStart || p.state == stateDone) && len(bytes.TrimSpace(t)) > 0 {
				// Recovering mode stripped surrounding garbage before
				// the parse; anything left is a strict violation.
				return nil, nil, bindErr("root", "garbage around document: %q", string(bytes.TrimSpace(t)))
			}

		case xml.StartElement:
			switch p.state {
			case stateStart:
				if t.Name.Local != "root" {
					return nil, nil, bindErr("root", "document root is %q, want root", t.Name.Local)
				}
				if t.Name.Space != deviceNamespace && !p.binder.recovering {
					return nil, nil, bindErr("root", "wrong or missing namespace %q, want %q", t.Name.Space, deviceNamespace)
				}
				p.state = stateReadingDevice

			case stateReadingDevice:
				switch t.Name.Local {
				case "device":
					if root != nil {
						return nil, nil, bindErr("root/device", "more than one root device")
					}
					d, err := p.parseDevice(t, "root/device")
					if err != nil {
						return nil, nil, err
					}
					root = d
				case "serviceList":
					if !p.binder.recovering {
						return nil, nil, bindErr("root/serviceList", "serviceList outside device element")
					}
					svcs, err := p.parseServiceList(t, "root/serviceList")
					if err != nil {
						return nil, nil, err
					}
					misnested = append(misnested, svcs...)
				case "specVersion", "URLBase":
					if err := p.dec.Skip(); err != nil {
						return nil, nil, bindErr("root/"+t.Name.Local, "malformed XML: %v", err)
					}
				default:
					if err := p.dec.Skip(); err != nil {
						return nil, nil, bindErr("root/"+t.Name.Local, "malformed XML: %v", err)
					}
				}

			case stateDone:
				return nil, nil, bindErr("root", "content after document end")
			}

		case xml.EndElement:
			if t.Name.Local == "root" {
				p.state = stateDone
			}
		}
	}

	if p.state != stateDone {
		return nil, nil, bindErr("root", "truncated document")
	}
	return root, misnested, nil
}

// parseDevice consumes one <device> element, recursing into embedded
// device lists.
func (p *parser) parseDevice(start xml.StartElement, path string) (*meta.Device, error) {
	d := &meta.Device{}

	for {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, bindErr(path, "malformed XML: %v", err)
		}

		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local != start.Name.Local {
				continue
			}
			if d.Type.IsZero() {
				return nil, bindErr(path, "missing required element deviceType")
			}
			if d.Identity.UDN == "" {
				return nil, bindErr(path, "missing required element UDN")
			}
			return d, nil

		case xml.StartElement:
			switch t.Name.Local {
			case "deviceType":
				text, err := p.text(t, path)
				if err != nil {
					return nil, err
				}
				dt, err := meta.ParseDeviceType(text)
				if err != nil {
					return nil, bindErr(path+"/deviceType", "%v", err)
				}
				d.Type = dt

			case "UDN":
				text, err := p.text(t, path)
				if err != nil {
					return nil, err
				}
				udn, err := p.parseUDN(text)
				if err != nil {
					return nil, bindErr(path+"/UDN", "%v", err)
				}
				d.Identity.UDN = udn

			case "friendlyName":
				if err := p.readInto(t, path, &d.Details.FriendlyName); err != nil {
					return nil, err
				}
			case "manufacturer":
				if err := p.readInto(t, path, &d.Details.Manufacturer); err != nil {
					return nil, err
				}
			case "manufacturerURL":
				if err := p.readInto(t, path, &d.Details.ManufacturerURL); err != nil {
					return nil, err
				}
			case "modelName":
				if err := p.readInto(t, path, &d.Details.ModelName); err != nil {
					return nil, err
				}
			case "modelDescription":
				if err := p.readInto(t, path, &d.Details.ModelDescription); err != nil {
					return nil, err
				}
			case "modelNumber":
				if err := p.readInto(t, path, &d.Details.ModelNumber); err != nil {
					return nil, err
				}
			case "modelURL":
				if err := p.readInto(t, path, &d.Details.ModelURL); err != nil {
					return nil, err
				}
			case "serialNumber":
				if err := p.readInto(t, path, &d.Details.SerialNumber); err != nil {
					return nil, err
				}
			case "UPC":
				if err := p.readInto(t, path, &d.Details.UPC); err != nil {
					return nil, err
				}
			case "presentationURL":
				if err := p.readInto(t, path, &d.Details.PresentationURL); err != nil {
					return nil, err
				}

			case "iconList":
				icons, err := p.parseIconList(t, path+"/iconList")
				if err != nil {
					return nil, err
				}
				d.Icons = icons

			case "serviceList":
				svcs, err := p.parseServiceList(t, path+"/serviceList")
				if err != nil {
					return nil, err
				}
				for _, s := range svcs {
					d.AddService(s)
				}

			case "deviceList":
				prev := p.state
				p.state = stateReadingEmbedded
				if err := p.parseDeviceList(t, path+"/deviceList", d); err != nil {
					return nil, err
				}
				p.state = prev

			default:
				// Vendor extension elements are not violations.
				if err := p.dec.Skip(); err != nil {
					return nil, bindErr(path+"/"+t.Name.Local, "malformed XML: %v", err)
				}
			}
		}
	}
}

// parseDeviceList consumes a <deviceList>, attaching each embedded
// device to the parent.
func (p *parser) parseDeviceList(start xml.StartElement, path string, parent *meta.Device) error {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return bindErr(path, "malformed XML: %v", err)
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return nil
			}
		case xml.StartElement:
			if t.Name.Local != "device" {
				if err := p.dec.Skip(); err != nil {
					return bindErr(path, "malformed XML: %v", err)
				}
				continue
			}
			child, err := p.parseDevice(t, path+"/device")
			if err != nil {
				return err
			}
			parent.AddEmbedded(child)
		}
	}
}

// parseServiceList consumes a <serviceList> element.
func (p *parser) parseServiceList(start xml.StartElement, path string) ([]*meta.Service, error) {
	prev := p.state
	p.state = stateReadingService
	defer func() { p.state = prev }()

	var out []*meta.Service
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, bindErr(path, "malformed XML: %v", err)
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return out, nil
			}
		case xml.StartElement:
			if t.Name.Local != "service" {
				if err := p.dec.Skip(); err != nil {
					return nil, bindErr(path, "malformed XML: %v", err)
				}
				continue
			}
			svc, err := p.parseService(t, path+"/service")
			if err != nil {
				return nil, err
			}
			out = append(out, svc)
		}
	}
}

// parseService consumes one <service> element.
func (p *parser) parseService(start xml.StartElement, path string) (*meta.Service, error) {
	svc := &meta.Service{}

	for {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, bindErr(path, "malformed XML: %v", err)
		}

		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local != start.Name.Local {
				continue
			}
			if svc.Type.IsZero() {
				return nil, bindErr(path, "missing required element serviceType")
			}
			if svc.ID.IsZero() {
				// Allow-list: a missing serviceId is inferable from the
				// service type.
				if !p.binder.recovering {
					return nil, bindErr(path, "missing required element serviceId")
				}
				svc.ID = inferServiceID(svc.Type)
			}
			return svc, nil

		case xml.StartElement:
			switch t.Name.Local {
			case "serviceType":
				text, err := p.text(t, path)
				if err != nil {
					return nil, err
				}
				st, err := meta.ParseServiceType(text)
				if err != nil {
					return nil, bindErr(path+"/serviceType", "%v", err)
				}
				svc.Type = st
			case "serviceId":
				text, err := p.text(t, path)
				if err != nil {
					return nil, err
				}
				id, err := meta.ParseServiceID(text)
				if err != nil {
					return nil, bindErr(path+"/serviceId", "%v", err)
				}
				svc.ID = id
			case "SCPDURL":
				if err := p.readInto(t, path, &svc.SCPDURL); err != nil {
					return nil, err
				}
			case "controlURL":
				if err := p.readInto(t, path, &svc.ControlURL); err != nil {
					return nil, err
				}
			case "eventSubURL":
				if err := p.readInto(t, path, &svc.EventSubscriptionURL); err != nil {
					return nil, err
				}
			default:
				if err := p.dec.Skip(); err != nil {
					return nil, bindErr(path+"/"+t.Name.Local, "malformed XML: %v", err)
				}
			}
		}
	}
}

// parseIconList consumes an <iconList> element. Icon fields are
// cosmetic; malformed dimensions are dropped rather than fatal.
func (p *parser) parseIconList(start xml.StartElement, path string) ([]meta.Icon, error) {
	var icons []meta.Icon
	var current *meta.Icon

	for {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, bindErr(path, "malformed XML: %v", err)
		}
		switch t := tok.(type) {
		case xml.EndElement:
			switch t.Name.Local {
			case start.Name.Local:
				return icons, nil
			case "icon":
				if current != nil {
					icons = append(icons, *current)
					current = nil
				}
			}
		case xml.StartElement:
			switch t.Name.Local {
			case "icon":
				current = &meta.Icon{}
			case "mimetype", "width", "height", "depth", "url":
				text, err := p.text(t, path)
				if err != nil {
					return nil, err
				}
				if current == nil {
					continue
				}
				switch t.Name.Local {
				case "mimetype":
					current.Mimetype = text
				case "url":
					current.URI = text
				case "width":
					current.Width, _ = strconv.Atoi(text)
				case "height":
					current.Height, _ = strconv.Atoi(text)
				case "depth":
					current.Depth, _ = strconv.Atoi(text)
				}
			default:
				if err := p.dec.Skip(); err != nil {
					return nil, bindErr(path, "malformed XML: %v", err)
				}
			}
		}
	}
}

// parseUDN applies the uuid:-prefix recovery when permitted.
func (p *parser) parseUDN(text string) (meta.UDN, error) {
	udn, err := meta.ParseUDN(text)
	if err == nil {
		return udn, nil
	}
	if p.binder.recovering && text != "" && !strings.HasPrefix(text, "uuid:") {
		return meta.ParseUDN("uuid:" + text)
	}
	return "", err
}

// text decodes one element's character data, trimmed.
func (p *parser) text(se xml.StartElement, path string) (string, error) {
	var s string
	if err := p.dec.DecodeElement(&s, &se); err != nil {
		return "", bindErr(path+"/"+se.Name.Local, "malformed XML: %v", err)
	}
	return strings.TrimSpace(s), nil
}

// readInto decodes an element's text into a detail field.
func (p *parser) readInto(se xml.StartElement, path string, dst *string) error {
	s, err := p.text(se, path)
	if err != nil {
		return err
	}
	*dst = s
	return nil
}

// inferServiceID derives a service ID from the service type, the way
// well-behaved descriptors pair them.
func inferServiceID(t meta.ServiceType) meta.ServiceID {
	ns := t.Namespace
	if ns == "schemas-upnp-org" {
		ns = "upnp-org"
	}
	return meta.ServiceID{Namespace: ns, ID: t.Type}
}

// stripGarbage trims anything outside the outermost angle brackets.
// Real devices prepend BOMs, HTTP artifacts and stray bytes.
func stripGarbage(text string) string {
	start := strings.Index(text, "<")
	end := strings.LastIndex(text, ">")
	if start < 0 || end < start {
		return text
	}
	return text[start : end+1]
}
