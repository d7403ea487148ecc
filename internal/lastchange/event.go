package lastchange

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nerrad567/gray-logic-upnp/internal/meta"
)

// InstanceValues holds the decoded values of one InstanceID block.
type InstanceValues struct {
	InstanceID int64
	Values     []EventedValue
}

// Event is one decoded LastChange document.
type Event struct {
	Instances []InstanceValues
}

// ParseEvent decodes a LastChange event document:
//
//	<Event xmlns="...">
//	  <InstanceID val="0">
//	    <Volume channel="Master" val="24"/>
//	    <TransportState val="PLAYING"/>
//	  </InstanceID>
//	</Event>
//
// Elements naming unknown kinds are skipped; a known kind whose value
// fails to decode aborts the parse with the datatype layer's error
// unchanged.
func ParseEvent(text string) (*Event, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	ev := &Event{}
	seenEvent := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch {
		case !seenEvent:
			if se.Name.Local != "Event" {
				return nil, fmt.Errorf("%w: root element is %q, want Event", ErrMalformedEvent, se.Name.Local)
			}
			seenEvent = true
		case se.Name.Local == "InstanceID":
			inst, err := parseInstance(dec, se)
			if err != nil {
				return nil, err
			}
			ev.Instances = append(ev.Instances, inst)
		default:
			if err := dec.Skip(); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
			}
		}
	}

	if !seenEvent {
		return nil, fmt.Errorf("%w: no Event element", ErrMalformedEvent)
	}
	return ev, nil
}

// parseInstance consumes one InstanceID element and its children.
func parseInstance(dec *xml.Decoder, start xml.StartElement) (InstanceValues, error) {
	inst := InstanceValues{}
	for _, a := range start.Attr {
		if a.Name.Local == "val" {
			id, err := strconv.ParseInt(a.Value, 10, 64)
			if err != nil {
				return inst, fmt.Errorf("%w: bad InstanceID val %q", ErrMalformedEvent, a.Value)
			}
			inst.InstanceID = id
		}
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return inst, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
		}

		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return inst, nil
			}
		case xml.StartElement:
			kind, known := KindFor(t.Name.Local)
			if !known {
				if err := dec.Skip(); err != nil {
					return inst, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
				}
				continue
			}
			attrs := make(map[string]string, len(t.Attr))
			for _, a := range t.Attr {
				attrs[a.Name.Local] = a.Value
			}
			value, err := Parse(kind, attrs)
			if err != nil {
				return inst, err
			}
			if err := dec.Skip(); err != nil {
				return inst, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
			}
			inst.Values = append(inst.Values, value)
		}
	}
}

// Apply pushes decoded values into the matching state variables of a
// service. Values whose kind has no variable on the service are
// ignored; the first rejected value (allowed-set or range violation)
// aborts with the variable's error.
func Apply(svc *meta.Service, values []EventedValue) error {
	for _, v := range values {
		sv := svc.StateVariable(string(v.Kind()))
		if sv == nil {
			continue
		}
		if err := sv.SetCurrent(v.Value()); err != nil {
			return err
		}
	}
	return nil
}
