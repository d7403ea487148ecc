package descriptor

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/nerrad567/gray-logic-upnp/internal/datatypes"
	"github.com/nerrad567/gray-logic-upnp/internal/meta"
)

// scpdNamespace is the required namespace of UDA 1.0 SCPD documents.
const scpdNamespace = "urn:schemas-upnp-org:service-1-0"

// DescribeService binds an SCPD document onto a service already bound
// from a device descriptor, filling its action and state variable
// tables. On any failure the service is left untouched.
func (b *Binder) DescribeService(svc *meta.Service, text string) error {
	if svc == nil {
		return bindErr("scpd", "nil service")
	}
	if b.recovering {
		text = stripGarbage(text)
	}

	p := &scpdParser{binder: b, dec: xml.NewDecoder(strings.NewReader(text))}
	actions, vars, err := p.parse()
	if err != nil {
		return err
	}

	bound := *svc
	bound.Actions = actions
	bound.StateVariables = vars
	if err := meta.ValidateService(&bound); err != nil {
		return &BindingError{Path: "scpd", Err: err}
	}

	svc.Actions = actions
	svc.StateVariables = vars
	for _, v := range svc.StateVariables {
		v.Bind(svc)
	}
	return nil
}

type scpdParser struct {
	binder *Binder
	dec    *xml.Decoder
}

func (p *scpdParser) parse() ([]*meta.Action, []*meta.StateVariable, error) {
	var (
		actions []*meta.Action
		vars    []*meta.StateVariable
		started bool
		done    bool
	)

	for {
		tok, err := p.dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, bindErr("scpd", "malformed XML: %v", err)
		}

		switch t := tok.(type) {
		case xml.CharData:
			if (!started || done) && len(strings.TrimSpace(string(t))) > 0 {
				return nil, nil, bindErr("scpd", "garbage around document: %q", strings.TrimSpace(string(t)))
			}

		case xml.StartElement:
			if !started {
				if t.Name.Local != "scpd" {
					return nil, nil, bindErr("scpd", "document root is %q, want scpd", t.Name.Local)
				}
				if t.Name.Space != scpdNamespace && !p.binder.recovering {
					return nil, nil, bindErr("scpd", "wrong or missing namespace %q, want %q", t.Name.Space, scpdNamespace)
				}
				started = true
				continue
			}
			if done {
				return nil, nil, bindErr("scpd", "content after document end")
			}

			switch t.Name.Local {
			case "actionList":
				actions, err = p.parseActionList(t)
				if err != nil {
					return nil, nil, err
				}
			case "serviceStateTable":
				vars, err = p.parseStateTable(t)
				if err != nil {
					return nil, nil, err
				}
			default:
				if err := p.dec.Skip(); err != nil {
					return nil, nil, bindErr("scpd/"+t.Name.Local, "malformed XML: %v", err)
				}
			}

		case xml.EndElement:
			if t.Name.Local == "scpd" {
				done = true
			}
		}
	}

	if !done {
		return nil, nil, bindErr("scpd", "truncated document")
	}
	return actions, vars, nil
}

func (p *scpdParser) parseActionList(start xml.StartElement) ([]*meta.Action, error) {
	const path = "scpd/actionList"
	var out []*meta.Action

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
			if t.Name.Local != "action" {
				if err := p.dec.Skip(); err != nil {
					return nil, bindErr(path, "malformed XML: %v", err)
				}
				continue
			}
			a, err := p.parseAction(t)
			if err != nil {
				return nil, err
			}
			out = append(out, a)
		}
	}
}

func (p *scpdParser) parseAction(start xml.StartElement) (*meta.Action, error) {
	const path = "scpd/actionList/action"
	a := &meta.Action{}

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
			if a.Name == "" {
				return nil, bindErr(path, "action without name")
			}
			return a, nil
		case xml.StartElement:
			switch t.Name.Local {
			case "name":
				if err := p.readInto(t, path, &a.Name); err != nil {
					return nil, err
				}
			case "argumentList":
				args, err := p.parseArgumentList(t, path+"/argumentList")
				if err != nil {
					return nil, err
				}
				a.Arguments = args
			default:
				if err := p.dec.Skip(); err != nil {
					return nil, bindErr(path, "malformed XML: %v", err)
				}
			}
		}
	}
}

func (p *scpdParser) parseArgumentList(start xml.StartElement, path string) ([]meta.Argument, error) {
	var out []meta.Argument

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
			if t.Name.Local != "argument" {
				if err := p.dec.Skip(); err != nil {
					return nil, bindErr(path, "malformed XML: %v", err)
				}
				continue
			}
			arg, err := p.parseArgument(t, path+"/argument")
			if err != nil {
				return nil, err
			}
			out = append(out, arg)
		}
	}
}

func (p *scpdParser) parseArgument(start xml.StartElement, path string) (meta.Argument, error) {
	var arg meta.Argument

	for {
		tok, err := p.dec.Token()
		if err != nil {
			return arg, bindErr(path, "malformed XML: %v", err)
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local != start.Name.Local {
				continue
			}
			if arg.Name == "" {
				return arg, bindErr(path, "argument without name")
			}
			if arg.Direction == "" {
				return arg, bindErr(path, "argument %q without direction", arg.Name)
			}
			return arg, nil
		case xml.StartElement:
			switch t.Name.Local {
			case "name":
				if err := p.readInto(t, path, &arg.Name); err != nil {
					return arg, err
				}
			case "direction":
				var dir string
				if err := p.readInto(t, path, &dir); err != nil {
					return arg, err
				}
				switch dir {
				case "in":
					arg.Direction = meta.DirectionIn
				case "out":
					arg.Direction = meta.DirectionOut
				default:
					return arg, bindErr(path+"/direction", "direction %q is neither in nor out", dir)
				}
			case "retval":
				arg.ReturnValue = true
				if err := p.dec.Skip(); err != nil {
					return arg, bindErr(path, "malformed XML: %v", err)
				}
			case "relatedStateVariable":
				if err := p.readInto(t, path, &arg.RelatedStateVariable); err != nil {
					return arg, err
				}
			default:
				if err := p.dec.Skip(); err != nil {
					return arg, bindErr(path, "malformed XML: %v", err)
				}
			}
		}
	}
}

func (p *scpdParser) parseStateTable(start xml.StartElement) ([]*meta.StateVariable, error) {
	const path = "scpd/serviceStateTable"
	var out []*meta.StateVariable

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
			if t.Name.Local != "stateVariable" {
				if err := p.dec.Skip(); err != nil {
					return nil, bindErr(path, "malformed XML: %v", err)
				}
				continue
			}
			v, err := p.parseStateVariable(t, path+"/stateVariable")
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}
}

func (p *scpdParser) parseStateVariable(start xml.StartElement, path string) (*meta.StateVariable, error) {
	v := &meta.StateVariable{SendEvents: true}
	for _, attr := range start.Attr {
		if attr.Name.Local == "sendEvents" {
			v.SendEvents = !strings.EqualFold(strings.TrimSpace(attr.Value), "no")
		}
	}

	var haveType bool
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
			if v.Name == "" {
				return nil, bindErr(path, "state variable without name")
			}
			if !haveType {
				return nil, bindErr(path, "state variable %q without dataType", v.Name)
			}
			return v, nil

		case xml.StartElement:
			switch t.Name.Local {
			case "name":
				if err := p.readInto(t, path, &v.Name); err != nil {
					return nil, err
				}

			case "dataType":
				var name string
				if err := p.readInto(t, path, &name); err != nil {
					return nil, err
				}
				dt, ok := datatypes.ByDescriptorName(name)
				if !ok {
					if !p.binder.recovering {
						return nil, bindErr(path+"/dataType", "unknown dataType %q", name)
					}
					dt = datatypes.Custom(name)
				}
				v.Type.Datatype = dt
				haveType = true

			case "defaultValue":
				if err := p.readInto(t, path, &v.Type.Default); err != nil {
					return nil, err
				}

			case "allowedValueList":
				values, err := p.parseAllowedValues(t, path+"/allowedValueList")
				if err != nil {
					return nil, err
				}
				v.Type.AllowedValues = values

			case "allowedValueRange":
				r, err := p.parseAllowedRange(t, path+"/allowedValueRange")
				if err != nil {
					return nil, err
				}
				v.Type.AllowedRange = r

			default:
				if err := p.dec.Skip(); err != nil {
					return nil, bindErr(path, "malformed XML: %v", err)
				}
			}
		}
	}
}

// parseAllowedValues preserves descriptor order.
func (p *scpdParser) parseAllowedValues(start xml.StartElement, path string) ([]string, error) {
	var out []string

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
			if t.Name.Local != "allowedValue" {
				if err := p.dec.Skip(); err != nil {
					return nil, bindErr(path, "malformed XML: %v", err)
				}
				continue
			}
			var s string
			if err := p.readInto(t, path, &s); err != nil {
				return nil, err
			}
			out = append(out, s)
		}
	}
}

func (p *scpdParser) parseAllowedRange(start xml.StartElement, path string) (*meta.AllowedRange, error) {
	r := &meta.AllowedRange{}
	var haveMin, haveMax bool

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
			if !haveMin || !haveMax {
				return nil, bindErr(path, "range without minimum and maximum")
			}
			if r.Max < r.Min {
				return nil, bindErr(path, "maximum %d below minimum %d", r.Max, r.Min)
			}
			return r, nil

		case xml.StartElement:
			switch t.Name.Local {
			case "minimum", "maximum", "step":
				var s string
				if err := p.readInto(t, path, &s); err != nil {
					return nil, err
				}
				n, err := strconv.ParseInt(s, 10, 64)
				if err != nil {
					return nil, bindErr(path+"/"+t.Name.Local, "not an integer: %q", s)
				}
				switch t.Name.Local {
				case "minimum":
					r.Min, haveMin = n, true
				case "maximum":
					r.Max, haveMax = n, true
				case "step":
					r.Step = n
				}
			default:
				if err := p.dec.Skip(); err != nil {
					return nil, bindErr(path, "malformed XML: %v", err)
				}
			}
		}
	}
}

func (p *scpdParser) readInto(se xml.StartElement, path string, dst *string) error {
	var s string
	if err := p.dec.DecodeElement(&s, &se); err != nil {
		return bindErr(path+"/"+se.Name.Local, "malformed XML: %v", err)
	}
	*dst = strings.TrimSpace(s)
	return nil
}
