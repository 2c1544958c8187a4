package cpe

import (
	"strings"
)

// WFN logical value spellings.
const (
	wfnAny = "ANY"
	wfnNA  = "NA"
)

// ParseWFNValue parses one attribute value token of a WFN: a double-quoted
// string, ANY, or NA.
func ParseWFNValue(token string, att Attribute) (Component, error) {
	if !att.Valid() {
		return Component{}, &InvalidAttributeError{Name: string(att)}
	}
	if !strings.HasPrefix(token, `"`) {
		switch strings.ToUpper(token) {
		case wfnAny:
			return NewAny(), nil
		case wfnNA:
			return NewNA(), nil
		}
		return Component{}, &InvalidValueError{Att: att, Text: token}
	}
	if len(token) < 2 || !strings.HasSuffix(token, `"`) {
		return Component{}, &InvalidValueError{Att: att, Text: token}
	}
	std, err := decodeWFN(token[1 : len(token)-1])
	if err != nil {
		return Component{}, &InvalidValueError{Att: att, Text: token}
	}
	return NewSimple(std, att)
}

// ParseURIValue parses one colon-separated URI field. An empty field is the
// Empty value; "-" is NA.
func ParseURIValue(field string, att Attribute) (Component, error) {
	if !att.Valid() {
		return Component{}, &InvalidAttributeError{Name: string(att)}
	}
	switch field {
	case "":
		return NewEmpty(), nil
	case "-":
		return NewNA(), nil
	}
	std, err := decodeURI(field)
	if err != nil {
		return Component{}, &InvalidValueError{Att: att, Text: field}
	}
	return NewSimple(std, att)
}

// ParseFSValue parses one formatted-string field. An unescaped "*" alone is
// ANY; "-" alone is NA.
func ParseFSValue(field string, att Attribute) (Component, error) {
	if !att.Valid() {
		return Component{}, &InvalidAttributeError{Name: string(att)}
	}
	switch field {
	case "*":
		return NewAny(), nil
	case "-":
		return NewNA(), nil
	case "":
		return Component{}, &InvalidValueError{Att: att, Text: field}
	}
	std, err := decodeFS(field)
	if err != nil {
		return Component{}, &InvalidValueError{Att: att, Text: field}
	}
	return NewSimple(std, att)
}

// Parse11Value parses one 1.1 element component, honouring the "~" negation
// and "!" alternative operators.
func Parse11Value(field string, att Attribute) (Component, error) {
	if !att.Valid() {
		return Component{}, &InvalidAttributeError{Name: string(att)}
	}
	if field == "" {
		return NewEmpty(), nil
	}
	negated := false
	if strings.HasPrefix(field, "~") {
		negated = true
		field = field[1:]
	}
	if negated && strings.Contains(field, "!") {
		return Component{}, &InvalidValueError{Att: att, Text: field}
	}
	raw := strings.Split(field, "!")
	stds := make([]string, 0, len(raw))
	for _, r := range raw {
		std, err := decode11(r)
		if err != nil {
			return Component{}, &InvalidValueError{Att: att, Text: field}
		}
		if err := validateStandard(std, att); err != nil {
			return Component{}, err
		}
		stds = append(stds, std)
	}
	return Component{
		kind:    KindSimple,
		att:     att,
		std:     stds[0],
		alts:    stds[1:],
		negated: negated,
	}, nil
}

// WFN emits the value as a WFN token. Undefined and Empty render as ANY.
func (c Component) WFN() string {
	switch c.kind {
	case KindAny, KindUndefined, KindEmpty:
		return wfnAny
	case KindNA:
		return wfnNA
	}
	return `"` + c.std + `"`
}

// URI emits the value as a URI field. Logical Any-like values are the empty
// field; NA is "-".
func (c Component) URI() (string, error) {
	switch c.kind {
	case KindAny, KindUndefined, KindEmpty:
		return "", nil
	case KindNA:
		return "-", nil
	}
	if c.op11() {
		return "", ErrUnsupportedOperation
	}
	return encodeURI(c.std)
}

// FS emits the value as a formatted-string field.
func (c Component) FS() (string, error) {
	switch c.kind {
	case KindAny, KindUndefined, KindEmpty:
		return "*", nil
	case KindNA:
		return "-", nil
	}
	if c.op11() {
		return "", ErrUnsupportedOperation
	}
	return encodeFS(c.std), nil
}

// bind11 emits the value as a 1.1 component.
func (c Component) bind11() (string, error) {
	switch c.kind {
	case KindAny, KindUndefined, KindEmpty:
		return "", nil
	case KindNA:
		return "", ErrUnsupportedOperation
	}
	var b strings.Builder
	if c.negated {
		b.WriteByte('~')
	}
	for i, std := range c.Alternatives() {
		if i > 0 {
			b.WriteByte('!')
		}
		enc, err := encode11(std)
		if err != nil {
			return "", err
		}
		b.WriteString(enc)
	}
	return b.String(), nil
}

// op11 reports whether the component carries 1.1-only operator state that the
// 2.x bindings cannot express.
func (c Component) op11() bool {
	return c.negated || len(c.alts) > 0
}
