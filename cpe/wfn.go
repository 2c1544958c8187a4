package cpe

import (
	"strings"
)

const wfnPrefix = "wfn:["

// ParseWFN parses a Well-Formed Name such as
//
//	wfn:[part="a", vendor="hp", product="insight_diagnostics", version="8\.*"]
//
// Attributes not mentioned default to ANY.
func ParseWFN(s string) (*Name, error) {
	if !strings.HasPrefix(s, wfnPrefix) {
		return nil, formatErr(V23, s, "WFN prefix not found")
	}
	if !strings.HasSuffix(s, "]") {
		return nil, formatErr(V23, s, "closing bracket of WFN not found")
	}
	elem := Element{}
	content := s[len(wfnPrefix) : len(s)-1]
	if content != "" {
		for _, pair := range strings.Split(content, ",") {
			pair = strings.TrimPrefix(pair, " ")
			if strings.Contains(pair, " ") {
				return nil, formatErr(V23, s, "unexpected whitespace in attribute pair "+pair)
			}
			name, value, found := strings.Cut(pair, "=")
			if !found {
				return nil, formatErr(V23, s, "attribute pair without '=': "+pair)
			}
			att := Attribute(name)
			if !att.Valid() {
				return nil, formatErrWrap(V23, s, &InvalidAttributeError{Name: name})
			}
			if _, dup := elem[att]; dup {
				return nil, formatErr(V23, s, "attribute "+name+" repeated")
			}
			comp, err := ParseWFNValue(value, att)
			if err != nil {
				return nil, formatErrWrap(V23, s, err)
			}
			elem[att] = comp
		}
	}
	for _, att := range attributes11 {
		if _, ok := elem[att]; !ok {
			elem[att] = NewAny()
		}
	}
	return &Name{version: V23, source: s, elems: []Element{elem}}, nil
}

// formatWFN emits the canonical WFN binding of a lifted single-element name.
func formatWFN(e Element) string {
	var b strings.Builder
	b.WriteString(wfnPrefix)
	for i, att := range attributes11 {
		if i > 0 {
			b.WriteString(", ")
		}
		c, ok := e[att]
		if !ok {
			c = NewAny()
		}
		b.WriteString(string(att))
		b.WriteByte('=')
		b.WriteString(c.WFN())
	}
	b.WriteByte(']')
	return b.String()
}
