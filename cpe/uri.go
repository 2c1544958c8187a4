package cpe

import (
	"strings"
)

const (
	uriPrefix      = "cpe:/"
	packedEditions = "~"
)

// ParseURI parses a legacy URI binding such as
//
//	cpe:/a:hp:insight_diagnostics:7.4.0.1570:-:~~online~win2003~x64~
//
// Empty provided fields are Empty (Any in this revision); fields past the end
// of the text are Undefined. A packed edition field is unpacked into the four
// extended attributes on the spot.
func ParseURI(s string) (*Name, error) {
	if !strings.HasPrefix(s, uriPrefix) || strings.HasPrefix(s, "cpe://") {
		return nil, formatErr(V22, s, "URI prefix not found")
	}
	if strings.ContainsAny(s, " \t") {
		return nil, formatErr(V22, s, "whitespace not allowed")
	}
	elem := Element{}
	rest := s[len(uriPrefix):]
	if rest != "" {
		fields := strings.Split(rest, ":")
		if len(fields) > len(attributes7) {
			return nil, formatErr(V22, s, "more than seven fields")
		}
		for i, field := range fields {
			att := attributes7[i]
			if att == AttEdition && strings.HasPrefix(field, packedEditions) {
				if err := unpackEdition(elem, field); err != nil {
					return nil, formatErrWrap(V22, s, err)
				}
				continue
			}
			comp, err := ParseURIValue(field, att)
			if err != nil {
				return nil, formatErrWrap(V22, s, err)
			}
			elem[att] = comp
		}
	}
	return &Name{version: V22, source: s, elems: []Element{elem}}, nil
}

// unpackEdition splits a packed edition field ~ed~sw~tsw~thw~other into the
// edition component plus the four extended attributes. An empty subfield is
// ANY; "-" is NA.
func unpackEdition(elem Element, field string) error {
	sub := strings.Split(field, packedEditions)
	if len(sub) != 6 || sub[0] != "" {
		return formatErr(V22, field, "packed edition must hold five tilde-separated subfields")
	}
	atts := append([]Attribute{AttEdition}, packedAttributes...)
	for i, att := range atts {
		comp, err := parsePackedValue(sub[i+1], att)
		if err != nil {
			return err
		}
		elem[att] = comp
	}
	return nil
}

func parsePackedValue(field string, att Attribute) (Component, error) {
	switch field {
	case "":
		return NewAny(), nil
	case "-":
		return NewNA(), nil
	}
	std, err := decodeURI(field)
	if err != nil {
		return Component{}, &InvalidValueError{Att: att, Text: field}
	}
	return NewSimple(std, att)
}
