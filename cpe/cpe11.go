package cpe

import (
	"strings"
)

const cpe11Prefix = "cpe://"

// part slots of a 1.1 name, in order: hardware / operating system /
// application.
var partSlots = []string{PartHardware, PartOperatingSystem, PartApplication}

// Parse11 parses a version 1.1 name such as
//
//	cpe://cisco::3825;cisco:2:44/cisco:ios:12.3:enterprise
//
// Slash-separated parts carry semicolon-separated elements, each a
// colon-separated run of component values. The slot a part occupies decides
// the system class of its elements.
func Parse11(s string) (*Name, error) {
	if !strings.HasPrefix(s, cpe11Prefix) {
		return nil, formatErr(V11, s, "1.1 prefix not found")
	}
	if strings.ContainsAny(s, " \t") {
		return nil, formatErr(V11, s, "whitespace not allowed")
	}
	rest := s[len(cpe11Prefix):]
	if rest == "" {
		return nil, formatErr(V11, s, "name holds no elements")
	}
	parts := strings.Split(rest, "/")
	if len(parts) > len(partSlots) {
		return nil, formatErr(V11, s, "more than three parts")
	}
	var elems []Element
	for pi, part := range parts {
		if part == "" {
			continue
		}
		for _, elemStr := range strings.Split(part, ";") {
			elem, err := parse11Element(elemStr, partSlots[pi])
			if err != nil {
				return nil, formatErrWrap(V11, s, err)
			}
			elems = append(elems, elem)
		}
	}
	if len(elems) == 0 {
		return nil, formatErr(V11, s, "name holds no elements")
	}
	return &Name{version: V11, source: s, elems: elems}, nil
}

func parse11Element(elemStr, partValue string) (Element, error) {
	part, err := NewSimple(partValue, AttPart)
	if err != nil {
		return nil, err
	}
	elem := Element{AttPart: part}
	comps := strings.Split(elemStr, ":")
	if len(comps) > len(attributes7)-1 {
		return nil, formatErr(V11, elemStr, "element holds too many components")
	}
	for i, cs := range comps {
		att := attributes7[i+1]
		comp, err := Parse11Value(cs, att)
		if err != nil {
			return nil, err
		}
		elem[att] = comp
	}
	return elem, nil
}
