// Package cpe implements the CPE naming algebra: component values, names in
// their WFN, URI and formatted-string bindings, and the cross-version bridge
// between them.
package cpe

// Attribute is one of the named fields of a CPE name.
type Attribute string

const (
	AttPart      Attribute = "part"
	AttVendor    Attribute = "vendor"
	AttProduct   Attribute = "product"
	AttVersion   Attribute = "version"
	AttUpdate    Attribute = "update"
	AttEdition   Attribute = "edition"
	AttLanguage  Attribute = "language"
	AttSwEdition Attribute = "sw_edition"
	AttTargetSw  Attribute = "target_sw"
	AttTargetHw  Attribute = "target_hw"
	AttOther     Attribute = "other"
)

// Part attribute values.
const (
	PartHardware        = "h"
	PartOperatingSystem = "o"
	PartApplication     = "a"
)

// attributes7 is the serialization order shared by every version; 2.3 appends
// the four extended attributes.
var attributes7 = []Attribute{
	AttPart, AttVendor, AttProduct, AttVersion,
	AttUpdate, AttEdition, AttLanguage,
}

var attributes11 = []Attribute{
	AttPart, AttVendor, AttProduct, AttVersion,
	AttUpdate, AttEdition, AttLanguage,
	AttSwEdition, AttTargetSw, AttTargetHw, AttOther,
}

// packedAttributes are the four extended attributes carried by a packed 2.2
// URI edition field, in pack order after edition itself.
var packedAttributes = []Attribute{AttSwEdition, AttTargetSw, AttTargetHw, AttOther}

// Valid reports whether a is a known attribute tag.
func (a Attribute) Valid() bool {
	for _, k := range attributes11 {
		if a == k {
			return true
		}
	}
	return false
}

// Extended reports whether a exists only in version 2.3.
func (a Attribute) Extended() bool {
	switch a {
	case AttSwEdition, AttTargetSw, AttTargetHw, AttOther:
		return true
	}
	return false
}

// Version tags a CPE name with the specification revision its source text was
// written against.
type Version string

const (
	V11 Version = "1.1"
	V22 Version = "2.2"
	V23 Version = "2.3"
)

// Attributes returns the ordered attribute set of a version.
func Attributes(v Version) []Attribute {
	if v == V23 {
		return attributes11
	}
	return attributes7
}
