package cpe

import (
	"strings"
)

// Lift raises a name of any version into its canonical eleven-attribute WFN
// form: a single-element 2.3 name with absent and empty attributes normalized
// to ANY. Names that the WFN cannot express (multi-element 1.1 names, 1.1
// component operators) come back Incompatible.
func Lift(n *Name) (*Name, error) {
	elem, err := liftElement(n, "wfn")
	if err != nil {
		return nil, err
	}
	return &Name{version: V23, source: formatWFN(elem), elems: []Element{elem}}, nil
}

func liftElement(n *Name, target string) (Element, error) {
	if len(n.elems) != 1 {
		return nil, incompatible(n.version, target, "name describes more than one system element")
	}
	src := n.elems[0]
	out := Element{}
	for _, att := range attributes11 {
		c, ok := src[att]
		if !ok {
			out[att] = NewAny()
			continue
		}
		switch c.Kind() {
		case KindUndefined, KindEmpty:
			out[att] = NewAny()
		case KindSimple:
			if c.op11() {
				return nil, incompatible(n.version, target, "1.1 component operators cannot be expressed")
			}
			out[att] = c
		default:
			out[att] = c
		}
	}
	return out, nil
}

// WFN emits the canonical Well-Formed Name binding.
func (n *Name) WFN() (string, error) {
	elem, err := liftElement(n, "wfn")
	if err != nil {
		return "", err
	}
	return formatWFN(elem), nil
}

// FS emits the 2.3 formatted-string binding.
func (n *Name) FS() (string, error) {
	elem, err := liftElement(n, "fs")
	if err != nil {
		return "", err
	}
	if err := checkPartBindable(n.version, "fs", elem); err != nil {
		return "", err
	}
	fields := make([]string, 0, len(attributes11))
	for _, att := range attributes11 {
		f, err := elem[att].FS()
		if err != nil {
			return "", incompatible(n.version, "fs", err.Error())
		}
		fields = append(fields, f)
	}
	return fsPrefix + strings.Join(fields, ":"), nil
}

// URI emits the legacy URI binding, packing the extended attributes into the
// edition field when any of them is constrained.
func (n *Name) URI() (string, error) {
	elem, err := liftElement(n, "uri")
	if err != nil {
		return "", err
	}
	if err := checkPartBindable(n.version, "uri", elem); err != nil {
		return "", err
	}
	fields := make([]string, 0, len(attributes7))
	for _, att := range attributes7 {
		var f string
		var err error
		if att == AttEdition && needsPacking(elem) {
			f, err = packEdition(elem)
		} else {
			f, err = elem[att].URI()
		}
		if err != nil {
			return "", incompatible(n.version, "uri", err.Error())
		}
		fields = append(fields, f)
	}
	for len(fields) > 1 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return uriPrefix + strings.Join(fields, ":"), nil
}

// URI11 emits the 1.1 binding. NA values, wildcards, constrained extended
// attributes and punctuation outside the 1.1 charset are not representable.
func (n *Name) URI11() (string, error) {
	slots := make([][]string, len(partSlots))
	for _, elem := range n.elems {
		slot, comps, err := bind11Element(n.version, elem)
		if err != nil {
			return "", err
		}
		slots[slot] = append(slots[slot], strings.Join(comps, ":"))
	}
	last := -1
	for i, s := range slots {
		if len(s) > 0 {
			last = i
		}
	}
	if last < 0 {
		return "", incompatible(n.version, "1.1 uri", "name holds no elements")
	}
	parts := make([]string, 0, last+1)
	for i := 0; i <= last; i++ {
		parts = append(parts, strings.Join(slots[i], ";"))
	}
	return cpe11Prefix + strings.Join(parts, "/"), nil
}

func bind11Element(src Version, elem Element) (int, []string, error) {
	part, ok := elem[AttPart]
	if !ok || part.Kind() != KindSimple {
		return 0, nil, incompatible(src, "1.1 uri", "part is not a concrete system class")
	}
	slot := -1
	for i, v := range partSlots {
		if strings.EqualFold(part.Standard(), v) {
			slot = i
		}
	}
	if slot < 0 {
		return 0, nil, incompatible(src, "1.1 uri", "part "+part.Standard()+" has no 1.1 slot")
	}
	for _, att := range packedAttributes {
		if c, ok := elem[att]; ok && c.Kind() != KindAny && c.Kind() != KindUndefined && c.Kind() != KindEmpty {
			return 0, nil, incompatible(src, "1.1 uri", string(att)+" cannot be expressed in 1.1")
		}
	}
	comps := make([]string, 0, len(attributes7)-1)
	for _, att := range attributes7[1:] {
		c, ok := elem[att]
		if !ok {
			comps = append(comps, "")
			continue
		}
		f, err := c.bind11()
		if err != nil {
			return 0, nil, incompatible(src, "1.1 uri", err.Error())
		}
		comps = append(comps, f)
	}
	for len(comps) > 0 && comps[len(comps)-1] == "" {
		comps = comps[:len(comps)-1]
	}
	return slot, comps, nil
}

// checkPartBindable rejects wildcard parts, which no bound form carries.
func checkPartBindable(src Version, target string, elem Element) error {
	part := elem[AttPart]
	if part.Kind() == KindSimple && hasUnescapedWildcard(part.Standard()) {
		return incompatible(src, target, "wildcard part cannot be bound")
	}
	return nil
}

// needsPacking reports whether any extended attribute is constrained, forcing
// the packed edition representation.
func needsPacking(elem Element) bool {
	for _, att := range packedAttributes {
		switch elem[att].Kind() {
		case KindAny, KindUndefined, KindEmpty:
		default:
			return true
		}
	}
	return false
}

// packEdition builds the ~ed~sw_edition~target_sw~target_hw~other field.
func packEdition(elem Element) (string, error) {
	var b strings.Builder
	atts := append([]Attribute{AttEdition}, packedAttributes...)
	for _, att := range atts {
		b.WriteString(packedEditions)
		f, err := elem[att].URI()
		if err != nil {
			return "", err
		}
		b.WriteString(f)
	}
	return b.String(), nil
}
