package cpe

import (
	"regexp"
	"strings"
	"sync"
)

// Kind discriminates the component value variants.
type Kind uint8

const (
	// KindUndefined marks an attribute the caller never provided. It is the
	// zero value of a Component.
	KindUndefined Kind = iota
	// KindSimple is a concrete string value in standard form.
	KindSimple
	// KindAny matches anything.
	KindAny
	// KindNA marks an attribute that does not apply.
	KindNA
	// KindEmpty is an empty URI field: Any in 2.2/2.3, its own identity in 1.1.
	KindEmpty
)

func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindAny:
		return "ANY"
	case KindNA:
		return "NA"
	case KindUndefined:
		return "undefined"
	case KindEmpty:
		return "empty"
	}
	return "unknown"
}

// Component is one attribute slot of a CPE name. Simple components hold the
// standard form: unescaped alphanumerics, backslash-quoted punctuation and the
// two wildcard metacharacters ('?' one character, '*' any run).
//
// The negated flag and the alternative values exist only for 1.1 names, whose
// grammar allows "~value" (NOT) and "v1!v2" (OR) inside a component.
type Component struct {
	kind    Kind
	att     Attribute
	std     string
	alts    []string
	negated bool
}

// Logical component constructors.
func NewAny() Component       { return Component{kind: KindAny} }
func NewNA() Component        { return Component{kind: KindNA} }
func NewUndefined() Component { return Component{kind: KindUndefined} }
func NewEmpty() Component     { return Component{kind: KindEmpty} }

// NewSimple builds a concrete component from a standard-form value, validating
// it against the grammar of att.
func NewSimple(std string, att Attribute) (Component, error) {
	if !att.Valid() {
		return Component{}, &InvalidAttributeError{Name: string(att)}
	}
	if err := validateStandard(std, att); err != nil {
		return Component{}, err
	}
	return Component{kind: KindSimple, att: att, std: std}, nil
}

// Kind returns the variant tag.
func (c Component) Kind() Kind { return c.kind }

// Attribute returns the attribute this component was validated against. It is
// meaningful only for Simple components.
func (c Component) Attribute() Attribute { return c.att }

// IsLogical reports whether the component carries no concrete string.
func (c Component) IsLogical() bool { return c.kind != KindSimple }

// Standard returns the standard form of a Simple component and the empty
// string for logical variants.
func (c Component) Standard() string { return c.std }

// SimpleValue returns the standard form, refusing logical variants.
func (c Component) SimpleValue() (string, error) {
	if c.kind != KindSimple {
		return "", ErrUnsupportedOperation
	}
	return c.std, nil
}

// Negated reports whether the component carries a 1.1 "~" operator.
func (c Component) Negated() bool { return c.negated }

// Alternatives returns every concrete value of the component: the standard
// form plus any 1.1 "!"-alternatives.
func (c Component) Alternatives() []string {
	if c.kind != KindSimple {
		return nil
	}
	out := make([]string, 0, 1+len(c.alts))
	out = append(out, c.std)
	out = append(out, c.alts...)
	return out
}

// Set re-parses the component in place from a standard-form value, subject to
// the same validation as NewSimple.
func (c *Component) Set(std string, att Attribute) error {
	nc, err := NewSimple(std, att)
	if err != nil {
		return err
	}
	*c = nc
	return nil
}

// Equal reports structural equality: same variant and, for Simple values, the
// same attribute and standard form (case-insensitive), including the 1.1
// operator state.
func (c Component) Equal(o Component) bool {
	if c.kind != o.kind {
		return false
	}
	if c.kind != KindSimple {
		return true
	}
	if c.att != o.att || c.negated != o.negated {
		return false
	}
	if !strings.EqualFold(c.std, o.std) || len(c.alts) != len(o.alts) {
		return false
	}
	for i := range c.alts {
		if !strings.EqualFold(c.alts[i], o.alts[i]) {
			return false
		}
	}
	return true
}

// Contains is the matching subset relation: c covers o. ANY, Undefined and
// Empty cover everything; NA covers only NA; a Simple pattern covers a
// wildcard-free Simple value it matches. The relation never errors; values
// that cannot be compared are simply not contained.
func (c Component) Contains(o Component) bool {
	switch c.kind {
	case KindAny, KindUndefined, KindEmpty:
		return true
	}
	switch o.kind {
	case KindAny, KindUndefined, KindEmpty:
		return false
	}
	if c.kind == KindNA {
		return o.kind == KindNA
	}
	if o.kind == KindNA {
		return false
	}
	if c.negated || o.negated {
		return c.Equal(o)
	}
	// Every concrete value of o must be covered by some concrete value of c.
	for _, tv := range o.Alternatives() {
		covered := false
		for _, sv := range c.Alternatives() {
			if simpleContains(sv, tv) {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}

// simpleContains decides whether source, read as a wildcard pattern, covers
// target. A target that itself carries unescaped wildcards is covered only by
// an identical pattern.
func simpleContains(source, target string) bool {
	if strings.EqualFold(source, target) {
		return true
	}
	if hasUnescapedWildcard(target) {
		return false
	}
	re, err := patternRegexp(source)
	if err != nil {
		return false
	}
	return re.MatchString(unescape(target))
}

func hasUnescapedWildcard(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '*', '?':
			return true
		}
	}
	return false
}

// unescape strips the backslash quoting of a wildcard-free standard form.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// patternCache memoizes compiled wildcard patterns across matches.
var patternCache sync.Map // map[string]*regexp.Regexp

// patternRegexp compiles a standard-form pattern into an anchored,
// case-insensitive regexp over unescaped target text.
func patternRegexp(std string) (*regexp.Regexp, error) {
	if r, ok := patternCache.Load(std); ok {
		return r.(*regexp.Regexp), nil
	}
	var b strings.Builder
	b.WriteString(`(?i)^`)
	for i := 0; i < len(std); i++ {
		switch c := std[i]; c {
		case '\\':
			if i+1 < len(std) {
				i++
				b.WriteString(regexp.QuoteMeta(string(std[i])))
			}
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString(`$`)
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, err
	}
	patternCache.Store(std, re)
	return re, nil
}

// ---- standard-form validation ----

var (
	// A value is an optional leading wildcard, at least one unreserved or
	// quoted character, and an optional trailing wildcard; or wildcards alone.
	valueRxc = regexp.MustCompile(`^(\?+|\*)?(?:[a-zA-Z0-9_]|\\[!-/:-@\[-` + "`" + `{-~])+(\?+|\*)?$|^(\?+|\*)$`)

	partRxc = regexp.MustCompile(`^([aoh]|\?)$`)

	// Language subtag alternations, after lowering. Wildcards may stand in for
	// either subtag.
	langSoloRxc   = regexp.MustCompile(`^(\*|[a-z]{2,3}|\*[a-z]{1,2}|\*[0-9]{1,3}|[a-z]{1,3}\*|\?([a-z][a-z]?|\?(\?|[a-z])?))$`)
	langRxc       = regexp.MustCompile(`^(\*[a-z]{1,2}|\?([a-z][a-z]?|\?(\?|[a-z])?)|[a-z]{2,3})$`)
	langRegionRxc = regexp.MustCompile(`^(\*|\?\?|[a-z][a-z*?]|[0-9](\*|\?\??|[0-9][0-9*?]))$`)
)

// separatorLang splits the escaped hyphen between language and region.
const separatorLang = `\-`

func validateStandard(std string, att Attribute) error {
	bad := func() error { return &InvalidValueError{Att: att, Text: std} }
	if std == "" {
		return bad()
	}
	switch att {
	case AttPart:
		if !partRxc.MatchString(std) {
			return bad()
		}
	case AttLanguage:
		if !validLanguage(std) {
			return bad()
		}
	default:
		if !valueRxc.MatchString(std) {
			return bad()
		}
	}
	return nil
}

func validLanguage(std string) bool {
	parts := strings.Split(strings.ToLower(std), separatorLang)
	switch len(parts) {
	case 1:
		return langSoloRxc.MatchString(parts[0])
	case 2:
		return langRxc.MatchString(parts[0]) && langRegionRxc.MatchString(parts[1])
	}
	return false
}
