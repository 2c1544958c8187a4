package matching

import (
	"strings"

	ac "github.com/petar-dambovaliev/aho-corasick"

	"github.com/PhucNguyen204/cpe_engine/cpe"
)

// prefilter narrows the known instances worth comparing against a candidate.
// It keys every known name by its literal vendor/product pair and searches the
// candidate's pair through an Aho-Corasick automaton; names without a literal
// key are always candidates, as is everything when the candidate itself has
// no literal key.
type prefilter struct {
	automaton    *ac.AhoCorasick
	patternNames [][]int
	always       []int
}

func buildPrefilter(names []*cpe.Name) *prefilter {
	p := &prefilter{}
	patterns := make([]string, 0, len(names))
	dedupe := make(map[string]int)
	for i, n := range names {
		key, ok := literalKey(n)
		if !ok {
			p.always = append(p.always, i)
			continue
		}
		idx, seen := dedupe[key]
		if !seen {
			idx = len(patterns)
			patterns = append(patterns, key)
			dedupe[key] = idx
			p.patternNames = append(p.patternNames, nil)
		}
		p.patternNames[idx] = append(p.patternNames[idx], i)
	}
	if len(patterns) > 0 {
		builder := ac.NewAhoCorasickBuilder(ac.Opts{
			AsciiCaseInsensitive: true,
			MatchKind:            ac.LeftMostLongestMatch,
		})
		automaton := builder.Build(patterns)
		p.automaton = &automaton
	}
	return p
}

func (p *prefilter) candidates(candidate *cpe.Name, total int) []int {
	key, ok := literalKey(candidate)
	if !ok || p.automaton == nil {
		idx := make([]int, total)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	marked := make([]bool, total)
	for _, i := range p.always {
		marked[i] = true
	}
	for _, m := range p.automaton.FindAll(key) {
		for _, i := range p.patternNames[m.Pattern()] {
			marked[i] = true
		}
	}
	idx := make([]int, 0, total)
	for i, ok := range marked {
		if ok {
			idx = append(idx, i)
		}
	}
	return idx
}

// literalKey extracts "vendor product" from a name when both attributes are
// single literal values; wildcards, logical values, 1.1 operators and
// multi-element names yield no key.
func literalKey(n *cpe.Name) (string, bool) {
	if n.Elements() != 1 {
		return "", false
	}
	var parts []string
	for _, att := range []cpe.Attribute{cpe.AttVendor, cpe.AttProduct} {
		c := n.At(0, att)
		if c.Kind() != cpe.KindSimple || c.Negated() || len(c.Alternatives()) > 1 {
			return "", false
		}
		std := c.Standard()
		if strings.ContainsAny(std, "*?") {
			return "", false
		}
		parts = append(parts, strings.ToLower(literal(std)))
	}
	return parts[0] + " " + parts[1], true
}

// literal strips the backslash quoting of a standard-form value.
func literal(std string) string {
	if !strings.ContainsRune(std, '\\') {
		return std
	}
	var b strings.Builder
	b.Grow(len(std))
	for i := 0; i < len(std); i++ {
		if std[i] == '\\' && i+1 < len(std) {
			i++
		}
		b.WriteByte(std[i])
	}
	return b.String()
}
