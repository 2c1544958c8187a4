package cpe

import (
	"fmt"
	"strings"
)

// Percent-encoding tables of the URI binding. '.', '-' and '~' pass through
// the URI unencoded but stay quoted in standard form.
var pctDecode = map[string]byte{
	"%21": '!', "%22": '"', "%23": '#', "%24": '$', "%25": '%',
	"%26": '&', "%27": '\'', "%28": '(', "%29": ')', "%2a": '*',
	"%2b": '+', "%2c": ',', "%2f": '/', "%3a": ':', "%3b": ';',
	"%3c": '<', "%3d": '=', "%3e": '>', "%3f": '?', "%40": '@',
	"%5b": '[', "%5c": '\\', "%5d": ']', "%5e": '^', "%60": '`',
	"%7b": '{', "%7c": '|', "%7d": '}', "%7e": '~',
}

var pctEncode = func() map[byte]string {
	m := make(map[byte]string, len(pctDecode))
	for k, v := range pctDecode {
		m[v] = k
	}
	return m
}()

const (
	uriWildcardOne   = "%01"
	uriWildcardMulti = "%02"
)

func isAlphanum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

// decodeURI lowers a URI-bound field into standard form. Wildcard placement is
// checked afterwards by the attribute grammar.
func decodeURI(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case isAlphanum(c):
			b.WriteByte(c)
			i++
		case c == '.' || c == '-' || c == '~':
			b.WriteByte('\\')
			b.WriteByte(c)
			i++
		case c == '%':
			if i+3 > len(s) {
				return "", fmt.Errorf("truncated percent escape at offset %d", i)
			}
			form := strings.ToLower(s[i : i+3])
			switch form {
			case uriWildcardOne:
				b.WriteByte('?')
			case uriWildcardMulti:
				b.WriteByte('*')
			default:
				raw, ok := pctDecode[form]
				if !ok {
					return "", fmt.Errorf("unknown percent escape %q", form)
				}
				b.WriteByte('\\')
				b.WriteByte(raw)
			}
			i += 3
		default:
			return "", fmt.Errorf("unencoded character %q", string(c))
		}
	}
	return b.String(), nil
}

// encodeURI raises a standard-form value into the URI binding.
func encodeURI(std string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(std); i++ {
		c := std[i]
		switch {
		case isAlphanum(c):
			b.WriteByte(c)
		case c == '\\':
			if i+1 >= len(std) {
				return "", fmt.Errorf("dangling escape in %q", std)
			}
			i++
			q := std[i]
			if q == '.' || q == '-' || q == '~' {
				b.WriteByte(q)
				break
			}
			pct, ok := pctEncode[q]
			if !ok {
				return "", fmt.Errorf("character %q has no URI form", string(q))
			}
			b.WriteString(pct)
		case c == '?':
			b.WriteString(uriWildcardOne)
		case c == '*':
			b.WriteString(uriWildcardMulti)
		default:
			return "", fmt.Errorf("unquoted character %q in standard form", string(c))
		}
	}
	return b.String(), nil
}

// decodeFS lowers a formatted-string field into standard form. '*' is legal
// only at the ends; stray punctuation picks up quoting.
func decodeFS(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isAlphanum(c):
			b.WriteByte(c)
		case c == '\\':
			if i+1 >= len(s) {
				return "", fmt.Errorf("dangling escape in %q", s)
			}
			b.WriteByte('\\')
			i++
			b.WriteByte(s[i])
		case c == '*':
			if i != 0 && i != len(s)-1 {
				return "", fmt.Errorf("embedded asterisk in %q", s)
			}
			b.WriteByte('*')
		case c == '?':
			b.WriteByte('?')
		default:
			b.WriteByte('\\')
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// encodeFS raises a standard-form value into the formatted-string binding.
// Period, hyphen and underscore go through unquoted; everything else keeps
// its backslash.
func encodeFS(std string) string {
	var b strings.Builder
	for i := 0; i < len(std); i++ {
		c := std[i]
		if c == '\\' && i+1 < len(std) {
			q := std[i+1]
			if q == '.' || q == '-' || q == '_' {
				b.WriteByte(q)
				i++
				continue
			}
			b.WriteByte('\\')
			b.WriteByte(q)
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// decodeWFN checks a quoted WFN interior, which already is the standard form.
func decodeWFN(s string) (string, error) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isAlphanum(c) || c == '?' || c == '*':
		case c == '\\':
			if i+1 >= len(s) {
				return "", fmt.Errorf("dangling escape in %q", s)
			}
			i++
		default:
			return "", fmt.Errorf("unquoted character %q", string(c))
		}
	}
	return s, nil
}

// cpe11Punct is the raw punctuation a 1.1 component may carry.
const cpe11Punct = ".-,()@#"

// decode11 lowers a 1.1 component value into standard form.
func decode11(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isAlphanum(c):
			b.WriteByte(c)
		case strings.IndexByte(cpe11Punct, c) >= 0:
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			return "", fmt.Errorf("character %q not allowed in a 1.1 name", string(c))
		}
	}
	return b.String(), nil
}

// encode11 raises a standard-form value into the 1.1 binding. Wildcards and
// punctuation outside the 1.1 charset are not representable.
func encode11(std string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(std); i++ {
		c := std[i]
		switch {
		case isAlphanum(c):
			b.WriteByte(c)
		case c == '\\':
			if i+1 >= len(std) {
				return "", fmt.Errorf("dangling escape in %q", std)
			}
			i++
			q := std[i]
			if strings.IndexByte(cpe11Punct, q) < 0 {
				return "", fmt.Errorf("character %q has no 1.1 form", string(q))
			}
			b.WriteByte(q)
		default:
			return "", fmt.Errorf("character %q has no 1.1 form", string(c))
		}
	}
	return b.String(), nil
}
