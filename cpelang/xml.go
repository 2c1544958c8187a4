package cpelang

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"strings"

	"github.com/PhucNguyen204/cpe_engine/cpe"
)

// Namespace of the applicability language.
const xmlNamespace = "http://cpe.mitre.org/language/2.0"

// ParseXML parses a cpe:platform-specification document.
func ParseXML(data []byte) (*Document, error) {
	return parseXML(bytes.NewReader(data))
}

// ParseXMLFile parses an applicability document from disk. The file handle is
// released before returning.
func ParseXMLFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseXML(f)
}

func parseXML(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, exprErr("document", "no platform-specification element found")
		}
		if err != nil {
			return nil, exprErr("document", "%v", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if err := checkName(se.Name, "platform-specification"); err != nil {
			return nil, err
		}
		return parsePlatformSpec(dec)
	}
}

func checkName(name xml.Name, local string) error {
	if name.Local != local {
		return exprErr(name.Local, "expected %s element", local)
	}
	if name.Space != "" && name.Space != xmlNamespace {
		return exprErr(local, "unexpected namespace %q", name.Space)
	}
	return nil
}

func parsePlatformSpec(dec *xml.Decoder) (*Document, error) {
	doc := &Document{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, exprErr("platform-specification", "%v", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := checkName(t.Name, "platform"); err != nil {
				return nil, err
			}
			p, err := parsePlatform(dec, t)
			if err != nil {
				return nil, err
			}
			doc.Platforms = append(doc.Platforms, *p)
		case xml.EndElement:
			return doc, nil
		}
	}
}

func parsePlatform(dec *xml.Decoder, se xml.StartElement) (*Platform, error) {
	p := &Platform{ID: attr(se, "id")}
	var test *Operand
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, exprErr("platform", "%v", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "title":
				var title string
				if err := dec.DecodeElement(&title, &t); err != nil {
					return nil, exprErr("title", "%v", err)
				}
				p.Title = strings.TrimSpace(title)
			case "remarks":
				if err := dec.Skip(); err != nil {
					return nil, exprErr("remarks", "%v", err)
				}
			case "logical-test":
				if test != nil {
					return nil, exprErr("platform", "platform holds more than one root logical-test")
				}
				op, err := parseLogicalTest(dec, t)
				if err != nil {
					return nil, err
				}
				test = op
			default:
				return nil, exprErr(t.Name.Local, "unexpected element inside platform")
			}
		case xml.EndElement:
			if test == nil {
				return nil, exprErr("platform", "platform holds no logical-test")
			}
			p.Test = *test
			return p, nil
		}
	}
}

func parseLogicalTest(dec *xml.Decoder, se xml.StartElement) (*Operand, error) {
	op, err := parseOperator("logical-test", strings.ToUpper(attr(se, "operator")))
	if err != nil {
		return nil, err
	}
	node := &Operand{Op: op, Negate: strings.EqualFold(attr(se, "negate"), "TRUE")}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, exprErr("logical-test", "%v", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "logical-test":
				child, err := parseLogicalTest(dec, t)
				if err != nil {
					return nil, err
				}
				node.Children = append(node.Children, *child)
			case "fact-ref":
				ref, err := parseFactRef(t)
				if err != nil {
					return nil, err
				}
				if err := dec.Skip(); err != nil {
					return nil, exprErr("fact-ref", "%v", err)
				}
				node.Children = append(node.Children, Operand{Ref: ref})
			case "check-fact-ref":
				// OVAL/OCIL checks are out of scope.
				return nil, exprErr("check-fact-ref", "check references are not supported")
			default:
				return nil, exprErr(t.Name.Local, "unexpected element inside logical-test")
			}
		case xml.EndElement:
			if len(node.Children) == 0 {
				return nil, exprErr("logical-test", "logical-test holds no operands")
			}
			return node, nil
		}
	}
}

func parseFactRef(se xml.StartElement) (*cpe.Name, error) {
	name := attr(se, "name")
	if name == "" {
		return nil, exprErr("fact-ref", "missing name attribute")
	}
	n, err := cpe.ParseName(name)
	if err != nil {
		return nil, exprErr("fact-ref", "%v", err)
	}
	return n, nil
}

func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
