package cpelang

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PhucNguyen204/cpe_engine/cpe"
)

// node is the NVD configurations shape, shared by the JSON and YAML
// front-ends.
type node struct {
	Operator string     `json:"operator" yaml:"operator"`
	Negate   bool       `json:"negate" yaml:"negate"`
	Children []node     `json:"children" yaml:"children"`
	CpeMatch []cpeMatch `json:"cpe_match" yaml:"cpe_match"`
}

type cpeMatch struct {
	Cpe23Uri   string `json:"cpe23Uri" yaml:"cpe23Uri"`
	Criteria   string `json:"criteria" yaml:"criteria"`
	Vulnerable bool   `json:"vulnerable" yaml:"vulnerable"`
}

type configurations struct {
	Configurations struct {
		Nodes []node `json:"nodes" yaml:"nodes"`
	} `json:"configurations" yaml:"configurations"`
}

// ParseJSON parses the NVD {"configurations":{"nodes":[...]}} shape. Every
// top-level node becomes one platform.
func ParseJSON(data []byte) (*Document, error) {
	var cfg configurations
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, exprErr("document", "%v", err)
	}
	return documentFromNodes(cfg.Configurations.Nodes)
}

func documentFromNodes(nodes []node) (*Document, error) {
	if len(nodes) == 0 {
		return nil, exprErr("configurations", "no nodes")
	}
	doc := &Document{}
	for i, n := range nodes {
		location := fmt.Sprintf("nodes[%d]", i)
		op, err := operandFromNode(n, location)
		if err != nil {
			return nil, err
		}
		doc.Platforms = append(doc.Platforms, Platform{
			ID:    location,
			Title: location,
			Test:  *op,
		})
	}
	return doc, nil
}

func operandFromNode(n node, location string) (*Operand, error) {
	raw := strings.ToUpper(n.Operator)
	if raw == "" {
		// NVD leaves the operator implicit on pure match lists.
		raw = string(OpOr)
	}
	op, err := parseOperator(location, raw)
	if err != nil {
		return nil, err
	}
	out := &Operand{Op: op, Negate: n.Negate}
	for i, child := range n.Children {
		c, err := operandFromNode(child, fmt.Sprintf("%s.children[%d]", location, i))
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, *c)
	}
	for i, m := range n.CpeMatch {
		where := fmt.Sprintf("%s.cpe_match[%d]", location, i)
		raw := m.Cpe23Uri
		if raw == "" {
			raw = m.Criteria
		}
		if raw == "" {
			return nil, exprErr(where, "missing cpe23Uri")
		}
		ref, err := cpe.ParseName(raw)
		if err != nil {
			return nil, exprErr(where, "%v", err)
		}
		out.Children = append(out.Children, Operand{Ref: ref})
	}
	if len(out.Children) == 0 {
		return nil, exprErr(location, "node holds no operands")
	}
	return out, nil
}
