package cpelang

import (
	yaml "gopkg.in/yaml.v3"
)

// ParseYAML parses the NVD node shape written as YAML.
func ParseYAML(data []byte) (*Document, error) {
	var cfg configurations
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, exprErr("document", "%v", err)
	}
	return documentFromNodes(cfg.Configurations.Nodes)
}
