package htmlschema

import (
	"os"

	"gopkg.in/yaml.v3"
)

// keys of a rule spec mapping, childs is the legacy spelling of children
var specKeys = map[string]bool{
	"required": true,
	"max":      true,
	"min":      true,
	"attrs":    true,
	"children": true,
	"childs":   true,
}

// ParseConfig reads a yaml mapping of tag names to specs or lists of specs
func ParseConfig(yamlBytes []byte) (cfg Config, err error) {
	errUnmarshal := yaml.Unmarshal(yamlBytes, &cfg)
	if errUnmarshal != nil {
		return nil, errUnmarshal
	}
	if cfg == nil {
		return nil, configErrorf("no rules found")
	}
	return cfg, nil
}

// LoadConfig reads rules from a yaml file
func LoadConfig(file string) (cfg Config, err error) {
	yamlBytes, errRead := os.ReadFile(file)
	if errRead != nil {
		return nil, errRead
	}
	return ParseConfig(yamlBytes)
}

func isNull(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null")
}

func resolve(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

// UnmarshalYAML keeps the declaration order of the tag names
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	node = resolve(node)
	if node.Kind != yaml.MappingNode {
		return configErrorf("line %d: rules must be a mapping of tag names", node.Line)
	}
	cfg := Config{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], resolve(node.Content[i+1])
		tc := TagConfig{Tag: keyNode.Value}
		switch {
		case isNull(valueNode):
			tc.Specs = []Spec{{}}
		case valueNode.Kind == yaml.SequenceNode:
			for _, item := range valueNode.Content {
				spec := Spec{}
				errDecode := item.Decode(&spec)
				if errDecode != nil {
					return errDecode
				}
				tc.Specs = append(tc.Specs, spec)
			}
		case valueNode.Kind == yaml.MappingNode:
			spec := Spec{}
			errDecode := valueNode.Decode(&spec)
			if errDecode != nil {
				return errDecode
			}
			tc.Specs = []Spec{spec}
		default:
			return configErrorf("line %d: rule for <%s> must be a mapping or a list", valueNode.Line, tc.Tag)
		}
		cfg = append(cfg, tc)
	}
	*c = cfg
	return nil
}

type specYAML struct {
	Required bool        `yaml:"required"`
	Max      *int        `yaml:"max"`
	Min      *int        `yaml:"min"`
	Attrs    Attrs       `yaml:"attrs"`
	Children []ChildSpec `yaml:"children"`
	Childs   []ChildSpec `yaml:"childs"`
}

func (s *Spec) UnmarshalYAML(node *yaml.Node) error {
	node = resolve(node)
	if isNull(node) {
		*s = Spec{}
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return configErrorf("line %d: rule spec must be a mapping", node.Line)
	}
	for i := 0; i < len(node.Content); i += 2 {
		if !specKeys[node.Content[i].Value] {
			return configErrorf("line %d: unknown rule key %q", node.Content[i].Line, node.Content[i].Value)
		}
	}
	raw := specYAML{}
	errDecode := node.Decode(&raw)
	if errDecode != nil {
		return errDecode
	}
	*s = Spec{
		Required: raw.Required,
		Max:      raw.Max,
		Min:      raw.Min,
		Attrs:    raw.Attrs,
		Children: append(raw.Children, raw.Childs...),
	}
	return nil
}

type attrYAML struct {
	Required bool   `yaml:"required"`
	Value    string `yaml:"value"`
	Min      int    `yaml:"min"`
}

// UnmarshalYAML keeps the declaration order of the attribute names
func (a *Attrs) UnmarshalYAML(node *yaml.Node) error {
	node = resolve(node)
	if isNull(node) {
		*a = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return configErrorf("line %d: attrs must be a mapping of attribute names", node.Line)
	}
	attrs := Attrs{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		raw := attrYAML{}
		if !isNull(node.Content[i+1]) {
			errDecode := node.Content[i+1].Decode(&raw)
			if errDecode != nil {
				return errDecode
			}
		}
		attrs = append(attrs, Attr{
			Name:     node.Content[i].Value,
			Required: raw.Required,
			Value:    raw.Value,
			Min:      raw.Min,
		})
	}
	*a = attrs
	return nil
}

// UnmarshalYAML accepts the short form {meta: {...}} and the explicit
// form {tag: meta, ...}
func (c *ChildSpec) UnmarshalYAML(node *yaml.Node) error {
	node = resolve(node)
	if node.Kind != yaml.MappingNode {
		return configErrorf("line %d: child rule must be a mapping", node.Line)
	}
	if len(node.Content) == 0 {
		return configErrorf("line %d: child rule configuration is empty", node.Line)
	}
	if len(node.Content) == 2 && node.Content[0].Value != "tag" && !specKeys[node.Content[0].Value] {
		c.Tag = node.Content[0].Value
		return node.Content[1].Decode(&c.Spec)
	}
	rest := *node
	rest.Content = nil
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "tag" {
			c.Tag = node.Content[i+1].Value
			continue
		}
		rest.Content = append(rest.Content, node.Content[i], node.Content[i+1])
	}
	if c.Tag == "" {
		return configErrorf("line %d: child rule requires a tag name", node.Line)
	}
	return rest.Decode(&c.Spec)
}
