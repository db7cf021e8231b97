package value

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Custom YAML tags for values YAML has no native spelling for.
const (
	TagTuple     = "!tuple"
	TagSet       = "!set"
	TagFrozenSet = "!frozenset"
)

// Decode parses a YAML (and therefore JSON) document into a runtime value.
// Sequences tagged !tuple become Tuple, sequences tagged !set or !frozenset
// become sets; !!binary scalars become bytes.
func Decode(text string) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode value: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	return FromNode(doc.Content[0])
}

// FromNode converts a decoded YAML node into a runtime value.
func FromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return FromNode(n.Content[0])

	case yaml.AliasNode:
		return FromNode(n.Alias)

	case yaml.ScalarNode:
		var v any
		if n.Tag == "!!binary" {
			var b []byte
			if err := n.Decode(&b); err != nil {
				return nil, err
			}
			return b, nil
		}
		if strings.HasPrefix(n.Tag, "!") && !strings.HasPrefix(n.Tag, "!!") {
			return nil, fmt.Errorf("line %d: unknown tag %s on scalar", n.Line, n.Tag)
		}
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return Normalize(v), nil

	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			it, err := FromNode(c)
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		}
		switch n.Tag {
		case TagTuple:
			return Tuple(items), nil
		case TagSet:
			return NewSet(items...), nil
		case TagFrozenSet:
			return FrozenSet(NewSet(items...)), nil
		case "", "!!seq":
			return items, nil
		}
		return nil, fmt.Errorf("line %d: unknown tag %s on sequence", n.Line, n.Tag)

	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			v, err := FromNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[k.Value] = v
		}
		return out, nil
	}

	return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}
