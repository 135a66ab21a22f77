package styles

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"
)

// ErrInvalidDocument reports a token document that is not valid JSON
var ErrInvalidDocument = errors.New("invalid token document")

// Token is a single named color value within a category
type Token struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Category groups tokens that share a CSS property and class prefix
type Category struct {
	Key    string  `json:"key" yaml:"key"`
	Tokens []Token `json:"tokens" yaml:"tokens"`
}

// ColorTokenMapping is the ordered category -> token -> value mapping
// returned by the style-data service. Order follows the upstream document.
type ColorTokenMapping struct {
	Categories []Category `json:"categories" yaml:"categories"`
}

// Empty returns a mapping with no categories
func Empty() *ColorTokenMapping {
	return &ColorTokenMapping{}
}

// Len returns the number of (category, token) pairs
func (m *ColorTokenMapping) Len() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, cat := range m.Categories {
		n += len(cat.Tokens)
	}
	return n
}

// IsEmpty reports whether the mapping holds no tokens
func (m *ColorTokenMapping) IsEmpty() bool {
	return m.Len() == 0
}

// Add sets a token, creating the category on first use. A repeated token
// name keeps its position and takes the new value.
func (m *ColorTokenMapping) Add(category, name, value string) {
	for i := range m.Categories {
		cat := &m.Categories[i]
		if cat.Key != category {
			continue
		}
		for j := range cat.Tokens {
			if cat.Tokens[j].Name == name {
				cat.Tokens[j].Value = value
				return
			}
		}
		cat.Tokens = append(cat.Tokens, Token{Name: name, Value: value})
		return
	}
	m.Categories = append(m.Categories, Category{
		Key:    category,
		Tokens: []Token{{Name: name, Value: value}},
	})
}

// ParseMapping decodes a JSON object into a mapping, preserving key order.
// A JSON null or any non-object document yields an empty mapping. The whole
// buffer must be a single valid JSON value.
func ParseMapping(raw []byte) (*ColorTokenMapping, error) {
	if !sonic.Valid(raw) {
		return nil, ErrInvalidDocument
	}
	root, err := sonic.Get(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return ParseMappingNode(&root)
}

// ParseMappingNode converts an already located JSON node into a mapping.
// Categories whose value is not a non-null object are skipped, as are
// tokens whose value is an object or array. Repeated keys keep their first
// position and take their last value.
func ParseMappingNode(root *ast.Node) (*ColorTokenMapping, error) {
	mapping := Empty()
	if root == nil || !root.Exists() || root.Type() != ast.V_OBJECT {
		return mapping, nil
	}

	categories, err := members(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	for _, c := range categories {
		if c.node.Type() != ast.V_OBJECT {
			continue
		}
		tokens, err := members(&c.node)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", c.key, err)
		}

		cat := Category{Key: c.key}
		for _, t := range tokens {
			value, ok, err := scalarText(&t.node)
			if err != nil {
				return nil, fmt.Errorf("token %s.%s: %w", c.key, t.key, err)
			}
			if ok {
				cat.Tokens = append(cat.Tokens, Token{Name: t.key, Value: value})
			}
		}
		mapping.Categories = append(mapping.Categories, cat)
	}

	return mapping, nil
}

type member struct {
	key  string
	node ast.Node
}

// members lists an object's keys by first occurrence, each holding the
// value of its last occurrence.
func members(obj *ast.Node) ([]member, error) {
	var out []member
	index := make(map[string]int)
	err := obj.ForEach(func(path ast.Sequence, node *ast.Node) bool {
		if path.Key == nil {
			return true
		}
		if i, ok := index[*path.Key]; ok {
			out[i].node = *node
			return true
		}
		index[*path.Key] = len(out)
		out = append(out, member{key: *path.Key, node: *node})
		return true
	})
	return out, err
}

// scalarText renders a token value the way it appears in CSS output.
// Strings are unquoted, other scalars keep their JSON literal.
func scalarText(node *ast.Node) (string, bool, error) {
	switch node.Type() {
	case ast.V_STRING:
		s, err := node.String()
		return s, err == nil, err
	case ast.V_NUMBER:
		s, err := node.Raw()
		return s, err == nil, err
	case ast.V_TRUE:
		return "true", true, nil
	case ast.V_FALSE:
		return "false", true, nil
	case ast.V_NULL:
		return "null", true, nil
	default:
		return "", false, nil
	}
}
