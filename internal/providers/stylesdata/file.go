package stylesdata

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/GriffinCanCode/stylesheet/internal/styles"
)

// FileSource reads color tokens from a local YAML or JSON file on every
// call. It stands in for the style-data service during development.
type FileSource struct {
	path string
}

// NewFileSource creates a source backed by path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the backing file path
func (f *FileSource) Path() string {
	return f.path
}

// GetStyles reads and decodes the token file. An empty document or a
// top-level null returns a nil mapping.
func (f *FileSource) GetStyles(ctx context.Context) (*styles.ColorTokenMapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read tokens file: %w", err)
	}
	return decodeYAML(data)
}

// decodeYAML walks the YAML syntax tree so scalars keep their source text.
// Repeated keys keep their first position and take their last value.
func decodeYAML(data []byte) (*styles.ColorTokenMapping, error) {
	file, err := parser.ParseBytes(data, 0, parser.AllowDuplicateMapKey())
	if err != nil {
		return nil, fmt.Errorf("parse tokens file: %w", err)
	}

	d := &yamlDecoder{anchors: make(map[string]ast.Node)}
	var body ast.Node
	if len(file.Docs) > 0 {
		body = d.resolve(file.Docs[0].Body)
	}
	if body == nil || body.Type() == ast.NullType {
		return nil, nil
	}

	mapping := styles.Empty()
	for _, cat := range d.entries(body) {
		tokens := d.resolve(cat.value)
		if !isMapping(tokens) {
			continue
		}
		category := styles.Category{Key: cat.key}
		for _, tok := range d.entries(tokens) {
			if value, ok := d.scalar(tok.value); ok {
				category.Tokens = append(category.Tokens, styles.Token{Name: tok.key, Value: value})
			}
		}
		mapping.Categories = append(mapping.Categories, category)
	}

	return mapping, nil
}

func isMapping(node ast.Node) bool {
	switch node.(type) {
	case *ast.MappingNode, *ast.MappingValueNode:
		return true
	default:
		return false
	}
}

type yamlEntry struct {
	key   string
	value ast.Node
}

type yamlDecoder struct {
	anchors map[string]ast.Node
}

// resolve strips anchors and tags and follows aliases
func (d *yamlDecoder) resolve(node ast.Node) ast.Node {
	for {
		switch n := node.(type) {
		case *ast.AnchorNode:
			d.anchors[n.Name.GetToken().Value] = n.Value
			node = n.Value
		case *ast.TagNode:
			node = n.Value
		case *ast.AliasNode:
			target, ok := d.anchors[n.Value.GetToken().Value]
			if !ok {
				return nil
			}
			node = target
		default:
			return node
		}
	}
}

// entries lists a mapping's pairs, merge keys excluded
func (d *yamlDecoder) entries(node ast.Node) []yamlEntry {
	var values []*ast.MappingValueNode
	switch n := node.(type) {
	case *ast.MappingNode:
		values = n.Values
	case *ast.MappingValueNode:
		values = []*ast.MappingValueNode{n}
	default:
		return nil
	}

	var out []yamlEntry
	index := make(map[string]int, len(values))
	for _, mv := range values {
		if mv.Key == nil || mv.Key.IsMergeKey() {
			continue
		}
		key, ok := d.scalar(mv.Key)
		if !ok {
			continue
		}
		if i, seen := index[key]; seen {
			out[i].value = mv.Value
			continue
		}
		index[key] = len(out)
		out = append(out, yamlEntry{key: key, value: mv.Value})
	}
	return out
}

// scalar returns the text of a scalar node as written in the file.
// Collections are not scalars.
func (d *yamlDecoder) scalar(node ast.Node) (string, bool) {
	switch n := d.resolve(node).(type) {
	case nil:
		return "", false
	case *ast.StringNode:
		return n.Value, true
	case *ast.LiteralNode:
		return n.Value.Value, true
	case *ast.NullNode:
		return "null", true
	case *ast.MappingNode, *ast.MappingValueNode, *ast.SequenceNode:
		return "", false
	default:
		return n.GetToken().Value, true
	}
}
