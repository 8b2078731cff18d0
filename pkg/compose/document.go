// Package compose reads compose files into a YAML node tree, finds the image
// references of their services and rewrites them in place.
//
// Working on yaml.Node rather than decoding into typed structs keeps every
// field the walker does not touch exactly as written: key order, comments,
// anchors and scalar styles survive a round trip.
package compose

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	// indent is the number of spaces per nesting level when encoding.
	indent = 2

	mergeTag = "!!merge"
)

// Document is a parsed compose file.
type Document struct {
	node *yaml.Node // kind DocumentNode, single child
}

// Load reads and parses the compose file at path.
func Load(fs afero.Fs, path string) (*Document, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, errors.Wrapf(err, "failed to read compose file %s", path)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	return doc, nil
}

// Parse parses a single YAML document whose root must be a mapping.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var node yaml.Node
	if err := dec.Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidFormat)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return nil, fmt.Errorf("%w: expected a single document", ErrInvalidFormat)
	}

	doc := &Document{node: &node}
	root := doc.Root()
	if root == nil || root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: root is not a mapping", ErrInvalidFormat)
	}
	return doc, nil
}

// Root returns the top-level node of the document, resolving an aliased root.
func (d *Document) Root() *yaml.Node {
	if d == nil || d.node == nil || len(d.node.Content) == 0 {
		return nil
	}
	return resolve(d.node.Content[0])
}

// Encode writes the document as YAML to w.
func (d *Document) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(indent)
	if err := enc.Encode(d.node); err != nil {
		return errors.Wrap(err, "failed to encode compose document")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "failed to flush compose document")
	}
	return nil
}

// Bytes returns the encoded document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// resolve follows alias nodes to the node they reference.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// lookup returns the value node of the last pair with the given key in a
// mapping, along with its index in m.Content, or (nil, -1).
// Merge keys are not followed; see lookupMerged.
func lookup(m *yaml.Node, key string) (*yaml.Node, int) {
	var (
		value *yaml.Node
		index = -1
	)
	for i := 0; i+1 < len(m.Content); i += 2 {
		if k := resolve(m.Content[i]); k.Kind == yaml.ScalarNode && k.ShortTag() != mergeTag && k.Value == key {
			value, index = m.Content[i+1], i+1
		}
	}
	return value, index
}

// lookupMerged is lookup extended with '<<' merge keys. An explicit key in m
// wins; otherwise the merged mappings are searched in order, recursively, and
// the first one holding key is returned as owner. owner is m for explicit keys.
func lookupMerged(m *yaml.Node, key string) (value, owner *yaml.Node, index int) {
	return lookupMergedSeen(m, key, make(map[*yaml.Node]bool))
}

func lookupMergedSeen(m *yaml.Node, key string, seen map[*yaml.Node]bool) (*yaml.Node, *yaml.Node, int) {
	if m == nil || m.Kind != yaml.MappingNode || seen[m] {
		return nil, nil, -1
	}
	seen[m] = true

	if value, idx := lookup(m, key); idx >= 0 {
		return value, m, idx
	}
	for _, src := range mergeSources(m) {
		if value, owner, idx := lookupMergedSeen(src, key, seen); idx >= 0 {
			return value, owner, idx
		}
	}
	return nil, nil, -1
}

// mergeSources returns the mappings merged into m through '<<' keys, in
// precedence order. A sequence value contributes its mapping items in order.
func mergeSources(m *yaml.Node) []*yaml.Node {
	var sources []*yaml.Node
	for i := 0; i+1 < len(m.Content); i += 2 {
		if k := resolve(m.Content[i]); k.Kind != yaml.ScalarNode || k.ShortTag() != mergeTag {
			continue
		}
		switch v := resolve(m.Content[i+1]); {
		case v == nil:
		case v.Kind == yaml.MappingNode:
			sources = append(sources, v)
		case v.Kind == yaml.SequenceNode:
			for _, item := range v.Content {
				if item = resolve(item); item != nil && item.Kind == yaml.MappingNode {
					sources = append(sources, item)
				}
			}
		}
	}
	return sources
}

// entries returns the key/value pairs of m with merge keys expanded: explicit
// pairs in document order, then inherited pairs whose key is not yet present.
func entries(m *yaml.Node) [][2]*yaml.Node {
	var (
		pairs [][2]*yaml.Node
		seen  = make(map[string]bool)
		done  = make(map[*yaml.Node]bool)
		walk  func(*yaml.Node)
	)
	walk = func(n *yaml.Node) {
		if done[n] {
			return
		}
		done[n] = true
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := resolve(n.Content[i])
			if k == nil || (k.Kind == yaml.ScalarNode && k.ShortTag() == mergeTag) {
				continue
			}
			if k.Kind == yaml.ScalarNode {
				if seen[k.Value] {
					continue
				}
				seen[k.Value] = true
			}
			pairs = append(pairs, [2]*yaml.Node{k, n.Content[i+1]})
		}
		for _, src := range mergeSources(n) {
			walk(src)
		}
	}
	walk(m)
	return pairs
}
