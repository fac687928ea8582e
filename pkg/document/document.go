// Package document reads and writes tree documents: a small YAML format
// holding a named, nested node hierarchy. The document stands in for the
// host application as the owner of the source tree, so the CLI and tests
// can feed projections without a live host.
package document

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/outliner/pkg/model"
)

// NodeDoc is one node of a tree document.
type NodeDoc struct {
	Name     string    `yaml:"name"`
	Values   []string  `yaml:"values,omitempty"` // extra fields beyond the name
	Children []NodeDoc `yaml:"children,omitempty"`
}

// Document is a complete tree document.
type Document struct {
	Fields int       `yaml:"fields,omitempty"` // total field count, minimum 1
	Nodes  []NodeDoc `yaml:"nodes"`
}

// Parse decodes a tree document. When the document omits the field count it
// is inferred from the widest value list; a declared count that is too small
// for the listed values is an error rather than silent truncation.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	declared := doc.Fields > 0
	if !declared {
		doc.Fields = 1
	}
	if err := checkFields(doc.Nodes, &doc.Fields, declared); err != nil {
		return nil, err
	}
	return &doc, nil
}

// checkFields walks the node hierarchy, either widening the field count to
// cover every value list (inferred mode) or rejecting overflowing nodes
// (declared mode).
func checkFields(nodes []NodeDoc, fields *int, declared bool) error {
	for _, nd := range nodes {
		need := len(nd.Values) + 1
		if need > *fields {
			if declared {
				return fmt.Errorf("node %q has %d values but the document declares %d fields",
					nd.Name, len(nd.Values), *fields)
			}
			*fields = need
		}
		if err := checkFields(nd.Children, fields, declared); err != nil {
			return err
		}
	}
	return nil
}

// Load reads and decodes a tree document from a file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return Parse(data)
}

// Save writes the document to a file.
func Save(doc *Document, path string) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// Tree builds a fresh source tree from the document.
func (d *Document) Tree() *model.Tree {
	t := model.NewTree(d.Fields)
	buildLevel(t, nil, d.Nodes)
	return t
}

// ApplyTo replaces the contents of an existing tree with the document,
// emitting a single reset notification. Use this for reloads so that
// subscribed projections rebuild once.
func (d *Document) ApplyTo(t *model.Tree) {
	t.Reset(func(t *model.Tree) {
		buildLevel(t, nil, d.Nodes)
	})
}

func buildLevel(t *model.Tree, parent *model.Node, docs []NodeDoc) {
	for _, nd := range docs {
		created := t.AppendChildren(parent, nd.Name)
		n := created[0]
		for i, v := range nd.Values {
			t.SetValue(n, i+1, v)
		}
		buildLevel(t, n, nd.Children)
	}
}

// FromTree captures an existing tree as a document, preserving child order
// and field values.
func FromTree(t *model.Tree) *Document {
	doc := &Document{Fields: t.FieldCount()}
	doc.Nodes = captureLevel(t, t.Roots())
	return doc
}

func captureLevel(t *model.Tree, nodes []*model.Node) []NodeDoc {
	var out []NodeDoc
	for _, n := range nodes {
		nd := NodeDoc{Name: n.Name()}
		for f := 1; f < t.FieldCount(); f++ {
			nd.Values = append(nd.Values, n.Value(f))
		}
		// Trim trailing empty values so round-trips stay tidy.
		for len(nd.Values) > 0 && nd.Values[len(nd.Values)-1] == "" {
			nd.Values = nd.Values[:len(nd.Values)-1]
		}
		nd.Children = captureLevel(t, n.Children())
		out = append(out, nd)
	}
	return out
}
