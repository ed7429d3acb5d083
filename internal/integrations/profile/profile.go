// Package profile loads the static user profile: an ordered set of named
// categories, each either a scalar or a flat key/value section.
package profile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field is one key/value entry of a mapping category.
type Field struct {
	Key   string
	Value string
}

// Category is a top-level profile section.
type Category struct {
	Name   string
	Scalar string
	Fields []Field
}

// IsMapping reports whether the category holds key/value fields.
func (c Category) IsMapping() bool {
	return c.Fields != nil
}

// Get returns the value of key in a mapping category.
func (c Category) Get(key string) (string, bool) {
	for _, f := range c.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Profile is a loaded user profile.
type Profile struct {
	username   string
	categories []Category
}

// New builds a profile directly; used by callers that assemble a profile
// in code.
func New(username string, categories ...Category) *Profile {
	return &Profile{username: username, categories: categories}
}

// Username is the display name used in tool output.
func (p *Profile) Username() string {
	return p.username
}

// DisplayName prefers identity.name and falls back to Username.
func (p *Profile) DisplayName() string {
	if c, ok := p.Category("identity"); ok {
		if name, ok := c.Get("name"); ok && strings.TrimSpace(name) != "" {
			return name
		}
	}
	return p.username
}

// Categories lists category names in document order.
func (p *Profile) Categories() []string {
	out := make([]string, 0, len(p.categories))
	for _, c := range p.categories {
		out = append(out, c.Name)
	}
	return out
}

// Category looks a category up by name, ignoring case and surrounding
// space.
func (p *Profile) Category(name string) (Category, bool) {
	name = strings.TrimSpace(name)
	for _, c := range p.categories {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Category{}, false
}

// Empty reports whether the profile has no categories.
func (p *Profile) Empty() bool {
	return p == nil || len(p.categories) == 0
}

// Load reads a YAML or JSON profile from path.
func Load(path, username string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("profile not found: %s: %w", path, err)
		}
		return nil, fmt.Errorf("could not read profile %q: %w", path, err)
	}
	p, err := Parse(data, username)
	if err != nil {
		return nil, fmt.Errorf("could not parse profile %q: %w", path, err)
	}
	return p, nil
}

// Parse decodes profile data. A document whose only key is "profile" is
// unwrapped.
func Parse(data []byte, username string) (*Profile, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	p := &Profile{username: username}
	if len(doc.Content) == 0 {
		return p, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.New("profile must be a mapping of categories")
	}
	if len(root.Content) == 2 {
		if inner := lookup(root, "profile"); inner != nil && inner.Kind == yaml.MappingNode {
			root = inner
		}
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		p.categories = append(p.categories, toCategory(name, root.Content[i+1]))
	}
	return p, nil
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func toCategory(name string, n *yaml.Node) Category {
	if n.Kind != yaml.MappingNode {
		return Category{Name: name, Scalar: render(n)}
	}
	c := Category{Name: name, Fields: make([]Field, 0, len(n.Content)/2)}
	for i := 0; i+1 < len(n.Content); i += 2 {
		c.Fields = append(c.Fields, Field{Key: n.Content[i].Value, Value: render(n.Content[i+1])})
	}
	return c
}

// render flattens a value node: scalars as-is, sequences comma-joined,
// nested mappings as k=v pairs.
func render(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Value
	case yaml.SequenceNode:
		parts := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			parts = append(parts, render(c))
		}
		return strings.Join(parts, ", ")
	case yaml.MappingNode:
		parts := make([]string, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			parts = append(parts, n.Content[i].Value+"="+render(n.Content[i+1]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case yaml.AliasNode:
		if n.Alias != nil {
			return render(n.Alias)
		}
	}
	return ""
}
