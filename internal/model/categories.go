package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Category is a named, ordered list of match keywords.
type Category struct {
	Name     string
	Keywords []string
}

// CategoryData maps category names to keyword lists, preserving insertion
// order. Matching walks categories in this order, so it is backed by a slice.
type CategoryData struct {
	entries []Category
}

// NewCategoryData builds CategoryData from categories in the given order.
// A repeated name replaces the earlier keywords but keeps its position.
func NewCategoryData(cats ...Category) *CategoryData {
	d := &CategoryData{}
	for _, c := range cats {
		d.put(c.Name, c.Keywords)
	}
	return d
}

// Len returns the number of categories.
func (d *CategoryData) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Categories returns a copy of all categories in order.
func (d *CategoryData) Categories() []Category {
	if d == nil {
		return nil
	}
	out := make([]Category, len(d.entries))
	for i, c := range d.entries {
		out[i] = Category{Name: c.Name, Keywords: append([]string{}, c.Keywords...)}
	}
	return out
}

// Names returns the category names in order.
func (d *CategoryData) Names() []string {
	if d == nil {
		return nil
	}
	names := make([]string, len(d.entries))
	for i, c := range d.entries {
		names[i] = c.Name
	}
	return names
}

// Has reports whether a category exists. Names are case-sensitive.
func (d *CategoryData) Has(name string) bool {
	return d.index(name) >= 0
}

// Keywords returns a copy of the keywords for a category.
func (d *CategoryData) Keywords(name string) ([]string, bool) {
	i := d.index(name)
	if i < 0 {
		return nil, false
	}
	return append([]string(nil), d.entries[i].Keywords...), true
}

// Add appends an empty category. Returns false if it already exists.
func (d *CategoryData) Add(name string) bool {
	if d.Has(name) {
		return false
	}
	d.entries = append(d.entries, Category{Name: name, Keywords: []string{}})
	return true
}

// Remove deletes a category. Returns false if it does not exist.
func (d *CategoryData) Remove(name string) bool {
	i := d.index(name)
	if i < 0 {
		return false
	}
	d.entries = append(d.entries[:i:i], d.entries[i+1:]...)
	return true
}

// SetKeywords replaces the keyword list of an existing category.
func (d *CategoryData) SetKeywords(name string, keywords []string) bool {
	i := d.index(name)
	if i < 0 {
		return false
	}
	d.entries[i].Keywords = append([]string{}, keywords...)
	return true
}

// Each calls fn for every category in order until fn returns false.
// The keyword slice must not be modified.
func (d *CategoryData) Each(fn func(name string, keywords []string) bool) {
	if d == nil {
		return
	}
	for _, c := range d.entries {
		if !fn(c.Name, c.Keywords) {
			return
		}
	}
}

// Clone returns a deep copy.
func (d *CategoryData) Clone() *CategoryData {
	return &CategoryData{entries: d.Categories()}
}

func (d *CategoryData) index(name string) int {
	if d == nil {
		return -1
	}
	for i, c := range d.entries {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (d *CategoryData) put(name string, keywords []string) {
	if keywords == nil {
		keywords = []string{}
	}
	if i := d.index(name); i >= 0 {
		d.entries[i].Keywords = append([]string{}, keywords...)
		return
	}
	d.entries = append(d.entries, Category{Name: name, Keywords: append([]string{}, keywords...)})
}

// MarshalJSON writes a JSON object whose key order is the category order.
func (d *CategoryData) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range d.Categories() {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		kws, err := json.Marshal(c.Keywords)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(kws)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of name -> keyword array, keeping key order.
func (d *CategoryData) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading categories: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("categories: expected object, got %v", tok)
	}

	parsed := &CategoryData{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("reading category name: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("categories: expected name, got %v", tok)
		}
		var keywords []string
		if err := dec.Decode(&keywords); err != nil {
			return fmt.Errorf("category %q: %w", name, err)
		}
		parsed.put(name, keywords)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("reading categories: %w", err)
	}

	d.entries = parsed.entries
	return nil
}

// MarshalYAML writes a mapping node whose key order is the category order.
func (d *CategoryData) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range d.Categories() {
		var kws yaml.Node
		if err := kws.Encode(c.Keywords); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.Name},
			&kws,
		)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping of name -> keyword sequence, keeping key order.
func (d *CategoryData) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: categories must be a mapping", value.Line)
	}
	parsed := &CategoryData{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		var keywords []string
		if err := val.Decode(&keywords); err != nil {
			return fmt.Errorf("category %q: %w", key.Value, err)
		}
		parsed.put(key.Value, keywords)
	}
	d.entries = parsed.entries
	return nil
}
