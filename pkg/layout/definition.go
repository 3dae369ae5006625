package layout

// Item is a single authored node: a layout, row, cell, or content item.
// The compiler dispatches on the presence of discriminating keys ("kind",
// "cells", "content", "text", "source").
type Item map[string]any

// Definition is a complete report definition: document options, an optional
// inline data context, and the ordered stand-alone layouts.
type Definition struct {
	// Options holds document-level configuration consumed by the preamble
	// builder: page_size, margin, font_family, font_size. Each is
	// independently optional.
	Options map[string]any `toml:"options" yaml:"options" json:"options"`

	// Data is an optional inline data context for field resolution.
	// A context supplied at render time takes precedence.
	Data map[string]any `toml:"data" yaml:"data" json:"data"`

	// Layouts are the stand-alone layouts in document order.
	Layouts []Item `toml:"layouts" yaml:"layouts" json:"layouts"`
}

// Kind returns the item's declared layout kind, or "" if absent.
func (it Item) Kind() string {
	s, _ := it["kind"].(string)
	return s
}

// Has reports whether the item carries the given key with a non-nil value.
func (it Item) Has(key string) bool {
	v, ok := it[key]
	return ok && v != nil
}
