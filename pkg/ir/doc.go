// Package ir defines the intermediate representation produced by compiling a
// declarative report layout.
//
// The IR is a normalized, renderer-agnostic tree: track sizes are canonical
// string tokens, defaults are resolved, bare cells and content items are
// wrapped into uniform rows and cells, and nil-valued properties are gone.
// All IR values are constructed once per compilation pass and never mutated;
// a fresh layout instantiation produces a fresh tree.
//
// Three closed unions structure the tree:
//   - [Node]: *Grid | *Table | *Stack
//   - [Child]: *Row | *Cell
//   - [Content]: *Label | *Field | *Nested
//
// Consumers dispatch with exhaustive type switches so that adding a variant
// forces a review of every consumer.
package ir
