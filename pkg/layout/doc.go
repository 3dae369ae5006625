// Package layout defines the declarative report definition consumed by the
// compiler, and loaders for the TOML, YAML, and JSON authoring formats.
//
// A definition is deliberately loose: layouts, rows, cells, and content items
// are property-bag trees ([Item]) exactly as authored. The loaders only
// decode; all structural validation happens during compilation, where an
// unrecognized shape aborts the transform with a structured error.
package layout
