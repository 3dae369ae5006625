// Package typst renders compiled IR trees as Typst markup.
//
// The renderer is total over well-formed IR: it never returns an error.
// Malformed trees are prevented by construction in package compile, not
// checked here. Data-context lookups that miss render as empty strings;
// they are not rendering errors.
//
// Rendering is deterministic: identical IR and data context produce
// byte-identical output, which golden-file tests rely on.
package typst
