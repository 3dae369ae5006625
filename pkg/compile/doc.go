// Package compile transforms a declarative layout definition into the
// normalized intermediate representation of package ir.
//
// Compilation is a pure, single-threaded, depth-first tree transform:
// track declarations are normalized to canonical token lists, bare cells and
// content items are wrapped into uniform rows and cells, kind-specific
// property defaults are applied, and nil-valued properties are dropped.
// The transform fails fast: the first structural error anywhere in a subtree
// aborts the whole layout and no partial IR is returned.
//
// Independent layouts share no state, so callers may compile them
// concurrently without locking.
package compile
