// Package jsparse provides the JS-expression capabilities the transformer
// consumes: parsing a template expression, enumerating its free-variable
// references with byte ranges and write contexts, and the global allow list.
//
// Parsing is backed by goja's ECMAScript parser. Template expressions are a
// narrow subset of JS; constructs that cannot appear in a template binding
// (statements beyond expression/return/var, classes, etc.) are rejected with
// an error rather than silently skipped.
//
// Byte ranges reported by the walker never overlap, with one exception by
// design: an assignment or update target additionally reports the span of
// its whole enclosing expression so the caller can substitute it wholesale
// (needed for ref-aware rewrites of let bindings).
package jsparse
