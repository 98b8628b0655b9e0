// Package template parses template source into an element tree and lowers
// that tree to the compiler IR.
//
// The parser is a small recursive-descent HTML-ish scanner: tags,
// attributes, mustache interpolations and comments. It does not implement
// the full HTML parsing algorithm; templates are expected to be well formed
// and mismatched tags are reported as errors with line/column positions.
// Character entities in text and attribute values are decoded and the
// result is normalized to NFC.
//
// Lowering resolves directives (v-if, v-for, v-bind, v-on, v-slot and
// runtime directives), groups conditional sibling chains, condenses
// whitespace, merges adjacent text, classifies tags into elements and
// components, and computes patch flags and dynamic-prop lists for each
// vnode call.
package template
