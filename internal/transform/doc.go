// Package transform rewrites a template IR in place before code generation.
//
// A Transformer walks the tree depth-first and replays an ordered list of
// passes at two kinds of boundaries: function-parameter expressions (loop
// iteration variables, slot parameters) receive an enter hook before their
// body subtree is walked and an exit hook after, bracketing the visibility
// window of the identifiers they introduce; plain JS expressions receive
// their exit hook post-order, so a pass always sees an expression after its
// sub-expressions were rewritten.
//
// One mutable Scope is threaded through the whole walk. It is owned
// exclusively by the active traversal; identifiers registered by a
// parameter construct never leak across sibling subtrees.
//
// A pass encountering a node kind it cannot legally see panics: that is a
// precondition violation from an earlier stage, not a user-input error.
// User-facing problems (an expression that fails to parse) are returned as
// errors and abort the walk.
package transform
