// Package ir provides the intermediate representation for compiled templates.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This ensures IR remains the
// foundational layer with no circular dependencies.
//
// The IR sits between the parsed template and the generated render function:
// the front end (internal/template) produces it, the transformer
// (internal/transform) rewrites expressions and static levels in place, and
// the code generator (internal/codegen) consumes it.
//
// Key design constraints:
//   - Every node is exclusively owned by its parent's child list. No node
//     sharing, no cycles.
//   - A Simple expression is rewritten at most once, and strictly after its
//     sub-expressions (the transformer visits expressions post-order).
//   - StaticLevel must never overstate how aggressively an expression can be
//     cached or hoisted.
//   - RuntimeHelper values are symbolic; they resolve to emitted identifiers
//     only at generation time.
package ir
