// Package codegen emits the render function for an optimized template IR.
//
// The generator walks the IR once and writes JS text implementing the
// runtime's vnode-creation protocol: directive wrapping, block tracking via
// openBlock sequencing, patch flags with debug comments, and variadic
// creation calls with trailing-argument elision.
//
// Output discipline:
//   - The prologue opens `function render(_ctx, _cache)` and, unless
//     identifiers were prefixed, a `with (_ctx)` scope. Every opened brace
//     is counted and unwound by the epilogue; the indent level must return
//     to zero, checked as an invariant.
//   - An I/O failure stops the generator writing immediately and surfaces
//     as the result of GenerateRoot. There is no rollback of bytes already
//     written.
package codegen
