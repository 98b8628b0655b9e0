package ir

// Expr is the tagged union of JS expression fragments carried by the IR.
//
// Structural variants (Compound, Array, Call, Props) hold sub-expressions
// that the transformer rewrites before their parent; leaf variants hold
// source text or symbols. Implementations are value types; holders replace
// an Expr wholesale through an *Expr when rewriting.
type Expr interface {
	jsExpr()
}

// Src is a raw source slice emitted verbatim.
type Src string

// StrLit is a string literal; the content is unquoted and unescaped.
// The generator quotes and escapes it for JS.
type StrLit string

// Simple is a single JS expression with an attached static level.
type Simple struct {
	Raw   string
	Level StaticLevel
}

// Symbol is a symbolic reference to a runtime helper, emitted as the
// helper's local alias (e.g. _createElementVNode).
type Symbol RuntimeHelper

// Prop is one key/value entry of a Props expression.
type Prop struct {
	Key   Expr
	Value Expr
}

// Props is an ordered property list, emitted as a JS object literal.
type Props []Prop

// Compound is an ordered concatenation of sub-expressions emitted with no
// separator between them.
type Compound []Expr

// Array is emitted as a JS array literal.
type Array []Expr

// Call is a runtime helper invocation.
type Call struct {
	Helper RuntimeHelper
	Args   []Expr
}

// Param marks a function parameter identifier introduced by a loop or slot.
// Params define template scope; they are never rewritten.
type Param string

func (Src) jsExpr()      {}
func (StrLit) jsExpr()   {}
func (Simple) jsExpr()   {}
func (Symbol) jsExpr()   {}
func (Props) jsExpr()    {}
func (Compound) jsExpr() {}
func (Array) jsExpr()    {}
func (Call) jsExpr()     {}
func (Param) jsExpr()    {}

// NewSimple returns a Simple expression at the lowest static level.
func NewSimple(raw string) Simple {
	return Simple{Raw: raw, Level: NotStatic}
}
