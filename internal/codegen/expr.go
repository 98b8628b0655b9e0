package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/loomlang/loom/internal/ir"
	"github.com/loomlang/loom/internal/jsparse"
)

func (cw *Writer) genExpr(e ir.Expr) {
	switch x := e.(type) {
	case ir.Src:
		cw.str(string(x))
	case ir.StrLit:
		cw.str(quote(string(x)))
	case ir.Simple:
		cw.str(x.Raw)
	case ir.Symbol:
		cw.helper(ir.RuntimeHelper(x))
	case ir.Props:
		cw.genProps(x)
	case ir.Compound:
		for _, sub := range x {
			cw.genExpr(sub)
		}
	case ir.Array:
		cw.str("[")
		for i, sub := range x {
			if i > 0 {
				cw.str(", ")
			}
			cw.genExpr(sub)
		}
		cw.str("]")
	case ir.Call:
		cw.helper(x.Helper)
		cw.str("(")
		for i, a := range x.Args {
			if i > 0 {
				cw.str(", ")
			}
			cw.genExpr(a)
		}
		cw.str(")")
	case ir.Param:
		cw.str(string(x))
	default:
		panic(fmt.Sprintf("codegen: unexpected expression %T", e))
	}
}

func (cw *Writer) genProps(props ir.Props) {
	if len(props) == 0 {
		cw.str("{}")
		return
	}
	cw.str("{ ")
	for i, p := range props {
		if i > 0 {
			cw.str(", ")
		}
		cw.genPropsKey(p.Key)
		cw.str(": ")
		cw.genExpr(p.Value)
	}
	cw.str(" }")
}

// genPropsKey emits an object key: a static name goes bare when it is a
// legal identifier, quoted otherwise; anything else is a computed key.
func (cw *Writer) genPropsKey(key ir.Expr) {
	if s, ok := key.(ir.StrLit); ok {
		if jsparse.IsSimpleIdentifier(string(s)) {
			cw.str(string(s))
			return
		}
		cw.str(quote(string(s)))
		return
	}
	cw.str("[")
	cw.genExpr(key)
	cw.str("]")
}

// quote renders s as a JS string literal. strconv's escaping is a valid JS
// subset (\xNN and \uNNNN escapes only).
func quote(s string) string {
	return strconv.Quote(s)
}

// ExprString renders a single expression to text, mainly for tests and
// diagnostics. Writing to a strings.Builder cannot fail.
func ExprString(e ir.Expr) string {
	var sb strings.Builder
	cw := NewWriter(&sb, Options{})
	cw.genExpr(e)
	return sb.String()
}
