package codegen

import (
	"fmt"
	"io"
	"strings"

	"github.com/loomlang/loom/internal/ir"
)

// Options configures render-function emission.
type Options struct {
	// PrefixIdentifiers suppresses the with-block: expressions were already
	// rewritten against the context, so no dynamic scope is needed.
	PrefixIdentifiers bool

	// RuntimeGlobal is the global object the helper preamble destructures
	// from. Empty means "Vue".
	RuntimeGlobal string
}

func (o Options) runtimeGlobal() string {
	if o.RuntimeGlobal == "" {
		return "Vue"
	}
	return o.RuntimeGlobal
}

// Writer emits JS text for one IR tree. Write errors are sticky: after the
// first failure every emission becomes a no-op and GenerateRoot returns
// that first error.
type Writer struct {
	w   io.Writer
	opt Options

	err     error
	indent  int
	closing int
}

// NewWriter returns a Writer emitting to w.
func NewWriter(w io.Writer, opt Options) *Writer {
	return &Writer{w: w, opt: opt}
}

// GenerateRoot emits the full render function for root: helper preamble,
// prologue, body expression, epilogue.
func (cw *Writer) GenerateRoot(root *ir.Root) error {
	cw.genPreamble(root)
	cw.genPrologue(root)
	switch len(root.Body) {
	case 0:
		cw.str("null")
	case 1:
		cw.genNode(root.Body[0])
	default:
		// multiple roots render as a stable fragment block
		cw.genNode(&ir.VNodeCall{
			Tag:       ir.Symbol(ir.HelperFragment),
			Children:  root.Body,
			PatchFlag: ir.PatchStableFragment,
			IsBlock:   true,
		})
	}
	return cw.genEpilogue()
}

func (cw *Writer) genPreamble(root *ir.Root) {
	helpers := CollectHelpers(root)
	if len(helpers) == 0 {
		return
	}
	cw.str("const { ")
	for i, h := range helpers {
		if i > 0 {
			cw.str(", ")
		}
		name := h.HelperStr()
		cw.str(name + ": _" + name)
	}
	cw.str(" } = " + cw.opt.runtimeGlobal())
	cw.str("\n\n")
}

func (cw *Writer) genPrologue(root *ir.Root) {
	cw.str("return function render(_ctx, _cache) {")
	cw.closing++
	cw.indent++
	if !cw.opt.PrefixIdentifiers {
		cw.newline()
		cw.str("with (_ctx) {")
		cw.closing++
		cw.indent++
	}
	for _, c := range root.Components {
		cw.newline()
		cw.str("const _component_" + ir.AssetID(c) + " = ")
		cw.helper(ir.HelperResolveComponent)
		cw.str("(" + quote(c) + ")")
	}
	for _, d := range root.Directives {
		cw.newline()
		cw.str("const _directive_" + ir.AssetID(d) + " = ")
		cw.helper(ir.HelperResolveDirective)
		cw.str("(" + quote(d) + ")")
	}
	cw.newline()
	cw.str("return ")
}

// genEpilogue unwinds every bracket the prologue opened. A non-zero indent
// level afterwards means emission opened and closed scopes asymmetrically,
// which is a bug, not an input condition.
func (cw *Writer) genEpilogue() error {
	for cw.closing > 0 {
		cw.indent--
		cw.newline()
		cw.str("}")
		cw.closing--
	}
	if cw.err != nil {
		return cw.err
	}
	if cw.indent != 0 {
		panic(fmt.Sprintf("codegen: unbalanced indentation (%d) after epilogue", cw.indent))
	}
	return nil
}

func (cw *Writer) genNode(n ir.Node) {
	switch x := n.(type) {
	case *ir.TextNode:
		cw.genText(x)
	case *ir.IfNode:
		cw.genIfBranches(x.Branches)
	case *ir.ForNode:
		cw.genFor(x)
	case *ir.VNodeCall:
		cw.genVNode(x)
	case *ir.RenderSlotCall:
		cw.genRenderSlot(x)
	case *ir.VSlotNode:
		cw.genSlots(x)
	case *ir.AlterableSlotNode:
		cw.genAlterableSlot(x)
	case *ir.CommentNode:
		cw.helper(ir.HelperCreateComment)
		cw.str("(" + quote(x.Text) + ")")
	default:
		panic(fmt.Sprintf("codegen: unexpected IR node %T", n))
	}
}

func (cw *Writer) genText(t *ir.TextNode) {
	for i := range t.Texts {
		if i > 0 {
			cw.str(" + ")
		}
		cw.genExpr(t.Texts[i])
	}
}

// genIfBranches emits a branch chain as nested ternaries. A chain without a
// final else falls back to a comment vnode so the expression always yields
// a value.
func (cw *Writer) genIfBranches(branches []ir.IfBranch) {
	if len(branches) == 0 {
		cw.fallbackComment()
		return
	}
	b := branches[0]
	if b.Condition == nil {
		cw.genNode(b.Child)
		return
	}
	cw.genExpr(b.Condition)
	cw.str(" ? ")
	cw.genNode(b.Child)
	cw.str(" : ")
	if len(branches) > 1 {
		cw.genIfBranches(branches[1:])
		return
	}
	cw.fallbackComment()
}

func (cw *Writer) fallbackComment() {
	cw.helper(ir.HelperCreateComment)
	cw.str("(" + quote("v-if") + ", true)")
}

// loop parameter placeholders for elided positions before a used one
var forParamPlaceholders = [...]string{"_", "__", "___"}

func (cw *Writer) genFor(f *ir.ForNode) {
	// loops always open their own untracked block: the list length is
	// dynamic, so child tracking would record a stale set
	cw.str("(")
	cw.helper(ir.HelperOpenBlock)
	cw.str("(true), ")
	cw.helper(ir.HelperCreateElementBlock)
	cw.str("(")
	cw.helper(ir.HelperFragment)
	cw.str(", null, ")
	cw.helper(ir.HelperRenderList)
	cw.str("(")
	cw.genExpr(f.Source)
	cw.str(", (")
	params := []ir.Expr{f.Value, f.Key, f.Index}
	last := -1
	for i, p := range params {
		if p != nil {
			last = i
		}
	}
	for i := 0; i <= last; i++ {
		if i > 0 {
			cw.str(", ")
		}
		if params[i] != nil {
			cw.genExpr(params[i])
		} else {
			cw.str(forParamPlaceholders[i])
		}
	}
	cw.str(") => (")
	cw.genNode(f.Child)
	cw.str(")), ")
	flag := f.PatchFlag
	if flag == 0 {
		flag = ir.PatchUnkeyedFragment
	}
	cw.patchFlag(flag)
	cw.str("))")
}

func (cw *Writer) genVNode(v *ir.VNodeCall) {
	if len(v.Directives) > 0 {
		cw.helper(ir.HelperWithDirectives)
		cw.str("(")
	}
	if v.IsBlock {
		cw.str("(")
		cw.helper(ir.HelperOpenBlock)
		if v.DisableTracking {
			cw.str("(true), ")
		} else {
			cw.str("(), ")
		}
	}
	cw.helper(vnodeHelper(v.IsBlock, v.IsComponent))
	cw.str("(")
	cw.args(
		arg{true, func() { cw.genExpr(v.Tag) }},
		arg{v.Props != nil, func() { cw.genExpr(v.Props) }},
		arg{len(v.Children) > 0, func() { cw.genChildren(v.Children) }},
		arg{v.PatchFlag != 0, func() { cw.patchFlag(v.PatchFlag) }},
		arg{len(v.DynamicProps) > 0, func() { cw.genDynamicProps(v.DynamicProps) }},
	)
	cw.str(")")
	if v.IsBlock {
		cw.str(")")
	}
	if len(v.Directives) > 0 {
		cw.str(", [")
		for i := range v.Directives {
			if i > 0 {
				cw.str(", ")
			}
			cw.genDirective(&v.Directives[i])
		}
		cw.str("])")
	}
}

// vnodeHelper selects the creation call for the block/component matrix.
func vnodeHelper(isBlock, isComponent bool) ir.RuntimeHelper {
	switch {
	case isBlock && isComponent:
		return ir.HelperCreateBlock
	case isBlock:
		return ir.HelperCreateElementBlock
	case isComponent:
		return ir.HelperCreateVNode
	default:
		return ir.HelperCreateElementVNode
	}
}

func (cw *Writer) genChildren(children []ir.Node) {
	if len(children) == 1 {
		cw.genNode(children[0])
		return
	}
	cw.str("[")
	for i, c := range children {
		if i > 0 {
			cw.str(", ")
		}
		cw.genNode(c)
	}
	cw.str("]")
}

func (cw *Writer) patchFlag(f ir.PatchFlag) {
	cw.str(fmt.Sprintf("%d", int32(f)))
	if name := f.String(); name != "" {
		cw.str(" /* " + name + " */")
	}
}

// genDynamicProps emits the tracked prop names, first occurrence wins.
func (cw *Writer) genDynamicProps(props []string) {
	seen := make(map[string]bool, len(props))
	cw.str("[")
	first := true
	for _, p := range props {
		if seen[p] {
			continue
		}
		seen[p] = true
		if !first {
			cw.str(", ")
		}
		first = false
		cw.str(quote(p))
	}
	cw.str("]")
}

// genDirective emits one (directive, value, argument, modifiers) tuple with
// trailing nil slots elided.
func (cw *Writer) genDirective(d *ir.RuntimeDir) {
	cw.str("[")
	cw.args(
		arg{true, func() { cw.genExpr(d.Name) }},
		arg{d.Expr != nil, func() { cw.genExpr(d.Expr) }},
		arg{d.Arg != nil, func() { cw.genExpr(d.Arg) }},
		arg{d.Mods != nil, func() { cw.genExpr(d.Mods) }},
	)
	cw.str("]")
}

func (cw *Writer) genRenderSlot(r *ir.RenderSlotCall) {
	cw.helper(ir.HelperRenderSlot)
	cw.str("(")
	cw.args(
		arg{true, func() { cw.genExpr(r.SlotObj) }},
		arg{true, func() { cw.genExpr(r.SlotName) }},
		arg{r.Props != nil, func() { cw.genExpr(r.Props) }},
		arg{len(r.Fallback) > 0, func() {
			cw.str("() => [")
			for i, c := range r.Fallback {
				if i > 0 {
					cw.str(", ")
				}
				cw.genNode(c)
			}
			cw.str("]")
		}},
	)
	cw.str(")")
}

// genSlots emits the slots object passed as a component's children. Stable
// slots form a plain object; the presence of alterable slots routes through
// createSlots so the runtime can merge the conditional entries.
func (cw *Writer) genSlots(s *ir.VSlotNode) {
	dynamic := len(s.AlterableSlots) > 0
	if dynamic {
		cw.helper(ir.HelperCreateSlots)
		cw.str("(")
	}
	cw.str("{ ")
	for i := range s.StableSlots {
		if i > 0 {
			cw.str(", ")
		}
		cw.genStableSlot(&s.StableSlots[i])
	}
	if len(s.StableSlots) > 0 {
		cw.str(", ")
	}
	if dynamic {
		cw.str("_: 2 /* DYNAMIC */ }, [")
		for i, n := range s.AlterableSlots {
			if i > 0 {
				cw.str(", ")
			}
			cw.genAlterableEntry(n)
		}
		cw.str("])")
		return
	}
	cw.str("_: 1 /* STABLE */ }")
}

// genAlterableEntry emits one dynamic createSlots entry. Conditional slots
// yield undefined when absent (the runtime skips them); repeated slots
// yield a renderList array the runtime flattens.
func (cw *Writer) genAlterableEntry(n ir.Node) {
	switch x := n.(type) {
	case *ir.IfNode:
		if len(x.Branches) == 1 && x.Branches[0].Condition != nil {
			cw.genExpr(x.Branches[0].Condition)
			cw.str(" ? ")
			cw.genNode(x.Branches[0].Child)
			cw.str(" : undefined")
			return
		}
	case *ir.ForNode:
		cw.helper(ir.HelperRenderList)
		cw.str("(")
		cw.genExpr(x.Source)
		cw.str(", (")
		params := []ir.Expr{x.Value, x.Key, x.Index}
		last := -1
		for i, p := range params {
			if p != nil {
				last = i
			}
		}
		for i := 0; i <= last; i++ {
			if i > 0 {
				cw.str(", ")
			}
			if params[i] != nil {
				cw.genExpr(params[i])
			} else {
				cw.str(forParamPlaceholders[i])
			}
		}
		cw.str(") => (")
		cw.genNode(x.Child)
		cw.str("))")
		return
	}
	cw.genNode(n)
}

func (cw *Writer) genStableSlot(s *ir.Slot) {
	cw.genPropsKey(s.Name)
	cw.str(": ")
	cw.genSlotFn(s)
}

// genAlterableSlot emits one conditional createSlots entry.
func (cw *Writer) genAlterableSlot(s *ir.AlterableSlotNode) {
	cw.str("{ name: ")
	cw.genExpr(s.Name)
	cw.str(", fn: ")
	cw.genSlotFn(&s.Slot)
	cw.str(" }")
}

func (cw *Writer) genSlotFn(s *ir.Slot) {
	cw.helper(ir.HelperWithCtx)
	cw.str("((")
	if s.Param != nil {
		cw.genExpr(s.Param)
	}
	cw.str(") => [")
	for i, c := range s.Body {
		if i > 0 {
			cw.str(", ")
		}
		cw.genNode(c)
	}
	cw.str("])")
}

// arg is one slot of a variadic creation call: a presence bit and a lazy
// emitter. Absent slots before the last present one emit as null; trailing
// absent slots are dropped entirely.
type arg struct {
	present bool
	gen     func()
}

func (cw *Writer) args(list ...arg) {
	last := -1
	for i, a := range list {
		if a.present {
			last = i
		}
	}
	for i := 0; i <= last; i++ {
		if i > 0 {
			cw.str(", ")
		}
		if list[i].present {
			list[i].gen()
		} else {
			cw.str("null")
		}
	}
}

func (cw *Writer) str(s string) {
	if cw.err != nil {
		return
	}
	_, cw.err = io.WriteString(cw.w, s)
}

func (cw *Writer) helper(h ir.RuntimeHelper) {
	cw.str("_" + h.HelperStr())
}

func (cw *Writer) newline() {
	cw.str("\n" + strings.Repeat("  ", cw.indent))
}
