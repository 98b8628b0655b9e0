package codegen

import (
	"github.com/loomlang/loom/internal/ir"
)

// helperSet records runtime helpers in first-use order.
type helperSet struct {
	seen  map[ir.RuntimeHelper]bool
	order []ir.RuntimeHelper
}

func (hs *helperSet) add(h ir.RuntimeHelper) {
	if hs.seen[h] {
		return
	}
	hs.seen[h] = true
	hs.order = append(hs.order, h)
}

// CollectHelpers walks root the way emission does and returns every runtime
// helper the generated code will reference, deduplicated in first-use
// order. The preamble destructures exactly this set.
func CollectHelpers(root *ir.Root) []ir.RuntimeHelper {
	hs := &helperSet{seen: make(map[ir.RuntimeHelper]bool)}
	if len(root.Components) > 0 {
		hs.add(ir.HelperResolveComponent)
	}
	if len(root.Directives) > 0 {
		hs.add(ir.HelperResolveDirective)
	}
	if len(root.Body) > 1 {
		hs.add(ir.HelperOpenBlock)
		hs.add(ir.HelperCreateElementBlock)
		hs.add(ir.HelperFragment)
	}
	for _, n := range root.Body {
		hs.node(n)
	}
	return hs.order
}

func (hs *helperSet) node(n ir.Node) {
	switch x := n.(type) {
	case *ir.TextNode:
		for _, e := range x.Texts {
			hs.expr(e)
		}
	case *ir.IfNode:
		for _, b := range x.Branches {
			if b.Condition != nil {
				hs.expr(b.Condition)
			}
			hs.node(b.Child)
		}
		// a chain without a final else falls back to a comment vnode
		if len(x.Branches) == 0 || x.Branches[len(x.Branches)-1].Condition != nil {
			hs.add(ir.HelperCreateComment)
		}
	case *ir.ForNode:
		hs.add(ir.HelperOpenBlock)
		hs.add(ir.HelperCreateElementBlock)
		hs.add(ir.HelperFragment)
		hs.add(ir.HelperRenderList)
		hs.expr(x.Source)
		for _, p := range []ir.Expr{x.Value, x.Key, x.Index} {
			if p != nil {
				hs.expr(p)
			}
		}
		hs.node(x.Child)
	case *ir.VNodeCall:
		if len(x.Directives) > 0 {
			hs.add(ir.HelperWithDirectives)
		}
		if x.IsBlock {
			hs.add(ir.HelperOpenBlock)
		}
		hs.add(vnodeHelper(x.IsBlock, x.IsComponent))
		hs.expr(x.Tag)
		if x.Props != nil {
			hs.expr(x.Props)
		}
		for _, c := range x.Children {
			hs.node(c)
		}
		for _, d := range x.Directives {
			for _, e := range []ir.Expr{d.Name, d.Expr, d.Arg, d.Mods} {
				if e != nil {
					hs.expr(e)
				}
			}
		}
	case *ir.RenderSlotCall:
		hs.add(ir.HelperRenderSlot)
		hs.expr(x.SlotObj)
		hs.expr(x.SlotName)
		if x.Props != nil {
			hs.expr(x.Props)
		}
		for _, c := range x.Fallback {
			hs.node(c)
		}
	case *ir.VSlotNode:
		if len(x.AlterableSlots) > 0 {
			hs.add(ir.HelperCreateSlots)
		}
		for i := range x.StableSlots {
			hs.slot(&x.StableSlots[i])
		}
		for _, c := range x.AlterableSlots {
			hs.node(c)
		}
	case *ir.AlterableSlotNode:
		hs.slot(&x.Slot)
	case *ir.CommentNode:
		hs.add(ir.HelperCreateComment)
	}
}

func (hs *helperSet) slot(s *ir.Slot) {
	hs.add(ir.HelperWithCtx)
	hs.expr(s.Name)
	if s.Param != nil {
		hs.expr(s.Param)
	}
	for _, c := range s.Body {
		hs.node(c)
	}
}

func (hs *helperSet) expr(e ir.Expr) {
	switch x := e.(type) {
	case ir.Symbol:
		hs.add(ir.RuntimeHelper(x))
	case ir.Call:
		hs.add(x.Helper)
		for _, a := range x.Args {
			hs.expr(a)
		}
	case ir.Compound:
		for _, sub := range x {
			hs.expr(sub)
		}
	case ir.Array:
		for _, sub := range x {
			hs.expr(sub)
		}
	case ir.Props:
		for _, p := range x {
			hs.expr(p.Key)
			hs.expr(p.Value)
		}
	}
}
