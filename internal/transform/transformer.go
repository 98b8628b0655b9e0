package transform

import (
	"fmt"

	"github.com/loomlang/loom/internal/ir"
)

// Pass is one transformation replayed by the Transformer. Enter hooks run
// pre-order, exit hooks post-order. The shared Scope is the same object for
// the whole walk.
type Pass interface {
	EnterFnParam(p *ir.Expr, sc *Scope) error
	ExitFnParam(p *ir.Expr, sc *Scope) error
	EnterJSExpr(e *ir.Expr, sc *Scope) error
	ExitJSExpr(e *ir.Expr, sc *Scope) error
}

// Transformer walks an IR tree once, replaying its passes at every
// expression and parameter boundary.
type Transformer struct {
	passes []Pass
	scope  Scope
}

// NewTransformer creates a Transformer over an ordered pass list.
func NewTransformer(passes ...Pass) *Transformer {
	return &Transformer{passes: passes, scope: NewScope()}
}

// Transform rewrites root in place. The first error aborts the walk.
func (t *Transformer) Transform(root *ir.Root) error {
	for _, n := range root.Body {
		if err := t.walkNode(n); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transformer) walkNode(n ir.Node) error {
	switch x := n.(type) {
	case *ir.TextNode:
		for i := range x.Texts {
			if err := t.walkExpr(&x.Texts[i]); err != nil {
				return err
			}
		}
	case *ir.IfNode:
		for i := range x.Branches {
			b := &x.Branches[i]
			if b.Condition != nil {
				if err := t.walkExpr(&b.Condition); err != nil {
					return err
				}
			}
			if err := t.walkNode(b.Child); err != nil {
				return err
			}
		}
	case *ir.ForNode:
		return t.walkFor(x)
	case *ir.VNodeCall:
		return t.walkVNode(x)
	case *ir.RenderSlotCall:
		if err := t.walkExpr(&x.SlotObj); err != nil {
			return err
		}
		if err := t.walkExpr(&x.SlotName); err != nil {
			return err
		}
		if x.Props != nil {
			if err := t.walkExpr(&x.Props); err != nil {
				return err
			}
		}
		for _, c := range x.Fallback {
			if err := t.walkNode(c); err != nil {
				return err
			}
		}
	case *ir.VSlotNode:
		for i := range x.StableSlots {
			if err := t.walkSlot(&x.StableSlots[i]); err != nil {
				return err
			}
		}
		for _, c := range x.AlterableSlots {
			if err := t.walkNode(c); err != nil {
				return err
			}
		}
	case *ir.AlterableSlotNode:
		return t.walkSlot(&x.Slot)
	case *ir.CommentNode:
	default:
		panic(fmt.Sprintf("transform: unexpected IR node %T", n))
	}
	return nil
}

// walkFor evaluates the loop source outside the loop scope, then brackets
// the declared parameters around the child subtree.
func (t *Transformer) walkFor(f *ir.ForNode) error {
	if err := t.walkExpr(&f.Source); err != nil {
		return err
	}
	params := []*ir.Expr{}
	for _, p := range []*ir.Expr{&f.Value, &f.Key, &f.Index} {
		if *p != nil {
			params = append(params, p)
		}
	}
	for _, p := range params {
		if err := t.enterFnParam(p); err != nil {
			return err
		}
	}
	if err := t.walkNode(f.Child); err != nil {
		return err
	}
	for i := len(params) - 1; i >= 0; i-- {
		if err := t.exitFnParam(params[i]); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transformer) walkVNode(v *ir.VNodeCall) error {
	if err := t.walkExpr(&v.Tag); err != nil {
		return err
	}
	if v.Props != nil {
		if err := t.walkExpr(&v.Props); err != nil {
			return err
		}
	}
	for i := range v.Directives {
		d := &v.Directives[i]
		for _, e := range []*ir.Expr{&d.Name, &d.Expr, &d.Arg, &d.Mods} {
			if *e == nil {
				continue
			}
			if err := t.walkExpr(e); err != nil {
				return err
			}
		}
	}
	for _, c := range v.Children {
		if err := t.walkNode(c); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transformer) walkSlot(s *ir.Slot) error {
	if err := t.walkExpr(&s.Name); err != nil {
		return err
	}
	hasParam := s.Param != nil
	if hasParam {
		if err := t.enterFnParam(&s.Param); err != nil {
			return err
		}
	}
	for _, c := range s.Body {
		if err := t.walkNode(c); err != nil {
			return err
		}
	}
	if hasParam {
		return t.exitFnParam(&s.Param)
	}
	return nil
}

// walkExpr visits sub-expressions first, then replays exit hooks, so a pass
// always rewrites bottom-up.
func (t *Transformer) walkExpr(e *ir.Expr) error {
	for _, p := range t.passes {
		if err := p.EnterJSExpr(e, &t.scope); err != nil {
			return err
		}
	}
	switch x := (*e).(type) {
	case ir.Compound:
		for i := range x {
			if err := t.walkExpr(&x[i]); err != nil {
				return err
			}
		}
	case ir.Array:
		for i := range x {
			if err := t.walkExpr(&x[i]); err != nil {
				return err
			}
		}
	case ir.Call:
		for i := range x.Args {
			if err := t.walkExpr(&x.Args[i]); err != nil {
				return err
			}
		}
	case ir.Props:
		for i := range x {
			if err := t.walkExpr(&x[i].Key); err != nil {
				return err
			}
			if err := t.walkExpr(&x[i].Value); err != nil {
				return err
			}
		}
	}
	for _, p := range t.passes {
		if err := p.ExitJSExpr(e, &t.scope); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transformer) enterFnParam(p *ir.Expr) error {
	for _, pass := range t.passes {
		if err := pass.EnterFnParam(p, &t.scope); err != nil {
			return err
		}
	}
	// a broken-down destructuring pattern may carry default-value
	// sub-expressions that still need rewriting
	if comp, ok := (*p).(ir.Compound); ok {
		for i := range comp {
			switch comp[i].(type) {
			case ir.Param, ir.Src:
				continue
			}
			if err := t.walkExpr(&comp[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Transformer) exitFnParam(p *ir.Expr) error {
	for _, pass := range t.passes {
		if err := pass.ExitFnParam(p, &t.scope); err != nil {
			return err
		}
	}
	return nil
}
