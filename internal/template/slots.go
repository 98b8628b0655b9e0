package template

import (
	"strings"

	"github.com/loomlang/loom/internal/ir"
)

// componentSlots lowers a component's children to a slots node. Returns
// nil when there are no children; the bool reports whether any slot is
// alterable (conditionally or repeatedly present), which forces dynamic
// slot resolution at runtime.
func (c *converter) componentSlots(el *Element) (ir.Node, bool, error) {
	selfDir := findDir(el, "slot")
	kids := condense(el.Children)

	var templates []*Element
	var rest []Node
	for _, n := range kids {
		if t, ok := n.(*Element); ok && t.Tag == "template" {
			if findDir(t, "slot") != nil {
				templates = append(templates, t)
				continue
			}
		}
		if _, ok := n.(*Comment); ok {
			continue
		}
		rest = append(rest, n)
	}

	if selfDir != nil {
		if len(templates) > 0 {
			return nil, false, errAt(selfDir.pos,
				"v-slot on the component cannot be mixed with slot templates")
		}
		slot, err := c.slotDef(selfDir, el.Children)
		if err != nil {
			return nil, false, err
		}
		return &ir.VSlotNode{StableSlots: []ir.Slot{slot}}, false, nil
	}

	if len(templates) == 0 {
		if len(rest) == 0 {
			return nil, false, nil
		}
		body, err := c.children(el.Children, false)
		if err != nil {
			return nil, false, err
		}
		if len(body) == 0 {
			return nil, false, nil
		}
		slot := ir.Slot{Name: ir.StrLit("default"), Body: body}
		return &ir.VSlotNode{StableSlots: []ir.Slot{slot}}, false, nil
	}

	for _, n := range rest {
		if t, ok := n.(*Text); ok && strings.TrimSpace(t.Content) == "" {
			continue
		}
		return nil, false, errAt(n.Position(),
			"content outside slot templates is ignored when explicit slots are used")
	}

	node := &ir.VSlotNode{}
	for _, tpl := range templates {
		d := findDir(tpl, "slot")
		if elseDir(tpl) != nil {
			return nil, false, errAt(tpl.Pos, "v-else is not supported on a slot template")
		}
		slot, err := c.slotDef(d, tpl.Children)
		if err != nil {
			return nil, false, err
		}
		ifAttr := findDir(tpl, "if")
		forAttr := findDir(tpl, "for")
		switch {
		case ifAttr != nil:
			node.AlterableSlots = append(node.AlterableSlots, &ir.IfNode{
				Branches: []ir.IfBranch{{
					Condition: ir.NewSimple(ifAttr.value),
					Child:     &ir.AlterableSlotNode{Slot: slot},
				}},
			})
		case forAttr != nil:
			loop, err := parseFor(forAttr)
			if err != nil {
				return nil, false, err
			}
			loop.Child = &ir.AlterableSlotNode{Slot: slot}
			node.AlterableSlots = append(node.AlterableSlots, loop)
		default:
			node.StableSlots = append(node.StableSlots, slot)
		}
	}
	return node, len(node.AlterableSlots) > 0, nil
}

// slotDef builds one slot from its directive and body.
func (c *converter) slotDef(d *directive, body []Node) (ir.Slot, error) {
	slot := ir.Slot{Name: ir.StrLit("default")}
	if d.arg != "" {
		if d.dynamicArg {
			slot.Name = ir.NewSimple(d.arg)
		} else {
			slot.Name = ir.StrLit(d.arg)
		}
	}
	if d.hasValue && strings.TrimSpace(d.value) != "" {
		slot.Param = ir.Param(strings.TrimSpace(d.value))
	}
	nodes, err := c.children(body, false)
	if err != nil {
		return ir.Slot{}, err
	}
	slot.Body = nodes
	return slot, nil
}
