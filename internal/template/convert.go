package template

import (
	"strings"

	"github.com/loomlang/loom/internal/ir"
)

// builtinComponents resolve to runtime symbols instead of user assets.
var builtinComponents = map[string]ir.RuntimeHelper{
	"Teleport":       ir.HelperTeleport,
	"teleport":       ir.HelperTeleport,
	"Suspense":       ir.HelperSuspense,
	"suspense":       ir.HelperSuspense,
	"KeepAlive":      ir.HelperKeepAlive,
	"keep-alive":     ir.HelperKeepAlive,
	"BaseTransition": ir.HelperBaseTransition,
}

// Convert lowers a parsed template to IR. Asset names referenced anywhere
// in the tree are collected on the root in first-seen order.
func Convert(nodes []Node) (*ir.Root, error) {
	c := &converter{
		compSeen: make(map[string]bool),
		dirSeen:  make(map[string]bool),
	}
	body, err := c.children(nodes, true)
	if err != nil {
		return nil, err
	}
	return &ir.Root{
		Body:       body,
		Components: c.components,
		Directives: c.directives,
	}, nil
}

type converter struct {
	components []string
	compSeen   map[string]bool
	directives []string
	dirSeen    map[string]bool
}

func (c *converter) component(name string) {
	if !c.compSeen[name] {
		c.compSeen[name] = true
		c.components = append(c.components, name)
	}
}

func (c *converter) directive(name string) {
	if !c.dirSeen[name] {
		c.dirSeen[name] = true
		c.directives = append(c.directives, name)
	}
}

func errAt(pos Pos, msg string) error {
	return &ParseError{Message: msg, Line: pos.Line, Column: pos.Column}
}

// children lowers a sibling list: whitespace is condensed, adjacent text
// and interpolations merge into one text node, and v-if chains group
// across siblings. block marks positions where each resulting vnode opens
// its own block (root nodes, conditional branches, loop bodies).
func (c *converter) children(nodes []Node, block bool) ([]ir.Node, error) {
	nodes = condense(nodes)
	var out []ir.Node
	var texts []ir.Expr
	flush := func() {
		if len(texts) > 0 {
			out = append(out, &ir.TextNode{Texts: texts})
			texts = nil
		}
	}
	for i := 0; i < len(nodes); i++ {
		switch n := nodes[i].(type) {
		case *Text:
			texts = append(texts, ir.StrLit(n.Content))
		case *Interpolation:
			texts = append(texts, ir.Call{
				Helper: ir.HelperToDisplayString,
				Args:   []ir.Expr{ir.NewSimple(n.Content)},
			})
		case *Comment:
			flush()
			out = append(out, &ir.CommentNode{Text: n.Content})
		case *Element:
			flush()
			if d := elseDir(n); d != nil {
				return nil, errAt(d.pos, "v-"+d.name+" has no matching v-if")
			}
			if ifAttr := findDir(n, "if"); ifAttr != nil {
				node, consumed, err := c.ifChain(nodes[i:], ifAttr)
				if err != nil {
					return nil, err
				}
				i += consumed - 1
				out = append(out, node)
				continue
			}
			node, err := c.structural(n, block)
			if err != nil {
				return nil, err
			}
			out = append(out, node)
		}
	}
	flush()
	return out, nil
}

// condense applies whitespace handling: whitespace-only text containing a
// newline disappears, other whitespace-only text becomes a single space,
// and interior whitespace runs collapse. Leading and trailing space-only
// nodes are dropped.
func condense(nodes []Node) []Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		t, ok := n.(*Text)
		if !ok {
			out = append(out, n)
			continue
		}
		if isBlankASCII(t.Content) {
			if strings.ContainsAny(t.Content, "\r\n") {
				continue
			}
			out = append(out, &Text{Content: " ", Pos: t.Pos})
			continue
		}
		out = append(out, &Text{Content: condenseSpace(t.Content), Pos: t.Pos})
	}
	for len(out) > 0 {
		if t, ok := out[0].(*Text); ok && t.Content == " " {
			out = out[1:]
			continue
		}
		break
	}
	for len(out) > 0 {
		if t, ok := out[len(out)-1].(*Text); ok && t.Content == " " {
			out = out[:len(out)-1]
			continue
		}
		break
	}
	return out
}

// isBlankASCII reports whether s is ASCII whitespace only. Unicode spaces
// (a decoded &nbsp; in particular) are content, not formatting.
func isBlankASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n':
		default:
			return false
		}
	}
	return true
}

func condenseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\r' || r == '\n' {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	head := ""
	if s[0] == ' ' || s[0] == '\t' || s[0] == '\r' || s[0] == '\n' {
		head = " "
	}
	tail := ""
	last := s[len(s)-1]
	if last == ' ' || last == '\t' || last == '\r' || last == '\n' {
		tail = " "
	}
	return head + b.String() + tail
}

// ifChain groups an element carrying v-if with its v-else-if/v-else
// siblings. Comments between branches are dropped. Returns the node and
// how many siblings were consumed.
func (c *converter) ifChain(nodes []Node, ifAttr *directive) (ir.Node, int, error) {
	first := nodes[0].(*Element)
	child, err := c.structural(first, true)
	if err != nil {
		return nil, 0, err
	}
	chain := &ir.IfNode{Branches: []ir.IfBranch{
		{Condition: ir.NewSimple(ifAttr.value), Child: child},
	}}
	consumed := 1
	for consumed < len(nodes) {
		el, ok := nodes[consumed].(*Element)
		if !ok {
			if _, isComment := nodes[consumed].(*Comment); isComment {
				consumed++
				continue
			}
			break
		}
		d := elseDir(el)
		if d == nil {
			break
		}
		branchChild, err := c.structural(el, true)
		if err != nil {
			return nil, 0, err
		}
		branch := ir.IfBranch{Child: branchChild}
		if d.name == "else-if" {
			branch.Condition = ir.NewSimple(d.value)
		}
		chain.Branches = append(chain.Branches, branch)
		consumed++
		if branch.Condition == nil {
			break
		}
	}
	return chain, consumed, nil
}

func elseDir(el *Element) *directive {
	if d := findDir(el, "else-if"); d != nil {
		return d
	}
	return findDir(el, "else")
}

// structural lowers one element, wrapping the result in a loop when it
// carries v-for. Conditional directives must already be consumed.
func (c *converter) structural(el *Element, block bool) (ir.Node, error) {
	forAttr := findDir(el, "for")
	if forAttr == nil {
		return c.element(el, block)
	}
	loop, err := parseFor(forAttr)
	if err != nil {
		return nil, err
	}
	// the repeated node always opens its own block
	child, err := c.element(el, true)
	if err != nil {
		return nil, err
	}
	loop.Child = child
	loop.PatchFlag = ir.PatchUnkeyedFragment
	if hasKeyBinding(el) {
		loop.PatchFlag = ir.PatchKeyedFragment
	}
	return loop, nil
}

func hasKeyBinding(el *Element) bool {
	return el.attr(":key") != nil || el.attr("v-bind:key") != nil
}

// parseFor decomposes `(value, key, index) in source`.
func parseFor(attr *directive) (*ir.ForNode, error) {
	src := attr.value
	sep := strings.Index(src, " in ")
	width := 4
	if sep < 0 {
		sep = strings.Index(src, " of ")
	}
	if sep < 0 {
		return nil, errAt(attr.pos, "v-for is missing its `in` clause")
	}
	lhs := strings.TrimSpace(src[:sep])
	rhs := strings.TrimSpace(src[sep+width:])
	if rhs == "" {
		return nil, errAt(attr.pos, "v-for is missing its source expression")
	}
	lhs = strings.TrimPrefix(lhs, "(")
	lhs = strings.TrimSuffix(lhs, ")")
	segs := splitTopLevel(lhs, ',')
	if len(segs) > 3 {
		return nil, errAt(attr.pos, "v-for takes at most value, key and index")
	}
	loop := &ir.ForNode{Source: ir.NewSimple(rhs)}
	params := []*ir.Expr{&loop.Value, &loop.Key, &loop.Index}
	for i, seg := range segs {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		*params[i] = ir.Param(seg)
	}
	return loop, nil
}

// splitTopLevel splits on sep outside (), [] and {} nesting.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	return append(parts, s[last:])
}

func (c *converter) element(el *Element, block bool) (ir.Node, error) {
	switch {
	case el.Tag == "slot":
		return c.slotOutlet(el)
	case el.Tag == "template":
		return c.templateElement(el, block)
	}

	v := &ir.VNodeCall{IsBlock: block}
	if helper, ok := builtinComponents[el.Tag]; ok {
		v.Tag = ir.Symbol(helper)
		v.IsComponent = true
	} else if isComponentTag(el.Tag) {
		c.component(el.Tag)
		v.Tag = ir.Simple{Raw: "_component_" + ir.AssetID(el.Tag), Level: ir.NotStatic}
		v.IsComponent = true
	} else {
		v.Tag = ir.StrLit(el.Tag)
	}

	pb := &propsBuilder{conv: c}
	for i := range el.Attrs {
		if err := pb.attr(&el.Attrs[i], v.IsComponent); err != nil {
			return nil, err
		}
	}
	v.Props = pb.finish()
	v.PatchFlag = pb.patch
	v.DynamicProps = pb.dynProps
	v.Directives = pb.runtimeDirs
	if len(v.Directives) > 0 {
		v.PatchFlag |= ir.PatchNeedPatch
	}

	if v.IsComponent {
		slots, dynamic, err := c.componentSlots(el)
		if err != nil {
			return nil, err
		}
		if slots != nil {
			v.Children = []ir.Node{slots}
			if dynamic {
				v.PatchFlag |= ir.PatchDynamicSlots
			}
		}
		return v, nil
	}

	children, err := c.children(el.Children, false)
	if err != nil {
		return nil, err
	}
	v.Children = children
	if hasDynamicText(children) {
		v.PatchFlag |= ir.PatchText
	}
	return v, nil
}

// hasDynamicText reports whether the element's content is text with at
// least one interpolated segment, so the runtime can fast-path it.
func hasDynamicText(children []ir.Node) bool {
	if len(children) != 1 {
		return false
	}
	t, ok := children[0].(*ir.TextNode)
	if !ok {
		return false
	}
	for _, e := range t.Texts {
		if _, lit := e.(ir.StrLit); !lit {
			return true
		}
	}
	return false
}

// templateElement lowers a bare <template> wrapper (its structural
// directives were consumed upstream) to its content, a fragment when the
// content is not a single node.
func (c *converter) templateElement(el *Element, block bool) (ir.Node, error) {
	if d := findDir(el, "slot"); d != nil {
		return nil, errAt(d.pos, "v-slot template is only valid directly inside a component")
	}
	children, err := c.children(el.Children, false)
	if err != nil {
		return nil, err
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return &ir.VNodeCall{
		Tag:       ir.Symbol(ir.HelperFragment),
		Children:  children,
		PatchFlag: ir.PatchStableFragment,
		IsBlock:   block,
	}, nil
}

// slotOutlet lowers <slot> to a renderSlot call: the name, forwarded
// props, and the children as fallback content.
func (c *converter) slotOutlet(el *Element) (ir.Node, error) {
	out := &ir.RenderSlotCall{
		SlotObj:  ir.NewSimple("$slots"),
		SlotName: ir.StrLit("default"),
	}
	pb := &propsBuilder{conv: c}
	for i := range el.Attrs {
		a := &el.Attrs[i]
		switch {
		case a.Name == "name":
			out.SlotName = ir.StrLit(a.Value)
		case a.Name == ":name" || a.Name == "v-bind:name":
			out.SlotName = ir.NewSimple(a.Value)
		default:
			if err := pb.attr(a, false); err != nil {
				return nil, err
			}
		}
	}
	out.Props = pb.finish()
	fallback, err := c.children(el.Children, false)
	if err != nil {
		return nil, err
	}
	out.Fallback = fallback
	return out, nil
}
