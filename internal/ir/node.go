package ir

// Node is the tagged union of IR tree nodes.
type Node interface {
	irNode()
}

// Root is the template root. Body holds the top-level children; Components
// and Directives list the asset names referenced anywhere in the tree, in
// first-seen order, for resolution in the render prologue.
type Root struct {
	Body       []Node
	Components []string
	Directives []string
}

// TextNode emits a text vnode or bare string. Texts holds the ordered
// segments joined with " + " at generation time; it must not be empty.
type TextNode struct {
	Texts []Expr
}

// IfBranch is one arm of an IfNode. Condition is nil for a final else.
type IfBranch struct {
	Condition Expr
	Child     Node
}

// IfNode is a v-if / v-else-if / v-else chain, emitted as nested ternaries.
type IfNode struct {
	Branches []IfBranch
}

// ForNode is a list-rendering loop. Value, Key and Index are Param (or
// destructured Compound) expressions; nil parameters are elided. Source is
// evaluated outside the loop scope.
type ForNode struct {
	Source    Expr
	Value     Expr
	Key       Expr
	Index     Expr
	Child     Node
	PatchFlag PatchFlag
}

// RuntimeDir is one runtime-applied directive on a vnode:
// (directive, value, argument, modifiers). Nil slots are elided.
type RuntimeDir struct {
	Name Expr
	Expr Expr
	Arg  Expr
	Mods Expr
}

// VNodeCall describes one vnode-creation call.
type VNodeCall struct {
	Tag             Expr
	Props           Expr // nil when the element has no props
	Children        []Node
	Directives      []RuntimeDir
	PatchFlag       PatchFlag
	DynamicProps    []string
	IsComponent     bool
	IsBlock         bool
	DisableTracking bool
}

// RenderSlotCall is a slot outlet (<slot>), emitted as a renderSlot call.
type RenderSlotCall struct {
	SlotObj  Expr
	SlotName Expr
	Props    Expr // nil when no props are forwarded
	Fallback []Node
}

// Slot is one named slot definition: Name, optional Param introducing slot
// scope, and the slot body.
type Slot struct {
	Name  Expr
	Param Expr
	Body  []Node
}

// VSlotNode carries the slots passed to a component. Stable slots compile
// into a static slots object; alterable slots are resolved dynamically.
type VSlotNode struct {
	StableSlots    []Slot
	AlterableSlots []Node
}

// AlterableSlotNode is a conditionally present slot entry.
type AlterableSlotNode struct {
	Slot
}

// CommentNode emits a comment vnode.
type CommentNode struct {
	Text string
}

func (*TextNode) irNode()          {}
func (*IfNode) irNode()            {}
func (*ForNode) irNode()           {}
func (*VNodeCall) irNode()         {}
func (*RenderSlotCall) irNode()    {}
func (*VSlotNode) irNode()         {}
func (*AlterableSlotNode) irNode() {}
func (*CommentNode) irNode()       {}
