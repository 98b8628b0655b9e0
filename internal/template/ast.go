package template

// Pos is a byte offset plus 1-based line/column, for error reporting.
type Pos struct {
	Offset int
	Line   int
	Column int
}

// Node is the parsed template tree. It is a thin syntactic layer; all
// directive semantics live in the lowering step.
type Node interface {
	tplNode()
	Position() Pos
}

// Attr is one attribute as written, directives included. HasValue
// distinguishes a bare attribute from an empty value.
type Attr struct {
	Name     string
	Value    string
	HasValue bool
	Pos      Pos
}

// Element is a tag with attributes and children.
type Element struct {
	Tag         string
	Attrs       []Attr
	Children    []Node
	SelfClosing bool
	Pos         Pos
}

// Text is a run of literal text, entities already decoded.
type Text struct {
	Content string
	Pos     Pos
}

// Interpolation is one mustache: the raw JS expression between the braces,
// surrounding whitespace trimmed.
type Interpolation struct {
	Content string
	Pos     Pos
}

// Comment is an HTML comment body.
type Comment struct {
	Content string
	Pos     Pos
}

func (*Element) tplNode()       {}
func (*Text) tplNode()          {}
func (*Interpolation) tplNode() {}
func (*Comment) tplNode()       {}

func (e *Element) Position() Pos       { return e.Pos }
func (t *Text) Position() Pos          { return t.Pos }
func (i *Interpolation) Position() Pos { return i.Pos }
func (c *Comment) Position() Pos       { return c.Pos }

// attr returns the attribute with the given exact name, or nil.
func (e *Element) attr(name string) *Attr {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			return &e.Attrs[i]
		}
	}
	return nil
}
