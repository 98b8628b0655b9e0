package jsparse

import (
	"fmt"
	"strings"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/file"
	"github.com/dop251/goja/parser"
	"github.com/dop251/goja/token"
)

// WriteKind tags how a free-variable reference is written to, if at all.
type WriteKind uint8

const (
	// WriteNone is a plain read.
	WriteNone WriteKind = iota
	// WriteAssign is an assignment target (x = v, x += v, ...).
	WriteAssign
	// WriteUpdate is an update target (x++, --x, ...).
	WriteUpdate
	// WriteDestructure is a destructuring-assignment target (({x}) = v).
	WriteDestructure
)

// FreeVar is one free-variable reference inside an expression.
//
// Start/End bracket the identifier itself. For assign and update targets,
// SpanStart/SpanEnd additionally bracket the whole enclosing expression, Op
// carries the operator text, Prefix the update-operator position, and
// RHSStart the offset of an assignment's right-hand side.
type FreeVar struct {
	Name       string
	Start, End int
	Write      WriteKind
	Op         string
	Prefix     bool
	SpanStart  int
	SpanEnd    int
	RHSStart   int
}

// ParseError reports an expression that is not valid JS. It is a
// user-facing diagnostic: the offending source is carried verbatim.
type ParseError struct {
	Src string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid expression %q: %v", e.Src, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// CheckSyntax reports whether src parses as a JS program. Used by tests to
// validate generated output.
func CheckSyntax(src string) error {
	if _, err := parser.ParseFile(nil, "", src, 0); err != nil {
		return &ParseError{Src: src, Err: err}
	}
	return nil
}

// WalkFreeVariables parses src as a single JS expression and invokes visit
// for every free-variable reference, in source order of discovery. A parse
// failure returns a *ParseError; unsupported syntax returns a plain error.
func WalkFreeVariables(src string, visit func(FreeVar)) error {
	// Wrap in parens so object literals parse as expressions, not blocks.
	prog, err := parser.ParseFile(nil, "", "("+src+")", 0)
	if err != nil {
		return &ParseError{Src: src, Err: err}
	}
	w := &walker{src: src, visit: visit}
	w.push()
	for _, st := range prog.Body {
		w.stmt(st)
	}
	return w.err
}

type walker struct {
	src    string
	visit  func(FreeVar)
	scopes []map[string]struct{}
	err    error
}

// off converts a 1-based parser index into an offset in the unwrapped
// source (the leading paren accounts for the extra byte).
func (w *walker) off(idx file.Idx) int {
	return int(idx) - 2
}

func (w *walker) push() {
	w.scopes = append(w.scopes, make(map[string]struct{}))
}

func (w *walker) pop() {
	w.scopes = w.scopes[:len(w.scopes)-1]
}

func (w *walker) declare(name string) {
	w.scopes[len(w.scopes)-1][name] = struct{}{}
}

func (w *walker) declared(name string) bool {
	for _, s := range w.scopes {
		if _, ok := s[name]; ok {
			return true
		}
	}
	return false
}

func (w *walker) fail(n interface{}) {
	if w.err == nil {
		w.err = fmt.Errorf("unsupported syntax %T in template expression", n)
	}
}

func (w *walker) ident(id *ast.Identifier, fv FreeVar) {
	name := id.Name.String()
	if w.declared(name) {
		return
	}
	fv.Name = name
	fv.Start = w.off(id.Idx)
	fv.End = fv.Start + len(name)
	w.visit(fv)
}

func (w *walker) stmt(s ast.Statement) {
	if w.err != nil || s == nil {
		return
	}
	switch n := s.(type) {
	case *ast.ExpressionStatement:
		w.expr(n.Expression)
	case *ast.BlockStatement:
		for _, st := range n.List {
			w.stmt(st)
		}
	case *ast.ReturnStatement:
		w.expr(n.Argument)
	case *ast.VariableStatement:
		for _, b := range n.List {
			w.declareTarget(b.Target)
			w.expr(b.Initializer)
		}
	case *ast.EmptyStatement:
	default:
		w.fail(s)
	}
}

func (w *walker) expr(e ast.Expression) {
	if w.err != nil || e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Identifier:
		w.ident(n, FreeVar{Write: WriteNone})
	case *ast.DotExpression:
		// property names are not variable references
		w.expr(n.Left)
	case *ast.BracketExpression:
		w.expr(n.Left)
		w.expr(n.Member)
	case *ast.BinaryExpression:
		w.expr(n.Left)
		w.expr(n.Right)
	case *ast.AssignExpression:
		w.assign(n)
	case *ast.UnaryExpression:
		if n.Operator == token.INCREMENT || n.Operator == token.DECREMENT {
			w.update(n)
		} else {
			w.expr(n.Operand)
		}
	case *ast.ConditionalExpression:
		w.expr(n.Test)
		w.expr(n.Consequent)
		w.expr(n.Alternate)
	case *ast.CallExpression:
		w.expr(n.Callee)
		for _, a := range n.ArgumentList {
			w.expr(a)
		}
	case *ast.NewExpression:
		w.expr(n.Callee)
		for _, a := range n.ArgumentList {
			w.expr(a)
		}
	case *ast.SequenceExpression:
		for _, s := range n.Sequence {
			w.expr(s)
		}
	case *ast.ArrayLiteral:
		for _, v := range n.Value {
			w.expr(v)
		}
	case *ast.ObjectLiteral:
		for _, p := range n.Value {
			w.property(p)
		}
	case *ast.SpreadElement:
		w.expr(n.Expression)
	case *ast.TemplateLiteral:
		w.expr(n.Tag)
		for _, x := range n.Expressions {
			w.expr(x)
		}
	case *ast.FunctionLiteral:
		w.function(n.ParameterList, func() { w.stmt(n.Body) })
	case *ast.ArrowFunctionLiteral:
		w.function(n.ParameterList, func() { w.conciseBody(n.Body) })
	case *ast.NullLiteral, *ast.BooleanLiteral, *ast.NumberLiteral,
		*ast.StringLiteral, *ast.RegExpLiteral:
	default:
		w.fail(e)
	}
}

func (w *walker) conciseBody(b ast.ConciseBody) {
	switch n := b.(type) {
	case *ast.ExpressionBody:
		w.expr(n.Expression)
	case *ast.BlockStatement:
		for _, st := range n.List {
			w.stmt(st)
		}
	default:
		w.fail(b)
	}
}

func (w *walker) property(p ast.Property) {
	if w.err != nil {
		return
	}
	switch n := p.(type) {
	case *ast.PropertyKeyed:
		if n.Computed {
			w.expr(n.Key)
		}
		w.expr(n.Value)
	case *ast.PropertyShort:
		// {a} reads the variable a
		w.ident(&n.Name, FreeVar{Write: WriteNone})
		w.expr(n.Initializer)
	case *ast.SpreadElement:
		w.expr(n.Expression)
	default:
		w.fail(p)
	}
}

func (w *walker) assign(n *ast.AssignExpression) {
	spanStart := w.off(n.Idx0())
	spanEnd := w.off(n.Idx1())
	rhsStart := w.off(n.Right.Idx0())
	switch lhs := n.Left.(type) {
	case *ast.Identifier:
		idEnd := w.off(lhs.Idx) + len(lhs.Name.String())
		op := strings.TrimSpace(w.src[idEnd:rhsStart])
		w.ident(lhs, FreeVar{
			Write:     WriteAssign,
			Op:        op,
			SpanStart: spanStart,
			SpanEnd:   spanEnd,
			RHSStart:  rhsStart,
		})
	case *ast.ObjectLiteral, *ast.ArrayLiteral, *ast.ObjectPattern, *ast.ArrayPattern:
		w.destructureTarget(n.Left)
	default:
		// member-expression target: the object itself is a plain read
		w.expr(n.Left)
	}
	w.expr(n.Right)
}

func (w *walker) update(n *ast.UnaryExpression) {
	op := "++"
	if n.Operator == token.DECREMENT {
		op = "--"
	}
	if id, ok := n.Operand.(*ast.Identifier); ok {
		w.ident(id, FreeVar{
			Write:     WriteUpdate,
			Op:        op,
			Prefix:    !n.Postfix,
			SpanStart: w.off(n.Idx0()),
			SpanEnd:   w.off(n.Idx1()),
		})
		return
	}
	w.expr(n.Operand)
}

// destructureTarget reports every identifier target of a destructuring
// assignment pattern with a Destructure write context.
func (w *walker) destructureTarget(e ast.Expression) {
	if w.err != nil || e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Identifier:
		w.ident(n, FreeVar{
			Write:     WriteDestructure,
			SpanStart: w.off(n.Idx0()),
			SpanEnd:   w.off(n.Idx1()),
		})
	case *ast.ObjectLiteral:
		for _, p := range n.Value {
			w.destructureProperty(p)
		}
	case *ast.ObjectPattern:
		for _, p := range n.Properties {
			w.destructureProperty(p)
		}
		w.destructureTarget(n.Rest)
	case *ast.ArrayLiteral:
		for _, v := range n.Value {
			w.destructureTarget(v)
		}
	case *ast.ArrayPattern:
		for _, v := range n.Elements {
			w.destructureTarget(v)
		}
		w.destructureTarget(n.Rest)
	case *ast.AssignExpression:
		// default value inside a pattern
		w.destructureTarget(n.Left)
		w.expr(n.Right)
	case *ast.SpreadElement:
		w.destructureTarget(n.Expression)
	default:
		w.expr(e)
	}
}

func (w *walker) destructureProperty(p ast.Property) {
	switch n := p.(type) {
	case *ast.PropertyKeyed:
		if n.Computed {
			w.expr(n.Key)
		}
		w.destructureTarget(n.Value)
	case *ast.PropertyShort:
		w.ident(&n.Name, FreeVar{Write: WriteDestructure})
		w.expr(n.Initializer)
	case *ast.SpreadElement:
		w.destructureTarget(n.Expression)
	default:
		w.fail(p)
	}
}

// function brackets a parameter scope around body.
func (w *walker) function(params *ast.ParameterList, body func()) {
	w.push()
	defer w.pop()
	if params != nil {
		for _, b := range params.List {
			w.declareTarget(b.Target)
		}
		if params.Rest != nil {
			w.declareTarget(params.Rest)
		}
		// defaults are evaluated with the parameters in scope
		for _, b := range params.List {
			w.expr(b.Initializer)
		}
	}
	body()
}

// declareTarget registers every identifier bound by a binding target.
func (w *walker) declareTarget(t ast.Expression) {
	if w.err != nil || t == nil {
		return
	}
	switch n := t.(type) {
	case *ast.Identifier:
		w.declare(n.Name.String())
	case *ast.ObjectPattern:
		for _, p := range n.Properties {
			switch q := p.(type) {
			case *ast.PropertyShort:
				w.declare(q.Name.Name.String())
			case *ast.PropertyKeyed:
				w.declareTarget(q.Value)
			case *ast.SpreadElement:
				w.declareTarget(q.Expression)
			}
		}
		w.declareTarget(n.Rest)
	case *ast.ArrayPattern:
		for _, v := range n.Elements {
			w.declareTarget(v)
		}
		w.declareTarget(n.Rest)
	case *ast.AssignExpression:
		w.declareTarget(n.Left)
	default:
		w.fail(t)
	}
}
