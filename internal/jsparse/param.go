package jsparse

import (
	"errors"
	"sort"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"
)

var errNotParam = errors.New("not a parameter pattern")

// ParamSegment is one piece of a function-parameter pattern: a bound
// identifier (Name set) or a default-value expression (Name empty).
type ParamSegment struct {
	Name       string
	Start, End int
}

// ParseParamPattern parses src as a function-parameter pattern (a bare
// identifier, or an array/object destructuring pattern, possibly with
// defaults) and returns its segments sorted by start offset.
func ParseParamPattern(src string) ([]ParamSegment, error) {
	prog, err := parser.ParseFile(nil, "", "(("+src+") => 0)", 0)
	if err != nil {
		return nil, &ParseError{Src: src, Err: err}
	}
	pw := &paramWalker{base: 3}
	stmt, ok := prog.Body[0].(*ast.ExpressionStatement)
	if !ok {
		return nil, &ParseError{Src: src, Err: errNotParam}
	}
	arrow, ok := stmt.Expression.(*ast.ArrowFunctionLiteral)
	if !ok {
		return nil, &ParseError{Src: src, Err: errNotParam}
	}
	for _, b := range arrow.ParameterList.List {
		pw.target(b.Target)
		if b.Initializer != nil {
			pw.defaultValue(b.Initializer)
		}
	}
	if arrow.ParameterList.Rest != nil {
		pw.target(arrow.ParameterList.Rest)
	}
	if pw.err != nil {
		return nil, pw.err
	}
	sort.Slice(pw.segs, func(i, j int) bool { return pw.segs[i].Start < pw.segs[j].Start })
	return pw.segs, nil
}

type paramWalker struct {
	base int
	segs []ParamSegment
	err  error
}

func (pw *paramWalker) add(s ParamSegment) {
	pw.segs = append(pw.segs, s)
}

func (pw *paramWalker) defaultValue(e ast.Expression) {
	pw.add(ParamSegment{
		Start: int(e.Idx0()) - pw.base,
		End:   int(e.Idx1()) - pw.base,
	})
}

func (pw *paramWalker) target(t ast.Expression) {
	if pw.err != nil || t == nil {
		return
	}
	switch n := t.(type) {
	case *ast.Identifier:
		start := int(n.Idx) - pw.base
		pw.add(ParamSegment{Name: n.Name.String(), Start: start, End: start + len(n.Name.String())})
	case *ast.ObjectPattern:
		for _, p := range n.Properties {
			switch q := p.(type) {
			case *ast.PropertyShort:
				start := int(q.Name.Idx) - pw.base
				pw.add(ParamSegment{Name: q.Name.Name.String(), Start: start, End: start + len(q.Name.Name.String())})
				if q.Initializer != nil {
					pw.defaultValue(q.Initializer)
				}
			case *ast.PropertyKeyed:
				pw.target(q.Value)
			case *ast.SpreadElement:
				pw.target(q.Expression)
			}
		}
		pw.target(n.Rest)
	case *ast.ArrayPattern:
		for _, v := range n.Elements {
			pw.target(v)
		}
		pw.target(n.Rest)
	case *ast.AssignExpression:
		pw.target(n.Left)
		pw.defaultValue(n.Right)
	default:
		pw.err = &ParseError{Src: "parameter pattern", Err: errNotParam}
	}
}
