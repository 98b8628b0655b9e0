package transform

import (
	"sort"
	"strings"

	"github.com/loomlang/loom/internal/ir"
	"github.com/loomlang/loom/internal/jsparse"
)

// assetPrefixes mark identifiers resolved in the render prologue rather
// than against the context.
var assetPrefixes = []string{"_component_", "_directive_"}

// renderLocals are the identifiers the render-function signature and the
// inline emission introduce. References to them are already resolved;
// prefixing one again would break rewrite idempotence.
var renderLocals = map[string]bool{
	"_ctx":    true,
	"_cache":  true,
	"__props": true,
}

// isResolvedName reports whether name already resolves inside the render
// function without context prefixing: a render-function local or a hoisted
// asset id.
func isResolvedName(name string) bool {
	if renderLocals[name] {
		return true
	}
	for _, p := range assetPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// IsHoistedAsset reports whether e is a hoisted component/directive lookup.
func IsHoistedAsset(e ir.Expr) bool {
	s, ok := e.(ir.Simple)
	if !ok {
		return false
	}
	for _, p := range assetPrefixes {
		if strings.HasPrefix(s.Raw, p) {
			return true
		}
	}
	return false
}

// ExpressionProcessor tracks template-introduced variables (v-for and
// v-slot parameters) and prefixes expressions against binding origin.
type ExpressionProcessor struct {
	Option *Options
}

func (p *ExpressionProcessor) EnterFnParam(e *ir.Expr, sc *Scope) error {
	if err := p.processFnParam(e); err != nil {
		return err
	}
	switch x := (*e).(type) {
	case ir.Param:
		sc.Add(string(x))
	case ir.Compound:
		for _, id := range onlyParamIDs(x) {
			sc.Add(id)
		}
	default:
		panic("transform: only a Param is legal in parameter position")
	}
	return nil
}

func (p *ExpressionProcessor) ExitFnParam(e *ir.Expr, sc *Scope) error {
	switch x := (*e).(type) {
	case ir.Param:
		sc.Remove(string(x))
	case ir.Compound:
		for _, id := range onlyParamIDs(x) {
			sc.Remove(id)
		}
	default:
		panic("transform: only a Param is legal in parameter position")
	}
	return nil
}

func (p *ExpressionProcessor) EnterJSExpr(e *ir.Expr, sc *Scope) error {
	return nil
}

// ExitJSExpr rewrites an expression only after its sub-expressions were
// rewritten (compound/array/call expressions are handled recursively by the
// transformer).
func (p *ExpressionProcessor) ExitJSExpr(e *ir.Expr, sc *Scope) error {
	return p.processExpression(e, sc)
}

func (p *ExpressionProcessor) processExpression(e *ir.Expr, sc *Scope) error {
	if !p.Option.PrefixIdentifiers {
		return nil
	}
	// hoisted component/directive lookups are resolved elsewhere
	if p.Option.isHoistedAsset(*e) {
		return nil
	}
	if _, ok := (*e).(ir.Simple); !ok {
		return nil
	}
	if p.processExprFast(e, sc) {
		return nil
	}
	return p.processWithParser(e, sc)
}

// processExprFast prefixes a bare identifier without parsing JS.
func (p *ExpressionProcessor) processExprFast(e *ir.Expr, sc *Scope) bool {
	x := (*e).(ir.Simple)
	if !jsparse.IsSimpleIdentifier(x.Raw) {
		return false
	}
	raw := x.Raw
	if isResolvedName(raw) {
		return true
	}
	isScopeReference := sc.Has(raw)
	isAllowedGlobal := p.Option.isGlobal(raw)
	isLiteral := isLiteralKeyword(raw)
	switch {
	case !isScopeReference && !isAllowedGlobal && !isLiteral:
		// const bindings from setup can skip patching but cannot be hoisted
		lvl := x.Level
		if p.Option.Bindings[raw] == ir.BindingSetupConst {
			lvl = ir.CanSkipPatch
		}
		*e = p.rewriteIdentifier(raw, lvl, writeCtx{})
	case !isScopeReference:
		if isLiteral {
			x.Level = ir.CanStringify
		} else {
			x.Level = ir.CanHoist
		}
		*e = x
	}
	return true
}

func isLiteralKeyword(s string) bool {
	switch s {
	case "true", "false", "null", "this":
		return true
	}
	return false
}

// processWithParser handles everything that is not a bare identifier: the
// text is parsed, free variables are rewritten, and the expression becomes
// an ordered compound of raw slices and rewritten identifiers.
func (p *ExpressionProcessor) processWithParser(e *ir.Expr, sc *Scope) error {
	x := (*e).(ir.Simple)
	atoms, err := p.breakDownComplexExpression(x.Raw, sc)
	if err != nil {
		return err
	}
	rebuilt, err := p.reuniteAtoms(x.Raw, atoms, sc)
	if err != nil {
		return err
	}
	*e = rebuilt
	return nil
}

func (p *ExpressionProcessor) breakDownComplexExpression(raw string, sc *Scope) ([]jsparse.FreeVar, error) {
	var atoms []jsparse.FreeVar
	err := p.Option.walkFreeVars(raw, func(fv jsparse.FreeVar) {
		if p.Option.isGlobal(fv.Name) || fv.Name == "require" || isResolvedName(fv.Name) {
			return
		}
		// skip identifiers defined in the template scope
		if sc.Has(fv.Name) {
			return
		}
		atoms = append(atoms, fv)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(atoms, func(i, j int) bool {
		si, _ := p.consumedRange(atoms[i])
		sj, _ := p.consumedRange(atoms[j])
		return si < sj
	})
	return atoms, nil
}

// consumedRange is the byte range an atom replaces. Assign/update targets
// of let bindings substitute their whole enclosing expression so the isRef
// ternary covers the operator.
func (p *ExpressionProcessor) consumedRange(fv jsparse.FreeVar) (int, int) {
	if p.Option.Inline &&
		p.Option.Bindings[fv.Name] == ir.BindingSetupLet &&
		(fv.Write == jsparse.WriteAssign || fv.Write == jsparse.WriteUpdate) {
		return fv.SpanStart, fv.SpanEnd
	}
	return fv.Start, fv.End
}

func (p *ExpressionProcessor) reuniteAtoms(raw string, atoms []jsparse.FreeVar, sc *Scope) (ir.Expr, error) {
	inner := ir.Compound{}
	last := 0
	for _, fv := range atoms {
		start, end := p.consumedRange(fv)
		if start < last {
			// nested inside a span consumed by a preceding atom; its
			// rewrite already covers this reference
			continue
		}
		if last < start {
			inner = append(inner, ir.Src(raw[last:start]))
		}
		last = end
		ctx, err := p.makeWriteCtx(raw, fv, sc)
		if err != nil {
			return nil, err
		}
		inner = append(inner, p.rewriteIdentifier(fv.Name, ir.NotStatic, ctx))
	}
	if last < len(raw) {
		inner = append(inner, ir.Src(raw[last:]))
	}
	return inner, nil
}

// writeCtx is the write-context tag attached to a rewritten identifier.
// Only meaningful in inline mode; the zero value is a plain read.
type writeCtx struct {
	kind   jsparse.WriteKind
	assign ir.Expr // operator plus rewritten right-hand side
	op     string  // update operator
	prefix bool    // update operator precedes the operand
}

func (p *ExpressionProcessor) makeWriteCtx(raw string, fv jsparse.FreeVar, sc *Scope) (writeCtx, error) {
	if !p.Option.Inline || fv.Write == jsparse.WriteNone {
		return writeCtx{}, nil
	}
	ctx := writeCtx{kind: fv.Write, op: fv.Op, prefix: fv.Prefix}
	if fv.Write == jsparse.WriteAssign {
		// the right-hand side is substituted twice by the isRef ternary;
		// rewrite it through the same machinery
		rhs := ir.Expr(ir.NewSimple(raw[fv.RHSStart:fv.SpanEnd]))
		if err := p.processExpression(&rhs, sc); err != nil {
			return writeCtx{}, err
		}
		ctx.assign = ir.Compound{ir.Src(" " + fv.Op + " "), rhs}
	}
	return ctx, nil
}

func (p *ExpressionProcessor) rewriteIdentifier(raw string, level ir.StaticLevel, ctx writeCtx) ir.Expr {
	bind, known := p.Option.Bindings[raw]
	if !known {
		return ir.Simple{Raw: "_ctx." + raw, Level: level}
	}
	if p.Option.Inline {
		return rewriteInlineIdentifier(raw, level, bind, ctx)
	}
	// non-inline mode resolves every known binding through the render
	// proxy, which unwraps refs at runtime
	return ir.Simple{Raw: "_ctx." + raw, Level: level}
}

func rewriteInlineIdentifier(raw string, level ir.StaticLevel, bind ir.BindingType, ctx writeCtx) ir.Expr {
	expr := func() ir.Expr { return ir.Simple{Raw: raw, Level: level} }
	dotValue := func() ir.Expr { return ir.Compound{expr(), ir.Src(".value")} }
	switch bind {
	case ir.BindingSetupConst:
		return expr()
	case ir.BindingSetupRef:
		return dotValue()
	case ir.BindingSetupMaybeRef:
		// a const binding that may or may not be a ref: assignments only
		// make sense if it is one, so writes assume the ref case
		if ctx.kind != jsparse.WriteNone {
			return dotValue()
		}
		return ir.Call{Helper: ir.HelperUnref, Args: []ir.Expr{expr()}}
	case ir.BindingSetupLet:
		return rewriteSetupLet(ctx, expr, dotValue)
	case ir.BindingProps:
		return ir.Compound{ir.Src("__props."), expr()}
	default: // data and options bindings
		return ir.Compound{ir.Src("_ctx."), expr()}
	}
}

func rewriteSetupLet(ctx writeCtx, expr func() ir.Expr, dotValue func() ir.Expr) ir.Expr {
	isRef := func() ir.Expr {
		return ir.Call{Helper: ir.HelperIsRef, Args: []ir.Expr{expr()}}
	}
	switch ctx.kind {
	case jsparse.WriteAssign:
		return ir.Compound{
			isRef(), ir.Src(" ? "),
			dotValue(), ctx.assign,
			ir.Src(" : "),
			expr(), ctx.assign,
		}
	case jsparse.WriteUpdate:
		op := ir.Src(ctx.op)
		parts := ir.Compound{isRef(), ir.Src(" ? ")}
		push := func(val ir.Expr) {
			if ctx.prefix {
				parts = append(parts, op, val)
			} else {
				parts = append(parts, val, op)
			}
		}
		push(dotValue())
		parts = append(parts, ir.Src(" : "))
		push(expr())
		return parts
	case jsparse.WriteDestructure:
		// a let binding as a destructure target cannot be rewritten
		// without restructuring the whole pattern; assume it is not a ref
		return expr()
	default:
		return ir.Call{Helper: ir.HelperUnref, Args: []ir.Expr{expr()}}
	}
}

// processFnParam breaks a destructuring parameter pattern into a compound
// of raw slices, parameter markers and default-value expressions. A bare
// identifier stays as it is.
func (p *ExpressionProcessor) processFnParam(e *ir.Expr) error {
	param, ok := (*e).(ir.Param)
	if !ok {
		return nil
	}
	raw := string(param)
	if jsparse.IsSimpleIdentifier(raw) {
		return nil
	}
	segs, err := p.Option.parseParamPattern(raw)
	if err != nil {
		return err
	}
	comp := ir.Compound{}
	last := 0
	for _, s := range segs {
		if last < s.Start {
			comp = append(comp, ir.Src(raw[last:s.Start]))
		}
		if s.Name != "" {
			comp = append(comp, ir.Param(s.Name))
		} else {
			comp = append(comp, ir.NewSimple(raw[s.Start:s.End]))
		}
		last = s.End
	}
	if last < len(raw) {
		comp = append(comp, ir.Src(raw[last:]))
	}
	*e = comp
	return nil
}

// onlyParamIDs extracts the genuine parameter markers of a broken-down
// pattern; raw slices and (already rewritten) default values are skipped.
func onlyParamIDs(c ir.Compound) []string {
	var ids []string
	for _, e := range c {
		switch x := e.(type) {
		case ir.Param:
			ids = append(ids, string(x))
		case ir.Src, ir.Simple, ir.Compound, ir.Call:
		default:
			panic("transform: illegal sub-expression kind in parameter")
		}
	}
	return ids
}
