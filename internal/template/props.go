package template

import (
	"github.com/loomlang/loom/internal/ir"
)

// propsBuilder accumulates one element's props expression, patch flag,
// dynamic-prop names and runtime directives. A no-arg v-bind or v-on
// switches the result to a mergeProps call over the collected pieces.
type propsBuilder struct {
	conv        *converter
	props       ir.Props
	mergeArgs   []ir.Expr
	patch       ir.PatchFlag
	dynProps    []string
	runtimeDirs []ir.RuntimeDir
}

func (pb *propsBuilder) attr(a *Attr, isComponent bool) error {
	d := parseDirective(a)
	if d == nil {
		if a.Name == "ref" {
			pb.patch |= ir.PatchNeedPatch
		}
		pb.props = append(pb.props, ir.Prop{
			Key:   ir.StrLit(a.Name),
			Value: ir.StrLit(a.Value),
		})
		return nil
	}
	switch d.name {
	case "if", "else-if", "else", "for":
		// structural, consumed upstream
		return nil
	case "slot":
		if !isComponent {
			return errAt(d.pos, "v-slot is only valid on a component or a slot template")
		}
		return nil
	case "bind":
		return pb.bind(d)
	case "on":
		return pb.on(d)
	default:
		pb.runtimeDir(d)
		return nil
	}
}

func (pb *propsBuilder) bind(d *directive) error {
	if !d.hasValue {
		return errAt(d.pos, "v-bind is missing its expression")
	}
	if d.arg == "" {
		// object spread form
		pb.flushToMerge()
		pb.mergeArgs = append(pb.mergeArgs, ir.NewSimple(d.value))
		pb.patch |= ir.PatchFullProps
		return nil
	}
	value := ir.Expr(ir.NewSimple(d.value))
	if d.dynamicArg {
		// dynamic keys defeat per-prop tracking
		pb.patch |= ir.PatchFullProps
		pb.props = append(pb.props, ir.Prop{Key: ir.NewSimple(d.arg), Value: value})
		return nil
	}
	name := d.arg
	if d.hasMod("camel") {
		name = camelize(name)
	}
	switch name {
	case "class":
		pb.patch |= ir.PatchClass
		value = ir.Call{Helper: ir.HelperNormalizeClass, Args: []ir.Expr{value}}
	case "style":
		pb.patch |= ir.PatchStyle
		value = ir.Call{Helper: ir.HelperNormalizeStyle, Args: []ir.Expr{value}}
	case "key":
		// tracked by the block itself
	case "ref":
		pb.patch |= ir.PatchNeedPatch
	default:
		pb.patch |= ir.PatchProps
		pb.dynProps = append(pb.dynProps, name)
	}
	pb.props = append(pb.props, ir.Prop{Key: ir.StrLit(name), Value: value})
	return nil
}

func (pb *propsBuilder) on(d *directive) error {
	if !d.hasValue {
		return errAt(d.pos, "v-on is missing its handler")
	}
	if d.arg == "" {
		// v-on="handlers" spreads a listener object
		pb.flushToMerge()
		pb.mergeArgs = append(pb.mergeArgs, ir.Call{
			Helper: ir.HelperToHandlers,
			Args:   []ir.Expr{ir.NewSimple(d.value)},
		})
		pb.patch |= ir.PatchFullProps
		return nil
	}
	value := ir.Expr(ir.NewSimple(d.value))
	if d.dynamicArg {
		pb.patch |= ir.PatchFullProps
		pb.props = append(pb.props, ir.Prop{
			Key:   ir.Call{Helper: ir.HelperToHandlerKey, Args: []ir.Expr{ir.NewSimple(d.arg)}},
			Value: value,
		})
		return nil
	}
	name := "on" + capitalize(camelize(d.arg))
	pb.patch |= ir.PatchProps
	pb.dynProps = append(pb.dynProps, name)
	pb.props = append(pb.props, ir.Prop{Key: ir.StrLit(name), Value: value})
	return nil
}

// runtimeDir records a directive applied at patch time via withDirectives.
func (pb *propsBuilder) runtimeDir(d *directive) {
	pb.conv.directive(d.name)
	rd := ir.RuntimeDir{
		Name: ir.NewSimple("_directive_" + ir.AssetID(d.name)),
	}
	if d.hasValue {
		rd.Expr = ir.NewSimple(d.value)
	}
	if d.arg != "" {
		if d.dynamicArg {
			rd.Arg = ir.NewSimple(d.arg)
		} else {
			rd.Arg = ir.StrLit(d.arg)
		}
	}
	if len(d.mods) > 0 {
		mods := make(ir.Props, 0, len(d.mods))
		for _, m := range d.mods {
			mods = append(mods, ir.Prop{Key: ir.StrLit(m), Value: ir.Src("true")})
		}
		rd.Mods = mods
	}
	pb.runtimeDirs = append(pb.runtimeDirs, rd)
}

func (pb *propsBuilder) flushToMerge() {
	if len(pb.props) > 0 {
		pb.mergeArgs = append(pb.mergeArgs, pb.props)
		pb.props = nil
	}
}

// finish folds the collected pieces into the final props expression; nil
// when the element has none.
func (pb *propsBuilder) finish() ir.Expr {
	if len(pb.mergeArgs) == 0 {
		if len(pb.props) == 0 {
			return nil
		}
		return pb.props
	}
	pb.flushToMerge()
	if len(pb.mergeArgs) == 1 {
		return pb.mergeArgs[0]
	}
	return ir.Call{Helper: ir.HelperMergeProps, Args: pb.mergeArgs}
}
