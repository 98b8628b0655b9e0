package transform

import (
	"github.com/loomlang/loom/internal/ir"
	"github.com/loomlang/loom/internal/jsparse"
)

// Options configures the transformation of one template. The parsing
// capabilities are injectable; nil fields fall back to the jsparse
// implementations.
type Options struct {
	// PrefixIdentifiers enables identifier rewriting against binding
	// origin. When disabled the expression processor is a no-op.
	PrefixIdentifiers bool

	// Inline selects the emission mode that avoids the _ctx indirection
	// for setup bindings (ref unwrapping happens in generated code rather
	// than through the render proxy).
	Inline bool

	// Bindings classifies identifier origins. Immutable per compilation.
	Bindings ir.BindingMetadata

	// WalkFreeVars enumerates free-variable references of a JS expression.
	WalkFreeVars func(src string, visit func(jsparse.FreeVar)) error

	// IsGlobal reports whether a name is a whitelisted JS global.
	IsGlobal func(name string) bool

	// ParseParamPattern breaks a parameter pattern into segments.
	ParseParamPattern func(src string) ([]jsparse.ParamSegment, error)

	// IsHoistedAsset reports expressions resolved outside the render body
	// (component/directive lookups); those are never prefixed.
	IsHoistedAsset func(e ir.Expr) bool
}

func (o *Options) walkFreeVars(src string, visit func(jsparse.FreeVar)) error {
	if o.WalkFreeVars != nil {
		return o.WalkFreeVars(src, visit)
	}
	return jsparse.WalkFreeVariables(src, visit)
}

func (o *Options) isGlobal(name string) bool {
	if o.IsGlobal != nil {
		return o.IsGlobal(name)
	}
	return jsparse.IsGlobalAllowListed(name)
}

func (o *Options) parseParamPattern(src string) ([]jsparse.ParamSegment, error) {
	if o.ParseParamPattern != nil {
		return o.ParseParamPattern(src)
	}
	return jsparse.ParseParamPattern(src)
}

func (o *Options) isHoistedAsset(e ir.Expr) bool {
	if o.IsHoistedAsset != nil {
		return o.IsHoistedAsset(e)
	}
	return IsHoistedAsset(e)
}
