package ir

import (
	"strconv"
	"strings"
)

// PatchFlag is a bitset of reasons a vnode may change at runtime. Flags are
// combined by OR; the empty set means the vnode is static. The runtime uses
// the flag to skip full diffing.
type PatchFlag int32

const (
	PatchText PatchFlag = 1 << iota
	PatchClass
	PatchStyle
	PatchProps
	PatchFullProps
	PatchNeedHydration
	PatchStableFragment
	PatchKeyedFragment
	PatchUnkeyedFragment
	PatchNeedPatch
	PatchDynamicSlots
	PatchDevRootFragment
)

// Special non-bit values. Never combined with the flags above.
const (
	PatchHoisted PatchFlag = -1
	PatchBail    PatchFlag = -2
)

var patchFlagNames = []struct {
	flag PatchFlag
	name string
}{
	{PatchText, "TEXT"},
	{PatchClass, "CLASS"},
	{PatchStyle, "STYLE"},
	{PatchProps, "PROPS"},
	{PatchFullProps, "FULL_PROPS"},
	{PatchNeedHydration, "NEED_HYDRATION"},
	{PatchStableFragment, "STABLE_FRAGMENT"},
	{PatchKeyedFragment, "KEYED_FRAGMENT"},
	{PatchUnkeyedFragment, "UNKEYED_FRAGMENT"},
	{PatchNeedPatch, "NEED_PATCH"},
	{PatchDynamicSlots, "DYNAMIC_SLOTS"},
	{PatchDevRootFragment, "DEV_ROOT_FRAGMENT"},
}

// String renders the flag names for debug comments, e.g. "TEXT, PROPS".
func (f PatchFlag) String() string {
	switch f {
	case 0:
		return ""
	case PatchHoisted:
		return "HOISTED"
	case PatchBail:
		return "BAIL"
	}
	var names []string
	for _, e := range patchFlagNames {
		if f&e.flag != 0 {
			names = append(names, e.name)
		}
	}
	if len(names) == 0 {
		return strconv.Itoa(int(f))
	}
	return strings.Join(names, ", ")
}

// StaticLevel classifies how aggressively a Simple expression can be
// optimized. Levels are strictly ordered:
//
//	NotStatic < CanSkipPatch < CanHoist < CanStringify
//
// An expression must never be assigned a level that overstates its actual
// optimizability.
type StaticLevel uint8

const (
	// NotStatic expressions must be re-evaluated on every render.
	NotStatic StaticLevel = iota
	// CanSkipPatch expressions never change after setup, but cannot move
	// out of the render function (e.g. setup const bindings).
	CanSkipPatch
	// CanHoist expressions can be computed once outside the render function.
	CanHoist
	// CanStringify expressions can be folded into static strings.
	CanStringify
)

func (l StaticLevel) String() string {
	switch l {
	case NotStatic:
		return "not-static"
	case CanSkipPatch:
		return "can-skip-patch"
	case CanHoist:
		return "can-hoist"
	case CanStringify:
		return "can-stringify"
	}
	return "static-level(" + strconv.Itoa(int(l)) + ")"
}
