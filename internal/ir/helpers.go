package ir

// RuntimeHelper enumerates the runtime-library symbols the generated code
// may reference. A helper resolves to its emitted identifier (prefixed with
// an underscore) only at generation time.
type RuntimeHelper uint8

const (
	HelperFragment RuntimeHelper = iota
	HelperTeleport
	HelperSuspense
	HelperKeepAlive
	HelperBaseTransition
	HelperOpenBlock
	HelperCreateBlock
	HelperCreateElementBlock
	HelperCreateVNode
	HelperCreateElementVNode
	HelperCreateComment
	HelperCreateText
	HelperCreateStatic
	HelperResolveComponent
	HelperResolveDynamicComponent
	HelperResolveDirective
	HelperWithDirectives
	HelperRenderList
	HelperRenderSlot
	HelperCreateSlots
	HelperToDisplayString
	HelperMergeProps
	HelperNormalizeClass
	HelperNormalizeStyle
	HelperNormalizeProps
	HelperToHandlers
	HelperCamelize
	HelperCapitalize
	HelperToHandlerKey
	HelperSetBlockTracking
	HelperWithCtx
	HelperUnref
	HelperIsRef
	HelperWithMemo
	HelperIsMemoSame
)

var helperNames = [...]string{
	HelperFragment:                "Fragment",
	HelperTeleport:                "Teleport",
	HelperSuspense:                "Suspense",
	HelperKeepAlive:               "KeepAlive",
	HelperBaseTransition:          "BaseTransition",
	HelperOpenBlock:               "openBlock",
	HelperCreateBlock:             "createBlock",
	HelperCreateElementBlock:      "createElementBlock",
	HelperCreateVNode:             "createVNode",
	HelperCreateElementVNode:      "createElementVNode",
	HelperCreateComment:           "createCommentVNode",
	HelperCreateText:              "createTextVNode",
	HelperCreateStatic:            "createStaticVNode",
	HelperResolveComponent:        "resolveComponent",
	HelperResolveDynamicComponent: "resolveDynamicComponent",
	HelperResolveDirective:        "resolveDirective",
	HelperWithDirectives:          "withDirectives",
	HelperRenderList:              "renderList",
	HelperRenderSlot:              "renderSlot",
	HelperCreateSlots:             "createSlots",
	HelperToDisplayString:         "toDisplayString",
	HelperMergeProps:              "mergeProps",
	HelperNormalizeClass:          "normalizeClass",
	HelperNormalizeStyle:          "normalizeStyle",
	HelperNormalizeProps:          "normalizeProps",
	HelperToHandlers:              "toHandlers",
	HelperCamelize:                "camelize",
	HelperCapitalize:              "capitalize",
	HelperToHandlerKey:            "toHandlerKey",
	HelperSetBlockTracking:        "setBlockTracking",
	HelperWithCtx:                 "withCtx",
	HelperUnref:                   "unref",
	HelperIsRef:                   "isRef",
	HelperWithMemo:                "withMemo",
	HelperIsMemoSame:              "isMemoSame",
}

// HelperStr returns the runtime export name for the helper.
func (h RuntimeHelper) HelperStr() string {
	return helperNames[h]
}
