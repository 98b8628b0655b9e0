package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomlang/loom/internal/ir"
)

func lower(t *testing.T, src string) *ir.Root {
	t.Helper()
	nodes, err := Parse(src)
	require.NoError(t, err)
	root, err := Convert(nodes)
	require.NoError(t, err)
	return root
}

func lowerErr(t *testing.T, src string) error {
	t.Helper()
	nodes, err := Parse(src)
	require.NoError(t, err)
	_, err = Convert(nodes)
	require.Error(t, err)
	return err
}

func TestConvert_TextAndInterpolationMerge(t *testing.T) {
	root := lower(t, `hi {{ name }}!`)

	require.Len(t, root.Body, 1)
	text, ok := root.Body[0].(*ir.TextNode)
	require.True(t, ok)
	require.Len(t, text.Texts, 3)
	assert.Equal(t, ir.StrLit("hi "), text.Texts[0])
	call, ok := text.Texts[1].(ir.Call)
	require.True(t, ok)
	assert.Equal(t, ir.HelperToDisplayString, call.Helper)
	assert.Equal(t, ir.StrLit("!"), text.Texts[2])
}

func TestConvert_InteriorWhitespaceCondensed(t *testing.T) {
	root := lower(t, "<div>hello       world</div>")

	div := root.Body[0].(*ir.VNodeCall)
	text := div.Children[0].(*ir.TextNode)
	assert.Equal(t, ir.StrLit("hello world"), text.Texts[0])
}

func TestConvert_NewlineWhitespaceDropped(t *testing.T) {
	root := lower(t, "<div>\n  <p></p>\n  <p></p>\n</div>")

	div := root.Body[0].(*ir.VNodeCall)
	require.Len(t, div.Children, 2)
	for _, c := range div.Children {
		_, ok := c.(*ir.VNodeCall)
		assert.True(t, ok)
	}
}

func TestConvert_NonBreakingSpacePreserved(t *testing.T) {
	root := lower(t, "<div><b>a</b>&nbsp;<b>b</b></div>")

	div := root.Body[0].(*ir.VNodeCall)
	require.Len(t, div.Children, 3)
	text, ok := div.Children[1].(*ir.TextNode)
	require.True(t, ok, "a non-breaking space between elements is content")
	assert.Equal(t, ir.StrLit("\u00a0"), text.Texts[0])
}

func TestConvert_RootElementIsBlock(t *testing.T) {
	root := lower(t, `<div id="app"></div>`)

	div := root.Body[0].(*ir.VNodeCall)
	assert.True(t, div.IsBlock)
	assert.False(t, div.IsComponent)
	assert.Equal(t, ir.StrLit("div"), div.Tag)
	props := div.Props.(ir.Props)
	require.Len(t, props, 1)
	assert.Equal(t, ir.StrLit("id"), props[0].Key)
	assert.Equal(t, ir.StrLit("app"), props[0].Value)
	assert.Equal(t, ir.PatchFlag(0), div.PatchFlag)
}

func TestConvert_DynamicProp(t *testing.T) {
	root := lower(t, `<div :title="t"></div>`)

	div := root.Body[0].(*ir.VNodeCall)
	assert.Equal(t, ir.PatchProps, div.PatchFlag)
	assert.Equal(t, []string{"title"}, div.DynamicProps)
	props := div.Props.(ir.Props)
	assert.Equal(t, ir.NewSimple("t"), props[0].Value)
}

func TestConvert_ClassAndStyleBindings(t *testing.T) {
	root := lower(t, `<div :class="c" :style="s"></div>`)

	div := root.Body[0].(*ir.VNodeCall)
	assert.Equal(t, ir.PatchClass|ir.PatchStyle, div.PatchFlag)
	props := div.Props.(ir.Props)
	cls := props[0].Value.(ir.Call)
	assert.Equal(t, ir.HelperNormalizeClass, cls.Helper)
	style := props[1].Value.(ir.Call)
	assert.Equal(t, ir.HelperNormalizeStyle, style.Helper)
}

func TestConvert_DynamicKeyForcesFullProps(t *testing.T) {
	root := lower(t, `<div :[k]="v"></div>`)

	div := root.Body[0].(*ir.VNodeCall)
	assert.Equal(t, ir.PatchFullProps, div.PatchFlag)
	props := div.Props.(ir.Props)
	assert.Equal(t, ir.NewSimple("k"), props[0].Key)
}

func TestConvert_BindObjectMergesProps(t *testing.T) {
	root := lower(t, `<div id="a" v-bind="rest"></div>`)

	div := root.Body[0].(*ir.VNodeCall)
	assert.Equal(t, ir.PatchFullProps, div.PatchFlag)
	merge, ok := div.Props.(ir.Call)
	require.True(t, ok)
	assert.Equal(t, ir.HelperMergeProps, merge.Helper)
	require.Len(t, merge.Args, 2)
	assert.Equal(t, ir.NewSimple("rest"), merge.Args[1])
}

func TestConvert_EventHandler(t *testing.T) {
	root := lower(t, `<button @click="go">x</button>`)

	btn := root.Body[0].(*ir.VNodeCall)
	assert.Equal(t, ir.PatchProps, btn.PatchFlag)
	assert.Equal(t, []string{"onClick"}, btn.DynamicProps)
	props := btn.Props.(ir.Props)
	assert.Equal(t, ir.StrLit("onClick"), props[0].Key)
	assert.Equal(t, ir.NewSimple("go"), props[0].Value)
}

func TestConvert_KebabEventNameCamelized(t *testing.T) {
	root := lower(t, `<div @update-value="go"></div>`)

	div := root.Body[0].(*ir.VNodeCall)
	props := div.Props.(ir.Props)
	assert.Equal(t, ir.StrLit("onUpdateValue"), props[0].Key)
}

func TestConvert_DynamicTextSetsFlag(t *testing.T) {
	root := lower(t, `<p>{{ msg }}</p>`)

	p := root.Body[0].(*ir.VNodeCall)
	assert.Equal(t, ir.PatchText, p.PatchFlag)
}

func TestConvert_StaticTextNoFlag(t *testing.T) {
	root := lower(t, `<p>static</p>`)

	p := root.Body[0].(*ir.VNodeCall)
	assert.Equal(t, ir.PatchFlag(0), p.PatchFlag)
}

func TestConvert_IfChain(t *testing.T) {
	root := lower(t, `<p v-if="a">1</p><p v-else-if="b">2</p><p v-else>3</p>`)

	require.Len(t, root.Body, 1)
	chain := root.Body[0].(*ir.IfNode)
	require.Len(t, chain.Branches, 3)
	assert.Equal(t, ir.NewSimple("a"), chain.Branches[0].Condition)
	assert.Equal(t, ir.NewSimple("b"), chain.Branches[1].Condition)
	assert.Nil(t, chain.Branches[2].Condition)
	for _, b := range chain.Branches {
		assert.True(t, b.Child.(*ir.VNodeCall).IsBlock,
			"every branch opens its own block")
	}
}

func TestConvert_ElseWithoutIf(t *testing.T) {
	err := lowerErr(t, `<p v-else>3</p>`)
	assert.Contains(t, err.Error(), "v-else")
}

func TestConvert_For(t *testing.T) {
	root := lower(t, `<li v-for="(item, i) in items" :key="item.id"></li>`)

	loop := root.Body[0].(*ir.ForNode)
	assert.Equal(t, ir.NewSimple("items"), loop.Source)
	assert.Equal(t, ir.Param("item"), loop.Value)
	assert.Equal(t, ir.Param("i"), loop.Key)
	assert.Nil(t, loop.Index)
	assert.Equal(t, ir.PatchKeyedFragment, loop.PatchFlag)
	assert.True(t, loop.Child.(*ir.VNodeCall).IsBlock)
}

func TestConvert_ForWithoutKeyIsUnkeyed(t *testing.T) {
	root := lower(t, `<li v-for="item of items"></li>`)

	loop := root.Body[0].(*ir.ForNode)
	assert.Equal(t, ir.PatchUnkeyedFragment, loop.PatchFlag)
}

func TestConvert_ForMissingInClause(t *testing.T) {
	err := lowerErr(t, `<li v-for="items"></li>`)
	assert.Contains(t, err.Error(), "v-for")
}

func TestConvert_ComponentDetection(t *testing.T) {
	root := lower(t, `<MyWidget :value="v"/><my-widget/>`)

	assert.Equal(t, []string{"MyWidget", "my-widget"}, root.Components)
	first := root.Body[0].(*ir.VNodeCall)
	assert.True(t, first.IsComponent)
	assert.Equal(t, ir.NewSimple("_component_MyWidget"), first.Tag)
	second := root.Body[1].(*ir.VNodeCall)
	assert.Equal(t, ir.NewSimple("_component_my_widget"), second.Tag)
}

func TestConvert_BuiltinComponent(t *testing.T) {
	root := lower(t, `<Teleport to="#modal"><p>x</p></Teleport>`)

	tp := root.Body[0].(*ir.VNodeCall)
	assert.Equal(t, ir.Symbol(ir.HelperTeleport), tp.Tag)
	assert.True(t, tp.IsComponent)
	assert.Empty(t, root.Components)
}

func TestConvert_SlotOutlet(t *testing.T) {
	root := lower(t, `<slot name="header" :user="u">fallback</slot>`)

	out := root.Body[0].(*ir.RenderSlotCall)
	assert.Equal(t, ir.NewSimple("$slots"), out.SlotObj)
	assert.Equal(t, ir.StrLit("header"), out.SlotName)
	props := out.Props.(ir.Props)
	assert.Equal(t, ir.StrLit("user"), props[0].Key)
	require.Len(t, out.Fallback, 1)
}

func TestConvert_DefaultSlotOutlet(t *testing.T) {
	root := lower(t, `<slot></slot>`)

	out := root.Body[0].(*ir.RenderSlotCall)
	assert.Equal(t, ir.StrLit("default"), out.SlotName)
	assert.Nil(t, out.Props)
	assert.Empty(t, out.Fallback)
}

func TestConvert_ComponentSlotTemplates(t *testing.T) {
	root := lower(t, `<Card><template #header>H</template><template #default="scope">B</template></Card>`)

	card := root.Body[0].(*ir.VNodeCall)
	require.Len(t, card.Children, 1)
	slots := card.Children[0].(*ir.VSlotNode)
	require.Len(t, slots.StableSlots, 2)
	assert.Equal(t, ir.StrLit("header"), slots.StableSlots[0].Name)
	assert.Nil(t, slots.StableSlots[0].Param)
	assert.Equal(t, ir.StrLit("default"), slots.StableSlots[1].Name)
	assert.Equal(t, ir.Param("scope"), slots.StableSlots[1].Param)
	assert.Empty(t, slots.AlterableSlots)
	assert.Equal(t, ir.PatchFlag(0), card.PatchFlag&ir.PatchDynamicSlots)
}

func TestConvert_ImplicitDefaultSlot(t *testing.T) {
	root := lower(t, `<Card><p>x</p></Card>`)

	card := root.Body[0].(*ir.VNodeCall)
	slots := card.Children[0].(*ir.VSlotNode)
	require.Len(t, slots.StableSlots, 1)
	assert.Equal(t, ir.StrLit("default"), slots.StableSlots[0].Name)
	require.Len(t, slots.StableSlots[0].Body, 1)
}

func TestConvert_ConditionalSlotIsAlterable(t *testing.T) {
	root := lower(t, `<Card><template #extra v-if="ok">E</template></Card>`)

	card := root.Body[0].(*ir.VNodeCall)
	slots := card.Children[0].(*ir.VSlotNode)
	assert.Empty(t, slots.StableSlots)
	require.Len(t, slots.AlterableSlots, 1)
	cond := slots.AlterableSlots[0].(*ir.IfNode)
	require.Len(t, cond.Branches, 1)
	_, ok := cond.Branches[0].Child.(*ir.AlterableSlotNode)
	assert.True(t, ok)
	assert.NotZero(t, card.PatchFlag&ir.PatchDynamicSlots)
}

func TestConvert_RuntimeDirective(t *testing.T) {
	root := lower(t, `<input v-model="text">`)

	assert.Equal(t, []string{"model"}, root.Directives)
	input := root.Body[0].(*ir.VNodeCall)
	require.Len(t, input.Directives, 1)
	assert.Equal(t, ir.NewSimple("_directive_model"), input.Directives[0].Name)
	assert.Equal(t, ir.NewSimple("text"), input.Directives[0].Expr)
	assert.NotZero(t, input.PatchFlag&ir.PatchNeedPatch)
}

func TestConvert_DirectiveArgAndModifiers(t *testing.T) {
	root := lower(t, `<div v-pin:top.animate="pos"></div>`)

	div := root.Body[0].(*ir.VNodeCall)
	require.Len(t, div.Directives, 1)
	d := div.Directives[0]
	assert.Equal(t, ir.StrLit("top"), d.Arg)
	mods := d.Mods.(ir.Props)
	require.Len(t, mods, 1)
	assert.Equal(t, ir.StrLit("animate"), mods[0].Key)
}

func TestConvert_SlotOnPlainElement(t *testing.T) {
	err := lowerErr(t, `<div v-slot="x"></div>`)
	assert.Contains(t, err.Error(), "v-slot")
}

func TestConvert_CommentBecomesCommentNode(t *testing.T) {
	root := lower(t, `<div><!-- note --></div>`)

	div := root.Body[0].(*ir.VNodeCall)
	require.Len(t, div.Children, 1)
	assert.Equal(t, " note ", div.Children[0].(*ir.CommentNode).Text)
}

func TestConvert_TemplateWrapperUnwraps(t *testing.T) {
	root := lower(t, `<div><template v-if="ok"><p>a</p><p>b</p></template></div>`)

	div := root.Body[0].(*ir.VNodeCall)
	chain := div.Children[0].(*ir.IfNode)
	frag := chain.Branches[0].Child.(*ir.VNodeCall)
	assert.Equal(t, ir.Symbol(ir.HelperFragment), frag.Tag)
	require.Len(t, frag.Children, 2)
}
