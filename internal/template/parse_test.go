package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ElementWithAttributes(t *testing.T) {
	nodes, err := Parse(`<div id="app" data-x='1' hidden>text</div>`)

	require.NoError(t, err)
	require.Len(t, nodes, 1)
	el, ok := nodes[0].(*Element)
	require.True(t, ok)
	assert.Equal(t, "div", el.Tag)
	require.Len(t, el.Attrs, 3)
	assert.Equal(t, "id", el.Attrs[0].Name)
	assert.Equal(t, "app", el.Attrs[0].Value)
	assert.True(t, el.Attrs[0].HasValue)
	assert.Equal(t, "data-x", el.Attrs[1].Name)
	assert.Equal(t, "1", el.Attrs[1].Value)
	assert.Equal(t, "hidden", el.Attrs[2].Name)
	assert.False(t, el.Attrs[2].HasValue)
	require.Len(t, el.Children, 1)
	assert.Equal(t, "text", el.Children[0].(*Text).Content)
}

func TestParse_Interpolation(t *testing.T) {
	nodes, err := Parse(`<p>{{  msg + "!"  }}</p>`)

	require.NoError(t, err)
	el := nodes[0].(*Element)
	require.Len(t, el.Children, 1)
	interp := el.Children[0].(*Interpolation)
	assert.Equal(t, `msg + "!"`, interp.Content, "surrounding whitespace is trimmed")
}

func TestParse_MixedTextAndInterpolation(t *testing.T) {
	nodes, err := Parse(`hello {{ name }}!`)

	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, "hello ", nodes[0].(*Text).Content)
	assert.Equal(t, "name", nodes[1].(*Interpolation).Content)
	assert.Equal(t, "!", nodes[2].(*Text).Content)
}

func TestParse_Comment(t *testing.T) {
	nodes, err := Parse(`<!-- a note -->`)

	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, " a note ", nodes[0].(*Comment).Content)
}

func TestParse_SelfClosingAndVoid(t *testing.T) {
	nodes, err := Parse(`<br><img src="x.png"><MyWidget/>`)

	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, "br", nodes[0].(*Element).Tag)
	assert.Equal(t, "img", nodes[1].(*Element).Tag)
	widget := nodes[2].(*Element)
	assert.Equal(t, "MyWidget", widget.Tag)
	assert.True(t, widget.SelfClosing)
}

func TestParse_DirectiveAttributeNames(t *testing.T) {
	nodes, err := Parse(`<div :class="c" @click="go" v-show="ok" #header v-bind:[key]="v"></div>`)

	require.NoError(t, err)
	el := nodes[0].(*Element)
	names := make([]string, len(el.Attrs))
	for i, a := range el.Attrs {
		names[i] = a.Name
	}
	assert.Equal(t, []string{":class", "@click", "v-show", "#header", "v-bind:[key]"}, names)
}

func TestParse_EntityDecoding(t *testing.T) {
	nodes, err := Parse(`<p title="a &amp; b">x &lt; y</p>`)

	require.NoError(t, err)
	el := nodes[0].(*Element)
	assert.Equal(t, "a & b", el.Attrs[0].Value)
	assert.Equal(t, "x < y", el.Children[0].(*Text).Content)
}

func TestParse_CustomEntityDecoder(t *testing.T) {
	nodes, err := ParseWithOptions(`<p title="a &amp; b">x &lt; y</p>`, ParserOptions{
		DecodeEntities: func(s string) string { return s },
	})

	require.NoError(t, err)
	el := nodes[0].(*Element)
	assert.Equal(t, "a &amp; b", el.Attrs[0].Value)
	assert.Equal(t, "x &lt; y", el.Children[0].(*Text).Content)
}

func TestParse_LessThanInText(t *testing.T) {
	nodes, err := Parse(`<p>a < b</p>`)

	require.NoError(t, err)
	el := nodes[0].(*Element)
	var text string
	for _, c := range el.Children {
		text += c.(*Text).Content
	}
	assert.Equal(t, "a < b", text)
}

func TestParse_UnclosedElement(t *testing.T) {
	_, err := Parse(`<div><p>hi</div>`)

	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Message, "</div>")
}

func TestParse_StrayClosingTag(t *testing.T) {
	_, err := Parse(`</div>`)
	require.Error(t, err)
}

func TestParse_UnterminatedComment(t *testing.T) {
	_, err := Parse(`<!-- oops`)
	require.Error(t, err)
}

func TestParse_UnterminatedInterpolation(t *testing.T) {
	_, err := Parse(`<p>{{ msg </p>`)
	require.Error(t, err)
}

func TestParse_ErrorPosition(t *testing.T) {
	_, err := Parse("<div>\n  <p>hi\n</div>")

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 3, pe.Line)
}
