package jsparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, src string) []FreeVar {
	t.Helper()
	var vars []FreeVar
	err := WalkFreeVariables(src, func(fv FreeVar) {
		vars = append(vars, fv)
	})
	require.NoError(t, err)
	return vars
}

func TestWalkFreeVariables_BinaryExpression(t *testing.T) {
	vars := collect(t, "a + b")

	require.Len(t, vars, 2)
	assert.Equal(t, "a", vars[0].Name)
	assert.Equal(t, 0, vars[0].Start)
	assert.Equal(t, 1, vars[0].End)
	assert.Equal(t, WriteNone, vars[0].Write)
	assert.Equal(t, "b", vars[1].Name)
	assert.Equal(t, 4, vars[1].Start)
	assert.Equal(t, 5, vars[1].End)
}

func TestWalkFreeVariables_MemberAccess(t *testing.T) {
	// property names are not variable references
	vars := collect(t, "foo.bar.baz")

	require.Len(t, vars, 1)
	assert.Equal(t, "foo", vars[0].Name)
	assert.Equal(t, 0, vars[0].Start)
	assert.Equal(t, 3, vars[0].End)
}

func TestWalkFreeVariables_ComputedMember(t *testing.T) {
	vars := collect(t, "foo[key]")

	require.Len(t, vars, 2)
	assert.Equal(t, "foo", vars[0].Name)
	assert.Equal(t, "key", vars[1].Name)
	assert.Equal(t, 4, vars[1].Start)
}

func TestWalkFreeVariables_ArrowParamsAreScoped(t *testing.T) {
	vars := collect(t, "list.map(item => item.id)")

	require.Len(t, vars, 1)
	assert.Equal(t, "list", vars[0].Name)
}

func TestWalkFreeVariables_DestructuredArrowParams(t *testing.T) {
	vars := collect(t, "rows.filter(({ id }) => id > min)")

	require.Len(t, vars, 2)
	assert.Equal(t, "rows", vars[0].Name)
	assert.Equal(t, "min", vars[1].Name)
}

func TestWalkFreeVariables_ObjectLiteral(t *testing.T) {
	// static keys are not references; shorthand properties are
	vars := collect(t, "{ a: x, b, [k]: y }")

	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	assert.Equal(t, []string{"x", "b", "k", "y"}, names)
}

func TestWalkFreeVariables_Assignment(t *testing.T) {
	vars := collect(t, "count = 1")

	require.Len(t, vars, 1)
	fv := vars[0]
	assert.Equal(t, "count", fv.Name)
	assert.Equal(t, WriteAssign, fv.Write)
	assert.Equal(t, "=", fv.Op)
	assert.Equal(t, 0, fv.Start)
	assert.Equal(t, 5, fv.End)
	assert.Equal(t, 0, fv.SpanStart)
	assert.Equal(t, 9, fv.SpanEnd)
	assert.Equal(t, 8, fv.RHSStart)
}

func TestWalkFreeVariables_CompoundAssignment(t *testing.T) {
	vars := collect(t, "total += amount")

	require.Len(t, vars, 2)
	assert.Equal(t, "total", vars[0].Name)
	assert.Equal(t, WriteAssign, vars[0].Write)
	assert.Equal(t, "+=", vars[0].Op)
	assert.Equal(t, "amount", vars[1].Name)
	assert.Equal(t, WriteNone, vars[1].Write)
}

func TestWalkFreeVariables_PostfixUpdate(t *testing.T) {
	vars := collect(t, "count++")

	require.Len(t, vars, 1)
	fv := vars[0]
	assert.Equal(t, WriteUpdate, fv.Write)
	assert.Equal(t, "++", fv.Op)
	assert.False(t, fv.Prefix)
	assert.Equal(t, 0, fv.SpanStart)
	assert.Equal(t, 7, fv.SpanEnd)
}

func TestWalkFreeVariables_PrefixUpdate(t *testing.T) {
	vars := collect(t, "--count")

	require.Len(t, vars, 1)
	assert.Equal(t, WriteUpdate, vars[0].Write)
	assert.Equal(t, "--", vars[0].Op)
	assert.True(t, vars[0].Prefix)
}

func TestWalkFreeVariables_MemberAssignTargetIsRead(t *testing.T) {
	vars := collect(t, "obj.field = v")

	require.Len(t, vars, 2)
	assert.Equal(t, "obj", vars[0].Name)
	assert.Equal(t, WriteNone, vars[0].Write)
	assert.Equal(t, "v", vars[1].Name)
}

func TestWalkFreeVariables_DestructuringAssignment(t *testing.T) {
	vars := collect(t, "[a, b] = pair")

	require.Len(t, vars, 3)
	assert.Equal(t, "a", vars[0].Name)
	assert.Equal(t, WriteDestructure, vars[0].Write)
	assert.Equal(t, "b", vars[1].Name)
	assert.Equal(t, WriteDestructure, vars[1].Write)
	assert.Equal(t, "pair", vars[2].Name)
	assert.Equal(t, WriteNone, vars[2].Write)
}

func TestWalkFreeVariables_TernaryAndCall(t *testing.T) {
	vars := collect(t, "ok ? fmt(x) : fallback")

	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	assert.Equal(t, []string{"ok", "fmt", "x", "fallback"}, names)
}

func TestWalkFreeVariables_ParseError(t *testing.T) {
	err := WalkFreeVariables("a +", func(FreeVar) {})

	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "a +", pe.Src)
}

func TestCheckSyntax(t *testing.T) {
	assert.NoError(t, CheckSyntax("function render(_ctx, _cache) { return null }"))
	assert.Error(t, CheckSyntax("foo("))
}

func TestIsSimpleIdentifier(t *testing.T) {
	assert.True(t, IsSimpleIdentifier("foo"))
	assert.True(t, IsSimpleIdentifier("_x"))
	assert.True(t, IsSimpleIdentifier("$slots"))
	assert.True(t, IsSimpleIdentifier("a1"))
	assert.False(t, IsSimpleIdentifier(""))
	assert.False(t, IsSimpleIdentifier("1a"))
	assert.False(t, IsSimpleIdentifier("foo.bar"))
	assert.False(t, IsSimpleIdentifier("a b"))
}

func TestIsGlobalAllowListed(t *testing.T) {
	assert.True(t, IsGlobalAllowListed("Math"))
	assert.True(t, IsGlobalAllowListed("JSON"))
	assert.True(t, IsGlobalAllowListed("undefined"))
	assert.False(t, IsGlobalAllowListed("window"))
	assert.False(t, IsGlobalAllowListed("document"))
	assert.False(t, IsGlobalAllowListed("require"))
}
