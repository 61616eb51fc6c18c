package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weft-fl/weft/internal/types"
)

func TestEqualReferences(t *testing.T) {
	a := mustReference(t, "x", types.Tensor(types.Int32))
	b := mustReference(t, "x", types.Tensor(types.Int32))
	c := mustReference(t, "y", types.Tensor(types.Int32))
	d := mustReference(t, "x", types.Tensor(types.Int64))

	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
	assert.False(t, Equal(a, d))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(a, nil))
}

func TestEqualDistinguishesVariants(t *testing.T) {
	ref := mustReference(t, "x", types.Tensor(types.Int32))
	lit, err := NewIntLiteral(0, types.Int32)
	require.NoError(t, err)
	// Same type signature, different variant.
	assert.False(t, Equal(ref, lit))
}

func TestEqualRecursesIntoChildren(t *testing.T) {
	makeCall := func(argName string) *Call {
		fn := mustReference(t, "f", types.Function(types.Tensor(types.Int32), types.Tensor(types.Int32)))
		c, err := NewCall(fn, mustReference(t, argName, types.Tensor(types.Int32)))
		require.NoError(t, err)
		return c
	}
	assert.True(t, Equal(makeCall("x"), makeCall("x")))
	assert.False(t, Equal(makeCall("x"), makeCall("y")))
}

func TestEqualSelectionByNameVsIndex(t *testing.T) {
	src := mustReference(t, "arg", types.Struct(types.Named("a", types.Tensor(types.Int32))))
	byName, err := NewSelectionByName(src, "a")
	require.NoError(t, err)
	byIndex, err := NewSelectionByIndex(src, 0)
	require.NoError(t, err)
	// Selection by name and by index are distinct trees even when they
	// resolve to the same element.
	assert.False(t, Equal(byName, byIndex))
}

func TestEqualCompiledComputations(t *testing.T) {
	typ := types.Function(nil, types.Tensor(types.Int32))
	a, err := NewCompiledComputation(noArgAddPayload(t), typ)
	require.NoError(t, err)
	b, err := NewCompiledComputation(noArgAddPayload(t), typ)
	require.NoError(t, err)
	assert.True(t, Equal(a, b))
}

func TestEqualLambdas(t *testing.T) {
	body := mustReference(t, "x", types.Tensor(types.Int32))
	a, err := NewLambda("x", types.Tensor(types.Int32), body)
	require.NoError(t, err)
	b, err := NewLambda("x", types.Tensor(types.Int32), body)
	require.NoError(t, err)
	c, err := NewLambda("z", types.Tensor(types.Int32), mustReference(t, "x", types.Tensor(types.Int32)))
	require.NoError(t, err)

	assert.True(t, Equal(a, b))
	// Equality is structural, not alpha-equivalence: parameter names count.
	assert.False(t, Equal(a, c))
}
