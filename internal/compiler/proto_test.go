package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weft-fl/weft/internal/types"
	"github.com/weft-fl/weft/internal/wire"
)

// sampleBlocks builds one representative node of every variant.
func sampleBlocks(t *testing.T) map[string]BuildingBlock {
	t.Helper()

	ref := mustReference(t, "x", types.Tensor(types.Int32))

	structSrc := mustReference(t, "arg", types.Struct(
		types.Named("a", types.Tensor(types.Int32)),
		types.Unnamed(types.Tensor(types.Bool)),
	))
	byIndex, err := NewSelectionByIndex(structSrc, 1)
	require.NoError(t, err)
	byName, err := NewSelectionByName(structSrc, "a")
	require.NoError(t, err)

	lit, err := NewFloatLiteral(0.5, types.Float32)
	require.NoError(t, err)

	structNode, err := NewStruct([]StructElement{
		{Name: "a", Value: ref},
		{Value: lit},
	})
	require.NoError(t, err)

	fn := mustReference(t, "f", types.Function(types.Tensor(types.Int32), types.Tensor(types.Int32)))
	call, err := NewCall(fn, ref)
	require.NoError(t, err)

	thunk := mustReference(t, "g", types.Function(nil, types.Tensor(types.Int32)))
	noArgCall, err := NewCall(thunk, nil)
	require.NoError(t, err)

	lambda, err := NewLambda("x", types.Tensor(types.Int32), ref)
	require.NoError(t, err)

	noArgLambda, err := NewLambda("", nil, lit)
	require.NoError(t, err)

	block, err := NewBlock(
		[]Local{{Name: "a", Value: ref}},
		mustReference(t, "a", types.Tensor(types.Int32)),
	)
	require.NoError(t, err)

	compiled, err := NewCompiledComputation(noArgAddPayload(t),
		types.Function(nil, types.Tensor(types.Int32)))
	require.NoError(t, err)

	intrinsic := FederatedSum(types.Tensor(types.Int32))

	placement, err := NewPlacement(types.Clients)
	require.NoError(t, err)

	data, err := NewData("uri://dataset", types.Sequence(types.Tensor(types.Float32)))
	require.NoError(t, err)

	return map[string]BuildingBlock{
		"reference":          ref,
		"selection_by_index": byIndex,
		"selection_by_name":  byName,
		"struct":             structNode,
		"call":               call,
		"no_arg_call":        noArgCall,
		"lambda":             lambda,
		"no_arg_lambda":      noArgLambda,
		"block":              block,
		"compiled":           compiled,
		"intrinsic":          intrinsic,
		"placement":          placement,
		"data":               data,
		"literal":            lit,
	}
}

func TestProtoRoundTripAllVariants(t *testing.T) {
	for name, block := range sampleBlocks(t) {
		t.Run(name, func(t *testing.T) {
			back, err := FromProto(ToProto(block))
			require.NoError(t, err)
			assert.True(t, Equal(block, back),
				"round trip of %s produced %s", block, back)
		})
	}
}

func TestWireBytesRoundTrip(t *testing.T) {
	for name, block := range sampleBlocks(t) {
		t.Run(name, func(t *testing.T) {
			data, err := wire.Marshal(ToProto(block))
			require.NoError(t, err)
			parsed, err := wire.Unmarshal(data)
			require.NoError(t, err)
			back, err := FromProto(parsed)
			require.NoError(t, err)
			assert.True(t, Equal(block, back))
		})
	}
}

func TestFromProtoNil(t *testing.T) {
	_, err := FromProto(nil)
	assert.True(t, IsStructureError(err))
}

func TestFromProtoUnknownKind(t *testing.T) {
	p := &wire.Computation{Type: &wire.Type{Tensor: &wire.TensorType{DType: "int32"}}}
	_, err := FromProto(p)
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.False(t, IsStructureError(err))
}

func TestFromProtoMissingType(t *testing.T) {
	p := &wire.Computation{Reference: &wire.Reference{Name: "x"}}
	_, err := FromProto(p)
	assert.True(t, IsStructureError(err))
}

func TestFromProtoDeclaredTypeMismatch(t *testing.T) {
	// A call whose declared result type disagrees with the function's
	// actual result type.
	fnType := &wire.Type{Function: &wire.FunctionType{
		Result: &wire.Type{Tensor: &wire.TensorType{DType: "int32"}},
	}}
	p := &wire.Computation{
		Type: &wire.Type{Tensor: &wire.TensorType{DType: "bool"}},
		Call: &wire.Call{
			Function: &wire.Computation{
				Type:      fnType,
				Reference: &wire.Reference{Name: "g"},
			},
		},
	}
	_, err := FromProto(p)
	require.Error(t, err)
	assert.True(t, IsStructureError(err))
}

func TestFromProtoCallMissingRequiredArgument(t *testing.T) {
	// Declared function type requires an argument, but the call proto
	// carries none.
	fnType := &wire.Type{Function: &wire.FunctionType{
		Parameter: &wire.Type{Tensor: &wire.TensorType{DType: "int32"}},
		Result:    &wire.Type{Tensor: &wire.TensorType{DType: "int32"}},
	}}
	p := &wire.Computation{
		Type: &wire.Type{Tensor: &wire.TensorType{DType: "int32"}},
		Call: &wire.Call{
			Function: &wire.Computation{
				Type:      fnType,
				Reference: &wire.Reference{Name: "f"},
			},
		},
	}
	_, err := FromProto(p)
	assert.True(t, IsStructureError(err))
}

func TestFromProtoSelectionWithoutIndexOrName(t *testing.T) {
	srcType := &wire.Type{Struct: &wire.StructType{Element: []wire.StructTypeElement{
		{Name: "a", Type: &wire.Type{Tensor: &wire.TensorType{DType: "int32"}}},
	}}}
	p := &wire.Computation{
		Type: &wire.Type{Tensor: &wire.TensorType{DType: "int32"}},
		Selection: &wire.Selection{
			Source: &wire.Computation{Type: srcType, Reference: &wire.Reference{Name: "arg"}},
		},
	}
	_, err := FromProto(p)
	assert.True(t, IsStructureError(err))
}

func TestFromProtoLambdaParameterMismatch(t *testing.T) {
	// Lambda body declares a parameter name but the declared function type
	// has no parameter.
	p := &wire.Computation{
		Type: &wire.Type{Function: &wire.FunctionType{
			Result: &wire.Type{Tensor: &wire.TensorType{DType: "int32"}},
		}},
		Lambda: &wire.Lambda{
			ParameterName: "x",
			Result: &wire.Computation{
				Type:    &wire.Type{Tensor: &wire.TensorType{DType: "int32"}},
				Literal: &wire.Literal{DType: "int32", Value: "0"},
			},
		},
	}
	_, err := FromProto(p)
	assert.True(t, IsStructureError(err))
}

func TestFromProtoNestedUnknownKind(t *testing.T) {
	// Unknown kinds surface from nested positions distinct from malformed
	// structure.
	p := &wire.Computation{
		Type: &wire.Type{Function: &wire.FunctionType{
			Result: &wire.Type{Tensor: &wire.TensorType{DType: "int32"}},
		}},
		Lambda: &wire.Lambda{
			Result: &wire.Computation{
				Type: &wire.Type{Tensor: &wire.TensorType{DType: "int32"}},
			},
		},
	}
	_, err := FromProto(p)
	assert.ErrorIs(t, err, ErrUnknownKind)
}
