package aggregators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weft-fl/weft/internal/compiler"
	"github.com/weft-fl/weft/internal/types"
	"github.com/weft-fl/weft/internal/wire"
)

func discretizationFactory() *DeterministicDiscretizationFactory {
	return &DeterministicDiscretizationFactory{
		Inner:    SumFactory{},
		StepSize: 0.5,
	}
}

func TestDiscretizationFactoryCreate(t *testing.T) {
	process, err := discretizationFactory().Create(types.Tensor(types.Float32))
	require.NoError(t, err)

	assert.Equal(t, "( -> <step_size=float64,inner=<>>@SERVER)",
		process.Initialize.Block.TypeSignature().String())
	assert.Equal(t,
		"(<<step_size=float64,inner=<>>@SERVER,{float32}@CLIENTS> -> "+
			"<state=<step_size=float64,inner=<>>@SERVER,result=float32@SERVER,"+
			"measurements=<deterministic_discretization=<>>@SERVER>)",
		process.Next.Block.TypeSignature().String())

	assert.True(t, types.Equal(types.Tensor(types.Float32), process.ValueType()))
}

func TestDiscretizationFactoryStructValue(t *testing.T) {
	valueType := types.Struct(
		types.Named("a", types.Tensor(types.Float32)),
		types.Named("b", types.Tensor(types.Float64)),
	)
	process, err := discretizationFactory().Create(valueType)
	require.NoError(t, err)
	assert.True(t, types.Equal(valueType, process.ValueType()))

	// The outer result recovers the original float leaves even though the
	// inner factory only ever sees integers.
	nextType := process.Next.Block.TypeSignature().(types.FunctionType)
	out := nextType.Result.(types.StructType)
	result := out.Elements[out.IndexOf("result")].Type
	assert.True(t, types.Equal(types.AtServer(valueType), result))
}

func TestDiscretizationFactoryWithDistortion(t *testing.T) {
	f := discretizationFactory()
	f.Distortion = BuildDistortionComputation
	process, err := f.Create(types.Tensor(types.Float32))
	require.NoError(t, err)

	nextType := process.Next.Block.TypeSignature().(types.FunctionType)
	out := nextType.Result.(types.StructType)
	measurements := out.Elements[out.IndexOf("measurements")].Type
	expected := types.AtServer(types.Struct(
		types.Named("deterministic_discretization", types.Struct()),
		types.Named("distortion", types.Tensor(types.Float64)),
	))
	assert.True(t, types.Equal(expected, measurements),
		"measurements type %s", measurements)
}

func TestDiscretizationFactoryRejectsValueTypes(t *testing.T) {
	cases := map[string]types.Type{
		"nil":            nil,
		"integer tensor": types.Tensor(types.Int32),
		"mixed struct": types.Struct(
			types.Named("a", types.Tensor(types.Float32)),
			types.Named("b", types.Tensor(types.Int32)),
		),
		"federated": types.AtClients(types.Tensor(types.Float32)),
		"function":  types.Function(nil, types.Tensor(types.Float32)),
		"sequence":  types.Sequence(types.Tensor(types.Float32)),
		"empty":     types.Struct(),
	}
	for name, typ := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := discretizationFactory().Create(typ)
			require.Error(t, err)
			assert.True(t, IsInvalidValueType(err), "got %v", err)
		})
	}
}

func TestDiscretizationFactoryRejectsBadConfig(t *testing.T) {
	valueType := types.Tensor(types.Float32)

	f := discretizationFactory()
	f.StepSize = 0
	_, err := f.Create(valueType)
	assert.ErrorContains(t, err, "step size")

	f = discretizationFactory()
	f.StepSize = -1
	_, err = f.Create(valueType)
	assert.ErrorContains(t, err, "step size")

	f = discretizationFactory()
	f.OutputDType = types.Float32
	_, err = f.Create(valueType)
	assert.ErrorContains(t, err, "output dtype")

	f = &DeterministicDiscretizationFactory{StepSize: 0.5}
	_, err = f.Create(valueType)
	assert.ErrorContains(t, err, "inner factory")
}

func TestDiscretizationFactoryValidatesBeforeInner(t *testing.T) {
	// A bad value type surfaces as an invalid-value error even though the
	// inner factory would also reject it.
	f := discretizationFactory()
	_, err := f.Create(types.Tensor(types.Str))
	require.Error(t, err)
	assert.True(t, IsInvalidValueType(err))
}

func TestDiscretizationNextRoundTrips(t *testing.T) {
	process, err := discretizationFactory().Create(types.Tensor(types.Float32))
	require.NoError(t, err)

	data, err := wire.Marshal(process.Next.Proto)
	require.NoError(t, err)
	parsed, err := wire.Unmarshal(data)
	require.NoError(t, err)
	back, err := compiler.FromProto(parsed)
	require.NoError(t, err)
	assert.True(t, compiler.Equal(process.Next.Block, back))
}

func TestDiscretizationCreateIsDeterministic(t *testing.T) {
	a, err := discretizationFactory().Create(types.Tensor(types.Float32))
	require.NoError(t, err)
	b, err := discretizationFactory().Create(types.Tensor(types.Float32))
	require.NoError(t, err)

	assert.True(t, compiler.Equal(a.Initialize.Block, b.Initialize.Block))
	assert.True(t, compiler.Equal(a.Next.Block, b.Next.Block))

	first, err := wire.Marshal(a.Next.Proto)
	require.NoError(t, err)
	second, err := wire.Marshal(b.Next.Proto)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
