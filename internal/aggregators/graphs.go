package aggregators

import (
	"fmt"

	"github.com/weft-fl/weft/internal/compiler"
	"github.com/weft-fl/weft/internal/tfgraph"
	"github.com/weft-fl/weft/internal/types"
	"github.com/weft-fl/weft/internal/wire"
)

// The graph builders lower the numeric stages of the discretization
// pipeline into compiled computations. Each graph takes the value leaves
// plus a float64 step tensor as its parameter; leaves are laid out
// depth-first, so bindings mirror the struct shape of the value type.

// BuildDiscretizeComputation builds (<V,float64> -> Q): every leaf is
// divided by the step and rounded half-to-even onto the integer grid of the
// output dtype.
func BuildDiscretizeComputation(valueType types.Type, outputDType types.DType) (*compiler.CompiledComputation, error) {
	n := types.CountTensorLeaves(valueType)
	if n == 0 {
		return nil, &InvalidValueTypeError{Type: valueType, Reason: "no tensor leaves"}
	}

	b := tfgraph.NewBuilder()
	step := b.Placeholder("step")
	inNames := make([]string, n)
	outNames := make([]string, n)
	for i := 0; i < n; i++ {
		in := b.Placeholder(fmt.Sprintf("value_%d", i))
		widened := b.Node(fmt.Sprintf("widen_%d", i), tfgraph.OpCast, in)
		scaled := b.Node(fmt.Sprintf("scale_%d", i), tfgraph.OpRealDiv, widened, step)
		rounded := b.Node(fmt.Sprintf("round_%d", i), tfgraph.OpRound, scaled)
		q := b.Node(fmt.Sprintf("q_%d", i), tfgraph.OpCast, rounded)
		inNames[i] = in + ":0"
		outNames[i] = q + ":0"
	}

	quantized := types.MapTensorLeaves(valueType, func(t types.TensorType) types.TensorType {
		return types.TensorType{DType: outputDType, Shape: t.Shape}
	})
	return packStagedGraph(b.Graph(), valueType, inNames, quantized, outNames)
}

// BuildUndiscretizeComputation builds (<Q,float64> -> V): every quantized
// leaf is scaled back by the step and cast to its original dtype.
func BuildUndiscretizeComputation(valueType types.Type, outputDType types.DType) (*compiler.CompiledComputation, error) {
	n := types.CountTensorLeaves(valueType)
	if n == 0 {
		return nil, &InvalidValueTypeError{Type: valueType, Reason: "no tensor leaves"}
	}

	b := tfgraph.NewBuilder()
	step := b.Placeholder("step")
	inNames := make([]string, n)
	outNames := make([]string, n)
	for i := 0; i < n; i++ {
		in := b.Placeholder(fmt.Sprintf("q_%d", i))
		widened := b.Node(fmt.Sprintf("widen_%d", i), tfgraph.OpCast, in)
		scaled := b.Node(fmt.Sprintf("scale_%d", i), tfgraph.OpMul, widened, step)
		out := b.Node(fmt.Sprintf("value_%d", i), tfgraph.OpCast, scaled)
		inNames[i] = in + ":0"
		outNames[i] = out + ":0"
	}

	quantized := types.MapTensorLeaves(valueType, func(t types.TensorType) types.TensorType {
		return types.TensorType{DType: outputDType, Shape: t.Shape}
	})
	return packStagedGraph(b.Graph(), quantized, inNames, valueType, outNames)
}

// BuildDistortionComputation builds (<V,float64> -> float64): the summed
// squared error between every leaf and its discretize-undiscretize round
// trip. It is the default distortion measurement of the discretization
// factory.
func BuildDistortionComputation(valueType types.Type) (*compiler.CompiledComputation, error) {
	n := types.CountTensorLeaves(valueType)
	if n == 0 {
		return nil, &InvalidValueTypeError{Type: valueType, Reason: "no tensor leaves"}
	}

	b := tfgraph.NewBuilder()
	step := b.Placeholder("step")
	inNames := make([]string, n)
	var total string
	for i := 0; i < n; i++ {
		in := b.Placeholder(fmt.Sprintf("value_%d", i))
		widened := b.Node(fmt.Sprintf("widen_%d", i), tfgraph.OpCast, in)
		scaled := b.Node(fmt.Sprintf("scale_%d", i), tfgraph.OpRealDiv, widened, step)
		rounded := b.Node(fmt.Sprintf("round_%d", i), tfgraph.OpRound, scaled)
		recon := b.Node(fmt.Sprintf("recon_%d", i), tfgraph.OpMul, rounded, step)
		diff := b.Node(fmt.Sprintf("diff_%d", i), tfgraph.OpSub, widened, recon)
		sq := b.Node(fmt.Sprintf("sq_%d", i), tfgraph.OpMul, diff, diff)
		inNames[i] = in + ":0"
		if i == 0 {
			total = sq
		} else {
			total = b.Node(fmt.Sprintf("total_%d", i), tfgraph.OpAdd, total, sq)
		}
	}
	out := b.Identity("distortion", total)

	data, err := tfgraph.Pack(b.Graph())
	if err != nil {
		return nil, err
	}
	paramType := types.Struct(
		types.Unnamed(valueType),
		types.Unnamed(types.Tensor(types.Float64)),
	)
	return compiler.NewCompiledComputation(&wire.TensorFlow{
		GraphDef: data,
		Parameter: tfgraph.StructBinding(
			bindingFor(valueType, inNames),
			tfgraph.TensorBinding("step:0"),
		),
		Result: tfgraph.TensorBinding(out + ":0"),
	}, types.Function(paramType, types.Tensor(types.Float64)))
}

// packStagedGraph wraps a staged leaf graph into a compiled computation of
// type (<In,float64> -> Out).
func packStagedGraph(g *tfgraph.GraphDef, inType types.Type, inNames []string, outType types.Type, outNames []string) (*compiler.CompiledComputation, error) {
	data, err := tfgraph.Pack(g)
	if err != nil {
		return nil, err
	}
	paramType := types.Struct(
		types.Unnamed(inType),
		types.Unnamed(types.Tensor(types.Float64)),
	)
	return compiler.NewCompiledComputation(&wire.TensorFlow{
		GraphDef: data,
		Parameter: tfgraph.StructBinding(
			bindingFor(inType, inNames),
			tfgraph.TensorBinding("step:0"),
		),
		Result: bindingFor(outType, outNames),
	}, types.Function(paramType, outType))
}

// bindingFor mirrors a struct-of-tensors type over depth-first leaf tensor
// names.
func bindingFor(t types.Type, names []string) *wire.Binding {
	next := 0
	return buildBinding(t, names, &next)
}

func buildBinding(t types.Type, names []string, next *int) *wire.Binding {
	switch tt := t.(type) {
	case types.TensorType:
		b := tfgraph.TensorBinding(names[*next])
		*next++
		return b
	case types.StructType:
		elements := make([]*wire.Binding, len(tt.Elements))
		for i, e := range tt.Elements {
			elements[i] = buildBinding(e.Type, names, next)
		}
		return tfgraph.StructBinding(elements...)
	default:
		return nil
	}
}
