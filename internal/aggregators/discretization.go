package aggregators

import (
	"fmt"

	"github.com/weft-fl/weft/internal/compiler"
	"github.com/weft-fl/weft/internal/types"
)

// DefaultOutputDType is the integer grid dtype used when a factory does not
// set one.
const DefaultOutputDType = types.Int32

// DistortionBuilder builds the computation measuring the quantization error
// of one client's value, typed (<V,float64> -> float64).
type DistortionBuilder func(valueType types.Type) (*compiler.CompiledComputation, error)

// DeterministicDiscretizationFactory wraps an inner aggregation factory
// with deterministic rounding onto a fixed integer grid. Client values are
// discretized before the inner aggregation runs and the aggregate is
// undiscretized on the server, so the inner factory only ever sees integer
// tensors.
//
// The server state is <step_size=float64,inner=S> where S is the inner
// process's state. Measurements nest the inner measurements under
// "deterministic_discretization" and, when Distortion is set, add a
// "distortion" element with the summed per-client quantization error.
type DeterministicDiscretizationFactory struct {
	Inner       UnweightedFactory
	StepSize    float64
	OutputDType types.DType       // defaults to DefaultOutputDType
	Distortion  DistortionBuilder // optional
}

var _ UnweightedFactory = (*DeterministicDiscretizationFactory)(nil)

// Create builds the discretizing process for a floating-point tensor or
// struct-of-tensors value type. The value type is validated in full before
// any computation is constructed.
func (f *DeterministicDiscretizationFactory) Create(valueType types.Type) (*AggregationProcess, error) {
	if f.Inner == nil {
		return nil, fmt.Errorf("aggregators: discretization factory requires an inner factory")
	}
	if valueType == nil || !types.IsStructOfTensors(valueType) {
		return nil, &InvalidValueTypeError{
			Type:   valueType,
			Reason: "expected a tensor or a struct of tensors",
		}
	}
	if !types.IsStructOfFloats(valueType) {
		return nil, &InvalidValueTypeError{
			Type:   valueType,
			Reason: "all tensor leaves must be floating-point",
		}
	}
	if types.CountTensorLeaves(valueType) == 0 {
		return nil, &InvalidValueTypeError{Type: valueType, Reason: "no tensor leaves"}
	}
	if !(f.StepSize > 0) {
		return nil, fmt.Errorf("aggregators: step size must be positive, got %v", f.StepSize)
	}
	outDType := f.OutputDType
	if outDType == "" {
		outDType = DefaultOutputDType
	}
	if !outDType.IsInteger() {
		return nil, fmt.Errorf("aggregators: output dtype must be integral, got %s", outDType)
	}

	quantized := types.MapTensorLeaves(valueType, func(t types.TensorType) types.TensorType {
		return types.TensorType{DType: outDType, Shape: t.Shape}
	})
	inner, err := f.Inner.Create(quantized)
	if err != nil {
		return nil, fmt.Errorf("aggregators: inner factory: %w", err)
	}

	discretize, err := BuildDiscretizeComputation(valueType, outDType)
	if err != nil {
		return nil, err
	}
	undiscretize, err := BuildUndiscretizeComputation(valueType, outDType)
	if err != nil {
		return nil, err
	}
	var distortion *compiler.CompiledComputation
	if f.Distortion != nil {
		distortion, err = f.Distortion(valueType)
		if err != nil {
			return nil, fmt.Errorf("aggregators: distortion: %w", err)
		}
	}

	innerState := inner.StateType()
	stateType := types.Struct(
		types.Named("step_size", types.Tensor(types.Float64)),
		types.Named("inner", innerState),
	)

	initialize, err := f.composeInitialize(inner)
	if err != nil {
		return nil, err
	}
	next := composeNext(inner, stateType, valueType, discretize, undiscretize, distortion)

	return NewAggregationProcess(initialize, next)
}

// composeInitialize builds ( -> <step_size,inner>@SERVER): the step size
// lifted to the server zipped with the inner process's initial state.
func (f *DeterministicDiscretizationFactory) composeInitialize(inner *AggregationProcess) (compiler.BuildingBlock, error) {
	stepLit, err := compiler.NewFloatLiteral(f.StepSize, types.Float64)
	if err != nil {
		return nil, err
	}
	step := mustCall(compiler.FederatedValueAtServer(types.Tensor(types.Float64)), stepLit)
	innerInit := mustCall(inner.Initialize.Block, nil)

	zip := zipAtServer(
		compiler.StructElement{Name: "step_size", Value: step},
		compiler.StructElement{Name: "inner", Value: innerInit},
	)
	return mustLambda("", nil, zip), nil
}

// composeNext builds one round: broadcast the step, discretize at the
// clients, run the inner round over the quantized values, undiscretize the
// aggregate at the server, and reassemble state and measurements.
func composeNext(inner *AggregationProcess, stateType types.StructType, valueType types.Type,
	discretize, undiscretize, distortion *compiler.CompiledComputation) compiler.BuildingBlock {

	paramType := types.Struct(
		types.Unnamed(types.AtServer(stateType)),
		types.Unnamed(types.AtClients(valueType)),
	)
	arg := mustRef("arg", paramType)
	state := mustSelect(arg, 0)
	value := mustSelect(arg, 1)

	stepFn := mustLambda("state", stateType, mustSelectName(mustRef("state", stateType), "step_size"))
	step := apply(stepFn, state)

	innerFn := mustLambda("state", stateType, mustSelectName(mustRef("state", stateType), "inner"))
	innerState := apply(innerFn, state)

	stepAtClients := mustCall(compiler.FederatedBroadcast(types.Tensor(types.Float64)), step)
	clientArgs := zipAtClients(
		compiler.StructElement{Value: value},
		compiler.StructElement{Value: stepAtClients},
	)
	quantizedValue := mapAtClients(discretize, clientArgs)

	innerOut := mustCall(inner.Next.Block,
		mustStruct(
			compiler.StructElement{Value: innerState},
			compiler.StructElement{Value: quantizedValue},
		))
	innerNewState := mustSelectName(innerOut, "state")
	innerResult := mustSelectName(innerOut, "result")
	innerMeasurements := mustSelectName(innerOut, "measurements")

	serverArgs := zipAtServer(
		compiler.StructElement{Value: innerResult},
		compiler.StructElement{Value: step},
	)
	result := apply(undiscretize, serverArgs)

	newState := zipAtServer(
		compiler.StructElement{Name: "step_size", Value: step},
		compiler.StructElement{Name: "inner", Value: innerNewState},
	)

	measured := []compiler.StructElement{
		{Name: "deterministic_discretization", Value: innerMeasurements},
	}
	if distortion != nil {
		perClient := mapAtClients(distortion, clientArgs)
		total := mustCall(compiler.FederatedSum(types.Tensor(types.Float64)), perClient)
		measured = append(measured, compiler.StructElement{Name: "distortion", Value: total})
	}
	measurements := zipAtServer(measured...)

	out := mustStruct(
		compiler.StructElement{Name: "state", Value: newState},
		compiler.StructElement{Name: "result", Value: result},
		compiler.StructElement{Name: "measurements", Value: measurements},
	)
	return mustLambda("arg", paramType, out)
}
