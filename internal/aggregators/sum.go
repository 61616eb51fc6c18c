package aggregators

import (
	"github.com/weft-fl/weft/internal/compiler"
	"github.com/weft-fl/weft/internal/types"
)

// SumFactory aggregates client values by summation. It is stateless; the
// server state is the empty struct.
type SumFactory struct{}

var _ UnweightedFactory = SumFactory{}

// Create builds the summation process for a tensor or struct-of-tensors
// value type.
func (SumFactory) Create(valueType types.Type) (*AggregationProcess, error) {
	if valueType == nil || !types.IsStructOfTensors(valueType) {
		return nil, &InvalidValueTypeError{
			Type:   valueType,
			Reason: "expected a tensor or a struct of tensors",
		}
	}

	emptyState := types.Struct()

	initialize := mustLambda("", nil, mustCall(
		compiler.FederatedValueAtServer(emptyState), mustStruct()))

	paramType := types.Struct(
		types.Unnamed(types.AtServer(emptyState)),
		types.Unnamed(types.AtClients(valueType)),
	)
	arg := mustRef("arg", paramType)
	state := mustSelect(arg, 0)
	value := mustSelect(arg, 1)

	sum := mustCall(compiler.FederatedSum(valueType), value)
	measurements := mustCall(compiler.FederatedValueAtServer(emptyState), mustStruct())

	out := mustStruct(
		compiler.StructElement{Name: "state", Value: state},
		compiler.StructElement{Name: "result", Value: sum},
		compiler.StructElement{Name: "measurements", Value: measurements},
	)
	next := mustLambda("arg", paramType, out)

	return NewAggregationProcess(initialize, next)
}
