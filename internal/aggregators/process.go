package aggregators

import (
	"errors"
	"fmt"

	"github.com/weft-fl/weft/internal/compiler"
	"github.com/weft-fl/weft/internal/types"
	"github.com/weft-fl/weft/internal/wire"
)

// Computation pairs a building block with its wire form. The two are always
// consistent: the proto is derived from the block at construction.
type Computation struct {
	Proto *wire.Computation
	Block compiler.BuildingBlock
}

func newComputation(b compiler.BuildingBlock) *Computation {
	return &Computation{Proto: compiler.ToProto(b), Block: b}
}

// AggregationProcess is a stateful two-computation aggregation protocol.
// Initialize has type ( -> S@SERVER); Next takes <S@SERVER,{V}@CLIENTS> and
// returns a struct with named elements state, result, and measurements.
type AggregationProcess struct {
	Initialize *Computation
	Next       *Computation
}

// StateType returns the unplaced server state type S.
func (p *AggregationProcess) StateType() types.Type {
	ft := p.Initialize.Block.TypeSignature().(types.FunctionType)
	return ft.Result.(types.FederatedType).Member
}

// ValueType returns the unplaced client value type V.
func (p *AggregationProcess) ValueType() types.Type {
	ft := p.Next.Block.TypeSignature().(types.FunctionType)
	param := ft.Parameter.(types.StructType)
	return param.Elements[1].Type.(types.FederatedType).Member
}

// NewAggregationProcess validates the shapes of the two computations and
// pairs them into a process.
func NewAggregationProcess(initialize, next compiler.BuildingBlock) (*AggregationProcess, error) {
	if initialize == nil || next == nil {
		return nil, fmt.Errorf("aggregators: initialize and next must be non-nil")
	}

	initType, ok := initialize.TypeSignature().(types.FunctionType)
	if !ok {
		return nil, fmt.Errorf("aggregators: initialize must be a function, found %s",
			initialize.TypeSignature())
	}
	if initType.Parameter != nil {
		return nil, fmt.Errorf("aggregators: initialize must take no argument, found %s", initType)
	}
	stateType, ok := initType.Result.(types.FederatedType)
	if !ok || stateType.Placement != types.Server {
		return nil, fmt.Errorf("aggregators: initialize must return a server-placed state, found %s",
			initType.Result)
	}

	nextType, ok := next.TypeSignature().(types.FunctionType)
	if !ok {
		return nil, fmt.Errorf("aggregators: next must be a function, found %s", next.TypeSignature())
	}
	param, ok := nextType.Parameter.(types.StructType)
	if !ok || len(param.Elements) != 2 {
		return nil, fmt.Errorf("aggregators: next must take <state,value>, found %s", nextType.Parameter)
	}
	if !types.Equal(param.Elements[0].Type, stateType) {
		return nil, fmt.Errorf("aggregators: next's state parameter %s does not match initialize's result %s",
			param.Elements[0].Type, stateType)
	}
	valueType, ok := param.Elements[1].Type.(types.FederatedType)
	if !ok || valueType.Placement != types.Clients {
		return nil, fmt.Errorf("aggregators: next's value parameter must be client-placed, found %s",
			param.Elements[1].Type)
	}

	out, ok := nextType.Result.(types.StructType)
	if !ok {
		return nil, fmt.Errorf("aggregators: next must return <state,result,measurements>, found %s",
			nextType.Result)
	}
	for _, name := range []string{"state", "result", "measurements"} {
		if out.IndexOf(name) < 0 {
			return nil, fmt.Errorf("aggregators: next's output has no %s element in %s", name, out)
		}
	}
	newState := out.Elements[out.IndexOf("state")].Type
	if !types.Equal(newState, stateType) {
		return nil, fmt.Errorf("aggregators: next's output state %s does not match initialize's result %s",
			newState, stateType)
	}

	return &AggregationProcess{
		Initialize: newComputation(initialize),
		Next:       newComputation(next),
	}, nil
}

// UnweightedFactory creates an aggregation process for a given unplaced
// client value type.
type UnweightedFactory interface {
	Create(valueType types.Type) (*AggregationProcess, error)
}

// InvalidValueTypeError reports a value type an aggregation factory cannot
// serve.
type InvalidValueTypeError struct {
	Type   types.Type
	Reason string
}

func (e *InvalidValueTypeError) Error() string {
	name := "<nil>"
	if e.Type != nil {
		name = e.Type.String()
	}
	return fmt.Sprintf("aggregators: invalid value type %s: %s", name, e.Reason)
}

// IsInvalidValueType reports whether err is (or wraps) an
// InvalidValueTypeError.
func IsInvalidValueType(err error) bool {
	var ve *InvalidValueTypeError
	return errors.As(err, &ve)
}
