// Package analysis provides read-only structural passes over compiled
// computation building blocks: op counting, variable counting, and device
// placement tabulation.
//
// All three passes operate on exactly one CompiledComputation node. They
// unpack the node's embedded graph payload and walk its node lists; they
// never execute the graph and never mutate their input, so concurrent
// calls need no synchronization.
package analysis

import (
	"errors"
	"fmt"

	"github.com/weft-fl/weft/internal/compiler"
	"github.com/weft-fl/weft/internal/tfgraph"
)

// ErrNilComputation is returned when a pass is invoked with a nil building
// block.
var ErrNilComputation = errors.New("analysis: building block is nil")

// UnsupportedKindError is returned when a pass is invoked on a building
// block that is not a compiled TensorFlow computation.
type UnsupportedKindError struct {
	// Kind is the kind of the offending building block.
	Kind string
}

// Error implements the error interface.
func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf(
		"analysis is only defined for compiled tensorflow computations; found building block of kind %s",
		e.Kind)
}

// IsUnsupportedKind reports whether err is (or wraps) an
// UnsupportedKindError.
func IsUnsupportedKind(err error) bool {
	var ue *UnsupportedKindError
	return errors.As(err, &ue)
}

// unpackCompiled enforces the shared precondition of all passes and
// decodes the embedded graph.
func unpackCompiled(b compiler.BuildingBlock) (*tfgraph.GraphDef, error) {
	if b == nil {
		return nil, ErrNilComputation
	}
	c, ok := b.(*compiler.CompiledComputation)
	if !ok {
		return nil, &UnsupportedKindError{Kind: compiler.Kind(b)}
	}
	g, err := tfgraph.Unpack(c.Payload().GraphDef)
	if err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}
	return g, nil
}

// CountTensorFlowOpsIn returns the total number of primitive operations in
// the graph embedded in a compiled computation. Every node of the outer
// graph counts once, including one call op per sub-function invocation
// site; every node inside each sub-function definition counts once
// regardless of how many sites invoke it.
func CountTensorFlowOpsIn(b compiler.BuildingBlock) (int, error) {
	g, err := unpackCompiled(b)
	if err != nil {
		return 0, err
	}
	n := len(g.Node)
	for _, fn := range g.Function {
		n += len(fn.Node)
	}
	return n, nil
}

// CountTensorFlowVariablesIn returns the number of stateful-variable
// declaration sites in the embedded graph. Classification is by op kind
// only; node names never participate, so constants named "variable" do not
// count. A variable declared inside a sub-function counts once however
// many times the function is invoked.
func CountTensorFlowVariablesIn(b compiler.BuildingBlock) (int, error) {
	g, err := unpackCompiled(b)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, node := range g.Node {
		if tfgraph.IsVariableOp(node.Op) {
			n++
		}
	}
	for _, fn := range g.Function {
		for _, node := range fn.Node {
			if tfgraph.IsVariableOp(node.Op) {
				n++
			}
		}
	}
	return n, nil
}

// GetDevicePlacementIn groups every operation in the embedded graph by its
// explicit device annotation and returns per-device op counts. Unplaced ops
// land under the empty string. Every op is attributed to exactly one
// device, so the counts sum to the graph's total op count.
func GetDevicePlacementIn(b compiler.BuildingBlock) (map[string]int, error) {
	g, err := unpackCompiled(b)
	if err != nil {
		return nil, err
	}
	placements := make(map[string]int)
	for _, node := range g.Node {
		placements[node.Device]++
	}
	for _, fn := range g.Function {
		for _, node := range fn.Node {
			placements[node.Device]++
		}
	}
	return placements, nil
}
