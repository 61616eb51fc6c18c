package tfgraph

import (
	"fmt"

	"github.com/weft-fl/weft/internal/wire"
)

// Op kinds understood by the graph builders and analysis passes. The set is
// open: a NodeDef may carry any op string, and the analysis passes count
// unknown kinds like any other op.
const (
	OpConst           = "Const"
	OpAdd             = "AddV2"
	OpSub             = "Sub"
	OpMul             = "Mul"
	OpRealDiv         = "RealDiv"
	OpRound           = "Round"
	OpCast            = "Cast"
	OpIdentity        = "Identity"
	OpPlaceholder     = "Placeholder"
	OpPartitionedCall = "PartitionedCall"
	OpVarHandle       = "VarHandleOp"
	OpVariable        = "VariableV2"
)

// IsVariableOp reports whether the op kind declares a stateful variable.
// Classification is strictly by op kind; node names never participate, so a
// constant named "variable1" is not a variable.
func IsVariableOp(op string) bool {
	switch op {
	case OpVarHandle, OpVariable, "Variable":
		return true
	default:
		return false
	}
}

// IsFunctionCallOp reports whether the op kind invokes a sub-function
// defined in the graph's function library.
func IsFunctionCallOp(op string) bool {
	switch op {
	case OpPartitionedCall, "StatefulPartitionedCall":
		return true
	default:
		return false
	}
}

// NodeDef is a single operation in a graph. Device is the explicit device
// placement annotation; empty means unplaced. Function names the invoked
// sub-function for function-call ops.
type NodeDef struct {
	Name     string   `json:"name"`
	Op       string   `json:"op"`
	Device   string   `json:"device,omitempty"`
	Input    []string `json:"input,omitempty"`
	Function string   `json:"function,omitempty"`
}

// FunctionDef is a named sub-function: a reusable body of nodes invoked via
// function-call ops in the outer graph.
type FunctionDef struct {
	Name string    `json:"name"`
	Node []NodeDef `json:"node,omitempty"`
}

// GraphDef is the low-level operation graph: an outer node list plus a
// library of sub-function definitions.
type GraphDef struct {
	Node     []NodeDef     `json:"node,omitempty"`
	Function []FunctionDef `json:"function,omitempty"`
}

// LookupFunction returns the named function definition, or nil.
func (g *GraphDef) LookupFunction(name string) *FunctionDef {
	for i := range g.Function {
		if g.Function[i].Name == name {
			return &g.Function[i]
		}
	}
	return nil
}

// Pack serializes a graph into the opaque payload embedded in a
// wire.TensorFlow message. The encoding is canonical, so packing the same
// graph always yields the same bytes.
func Pack(g *GraphDef) ([]byte, error) {
	if g == nil {
		return nil, fmt.Errorf("tfgraph: cannot pack nil graph")
	}
	data, err := wire.MarshalCanonical(g)
	if err != nil {
		return nil, fmt.Errorf("tfgraph: pack: %w", err)
	}
	return data, nil
}

// MustPack is like Pack but panics on error. Use only in tests or with
// graphs known to be valid.
func MustPack(g *GraphDef) []byte {
	data, err := Pack(g)
	if err != nil {
		panic(err)
	}
	return data
}

// Unpack decodes a packed graph payload. It is the single decode point the
// analysis passes rely on.
func Unpack(data []byte) (*GraphDef, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("tfgraph: empty graph payload")
	}
	g, err := unmarshalGraph(data)
	if err != nil {
		return nil, fmt.Errorf("tfgraph: unpack: %w", err)
	}
	return g, nil
}

// TensorBinding binds a single graph tensor to a value.
func TensorBinding(tensorName string) *wire.Binding {
	return &wire.Binding{TensorName: tensorName}
}

// StructBinding binds an ordered group of sub-bindings to a struct value.
func StructBinding(elements ...*wire.Binding) *wire.Binding {
	return &wire.Binding{Element: elements}
}
