// Package graphspec compiles CUE graph descriptions into operation graphs
// and packed computations. It exists for fixtures and the CLI: authoring a
// graph as a CUE struct is far less error prone than hand-writing packed
// payload bytes, and CUE's position tracking gives compile errors a real
// file:line:column.
package graphspec

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/weft-fl/weft/internal/compiler"
	"github.com/weft-fl/weft/internal/tfgraph"
	"github.com/weft-fl/weft/internal/types"
	"github.com/weft-fl/weft/internal/wire"
)

// Compile parses CUE source and compiles the struct at path "computation"
// into a wire computation. filename is used for error positions only.
func Compile(source []byte, filename string) (*wire.Computation, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(source, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	cv := v.LookupPath(cue.ParsePath("computation"))
	if !cv.Exists() {
		return nil, &CompileError{
			Field:   "computation",
			Message: "computation struct is required",
			Pos:     v.Pos(),
		}
	}
	return CompileComputation(cv)
}

// CompileComputation lowers a CUE computation struct into a wire
// computation. The struct carries:
//
//	computation: {
//		type: {parameter?: "float32", result: "float32"}
//		graph: {node: [...], function: [...]}
//		parameter?: "x:0"          // or a list of tensor names
//		result: "result:0"
//	}
//
// The assembled computation is validated the same way every other compiled
// computation is, so a graphspec can never produce a block the analysis
// passes would reject.
func CompileComputation(v cue.Value) (*wire.Computation, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	graphVal := v.LookupPath(cue.ParsePath("graph"))
	if !graphVal.Exists() {
		return nil, &CompileError{
			Field:   "graph",
			Message: "graph is required",
			Pos:     v.Pos(),
		}
	}
	g, err := CompileGraph(graphVal)
	if err != nil {
		return nil, err
	}

	typ, err := parseFunctionType(v.LookupPath(cue.ParsePath("type")), v.Pos())
	if err != nil {
		return nil, err
	}

	resultVal := v.LookupPath(cue.ParsePath("result"))
	if !resultVal.Exists() {
		return nil, &CompileError{
			Field:   "result",
			Message: "result binding is required",
			Pos:     v.Pos(),
		}
	}
	result, err := parseBinding(resultVal, "result")
	if err != nil {
		return nil, err
	}

	var parameter *wire.Binding
	paramVal := v.LookupPath(cue.ParsePath("parameter"))
	if paramVal.Exists() {
		parameter, err = parseBinding(paramVal, "parameter")
		if err != nil {
			return nil, err
		}
	}

	data, err := tfgraph.Pack(g)
	if err != nil {
		return nil, &CompileError{
			Field:   "graph",
			Message: err.Error(),
			Pos:     graphVal.Pos(),
		}
	}

	block, err := compiler.NewCompiledComputation(&wire.TensorFlow{
		GraphDef:  data,
		Parameter: parameter,
		Result:    result,
	}, typ)
	if err != nil {
		return nil, &CompileError{
			Field:   "computation",
			Message: err.Error(),
			Pos:     v.Pos(),
		}
	}
	return compiler.ToProto(block), nil
}

// CompileGraph lowers a CUE graph struct into a GraphDef. Node names must
// be unique within the outer graph and within each function body, and every
// function-call op must name a function defined in the graph's library.
func CompileGraph(v cue.Value) (*tfgraph.GraphDef, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	g := &tfgraph.GraphDef{}

	nodeVal := v.LookupPath(cue.ParsePath("node"))
	if !nodeVal.Exists() {
		return nil, &CompileError{
			Field:   "node",
			Message: "at least one node is required",
			Pos:     v.Pos(),
		}
	}
	nodes, err := parseNodes(nodeVal, "node")
	if err != nil {
		return nil, err
	}
	g.Node = nodes

	fnVal := v.LookupPath(cue.ParsePath("function"))
	if fnVal.Exists() {
		iter, err := fnVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		seen := map[string]bool{}
		for i := 0; iter.Next(); i++ {
			field := fmt.Sprintf("function[%d]", i)
			fv := iter.Value()

			name, err := requiredString(fv, "name", field)
			if err != nil {
				return nil, err
			}
			if seen[name] {
				return nil, &CompileError{
					Field:   field,
					Message: fmt.Sprintf("duplicate function name %q", name),
					Pos:     fv.Pos(),
				}
			}
			seen[name] = true

			bodyVal := fv.LookupPath(cue.ParsePath("node"))
			if !bodyVal.Exists() {
				return nil, &CompileError{
					Field:   field + ".node",
					Message: "function body requires at least one node",
					Pos:     fv.Pos(),
				}
			}
			body, err := parseNodes(bodyVal, field+".node")
			if err != nil {
				return nil, err
			}
			g.Function = append(g.Function, tfgraph.FunctionDef{Name: name, Node: body})
		}
	}

	// Call ops must resolve against the library once the whole graph is
	// assembled.
	for _, node := range g.Node {
		if !tfgraph.IsFunctionCallOp(node.Op) {
			continue
		}
		if node.Function == "" {
			return nil, &CompileError{
				Field:   "node",
				Message: fmt.Sprintf("call op %q names no function", node.Name),
				Pos:     v.Pos(),
			}
		}
		if g.LookupFunction(node.Function) == nil {
			return nil, &CompileError{
				Field:   "node",
				Message: fmt.Sprintf("call op %q references undefined function %q", node.Name, node.Function),
				Pos:     v.Pos(),
			}
		}
	}

	return g, nil
}

// parseNodes lowers a CUE node list, checking per-list name uniqueness.
func parseNodes(v cue.Value, field string) ([]tfgraph.NodeDef, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var nodes []tfgraph.NodeDef
	seen := map[string]bool{}
	for i := 0; iter.Next(); i++ {
		elemField := fmt.Sprintf("%s[%d]", field, i)
		nv := iter.Value()

		name, err := requiredString(nv, "name", elemField)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, &CompileError{
				Field:   elemField,
				Message: fmt.Sprintf("duplicate node name %q", name),
				Pos:     nv.Pos(),
			}
		}
		seen[name] = true

		op, err := requiredString(nv, "op", elemField)
		if err != nil {
			return nil, err
		}

		node := tfgraph.NodeDef{Name: name, Op: op}

		if dv := nv.LookupPath(cue.ParsePath("device")); dv.Exists() {
			device, err := dv.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			node.Device = device
		}

		if iv := nv.LookupPath(cue.ParsePath("input")); iv.Exists() {
			inputIter, err := iv.List()
			if err != nil {
				return nil, formatCUEError(err)
			}
			for inputIter.Next() {
				input, err := inputIter.Value().String()
				if err != nil {
					return nil, formatCUEError(err)
				}
				node.Input = append(node.Input, input)
			}
		}

		if fv := nv.LookupPath(cue.ParsePath("function")); fv.Exists() {
			fn, err := fv.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			node.Function = fn
		}

		nodes = append(nodes, node)
	}
	return nodes, nil
}

// parseFunctionType lowers the computation's type struct. Tensor dtypes
// only; graphspecs describe single-tensor pipelines and fixtures.
func parseFunctionType(v cue.Value, fallback token.Pos) (types.Type, error) {
	if !v.Exists() {
		return nil, &CompileError{
			Field:   "type",
			Message: "type is required",
			Pos:     fallback,
		}
	}
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	result, err := parseDType(v.LookupPath(cue.ParsePath("result")), "type.result", v.Pos())
	if err != nil {
		return nil, err
	}

	var parameter types.Type
	if pv := v.LookupPath(cue.ParsePath("parameter")); pv.Exists() {
		p, err := parseDType(pv, "type.parameter", v.Pos())
		if err != nil {
			return nil, err
		}
		parameter = p
	}

	return types.Function(parameter, result), nil
}

func parseDType(v cue.Value, field string, fallback token.Pos) (types.Type, error) {
	if !v.Exists() {
		return nil, &CompileError{
			Field:   field,
			Message: "dtype is required",
			Pos:     fallback,
		}
	}
	s, err := v.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	d := types.DType(s)
	if !d.Valid() {
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("unknown dtype %q", s),
			Pos:     v.Pos(),
		}
	}
	return types.Tensor(d), nil
}

// parseBinding lowers a binding: a tensor name string, or a list of tensor
// names for a struct of tensors.
func parseBinding(v cue.Value, field string) (*wire.Binding, error) {
	if s, err := v.String(); err == nil {
		return tfgraph.TensorBinding(s), nil
	}

	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{
			Field:   field,
			Message: "binding must be a tensor name or a list of tensor names",
			Pos:     v.Pos(),
		}
	}
	var elements []*wire.Binding
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		elements = append(elements, tfgraph.TensorBinding(s))
	}
	if len(elements) == 0 {
		return nil, &CompileError{
			Field:   field,
			Message: "binding list must not be empty",
			Pos:     v.Pos(),
		}
	}
	return tfgraph.StructBinding(elements...), nil
}

func requiredString(v cue.Value, path, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(path))
	if !fv.Exists() {
		return "", &CompileError{
			Field:   field + "." + path,
			Message: path + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	if s == "" {
		return "", &CompileError{
			Field:   field + "." + path,
			Message: path + " must not be empty",
			Pos:     fv.Pos(),
		}
	}
	return s, nil
}

// CompileError is a graphspec compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	firstErr := errs[0]
	positions := cueerrors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
