package compiler

import (
	"fmt"

	"github.com/weft-fl/weft/internal/types"
	"github.com/weft-fl/weft/internal/wire"
)

// FromProto deserializes a wire computation into the corresponding typed
// building block. It fails with a StructureError when the declared type is
// inconsistent with the structural contents, and with ErrUnknownKind when
// the message carries no recognized variant body.
func FromProto(p *wire.Computation) (BuildingBlock, error) {
	if p == nil {
		return nil, &StructureError{Kind: "computation", Message: "message is nil"}
	}
	declared, err := types.FromProto(p.Type)
	if err != nil {
		return nil, &StructureError{Kind: "computation", Message: err.Error()}
	}

	switch {
	case p.Reference != nil:
		return NewReference(p.Reference.Name, declared)

	case p.Selection != nil:
		source, err := FromProto(p.Selection.Source)
		if err != nil {
			return nil, err
		}
		var sel *Selection
		if p.Selection.Index != nil {
			sel, err = NewSelectionByIndex(source, int(*p.Selection.Index))
		} else if p.Selection.Name != "" {
			sel, err = NewSelectionByName(source, p.Selection.Name)
		} else {
			return nil, structureErrorf("selection", "neither index nor name is set")
		}
		if err != nil {
			return nil, err
		}
		return sel, checkDeclared("selection", sel, declared)

	case p.Struct != nil:
		elements := make([]StructElement, len(p.Struct.Element))
		for i, e := range p.Struct.Element {
			value, err := FromProto(e.Value)
			if err != nil {
				return nil, err
			}
			elements[i] = StructElement{Name: e.Name, Value: value}
		}
		s, err := NewStruct(elements)
		if err != nil {
			return nil, err
		}
		return s, checkDeclared("struct", s, declared)

	case p.Call != nil:
		fn, err := FromProto(p.Call.Function)
		if err != nil {
			return nil, err
		}
		var arg BuildingBlock
		if p.Call.Argument != nil {
			arg, err = FromProto(p.Call.Argument)
			if err != nil {
				return nil, err
			}
		}
		c, err := NewCall(fn, arg)
		if err != nil {
			return nil, err
		}
		return c, checkDeclared("call", c, declared)

	case p.Lambda != nil:
		ft, ok := declared.(types.FunctionType)
		if !ok {
			return nil, structureErrorf("lambda",
				"declared type must be a function type, found %s", declared)
		}
		if (p.Lambda.ParameterName == "") != (ft.Parameter == nil) {
			return nil, structureErrorf("lambda",
				"parameter name and declared parameter type must be present together")
		}
		body, err := FromProto(p.Lambda.Result)
		if err != nil {
			return nil, err
		}
		l, err := NewLambda(p.Lambda.ParameterName, ft.Parameter, body)
		if err != nil {
			return nil, err
		}
		return l, checkDeclared("lambda", l, declared)

	case p.Block != nil:
		locals := make([]Local, len(p.Block.Local))
		for i, loc := range p.Block.Local {
			value, err := FromProto(loc.Value)
			if err != nil {
				return nil, err
			}
			locals[i] = Local{Name: loc.Name, Value: value}
		}
		result, err := FromProto(p.Block.Result)
		if err != nil {
			return nil, err
		}
		b, err := NewBlock(locals, result)
		if err != nil {
			return nil, err
		}
		return b, checkDeclared("block", b, declared)

	case p.TensorFlow != nil:
		return NewCompiledComputation(p.TensorFlow, declared)

	case p.Intrinsic != nil:
		return NewIntrinsic(p.Intrinsic.URI, declared)

	case p.Placement != nil:
		if _, ok := declared.(types.PlacementType); !ok {
			return nil, structureErrorf("placement",
				"declared type must be placement, found %s", declared)
		}
		return NewPlacement(types.Placement(p.Placement.URI))

	case p.Data != nil:
		return NewData(p.Data.URI, declared)

	case p.Literal != nil:
		l, err := NewLiteral(types.DType(p.Literal.DType), p.Literal.Value)
		if err != nil {
			return nil, err
		}
		return l, checkDeclared("literal", l, declared)

	default:
		return nil, fmt.Errorf("computation with type %s: %w", declared, ErrUnknownKind)
	}
}

// checkDeclared verifies that the type computed from a node's structure
// matches the type the wire message declared for it.
func checkDeclared(kind string, b BuildingBlock, declared types.Type) error {
	if !types.Equal(b.TypeSignature(), declared) {
		return structureErrorf(kind,
			"declared type %s does not match structural type %s",
			declared, b.TypeSignature())
	}
	return nil
}

// ToProto serializes a building block to its wire form. For every valid
// node x, FromProto(ToProto(x)) is structurally equal to x.
func ToProto(b BuildingBlock) *wire.Computation {
	p := &wire.Computation{Type: types.ToProto(b.TypeSignature())}
	switch bt := b.(type) {
	case *Reference:
		p.Reference = &wire.Reference{Name: bt.name}
	case *Selection:
		sel := &wire.Selection{Source: ToProto(bt.source)}
		if bt.name != "" {
			sel.Name = bt.name
		} else {
			idx := int64(bt.index)
			sel.Index = &idx
		}
		p.Selection = sel
	case *Struct:
		elements := make([]wire.StructElement, len(bt.elements))
		for i, e := range bt.elements {
			elements[i] = wire.StructElement{Name: e.Name, Value: ToProto(e.Value)}
		}
		p.Struct = &wire.Struct{Element: elements}
	case *Call:
		call := &wire.Call{Function: ToProto(bt.fn)}
		if bt.arg != nil {
			call.Argument = ToProto(bt.arg)
		}
		p.Call = call
	case *Lambda:
		p.Lambda = &wire.Lambda{
			ParameterName: bt.paramName,
			Result:        ToProto(bt.body),
		}
	case *Block:
		locals := make([]wire.BlockLocal, len(bt.locals))
		for i, l := range bt.locals {
			locals[i] = wire.BlockLocal{Name: l.Name, Value: ToProto(l.Value)}
		}
		p.Block = &wire.Block{Local: locals, Result: ToProto(bt.result)}
	case *CompiledComputation:
		p.TensorFlow = bt.tf
	case *Intrinsic:
		p.Intrinsic = &wire.Intrinsic{URI: bt.uri}
	case *Placement:
		p.Placement = &wire.Placement{URI: string(bt.placement)}
	case *Data:
		p.Data = &wire.Data{URI: bt.uri}
	case *Literal:
		p.Literal = &wire.Literal{DType: string(bt.dtype), Value: bt.value}
	default:
		panic(fmt.Sprintf("compiler: unhandled building block %T", b))
	}
	return p
}
