package types

import (
	"errors"
	"fmt"

	"github.com/weft-fl/weft/internal/wire"
)

// ErrUnknownTypeKind is returned by FromProto when a wire type carries no
// recognized variant body, as opposed to a recognized but malformed one.
var ErrUnknownTypeKind = errors.New("unknown type kind")

// ToProto converts a Type to its wire form.
func ToProto(t Type) *wire.Type {
	if t == nil {
		return nil
	}
	switch tt := t.(type) {
	case TensorType:
		return &wire.Type{Tensor: &wire.TensorType{
			DType: string(tt.DType),
			Dims:  append([]int64(nil), tt.Shape...),
		}}
	case StructType:
		elements := make([]wire.StructTypeElement, len(tt.Elements))
		for i, e := range tt.Elements {
			elements[i] = wire.StructTypeElement{Name: e.Name, Type: ToProto(e.Type)}
		}
		return &wire.Type{Struct: &wire.StructType{Element: elements}}
	case FunctionType:
		return &wire.Type{Function: &wire.FunctionType{
			Parameter: ToProto(tt.Parameter),
			Result:    ToProto(tt.Result),
		}}
	case FederatedType:
		return &wire.Type{Federated: &wire.FederatedType{
			Member:    ToProto(tt.Member),
			Placement: string(tt.Placement),
			AllEqual:  tt.AllEqual,
		}}
	case SequenceType:
		return &wire.Type{Sequence: &wire.SequenceType{Element: ToProto(tt.Element)}}
	case PlacementType:
		return &wire.Type{Placement: &wire.PlacementType{}}
	default:
		panic(fmt.Sprintf("types: unhandled type %T", t))
	}
}

// FromProto converts a wire type back to a Type. It fails when the message
// is structurally inconsistent, or with ErrUnknownTypeKind when no variant
// body is present.
func FromProto(p *wire.Type) (Type, error) {
	if p == nil {
		return nil, fmt.Errorf("types: missing type message")
	}
	switch {
	case p.Tensor != nil:
		d := DType(p.Tensor.DType)
		if !d.Valid() {
			return nil, fmt.Errorf("types: unknown dtype %q", p.Tensor.DType)
		}
		for _, dim := range p.Tensor.Dims {
			if dim < 0 && dim != UnknownDim {
				return nil, fmt.Errorf("types: invalid tensor dim %d", dim)
			}
		}
		return TensorType{DType: d, Shape: append([]int64(nil), p.Tensor.Dims...)}, nil

	case p.Struct != nil:
		elements := make([]Element, len(p.Struct.Element))
		for i, e := range p.Struct.Element {
			et, err := FromProto(e.Type)
			if err != nil {
				return nil, fmt.Errorf("types: struct element %d: %w", i, err)
			}
			elements[i] = Element{Name: e.Name, Type: et}
		}
		return StructType{Elements: elements}, nil

	case p.Function != nil:
		var param Type
		if p.Function.Parameter != nil {
			var err error
			param, err = FromProto(p.Function.Parameter)
			if err != nil {
				return nil, fmt.Errorf("types: function parameter: %w", err)
			}
		}
		result, err := FromProto(p.Function.Result)
		if err != nil {
			return nil, fmt.Errorf("types: function result: %w", err)
		}
		return FunctionType{Parameter: param, Result: result}, nil

	case p.Federated != nil:
		member, err := FromProto(p.Federated.Member)
		if err != nil {
			return nil, fmt.Errorf("types: federated member: %w", err)
		}
		placement := Placement(p.Federated.Placement)
		if !placement.Valid() {
			return nil, fmt.Errorf("types: unknown placement %q", p.Federated.Placement)
		}
		return FederatedType{Member: member, Placement: placement, AllEqual: p.Federated.AllEqual}, nil

	case p.Sequence != nil:
		element, err := FromProto(p.Sequence.Element)
		if err != nil {
			return nil, fmt.Errorf("types: sequence element: %w", err)
		}
		return SequenceType{Element: element}, nil

	case p.Placement != nil:
		return PlacementType{}, nil

	default:
		return nil, ErrUnknownTypeKind
	}
}
