package types

// Type is the sealed interface over all computation type signatures. Only
// TensorType, StructType, FunctionType, FederatedType, SequenceType, and
// PlacementType implement it.
type Type interface {
	typeNode() // sealed
	String() string
}

// DType identifies a tensor element type.
type DType string

const (
	Bool    DType = "bool"
	Int32   DType = "int32"
	Int64   DType = "int64"
	Float32 DType = "float32"
	Float64 DType = "float64"
	Str     DType = "string"
)

// IsFloat reports whether the dtype is a floating-point type.
func (d DType) IsFloat() bool {
	return d == Float32 || d == Float64
}

// IsInteger reports whether the dtype is an integer type.
func (d DType) IsInteger() bool {
	return d == Int32 || d == Int64
}

// Valid reports whether d is one of the known dtypes.
func (d DType) Valid() bool {
	switch d {
	case Bool, Int32, Int64, Float32, Float64, Str:
		return true
	default:
		return false
	}
}

// Placement is a federated placement tag.
type Placement string

const (
	Clients Placement = "clients"
	Server  Placement = "server"
)

// Valid reports whether p is a known placement.
func (p Placement) Valid() bool {
	return p == Clients || p == Server
}

// UnknownDim marks a tensor dimension of unknown size.
const UnknownDim int64 = -1

// TensorType is a dense tensor of a fixed dtype. A nil or empty Shape is a
// scalar; a dim of UnknownDim has unknown size.
type TensorType struct {
	DType DType
	Shape []int64
}

func (TensorType) typeNode() {}

// Tensor returns a scalar tensor type.
func Tensor(d DType) TensorType {
	return TensorType{DType: d}
}

// TensorWithShape returns a tensor type with the given dims.
func TensorWithShape(d DType, shape ...int64) TensorType {
	return TensorType{DType: d, Shape: shape}
}

// Element is one element of a StructType. An empty Name means the element
// is positional only.
type Element struct {
	Name string
	Type Type
}

// StructType is an ordered tuple of optionally named types.
type StructType struct {
	Elements []Element
}

func (StructType) typeNode() {}

// Struct builds a StructType from elements.
func Struct(elements ...Element) StructType {
	return StructType{Elements: elements}
}

// Named is a convenience constructor for a named struct element.
func Named(name string, t Type) Element {
	return Element{Name: name, Type: t}
}

// Unnamed is a convenience constructor for a positional struct element.
func Unnamed(t Type) Element {
	return Element{Type: t}
}

// IndexOf returns the index of the named element, or -1 if absent.
func (s StructType) IndexOf(name string) int {
	for i, e := range s.Elements {
		if e.Name != "" && e.Name == name {
			return i
		}
	}
	return -1
}

// FunctionType is a function with an optional parameter. A nil Parameter
// means the function takes no argument.
type FunctionType struct {
	Parameter Type
	Result    Type
}

func (FunctionType) typeNode() {}

// Function builds a FunctionType. Pass a nil parameter for a no-argument
// function.
func Function(parameter, result Type) FunctionType {
	return FunctionType{Parameter: parameter, Result: result}
}

// FederatedType is a member type placed at CLIENTS or SERVER. AllEqual
// means every participant holds the same value.
type FederatedType struct {
	Member    Type
	Placement Placement
	AllEqual  bool
}

func (FederatedType) typeNode() {}

// AtServer places t at the server. Server-placed values are always
// all-equal.
func AtServer(t Type) FederatedType {
	return FederatedType{Member: t, Placement: Server, AllEqual: true}
}

// AtClients places t at the clients, one value per client.
func AtClients(t Type) FederatedType {
	return FederatedType{Member: t, Placement: Clients}
}

// AtClientsAllEqual places t at the clients with every client holding the
// same value, as produced by a broadcast.
func AtClientsAllEqual(t Type) FederatedType {
	return FederatedType{Member: t, Placement: Clients, AllEqual: true}
}

// SequenceType is a sequence of homogeneous elements.
type SequenceType struct {
	Element Type
}

func (SequenceType) typeNode() {}

// Sequence builds a SequenceType.
func Sequence(element Type) SequenceType {
	return SequenceType{Element: element}
}

// PlacementType is the type of a placement literal.
type PlacementType struct{}

func (PlacementType) typeNode() {}

// Equal reports structural equality of two types. Nil equals nil and
// nothing else.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch at := a.(type) {
	case TensorType:
		bt, ok := b.(TensorType)
		if !ok || at.DType != bt.DType || len(at.Shape) != len(bt.Shape) {
			return false
		}
		for i := range at.Shape {
			if at.Shape[i] != bt.Shape[i] {
				return false
			}
		}
		return true
	case StructType:
		bt, ok := b.(StructType)
		if !ok || len(at.Elements) != len(bt.Elements) {
			return false
		}
		for i := range at.Elements {
			if at.Elements[i].Name != bt.Elements[i].Name {
				return false
			}
			if !Equal(at.Elements[i].Type, bt.Elements[i].Type) {
				return false
			}
		}
		return true
	case FunctionType:
		bt, ok := b.(FunctionType)
		return ok && Equal(at.Parameter, bt.Parameter) && Equal(at.Result, bt.Result)
	case FederatedType:
		bt, ok := b.(FederatedType)
		return ok && at.Placement == bt.Placement && at.AllEqual == bt.AllEqual &&
			Equal(at.Member, bt.Member)
	case SequenceType:
		bt, ok := b.(SequenceType)
		return ok && Equal(at.Element, bt.Element)
	case PlacementType:
		_, ok := b.(PlacementType)
		return ok
	default:
		return false
	}
}
