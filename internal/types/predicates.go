package types

// IsStructOfTensors reports whether t is a tensor type or a struct built,
// at every leaf, out of tensor types. Function, federated, sequence, and
// placement types anywhere in the tree make it false.
func IsStructOfTensors(t Type) bool {
	switch tt := t.(type) {
	case TensorType:
		return true
	case StructType:
		for _, e := range tt.Elements {
			if !IsStructOfTensors(e.Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsStructOfFloats reports whether t is built exclusively from
// floating-point tensor leaves. Used by aggregation factories to validate
// their input value types.
func IsStructOfFloats(t Type) bool {
	switch tt := t.(type) {
	case TensorType:
		return tt.DType.IsFloat()
	case StructType:
		for _, e := range tt.Elements {
			if !IsStructOfFloats(e.Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsStructOfIntegers reports whether t is built exclusively from integer
// tensor leaves.
func IsStructOfIntegers(t Type) bool {
	switch tt := t.(type) {
	case TensorType:
		return tt.DType.IsInteger()
	case StructType:
		for _, e := range tt.Elements {
			if !IsStructOfIntegers(e.Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// MapTensorLeaves rebuilds a tensor-structure type by applying fn to every
// tensor leaf, preserving struct shape and element names. The input must
// satisfy IsStructOfTensors; other node kinds are returned unchanged.
func MapTensorLeaves(t Type, fn func(TensorType) TensorType) Type {
	switch tt := t.(type) {
	case TensorType:
		return fn(tt)
	case StructType:
		elements := make([]Element, len(tt.Elements))
		for i, e := range tt.Elements {
			elements[i] = Element{Name: e.Name, Type: MapTensorLeaves(e.Type, fn)}
		}
		return StructType{Elements: elements}
	default:
		return t
	}
}

// CountTensorLeaves returns the number of tensor leaves in a
// tensor-structure type.
func CountTensorLeaves(t Type) int {
	switch tt := t.(type) {
	case TensorType:
		return 1
	case StructType:
		n := 0
		for _, e := range tt.Elements {
			n += CountTensorLeaves(e.Type)
		}
		return n
	default:
		return 0
	}
}
