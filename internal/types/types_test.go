package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeSealed(t *testing.T) {
	var _ Type = TensorType{}
	var _ Type = StructType{}
	var _ Type = FunctionType{}
	var _ Type = FederatedType{}
	var _ Type = SequenceType{}
	var _ Type = PlacementType{}
}

func TestEqualStructural(t *testing.T) {
	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"same scalar", Tensor(Int32), Tensor(Int32), true},
		{"different dtype", Tensor(Int32), Tensor(Int64), false},
		{"same shape", TensorWithShape(Float32, 5, 10), TensorWithShape(Float32, 5, 10), true},
		{"different shape", TensorWithShape(Float32, 5), TensorWithShape(Float32, 5, 1), false},
		{"unknown dim matters", TensorWithShape(Float32, UnknownDim), TensorWithShape(Float32, 5), false},
		{
			"struct names matter",
			Struct(Named("a", Tensor(Int32))),
			Struct(Unnamed(Tensor(Int32))),
			false,
		},
		{
			"struct order matters",
			Struct(Named("a", Tensor(Int32)), Named("b", Tensor(Float32))),
			Struct(Named("b", Tensor(Float32)), Named("a", Tensor(Int32))),
			false,
		},
		{
			"equal structs",
			Struct(Named("a", Tensor(Int32)), Unnamed(Tensor(Float32))),
			Struct(Named("a", Tensor(Int32)), Unnamed(Tensor(Float32))),
			true,
		},
		{"no-arg function", Function(nil, Tensor(Int32)), Function(nil, Tensor(Int32)), true},
		{"parameter presence matters", Function(nil, Tensor(Int32)), Function(Tensor(Int32), Tensor(Int32)), false},
		{"federated equal", AtServer(Tensor(Int32)), AtServer(Tensor(Int32)), true},
		{"all_equal matters", AtClients(Tensor(Int32)), AtClientsAllEqual(Tensor(Int32)), false},
		{"placement matters", AtServer(Tensor(Int32)), FederatedType{Member: Tensor(Int32), Placement: Clients, AllEqual: true}, false},
		{"sequence", Sequence(Tensor(Int32)), Sequence(Tensor(Int32)), true},
		{"placement type", PlacementType{}, PlacementType{}, true},
		{"cross kind", Tensor(Int32), Struct(Unnamed(Tensor(Int32))), false},
		{"nil vs nil", nil, nil, true},
		{"nil vs tensor", nil, Tensor(Int32), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Equal(tc.a, tc.b))
			assert.Equal(t, tc.want, Equal(tc.b, tc.a))
		})
	}
}

func TestCompactRepresentation(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{Tensor(Int32), "int32"},
		{TensorWithShape(Float32, 5, UnknownDim), "float32[5,?]"},
		{Struct(Named("a", Tensor(Int32)), Unnamed(Tensor(Float32))), "<a=int32,float32>"},
		{Struct(), "<>"},
		{Function(Tensor(Int32), Tensor(Int32)), "(int32 -> int32)"},
		{Function(nil, Tensor(Int32)), "( -> int32)"},
		{AtServer(Tensor(Int32)), "int32@SERVER"},
		{AtClients(Tensor(Float32)), "{float32}@CLIENTS"},
		{AtClientsAllEqual(Tensor(Float32)), "float32@CLIENTS"},
		{Sequence(Tensor(Int64)), "int64*"},
		{PlacementType{}, "placement"},
		{
			Function(
				Struct(Named("state", AtServer(Tensor(Float32))), Unnamed(AtClients(Tensor(Float32)))),
				AtServer(Tensor(Float32)),
			),
			"(<state=float32@SERVER,{float32}@CLIENTS> -> float32@SERVER)",
		},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.typ.String())
		})
	}
}

func TestIsStructOfFloats(t *testing.T) {
	assert.True(t, IsStructOfFloats(Tensor(Float32)))
	assert.True(t, IsStructOfFloats(Tensor(Float64)))
	assert.True(t, IsStructOfFloats(Struct(
		Named("a", Tensor(Float32)),
		Unnamed(Struct(Unnamed(TensorWithShape(Float64, 3)))),
	)))
	assert.True(t, IsStructOfFloats(Struct()))

	assert.False(t, IsStructOfFloats(Tensor(Int32)))
	assert.False(t, IsStructOfFloats(Struct(
		Named("a", Tensor(Float32)),
		Named("b", Tensor(Int32)),
	)))
	assert.False(t, IsStructOfFloats(AtServer(Tensor(Float32))))
	assert.False(t, IsStructOfFloats(Function(nil, Tensor(Float32))))
	assert.False(t, IsStructOfFloats(Sequence(Tensor(Float32))))
}

func TestIsStructOfTensors(t *testing.T) {
	assert.True(t, IsStructOfTensors(Tensor(Int32)))
	assert.True(t, IsStructOfTensors(Struct(Named("a", Tensor(Int32)))))
	assert.False(t, IsStructOfTensors(AtClients(Tensor(Int32))))
	assert.False(t, IsStructOfTensors(Struct(Unnamed(Sequence(Tensor(Int32))))))
}

func TestMapTensorLeaves(t *testing.T) {
	in := Struct(
		Named("a", TensorWithShape(Float32, 2)),
		Unnamed(Struct(Named("b", Tensor(Float64)))),
	)
	got := MapTensorLeaves(in, func(tt TensorType) TensorType {
		return TensorType{DType: Int32, Shape: tt.Shape}
	})
	want := Struct(
		Named("a", TensorWithShape(Int32, 2)),
		Unnamed(Struct(Named("b", Tensor(Int32)))),
	)
	assert.True(t, Equal(want, got), "got %s", got)
	// The input is not mutated.
	assert.Equal(t, "<a=float32[2],<b=float64>>", in.String())
}

func TestCountTensorLeaves(t *testing.T) {
	assert.Equal(t, 1, CountTensorLeaves(Tensor(Float32)))
	assert.Equal(t, 3, CountTensorLeaves(Struct(
		Named("a", Tensor(Float32)),
		Unnamed(Struct(Unnamed(Tensor(Float32)), Unnamed(Tensor(Float64)))),
	)))
	assert.Equal(t, 0, CountTensorLeaves(AtServer(Tensor(Float32))))
}

func TestStructIndexOf(t *testing.T) {
	s := Struct(Named("a", Tensor(Int32)), Unnamed(Tensor(Bool)), Named("c", Tensor(Float32)))
	assert.Equal(t, 0, s.IndexOf("a"))
	assert.Equal(t, 2, s.IndexOf("c"))
	assert.Equal(t, -1, s.IndexOf("missing"))
	assert.Equal(t, -1, s.IndexOf(""))
}
