package compiler

import (
	"fmt"

	"github.com/weft-fl/weft/internal/types"
)

// URIs of the built-in federated operators the composition layer uses.
const (
	FederatedBroadcastURI     = "federated_broadcast"
	FederatedMapURI           = "federated_map"
	FederatedApplyURI         = "federated_apply"
	FederatedSumURI           = "federated_sum"
	FederatedValueAtServerURI = "federated_value_at_server"
	FederatedZipAtClientsURI  = "federated_zip_at_clients"
	FederatedZipAtServerURI   = "federated_zip_at_server"
)

func mustIntrinsic(uri string, typ types.Type) *Intrinsic {
	i, err := NewIntrinsic(uri, typ)
	if err != nil {
		panic(fmt.Sprintf("compiler: intrinsic %s: %v", uri, err))
	}
	return i
}

// FederatedBroadcast returns the broadcast operator for a member type:
// (T@SERVER -> T@CLIENTS), the client-side value being all-equal.
func FederatedBroadcast(member types.Type) *Intrinsic {
	return mustIntrinsic(FederatedBroadcastURI, types.Function(
		types.AtServer(member),
		types.AtClientsAllEqual(member),
	))
}

// FederatedMap returns the client-side map operator:
// (<(T -> U),{T}@CLIENTS> -> {U}@CLIENTS). The mapped function must take a
// parameter.
func FederatedMap(fn types.FunctionType) *Intrinsic {
	if fn.Parameter == nil {
		panic("compiler: federated_map requires a function with a parameter")
	}
	return mustIntrinsic(FederatedMapURI, types.Function(
		types.Struct(
			types.Unnamed(fn),
			types.Unnamed(types.AtClients(fn.Parameter)),
		),
		types.AtClients(fn.Result),
	))
}

// FederatedApply returns the server-side map operator:
// (<(T -> U),T@SERVER> -> U@SERVER). The applied function must take a
// parameter.
func FederatedApply(fn types.FunctionType) *Intrinsic {
	if fn.Parameter == nil {
		panic("compiler: federated_apply requires a function with a parameter")
	}
	return mustIntrinsic(FederatedApplyURI, types.Function(
		types.Struct(
			types.Unnamed(fn),
			types.Unnamed(types.AtServer(fn.Parameter)),
		),
		types.AtServer(fn.Result),
	))
}

// FederatedSum returns the summation aggregator:
// ({T}@CLIENTS -> T@SERVER).
func FederatedSum(member types.Type) *Intrinsic {
	return mustIntrinsic(FederatedSumURI, types.Function(
		types.AtClients(member),
		types.AtServer(member),
	))
}

// FederatedValueAtServer returns the server-placement constructor:
// (T -> T@SERVER).
func FederatedValueAtServer(member types.Type) *Intrinsic {
	return mustIntrinsic(FederatedValueAtServerURI, types.Function(
		member,
		types.AtServer(member),
	))
}

// FederatedZipAtClients returns the client-side zip operator over a struct
// of already-placed values:
// (<{T1}@CLIENTS,...> -> {<T1,...>}@CLIENTS). Every element of placed must
// be a client-placed federated type; all-equal elements zip like any other.
// Element names carry over.
func FederatedZipAtClients(placed types.StructType) *Intrinsic {
	result := make([]types.Element, len(placed.Elements))
	for i, e := range placed.Elements {
		ft, ok := e.Type.(types.FederatedType)
		if !ok || ft.Placement != types.Clients {
			panic(fmt.Sprintf("compiler: federated_zip_at_clients: element %d is not placed at clients: %s", i, e.Type))
		}
		result[i] = types.Element{Name: e.Name, Type: ft.Member}
	}
	return mustIntrinsic(FederatedZipAtClientsURI, types.Function(
		placed,
		types.AtClients(types.StructType{Elements: result}),
	))
}

// FederatedZipAtServer returns the server-side zip operator:
// (<T1@SERVER,...> -> <T1,...>@SERVER). Every element of placed must be a
// server-placed federated type. Element names carry over.
func FederatedZipAtServer(placed types.StructType) *Intrinsic {
	result := make([]types.Element, len(placed.Elements))
	for i, e := range placed.Elements {
		ft, ok := e.Type.(types.FederatedType)
		if !ok || ft.Placement != types.Server {
			panic(fmt.Sprintf("compiler: federated_zip_at_server: element %d is not placed at server: %s", i, e.Type))
		}
		result[i] = types.Element{Name: e.Name, Type: ft.Member}
	}
	return mustIntrinsic(FederatedZipAtServerURI, types.Function(
		placed,
		types.AtServer(types.StructType{Elements: result}),
	))
}
