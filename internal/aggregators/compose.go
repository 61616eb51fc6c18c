package aggregators

import (
	"fmt"

	"github.com/weft-fl/weft/internal/compiler"
	"github.com/weft-fl/weft/internal/types"
)

// The must* helpers panic on construction errors. Factories validate their
// inputs before composing, so a failure here is an internal inconsistency,
// not bad user input.

func mustRef(name string, typ types.Type) *compiler.Reference {
	r, err := compiler.NewReference(name, typ)
	if err != nil {
		panic(fmt.Sprintf("aggregators: %v", err))
	}
	return r
}

func mustSelect(source compiler.BuildingBlock, index int) *compiler.Selection {
	s, err := compiler.NewSelectionByIndex(source, index)
	if err != nil {
		panic(fmt.Sprintf("aggregators: %v", err))
	}
	return s
}

func mustSelectName(source compiler.BuildingBlock, name string) *compiler.Selection {
	s, err := compiler.NewSelectionByName(source, name)
	if err != nil {
		panic(fmt.Sprintf("aggregators: %v", err))
	}
	return s
}

func mustStruct(elements ...compiler.StructElement) *compiler.Struct {
	s, err := compiler.NewStruct(elements)
	if err != nil {
		panic(fmt.Sprintf("aggregators: %v", err))
	}
	return s
}

func mustCall(fn, arg compiler.BuildingBlock) *compiler.Call {
	c, err := compiler.NewCall(fn, arg)
	if err != nil {
		panic(fmt.Sprintf("aggregators: %v", err))
	}
	return c
}

func mustLambda(paramName string, paramType types.Type, body compiler.BuildingBlock) *compiler.Lambda {
	l, err := compiler.NewLambda(paramName, paramType, body)
	if err != nil {
		panic(fmt.Sprintf("aggregators: %v", err))
	}
	return l
}

// apply maps an unplaced function over a server-placed value.
func apply(fn, value compiler.BuildingBlock) *compiler.Call {
	fnType := fn.TypeSignature().(types.FunctionType)
	return mustCall(compiler.FederatedApply(fnType),
		mustStruct(compiler.StructElement{Value: fn}, compiler.StructElement{Value: value}))
}

// mapAtClients maps an unplaced function over a client-placed value.
func mapAtClients(fn, value compiler.BuildingBlock) *compiler.Call {
	fnType := fn.TypeSignature().(types.FunctionType)
	return mustCall(compiler.FederatedMap(fnType),
		mustStruct(compiler.StructElement{Value: fn}, compiler.StructElement{Value: value}))
}

// zipAtServer zips named server-placed values into one placed struct.
func zipAtServer(elements ...compiler.StructElement) *compiler.Call {
	placed := make([]types.Element, len(elements))
	for i, e := range elements {
		placed[i] = types.Element{Name: e.Name, Type: e.Value.TypeSignature()}
	}
	return mustCall(
		compiler.FederatedZipAtServer(types.StructType{Elements: placed}),
		mustStruct(elements...))
}

// zipAtClients zips client-placed values into one placed struct.
func zipAtClients(elements ...compiler.StructElement) *compiler.Call {
	placed := make([]types.Element, len(elements))
	for i, e := range elements {
		placed[i] = types.Element{Name: e.Name, Type: e.Value.TypeSignature()}
	}
	return mustCall(
		compiler.FederatedZipAtClients(types.StructType{Elements: placed}),
		mustStruct(elements...))
}
