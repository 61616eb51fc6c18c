package compiler

import "github.com/weft-fl/weft/internal/types"

// Equal reports structural equality of two building blocks: same variant,
// same type signature, and recursively equal children. Compiled
// computations compare by their content-addressed IDs, which cover both
// payload bytes and declared type.
func Equal(a, b BuildingBlock) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !types.Equal(a.TypeSignature(), b.TypeSignature()) {
		return false
	}
	switch at := a.(type) {
	case *Reference:
		bt, ok := b.(*Reference)
		return ok && at.name == bt.name
	case *Selection:
		bt, ok := b.(*Selection)
		return ok && at.index == bt.index && at.name == bt.name && Equal(at.source, bt.source)
	case *Struct:
		bt, ok := b.(*Struct)
		if !ok || len(at.elements) != len(bt.elements) {
			return false
		}
		for i := range at.elements {
			if at.elements[i].Name != bt.elements[i].Name {
				return false
			}
			if !Equal(at.elements[i].Value, bt.elements[i].Value) {
				return false
			}
		}
		return true
	case *Call:
		bt, ok := b.(*Call)
		return ok && Equal(at.fn, bt.fn) && Equal(at.arg, bt.arg)
	case *Lambda:
		bt, ok := b.(*Lambda)
		return ok && at.paramName == bt.paramName &&
			types.Equal(at.paramType, bt.paramType) && Equal(at.body, bt.body)
	case *Block:
		bt, ok := b.(*Block)
		if !ok || len(at.locals) != len(bt.locals) {
			return false
		}
		for i := range at.locals {
			if at.locals[i].Name != bt.locals[i].Name {
				return false
			}
			if !Equal(at.locals[i].Value, bt.locals[i].Value) {
				return false
			}
		}
		return Equal(at.result, bt.result)
	case *CompiledComputation:
		bt, ok := b.(*CompiledComputation)
		return ok && at.id == bt.id
	case *Intrinsic:
		bt, ok := b.(*Intrinsic)
		return ok && at.uri == bt.uri
	case *Placement:
		bt, ok := b.(*Placement)
		return ok && at.placement == bt.placement
	case *Data:
		bt, ok := b.(*Data)
		return ok && at.uri == bt.uri
	case *Literal:
		bt, ok := b.(*Literal)
		return ok && at.dtype == bt.dtype && at.value == bt.value
	default:
		return false
	}
}
