package compiler

import (
	"strconv"

	"github.com/weft-fl/weft/internal/types"
	"github.com/weft-fl/weft/internal/wire"
)

// BuildingBlock is the sealed interface over all IR node variants. A
// building block and its type signature are immutable once constructed;
// analysis and serialization only ever read them.
type BuildingBlock interface {
	// TypeSignature returns the node's type, fixed at construction.
	TypeSignature() types.Type

	// String returns the compact textual form of the subtree.
	String() string

	buildingBlock() // sealed
}

// Kind returns the lowercase kind name of a building block, for error
// messages and registry rows.
func Kind(b BuildingBlock) string {
	switch b.(type) {
	case *Reference:
		return "reference"
	case *Selection:
		return "selection"
	case *Struct:
		return "struct"
	case *Call:
		return "call"
	case *Lambda:
		return "lambda"
	case *Block:
		return "block"
	case *CompiledComputation:
		return "compiled computation"
	case *Intrinsic:
		return "intrinsic"
	case *Placement:
		return "placement"
	case *Data:
		return "data"
	case *Literal:
		return "literal"
	default:
		return "unknown"
	}
}

// Reference is a bound variable occurrence. It has no children; its type is
// the declared type of the binding it refers to.
type Reference struct {
	name string
	typ  types.Type
}

// NewReference constructs a reference to the named binding.
func NewReference(name string, typ types.Type) (*Reference, error) {
	if name == "" {
		return nil, structureErrorf("reference", "name must be non-empty")
	}
	if typ == nil {
		return nil, structureErrorf("reference", "%s: type must be non-nil", name)
	}
	return &Reference{name: name, typ: typ}, nil
}

func (r *Reference) buildingBlock() {}
func (r *Reference) TypeSignature() types.Type { return r.typ }
func (r *Reference) Name() string { return r.name }

// Selection picks one element out of a struct-typed source, by zero-based
// index or by name.
type Selection struct {
	source BuildingBlock
	index  int
	name   string // empty for selection by index
	typ    types.Type
}

// NewSelectionByIndex constructs a selection of the index-th element.
func NewSelectionByIndex(source BuildingBlock, index int) (*Selection, error) {
	st, err := selectionSourceType(source)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(st.Elements) {
		return nil, structureErrorf("selection",
			"index %d out of range for %s", index, st)
	}
	return &Selection{source: source, index: index, typ: st.Elements[index].Type}, nil
}

// NewSelectionByName constructs a selection of the named element.
func NewSelectionByName(source BuildingBlock, name string) (*Selection, error) {
	st, err := selectionSourceType(source)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, structureErrorf("selection", "name must be non-empty")
	}
	i := st.IndexOf(name)
	if i < 0 {
		return nil, structureErrorf("selection", "no element named %q in %s", name, st)
	}
	return &Selection{source: source, index: i, name: name, typ: st.Elements[i].Type}, nil
}

func selectionSourceType(source BuildingBlock) (types.StructType, error) {
	if source == nil {
		return types.StructType{}, structureErrorf("selection", "source must be non-nil")
	}
	st, ok := source.TypeSignature().(types.StructType)
	if !ok {
		return types.StructType{}, structureErrorf("selection",
			"source must have struct type, found %s", source.TypeSignature())
	}
	return st, nil
}

func (s *Selection) buildingBlock() {}
func (s *Selection) TypeSignature() types.Type { return s.typ }
func (s *Selection) Source() BuildingBlock { return s.source }

// Index returns the resolved zero-based element index. For selection by
// name this is the index the name resolved to.
func (s *Selection) Index() int { return s.index }

// ElementName returns the selected element name, or "" for selection by
// index.
func (s *Selection) ElementName() string { return s.name }

// StructElement is one element of a Struct node.
type StructElement struct {
	Name  string // "" for a positional element
	Value BuildingBlock
}

// Struct is an ordered tuple of building blocks with optionally named
// elements.
type Struct struct {
	elements []StructElement
	typ      types.StructType
}

// NewStruct constructs a struct node. Names, where present, must be unique
// among the named elements.
func NewStruct(elements []StructElement) (*Struct, error) {
	seen := make(map[string]bool, len(elements))
	typeElements := make([]types.Element, len(elements))
	for i, e := range elements {
		if e.Value == nil {
			return nil, structureErrorf("struct", "element %d: value must be non-nil", i)
		}
		if e.Name != "" {
			if seen[e.Name] {
				return nil, structureErrorf("struct", "duplicate element name %q", e.Name)
			}
			seen[e.Name] = true
		}
		typeElements[i] = types.Element{Name: e.Name, Type: e.Value.TypeSignature()}
	}
	return &Struct{
		elements: append([]StructElement(nil), elements...),
		typ:      types.StructType{Elements: typeElements},
	}, nil
}

func (s *Struct) buildingBlock() {}
func (s *Struct) TypeSignature() types.Type { return s.typ }

// Elements returns the struct's elements. The returned slice must not be
// mutated.
func (s *Struct) Elements() []StructElement { return s.elements }

// Call applies a function-typed building block to an optional argument.
type Call struct {
	fn  BuildingBlock
	arg BuildingBlock // nil for no-argument calls
	typ types.Type
}

// NewCall constructs a function application. The function must have a
// function type; the argument's presence and type must match the
// function's parameter.
func NewCall(fn, arg BuildingBlock) (*Call, error) {
	if fn == nil {
		return nil, structureErrorf("call", "function must be non-nil")
	}
	ft, ok := fn.TypeSignature().(types.FunctionType)
	if !ok {
		return nil, structureErrorf("call",
			"function must have function type, found %s", fn.TypeSignature())
	}
	if ft.Parameter == nil {
		if arg != nil {
			return nil, structureErrorf("call",
				"function %s takes no argument but one was supplied", ft)
		}
	} else {
		if arg == nil {
			return nil, structureErrorf("call",
				"function %s requires an argument but none was supplied", ft)
		}
		if !types.Equal(arg.TypeSignature(), ft.Parameter) {
			return nil, structureErrorf("call",
				"argument type %s does not match parameter type %s",
				arg.TypeSignature(), ft.Parameter)
		}
	}
	return &Call{fn: fn, arg: arg, typ: ft.Result}, nil
}

func (c *Call) buildingBlock() {}
func (c *Call) TypeSignature() types.Type { return c.typ }
func (c *Call) Function() BuildingBlock { return c.fn }

// Argument returns the call argument, or nil for a no-argument call.
func (c *Call) Argument() BuildingBlock { return c.arg }

// Lambda introduces a binding scope. A lambda with an empty parameter name
// and nil parameter type takes no argument.
type Lambda struct {
	paramName string
	paramType types.Type
	body      BuildingBlock
	typ       types.FunctionType
}

// NewLambda constructs a lambda. Parameter name and type must be supplied
// together or not at all.
func NewLambda(parameterName string, parameterType types.Type, body BuildingBlock) (*Lambda, error) {
	if body == nil {
		return nil, structureErrorf("lambda", "body must be non-nil")
	}
	if (parameterName == "") != (parameterType == nil) {
		return nil, structureErrorf("lambda",
			"parameter name and type must be supplied together")
	}
	return &Lambda{
		paramName: parameterName,
		paramType: parameterType,
		body:      body,
		typ:       types.Function(parameterType, body.TypeSignature()),
	}, nil
}

func (l *Lambda) buildingBlock() {}
func (l *Lambda) TypeSignature() types.Type { return l.typ }
func (l *Lambda) ParameterName() string { return l.paramName }

// ParameterType returns the parameter type, or nil for a no-argument
// lambda.
func (l *Lambda) ParameterType() types.Type { return l.paramType }
func (l *Lambda) Body() BuildingBlock { return l.body }

// Local is one named local binding of a Block.
type Local struct {
	Name  string
	Value BuildingBlock
}

// Block is a sequence of named locals followed by a result. Each local is
// in scope for all subsequent locals and for the result.
type Block struct {
	locals []Local
	result BuildingBlock
}

// NewBlock constructs a block.
func NewBlock(locals []Local, result BuildingBlock) (*Block, error) {
	if result == nil {
		return nil, structureErrorf("block", "result must be non-nil")
	}
	for i, l := range locals {
		if l.Name == "" {
			return nil, structureErrorf("block", "local %d: name must be non-empty", i)
		}
		if l.Value == nil {
			return nil, structureErrorf("block", "local %q: value must be non-nil", l.Name)
		}
	}
	return &Block{locals: append([]Local(nil), locals...), result: result}, nil
}

func (b *Block) buildingBlock() {}
func (b *Block) TypeSignature() types.Type { return b.result.TypeSignature() }

// Locals returns the block's locals. The returned slice must not be
// mutated.
func (b *Block) Locals() []Local { return b.locals }
func (b *Block) Result() BuildingBlock { return b.result }

// CompiledComputation is a leaf wrapping an opaque, already-lowered
// low-level operation graph. The embedded payload is an immutable value and
// may be shared by multiple independent trees.
type CompiledComputation struct {
	tf  *wire.TensorFlow
	typ types.FunctionType
	id  string
}

// NewCompiledComputation wraps a packed graph payload and its declared
// function type. The parameter binding must be present exactly when the
// function type has a parameter.
func NewCompiledComputation(tf *wire.TensorFlow, typ types.Type) (*CompiledComputation, error) {
	if tf == nil {
		return nil, structureErrorf("compiled computation", "payload must be non-nil")
	}
	ft, ok := typ.(types.FunctionType)
	if !ok {
		return nil, structureErrorf("compiled computation",
			"type must be a function type, found %v", typ)
	}
	if len(tf.GraphDef) == 0 {
		return nil, structureErrorf("compiled computation", "graph payload is empty")
	}
	if tf.Result == nil {
		return nil, structureErrorf("compiled computation", "result binding is missing")
	}
	if (ft.Parameter == nil) != (tf.Parameter == nil) {
		if ft.Parameter == nil {
			return nil, structureErrorf("compiled computation",
				"type %s takes no parameter but a parameter binding is present", ft)
		}
		return nil, structureErrorf("compiled computation",
			"type %s requires a parameter binding but none is present", ft)
	}
	if !bindingMatches(tf.Result, ft.Result) {
		return nil, structureErrorf("compiled computation",
			"result binding does not mirror result type %s", ft.Result)
	}
	if ft.Parameter != nil && !bindingMatches(tf.Parameter, ft.Parameter) {
		return nil, structureErrorf("compiled computation",
			"parameter binding does not mirror parameter type %s", ft.Parameter)
	}
	c := &CompiledComputation{tf: tf, typ: ft}
	id, err := wire.ComputationID(ToProto(c))
	if err != nil {
		return nil, structureErrorf("compiled computation", "hash payload: %v", err)
	}
	c.id = id
	return c, nil
}

// bindingMatches reports whether a binding mirrors the shape of the type
// it carries: a tensor name for tensor and sequence types, one sub-binding
// per element for struct types.
func bindingMatches(b *wire.Binding, t types.Type) bool {
	if b == nil || t == nil {
		return false
	}
	switch tt := t.(type) {
	case types.TensorType:
		return b.TensorName != "" && len(b.Element) == 0
	case types.SequenceType:
		// Sequences bind through a single dataset handle tensor.
		return b.TensorName != "" && len(b.Element) == 0
	case types.StructType:
		if b.TensorName != "" || len(b.Element) != len(tt.Elements) {
			return false
		}
		for i, e := range tt.Elements {
			if !bindingMatches(b.Element[i], e.Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (c *CompiledComputation) buildingBlock() {}
func (c *CompiledComputation) TypeSignature() types.Type { return c.typ }

// FunctionType returns the computation's type as a function type.
func (c *CompiledComputation) FunctionType() types.FunctionType { return c.typ }

// Payload returns the embedded TensorFlow message. Callers must treat it as
// read-only; it may be shared across trees.
func (c *CompiledComputation) Payload() *wire.TensorFlow { return c.tf }

// ID returns the content-addressed identity of the computation.
func (c *CompiledComputation) ID() string { return c.id }

// Intrinsic names a built-in federated operator by URI. Its semantics live
// in the runtime; the compiler only tracks the URI and the type.
type Intrinsic struct {
	uri string
	typ types.Type
}

// NewIntrinsic constructs an intrinsic node.
func NewIntrinsic(uri string, typ types.Type) (*Intrinsic, error) {
	if uri == "" {
		return nil, structureErrorf("intrinsic", "uri must be non-empty")
	}
	if typ == nil {
		return nil, structureErrorf("intrinsic", "%s: type must be non-nil", uri)
	}
	return &Intrinsic{uri: uri, typ: typ}, nil
}

func (i *Intrinsic) buildingBlock() {}
func (i *Intrinsic) TypeSignature() types.Type { return i.typ }
func (i *Intrinsic) URI() string { return i.uri }

// Placement is a leaf carrying a placement literal.
type Placement struct {
	placement types.Placement
}

// NewPlacement constructs a placement literal.
func NewPlacement(p types.Placement) (*Placement, error) {
	if !p.Valid() {
		return nil, structureErrorf("placement", "unknown placement %q", string(p))
	}
	return &Placement{placement: p}, nil
}

func (p *Placement) buildingBlock() {}
func (p *Placement) TypeSignature() types.Type { return types.PlacementType{} }
func (p *Placement) Placement() types.Placement { return p.placement }

// Data is a leaf referencing externally materialized data by URI.
type Data struct {
	uri string
	typ types.Type
}

// NewData constructs a data reference.
func NewData(uri string, typ types.Type) (*Data, error) {
	if uri == "" {
		return nil, structureErrorf("data", "uri must be non-empty")
	}
	if typ == nil {
		return nil, structureErrorf("data", "%s: type must be non-nil", uri)
	}
	return &Data{uri: uri, typ: typ}, nil
}

func (d *Data) buildingBlock() {}
func (d *Data) TypeSignature() types.Type { return d.typ }
func (d *Data) URI() string { return d.uri }

// Literal is a leaf embedding a scalar constant. The value is kept as
// canonical decimal text; its type is the scalar tensor of the dtype.
type Literal struct {
	dtype types.DType
	value string
}

// NewLiteral constructs a literal from canonical text, validating that the
// text parses under the dtype.
func NewLiteral(d types.DType, value string) (*Literal, error) {
	if !d.Valid() {
		return nil, structureErrorf("literal", "unknown dtype %q", string(d))
	}
	switch {
	case d.IsFloat():
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, structureErrorf("literal", "%q is not a valid %s", value, d)
		}
		return &Literal{dtype: d, value: strconv.FormatFloat(f, 'g', -1, 64)}, nil
	case d.IsInteger():
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, structureErrorf("literal", "%q is not a valid %s", value, d)
		}
		return &Literal{dtype: d, value: strconv.FormatInt(n, 10)}, nil
	case d == types.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, structureErrorf("literal", "%q is not a valid %s", value, d)
		}
		return &Literal{dtype: d, value: strconv.FormatBool(b)}, nil
	default:
		return &Literal{dtype: d, value: value}, nil
	}
}

// NewFloatLiteral constructs a floating-point literal.
func NewFloatLiteral(v float64, d types.DType) (*Literal, error) {
	if !d.IsFloat() {
		return nil, structureErrorf("literal", "dtype %s is not floating-point", d)
	}
	return &Literal{dtype: d, value: strconv.FormatFloat(v, 'g', -1, 64)}, nil
}

// NewIntLiteral constructs an integer literal.
func NewIntLiteral(v int64, d types.DType) (*Literal, error) {
	if !d.IsInteger() {
		return nil, structureErrorf("literal", "dtype %s is not integral", d)
	}
	return &Literal{dtype: d, value: strconv.FormatInt(v, 10)}, nil
}

func (l *Literal) buildingBlock() {}
func (l *Literal) TypeSignature() types.Type { return types.Tensor(l.dtype) }
func (l *Literal) DType() types.DType { return l.dtype }

// Value returns the canonical text of the constant.
func (l *Literal) Value() string { return l.value }

// FloatValue parses the constant as a float64. Valid only for
// floating-point literals.
func (l *Literal) FloatValue() (float64, error) {
	return strconv.ParseFloat(l.value, 64)
}
