package wire

// Type is the serialized form of a computation type signature.
// Exactly one variant field must be set.
type Type struct {
	Tensor    *TensorType    `json:"tensor,omitempty"`
	Struct    *StructType    `json:"struct,omitempty"`
	Function  *FunctionType  `json:"function,omitempty"`
	Federated *FederatedType `json:"federated,omitempty"`
	Sequence  *SequenceType  `json:"sequence,omitempty"`
	Placement *PlacementType `json:"placement,omitempty"`
}

// TensorType describes a dense tensor. A dim of -1 means the dimension is
// unknown at compile time.
type TensorType struct {
	DType string  `json:"dtype"`
	Dims  []int64 `json:"dims,omitempty"`
}

// StructType describes an ordered, optionally named tuple of types.
type StructType struct {
	Element []StructTypeElement `json:"element,omitempty"`
}

// StructTypeElement is a single struct element. An empty name means the
// element is positional only.
type StructTypeElement struct {
	Name string `json:"name,omitempty"`
	Type *Type  `json:"type"`
}

// FunctionType describes a function. A nil Parameter means the function
// takes no argument.
type FunctionType struct {
	Parameter *Type `json:"parameter,omitempty"`
	Result    *Type `json:"result"`
}

// FederatedType describes a value placed at CLIENTS or SERVER.
type FederatedType struct {
	Member    *Type  `json:"member"`
	Placement string `json:"placement"`
	AllEqual  bool   `json:"all_equal,omitempty"`
}

// SequenceType describes a sequence of homogeneous elements.
type SequenceType struct {
	Element *Type `json:"element"`
}

// PlacementType marks the type of a placement literal. It has no body; its
// presence in the oneof is the information.
type PlacementType struct{}

// Computation is the wire form of a building block. Type is always present;
// exactly one of the body fields must be set.
type Computation struct {
	Type *Type `json:"type"`

	Reference  *Reference  `json:"reference,omitempty"`
	Selection  *Selection  `json:"selection,omitempty"`
	Struct     *Struct     `json:"struct,omitempty"`
	Call       *Call       `json:"call,omitempty"`
	Lambda     *Lambda     `json:"lambda,omitempty"`
	Block      *Block      `json:"block,omitempty"`
	TensorFlow *TensorFlow `json:"tensorflow,omitempty"`
	Intrinsic  *Intrinsic  `json:"intrinsic,omitempty"`
	Placement  *Placement  `json:"placement,omitempty"`
	Data       *Data       `json:"data,omitempty"`
	Literal    *Literal    `json:"literal,omitempty"`
}

// Reference is a bound variable occurrence.
type Reference struct {
	Name string `json:"name"`
}

// Selection picks an element out of a struct-typed source, either by
// zero-based index or by name. Exactly one of Index and Name is meaningful;
// Index is nil for selection by name.
type Selection struct {
	Source *Computation `json:"source"`
	Index  *int64       `json:"index,omitempty"`
	Name   string       `json:"name,omitempty"`
}

// Struct is an ordered tuple of computations with optional element names.
type Struct struct {
	Element []StructElement `json:"element,omitempty"`
}

// StructElement is a single element of a Struct body.
type StructElement struct {
	Name  string       `json:"name,omitempty"`
	Value *Computation `json:"value"`
}

// Call applies a function-typed computation to an optional argument.
type Call struct {
	Function *Computation `json:"function"`
	Argument *Computation `json:"argument,omitempty"`
}

// Lambda introduces a binding scope. The parameter type lives on the
// enclosing Computation's declared function type, not here. An empty
// ParameterName means the lambda takes no argument.
type Lambda struct {
	ParameterName string       `json:"parameter_name,omitempty"`
	Result        *Computation `json:"result"`
}

// Block is a sequence of named locals followed by a result expression.
type Block struct {
	Local  []BlockLocal `json:"local,omitempty"`
	Result *Computation `json:"result"`
}

// BlockLocal is one named local binding of a Block.
type BlockLocal struct {
	Name  string       `json:"name"`
	Value *Computation `json:"value"`
}

// TensorFlow wraps a packed, opaque low-level operation graph together with
// the bindings that map the graph's inputs and outputs onto the declared
// parameter and result types. Parameter is nil for no-argument computations.
type TensorFlow struct {
	GraphDef  []byte   `json:"graph_def"`
	Parameter *Binding `json:"parameter,omitempty"`
	Result    *Binding `json:"result"`
}

// Binding maps a (possibly nested) value onto graph tensors. A binding is
// either a single tensor (TensorName set, Element empty) or a struct of
// sub-bindings (Element set).
type Binding struct {
	TensorName string     `json:"tensor_name,omitempty"`
	Element    []*Binding `json:"element,omitempty"`
}

// Intrinsic names a built-in federated operator by URI.
type Intrinsic struct {
	URI string `json:"uri"`
}

// Placement carries a placement literal by URI ("clients" or "server").
type Placement struct {
	URI string `json:"uri"`
}

// Data is an opaque reference to externally materialized data.
type Data struct {
	URI string `json:"uri"`
}

// Literal embeds a scalar constant. Value is the canonical decimal text of
// the constant; DType names its tensor dtype. Text rather than a numeric
// JSON field keeps the canonical encoding float-free.
type Literal struct {
	DType string `json:"dtype"`
	Value string `json:"value"`
}
