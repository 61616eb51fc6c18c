package tfgraph

// Builder assembles a GraphDef node by node. Node names are caller-chosen
// and returned back so they can feed later inputs and bindings; the builder
// does not invent names, which keeps fixture graphs deterministic.
type Builder struct {
	g      GraphDef
	device string
}

// NewBuilder returns an empty graph builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// OnDevice sets the explicit device annotation applied to nodes added from
// now on. Pass "" to return to unplaced nodes.
func (b *Builder) OnDevice(device string) *Builder {
	b.device = device
	return b
}

// Node appends an operation and returns its name.
func (b *Builder) Node(name, op string, inputs ...string) string {
	b.g.Node = append(b.g.Node, NodeDef{
		Name:   name,
		Op:     op,
		Device: b.device,
		Input:  inputs,
	})
	return name
}

// Const appends a constant op.
func (b *Builder) Const(name string) string {
	return b.Node(name, OpConst)
}

// Placeholder appends a graph input op.
func (b *Builder) Placeholder(name string) string {
	return b.Node(name, OpPlaceholder)
}

// Identity appends an identity op capturing the given input.
func (b *Builder) Identity(name, input string) string {
	return b.Node(name, OpIdentity, input)
}

// Variable appends a stateful variable declaration.
func (b *Builder) Variable(name string) string {
	return b.Node(name, OpVarHandle)
}

// Call appends an invocation of a sub-function from the graph's library.
func (b *Builder) Call(name, function string, inputs ...string) string {
	b.g.Node = append(b.g.Node, NodeDef{
		Name:     name,
		Op:       OpPartitionedCall,
		Device:   b.device,
		Input:    inputs,
		Function: function,
	})
	return name
}

// Function opens a sub-function definition. Nodes added through the
// returned builder land in the function body, not the outer graph.
func (b *Builder) Function(name string) *FunctionBuilder {
	b.g.Function = append(b.g.Function, FunctionDef{Name: name})
	return &FunctionBuilder{fn: &b.g.Function[len(b.g.Function)-1]}
}

// Graph returns the assembled graph. The builder must not be reused after.
func (b *Builder) Graph() *GraphDef {
	return &b.g
}

// FunctionBuilder assembles the body of one sub-function.
type FunctionBuilder struct {
	fn *FunctionDef
}

// Node appends an operation to the function body and returns its name.
func (f *FunctionBuilder) Node(name, op string, inputs ...string) string {
	f.fn.Node = append(f.fn.Node, NodeDef{Name: name, Op: op, Input: inputs})
	return name
}

// Const appends a constant op to the function body.
func (f *FunctionBuilder) Const(name string) string {
	return f.Node(name, OpConst)
}

// Identity appends an identity op to the function body.
func (f *FunctionBuilder) Identity(name, input string) string {
	return f.Node(name, OpIdentity, input)
}

// Variable appends a stateful variable declaration to the function body.
func (f *FunctionBuilder) Variable(name string) string {
	return f.Node(name, OpVarHandle)
}
