// Package compiler implements the building-block intermediate
// representation of federated computations: an immutable, typed expression
// tree with a serialization round trip to the wire format.
//
// Every building block carries exactly one type signature, computed and
// validated when the node is constructed. Construction is the only place
// type rules are enforced; after that the tree is read-only, so building
// blocks are safe to share across goroutines without synchronization.
//
// The variant set is closed: Reference, Selection, Struct, Call, Lambda,
// Block, CompiledComputation, Intrinsic, Placement, Data, and Literal.
// Serialization, equality, and printing all switch exhaustively over it, so
// a new variant cannot be added without updating every consumer.
package compiler
