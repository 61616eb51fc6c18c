// Package types implements the closed set of computation type signatures:
// tensors, structs, functions, federated values, sequences, and placements.
//
// Types are immutable values. Equality is structural, never nominal; two
// types are equal exactly when their trees are equal, element names and
// order included. Every building block in the compiler carries exactly one
// Type, fixed at construction.
package types
