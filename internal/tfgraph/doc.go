// Package tfgraph models the packed TensorFlow-style operation graph that a
// compiled computation embeds as an opaque payload.
//
// The compiler core never executes these graphs; it only packs them,
// unpacks them, and walks their node lists for diagnostics. The GraphDef
// model here is deliberately minimal: node kind, device placement, inputs,
// and sub-function definitions are all the analysis passes need.
package tfgraph
