// Package aggregators builds federated aggregation processes as computation
// trees. A factory takes the type of the value placed at the clients and
// produces a two-computation process: initialize constructs the server
// state, next runs one aggregation round.
//
// The deterministic discretization factory wraps any inner factory with a
// rounding stage: client values are mapped onto a fixed integer grid before
// the inner aggregation runs, and the aggregate is mapped back on the
// server. Discretization is stateless and deterministic, so the same inputs
// always produce the same quantized values.
package aggregators
