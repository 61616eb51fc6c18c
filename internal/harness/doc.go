// Package harness simulates aggregation rounds numerically. It mirrors the
// discretization pipeline built by the aggregators package (discretize at
// the clients, sum, undiscretize at the server) with plain scalar math, so
// scenario traces can be pinned in golden files without a tensor execution
// engine.
//
// Scenarios are YAML files: a step size, optional distortion measurement,
// and per-round client vectors. Each run carries a run token; fixed tokens
// keep golden traces deterministic.
package harness
