// Package wire defines the serialized form of weft computations.
//
// A Computation message carries a declared type signature plus exactly one
// variant body, mirroring a proto oneof. The byte encoding is RFC 8785
// canonical JSON so that equal computations always serialize to equal bytes,
// which is what makes content-addressed computation IDs stable across
// machines and runs.
//
// This package contains message definitions and encoding only. All other
// internal packages import wire; wire imports nothing internal.
package wire
