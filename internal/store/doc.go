// Package store is the durable computation registry. It keeps canonical
// wire encodings in SQLite, keyed by content address, so a computation can
// be compiled once and inspected or analyzed later by id.
package store
