package wire

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefix for content-addressed computation identity. The version
// suffix leaves room for a future encoding migration.
const DomainComputation = "weft/computation/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ComputationID computes the content-addressed ID of a computation from its
// canonical bytes. The ID is stable across processes and machines given the
// same computation.
func ComputationID(c *Computation) (string, error) {
	canonical, err := Marshal(c)
	if err != nil {
		return "", fmt.Errorf("ComputationID: %w", err)
	}
	return hashWithDomain(DomainComputation, canonical), nil
}

// MustComputationID is like ComputationID but panics on error. Use only in
// tests or when the computation is known to be valid.
func MustComputationID(c *Computation) string {
	id, err := ComputationID(c)
	if err != nil {
		panic(err)
	}
	return id
}
