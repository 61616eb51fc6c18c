package cli

import (
	"fmt"
	"os"

	"github.com/weft-fl/weft/internal/compiler"
	"github.com/weft-fl/weft/internal/wire"
)

// ComputationSummary is the common success payload for commands that handle
// a single computation.
type ComputationSummary struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Type string `json:"type"`
}

// loadPacked reads a packed computation file and reconstructs the building
// block, so every command operates on a validated computation.
func loadPacked(path string) (*wire.Computation, compiler.BuildingBlock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	proto, err := wire.Unmarshal(data)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	block, err := compiler.FromProto(proto)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return proto, block, nil
}

// summarize computes the registry-style summary of a computation.
func summarize(proto *wire.Computation, block compiler.BuildingBlock) (ComputationSummary, error) {
	id, err := wire.ComputationID(proto)
	if err != nil {
		return ComputationSummary{}, err
	}
	return ComputationSummary{
		ID:   id,
		Kind: compiler.Kind(block),
		Type: block.TypeSignature().String(),
	}, nil
}
