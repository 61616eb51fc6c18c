package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/weft-fl/weft/internal/compiler"
	"github.com/weft-fl/weft/internal/wire"
)

// ErrNotFound is returned by Get when no computation has the given id.
var ErrNotFound = errors.New("store: computation not found")

// Row is one registry listing entry.
type Row struct {
	ID   string
	Kind string
	Type string
}

// Put stores a computation keyed by its content address. The computation is
// validated by reconstructing it before anything is written. Re-putting the
// same computation is a no-op; both calls return the same id.
func (s *Store) Put(ctx context.Context, c *wire.Computation) (string, error) {
	block, err := compiler.FromProto(c)
	if err != nil {
		return "", fmt.Errorf("store: put: %w", err)
	}

	data, err := wire.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("store: put: %w", err)
	}
	id, err := wire.ComputationID(c)
	if err != nil {
		return "", fmt.Errorf("store: put: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO computations (id, kind, type, proto)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, compiler.Kind(block), block.TypeSignature().String(), data)
	if err != nil {
		return "", fmt.Errorf("store: put: %w", err)
	}

	return id, nil
}

// Get returns the computation stored under the given id.
func (s *Store) Get(ctx context.Context, id string) (*wire.Computation, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT proto FROM computations WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %s: %w", id, err)
	}

	c, err := wire.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("store: get %s: %w", id, err)
	}
	return c, nil
}

// List returns one row per stored computation, ordered by id for
// deterministic output.
func (s *Store) List(ctx context.Context) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, type
		FROM computations
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ID, &r.Kind, &r.Type); err != nil {
			return nil, fmt.Errorf("store: list: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}

	if out == nil {
		out = []Row{}
	}
	return out, nil
}
