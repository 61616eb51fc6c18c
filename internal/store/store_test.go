package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weft-fl/weft/internal/aggregators"
	"github.com/weft-fl/weft/internal/compiler"
	"github.com/weft-fl/weft/internal/types"
	"github.com/weft-fl/weft/internal/wire"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleComputation(t *testing.T) *wire.Computation {
	t.Helper()
	ref, err := compiler.NewReference("x", types.Tensor(types.Int32))
	require.NoError(t, err)
	lambda, err := compiler.NewLambda("x", types.Tensor(types.Int32), ref)
	require.NoError(t, err)
	return compiler.ToProto(lambda)
}

func TestOpenAppliesPragmas(t *testing.T) {
	s := openTestStore(t)
	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	proto := sampleComputation(t)
	id, err := s.Put(ctx, proto)
	require.NoError(t, err)
	assert.Equal(t, wire.MustComputationID(proto), id)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)

	want, err := compiler.FromProto(proto)
	require.NoError(t, err)
	back, err := compiler.FromProto(got)
	require.NoError(t, err)
	assert.True(t, compiler.Equal(want, back))
}

func TestPutIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	proto := sampleComputation(t)
	first, err := s.Put(ctx, proto)
	require.NoError(t, err)
	second, err := s.Put(ctx, proto)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	rows, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestPutRejectsMalformed(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Put(context.Background(), &wire.Computation{})
	require.Error(t, err)

	rows, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGetNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRows(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Put(ctx, sampleComputation(t))
	require.NoError(t, err)

	discretize, err := aggregators.BuildDiscretizeComputation(types.Tensor(types.Float32), types.Int32)
	require.NoError(t, err)
	_, err = s.Put(ctx, compiler.ToProto(discretize))
	require.NoError(t, err)

	rows, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	kinds := map[string]string{}
	for _, r := range rows {
		assert.Len(t, r.ID, 64)
		assert.NotEmpty(t, r.Type)
		kinds[r.Kind] = r.Type
	}
	assert.Equal(t, "(int32 -> int32)", kinds["lambda"])
	assert.Equal(t, "(<float32,float64> -> int32)", kinds["compiled computation"])
}

func TestListEmpty(t *testing.T) {
	s := openTestStore(t)
	rows, err := s.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
