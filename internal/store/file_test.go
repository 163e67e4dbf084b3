package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmallory42/super-fpl/internal/models"
)

func TestFileStoreRoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx := context.Background()
	require.NoError(t, s.Connect(ctx))

	_, err := s.GetPlayers(ctx, nil)
	assert.ErrorIs(t, err, ErrNoData)

	require.NoError(t, s.PutPlayers(ctx, testPlayers()))

	players, err := s.GetPlayers(ctx, nil)
	require.NoError(t, err)
	require.Len(t, players, 5)
	assert.Equal(t, 1, players[0].ID)

	filtered, err := s.GetPlayers(ctx, &models.FilterSpec{Positions: []string{"fwd"}})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)
}

func TestFileStoreUpsertPreservesPartition(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx := context.Background()
	require.NoError(t, s.Connect(ctx))

	require.NoError(t, s.PutPlayers(ctx, testPlayers()[:2]))
	require.NoError(t, s.PutPlayers(ctx, testPlayers()[2:]))

	players, err := s.GetPlayers(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, players, 5)
}

func TestFileStoreValueRange(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx := context.Background()
	require.NoError(t, s.Connect(ctx))

	require.NoError(t, s.PutPlayers(ctx, []models.Player{
		{ID: 1, NowCost: 3.9},
		{ID: 2, NowCost: 4.1},
	}))

	values, err := s.ValueRange(ctx)
	require.NoError(t, err)
	assert.Equal(t, []float64{3.9, 4.0, 4.1}, values)
}
