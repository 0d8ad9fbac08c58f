package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/goalfund/internal/model"
	"github.com/theirongolddev/goalfund/internal/projection"
	"github.com/theirongolddev/goalfund/internal/schema"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	clock := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	p := model.SamplePlan()

	snap, err := s.Save(ctx, "baseline", p)
	require.NoError(t, err)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, 1, snap.GoalCount)
	assert.Equal(t, 2, snap.SourceCount)
	assert.InDelta(t, projection.Project(p).Totals.SIP, snap.Totals.SIP, 1e-6)

	got, meta, err := s.Load(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.Equal(t, snap.ID, meta.ID)
	assert.True(t, snap.CreatedAt.Equal(meta.CreatedAt))
}

func TestLoadByNamePicksNewest(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	first := model.SamplePlan()
	_, err := s.Save(ctx, "plan", first)
	require.NoError(t, err)

	second, _ := schema.AddGoal(first, model.DefaultDefaults())
	newer, err := s.Save(ctx, "plan", second)
	require.NoError(t, err)

	got, meta, err := s.Load(ctx, "plan")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, meta.ID)
	assert.Len(t, got.Goals, 2)
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	for _, name := range []string{"a", "b", "c"} {
		_, err := s.Save(ctx, name, model.SamplePlan())
		require.NoError(t, err)
	}

	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].Name)
	assert.Equal(t, "a", list[2].Name)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	a, err := s.Save(ctx, "a", model.SamplePlan())
	require.NoError(t, err)
	_, err = s.Save(ctx, "b", model.SamplePlan())
	require.NoError(t, err)
	_, err = s.Save(ctx, "b", model.SamplePlan())
	require.NoError(t, err)

	n, err := s.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = s.Delete(ctx, "b")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = s.Delete(ctx, "b")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestLoadMissing(t *testing.T) {
	s := openTest(t)
	_, _, err := s.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshots.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Save(ctx, "kept", model.SamplePlan())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "kept", list[0].Name)
}
