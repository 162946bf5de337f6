package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wallseed/wallseed/pkg/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	rec := models.ApplyRecord{
		ImagePath:  "/walls/forest.jpg",
		ImageHash:  "abc",
		Mode:       models.ModeDark,
		Source:     models.SourceModel,
		RenderPath: models.RenderFromColor,
		Palette:    models.Palette{models.RolePrimary: "#112233"},
		Duration:   1500 * time.Millisecond,
		CreatedAt:  now,
	}
	require.NoError(t, s.Record(ctx, rec))

	records, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.NotZero(t, got.ID)
	assert.Equal(t, "/walls/forest.jpg", got.ImagePath)
	assert.Equal(t, models.ModeDark, got.Mode)
	assert.Equal(t, models.SourceModel, got.Source)
	assert.Equal(t, models.RenderFromColor, got.RenderPath)
	assert.Equal(t, rec.Palette, got.Palette)
	assert.Equal(t, 1500*time.Millisecond, got.Duration)
}

func TestRecentOrderAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		require.NoError(t, s.Record(ctx, models.ApplyRecord{
			ImagePath: name, ImageHash: name, Mode: models.ModeLight,
			Source: models.SourceNone, RenderPath: models.RenderFromImage,
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		}))
	}

	records, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "c.jpg", records[0].ImagePath)
	assert.Equal(t, "b.jpg", records[1].ImagePath)
	assert.Empty(t, records[0].Palette)

	all, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestByHash(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, hash := range []string{"h1", "h2", "h1"} {
		require.NoError(t, s.Record(ctx, models.ApplyRecord{
			ImagePath: "/w/" + hash, ImageHash: hash, Mode: models.ModeDark,
			Source: models.SourceCache, RenderPath: models.RenderFromColor,
		}))
	}

	records, err := s.ByHash(ctx, "h1")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = s.ByHash(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSummary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, src := range []models.Source{models.SourceModel, models.SourceCache, models.SourceCache, models.SourceNone} {
		require.NoError(t, s.Record(ctx, models.ApplyRecord{
			ImagePath: "x.png", ImageHash: "x", Mode: models.ModeDark,
			Source: src, RenderPath: models.RenderFromColor,
		}))
	}

	summaries, err := s.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.SourceSummary{
		{Source: models.SourceCache, Count: 2},
		{Source: models.SourceModel, Count: 1},
		{Source: models.SourceNone, Count: 1},
	}, summaries)
}

func TestMigrationIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s1.Record(context.Background(), models.ApplyRecord{
		ImagePath: "a", ImageHash: "a", Mode: models.ModeDark,
		Source: models.SourceNone, RenderPath: models.RenderFromImage,
	}))
	require.NoError(t, s1.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()

	records, err := s2.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
