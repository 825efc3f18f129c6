package mbtiles

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mbtilekit/tile"
)

func newFlatStore(t *testing.T) (*Store, context.Context) {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.mbtiles")
	s, err := OpenNew(ctx, path, Flat)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, ctx
}

func TestOpenNewRecognizesFlatSchema(t *testing.T) {
	s, ctx := newFlatStore(t)
	require.Equal(t, Flat, s.Type())

	like, err := s.IsMbtilesLike(ctx)
	require.NoError(t, err)
	require.True(t, like)
}

func TestTileRoundTripFlipsYToTMS(t *testing.T) {
	s, ctx := newFlatStore(t)
	tl := tile.Tile{X: 3, Y: 5, Z: 4}
	payload := []byte("fake-pbf-bytes")

	require.NoError(t, s.InsertTileFlat(ctx, tl, payload))

	got, err := s.QueryZXY(ctx, tl.Z, tl.X, tl.Y)
	require.NoError(t, err)
	require.Equal(t, payload, got)

	has, err := s.HasZXY(ctx, tl.Z, tl.X, tl.Y)
	require.NoError(t, err)
	require.True(t, has)

	missing, err := s.QueryZXY(ctx, tl.Z, tl.X, tl.Y+1)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestMetadataSetGetDelete(t *testing.T) {
	s, ctx := newFlatStore(t)

	require.NoError(t, s.MetadataSet(ctx, "name", "test-store"))
	row, err := s.MetadataRow(ctx, "name")
	require.NoError(t, err)
	require.NotNil(t, row)
	require.Equal(t, "test-store", row.Value)

	require.NoError(t, s.MetadataSet(ctx, "name", "renamed"))
	row, err = s.MetadataRow(ctx, "name")
	require.NoError(t, err)
	require.Equal(t, "renamed", row.Value)

	require.NoError(t, s.MetadataDelete(ctx, "name"))
	row, err = s.MetadataRow(ctx, "name")
	require.NoError(t, err)
	require.Nil(t, row)
}

func TestMetadataUpdateReportsChange(t *testing.T) {
	s, ctx := newFlatStore(t)

	change, err := s.MetadataUpdate(ctx, "format", "pbf")
	require.NoError(t, err)
	require.NotNil(t, change)
	require.Nil(t, change.From)
	require.Equal(t, "pbf", *change.To)

	noChange, err := s.MetadataUpdate(ctx, "format", "pbf")
	require.NoError(t, err)
	require.Nil(t, noChange)

	change, err = s.MetadataUpdate(ctx, "format", "png")
	require.NoError(t, err)
	require.NotNil(t, change)
	require.Equal(t, "pbf", *change.From)
	require.Equal(t, "png", *change.To)
}

func TestUpdateMinzoomMaxzoom(t *testing.T) {
	s, ctx := newFlatStore(t)

	require.NoError(t, s.InsertTileFlat(ctx, tile.Tile{X: 0, Y: 0, Z: 2}, []byte("a")))
	require.NoError(t, s.InsertTileFlat(ctx, tile.Tile{X: 0, Y: 0, Z: 6}, []byte("b")))

	changes, err := s.UpdateMinzoomMaxzoom(ctx)
	require.NoError(t, err)
	require.Len(t, changes, 2)

	row, err := s.MetadataRow(ctx, "minzoom")
	require.NoError(t, err)
	require.Equal(t, "2", row.Value)

	row, err = s.MetadataRow(ctx, "maxzoom")
	require.NoError(t, err)
	require.Equal(t, "6", row.Value)
}

func TestTilesCountAndEmpty(t *testing.T) {
	s, ctx := newFlatStore(t)

	empty, err := s.TilesIsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	require.NoError(t, s.InsertTileFlat(ctx, tile.Tile{X: 1, Y: 1, Z: 3}, []byte("x")))

	count, err := s.TilesCount(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	atZoom, err := s.TilesCountAtZoom(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, int64(1), atZoom)

	zooms, err := s.ZoomLevels(ctx)
	require.NoError(t, err)
	require.Equal(t, []uint8{3}, zooms)
}

func TestLintFlagsMissingRequiredFields(t *testing.T) {
	s, ctx := newFlatStore(t)

	findings, err := s.Lint(ctx, LintOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, findings)

	var sawMissingName bool
	for _, f := range findings {
		if f.Kind == ErrMissingMetadataKV && f.Msg == "metadata k/v missing: name" {
			sawMissingName = true
		}
	}
	require.True(t, sawMissingName)
}

func TestLintCleanAfterRequiredMetadata(t *testing.T) {
	s, ctx := newFlatStore(t)

	for _, row := range []MetadataRow{
		{Name: "name", Value: "test"},
		{Name: "format", Value: "pbf"},
		{Name: "bounds", Value: "-180,-85,180,85"},
		{Name: "minzoom", Value: "0"},
		{Name: "maxzoom", Value: "14"},
	} {
		require.NoError(t, s.MetadataSet(ctx, row.Name, row.Value))
	}

	findings, err := s.Lint(ctx, LintOptions{})
	require.NoError(t, err)
	require.Empty(t, findings)
}
