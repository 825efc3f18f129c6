package cover

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mbtilekit/tile"
)

func TestPointCoversSingleTile(t *testing.T) {
	got, err := Point(-105.0, 40.0, 10)
	require.NoError(t, err)
	want, err := tile.TileFor(-105.0, 40.0, 10, true)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestMultiPointDedups(t *testing.T) {
	pts := [][2]float64{{-105.0, 40.0}, {-105.0, 40.0}, {-105.01, 40.01}}
	got, err := MultiPoint(pts, 10)
	require.NoError(t, err)
	require.LessOrEqual(t, len(got), 2)
}

func TestLineCoverIncludesEndpoints(t *testing.T) {
	coords := [][2]float64{{-105.0, 40.0}, {-104.9, 40.1}}
	got := Line(coords, 9)
	require.NotEmpty(t, got)

	start, err := tile.TileFor(coords[0][0], coords[0][1], 9, true)
	require.NoError(t, err)
	end, err := tile.TileFor(coords[1][0], coords[1][1], 9, true)
	require.NoError(t, err)

	require.Contains(t, got, start)
	require.Contains(t, got, end)
}

func TestLineCoverDegenerateSegmentCoversItsPoint(t *testing.T) {
	coords := [][2]float64{{-105.0, 40.0}, {-105.0, 40.0}}
	got := Line(coords, 9)
	require.Len(t, got, 1)
}

func TestPolygonCoverFillsInterior(t *testing.T) {
	square := [][2]float64{
		{-1, -1}, {1, -1}, {1, 1}, {-1, 1}, {-1, -1},
	}
	got := Polygon([][][2]float64{square}, 6)
	require.NotEmpty(t, got)

	center, err := tile.TileFor(0, 0, 6, true)
	require.NoError(t, err)
	require.Contains(t, got, center)
}

func TestCoverGeometryCollectionUnionsMembers(t *testing.T) {
	p := [2]float64{-105.0, 40.0}
	g := Geometry{
		Collection: []Geometry{
			{Point: &p},
			{Line: [][2]float64{{0, 0}, {1, 1}}},
		},
	}
	got, err := Cover(g, 8, nil)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	pointTile, err := tile.TileFor(p[0], p[1], 8, true)
	require.NoError(t, err)
	require.Contains(t, got, pointTile)
}

func TestCoverWithMinzoomSimplifies(t *testing.T) {
	p := [2]float64{0, 0}
	g := Geometry{Point: &p}
	z := uint8(4)
	got, err := Cover(g, 4, &z)
	require.NoError(t, err)
	require.Len(t, got, 1)
}
