package tile_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mbtilekit/cover"
	"mbtilekit/tile"
)

// E1: quadkey round-trip.
func TestE1QuadkeyRoundTrip(t *testing.T) {
	tl := tile.Tile{X: 486, Y: 332, Z: 10}
	require.Equal(t, "0313102310", tl.Quadkey())

	got, err := tile.FromQuadkey("0313102310")
	require.NoError(t, err)
	require.Equal(t, tl, got)
}

// E2: bounding tile.
func TestE2BoundingTile(t *testing.T) {
	b := tile.BBox{West: -105.05, South: 39.95, East: -105, North: 40}
	got := tile.BoundingTile(b)
	require.Equal(t, tile.Tile{X: 426, Y: 775, Z: 11}, got)
}

// E3: tiles enumeration.
func TestE3TilesEnumeration(t *testing.T) {
	b := tile.BBox{West: -105, South: 39.99, East: -104.99, North: 40}
	var got []tile.Tile
	for tl := range tile.Tiles(b, []uint8{14}) {
		got = append(got, tl)
	}
	want := []tile.Tile{
		{X: 3413, Y: 6202, Z: 14},
		{X: 3413, Y: 6203, Z: 14},
	}
	require.ElementsMatch(t, want, got)
}

// E4: simplify to parent.
func TestE4SimplifyToParent(t *testing.T) {
	root := tile.Tile{X: 0, Y: 0, Z: 0}
	children, err := root.Children(1)
	require.NoError(t, err)

	got := tile.Simplify(children)
	require.Equal(t, []tile.Tile{root}, got)
}

// property 8: every coordinate of G lies inside bounds(t) for some
// t in cover(G, z).
func TestCoverContainsEveryVertex(t *testing.T) {
	ring := [][2]float64{
		{-105.1, 39.9}, {-104.9, 39.9}, {-104.9, 40.1}, {-105.1, 40.1}, {-105.1, 39.9},
	}
	z := uint8(11)
	tiles := cover.Polygon([][][2]float64{ring}, z)
	require.NotEmpty(t, tiles)

	containsPoint := func(lng, lat float64) bool {
		for _, tl := range tiles {
			b := tl.Bounds()
			if lng >= b.West && lng <= b.East && lat >= b.South && lat <= b.North {
				return true
			}
		}
		return false
	}
	for _, pt := range ring[:len(ring)-1] {
		require.True(t, containsPoint(pt[0], pt[1]), "vertex %v not covered", pt)
	}
}
