package tile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// property 1: tile(ul(x,y,z).lng + eps, ul(x,y,z).lat - eps, z) = (x,y,z)
func TestULTileRoundTrip(t *testing.T) {
	cases := []Tile{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 2},
		{X: 486, Y: 332, Z: 10},
		{X: 1000, Y: 1000, Z: 11},
	}
	for _, want := range cases {
		ul := want.UL()
		got, err := TileFor(ul.Lng+llEpsilon, ul.Lat-llEpsilon, want.Z, false)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

// property 2: quadkey(T) has length T.z; from_quadkey(quadkey(T)) = T
func TestQuadkeyRoundTrip(t *testing.T) {
	cases := []Tile{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 1},
		{X: 486, Y: 332, Z: 10},
		{X: 3413, Y: 6202, Z: 14},
	}
	for _, want := range cases {
		qk := want.Quadkey()
		require.Len(t, qk, int(want.Z))
		got, err := FromQuadkey(qk)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

// property 3: from_pmtileid(pmtileid(T)) = T and from_rmid(rmid(T)) = T
func TestPMTileIDRoundTrip(t *testing.T) {
	cases := []Tile{
		{X: 0, Y: 0, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 1, Y: 1, Z: 1},
		{X: 486, Y: 332, Z: 10},
		{X: 3413, Y: 6203, Z: 14},
	}
	for _, want := range cases {
		id := want.PMTileID()
		got, err := FromPMTileID(id)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestRMIDRoundTrip(t *testing.T) {
	cases := []Tile{
		{X: 0, Y: 0, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 1, Y: 1, Z: 1},
		{X: 486, Y: 332, Z: 10},
		{X: 3413, Y: 6203, Z: 14},
	}
	for _, want := range cases {
		id := want.RMID()
		got, err := FromRMID(id)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

// property 4: for z>0, parent(T).children().contains(T)
func TestParentChildrenContainsOriginal(t *testing.T) {
	cases := []Tile{
		{X: 1, Y: 0, Z: 1},
		{X: 486, Y: 332, Z: 10},
		{X: 3413, Y: 6203, Z: 14},
	}
	for _, tl := range cases {
		p, err := tl.Parent(0)
		require.NoError(t, err)
		require.Equal(t, tl.Z-1, p.Z)

		children, err := p.Children(tl.Z)
		require.NoError(t, err)
		require.Contains(t, children, tl)
	}
}

// property 5: flipy(flipy(y,z),z) = y
func TestFlipYIsItsOwnInverse(t *testing.T) {
	cases := []struct {
		y uint32
		z uint8
	}{
		{0, 0}, {0, 1}, {1, 1}, {332, 10}, {6203, 14},
	}
	for _, c := range cases {
		require.Equal(t, c.y, FlipY(FlipY(c.y, c.z), c.z))
	}
}

// property 6: simplify(S) subset of ancestors*(S); idempotent; 4 siblings
// collapse to their parent and the siblings are removed.
func TestSimplifyCollapsesFullQuartet(t *testing.T) {
	root := Tile{X: 0, Y: 0, Z: 0}
	children, err := root.Children(1)
	require.NoError(t, err)
	require.Len(t, children, 4)

	simplified := Simplify(children)
	require.Equal(t, []Tile{root}, simplified)
}

func TestSimplifyIsIdempotent(t *testing.T) {
	root := Tile{X: 0, Y: 0, Z: 0}
	children, err := root.Children(1)
	require.NoError(t, err)

	once := Simplify(children)
	twice := Simplify(once)
	require.Equal(t, once, twice)
}

func TestSimplifyLeavesPartialQuartetUntouched(t *testing.T) {
	root := Tile{X: 0, Y: 0, Z: 0}
	children, err := root.Children(1)
	require.NoError(t, err)
	partial := children[:3]

	got := Simplify(partial)
	require.ElementsMatch(t, partial, got)
}

// property 7: edges(S) = tiles in S with a king-neighbor not in S;
// edges(full-grid) = border.
func TestEdgesOfFullGridIsBorder(t *testing.T) {
	z := uint8(2)
	span := uint32(1) << z
	var grid []Tile
	for y := uint32(0); y < span; y++ {
		for x := uint32(0); x < span; x++ {
			grid = append(grid, Tile{X: x, Y: y, Z: z})
		}
	}
	edges, err := Edges(grid)
	require.NoError(t, err)

	isBorder := func(t Tile) bool {
		return t.X == 0 || t.Y == 0 || t.X == span-1 || t.Y == span-1
	}
	for _, e := range edges {
		require.True(t, isBorder(e), "tile %s should be on the border", e)
	}
	for _, g := range grid {
		if isBorder(g) {
			require.Contains(t, edges, g)
		}
	}
}

func TestEdgesRejectsMixedZoom(t *testing.T) {
	_, err := Edges([]Tile{{X: 0, Y: 0, Z: 1}, {X: 0, Y: 0, Z: 2}})
	require.Error(t, err)
}

// property 9: geo-bounds union of a single crossing bbox equals the input.
func TestGeoBoundsUnionSingleCrossingBoxIsUnchanged(t *testing.T) {
	b := BBox{West: 170, South: -10, East: -170, North: 10}
	got := GeoBoundsUnion([]BBox{b})
	require.InDelta(t, b.West, got.West, 1e-9)
	require.InDelta(t, b.South, got.South, 1e-9)
	require.InDelta(t, b.East, got.East, 1e-9)
	require.InDelta(t, b.North, got.North, 1e-9)
}
