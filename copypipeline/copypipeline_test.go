package copypipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mbtilekit/tile"
)

func TestZoomListRespectsRange(t *testing.T) {
	min, max := uint8(3), uint8(5)
	sel := ZoomSelector{Min: &min, Max: &max}
	got := zoomList(sel, []uint8{0, 1, 2, 3, 4, 5, 6})
	require.Equal(t, []uint8{3, 4, 5}, got)
}

func TestZoomListExplicitOverridesRange(t *testing.T) {
	sel := ZoomSelector{Zooms: []uint8{7, 9}}
	got := zoomList(sel, []uint8{0, 1, 2, 7, 9})
	require.Equal(t, []uint8{7, 9}, got)
}

func TestZoomListEmptySelectorReturnsAvailable(t *testing.T) {
	got := zoomList(ZoomSelector{}, []uint8{0, 1, 2})
	require.Equal(t, []uint8{0, 1, 2}, got)
}

func TestWhereClauseWithoutBboxListsZooms(t *testing.T) {
	w := whereClause([]uint8{1, 2, 3}, BboxSelector{})
	require.Equal(t, "zoom_level IN (1,2,3)", w)
}

func TestWhereClauseEmptyZoomsIsFalse(t *testing.T) {
	require.Equal(t, "1=0", whereClause(nil, BboxSelector{}))
}

func TestWhereClauseWithBboxBuildsTileRange(t *testing.T) {
	w := whereClause([]uint8{2}, BboxSelector{Set: true, West: -10, South: -10, East: 10, North: 10})
	require.Contains(t, w, "zoom_level=2")
	require.Contains(t, w, "tile_column BETWEEN")
	require.Contains(t, w, "tile_row BETWEEN")
}

func TestTileRangeAtZoomCoversWholeWorldAtZoomZero(t *testing.T) {
	minX, minY, maxX, maxY := tileRangeAtZoom(tile.BBox{West: -180, South: -85, East: 180, North: 85}, 0)
	require.Equal(t, uint32(0), minX)
	require.Equal(t, uint32(0), minY)
	require.Equal(t, uint32(0), maxX)
	require.Equal(t, uint32(0), maxY)
}

func TestInsertStrategySQLPrefix(t *testing.T) {
	require.Equal(t, "INSERT OR IGNORE", InsertIgnore.SQLPrefix())
	require.Equal(t, "INSERT", InsertNone.SQLPrefix())
	require.True(t, InsertNone.RequiresCheck())
	require.False(t, InsertIgnore.RequiresCheck())
}

func TestCopyConfigCheckRejectsSamePath(t *testing.T) {
	cfg := CopyConfig{Src: "a.mbtiles", Dst: "a.mbtiles"}
	require.Error(t, cfg.Check())
}

func TestCopyConfigConcurrencyDefaultsToAtLeastFour(t *testing.T) {
	cfg := CopyConfig{}
	require.GreaterOrEqual(t, cfg.concurrency(), 4)
}
