package copypipeline

import (
	"fmt"
	"strings"

	"mbtilekit/tile"
)

// zoomList resolves a ZoomSelector against a concrete range of zooms
// present at the source (all of available when unrestricted).
func zoomList(z ZoomSelector, available []uint8) []uint8 {
	if z.Empty() {
		return available
	}
	if len(z.Zooms) > 0 {
		return z.Zooms
	}
	var out []uint8
	for _, a := range available {
		if z.Min != nil && a < *z.Min {
			continue
		}
		if z.Max != nil && a > *z.Max {
			continue
		}
		out = append(out, a)
	}
	return out
}

// whereClause builds the SQL WHERE predicate restricting a copy to the
// configured zoom and bbox selectors, mirroring pasta.rs's
// mbtiles_sql_where: a zoom_level IN (...) filter plus, per zoom, a tile
// column/row range derived from the bbox (TMS row-flipped to match
// on-disk storage).
func whereClause(zooms []uint8, bbox BboxSelector) string {
	if len(zooms) == 0 {
		return "1=0" // nothing selected
	}

	if !bbox.Set {
		zoomStrs := make([]string, len(zooms))
		for i, z := range zooms {
			zoomStrs[i] = fmt.Sprintf("%d", z)
		}
		return fmt.Sprintf("zoom_level IN (%s)", strings.Join(zoomStrs, ","))
	}

	var perZoom []string
	b := tile.BBox{West: bbox.West, South: bbox.South, East: bbox.East, North: bbox.North}.ClampWebMercator()
	for _, z := range zooms {
		minX, minY, maxX, maxY := tileRangeAtZoom(b, z)
		minRow, maxRow := tile.FlipY(maxY, z), tile.FlipY(minY, z)
		perZoom = append(perZoom, fmt.Sprintf(
			"(zoom_level=%d AND tile_column BETWEEN %d AND %d AND tile_row BETWEEN %d AND %d)",
			z, minX, maxX, minRow, maxRow))
	}
	return strings.Join(perZoom, " OR ")
}

// tileRangeAtZoom returns the inclusive XYZ tile-index range covering bbox
// at zoom z, using the same fractional projection TileFor is built on.
func tileRangeAtZoom(b tile.BBox, z uint8) (minX, minY, maxX, maxY uint32) {
	ulFX, ulFY := tile.FractionalXY(b.West, b.North, float64(z))
	lrFX, lrFY := tile.FractionalXY(b.East, b.South, float64(z))
	span := float64(uint32(1) << z)

	toTileCoord := func(frac float64) uint32 {
		if frac < 0 {
			frac = 0
		}
		if frac > span-1 {
			frac = span - 1
		}
		return uint32(frac)
	}

	minX = toTileCoord(ulFX)
	maxX = toTileCoord(lrFX)
	minY = toTileCoord(ulFY)
	maxY = toTileCoord(lrFY)
	return
}
