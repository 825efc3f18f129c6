package tile

import "iter"

// Tiles returns a lazy sequence of tiles covering bbox at each of zooms.
// It never materializes the full set: an antimeridian-crossing bbox is
// split into two halves first, each half's latitudes are clamped to the
// Web Mercator safe extent, and for each zoom only the tile-index range is
// computed and walked. Iteration order within a zoom is x-major, y-minor
// (documented here per spec's "implementations must document and remain
// consistent").
func Tiles(bbox BBox, zooms []uint8) iter.Seq[Tile] {
	return func(yield func(Tile) bool) {
		for _, half := range bbox.Split() {
			clamped := half.ClampWebMercator()
			w := maxF(-180.0, clamped.West)
			s := maxF(-webMercatorSafeLat, clamped.South)
			e := minF(180.0, clamped.East)
			n := minF(webMercatorSafeLat, clamped.North)
			for _, z := range zooms {
				ul, lr, ok := tileRange(w, s, e, n, z)
				if !ok {
					continue
				}
				for x := ul.X; x <= lr.X; x++ {
					for y := ul.Y; y <= lr.Y; y++ {
						if !yield(Tile{X: x, Y: y, Z: z}) {
							return
						}
					}
				}
			}
		}
	}
}

// tileRange computes the inclusive [ul, lr] tile index range covering
// (w,s,e,n) at zoom z.
func tileRange(w, s, e, n float64, z uint8) (ul, lr Tile, ok bool) {
	ulTile, err := TileFor(w, n, z, true)
	if err != nil {
		return Tile{}, Tile{}, false
	}
	lrTile, err := TileFor(e-llEpsilon, s+llEpsilon, z, true)
	if err != nil {
		return Tile{}, Tile{}, false
	}
	if lrTile.X < ulTile.X {
		lrTile.X = ulTile.X
	}
	if lrTile.Y < ulTile.Y {
		lrTile.Y = ulTile.Y
	}
	return ulTile, lrTile, true
}

// TilesCount returns the total number of tiles Tiles would yield, computed
// in closed form so very large counts never require enumeration.
func TilesCount(bbox BBox, zooms []uint8) uint64 {
	var total uint64
	for _, half := range bbox.Split() {
		clamped := half.ClampWebMercator()
		w := maxF(-180.0, clamped.West)
		s := maxF(-webMercatorSafeLat, clamped.South)
		e := minF(180.0, clamped.East)
		n := minF(webMercatorSafeLat, clamped.North)
		for _, z := range zooms {
			ul, lr, ok := tileRange(w, s, e, n, z)
			if !ok {
				continue
			}
			total += uint64(lr.X-ul.X+1) * uint64(lr.Y-ul.Y+1)
		}
	}
	return total
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
