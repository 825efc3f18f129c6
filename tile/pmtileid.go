package tile

// PMTileID computes the 64-bit hierarchical PMTiles cell id for t, using
// the Hilbert-curve cell ordering within each zoom level (consistent with
// the pmtiles package's ZxyToID / rotate construction) laid end to end
// across zooms via the same offset table as RMID.
func (t Tile) PMTileID() uint64 {
	return PMTileID(t.X, t.Y, t.Z)
}

// PMTileID computes the pmtileid of tile (x, y, z).
func PMTileID(x, y uint32, z uint8) uint64 {
	if z == 0 {
		return 0
	}
	n := uint32(1) << z
	return zoomOffsetBase(z) + hilbertXY2D(n, x, y)
}

// FromPMTileID inverts PMTileID.
func FromPMTileID(id uint64) (Tile, error) {
	if id == 0 {
		return Tile{X: 0, Y: 0, Z: 0}, nil
	}
	offset, z := intToOffsetZoom(id)
	if z > MaxZoom {
		return Tile{}, newErr(InvalidZoom, "pmtileid %d resolves to zoom %d exceeding max %d", id, z, MaxZoom)
	}
	n := uint32(1) << z
	x, y := hilbertD2XY(n, offset)
	return Tile{X: x, Y: y, Z: z}, nil
}

// hilbertXY2D maps an (x, y) cell in an n x n grid (n a power of two) to
// its distance along the Hilbert curve.
func hilbertXY2D(n uint32, x, y uint32) uint64 {
	var rx, ry uint32
	var d uint64
	for s := n / 2; s > 0; s /= 2 {
		if x&s > 0 {
			rx = 1
		} else {
			rx = 0
		}
		if y&s > 0 {
			ry = 1
		} else {
			ry = 0
		}
		d += uint64(s) * uint64(s) * uint64((3*rx)^ry)
		x, y = hilbertRotate(s, x, y, rx, ry)
	}
	return d
}

// hilbertD2XY is the inverse of hilbertXY2D.
func hilbertD2XY(n uint32, d uint64) (x, y uint32) {
	t := d
	for s := uint32(1); s < n; s *= 2 {
		rx := uint32(1 & (t / 2))
		ry := uint32(1 & (t ^ uint64(rx)))
		x, y = hilbertRotate(s, x, y, rx, ry)
		x += s * rx
		y += s * ry
		t /= 4
	}
	return x, y
}

func hilbertRotate(n uint32, x, y, rx, ry uint32) (uint32, uint32) {
	if ry == 0 {
		if rx == 1 {
			x = n - 1 - x
			y = n - 1 - y
		}
		x, y = y, x
	}
	return x, y
}
