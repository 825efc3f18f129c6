package tile

// RMID computes the row-major id of t: the count of all tiles at lower
// zooms, plus y*2^z + x within t's own zoom. Monotone within a zoom, with
// every lower zoom preceding zoom z.
func (t Tile) RMID() uint64 {
	return RMID(t.X, t.Y, t.Z)
}

// RMID computes the row-major id of tile (x, y, z).
func RMID(x, y uint32, z uint8) uint64 {
	if z == 0 {
		return 0
	}
	return zoomOffsetBase(z) + uint64(x) + uint64(y)*(uint64(1)<<z)
}

// FromRMID inverts RMID.
func FromRMID(id uint64) (Tile, error) {
	if id == 0 {
		return Tile{X: 0, Y: 0, Z: 0}, nil
	}
	offset, z := intToOffsetZoom(id)
	if z > MaxZoom {
		return Tile{}, newErr(InvalidZoom, "rmid %d resolves to zoom %d exceeding max %d", id, z, MaxZoom)
	}
	span := uint64(1) << z
	x := offset % span
	y := offset / span
	return Tile{X: uint32(x), Y: uint32(y), Z: z}, nil
}
