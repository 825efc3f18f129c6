package tile

// Quadkey returns the quadkey string for t: a string over {0,1,2,3} of
// length t.Z. Bit i of x contributes 1 and bit i of y contributes 2 at
// string position z-1-i (MSB first).
func (t Tile) Quadkey() string {
	return Quadkey(t.X, t.Y, t.Z)
}

// Quadkey computes the quadkey string for tile (x, y, z).
func Quadkey(x, y uint32, z uint8) string {
	if z == 0 {
		return ""
	}
	buf := make([]byte, z)
	for i := 0; i < int(z); i++ {
		bitpos := uint(int(z) - 1 - i)
		bx := (x >> bitpos) & 1
		by := (y >> bitpos) & 1
		buf[i] = '0' + byte(bx+by*2)
	}
	return string(buf)
}

// FromQuadkey parses a quadkey string back into a Tile. The empty string
// decodes to the root tile (0,0,0).
func FromQuadkey(qk string) (Tile, error) {
	z := len(qk)
	if z == 0 {
		return Tile{X: 0, Y: 0, Z: 0}, nil
	}
	if z > MaxZoom {
		return Tile{}, newErr(InvalidZoom, "quadkey length %d exceeds max zoom %d", z, MaxZoom)
	}
	var x, y uint32
	for i := 0; i < z; i++ {
		c := qk[i]
		if c < '0' || c > '3' {
			return Tile{}, newErr(TileParse, "invalid quadkey digit %q at position %d", c, i)
		}
		digit := c - '0'
		bitpos := uint(z - 1 - i)
		x |= uint32(digit&1) << bitpos
		y |= uint32((digit>>1)&1) << bitpos
	}
	return Tile{X: x, Y: y, Z: uint8(z)}, nil
}
