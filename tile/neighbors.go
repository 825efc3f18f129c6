package tile

// Parent returns the ancestor of t that is n+1 levels up (n=0 means the
// immediate parent). Requesting a parent of the root tile (z=0) is
// rejected rather than silently wrapping, per the package's resolution of
// the source's z=0 ambiguity.
func (t Tile) Parent(n int) (Tile, error) {
	if t.Z == 0 {
		return Tile{}, newErr(InvalidZoom, "tile %s has no parent", t)
	}
	levels := n + 1
	if levels < 1 {
		levels = 1
	}
	if levels > int(t.Z) {
		levels = int(t.Z)
	}
	x, y, z := t.X, t.Y, t.Z
	for i := 0; i < levels; i++ {
		x /= 2
		y /= 2
		z--
	}
	return Tile{X: x, Y: y, Z: z}, nil
}

// Children returns all 4^(zoom-t.Z) descendants of t at the given
// absolute zoom. zoom must be >= t.Z.
func (t Tile) Children(zoom uint8) ([]Tile, error) {
	if zoom < t.Z {
		return nil, newErr(InvalidZoom, "child zoom %d below tile zoom %d", zoom, t.Z)
	}
	if zoom == t.Z {
		return []Tile{t}, nil
	}
	depth := zoom - t.Z
	span := uint32(1) << depth
	out := make([]Tile, 0, int(span)*int(span))
	baseX := t.X * span
	baseY := t.Y * span
	for dy := uint32(0); dy < span; dy++ {
		for dx := uint32(0); dx < span; dx++ {
			out = append(out, Tile{X: baseX + dx, Y: baseY + dy, Z: zoom})
		}
	}
	return out, nil
}

// Siblings returns the 3 tiles sharing t's parent (empty at z=0).
func (t Tile) Siblings() []Tile {
	if t.Z == 0 {
		return nil
	}
	px, py := t.X/2, t.Y/2
	out := make([]Tile, 0, 3)
	for dy := uint32(0); dy < 2; dy++ {
		for dx := uint32(0); dx < 2; dx++ {
			c := Tile{X: px*2 + dx, Y: py*2 + dy, Z: t.Z}
			if c != t {
				out = append(out, c)
			}
		}
	}
	return out
}

// Neighbors returns the up-to-8 in-range king-move neighbors of t:
// 3 at a corner, 5 along an edge, 8 in the interior, none at z=0.
func (t Tile) Neighbors() []Tile {
	if t.Z == 0 {
		return nil
	}
	span := t.Span()
	out := make([]Tile, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx := int64(t.X) + int64(dx)
			ny := int64(t.Y) + int64(dy)
			if nx < 0 || ny < 0 || nx >= int64(span) || ny >= int64(span) {
				continue
			}
			out = append(out, Tile{X: uint32(nx), Y: uint32(ny), Z: t.Z})
		}
	}
	return out
}
