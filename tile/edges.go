package tile

import "sort"

// Edges classifies each tile in a set at a common zoom as an edge tile iff
// at least one of its 8 king-move neighbors is absent from the set. It
// fails if the tiles are not all at the same zoom.
//
// Conceptually this rasterizes the set into a bitmap over (x, y) and
// produces 8 shifted copies selecting cells where the original is set but
// not all 8 neighbor-shifted copies are also set; per-tile neighbor
// membership below is the equivalent, unvectorized form of that same
// predicate.
func Edges(tiles []Tile) ([]Tile, error) {
	if len(tiles) == 0 {
		return nil, nil
	}
	z := tiles[0].Z
	set := make(map[Tile]struct{}, len(tiles))
	for _, t := range tiles {
		if t.Z != z {
			return nil, newErr(InvalidZoom, "edges requires a common zoom, got %d and %d", z, t.Z)
		}
		set[t] = struct{}{}
	}

	out := make([]Tile, 0, len(tiles))
	for t := range set {
		for dy := -1; dy <= 1; dy++ {
			found := false
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				n := Tile{X: uint32(int64(t.X) + int64(dx)), Y: uint32(int64(t.Y) + int64(dy)), Z: z}
				if int64(t.X)+int64(dx) < 0 || int64(t.Y)+int64(dy) < 0 {
					out = append(out, t)
					found = true
					break
				}
				if _, ok := set[n]; !ok {
					out = append(out, t)
					found = true
					break
				}
			}
			if found {
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out, nil
}
