// Package tile implements the closed set of coordinate conversions and
// geometric predicates over the slippy-map tile pyramid: tile/quadkey/
// pmtileid/row-major-id round trips, lon-lat/Web-Mercator projection, tile
// iteration over a bounding box, neighbor/parent/child relationships, tile
// set simplification, and edge detection.
package tile

import "fmt"

// MaxZoom is the highest zoom level this package accepts for any
// operation that must compute 1<<z into a uint32 register. The source
// this package is modeled on casts 2^z into a u32 and overflows silently
// at z=32; this package instead rejects z=32 outright (see spec decision).
const MaxZoom = 31

// Tile is a value-typed (x, y, z) slippy-map tile coordinate. Two tiles
// are equal iff all three fields are equal; the zero value is the single
// root tile (0,0,0).
type Tile struct {
	X uint32
	Y uint32
	Z uint8
}

// New constructs a Tile, validating x,y ∈ [0, 2^z) and z ∈ [0, MaxZoom].
func New(x, y uint32, z uint8) (Tile, error) {
	t := Tile{X: x, Y: y, Z: z}
	if err := t.Validate(); err != nil {
		return Tile{}, err
	}
	return t, nil
}

// Validate reports whether t's coordinates are in range for its zoom.
func (t Tile) Validate() error {
	if t.Z > MaxZoom {
		return newErr(InvalidZoom, "zoom %d exceeds max %d", t.Z, MaxZoom)
	}
	span := uint32(1) << t.Z
	if t.X >= span {
		return newErr(TileParse, "x=%d out of range for z=%d (span %d)", t.X, t.Z, span)
	}
	if t.Y >= span {
		return newErr(TileParse, "y=%d out of range for z=%d (span %d)", t.Y, t.Z, span)
	}
	return nil
}

// String renders the tile as "z/x/y", the conventional slippy-map form.
func (t Tile) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

// Less implements the lexicographic (z, x, y) total order from spec §3.
func (t Tile) Less(o Tile) bool {
	if t.Z != o.Z {
		return t.Z < o.Z
	}
	if t.X != o.X {
		return t.X < o.X
	}
	return t.Y < o.Y
}

// Span returns 2^z, the number of tiles per axis at t's zoom.
func (t Tile) Span() uint32 {
	return uint32(1) << t.Z
}

// FlipY converts y between XYZ and TMS orientation; it is its own inverse.
func FlipY(y uint32, z uint8) uint32 {
	return (uint32(1)<<z - 1) - y
}

// FlipY returns the tile with its y-axis flipped between XYZ and TMS.
func (t Tile) FlipY() Tile {
	return Tile{X: t.X, Y: FlipY(t.Y, t.Z), Z: t.Z}
}
