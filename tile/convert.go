package tile

import "math"

const (
	epsilon   = 1e-14
	llEpsilon = 1e-11
)

// UL returns the NW-corner lon/lat of tile (x, y, z).
func UL(x, y uint32, z uint8) LngLat {
	n := math.Pow(2, float64(z))
	lngDeg := float64(x)/n*360.0 - 180.0
	latRad := math.Atan(math.Sinh(math.Pi * (1 - 2*float64(y)/n)))
	return LngLat{Lng: lngDeg, Lat: latRad * 180 / math.Pi}
}

// Bounds returns the geographic bounding box of tile (x, y, z).
func Bounds(x, y uint32, z uint8) BBox {
	ul := UL(x, y, z)
	lr := UL(x+1, y+1, z)
	return BBox{West: ul.Lng, South: lr.Lat, East: lr.Lng, North: ul.Lat}
}

// Bounds returns the geographic bounding box of t.
func (t Tile) Bounds() BBox {
	return Bounds(t.X, t.Y, t.Z)
}

// UL returns the NW-corner lon/lat of t.
func (t Tile) UL() LngLat {
	return UL(t.X, t.Y, t.Z)
}

// XY projects a geographic point to Web Mercator meters. At lat=±90 the
// result is ±Inf on the Y axis, matching the logarithmic projection's
// asymptote.
func XY(lng, lat float64) (x, y float64) {
	x = earthCircumference / 360 * lng
	switch lat {
	case 90:
		return x, math.Inf(1)
	case -90:
		return x, math.Inf(-1)
	}
	latRad := lat * math.Pi / 180
	y = earthCircumference / (2 * math.Pi) * math.Log(math.Tan(math.Pi/4+latRad/2))
	return x, y
}

// LngLatFromMeters is the inverse of XY.
func LngLatFromMeters(x, y float64) LngLat {
	lng := x / (earthCircumference / 360)
	latRad := 2*math.Atan(math.Exp(y/(earthCircumference/(2*math.Pi)))) - math.Pi/2
	return LngLat{Lng: lng, Lat: latRad * 180 / math.Pi}
}

// fractionalXY returns the fractional (x, y) tile-pixel coordinate of a
// geographic point at zoom z, using the same formula UL inverts.
func fractionalXY(lng, lat float64, z float64) (x, y float64) {
	latRad := lat * math.Pi / 180
	n := math.Pow(2, z)
	x = (lng + 180) / 360 * n
	y = (1 - math.Asinh(math.Tan(latRad))/math.Pi) / 2 * n
	return x, y
}

// FractionalXY exposes fractionalXY to other packages in this module (the
// cover package's DDA line walk needs sub-tile precision that TileFor's
// integer result discards).
func FractionalXY(lng, lat float64, z float64) (x, y float64) {
	return fractionalXY(lng, lat, z)
}

// TileFor returns the integer tile containing (lng, lat) at zoom z. In
// truncate mode out-of-range coordinates are clamped first; otherwise a
// point with |lat| >= 90 is rejected.
func TileFor(lng, lat float64, z uint8, truncate bool) (Tile, error) {
	p := LngLat{Lng: lng, Lat: lat}
	if truncate {
		p = p.Truncate()
	} else if !p.Valid() {
		return Tile{}, newErr(InvalidBbox, "lat %g out of range (-90,90)", lat)
	}
	x, y := fractionalXY(p.Lng, p.Lat, float64(z))
	n := uint32(1) << z

	xi := int64(math.Floor(x))
	yi := int64(math.Floor(y))
	if xi < 0 {
		xi = 0
	} else if xi >= int64(n) {
		xi = int64(n) - 1
	}
	if yi < 0 {
		yi = 0
	} else if yi >= int64(n) {
		yi = int64(n) - 1
	}
	return Tile{X: uint32(xi), Y: uint32(yi), Z: z}, nil
}

// tileXYAtZ32 computes the raw (x, y) tile index at zoom 32 as used by
// BoundingTile's bbox-zoom search. It is computed directly in floating
// point rather than by constructing a Tile (which caps at MaxZoom=31).
func tileXYAtZ32(lng, lat float64) (x, y uint32) {
	fx, fy := fractionalXY(lng, lat, 32)
	const span = 4294967296.0 // 2^32
	if fx < 0 {
		fx = 0
	} else if fx >= span {
		fx = span - 1
	}
	if fy < 0 {
		fy = 0
	} else if fy >= span {
		fy = span - 1
	}
	return uint32(fx), uint32(fy)
}

// boundingTileMaxZoom mirrors the reference implementation's search depth.
const boundingTileMaxZoom = 28

// BoundingTile returns the smallest tile that fully contains bbox.
func BoundingTile(b BBox) Tile {
	e := math.Min(b.East, 180)
	w := math.Max(b.West, -180)
	n := math.Min(b.North, 90)
	s := math.Max(b.South, -90)

	x0, y0 := tileXYAtZ32(w, n)
	x1, y1 := tileXYAtZ32(e, s)

	z := boundingTileMaxZoom
	for lvl := 0; lvl < boundingTileMaxZoom; lvl++ {
		mask := uint32(1) << (32 - (lvl + 1))
		if (x0&mask) != (x1&mask) || (y0&mask) != (y1&mask) {
			z = lvl
			break
		}
	}
	if z == 0 {
		return Tile{X: 0, Y: 0, Z: 0}
	}
	shift := uint(32 - z)
	return Tile{X: x0 >> shift, Y: y0 >> shift, Z: uint8(z)}
}
