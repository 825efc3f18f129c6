package tile

import "math"

// LngLat is a WGS84 geographic point in degrees.
type LngLat struct {
	Lng float64
	Lat float64
}

// Valid reports whether lat is strictly within the valid range for tile
// math, (-90, 90).
func (p LngLat) Valid() bool {
	return p.Lat > -90 && p.Lat < 90
}

// Truncate clamps both axes into range, matching the spec's truncate-mode.
func (p LngLat) Truncate() LngLat {
	lng := p.Lng
	if lng > 180 {
		lng = 180
	} else if lng < -180 {
		lng = -180
	}
	lat := p.Lat
	if lat > 90 {
		lat = 90
	} else if lat < -90 {
		lat = -90
	}
	return LngLat{Lng: lng, Lat: lat}
}

// BBox is a geographic bounding box in degrees. West > East denotes an
// antimeridian-crossing box; North < South is invalid.
type BBox struct {
	West  float64
	South float64
	East  float64
	North float64
}

// CrossesAntimeridian reports whether b wraps around +/-180.
func (b BBox) CrossesAntimeridian() bool {
	return b.West > b.East
}

// Validate rejects a box whose north is south of its south edge.
func (b BBox) Validate() error {
	if b.North < b.South {
		return newErr(InvalidBbox, "north (%g) < south (%g)", b.North, b.South)
	}
	return nil
}

// Split decomposes an antimeridian-crossing box into its two non-crossing
// halves. If b does not cross, it returns {b}.
func (b BBox) Split() []BBox {
	if !b.CrossesAntimeridian() {
		return []BBox{b}
	}
	return []BBox{
		{West: b.West, South: b.South, East: 180, North: b.North},
		{West: -180, South: b.South, East: b.East, North: b.North},
	}
}

// webMercatorSafeLat is the Web Mercator safe-extent latitude bound.
const webMercatorSafeLat = 85.0511287798

// ClampWebMercator clamps both latitude edges of b to the Web Mercator
// safe extent ±85.051129, used when iterating tiles.
func (b BBox) ClampWebMercator() BBox {
	out := b
	if out.North > webMercatorSafeLat {
		out.North = webMercatorSafeLat
	}
	if out.South < -webMercatorSafeLat {
		out.South = -webMercatorSafeLat
	}
	return out
}

// earthCircumference is 2*pi*R for the WGS84/Web-Mercator sphere radius.
const earthCircumference = 2 * math.Pi * 6378137.0

// WebMercatorBbox is a bounding box in Web Mercator meters.
type WebMercatorBbox struct {
	Left   float64
	Bottom float64
	Right  float64
	Top    float64
}
