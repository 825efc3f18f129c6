// Package cover computes tile covers for geometries: points, lines, and
// polygons each reduce to a set of tiles at a fixed zoom, optionally
// simplified up toward a minimum zoom afterward.
package cover

import (
	"math"
	"sort"

	"mbtilekit/tile"
)

// Point covers a single point with the one tile that contains it.
func Point(lng, lat float64, z uint8) (tile.Tile, error) {
	return tile.TileFor(lng, lat, z, true)
}

// MultiPoint covers each point independently; duplicates collapse since the
// result is a set.
func MultiPoint(points [][2]float64, z uint8) ([]tile.Tile, error) {
	set := make(map[tile.Tile]struct{}, len(points))
	for _, p := range points {
		t, err := tile.TileFor(p[0], p[1], z, true)
		if err != nil {
			return nil, err
		}
		set[t] = struct{}{}
	}
	return sortedTiles(set), nil
}

// ringPoint is a tile-pixel sample recorded while walking a line for
// polygon boundary rasterization.
type ringPoint struct{ x, y uint32 }

// lineStringCover walks coords as a polyline at zoom z using a DDA-style
// parametric stepping (the same t_max_x/t_max_y walk a line-rasterizer
// uses), inserting every tile the segment passes through into set. When
// ring is non-nil it additionally records one boundary sample per
// scanline-row transition, for use by polygonCover.
func lineStringCover(set map[tile.Tile]struct{}, coords [][2]float64, z uint8, ring *[]ringPoint) {
	var prevX, prevY int64
	havePrev := false
	var yValue int64
	haveY := false

	for i := 0; i+1 < len(coords); i++ {
		start, stop := coords[i], coords[i+1]
		x0f, y0f := tileFrac(start[0], start[1], z)
		x1f, y1f := tileFrac(stop[0], stop[1], z)

		dx := x1f - x0f
		dy := y1f - y0f
		if dx == 0 && dy == 0 {
			continue
		}

		sx := sign(dx)
		sy := sign(dy)

		x := int64(math.Floor(x0f))
		y := int64(math.Floor(y0f))
		yValue, haveY = y, true

		tdx, tdy := infIfZero(dx, sx), infIfZero(dy, sy)
		tMaxX := tMax(dx, x0f, x)
		tMaxY := tMax(dy, y0f, y)

		emit := func() {
			if havePrev && prevX == x && prevY == y {
				return
			}
			set[tile.Tile{X: uint32(x), Y: uint32(y), Z: z}] = struct{}{}
			if ring != nil && (!havePrev || prevY != y) {
				*ring = append(*ring, ringPoint{x: uint32(x), y: uint32(y)})
			}
			prevX, prevY, havePrev = x, y, true
		}
		emit()

		maxIt := int64(absF(dx) + absF(dy))
		for (tMaxX < 1.0 || tMaxY < 1.0) && maxIt >= 0 {
			if tMaxX < tMaxY {
				tMaxX += tdx
				x += sx
			} else {
				tMaxY += tdy
				y += sy
			}
			if x < 0 || y < 0 {
				break
			}
			emit()
			maxIt--
		}
	}

	if ring != nil && len(*ring) > 0 && haveY {
		first := (*ring)[0]
		if yValue == int64(first.y) {
			*ring = (*ring)[:len(*ring)-1]
		}
	}

	if !havePrev && len(coords) > 0 {
		x0f, y0f := tileFrac(coords[0][0], coords[0][1], z)
		set[tile.Tile{X: uint32(math.Floor(x0f)), Y: uint32(math.Floor(y0f)), Z: z}] = struct{}{}
	}
}

// Line covers a polyline given as a sequence of (lng, lat) vertices.
func Line(coords [][2]float64, z uint8) []tile.Tile {
	set := make(map[tile.Tile]struct{})
	lineStringCover(set, coords, z, nil)
	return sortedTiles(set)
}

// MultiLine covers each line independently, unioning the results.
func MultiLine(lines [][][2]float64, z uint8) []tile.Tile {
	set := make(map[tile.Tile]struct{})
	for _, l := range lines {
		lineStringCover(set, l, z, nil)
	}
	return sortedTiles(set)
}

// polygonCover rasterizes rings (first is the exterior, the rest holes) by
// walking each ring's boundary as a tile-edge polyline, then running a
// scanline fill: for every row, boundary crossings are sorted and filled
// in (start, end) pairs. Ring direction/winding does not matter since
// crossings are paired left-to-right regardless of orientation.
func polygonCover(set map[tile.Tile]struct{}, rings [][][2]float64, z uint8) {
	scanlines := make(map[uint32][]uint32)

	for _, ringCoords := range rings {
		var boundary []ringPoint
		lineStringCover(set, ringCoords, z, &boundary)
		if len(boundary) == 0 {
			continue
		}

		edges := make([][2]ringPoint, 0, len(boundary))
		for i := 0; i+1 < len(boundary); i++ {
			edges = append(edges, [2]ringPoint{boundary[i], boundary[i+1]})
		}
		edges = append(edges, [2]ringPoint{boundary[len(boundary)-1], boundary[0]})

		for _, e := range edges {
			x0, y0 := int64(e[0].x), int64(e[0].y)
			x1, y1 := int64(e[1].x), int64(e[1].y)
			if y0 == y1 {
				continue
			}
			ymin, ymax := y0, y1
			if ymin > ymax {
				ymin, ymax = ymax, ymin
			}
			dx := x1 - x0
			dy := y1 - y0
			for y := ymin; y < ymax; y++ {
				t := float64(y-y0) / float64(dy)
				x := math.Floor(float64(x0) + t*float64(dx))
				scanlines[uint32(y)] = append(scanlines[uint32(y)], uint32(x))
			}
		}
	}

	rows := make([]uint32, 0, len(scanlines))
	for y := range scanlines {
		rows = append(rows, y)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i] < rows[j] })

	for _, y := range rows {
		xs := scanlines[y]
		sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
		for i := 0; i+1 < len(xs); i += 2 {
			for x := xs[i]; x < xs[i+1]; x++ {
				set[tile.Tile{X: x, Y: y, Z: z}] = struct{}{}
			}
		}
	}
}

// Polygon covers a polygon given as rings (first exterior, rest holes),
// each ring a closed or open sequence of (lng, lat) vertices.
func Polygon(rings [][][2]float64, z uint8) []tile.Tile {
	set := make(map[tile.Tile]struct{})
	polygonCover(set, rings, z)
	return sortedTiles(set)
}

// MultiPolygon covers each polygon independently, unioning the results.
func MultiPolygon(polygons [][][][2]float64, z uint8) []tile.Tile {
	set := make(map[tile.Tile]struct{})
	for _, p := range polygons {
		polygonCover(set, p, z)
	}
	return sortedTiles(set)
}

// Geometry is the minimal shape cover() operates on: exactly one of the
// fields is populated per GeoJSON-like discrimination, mirroring the
// spec's GeometryCollection recursion.
type Geometry struct {
	Point        *[2]float64
	MultiPoint   [][2]float64
	Line         [][2]float64
	MultiLine    [][][2]float64
	Polygon      [][][2]float64
	MultiPolygon [][][][2]float64
	Collection   []Geometry
}

// Cover computes the tile cover of geom at zoom z. When minzoom is
// non-nil the result is additionally simplified up to that zoom via
// tile.Simplify.
func Cover(geom Geometry, z uint8, minzoom *uint8) ([]tile.Tile, error) {
	set := make(map[tile.Tile]struct{})
	if err := addGeomTiles(set, geom, z); err != nil {
		return nil, err
	}
	out := sortedTiles(set)
	if minzoom != nil {
		floor := min(*minzoom, z)
		simplified := make(map[tile.Tile]struct{}, len(out))
		for _, t := range tile.Simplify(out) {
			if t.Z >= floor {
				simplified[t] = struct{}{}
				continue
			}
			kids, err := t.Children(floor)
			if err != nil {
				return nil, err
			}
			for _, k := range kids {
				simplified[k] = struct{}{}
			}
		}
		out = sortedTiles(simplified)
	}
	return out, nil
}

func addGeomTiles(set map[tile.Tile]struct{}, geom Geometry, z uint8) error {
	switch {
	case geom.Point != nil:
		t, err := tile.TileFor(geom.Point[0], geom.Point[1], z, true)
		if err != nil {
			return err
		}
		set[t] = struct{}{}
	case geom.MultiPoint != nil:
		for _, p := range geom.MultiPoint {
			t, err := tile.TileFor(p[0], p[1], z, true)
			if err != nil {
				return err
			}
			set[t] = struct{}{}
		}
	case geom.Line != nil:
		lineStringCover(set, geom.Line, z, nil)
	case geom.MultiLine != nil:
		for _, l := range geom.MultiLine {
			lineStringCover(set, l, z, nil)
		}
	case geom.Polygon != nil:
		polygonCover(set, geom.Polygon, z)
	case geom.MultiPolygon != nil:
		for _, p := range geom.MultiPolygon {
			polygonCover(set, p, z)
		}
	case geom.Collection != nil:
		for _, g := range geom.Collection {
			if err := addGeomTiles(set, g, z); err != nil {
				return err
			}
		}
	}
	return nil
}

func sortedTiles(set map[tile.Tile]struct{}) []tile.Tile {
	out := make([]tile.Tile, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func tileFrac(lng, lat float64, z uint8) (x, y float64) {
	return tile.FractionalXY(lng, lat, float64(z))
}

func sign(v float64) int64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func infIfZero(d float64, s int64) float64 {
	if d == 0 {
		return math.Inf(1)
	}
	return absF(float64(s) / d)
}

func tMax(d, originF float64, originI int64) float64 {
	if d == 0 {
		return math.Inf(1)
	}
	edge := 0.0
	if d > 0 {
		edge = 1.0
	}
	return absF((edge + float64(originI) - originF) / d)
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
