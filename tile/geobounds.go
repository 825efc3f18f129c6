package tile

import (
	"math"
	"sort"
)

// lngInterval is a longitude interval on [-180, 180]; lo <= hi always.
type lngInterval struct {
	lo, hi float64
}

// intervalMergeTolerance is the tolerance used to treat two adjacent
// longitude intervals as touching when merging.
const intervalMergeTolerance = 1e-4

// GeoBoundsUnion produces a single enclosing BBox over a set of geographic
// bboxes, some of which may cross the antimeridian. See spec §4.8: each
// input decomposes into one or two longitude intervals, the intervals are
// merged, and if more than one merged interval remains the box is formed
// from the largest angular gap (implying the result itself crosses).
func GeoBoundsUnion(boxes []BBox) BBox {
	if len(boxes) == 0 {
		return BBox{}
	}
	minLat, maxLat := math.Inf(1), math.Inf(-1)
	var intervals []lngInterval
	for _, b := range boxes {
		if b.South < minLat {
			minLat = b.South
		}
		if b.North > maxLat {
			maxLat = b.North
		}
		for _, half := range b.Split() {
			intervals = append(intervals, lngInterval{lo: half.West, hi: half.East})
		}
	}

	sort.Slice(intervals, func(i, j int) bool { return intervals[i].lo < intervals[j].lo })
	merged := []lngInterval{intervals[0]}
	for _, iv := range intervals[1:] {
		last := &merged[len(merged)-1]
		if iv.lo <= last.hi+intervalMergeTolerance {
			if iv.hi > last.hi {
				last.hi = iv.hi
			}
		} else {
			merged = append(merged, iv)
		}
	}

	if len(merged) == 1 {
		return BBox{West: merged[0].lo, South: minLat, East: merged[0].hi, North: maxLat}
	}

	bestStart, bestEnd, bestSize := 0.0, 0.0, math.Inf(-1)
	for i, m := range merged {
		var gapStart, gapEnd float64
		gapStart = m.hi
		if j := i + 1; j < len(merged) {
			gapEnd = merged[j].lo
		} else {
			gapEnd = merged[0].lo + 360
		}
		if size := gapEnd - gapStart; size > bestSize {
			bestStart, bestEnd, bestSize = gapStart, gapEnd, size
		}
	}

	return BBox{
		West:  wrapLng(bestEnd),
		South: minLat,
		East:  wrapLng(bestStart),
		North: maxLat,
	}
}

func wrapLng(x float64) float64 {
	for x > 180 {
		x -= 360
	}
	for x < -180 {
		x += 360
	}
	return x
}
