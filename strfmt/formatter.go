package strfmt

import (
	"fmt"
	"strconv"
	"strings"

	"mbtilekit/tile"
)

// Formatter compiles a pattern once and renders it for many tiles, as
// utils strfmt-cli tools do over an entire copy/tiles-listing run.
type Formatter struct {
	pattern string
	parts   []part
	nTokens int
}

// New compiles pattern into a Formatter.
func New(pattern string) *Formatter {
	parts, n := parse(pattern)
	return &Formatter{pattern: render(parts), parts: parts, nTokens: n}
}

// Default is the package default formatter, "{json_arr}", matching the
// reference's TileStringFormat::default.
func Default() *Formatter { return New("{json_arr}") }

// Pattern returns the canonical (re-rendered) pattern string.
func (f *Formatter) Pattern() string { return f.pattern }

// HasToken reports whether the pattern contains at least one token (a
// pattern that's pure literal text never varies per tile).
func (f *Formatter) HasToken() bool { return f.nTokens > 0 }

// Format renders t according to the compiled pattern. Single-token
// patterns take a direct fast path, mirroring the reference's fmt_tile
// special cases for the common "{json_arr}"/"{json_obj}"/"{quadkey}"/
// "{zxy}" patterns.
func (f *Formatter) Format(t tile.Tile) string {
	switch f.pattern {
	case "{json_arr}":
		return jsonArr(t)
	case "{json_obj}":
		return jsonObj(t)
	case "{quadkey}":
		return t.Quadkey()
	case "{z}/{x}/{y}":
		return zxyFslash(t)
	}

	var b strings.Builder
	for _, p := range f.parts {
		if !p.isToken {
			b.WriteString(p.lit)
			continue
		}
		b.WriteString(renderToken(p.tok, t))
	}
	return b.String()
}

func renderToken(tok Token, t tile.Tile) string {
	switch tok {
	case TokenX:
		return strconv.FormatUint(uint64(t.X), 10)
	case TokenY:
		return strconv.FormatUint(uint64(t.Y), 10)
	case TokenZ:
		return strconv.FormatUint(uint64(t.Z), 10)
	case TokenYup:
		return strconv.FormatUint(uint64(tile.FlipY(t.Y, t.Z)), 10)
	case TokenZxyFslash:
		return zxyFslash(t)
	case TokenQuadkey:
		return t.Quadkey()
	case TokenPmtileID:
		return strconv.FormatUint(t.PMTileID(), 10)
	case TokenJSONArr:
		return jsonArr(t)
	case TokenJSONObj:
		return jsonObj(t)
	case TokenGeoBBox:
		return bboxJSONArr(t.Bounds())
	case TokenProjwin:
		return projwinStr(t.Bounds())
	case TokenBBoxWeb:
		return webBBoxJSONArr(t.Bounds())
	case TokenProjwinWeb:
		return webProjwinStr(t.Bounds())
	default:
		return ""
	}
}

func zxyFslash(t tile.Tile) string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

func jsonArr(t tile.Tile) string {
	return fmt.Sprintf("[%d, %d, %d]", t.X, t.Y, t.Z)
}

func jsonObj(t tile.Tile) string {
	return fmt.Sprintf(`{"x":%d, "y":%d, "z":%d}`, t.X, t.Y, t.Z)
}

func bboxJSONArr(b tile.BBox) string {
	return fmt.Sprintf("[%g, %g, %g, %g]", b.West, b.South, b.East, b.North)
}

func projwinStr(b tile.BBox) string {
	return fmt.Sprintf("%g %g %g %g", b.West, b.North, b.East, b.South)
}

// toWebMercator projects a geographic BBox into Web Mercator meters.
func toWebMercator(b tile.BBox) tile.WebMercatorBbox {
	left, bottom := tile.XY(b.West, b.South)
	right, top := tile.XY(b.East, b.North)
	return tile.WebMercatorBbox{Left: left, Bottom: bottom, Right: right, Top: top}
}

func webBBoxJSONArr(b tile.BBox) string {
	w := toWebMercator(b)
	return fmt.Sprintf("[%g, %g, %g, %g]", w.Left, w.Bottom, w.Right, w.Top)
}

func webProjwinStr(b tile.BBox) string {
	w := toWebMercator(b)
	return fmt.Sprintf("%g %g %g %g", w.Left, w.Top, w.Right, w.Bottom)
}
