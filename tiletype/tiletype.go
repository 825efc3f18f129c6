// Package tiletype sniffs a tile payload's format, compression encoding
// and overarching kind from its leading bytes, and maps formats to HTTP
// content types. It never decodes the payload itself — "given bytes in,
// classify bytes" is the whole contract.
package tiletype

import "bytes"

// Format is the tile payload's encoded format.
type Format int

const (
	Unknown Format = iota
	Png
	Jpg
	Gif
	Webp
	Tiff
	Pbf
	Mlt
	Json
	GeoJson
)

func (f Format) String() string {
	switch f {
	case Png:
		return "png"
	case Jpg:
		return "jpg"
	case Gif:
		return "gif"
	case Webp:
		return "webp"
	case Tiff:
		return "tiff"
	case Pbf:
		return "pbf"
	case Mlt:
		return "mlt"
	case Json:
		return "json"
	case GeoJson:
		return "geojson"
	default:
		return "unknown"
	}
}

// ContentType returns the HTTP content type for f.
func (f Format) ContentType() string {
	switch f {
	case Png:
		return "image/png"
	case Jpg:
		return "image/jpeg"
	case Gif:
		return "image/gif"
	case Webp:
		return "image/webp"
	case Tiff:
		return "image/tiff"
	case Pbf, Mlt:
		return "application/x-protobuf"
	case Json:
		return "application/json"
	case GeoJson:
		return "application/geo+json"
	default:
		return "application/octet-stream"
	}
}

// Encoding is the compression applied on top of Format.
type Encoding int

const (
	Uncompressed Encoding = iota
	Internal
	Gzip
	Zlib
	Brotli
	Zstd
)

// ContentEncoding returns the HTTP Content-Encoding header value, or ""
// when no encoding header applies (uncompressed, or internal to the
// format itself as with PNG/JPEG).
func (e Encoding) ContentEncoding() string {
	switch e {
	case Gzip:
		return "gzip"
	case Zlib:
		return "deflate"
	case Brotli:
		return "br"
	case Zstd:
		return "zstd"
	default:
		return ""
	}
}

// Kind is the coarse category derived from Format.
type Kind int

const (
	KindUnknown Kind = iota
	KindRaster
	KindVector
	KindJSON
	KindGeoJSON
)

func (k Kind) String() string {
	switch k {
	case KindRaster:
		return "raster"
	case KindVector:
		return "vector"
	case KindJSON:
		return "json"
	case KindGeoJSON:
		return "geojson"
	default:
		return "unknown"
	}
}

// KindOf derives the Kind implied by a Format.
func KindOf(f Format) Kind {
	switch f {
	case Png, Jpg, Gif, Webp, Tiff:
		return KindRaster
	case Pbf, Mlt:
		return KindVector
	case Json:
		return KindJSON
	case GeoJson:
		return KindGeoJSON
	default:
		return KindUnknown
	}
}

var (
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	jpgMagic  = []byte{0xFF, 0xD8}
	jpgTrail  = []byte{0xFF, 0xD9}
	gifMagic1 = []byte("GIF87a")
	gifMagic2 = []byte("GIF89a")
	gzipMagic = []byte{0x1F, 0x8B}
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	riffMagic = []byte("RIFF")
	webpMagic = []byte("WEBP")
)

var zlibMagics = [][]byte{
	{0x78, 0x01},
	{0x78, 0x5E},
	{0x78, 0x9C},
	{0x78, 0xDA},
}

// Detect classifies raw tile bytes, returning the sniffed format and
// compression encoding. A gzip- or zlib-wrapped payload is assumed to
// wrap PBF (vector tile), matching the convention that MBTiles never
// stores compressed raster tiles.
func Detect(data []byte) (Format, Encoding) {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return Png, Uncompressed
	case bytes.HasPrefix(data, jpgMagic) && bytes.HasSuffix(data, jpgTrail):
		return Jpg, Uncompressed
	case bytes.HasPrefix(data, gifMagic1) || bytes.HasPrefix(data, gifMagic2):
		return Gif, Uncompressed
	case bytes.HasPrefix(data, riffMagic) && len(data) > 12 && bytes.Equal(data[8:12], webpMagic):
		return Webp, Uncompressed
	case bytes.HasPrefix(data, gzipMagic):
		return Pbf, Gzip
	case hasZlibMagic(data):
		return Pbf, Zlib
	case bytes.HasPrefix(data, zstdMagic):
		return Pbf, Zstd
	case len(data) > 0 && (data[0] == '{' || data[0] == '['):
		return Json, Uncompressed
	case looksLikeMVT(data):
		return Pbf, Uncompressed
	default:
		return Unknown, Uncompressed
	}
}

func hasZlibMagic(data []byte) bool {
	for _, m := range zlibMagics {
		if bytes.HasPrefix(data, m) {
			return true
		}
	}
	return false
}

// looksLikeMVT is a heuristic structural validator for uncompressed
// protobuf: it walks top-level field headers and confirms each decodes
// to a plausible field number / wire type without running off the end of
// the buffer. It does not parse vector-tile semantics.
func looksLikeMVT(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	i := 0
	for i < len(data) {
		key := data[i] >> 3
		wireType := data[i] & 0x07
		i++
		if key == 0 || key > 15 {
			return false
		}
		switch wireType {
		case 0: // varint
			for i < len(data) && data[i]&0x80 != 0 {
				i++
			}
			i++
		case 1: // 64-bit
			i += 8
		case 2: // length-delimited
			length := 0
			shift := uint(0)
			for i < len(data) && data[i]&0x80 != 0 {
				length |= int(data[i]&0x7F) << shift
				shift += 7
				i++
			}
			if i < len(data) {
				length |= int(data[i]) << shift
			}
			i++
			i += length
		case 5: // 32-bit
			i += 4
		default:
			return false
		}
		if i > len(data) {
			return false
		}
	}
	return true
}
