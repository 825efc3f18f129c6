package copypipeline

import "mbtilekit/tile"

// Transform turns one source tile's bytes into the bytes to write at the
// destination (spec §4.6's TileTransform contract). Implementations live
// in package transform; the interface is declared here, not there, so
// that package can depend on tile/mbtiles without copypipeline needing to
// import it back.
type Transform interface {
	// Apply transforms the tile at t with payload src, returning the
	// bytes to write (or to skip the tile without writing it, if ok is
	// false).
	Apply(t tile.Tile, src []byte) (dst []byte, ok bool, err error)

	// Name identifies the transform for logging/progress reporting.
	Name() string
}
