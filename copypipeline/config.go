// Package copypipeline implements CopyPipeline: preflight analysis,
// conflict detection, and the two copy strategies spec §4.5 describes — a
// bulk SQL kernel for straight copies, and a streaming producer/
// transformer-pool/writer/progress topology when a TileTransform needs to
// touch every tile's bytes in-process.
package copypipeline

import (
	"fmt"
	"runtime"

	"mbtilekit/mbtiles"
)

// InsertStrategy controls how a tile-row conflict at the destination is
// handled.
type InsertStrategy int

const (
	InsertNone InsertStrategy = iota
	InsertIgnore
	InsertReplace
	InsertAbort
)

// SQLPrefix returns the INSERT clause prefix for the strategy.
func (s InsertStrategy) SQLPrefix() string {
	switch s {
	case InsertIgnore:
		return "INSERT OR IGNORE"
	case InsertReplace:
		return "INSERT OR REPLACE"
	case InsertAbort:
		return "INSERT OR ABORT"
	default:
		return "INSERT"
	}
}

// RequiresCheck reports whether this strategy needs an explicit conflict
// check before copying (only the bare "fail on any conflict" strategy
// does — the others resolve conflicts themselves).
func (s InsertStrategy) RequiresCheck() bool { return s == InsertNone }

func (s InsertStrategy) String() string {
	switch s {
	case InsertIgnore:
		return "ignore"
	case InsertReplace:
		return "replace"
	case InsertAbort:
		return "abort"
	default:
		return "none"
	}
}

// HashAlgorithm selects the scalar SQL function used to derive a tile_hash
// or tile_id for Hash/Normalized destinations.
type HashAlgorithm int

const (
	HashMD5 HashAlgorithm = iota
	HashSHA1
)

// SqliteFuncName returns the registered scalar function name (see
// sqlitedb.RegisterHashFunctions).
func (h HashAlgorithm) SqliteFuncName() string {
	switch h {
	case HashSHA1:
		return "sha1hex"
	default:
		return "md5hex"
	}
}

func (h HashAlgorithm) String() string {
	if h == HashSHA1 {
		return "sha1"
	}
	return "md5"
}

// ZoomSelector restricts a copy/cover operation to specific zooms, either
// an explicit list or a [Min, Max] range.
type ZoomSelector struct {
	Zooms    []uint8
	Min, Max *uint8
}

// Empty reports whether the selector restricts nothing.
func (z ZoomSelector) Empty() bool {
	return len(z.Zooms) == 0 && z.Min == nil && z.Max == nil
}

// BboxSelector restricts a copy to tiles intersecting a geographic bbox.
type BboxSelector struct {
	West, South, East, North float64
	Set                      bool
}

// CopyConfig is the full input to a copy run (spec §3's CopyConfig).
type CopyConfig struct {
	Src, Dst    string
	DstType     *mbtiles.Type
	Zoom        ZoomSelector
	Bbox        BboxSelector
	Hash        HashAlgorithm
	Strategy    InsertStrategy
	Transform   Transform // nil means a straight SQL bulk copy
	Concurrency int       // transformer-pool width; 0 means default
	ChannelCap  int       // bounded-channel capacity; 0 means default
}

// Check validates the config, mirroring the reference's cfg.check() gate
// run at construction time.
func (c CopyConfig) Check() error {
	if c.Src == "" || c.Dst == "" {
		return fmt.Errorf("copypipeline: src and dst must both be set")
	}
	if c.Src == c.Dst {
		return fmt.Errorf("copypipeline: src and dst must differ")
	}
	return nil
}

// concurrency returns the effective transformer-pool width.
func (c CopyConfig) concurrency() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	n := runtime.NumCPU()
	if n < 4 {
		return 4
	}
	return n
}

// channelCap returns the effective bounded-channel capacity.
func (c CopyConfig) channelCap() int {
	if c.ChannelCap > 0 {
		return c.ChannelCap
	}
	return 100
}
