package copypipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"mbtilekit/mbtiles"
	"mbtilekit/sqlitedb"
)

// Result summarizes a completed copy run, combining the bulk and
// streaming result shapes.
type Result struct {
	TilesCopied    int64
	TilesSkipped   int64
	MetadataCopied int
	DstWasNew      bool
	Elapsed        time.Duration
}

// Copy runs the full pipeline described by spec §4.5: preflight, conflict
// check, attach/copy/detach (always detaching, success or failure), and —
// only when dst was freshly created — a metadata copy. Straight copies
// use BulkCopy; copies with a non-nil cfg.Transform use StreamCopy
// instead, since per-tile byte transforms can't be expressed in SQL.
func Copy(ctx context.Context, cfg CopyConfig, onProgress func(Progress)) (Result, error) {
	if err := cfg.Check(); err != nil {
		return Result{}, err
	}

	pre, err := Preflight(ctx, cfg)
	if err != nil {
		return Result{}, fmt.Errorf("copypipeline: preflight: %w", err)
	}

	src, err := mbtiles.OpenReadonly(ctx, cfg.Src, 1)
	if err != nil {
		return Result{}, fmt.Errorf("copypipeline: open src: %w", err)
	}
	defer src.Close()

	var dst *mbtiles.Store
	if pre.DstExists {
		dst, err = mbtiles.OpenExisting(ctx, cfg.Dst, sqlitedb.Client, 1)
	} else {
		dst, err = mbtiles.OpenNew(ctx, cfg.Dst, pre.DstType)
	}
	if err != nil {
		return Result{}, fmt.Errorf("copypipeline: open dst: %w", err)
	}
	defer dst.Close()

	log.Printf("copypipeline: copying %s (%s) -> %s (%s, new=%t)",
		cfg.Src, src.Type(), cfg.Dst, dst.Type(), !pre.DstExists)

	start := time.Now()
	var result Result
	result.DstWasNew = !pre.DstExists

	if cfg.Transform == nil {
		n, err := BulkCopy(ctx, cfg, src, dst)
		if err != nil {
			return result, err
		}
		result.TilesCopied = n
	} else {
		sr, err := StreamCopy(ctx, cfg, src, dst, onProgress)
		if err != nil {
			return result, err
		}
		result.TilesCopied = sr.Copied
		result.TilesSkipped = sr.Skipped
	}

	if result.DstWasNew {
		if err := copyMetadata(ctx, src, dst); err != nil {
			return result, err
		}
		if err := dst.MetadataSet(ctx, "dbtype", dst.Type().String()); err != nil {
			return result, err
		}
		if dst.Type() != mbtiles.Flat {
			if err := dst.MetadataSet(ctx, "tileid", cfg.Hash.String()); err != nil {
				return result, err
			}
		}
		rows, err := src.MetadataRows(ctx)
		if err != nil {
			return result, err
		}
		result.MetadataCopied = len(rows)
	}

	result.Elapsed = time.Since(start)
	log.Printf("copypipeline: copied %d tiles (%d skipped) in %s", result.TilesCopied, result.TilesSkipped, result.Elapsed)
	return result, nil
}
