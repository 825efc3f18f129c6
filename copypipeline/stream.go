package copypipeline

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"mbtilekit/mbtiles"
	"mbtilekit/tile"
)

// Progress is emitted on the pipeline's side channel as tiles complete,
// matching spec §4.5's progress-reporter stage.
type Progress struct {
	Done, Total int64
	LastTile    tile.Tile
}

// StreamResult summarizes a completed streaming copy.
type StreamResult struct {
	Copied  int64
	Skipped int64
}

// sourceTile is one row read off the source store by the producer stage.
type sourceTile struct {
	t    tile.Tile
	data []byte
}

// StreamCopy runs the producer/transformer-pool/writer/progress topology
// spec §4.5 mandates whenever a copy needs a TileTransform: work that
// can't be expressed as a single SQL statement because it touches each
// tile's bytes in Go (image re-encode, raster fusion). Bounded channels
// provide backpressure; an errgroup ties the stages' lifetimes together
// so a failure in any stage cancels the rest.
func StreamCopy(ctx context.Context, cfg CopyConfig, src, dst *mbtiles.Store, onProgress func(Progress)) (StreamResult, error) {
	if cfg.Transform == nil {
		return StreamResult{}, fmt.Errorf("copypipeline: StreamCopy requires a non-nil Transform; use BulkCopy for passthrough copies")
	}

	zooms, err := src.ZoomLevels(ctx)
	if err != nil {
		return StreamResult{}, err
	}
	zooms = zoomList(cfg.Zoom, zooms)
	where := whereClause(zooms, cfg.Bbox)

	if err := checkConflictIfRequired(ctx, cfg, src, dst, where); err != nil {
		return StreamResult{}, err
	}

	total, err := countSelected(ctx, src, zooms, cfg.Bbox)
	if err != nil {
		return StreamResult{}, err
	}

	raw := make(chan sourceTile, cfg.channelCap())
	transformed := make(chan sourceTile, cfg.channelCap())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(raw)
		return produce(gctx, src, zooms, cfg.Bbox, raw)
	})

	var result StreamResult
	g.Go(func() error {
		defer close(transformed)
		return transformStage(gctx, cfg, raw, transformed, &result)
	})

	g.Go(func() error {
		return writeStage(gctx, dst, transformed, total, &result, onProgress)
	})

	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

// countSelected counts how many source rows match the zoom/bbox
// selection, used only to size the progress total.
func countSelected(ctx context.Context, src *mbtiles.Store, zooms []uint8, bbox BboxSelector) (int64, error) {
	var total int64
	err := src.Adapter().Run(ctx, func(c *sql.Conn) error {
		return c.QueryRowContext(ctx, "SELECT COUNT(*) FROM tiles WHERE "+whereClause(zooms, bbox)).Scan(&total)
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// produce streams every selected source row onto raw, respecting
// cancellation from the rest of the pipeline via ctx.
func produce(ctx context.Context, src *mbtiles.Store, zooms []uint8, bbox BboxSelector, raw chan<- sourceTile) error {
	for _, z := range zooms {
		count, err := src.TilesCountAtZoom(ctx, z)
		if err != nil {
			return err
		}
		if count == 0 {
			continue
		}
		rows, err := selectZoomRows(ctx, src, z, bbox)
		if err != nil {
			return err
		}
		for _, r := range rows {
			select {
			case raw <- r:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

// transformStage runs cfg.Transform over a bounded pool of goroutines
// (width cfg.concurrency()), preserving no particular output order —
// the writer stage commits whatever arrives, since MBTiles row identity
// is (z, x, y), not arrival order. A transform error on a single tile is
// logged and the tile is skipped rather than failing the whole run,
// matching Doubledown's per-group skip-on-error handling.
func transformStage(ctx context.Context, cfg CopyConfig, raw <-chan sourceTile, out chan<- sourceTile, result *StreamResult) error {
	sem := semaphore.NewWeighted(int64(cfg.concurrency()))
	g, gctx := errgroup.WithContext(ctx)

	for st := range raw {
		st := st
		if err := sem.Acquire(gctx, 1); err != nil {
			return err
		}
		g.Go(func() error {
			defer sem.Release(1)
			transformed, ok, err := cfg.Transform.Apply(st.t, st.data)
			if err != nil {
				result.Skipped++
				log.Printf("copypipeline: transform %s skip %s: %v", cfg.Transform.Name(), st.t, err)
				return nil
			}
			if !ok {
				return nil
			}
			select {
			case out <- sourceTile{t: st.t, data: transformed}:
			case <-gctx.Done():
				return gctx.Err()
			}
			return nil
		})
	}
	return g.Wait()
}

// writeStage commits each transformed tile to dst and reports progress.
func writeStage(ctx context.Context, dst *mbtiles.Store, in <-chan sourceTile, total int64, result *StreamResult, onProgress func(Progress)) error {
	var done int64
	for st := range in {
		if err := dst.InsertTileFlat(ctx, st.t, st.data); err != nil {
			return fmt.Errorf("copypipeline: write tile %s: %w", st.t, err)
		}
		result.Copied++
		done++
		if onProgress != nil {
			onProgress(Progress{Done: done, Total: total, LastTile: st.t})
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	log.Printf("copypipeline: stream copy wrote %d tiles", result.Copied)
	return nil
}
