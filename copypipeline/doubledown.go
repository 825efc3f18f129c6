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
	"mbtilekit/transform"
)

// parentGroup is one parent tile and up to four child payloads, as read
// off the self-join query grounded in utiles-doubledown's main.rs QUERY.
type parentGroup struct {
	parent         tile.Tile
	tl, tr, bl, br []byte
}

// doubledownQuery mirrors the reference's self-join: every parent whose
// zoom_level-1 row exists with at least one present child, joined against
// each of the four quadrant positions at zoom_level = parent_z+1. Row
// coordinates are TMS on both sides; the y-flip to XYZ happens after
// scanning, same as the streaming copy's select.go.
const doubledownQuery = `
WITH parent AS (
	SELECT DISTINCT (zoom_level - 1) AS p_z,
	                (tile_column / 2) AS p_x,
	                (tile_row / 2)    AS p_y
	FROM tiles
	WHERE zoom_level > 0
)
SELECT parent.p_z, parent.p_x, parent.p_y,
       child_0.tile_data, child_1.tile_data, child_2.tile_data, child_3.tile_data
FROM parent
LEFT JOIN tiles child_0 ON child_0.zoom_level = parent.p_z + 1
	AND child_0.tile_column = parent.p_x * 2     AND child_0.tile_row = parent.p_y * 2 + 1
LEFT JOIN tiles child_1 ON child_1.zoom_level = parent.p_z + 1
	AND child_1.tile_column = parent.p_x * 2 + 1 AND child_1.tile_row = parent.p_y * 2 + 1
LEFT JOIN tiles child_2 ON child_2.zoom_level = parent.p_z + 1
	AND child_2.tile_column = parent.p_x * 2     AND child_2.tile_row = parent.p_y * 2
LEFT JOIN tiles child_3 ON child_3.zoom_level = parent.p_z + 1
	AND child_3.tile_column = parent.p_x * 2 + 1 AND child_3.tile_row = parent.p_y * 2
`

// DoubledownResult summarizes a completed fuse run.
type DoubledownResult struct {
	Fused   int64
	Skipped int64
}

// Doubledown fuses every eligible parent/children group from src into dst
// using concurrency workers, per spec §4.6's Raster 2x2 Fuse description:
// child_0/1/2/3 key TL/TR/BL/BR, present quadrants must share dimensions,
// and the fused image is RGBA when any quadrant has transparency.
func Doubledown(ctx context.Context, src, dst *mbtiles.Store, fuser transform.Doubledown, concurrency int, onProgress func(Progress)) (DoubledownResult, error) {
	if concurrency <= 0 {
		concurrency = 4
	}

	groups, err := queryParentGroups(ctx, src)
	if err != nil {
		return DoubledownResult{}, err
	}

	sem := semaphore.NewWeighted(int64(concurrency))
	g, gctx := errgroup.WithContext(ctx)

	var result DoubledownResult
	var done int64

	for _, grp := range groups {
		grp := grp
		if err := sem.Acquire(gctx, 1); err != nil {
			return result, err
		}
		g.Go(func() error {
			defer sem.Release(1)
			out, err := fuser.Fuse(transform.Children{TL: grp.tl, TR: grp.tr, BL: grp.bl, BR: grp.br})
			if err != nil {
				result.Skipped++
				log.Printf("copypipeline: doubledown skip %s: %v", grp.parent, err)
				return nil
			}
			if err := dst.InsertTileFlat(gctx, grp.parent, out); err != nil {
				return fmt.Errorf("copypipeline: doubledown write %s: %w", grp.parent, err)
			}
			result.Fused++
			done++
			if onProgress != nil {
				onProgress(Progress{Done: done, Total: int64(len(groups)), LastTile: grp.parent})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

// queryParentGroups runs doubledownQuery against src and converts each
// row's TMS coordinates to an XYZ parent tile.
func queryParentGroups(ctx context.Context, src *mbtiles.Store) ([]parentGroup, error) {
	var out []parentGroup
	err := src.Adapter().Run(ctx, func(c *sql.Conn) error {
		rows, err := c.QueryContext(ctx, doubledownQuery)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var pz int
			var px, py int64
			var c0, c1, c2, c3 []byte
			if err := rows.Scan(&pz, &px, &py, &c0, &c1, &c2, &c3); err != nil {
				return err
			}
			xyzY := tile.FlipY(uint32(py), uint8(pz))
			t, err := tile.New(uint32(px), xyzY, uint8(pz))
			if err != nil {
				return err
			}
			out = append(out, parentGroup{parent: t, tl: c0, tr: c1, bl: c2, br: c3})
		}
		return rows.Err()
	})
	return out, err
}
