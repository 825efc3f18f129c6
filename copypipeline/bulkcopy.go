package copypipeline

import (
	"context"
	"database/sql"
	"fmt"

	"mbtilekit/mbtiles"
)

// BulkCopy performs a straight, in-SQL copy of tiles from src to dst via
// ATTACH + INSERT...SELECT, the way pasta.rs's copy_tiles_zbox_* functions
// do it — no Go-side byte touches, so it's only valid when cfg.Transform
// is nil. It attaches src, runs one INSERT...SELECT per destination
// schema shape, then always detaches, even on error.
func BulkCopy(ctx context.Context, cfg CopyConfig, src, dst *mbtiles.Store) (int64, error) {
	if cfg.Transform != nil {
		return 0, fmt.Errorf("copypipeline: BulkCopy called with a non-nil Transform; use StreamCopy instead")
	}

	zooms, err := src.ZoomLevels(ctx)
	if err != nil {
		return 0, err
	}
	zooms = zoomList(cfg.Zoom, zooms)
	where := whereClause(zooms, cfg.Bbox)

	detach, err := attachSrc(ctx, dst, src.Adapter().Path())
	if err != nil {
		return 0, err
	}
	defer detach()

	if cfg.Strategy.RequiresCheck() {
		if conflict, err := CheckConflict(ctx, src, dst, where); err != nil {
			return 0, err
		} else if conflict {
			return 0, fmt.Errorf("copypipeline: destination already has tiles in the selected range")
		}
	}

	var n int64
	err = dst.Adapter().Run(ctx, func(c *sql.Conn) error {
		stmt, err := copyStatement(dst.Type(), cfg.Strategy, cfg.Hash.SqliteFuncName(), where)
		if err != nil {
			return err
		}
		res, err := c.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("copypipeline: bulk copy: %w", err)
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// copyStatement builds the INSERT...SELECT appropriate to dst's schema
// shape, grounded in pasta.rs's copy_tiles_zbox_flat/hash/norm.
func copyStatement(dstType mbtiles.Type, strategy InsertStrategy, hashFn, where string) (string, error) {
	prefix := strategy.SQLPrefix()
	switch dstType {
	case mbtiles.Flat:
		return fmt.Sprintf(`%s INTO tiles (zoom_level, tile_column, tile_row, tile_data)
			SELECT zoom_level, tile_column, tile_row, tile_data FROM src.tiles WHERE %s`, prefix, where), nil

	case mbtiles.Hash:
		return fmt.Sprintf(`%s INTO tiles_with_hash (zoom_level, tile_column, tile_row, tile_data, tile_hash)
			SELECT zoom_level, tile_column, tile_row, tile_data, %s(tile_data) FROM src.tiles WHERE %s`, prefix, hashFn, where), nil

	case mbtiles.Normalized:
		return "", fmt.Errorf("copypipeline: normalized bulk copy requires a two-statement image/map insert, not a single INSERT...SELECT; normalized destinations are not supported")

	default:
		return "", fmt.Errorf("copypipeline: unsupported destination schema %s", dstType)
	}
}

// copyMetadata copies every metadata row from src to dst, used when dst
// was freshly created (no metadata of its own to conflict with).
func copyMetadata(ctx context.Context, src, dst *mbtiles.Store) error {
	rows, err := src.MetadataRows(ctx)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := dst.MetadataSet(ctx, r.Name, r.Value); err != nil {
			return fmt.Errorf("copypipeline: copy metadata %q: %w", r.Name, err)
		}
	}
	return nil
}
