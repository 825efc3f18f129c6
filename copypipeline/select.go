package copypipeline

import (
	"context"
	"database/sql"
	"fmt"

	"mbtilekit/mbtiles"
	"mbtilekit/tile"
)

// selectZoomRows reads every tile row at zoom z matching bbox (or all of
// them, if bbox is unset) from src, converting the on-disk TMS row back
// to XYZ for the rest of the pipeline.
func selectZoomRows(ctx context.Context, src *mbtiles.Store, z uint8, bbox BboxSelector) ([]sourceTile, error) {
	where := whereClause([]uint8{z}, bbox)
	var out []sourceTile
	err := src.Adapter().Run(ctx, func(c *sql.Conn) error {
		rows, err := c.QueryContext(ctx, fmt.Sprintf(
			`SELECT zoom_level, tile_column, tile_row, tile_data FROM tiles WHERE %s`, where))
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var zoom int
			var col, row int64
			var data []byte
			if err := rows.Scan(&zoom, &col, &row, &data); err != nil {
				return err
			}
			xyzY := tile.FlipY(uint32(row), uint8(zoom))
			t, err := tile.New(uint32(col), xyzY, uint8(zoom))
			if err != nil {
				return err
			}
			out = append(out, sourceTile{t: t, data: data})
		}
		return rows.Err()
	})
	return out, err
}
