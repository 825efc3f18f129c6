package mbtiles

import (
	"context"
	"database/sql"
	"os"

	"github.com/dustin/go-humanize"
)

// ZoomStats is one zoom level's aggregate row from mbt_stats.
type ZoomStats struct {
	Zoom                  uint8
	Count                 int64
	MinX, MaxX            uint32
	MinY, MaxY            uint32
	MinTileSize, MaxTileSize int64
	AvgTileSize           float64
}

// Stats is the full mbt_stats(full) result.
type Stats struct {
	FileSize     int64
	TotalTiles   int64
	DistinctZooms int
	PerZoom      []ZoomStats
}

// HumanFileSize renders FileSize the way a CLI summary would.
func (s Stats) HumanFileSize() string {
	return humanize.Bytes(uint64(s.FileSize))
}

// MbtStats computes filesize, total tile count, distinct zooms, and
// per-zoom statistics. When full is false, per-zoom min/max tile size and
// average are skipped (cheaper query, count/x/y bounds only).
func (s *Store) MbtStats(ctx context.Context, full bool) (Stats, error) {
	stats := Stats{}

	if path := s.adapter.Path(); path != "" && path != ":memory:" {
		if fi, err := os.Stat(path); err == nil {
			stats.FileSize = fi.Size()
		}
	}

	total, err := s.TilesCount(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats.TotalTiles = total

	err = s.adapter.Run(ctx, func(c *sql.Conn) error {
		query := `
			SELECT zoom_level, COUNT(*),
			       MIN(tile_column), MAX(tile_column),
			       MIN(tile_row), MAX(tile_row)`
		if full {
			query += `, MIN(LENGTH(tile_data)), MAX(LENGTH(tile_data)), AVG(LENGTH(tile_data))`
		}
		query += ` FROM tiles GROUP BY zoom_level ORDER BY zoom_level`

		rows, err := c.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var zs ZoomStats
			var z int
			dest := []any{&z, &zs.Count, &zs.MinX, &zs.MaxX, &zs.MinY, &zs.MaxY}
			if full {
				dest = append(dest, &zs.MinTileSize, &zs.MaxTileSize, &zs.AvgTileSize)
			}
			if err := rows.Scan(dest...); err != nil {
				return err
			}
			zs.Zoom = uint8(z)
			stats.PerZoom = append(stats.PerZoom, zs)
		}
		return rows.Err()
	})
	if err != nil {
		return Stats{}, err
	}
	stats.DistinctZooms = len(stats.PerZoom)
	return stats, nil
}
