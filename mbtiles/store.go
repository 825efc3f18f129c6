// Package mbtiles implements MbtStore: schema recognition, metadata and
// tile CRUD, zoom statistics, and lint checks over an MBTiles-shaped
// SQLite database, built on the sqlitedb adapter.
package mbtiles

import (
	"context"
	"database/sql"
	"log"

	"mbtilekit/sqlitedb"
	"mbtilekit/tile"
)

// Store wraps a sqlitedb.Adapter with MBTiles schema semantics.
type Store struct {
	adapter *sqlitedb.Adapter
	typ     Type
}

// OpenExisting opens an existing MBTiles file for read-write access and
// recognizes its schema type.
func OpenExisting(ctx context.Context, path string, mode sqlitedb.Mode, poolSize int) (*Store, error) {
	a, err := sqlitedb.OpenExisting(path, mode, poolSize)
	if err != nil {
		return nil, err
	}
	return fromAdapter(ctx, a)
}

// OpenReadonly opens an existing MBTiles file strictly for reads.
func OpenReadonly(ctx context.Context, path string, poolSize int) (*Store, error) {
	a, err := sqlitedb.OpenReadonly(path, poolSize)
	if err != nil {
		return nil, err
	}
	return fromAdapter(ctx, a)
}

// OpenNew creates a brand new MBTiles file at path with the given schema
// type, failing if path already exists.
func OpenNew(ctx context.Context, path string, t Type) (*Store, error) {
	a, err := sqlitedb.OpenNew(path)
	if err != nil {
		return nil, err
	}
	s := &Store{adapter: a, typ: t}
	if err := s.initSchema(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.SetApplicationID(ctx, sqlitedb.MbtilesApplicationID); err != nil {
		a.Close()
		return nil, err
	}
	log.Printf("mbtiles: created new %s store at %s", t, path)
	return s, nil
}

func fromAdapter(ctx context.Context, a *sqlitedb.Adapter) (*Store, error) {
	s := &Store{adapter: a}
	t, err := s.queryMbtType(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	s.typ = t
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	return s.adapter.Run(ctx, func(c *sql.Conn) error {
		for _, stmt := range schemaStatements(s.typ) {
			if _, err := c.ExecContext(ctx, stmt); err != nil {
				return newErr(ErrUnknown, err, "init schema")
			}
		}
		return nil
	})
}

// Close closes the underlying adapter.
func (s *Store) Close() error { return s.adapter.Close() }

// Type returns the recognized schema type.
func (s *Store) Type() Type { return s.typ }

// Adapter exposes the underlying sqlitedb.Adapter for components (lint,
// copypipeline) that need lower-level pragma/header access.
func (s *Store) Adapter() *sqlitedb.Adapter { return s.adapter }

// queryMbtType inspects sqlite_master for tiles/tiles_with_hash/map/images
// and returns the matching schema type.
func (s *Store) queryMbtType(ctx context.Context) (Type, error) {
	names := make(map[string]string) // name -> type ("table" | "view")
	err := s.adapter.Run(ctx, func(c *sql.Conn) error {
		rows, err := c.QueryContext(ctx, `SELECT name, type FROM sqlite_master WHERE name IN ('tiles','tiles_with_hash','map','images')`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var name, typ string
			if err := rows.Scan(&name, &typ); err != nil {
				return err
			}
			names[name] = typ
		}
		return rows.Err()
	})
	if err != nil {
		return Unknown, newErr(ErrUnknown, err, "query_mbt_type")
	}

	switch {
	case names["tiles_with_hash"] == "table":
		return Hash, nil
	case names["map"] == "table" && names["images"] == "table":
		return Normalized, nil
	case names["tiles"] != "":
		return Flat, nil
	default:
		return Unknown, nil
	}
}

// IsMbtilesLike additionally requires a metadata table or view to exist.
func (s *Store) IsMbtilesLike(ctx context.Context) (bool, error) {
	if s.typ == Unknown {
		return false, nil
	}
	var exists bool
	err := s.adapter.Run(ctx, func(c *sql.Conn) error {
		var n int
		if err := c.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE name='metadata'`).Scan(&n); err != nil {
			return err
		}
		exists = n > 0
		return nil
	})
	return exists, err
}

// IsMbtiles additionally requires a unique index on (zoom_level,
// tile_column, tile_row) over the physical tiles table, per spec §3.
// An empty store (no rows anywhere yet, but schema present) is still
// considered valid — decided open question, see DESIGN.md.
func (s *Store) IsMbtiles(ctx context.Context) (bool, error) {
	like, err := s.IsMbtilesLike(ctx)
	if err != nil || !like {
		return false, err
	}
	return s.HasZoomRowColIndex(ctx)
}

// HasZoomRowColIndex reports whether the physical tile-storage table has a
// unique index over (zoom_level, tile_column, tile_row).
func (s *Store) HasZoomRowColIndex(ctx context.Context) (bool, error) {
	table := "tiles"
	switch s.typ {
	case Hash:
		table = "tiles_with_hash"
	case Normalized:
		table = "map"
	}
	rows, err := s.adapter.IndexList(ctx, table)
	if err != nil {
		return false, err
	}
	for _, r := range rows {
		if !r.Unique {
			continue
		}
		cols, err := s.adapter.IndexInfo(ctx, r.Name)
		if err != nil {
			return false, err
		}
		if len(cols) == 3 {
			return true, nil
		}
	}
	return false, nil
}

// QueryZXY returns the tile stored at XYZ coordinates, y-flipped to TMS
// for the lookup, or nil if absent.
func (s *Store) QueryZXY(ctx context.Context, z uint8, x, y uint32) ([]byte, error) {
	tmsY := tile.FlipY(y, z)
	var data []byte
	err := s.adapter.Run(ctx, func(c *sql.Conn) error {
		err := c.QueryRowContext(ctx,
			`SELECT tile_data FROM tiles WHERE zoom_level=? AND tile_column=? AND tile_row=?`,
			z, x, tmsY).Scan(&data)
		if err == sql.ErrNoRows {
			return nil
		}
		return err
	})
	return data, err
}

// HasZXY reports whether a tile exists at the given XYZ coordinates.
func (s *Store) HasZXY(ctx context.Context, z uint8, x, y uint32) (bool, error) {
	data, err := s.QueryZXY(ctx, z, x, y)
	return data != nil, err
}

// InsertTileFlat inserts one tile in Flat mode using INSERT OR IGNORE.
func (s *Store) InsertTileFlat(ctx context.Context, t tile.Tile, data []byte) error {
	tmsY := tile.FlipY(t.Y, t.Z)
	return s.adapter.Run(ctx, func(c *sql.Conn) error {
		_, err := c.ExecContext(ctx,
			`INSERT OR IGNORE INTO tiles (zoom_level, tile_column, tile_row, tile_data) VALUES (?, ?, ?, ?)`,
			t.Z, t.X, tmsY, data)
		return err
	})
}

// TileBatch is one (tile, payload) pair for InsertTilesFlat.
type TileBatch struct {
	Tile tile.Tile
	Data []byte
}

// InsertTilesFlat bulk-inserts tiles in Flat mode within one transaction.
func (s *Store) InsertTilesFlat(ctx context.Context, batch []TileBatch) error {
	return s.adapter.Run(ctx, func(c *sql.Conn) error {
		tx, err := c.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx,
			`INSERT OR IGNORE INTO tiles (zoom_level, tile_column, tile_row, tile_data) VALUES (?, ?, ?, ?)`)
		if err != nil {
			tx.Rollback()
			return err
		}
		defer stmt.Close()

		for _, b := range batch {
			tmsY := tile.FlipY(b.Tile.Y, b.Tile.Z)
			if _, err := stmt.ExecContext(ctx, b.Tile.Z, b.Tile.X, tmsY, b.Data); err != nil {
				tx.Rollback()
				return err
			}
		}
		return tx.Commit()
	})
}

// ZoomLevels returns the distinct zoom levels present in the tiles table.
func (s *Store) ZoomLevels(ctx context.Context) ([]uint8, error) {
	var zooms []uint8
	err := s.adapter.Run(ctx, func(c *sql.Conn) error {
		rows, err := c.QueryContext(ctx, `SELECT DISTINCT zoom_level FROM tiles ORDER BY zoom_level`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var z int
			if err := rows.Scan(&z); err != nil {
				return err
			}
			zooms = append(zooms, uint8(z))
		}
		return rows.Err()
	})
	return zooms, err
}

// TilesCount returns the total row count in tiles.
func (s *Store) TilesCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.adapter.Run(ctx, func(c *sql.Conn) error {
		return c.QueryRowContext(ctx, `SELECT COUNT(*) FROM tiles`).Scan(&n)
	})
	return n, err
}

// TilesCountAtZoom returns the row count in tiles at the given zoom.
func (s *Store) TilesCountAtZoom(ctx context.Context, z uint8) (int64, error) {
	var n int64
	err := s.adapter.Run(ctx, func(c *sql.Conn) error {
		return c.QueryRowContext(ctx, `SELECT COUNT(*) FROM tiles WHERE zoom_level=?`, z).Scan(&n)
	})
	return n, err
}

// TilesIsEmpty reports whether the tiles table has no rows.
func (s *Store) TilesIsEmpty(ctx context.Context) (bool, error) {
	n, err := s.TilesCount(ctx)
	return n == 0, err
}

// Attach attaches another MBTiles database file under alias, for
// cross-database copy operations.
func (s *Store) Attach(ctx context.Context, path, alias string) error {
	return s.adapter.Run(ctx, func(c *sql.Conn) error {
		_, err := c.ExecContext(ctx, `ATTACH DATABASE ? AS `+alias, path)
		return err
	})
}

// Detach detaches alias, regardless of whether a prior operation using it
// succeeded.
func (s *Store) Detach(ctx context.Context, alias string) error {
	return s.adapter.Run(ctx, func(c *sql.Conn) error {
		_, err := c.ExecContext(ctx, `DETACH DATABASE `+alias)
		return err
	})
}
