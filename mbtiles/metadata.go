package mbtiles

import (
	"context"
	"database/sql"
	"log"
	"strconv"
)

// MetadataRow is one row of the metadata table: MbtMetadataRow in spec §3.
type MetadataRow struct {
	Name  string
	Value string
}

// MetadataChangeFromTo describes one observed metadata change, used both
// as the return value of MetadataUpdate/UpdateMinzoomMaxzoom and as the
// atomic unit the metadata package's changesets apply.
type MetadataChangeFromTo struct {
	Name string
	From *string
	To   *string
}

// MetadataRows returns all metadata rows, in no guaranteed order.
func (s *Store) MetadataRows(ctx context.Context) ([]MetadataRow, error) {
	var rows []MetadataRow
	err := s.adapter.Run(ctx, func(c *sql.Conn) error {
		r, err := c.QueryContext(ctx, `SELECT name, value FROM metadata`)
		if err != nil {
			return err
		}
		defer r.Close()
		for r.Next() {
			var row MetadataRow
			if err := r.Scan(&row.Name, &row.Value); err != nil {
				return err
			}
			rows = append(rows, row)
		}
		return r.Err()
	})
	return rows, err
}

// MetadataRow returns the first row matching name. Duplicate rows in a
// malformed store are logged and the first one wins.
func (s *Store) MetadataRow(ctx context.Context, name string) (*MetadataRow, error) {
	var matches []MetadataRow
	err := s.adapter.Run(ctx, func(c *sql.Conn) error {
		r, err := c.QueryContext(ctx, `SELECT name, value FROM metadata WHERE name=?`, name)
		if err != nil {
			return err
		}
		defer r.Close()
		for r.Next() {
			var row MetadataRow
			if err := r.Scan(&row.Name, &row.Value); err != nil {
				return err
			}
			matches = append(matches, row)
		}
		return r.Err()
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	if len(matches) > 1 {
		log.Printf("mbtiles: metadata has %d rows for name %q, using first", len(matches), name)
	}
	return &matches[0], nil
}

// MetadataSet upserts (name, value) into metadata.
func (s *Store) MetadataSet(ctx context.Context, name, value string) error {
	return s.adapter.Run(ctx, func(c *sql.Conn) error {
		_, err := c.ExecContext(ctx, `INSERT INTO metadata(name, value) VALUES (?, ?)
			ON CONFLICT(name) DO UPDATE SET value=excluded.value`, name, value)
		return err
	})
}

// MetadataDelete removes all rows matching name.
func (s *Store) MetadataDelete(ctx context.Context, name string) error {
	return s.adapter.Run(ctx, func(c *sql.Conn) error {
		_, err := c.ExecContext(ctx, `DELETE FROM metadata WHERE name=?`, name)
		return err
	})
}

// MetadataUpdate sets name to value and reports the observed change, or
// nil if value was already current.
func (s *Store) MetadataUpdate(ctx context.Context, name, value string) (*MetadataChangeFromTo, error) {
	existing, err := s.MetadataRow(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Value == value {
		return nil, nil
	}
	if err := s.MetadataSet(ctx, name, value); err != nil {
		return nil, err
	}
	var from *string
	if existing != nil {
		v := existing.Value
		from = &v
	}
	to := value
	return &MetadataChangeFromTo{Name: name, From: from, To: &to}, nil
}

// UpdateMinzoomMaxzoom recomputes min(zoom_level)/max(zoom_level) from
// tiles and writes them to metadata, returning the changes that actually
// occurred (0, 1 or 2 entries).
func (s *Store) UpdateMinzoomMaxzoom(ctx context.Context) ([]MetadataChangeFromTo, error) {
	var minZ, maxZ sql.NullInt64
	err := s.adapter.Run(ctx, func(c *sql.Conn) error {
		return c.QueryRowContext(ctx, `SELECT MIN(zoom_level), MAX(zoom_level) FROM tiles`).Scan(&minZ, &maxZ)
	})
	if err != nil {
		return nil, err
	}
	if !minZ.Valid || !maxZ.Valid {
		return nil, nil
	}

	var changes []MetadataChangeFromTo
	minChange, err := s.MetadataUpdate(ctx, "minzoom", strconv.FormatInt(minZ.Int64, 10))
	if err != nil {
		return nil, err
	}
	if minChange != nil {
		changes = append(changes, *minChange)
	}
	maxChange, err := s.MetadataUpdate(ctx, "maxzoom", strconv.FormatInt(maxZ.Int64, 10))
	if err != nil {
		return nil, err
	}
	if maxChange != nil {
		changes = append(changes, *maxChange)
	}
	return changes, nil
}

// MetadataDuplicateKeyValues returns names that appear more than once in
// metadata, for the linter's DuplicateMetadataKey rule.
func (s *Store) MetadataDuplicateKeyValues(ctx context.Context) ([]string, error) {
	var names []string
	err := s.adapter.Run(ctx, func(c *sql.Conn) error {
		r, err := c.QueryContext(ctx, `SELECT name FROM metadata GROUP BY name HAVING COUNT(*) > 1`)
		if err != nil {
			return err
		}
		defer r.Close()
		for r.Next() {
			var n string
			if err := r.Scan(&n); err != nil {
				return err
			}
			names = append(names, n)
		}
		return r.Err()
	})
	return names, err
}

// MetadataTableNameIsPrimaryKey reports whether metadata.name is declared
// as a PRIMARY KEY column (one of the two acceptable ways of guaranteeing
// uniqueness per spec §4.3's lint rule).
func (s *Store) MetadataTableNameIsPrimaryKey(ctx context.Context) (bool, error) {
	info, err := s.adapter.TableInfo(ctx, "metadata")
	if err != nil {
		return false, err
	}
	for _, c := range info {
		if c.Name == "name" && c.PK {
			return true, nil
		}
	}
	return false, nil
}

// HasUniqueIndexOnMetadata reports whether a unique index exists over
// metadata.name, independent of a PRIMARY KEY declaration.
func (s *Store) HasUniqueIndexOnMetadata(ctx context.Context) (bool, error) {
	if pk, err := s.MetadataTableNameIsPrimaryKey(ctx); err != nil || pk {
		return pk, err
	}
	rows, err := s.adapter.IndexList(ctx, "metadata")
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
		if len(cols) == 1 && cols[0].Name.Valid && cols[0].Name.String == "name" {
			return true, nil
		}
	}
	return false, nil
}
