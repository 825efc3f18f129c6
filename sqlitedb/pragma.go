package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
)

// JournalMode returns the database's current journal_mode.
func (a *Adapter) JournalMode(ctx context.Context) (string, error) {
	var mode string
	err := a.Run(ctx, func(c *sql.Conn) error {
		return c.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode)
	})
	return mode, err
}

// SetJournalMode sets journal_mode, returning whether it actually changed.
func (a *Adapter) SetJournalMode(ctx context.Context, mode string) (bool, error) {
	current, err := a.JournalMode(ctx)
	if err != nil {
		return false, err
	}
	if current == mode {
		return false, nil
	}
	err = a.Run(ctx, func(c *sql.Conn) error {
		_, err := c.ExecContext(ctx, fmt.Sprintf("PRAGMA journal_mode=%s", mode))
		return err
	})
	return err == nil, err
}

// PageCount returns PRAGMA page_count.
func (a *Adapter) PageCount(ctx context.Context) (int64, error) {
	var n int64
	err := a.Run(ctx, func(c *sql.Conn) error {
		return c.QueryRowContext(ctx, "PRAGMA page_count").Scan(&n)
	})
	return n, err
}

// FreelistCount returns PRAGMA freelist_count.
func (a *Adapter) FreelistCount(ctx context.Context) (int64, error) {
	var n int64
	err := a.Run(ctx, func(c *sql.Conn) error {
		return c.QueryRowContext(ctx, "PRAGMA freelist_count").Scan(&n)
	})
	return n, err
}

// PageSize returns PRAGMA page_size.
func (a *Adapter) PageSize(ctx context.Context) (int64, error) {
	var n int64
	err := a.Run(ctx, func(c *sql.Conn) error {
		return c.QueryRowContext(ctx, "PRAGMA page_size").Scan(&n)
	})
	return n, err
}

// SetPageSize sets PRAGMA page_size; the driver only applies it on the next
// VACUUM if the database already has pages, matching SQLite's own rule.
func (a *Adapter) SetPageSize(ctx context.Context, size int64) error {
	return a.Run(ctx, func(c *sql.Conn) error {
		_, err := c.ExecContext(ctx, fmt.Sprintf("PRAGMA page_size=%d", size))
		return err
	})
}

// Encoding returns PRAGMA encoding.
func (a *Adapter) Encoding(ctx context.Context) (string, error) {
	var enc string
	err := a.Run(ctx, func(c *sql.Conn) error {
		return c.QueryRowContext(ctx, "PRAGMA encoding").Scan(&enc)
	})
	return enc, err
}

// ApplicationID returns PRAGMA application_id.
func (a *Adapter) ApplicationID(ctx context.Context) (uint32, error) {
	var id int64
	err := a.Run(ctx, func(c *sql.Conn) error {
		return c.QueryRowContext(ctx, "PRAGMA application_id").Scan(&id)
	})
	return uint32(id), err
}

// SetApplicationID sets PRAGMA application_id, typically to
// MbtilesApplicationID when initializing a fresh store.
func (a *Adapter) SetApplicationID(ctx context.Context, id uint32) error {
	return a.Run(ctx, func(c *sql.Conn) error {
		_, err := c.ExecContext(ctx, fmt.Sprintf("PRAGMA application_id=%d", id))
		return err
	})
}

// TableListRow is one row of PRAGMA table_list.
type TableListRow struct {
	Schema string
	Name   string
	Type   string
	NCol   int64
	WR     bool
	Strict bool
}

// TableList runs PRAGMA table_list and returns typed rows.
func (a *Adapter) TableList(ctx context.Context) ([]TableListRow, error) {
	var rows []TableListRow
	err := a.Run(ctx, func(c *sql.Conn) error {
		r, err := c.QueryContext(ctx, "PRAGMA table_list")
		if err != nil {
			return err
		}
		defer r.Close()
		for r.Next() {
			var row TableListRow
			if err := r.Scan(&row.Schema, &row.Name, &row.Type, &row.NCol, &row.WR, &row.Strict); err != nil {
				return err
			}
			rows = append(rows, row)
		}
		return r.Err()
	})
	return rows, err
}

// TableInfoRow is one row of PRAGMA table_info(table).
type TableInfoRow struct {
	CID       int64
	Name      string
	Type      string
	NotNull   bool
	DfltValue sql.NullString
	PK        bool
}

// TableInfo runs PRAGMA table_info(table) and returns typed rows.
func (a *Adapter) TableInfo(ctx context.Context, table string) ([]TableInfoRow, error) {
	var rows []TableInfoRow
	err := a.Run(ctx, func(c *sql.Conn) error {
		r, err := c.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
		if err != nil {
			return err
		}
		defer r.Close()
		for r.Next() {
			var row TableInfoRow
			if err := r.Scan(&row.CID, &row.Name, &row.Type, &row.NotNull, &row.DfltValue, &row.PK); err != nil {
				return err
			}
			rows = append(rows, row)
		}
		return r.Err()
	})
	return rows, err
}

// IndexListRow is one row of PRAGMA index_list(table).
type IndexListRow struct {
	Seq     int64
	Name    string
	Unique  bool
	Origin  string
	Partial bool
}

// IndexList runs PRAGMA index_list(table) and returns typed rows.
func (a *Adapter) IndexList(ctx context.Context, table string) ([]IndexListRow, error) {
	var rows []IndexListRow
	err := a.Run(ctx, func(c *sql.Conn) error {
		r, err := c.QueryContext(ctx, fmt.Sprintf("PRAGMA index_list(%s)", quoteIdent(table)))
		if err != nil {
			return err
		}
		defer r.Close()
		for r.Next() {
			var row IndexListRow
			if err := r.Scan(&row.Seq, &row.Name, &row.Unique, &row.Origin, &row.Partial); err != nil {
				return err
			}
			rows = append(rows, row)
		}
		return r.Err()
	})
	return rows, err
}

// IndexInfoRow is one row of PRAGMA index_info(index).
type IndexInfoRow struct {
	SeqNo  int64
	CID    int64
	Name   sql.NullString
}

// IndexInfo runs PRAGMA index_info(index) and returns typed rows.
func (a *Adapter) IndexInfo(ctx context.Context, index string) ([]IndexInfoRow, error) {
	var rows []IndexInfoRow
	err := a.Run(ctx, func(c *sql.Conn) error {
		r, err := c.QueryContext(ctx, fmt.Sprintf("PRAGMA index_info(%s)", quoteIdent(index)))
		if err != nil {
			return err
		}
		defer r.Close()
		for r.Next() {
			var row IndexInfoRow
			if err := r.Scan(&row.SeqNo, &row.CID, &row.Name); err != nil {
				return err
			}
			rows = append(rows, row)
		}
		return r.Err()
	})
	return rows, err
}

// DatabaseListRow is one row of PRAGMA database_list.
type DatabaseListRow struct {
	Seq  int64
	Name string
	File string
}

// DatabaseList runs PRAGMA database_list and returns typed rows, one per
// database attached to the connection.
func (a *Adapter) DatabaseList(ctx context.Context) ([]DatabaseListRow, error) {
	var rows []DatabaseListRow
	err := a.Run(ctx, func(c *sql.Conn) error {
		r, err := c.QueryContext(ctx, "PRAGMA database_list")
		if err != nil {
			return err
		}
		defer r.Close()
		for r.Next() {
			var row DatabaseListRow
			if err := r.Scan(&row.Seq, &row.Name, &row.File); err != nil {
				return err
			}
			rows = append(rows, row)
		}
		return r.Err()
	})
	return rows, err
}

// quoteIdent wraps a SQL identifier in double quotes, doubling any
// embedded quote, so any table/index name can be spliced into a PRAGMA
// statement safely.
func quoteIdent(ident string) string {
	out := make([]byte, 0, len(ident)+2)
	out = append(out, '"')
	for i := 0; i < len(ident); i++ {
		if ident[i] == '"' {
			out = append(out, '"')
		}
		out = append(out, ident[i])
	}
	out = append(out, '"')
	return string(out)
}
