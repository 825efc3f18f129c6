// Package sqlitedb wraps database/sql over the modernc.org/sqlite pure-Go
// driver with the connection lifecycle, pragma access, header parsing and
// scalar-function registration MbtStore needs. It never speaks MBTiles
// schema itself — that's the mbtiles package, one layer up.
package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"

	_ "modernc.org/sqlite"
)

// Mode distinguishes a single-writer Client connection from a multi-reader
// Pool, mirroring spec §4.2's two execution modes.
type Mode int

const (
	Client Mode = iota
	Pool
)

// Adapter owns a *sql.DB configured for one of the two execution modes and
// exposes Run as the way callers touch a connection (DB also hands out the
// raw *sql.DB).
type Adapter struct {
	db   *sql.DB
	mode Mode
	path string
}

// OpenExisting opens path, which must already exist, for read-write access.
func OpenExisting(path string, mode Mode, poolSize int) (*Adapter, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, newErr(ErrPathMissing, err, "open_existing %s", path)
	}
	return open(path, "rwc", mode, poolSize)
}

// OpenReadonly opens path strictly for reads; the file must already exist.
func OpenReadonly(path string, poolSize int) (*Adapter, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, newErr(ErrPathMissing, err, "open_readonly %s", path)
	}
	return open(path, "ro", Pool, poolSize)
}

// OpenNew creates a brand new database file at path; it fails if path
// already exists, per spec §3's open_new contract.
func OpenNew(path string) (*Adapter, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, newErr(ErrPathExists, nil, "open_new: %s already exists", path)
	}
	return open(path, "rwc", Client, 1)
}

func open(path, vfsMode string, mode Mode, poolSize int) (*Adapter, error) {
	if err := RegisterHashFunctions(); err != nil {
		return nil, newErr(ErrDriver, err, "register hash functions")
	}
	dsn := fmt.Sprintf("file:%s?%s", path, url.Values{
		"mode":  {vfsMode},
		"cache": {"shared"},
		"_pragma": {
			"busy_timeout(5000)",
		},
	}.Encode())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, newErr(ErrDriver, err, "open %s", path)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, newErr(ErrDriver, err, "ping %s", path)
	}

	switch mode {
	case Client:
		db.SetMaxOpenConns(1)
	case Pool:
		n := poolSize
		if n <= 0 {
			n = 4
		}
		db.SetMaxOpenConns(n)
	}

	return &Adapter{db: db, mode: mode, path: path}, nil
}

// Close closes the underlying connection pool.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// Path returns the filesystem path the adapter was opened against.
func (a *Adapter) Path() string { return a.path }

// Mode returns the adapter's execution mode.
func (a *Adapter) Mode() Mode { return a.mode }

// Run executes fn against a single connection drawn from the pool,
// returning a uniform *Error on driver failure. This is the adapter's
// single capability: "run this closure against a connection."
func (a *Adapter) Run(ctx context.Context, fn func(*sql.Conn) error) error {
	conn, err := a.db.Conn(ctx)
	if err != nil {
		return newErr(ErrDriver, err, "acquire connection")
	}
	defer conn.Close()

	if err := fn(conn); err != nil {
		var se *Error
		if errors.As(err, &se) {
			return err
		}
		return newErr(ErrDriver, err, "run")
	}
	return nil
}

// DB exposes the underlying *sql.DB for transaction or direct-exec access
// beyond a single-connection closure; no package in this module calls it.
func (a *Adapter) DB() *sql.DB { return a.db }
