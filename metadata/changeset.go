package metadata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mbtilekit/mbtiles"
)

// escapeSQLString doubles embedded single quotes, matching SQL's own
// escaping convention.
func escapeSQLString(v string) string {
	return strings.ReplaceAll(v, "'", "''")
}

// sqlForward returns the idempotent single-row SQL statement that applies
// this change, or "" for a no-op (from == to == nil never happens in
// practice since Diff never emits it).
func sqlForward(c mbtiles.MetadataChangeFromTo) string {
	switch {
	case c.From != nil && c.To != nil:
		return fmt.Sprintf("UPDATE metadata SET value = '%s' WHERE name = '%s' AND value = '%s'",
			escapeSQLString(*c.To), escapeSQLString(c.Name), escapeSQLString(*c.From))
	case c.From == nil && c.To != nil:
		return fmt.Sprintf("INSERT INTO metadata (name, value) VALUES ('%s', '%s')",
			escapeSQLString(c.Name), escapeSQLString(*c.To))
	case c.From != nil && c.To == nil:
		return fmt.Sprintf("DELETE FROM metadata WHERE name = '%s' AND value = '%s'",
			escapeSQLString(c.Name), escapeSQLString(*c.From))
	default:
		return ""
	}
}

// sqlReverse is sqlForward with from/to swapped.
func sqlReverse(c mbtiles.MetadataChangeFromTo) string {
	return sqlForward(mbtiles.MetadataChangeFromTo{Name: c.Name, From: c.To, To: c.From})
}

// PragmaChange is a forward/reverse SQL pair for a non-metadata change
// (e.g. a pragma toggle recorded alongside a copy run).
type PragmaChange struct {
	Pragma  string
	Forward string
	Reverse string
}

// DbChangeset is a timestamped ordered list of metadata and pragma
// changes, matching spec §3's DbChangeset.
type DbChangeset struct {
	Timestamp time.Time
	Metadata  []mbtiles.MetadataChangeFromTo
	Pragmas   []PragmaChange
}

// NewDbChangeset wraps metadata changes into a changeset stamped with the
// given time (callers pass time.Now() — this package never calls it
// itself, keeping Diff/changeset construction deterministic for tests).
func NewDbChangeset(at time.Time, changes []mbtiles.MetadataChangeFromTo) DbChangeset {
	return DbChangeset{Timestamp: at, Metadata: changes}
}

// IsEmpty reports whether the changeset has nothing to apply.
func (d DbChangeset) IsEmpty() bool {
	return len(d.Metadata) == 0 && len(d.Pragmas) == 0
}

// SQLForwardReverse concatenates every change's forward and reverse SQL,
// one statement per line, in changeset order.
func (d DbChangeset) SQLForwardReverse() (forward, reverse string) {
	var fwd, rev []string
	for _, p := range d.Pragmas {
		fwd = append(fwd, p.Forward)
		rev = append(rev, p.Reverse)
	}
	for _, c := range d.Metadata {
		if s := sqlForward(c); s != "" {
			fwd = append(fwd, s)
		}
		if s := sqlReverse(c); s != "" {
			rev = append(rev, s)
		}
	}
	return strings.Join(fwd, "\n"), strings.Join(rev, "\n")
}

// storeExecer is the slice of mbtiles.Store that changeset application
// needs; declared so tests can supply a fake without a live database.
type storeExecer interface {
	MetadataSet(ctx context.Context, name, value string) error
	MetadataDelete(ctx context.Context, name string) error
}

// Apply walks the changeset forward: metadata changes call MetadataSet or
// MetadataDelete as appropriate; pragma changes are left to the caller
// since they need a raw connection, not a Store method.
func (d DbChangeset) Apply(ctx context.Context, store storeExecer) error {
	for _, c := range d.Metadata {
		if err := applyOne(ctx, store, c.Name, c.To); err != nil {
			return err
		}
	}
	return nil
}

// Reverse walks the changeset backward, undoing each metadata change.
func (d DbChangeset) Reverse(ctx context.Context, store storeExecer) error {
	for i := len(d.Metadata) - 1; i >= 0; i-- {
		c := d.Metadata[i]
		if err := applyOne(ctx, store, c.Name, c.From); err != nil {
			return err
		}
	}
	return nil
}

func applyOne(ctx context.Context, store storeExecer, name string, value *string) error {
	if value == nil {
		return store.MetadataDelete(ctx, name)
	}
	return store.MetadataSet(ctx, name, *value)
}
