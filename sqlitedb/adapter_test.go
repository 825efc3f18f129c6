package sqlitedb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenNewRejectsExistingPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.mbtiles")

	a, err := OpenNew(path)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	_, err = OpenNew(path)
	require.Error(t, err)

	var sqliteErr *Error
	require.ErrorAs(t, err, &sqliteErr)
	require.Equal(t, ErrPathExists, sqliteErr.Kind)
}

func TestOpenExistingRequiresPath(t *testing.T) {
	dir := t.TempDir()
	_, err := OpenExisting(filepath.Join(dir, "missing.mbtiles"), Client, 1)
	require.Error(t, err)

	var sqliteErr *Error
	require.ErrorAs(t, err, &sqliteErr)
	require.Equal(t, ErrPathMissing, sqliteErr.Kind)
}

func TestApplicationIDRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.mbtiles")

	a, err := OpenNew(path)
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	require.NoError(t, a.SetApplicationID(ctx, MbtilesApplicationID))

	got, err := a.ApplicationID(ctx)
	require.NoError(t, err)
	require.Equal(t, MbtilesApplicationID, got)
}

func TestJournalModeSetIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.mbtiles")

	a, err := OpenNew(path)
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	changed, err := a.SetJournalMode(ctx, "wal")
	require.NoError(t, err)
	require.True(t, changed)

	changed, err = a.SetJournalMode(ctx, "wal")
	require.NoError(t, err)
	require.False(t, changed)
}
