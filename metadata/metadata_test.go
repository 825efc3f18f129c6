package metadata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mbtilekit/mbtiles"
)

func TestFromRowsPrefersObjectFormWhenUnique(t *testing.T) {
	j := FromRows([]mbtiles.MetadataRow{
		{Name: "name", Value: "test"},
		{Name: "minzoom", Value: "3"},
	})
	require.True(t, j.IsObject())
	v, ok := j.Get("minzoom")
	require.True(t, ok)
	require.EqualValues(t, 3, v)
}

func TestFromRowsFallsBackToArrayOnDuplicates(t *testing.T) {
	j := FromRows([]mbtiles.MetadataRow{
		{Name: "name", Value: "a"},
		{Name: "name", Value: "b"},
	})
	require.False(t, j.IsObject())
	require.Equal(t, []string{"name"}, j.Keys())
}

func TestDiffProducesForwardAndReverse(t *testing.T) {
	from := FromRows([]mbtiles.MetadataRow{{Name: "minzoom", Value: "0"}, {Name: "name", Value: "a"}})
	to := FromRows([]mbtiles.MetadataRow{{Name: "minzoom", Value: "5"}, {Name: "format", Value: "pbf"}})

	change := Diff(from, to, false)
	require.False(t, change.IsEmpty())

	byName := make(map[string]ChangeFromTo, len(change.Changes))
	for _, c := range change.Changes {
		byName[c.Name] = c
	}

	require.Equal(t, "0", *byName["minzoom"].From)
	require.Equal(t, "5", *byName["minzoom"].To)

	require.Nil(t, byName["format"].From)
	require.Equal(t, "pbf", *byName["format"].To)

	require.Equal(t, "a", *byName["name"].From)
	require.Nil(t, byName["name"].To)
}

func TestDiffMergeKeepsDroppedKeys(t *testing.T) {
	from := FromRows([]mbtiles.MetadataRow{{Name: "name", Value: "a"}})
	to := FromRows([]mbtiles.MetadataRow{{Name: "format", Value: "pbf"}})

	merged := Diff(from, to, true)
	_, hasName := merged.Data["name"]
	require.True(t, hasName)

	for _, c := range merged.Changes {
		require.NotEqual(t, "name", c.Name)
	}
}

func TestApplyThenReverseIsNoop(t *testing.T) {
	fromRows := []mbtiles.MetadataRow{{Name: "minzoom", Value: "0"}}
	toRows := []mbtiles.MetadataRow{{Name: "minzoom", Value: "5"}}
	change := Diff(FromRows(fromRows), FromRows(toRows), false)

	cs := NewDbChangeset(time.Unix(0, 0), change.Changes)
	store := newFakeStore()
	store.rows["minzoom"] = "0"

	ctx := context.Background()
	require.NoError(t, cs.Apply(ctx, store))
	require.Equal(t, "5", store.rows["minzoom"])

	require.NoError(t, cs.Reverse(ctx, store))
	require.Equal(t, "0", store.rows["minzoom"])
}

func TestSQLForwardReverseEscapesQuotes(t *testing.T) {
	from := FromRows(nil)
	to := FromRows([]mbtiles.MetadataRow{{Name: "attribution", Value: "O'Brien"}})
	change := Diff(from, to, false)
	cs := NewDbChangeset(time.Unix(0, 0), change.Changes)

	forward, reverse := cs.SQLForwardReverse()
	require.Contains(t, forward, "O''Brien")
	require.Contains(t, reverse, "DELETE FROM metadata")
}

type fakeStore struct{ rows map[string]string }

func newFakeStore() *fakeStore { return &fakeStore{rows: map[string]string{}} }

func (f *fakeStore) MetadataSet(_ context.Context, name, value string) error {
	f.rows[name] = value
	return nil
}

func (f *fakeStore) MetadataDelete(_ context.Context, name string) error {
	delete(f.rows, name)
	return nil
}
