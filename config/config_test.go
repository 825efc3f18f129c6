package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenUnset(t *testing.T) {
	t.Setenv("MBTK_JOURNAL_MODE", "")
	t.Setenv("MBTK_HASH_ALGORITHM", "")
	t.Setenv("MBTK_COPY_CHANNEL_CAP", "")

	cfg := Load()
	require.Equal(t, "wal", cfg.Sqlite.JournalMode)
	require.Equal(t, "md5", cfg.Copy.HashAlgorithm)
	require.Equal(t, 100, cfg.Copy.ChannelCap)
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("MBTK_HASH_ALGORITHM", "sha1")
	t.Setenv("MBTK_COPY_CONCURRENCY", "8")

	cfg := Load()
	require.Equal(t, "sha1", cfg.Copy.HashAlgorithm)
	require.Equal(t, 8, cfg.Copy.Concurrency)
}

func TestLoadFallsBackOnInvalidInt(t *testing.T) {
	t.Setenv("MBTK_COPY_CHANNEL_CAP", "not-a-number")
	cfg := Load()
	require.Equal(t, 100, cfg.Copy.ChannelCap)
}
