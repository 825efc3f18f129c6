package strfmt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mbtilekit/tile"
)

func mustTile(t *testing.T, x, y uint32, z uint8) tile.Tile {
	t.Helper()
	tt, err := tile.New(x, y, z)
	require.NoError(t, err)
	return tt
}

func TestFormatZxyFslash(t *testing.T) {
	f := New("{z}/{x}/{y}")
	require.Equal(t, 1, countTokens(f))
	require.Equal(t, "3/1/2", f.Format(mustTile(t, 1, 2, 3)))
}

func TestFormatZxyShorthand(t *testing.T) {
	f := New("{zxy}")
	require.Equal(t, "3/1/2", f.Format(mustTile(t, 1, 2, 3)))
}

func TestFormatQuadkey(t *testing.T) {
	f := New("{quadkey}")
	require.Equal(t, "021", f.Format(mustTile(t, 1, 2, 3)))
}

func TestFormatJSONArr(t *testing.T) {
	f := New("{json_arr}")
	require.Equal(t, "[1, 2, 3]", f.Format(mustTile(t, 1, 2, 3)))
}

func TestFormatJSONObj(t *testing.T) {
	f := New("{json_obj}")
	require.Equal(t, `{"x":1, "y":2, "z":3}`, f.Format(mustTile(t, 1, 2, 3)))
}

func TestFormatCombinedLiteralAndToken(t *testing.T) {
	f := New("tiles/{z}/{x}/{y}.png")
	require.Equal(t, "tiles/3/1/2.png", f.Format(mustTile(t, 1, 2, 3)))
}

func TestFormatUnknownTokenKeptAsLiteral(t *testing.T) {
	f := New("{not_a_real_token}")
	require.Equal(t, "{not_a_real_token}", f.Format(mustTile(t, 1, 2, 3)))
}

func TestHasTokenFalseForPureLiteral(t *testing.T) {
	f := New("static/path")
	require.False(t, f.HasToken())
}

func TestCompileCachesByPattern(t *testing.T) {
	a := Compile("{z}/{x}/{y}")
	b := Compile("{z}/{x}/{y}")
	require.Same(t, a, b)
}

func TestDefaultFormatterIsJSONArr(t *testing.T) {
	require.Equal(t, "[1, 2, 3]", Default().Format(mustTile(t, 1, 2, 3)))
}

func countTokens(f *Formatter) int { return f.nTokens }
