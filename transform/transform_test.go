package transform

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"mbtilekit/tile"
)

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPassthroughReturnsInputUnchanged(t *testing.T) {
	data := []byte{1, 2, 3}
	out, ok, err := Passthrough{}.Apply(tile.Tile{}, data)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, data, out)
}

func TestImageReencodeToJPEG(t *testing.T) {
	src := solidPNG(t, 4, 4, color.RGBA{R: 200, G: 10, B: 10, A: 255})
	out, ok, err := ImageReencode{Target: FormatJPEG}.Apply(tile.Tile{}, src)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, out)

	img, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 4, img.Bounds().Dx())
}

func TestImageReencodePassesThroughNonImageData(t *testing.T) {
	garbage := []byte("not an image")
	out, ok, err := ImageReencode{Target: FormatPNG}.Apply(tile.Tile{}, garbage)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, garbage, out)
}

func TestDoubledownFusesFourQuadrants(t *testing.T) {
	tl := solidPNG(t, 2, 2, color.RGBA{R: 255, A: 255})
	tr := solidPNG(t, 2, 2, color.RGBA{G: 255, A: 255})
	bl := solidPNG(t, 2, 2, color.RGBA{B: 255, A: 255})
	br := solidPNG(t, 2, 2, color.RGBA{R: 255, G: 255, A: 255})

	out, err := Doubledown{}.Fuse(Children{TL: tl, TR: tr, BL: bl, BR: br})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 4, img.Bounds().Dx())
	require.Equal(t, 4, img.Bounds().Dy())

	r, g, b, _ := img.At(0, 0).RGBA()
	require.Greater(t, r, uint32(0))
	require.Zero(t, g)
	require.Zero(t, b)
}

func TestDoubledownRejectsMismatchedDimensions(t *testing.T) {
	tl := solidPNG(t, 2, 2, color.RGBA{A: 255})
	tr := solidPNG(t, 4, 4, color.RGBA{A: 255})
	_, err := Doubledown{}.Fuse(Children{TL: tl, TR: tr})
	require.Error(t, err)
}

func TestDoubledownRequiresAtLeastOneQuadrant(t *testing.T) {
	_, err := Doubledown{}.Fuse(Children{})
	require.Error(t, err)
}

func TestDoubledownAllowsMissingQuadrants(t *testing.T) {
	tl := solidPNG(t, 2, 2, color.RGBA{R: 255, A: 255})
	out, err := Doubledown{}.Fuse(Children{TL: tl})
	require.NoError(t, err)
	require.NotEmpty(t, out)
}
