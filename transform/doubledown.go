package transform

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// Quadrant keys a child tile's position within its parent, matching the
// doubledown SQL cursor's quadkey-corner convention.
type Quadrant int

const (
	TopLeft Quadrant = iota
	TopRight
	BottomLeft
	BottomRight
)

// Doubledown fuses up to four same-zoom sibling tiles into one (2w, 2h)
// image for their shared parent tile, per spec §4.6's Raster 2x2 Fuse.
type Doubledown struct {
	// OutputFormat selects the encoding of the fused image; PNG by
	// default since it round-trips transparency losslessly. FormatJPEG
	// encodes JPEG; FormatWebP encodes PNG.
	OutputFormat Format
}

// Children holds up to four encoded sibling payloads, nil where the
// quadrant's tile is absent from the source store.
type Children struct {
	TL, TR, BL, BR []byte
}

// Fuse joins the present quadrants into a single (2w, 2h) image. At least
// one quadrant must be present; all present quadrants must share
// dimensions. The result is RGBA if any present quadrant has
// transparency, else RGB (opaque alpha channel dropped on encode).
func (d Doubledown) Fuse(c Children) ([]byte, error) {
	imgs := map[Quadrant]image.Image{}
	for q, data := range map[Quadrant][]byte{TopLeft: c.TL, TopRight: c.TR, BottomLeft: c.BL, BottomRight: c.BR} {
		if data == nil {
			continue
		}
		img, _, err := decodeImage(data)
		if err != nil {
			return nil, fmt.Errorf("transform: doubledown decode %v: %w", q, err)
		}
		imgs[q] = img
	}
	if len(imgs) == 0 {
		return nil, fmt.Errorf("transform: doubledown: no quadrants present")
	}

	var w, h int
	for _, img := range imgs {
		b := img.Bounds()
		if w == 0 {
			w, h = b.Dx(), b.Dy()
			continue
		}
		if b.Dx() != w || b.Dy() != h {
			return nil, fmt.Errorf("transform: doubledown: quadrant dimensions differ")
		}
	}

	transparent := false
	for _, img := range imgs {
		if hasTransparency(img) {
			transparent = true
			break
		}
	}

	canvas := image.NewRGBA(image.Rect(0, 0, 2*w, 2*h))
	if !transparent {
		draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	}

	place := func(q Quadrant, ox, oy int) {
		img, ok := imgs[q]
		if !ok {
			return
		}
		dstRect := image.Rect(ox, oy, ox+w, oy+h)
		draw.Draw(canvas, dstRect, img, img.Bounds().Min, draw.Src)
	}
	place(TopLeft, 0, 0)
	place(TopRight, w, 0)
	place(BottomLeft, 0, h)
	place(BottomRight, w, h)

	format := imaging.PNG
	if d.OutputFormat == FormatJPEG {
		format = imaging.JPEG
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, format); err != nil {
		return nil, fmt.Errorf("transform: doubledown encode: %w", err)
	}
	return buf.Bytes(), nil
}

// hasTransparency reports whether img has any pixel with alpha < 255.
func hasTransparency(img image.Image) bool {
	switch m := img.(type) {
	case *image.RGBA:
		for i := 3; i < len(m.Pix); i += 4 {
			if m.Pix[i] < 255 {
				return true
			}
		}
		return false
	case *image.NRGBA:
		for i := 3; i < len(m.Pix); i += 4 {
			if m.Pix[i] < 255 {
				return true
			}
		}
		return false
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a < 0xffff {
				return true
			}
		}
	}
	return false
}
