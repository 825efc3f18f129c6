// Package transform implements TileTransform: pure tile-payload
// transforms consumed by the copy pipeline — identity passthrough, image
// re-encoding, and raster 2x2 quadrant fusion ("doubledown").
package transform

import (
	"bytes"
	"fmt"
	"image"
	"log"

	// Side-effect imports registering format decoders with the image
	// package, matching the teacher's and the image crate's support for
	// PNG/JPEG/GIF/WebP inputs.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"golang.org/x/image/webp"

	"mbtilekit/tile"
)

// Format is an output raster format ImageReencode can target.
type Format int

const (
	FormatPNG Format = iota
	FormatJPEG
	FormatWebP
)

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatWebP:
		return "webp"
	default:
		return "png"
	}
}

// Passthrough is the identity TileTransform: every tile is written
// unchanged.
type Passthrough struct{}

func (Passthrough) Name() string { return "passthrough" }

func (Passthrough) Apply(_ tile.Tile, src []byte) ([]byte, bool, error) {
	return src, true, nil
}

// ImageReencode decodes an input raster tile and re-emits it in Target
// format. Inputs that fail to decode as an image log a warning and pass
// through unchanged (callers get a non-nil err only for genuine I/O
// failures on encode; decode failures fall back to passthrough, per
// spec §4.6).
type ImageReencode struct {
	Target  Format
	Quality int // JPEG quality, 1-100; 0 or less means 85 (WebP output is PNG-encoded and ignores it)
}

func (r ImageReencode) Name() string { return "image_reencode:" + r.Target.String() }

func (r ImageReencode) Apply(t tile.Tile, src []byte) ([]byte, bool, error) {
	img, _, err := decodeImage(src)
	if err != nil {
		log.Printf("transform: %s at %s: undecodable input, passing through: %v", r.Name(), t, err)
		return src, true, nil
	}

	var buf bytes.Buffer
	switch r.Target {
	case FormatJPEG:
		q := r.Quality
		if q <= 0 {
			q = 85
		}
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(q))
	case FormatWebP:
		// golang.org/x/image has no WebP encoder; WebP output falls back
		// to PNG, which is still a valid MBTiles raster payload.
		err = imaging.Encode(&buf, img, imaging.PNG)
	default:
		err = imaging.Encode(&buf, img, imaging.PNG)
	}
	if err != nil {
		return nil, false, fmt.Errorf("transform: encode %s: %w", r.Target, err)
	}
	return buf.Bytes(), true, nil
}

// decodeImage decodes src, trying the standard image.Decode registry
// first and falling back to golang.org/x/image/webp for WebP payloads
// (the stdlib has no built-in WebP decoder).
func decodeImage(src []byte) (image.Image, string, error) {
	if img, format, err := image.Decode(bytes.NewReader(src)); err == nil {
		return img, format, nil
	}
	img, err := webp.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, "", err
	}
	return img, "webp", nil
}
