// Package imaging holds the image transforms applied when serving photos:
// on-the-fly resizing and WebP thumbnail encoding.
package imaging

import (
	"bytes"
	"fmt"
	"image"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

const (
	jpegQuality = 85
	webpQuality = 80
)

// Resize scales JPEG bytes to the requested box. With both dimensions set it
// covers the box and center-crops the overflow. With a single dimension it
// scales proportionally. Zero for both dimensions returns the input as-is.
func Resize(data []byte, width, height int) ([]byte, error) {
	if width <= 0 && height <= 0 {
		return data, nil
	}

	img, err := decode(data)
	if err != nil {
		return nil, err
	}

	var out image.Image
	switch {
	case width > 0 && height > 0:
		out = imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)
	case width > 0:
		out = imaging.Resize(img, width, 0, imaging.Lanczos)
	default:
		out = imaging.Resize(img, 0, height, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}
	return buf.Bytes(), nil
}

// ToWebP re-encodes image bytes as a lossy WebP thumbnail.
func ToWebP(data []byte, width, height int) ([]byte, error) {
	img, err := decode(data)
	if err != nil {
		return nil, err
	}

	switch {
	case width > 0 && height > 0:
		img = imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)
	case width > 0:
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	case height > 0:
		img = imaging.Resize(img, 0, height, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

// decode reads image bytes and applies the EXIF orientation so crops land on
// the pixels the camera showed.
func decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
