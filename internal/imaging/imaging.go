// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging produces the JPEG thumbnails shown in the dashboard
// asset pickers. It decodes JPEG, PNG, GIF and WebP sources.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ThumbWidth is the width of dashboard thumbnails.
const ThumbWidth = 400

// Thumbnail holds one encoded thumbnail ready for upload.
type Thumbnail struct {
	Width       int
	Height      int
	Data        []byte
	ContentType string // always "image/jpeg"
}

// Dimensions returns the pixel size of an encoded image without decoding
// the pixel data.
func Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("imaging: decode config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// GenerateThumbnail scales src to maxWidth, keeping the aspect ratio, and
// encodes it as JPEG. Images narrower than maxWidth are re-encoded at their
// own size rather than upscaled.
func GenerateThumbnail(src []byte, maxWidth int) (*Thumbnail, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("imaging: empty image")
	}
	if w > maxWidth {
		h = h * maxWidth / w
		w = maxWidth
		if h == 0 {
			h = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("imaging: encode: %w", err)
	}

	return &Thumbnail{Width: w, Height: h, Data: buf.Bytes(), ContentType: "image/jpeg"}, nil
}
