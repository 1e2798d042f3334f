/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	// Background images ship as JPEG or PNG.
	_ "image/jpeg"

	xdraw "golang.org/x/image/draw"

	"gopatchplayer/internal/geom"
)

// backgroundNames are probed in order inside a scene bundle directory.
var backgroundNames = []string{"image.jpg", "image.png"}

// BackgroundImagePath returns the background image inside a scene bundle
// directory, if one exists.
func BackgroundImagePath(dir string) (string, bool) {
	for _, name := range backgroundNames {
		p := filepath.Join(dir, name)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, true
		}
	}
	return "", false
}

// ImageSize probes the natural pixel size of an image file without decoding
// its pixels.
func ImageSize(path string) (geom.Size, error) {
	f, err := os.Open(path)
	if err != nil {
		return geom.Size{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return geom.Size{}, fmt.Errorf("decode image %s: %w", path, err)
	}
	return geom.Size{W: float32(cfg.Width), H: float32(cfg.Height)}, nil
}

// Thumbnail decodes the image at path and scales it down so the longer side
// is at most maxDim pixels, returning the result PNG-encoded. Images already
// small enough are re-encoded unscaled.
func Thumbnail(path string, maxDim int) ([]byte, error) {
	if maxDim <= 0 {
		return nil, fmt.Errorf("thumbnail size must be positive, got %d", maxDim)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > maxDim || h > maxDim {
		if w >= h {
			h = h * maxDim / w
			w = maxDim
		} else {
			w = w * maxDim / h
			h = maxDim
		}
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// RotatedImage decodes the image at path and turns it by deg quarter-turn
// degrees for the orientation display. Off-grid angles flatten to 0 and
// return the image unrotated.
func RotatedImage(path string, deg int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	deg = geom.NormalizeQuarter(deg)
	if deg == 0 {
		return src, nil
	}

	b := src.Bounds()
	size := geom.Size{W: float32(b.Dx()), H: float32(b.Dy())}
	fp := geom.RotatedSize(deg, size)
	m := geom.RotationFor(deg, size)
	dst := image.NewRGBA(image.Rect(0, 0, int(fp.W), int(fp.H)))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			// Map the pixel cell; its min corner lands on the target cell.
			cell := m.ApplyRect(geom.R(float32(x), float32(y), 1, 1))
			dst.Set(int(cell.X+0.5), int(cell.Y+0.5), src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst, nil
}
