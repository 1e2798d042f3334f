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
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) string {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImageSize(t *testing.T) {
	path := writePNG(t, filepath.Join(t.TempDir(), "img.png"), 640, 320)
	sz, err := ImageSize(path)
	if err != nil {
		t.Fatalf("ImageSize error: %v", err)
	}
	if sz.W != 640 || sz.H != 320 {
		t.Fatalf("size = %+v", sz)
	}
}

func TestImageSizeMissingFile(t *testing.T) {
	if _, err := ImageSize(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestThumbnailDownscales(t *testing.T) {
	path := writePNG(t, filepath.Join(t.TempDir(), "img.png"), 640, 320)
	blob, err := Thumbnail(path, 96)
	if err != nil {
		t.Fatalf("Thumbnail error: %v", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(blob))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if cfg.Width != 96 || cfg.Height != 48 {
		t.Fatalf("thumbnail size = %dx%d, want 96x48", cfg.Width, cfg.Height)
	}
}

func TestThumbnailKeepsSmallImages(t *testing.T) {
	path := writePNG(t, filepath.Join(t.TempDir(), "img.png"), 32, 20)
	blob, err := Thumbnail(path, 96)
	if err != nil {
		t.Fatalf("Thumbnail error: %v", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(blob))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if cfg.Width != 32 || cfg.Height != 20 {
		t.Fatalf("small image rescaled to %dx%d", cfg.Width, cfg.Height)
	}
}

func TestThumbnailRejectsBadSize(t *testing.T) {
	path := writePNG(t, filepath.Join(t.TempDir(), "img.png"), 8, 8)
	if _, err := Thumbnail(path, 0); err == nil {
		t.Fatalf("expected error for non-positive size")
	}
}

func TestBackgroundImagePath(t *testing.T) {
	dir := t.TempDir()
	if _, ok := BackgroundImagePath(dir); ok {
		t.Fatalf("empty dir reported a background")
	}
	want := writePNG(t, filepath.Join(dir, "image.png"), 8, 8)
	got, ok := BackgroundImagePath(dir)
	if !ok || got != want {
		t.Fatalf("BackgroundImagePath = %q, %v; want %q", got, ok, want)
	}
	// image.jpg wins over image.png when both exist.
	jpg := filepath.Join(dir, "image.jpg")
	if err := os.WriteFile(jpg, []byte("not checked here"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, ok = BackgroundImagePath(dir)
	if !ok || got != jpg {
		t.Fatalf("BackgroundImagePath = %q, %v; want %q", got, ok, jpg)
	}
}

func TestRotatedImageQuarterTurn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	src.Set(0, 0, red)
	src.Set(1, 0, blue)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := RotatedImage(path, 90)
	if err != nil {
		t.Fatalf("RotatedImage error: %v", err)
	}
	b := got.Bounds()
	if b.Dx() != 1 || b.Dy() != 2 {
		t.Fatalf("rotated bounds = %v, want 1x2", b)
	}
	if c := color.RGBAModel.Convert(got.At(0, 0)); c != red {
		t.Fatalf("pixel (0,0) = %v, want red", c)
	}
	if c := color.RGBAModel.Convert(got.At(0, 1)); c != blue {
		t.Fatalf("pixel (0,1) = %v, want blue", c)
	}
}

func TestRotatedImageZeroDegrees(t *testing.T) {
	path := writePNG(t, filepath.Join(t.TempDir(), "img.png"), 5, 3)
	got, err := RotatedImage(path, 0)
	if err != nil {
		t.Fatalf("RotatedImage error: %v", err)
	}
	b := got.Bounds()
	if b.Dx() != 5 || b.Dy() != 3 {
		t.Fatalf("unrotated bounds changed: %v", b)
	}
}
