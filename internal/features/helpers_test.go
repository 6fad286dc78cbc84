// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package features

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"sync"
	"sync/atomic"
)

const testSize = 64

func solidImage(c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, testSize, testSize))
	for y := 0; y < testSize; y++ {
		for x := 0; x < testSize; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// squareImage draws a white square [lo,hi) x [lo,hi) on black.
func squareImage(lo, hi int) *image.RGBA {
	img := solidImage(color.Black)
	for y := lo; y < hi; y++ {
		for x := lo; x < hi; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

// darkCenterImage draws a black side x side square in the middle of a white
// size x size frame.
func darkCenterImage(size, side int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	lo := (size - side) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := color.White
			if x >= lo && x < lo+side && y >= lo && y < lo+side {
				c = color.Black
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func checkerboard() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, testSize, testSize))
	for y := 0; y < testSize; y++ {
		for x := 0; x < testSize; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

// fakeFetcher serves images from a map and counts calls.
type fakeFetcher struct {
	mu     sync.Mutex
	images map[string]image.Image
	calls  atomic.Int64
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{images: make(map[string]image.Image)}
}

func (f *fakeFetcher) set(url string, img image.Image) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.images[url] = img
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	f.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	img, ok := f.images[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return img, nil
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
