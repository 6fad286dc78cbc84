// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package features

import (
	"image"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/tomtom215/moodboard/internal/models"
)

const (
	// paletteSize is the number of colors kept when deriving a palette from pixels.
	paletteSize = 5

	// achromaticSaturation is the saturation below which a color has no usable hue.
	achromaticSaturation = 0.1

	// maxContrastRatio is the WCAG contrast ratio between black and white.
	maxContrastRatio = 21.0
)

// ExtractColor builds the palette for item. Declared colors take precedence;
// img is only consulted when the item has no parseable colors. The boolean
// result is false when neither source produced a palette and defaults were
// returned.
func ExtractColor(item *models.ContentItem, img image.Image) (ColorPalette, bool) {
	if p, ok := PaletteFromHex(item.Colors); ok {
		return p, true
	}
	if img != nil {
		if p, ok := PaletteFromImage(img); ok {
			return p, true
		}
	}
	return DefaultColorPalette(), false
}

// PaletteFromHex builds a palette from hex color strings. Invalid entries are
// skipped; ok is false when none are valid.
func PaletteFromHex(hexes []string) (ColorPalette, bool) {
	colors := make([]colorful.Color, 0, len(hexes))
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			continue
		}
		colors = append(colors, c.Clamped())
	}
	if len(colors) == 0 {
		return ColorPalette{}, false
	}
	weights := make([]float64, len(colors))
	for i := range weights {
		weights[i] = 1 / float64(len(colors))
	}
	return paletteOf(colors, weights), true
}

// PaletteFromImage quantizes img's pixels into 4-bit-per-channel buckets and
// keeps the most populated ones.
func PaletteFromImage(img image.Image) (ColorPalette, bool) {
	px := downscale(img)
	if px == nil {
		return ColorPalette{}, false
	}

	counts := make(map[uint16]int)
	w, h := px.Rect.Dx(), px.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := px.PixOffset(x, y)
			key := uint16(px.Pix[i]>>4)<<8 | uint16(px.Pix[i+1]>>4)<<4 | uint16(px.Pix[i+2]>>4)
			counts[key]++
		}
	}

	type bucket struct {
		key   uint16
		count int
	}
	buckets := make([]bucket, 0, len(counts))
	for k, c := range counts {
		buckets = append(buckets, bucket{k, c})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].count != buckets[j].count {
			return buckets[i].count > buckets[j].count
		}
		return buckets[i].key < buckets[j].key
	})
	if len(buckets) > paletteSize {
		buckets = buckets[:paletteSize]
	}

	var kept int
	for _, b := range buckets {
		kept += b.count
	}
	colors := make([]colorful.Color, len(buckets))
	weights := make([]float64, len(buckets))
	for i, b := range buckets {
		// bucket centers: level*16 + 8
		r := float64(b.key>>8&0xf)*16 + 8
		g := float64(b.key>>4&0xf)*16 + 8
		bl := float64(b.key&0xf)*16 + 8
		colors[i] = colorful.Color{R: r / 255, G: g / 255, B: bl / 255}
		weights[i] = float64(b.count) / float64(kept)
	}
	return paletteOf(colors, weights), true
}

func paletteOf(colors []colorful.Color, weights []float64) ColorPalette {
	hexes := make([]string, len(colors))
	var temp, vib float64
	hues := make([]float64, 0, len(colors))
	for i, c := range colors {
		hexes[i] = c.Hex()
		temp += weights[i] * temperatureOf(c)
		h, s, _ := c.Hsv()
		vib += weights[i] * s
		if s >= achromaticSaturation {
			hues = append(hues, h)
		}
	}

	return ColorPalette{
		Dominant:     hexes,
		Harmony:      harmonyFor(hueSpread(hues)),
		Temperature:  clamp01(temp),
		Vibrancy:     clamp01(vib),
		Distribution: weights,
		Contrast:     meanContrast(colors),
	}
}

// temperatureOf maps a color to [0,1] where red/yellow lean warm and blue
// leans cool.
func temperatureOf(c colorful.Color) float64 {
	t := 0.6*c.R + 0.4*c.G - c.B
	return clamp01((t + 1) / 2)
}

// hueSpread returns the smallest arc in degrees covering every hue.
func hueSpread(hues []float64) float64 {
	if len(hues) < 2 {
		return 0
	}
	sorted := append([]float64(nil), hues...)
	sort.Float64s(sorted)
	maxGap := 360 - sorted[len(sorted)-1] + sorted[0]
	for i := 1; i < len(sorted); i++ {
		if gap := sorted[i] - sorted[i-1]; gap > maxGap {
			maxGap = gap
		}
	}
	return 360 - maxGap
}

func harmonyFor(spread float64) string {
	switch {
	case spread < 30:
		return HarmonyMonochromatic
	case spread < 60:
		return HarmonyAnalogous
	case spread > 150:
		return HarmonyComplementary
	default:
		return HarmonyTriadic
	}
}

// meanContrast averages the WCAG contrast ratio over all color pairs and maps
// it from [1, 21] to [0, 1]. A single color has no contrast.
func meanContrast(colors []colorful.Color) float64 {
	if len(colors) < 2 {
		return 0
	}
	var sum float64
	var pairs int
	for i := 0; i < len(colors); i++ {
		for j := i + 1; j < len(colors); j++ {
			sum += contrastRatio(colors[i], colors[j])
			pairs++
		}
	}
	return clamp01((sum/float64(pairs) - 1) / (maxContrastRatio - 1))
}

func contrastRatio(a, b colorful.Color) float64 {
	la, lb := relativeLuminance(a), relativeLuminance(b)
	hi, lo := math.Max(la, lb), math.Min(la, lb)
	return (hi + 0.05) / (lo + 0.05)
}

func relativeLuminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
