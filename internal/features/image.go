// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package features

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"math"
	"net/http"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/tomtom215/moodboard/internal/models"
)

// Analysis constants.
const (
	// analysisSize is the longest side images are scaled to before analysis.
	analysisSize = 64

	// edgeThreshold is the gradient magnitude counted as an edge.
	edgeThreshold = 0.1

	// textureEpsilon is the luminance step a neighbor must exceed to set an LBP bit.
	textureEpsilon = 1.0 / 255

	// maxLuminanceStdDev is the largest possible std deviation of values in [0,1].
	maxLuminanceStdDev = 0.5

	// maxQuadrantVariance is the variance when all weight sits in one quadrant.
	maxQuadrantVariance = 0.1875

	defaultMaxImageBytes = 20 << 20
)

// ErrEmptyImageURL is returned when an item has no image to analyze.
var ErrEmptyImageURL = errors.New("empty image url")

// DecodeError reports that an item's image could not be fetched or decoded.
type DecodeError struct {
	ItemID string
	URL    string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode image for item %s (%s): %v", e.ItemID, e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Fetcher loads and decodes an image.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// HTTPFetcher fetches images over HTTP and decodes JPEG, PNG, GIF and WebP.
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPFetcher creates a fetcher with the given per-request timeout and
// response size limit. A non-positive maxBytes selects 20 MiB.
func NewHTTPFetcher(timeout time.Duration, maxBytes int64) *HTTPFetcher {
	if maxBytes <= 0 {
		maxBytes = defaultMaxImageBytes
	}
	return &HTTPFetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

// Fetch downloads url and decodes the body as an image.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// ExtractImage fetches the item's image and analyzes it. The decoded image is
// returned alongside the features so other dimensions can reuse the pixels.
func ExtractImage(ctx context.Context, fetcher Fetcher, item *models.ContentItem) (ImageFeatures, image.Image, error) {
	if item.ImageURL == "" {
		return DefaultImageFeatures(), nil, &DecodeError{ItemID: item.ID, Err: ErrEmptyImageURL}
	}
	img, err := fetcher.Fetch(ctx, item.ImageURL)
	if err != nil {
		return DefaultImageFeatures(), nil, &DecodeError{ItemID: item.ID, URL: item.ImageURL, Err: err}
	}
	return AnalyzeImage(img), img, nil
}

// downscale draws img into an RGBA buffer no larger than analysisSize on
// either side. It returns nil for empty images.
func downscale(img image.Image) *image.RGBA {
	b := img.Bounds()
	if b.Empty() {
		return nil
	}
	w, h := min(b.Dx(), analysisSize), min(b.Dy(), analysisSize)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// AnalyzeImage computes pixel statistics for img.
func AnalyzeImage(img image.Image) ImageFeatures {
	px := downscale(img)
	if px == nil {
		return DefaultImageFeatures()
	}
	w, h := px.Rect.Dx(), px.Rect.Dy()
	n := float64(w * h)

	lum := make([]float64, w*h)
	var sumL, sumS float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := px.PixOffset(x, y)
			r := float64(px.Pix[i]) / 255
			g := float64(px.Pix[i+1]) / 255
			b := float64(px.Pix[i+2]) / 255

			l := (r + g + b) / 3
			lum[y*w+x] = l
			sumL += l

			if mx := max(r, g, b); mx > 0 {
				sumS += (mx - min(r, g, b)) / mx
			}
		}
	}

	brightness := sumL / n
	var variance float64
	for _, l := range lum {
		d := l - brightness
		variance += d * d
	}
	edges := edgeDensity(lum, w, h)
	centerWeight, balance := spatialDistribution(lum, w, h)

	return ImageFeatures{
		Brightness:        clamp01(brightness),
		Contrast:          clamp01(math.Sqrt(variance/n) / maxLuminanceStdDev),
		Saturation:        clamp01(sumS / n),
		EdgeDensity:       edges,
		TextureComplexity: textureComplexity(lum, w, h),
		Composition:       compositionFor(centerWeight),
		DominantShapes:    shapesFor(edges),
		SpatialBalance:    balance,
	}
}

// edgeDensity is the fraction of pixels whose forward-difference gradient
// magnitude exceeds edgeThreshold.
func edgeDensity(lum []float64, w, h int) float64 {
	if w < 2 || h < 2 {
		return 0
	}
	var edges int
	for y := 0; y < h-1; y++ {
		for x := 0; x < w-1; x++ {
			c := lum[y*w+x]
			gx := lum[y*w+x+1] - c
			gy := lum[(y+1)*w+x] - c
			if math.Abs(gx)+math.Abs(gy) > edgeThreshold {
				edges++
			}
		}
	}
	return clamp01(float64(edges) / float64((w-1)*(h-1)))
}

var lbpNeighbors = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0},
}

// textureComplexity is the mean number of bit transitions in each interior
// pixel's local binary pattern, divided by 8.
func textureComplexity(lum []float64, w, h int) float64 {
	if w < 3 || h < 3 {
		return 0
	}
	var transitions, samples int
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			c := lum[y*w+x]
			var bits [8]bool
			for k, off := range lbpNeighbors {
				bits[k] = lum[(y+off[1])*w+x+off[0]] > c+textureEpsilon
			}
			for k := 0; k < 8; k++ {
				if bits[k] != bits[(k+1)%8] {
					transitions++
				}
			}
			samples++
		}
	}
	return clamp01(float64(transitions) / float64(samples*8))
}

// spatialDistribution weighs each pixel by its luminance and returns the
// share of light in the center third (averaged over both axes) and a quadrant
// balance score where 1 means evenly spread. An all-black frame has no weight
// and reports an even spread.
func spatialDistribution(lum []float64, w, h int) (centerWeight, balance float64) {
	var total, midCols, midRows float64
	var quad [4]float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			wt := lum[y*w+x]
			total += wt
			if 3*x >= w && 3*x < 2*w {
				midCols += wt
			}
			if 3*y >= h && 3*y < 2*h {
				midRows += wt
			}
			q := 0
			if 2*x >= w {
				q++
			}
			if 2*y >= h {
				q += 2
			}
			quad[q] += wt
		}
	}
	if total == 0 {
		return 0.5, 1
	}

	centerWeight = (midCols/total + midRows/total) / 2

	var v float64
	for _, q := range quad {
		d := q/total - 0.25
		v += d * d
	}
	balance = clamp01(1 - (v/4)/maxQuadrantVariance)
	return centerWeight, balance
}

func compositionFor(centerWeight float64) string {
	switch {
	case centerWeight > 0.6:
		return models.CompositionCentered
	case centerWeight < 0.4:
		return models.CompositionRuleOfThirds
	default:
		return models.CompositionBalanced
	}
}

func shapesFor(edgeDensity float64) []string {
	switch {
	case edgeDensity > 0.3:
		return []string{"geometric", "complex"}
	case edgeDensity > 0.15:
		return []string{"geometric"}
	case edgeDensity > 0.05:
		return []string{"organic"}
	default:
		return []string{"minimal"}
	}
}
