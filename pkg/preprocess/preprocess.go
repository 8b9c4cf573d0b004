// Package preprocess provides optional plane filters applied between slice
// extraction and windowing: normalization, contrast adjustment, histogram
// equalization, gaussian smoothing, and median filtering. All filters are
// pure: they return a new plane and leave the input untouched.
package preprocess

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Options selects which filters Apply runs and with what parameters. The
// zero value disables everything.
type Options struct {
	// Normalize rescales the plane to [0, 1] by its min/max.
	Normalize bool `yaml:"normalize"`

	// EqualizeHistogram applies CDF histogram equalization.
	EqualizeHistogram bool `yaml:"equalizeHistogram"`

	// ContrastFactor scales intensities about the plane mean when not 0
	// or 1. Values above 1 increase contrast.
	ContrastFactor float64 `yaml:"contrastFactor"`

	// SmoothSigma applies gaussian smoothing with this sigma when > 0.
	SmoothSigma float64 `yaml:"smoothSigma"`

	// MedianFilter applies a 3x3 median pass, useful for salt-and-pepper
	// noise from lossy sources.
	MedianFilter bool `yaml:"medianFilter"`
}

// Enabled reports whether any filter is active.
func (o Options) Enabled() bool {
	return o.Normalize || o.EqualizeHistogram || o.MedianFilter ||
		o.SmoothSigma > 0 ||
		(o.ContrastFactor != 0 && o.ContrastFactor != 1)
}

// Apply runs the enabled filters in a fixed order: normalize, equalize,
// contrast, smooth, median. The plane is w*h in row-major order.
func Apply(plane []float64, w, h int, opts Options) []float64 {
	out := make([]float64, len(plane))
	copy(out, plane)

	if opts.Normalize {
		out = Normalize(out)
	}
	if opts.EqualizeHistogram {
		out = EqualizeHistogram(out, 256)
	}
	if opts.ContrastFactor != 0 && opts.ContrastFactor != 1 {
		out = AdjustContrast(out, opts.ContrastFactor)
	}
	if opts.SmoothSigma > 0 {
		out = SmoothGaussian(out, w, h, opts.SmoothSigma)
	}
	if opts.MedianFilter {
		out = MedianFilter3x3(out, w, h)
	}

	return out
}

// Normalize rescales a plane to [0, 1] by its min and max. A flat plane
// maps to all zeros.
func Normalize(plane []float64) []float64 {
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range plane {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	out := make([]float64, len(plane))
	if max <= min {
		return out
	}

	scale := 1.0 / (max - min)
	for i, v := range plane {
		out[i] = (v - min) * scale
	}

	return out
}

// AdjustContrast scales intensities about the plane mean: out = mean +
// factor*(v - mean). Factor 1 is the identity.
func AdjustContrast(plane []float64, factor float64) []float64 {
	mean := stat.Mean(plane, nil)

	out := make([]float64, len(plane))
	for i, v := range plane {
		out[i] = mean + factor*(v-mean)
	}

	return out
}

// EqualizeHistogram applies histogram equalization: intensities are remapped
// through the cumulative distribution so the output occupies [0, 1] more
// uniformly. A flat plane maps to zeros.
func EqualizeHistogram(plane []float64, bins int) []float64 {
	if bins < 2 {
		bins = 2
	}

	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range plane {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	out := make([]float64, len(plane))
	if max <= min || len(plane) == 0 {
		return out
	}

	binWidth := (max - min) / float64(bins)
	binOf := func(v float64) int {
		idx := int((v - min) / binWidth)
		if idx >= bins {
			idx = bins - 1
		} else if idx < 0 {
			idx = 0
		}
		return idx
	}

	hist := make([]float64, bins)
	for _, v := range plane {
		hist[binOf(v)]++
	}

	// Cumulative distribution, rescaled so the lowest occupied bin maps
	// to 0 and the highest to 1.
	cdf := make([]float64, bins)
	running := 0.0
	for i, count := range hist {
		running += count
		cdf[i] = running
	}

	cdfMin := 0.0
	for _, c := range cdf {
		if c > 0 {
			cdfMin = c
			break
		}
	}

	total := cdf[bins-1]
	denom := total - cdfMin
	for i, v := range plane {
		if denom > 0 {
			out[i] = (cdf[binOf(v)] - cdfMin) / denom
		}
	}

	return out
}

// SmoothGaussian applies separable gaussian smoothing with the given sigma.
// Sigma <= 0 returns an unmodified copy. Borders are handled by clamping
// sample coordinates to the plane.
func SmoothGaussian(plane []float64, w, h int, sigma float64) []float64 {
	out := make([]float64, len(plane))
	copy(out, plane)
	if sigma <= 0 {
		return out
	}

	kernel := gaussianKernel(sigma)
	radius := len(kernel) / 2

	// Horizontal pass.
	tmp := make([]float64, len(plane))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0.0
			for k := -radius; k <= radius; k++ {
				sx := clamp(x+k, 0, w-1)
				sum += kernel[k+radius] * out[y*w+sx]
			}
			tmp[y*w+x] = sum
		}
	}

	// Vertical pass.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0.0
			for k := -radius; k <= radius; k++ {
				sy := clamp(y+k, 0, h-1)
				sum += kernel[k+radius] * tmp[sy*w+x]
			}
			out[y*w+x] = sum
		}
	}

	return out
}

// gaussianKernel builds a normalized 1D kernel with radius 3*sigma.
func gaussianKernel(sigma float64) []float64 {
	radius := int(math.Ceil(3 * sigma))
	if radius < 1 {
		radius = 1
	}

	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	return kernel
}

// MedianFilter3x3 replaces each interior pixel with the median of its 3x3
// neighborhood. Border pixels are copied unchanged.
func MedianFilter3x3(plane []float64, w, h int) []float64 {
	out := make([]float64, len(plane))
	copy(out, plane)

	if w < 3 || h < 3 {
		return out
	}

	window := make([]float64, 0, 9)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			window = window[:0]
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					window = append(window, plane[(y+dy)*w+(x+dx)])
				}
			}
			out[y*w+x] = median(window)
		}
	}

	return out
}

// median computes the median of values, modifying the slice order.
func median(values []float64) float64 {
	sort.Float64s(values)

	n := len(values)
	if n == 0 {
		return 0
	}
	if n%2 == 0 {
		return (values[n/2-1] + values[n/2]) / 2
	}
	return values[n/2]
}

// clamp clamps v to [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
