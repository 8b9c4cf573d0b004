// Package volstats computes intensity statistics over volumes: summary
// moments, histograms, entropy, and percentile-based automatic window
// suggestions for sources that carry no display window of their own.
package volstats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"dicomvolview/internal/models"
	"dicomvolview/pkg/render"
)

// Summary holds basic intensity statistics for a volume.
type Summary struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	Voxels int
}

// Summarize computes the intensity summary for a volume.
func Summarize(vol *models.Volume) Summary {
	min, max := minMax(vol.Samples)

	return Summary{
		Min:    min,
		Max:    max,
		Mean:   stat.Mean(vol.Samples, nil),
		StdDev: stat.StdDev(vol.Samples, nil),
		Voxels: vol.NumVoxels(),
	}
}

// Histogram bins the volume intensities into the given number of equal-width
// bins across [min, max]. A flat volume puts all mass in bin 0.
func Histogram(vol *models.Volume, bins int) []int {
	if bins < 1 {
		bins = 1
	}

	hist := make([]int, bins)
	min, max := minMax(vol.Samples)
	if max <= min {
		hist[0] = len(vol.Samples)
		return hist
	}

	binWidth := (max - min) / float64(bins)
	for _, v := range vol.Samples {
		idx := int((v - min) / binWidth)
		if idx >= bins {
			idx = bins - 1
		} else if idx < 0 {
			idx = 0
		}
		hist[idx]++
	}

	return hist
}

// Entropy computes the Shannon entropy of the intensity distribution over a
// 256-bin histogram, in bits.
func Entropy(vol *models.Volume) float64 {
	hist := Histogram(vol, 256)
	n := float64(len(vol.Samples))

	entropy := 0.0
	for _, count := range hist {
		if count > 0 {
			p := float64(count) / n
			entropy -= p * math.Log2(p)
		}
	}

	return entropy
}

// AutoWindow suggests a window level and width from the intensity
// distribution: the window spans the loFrac and hiFrac quantiles, so a
// small tail of outliers does not wash out the display. loFrac=0, hiFrac=1
// gives the full-range window. A flat volume yields the minimum usable
// width so the result still renders without NaN.
func AutoWindow(vol *models.Volume, loFrac, hiFrac float64) (level, width float64) {
	if loFrac < 0 {
		loFrac = 0
	}
	if hiFrac > 1 {
		hiFrac = 1
	}
	if hiFrac < loFrac {
		loFrac, hiFrac = hiFrac, loFrac
	}

	sorted := make([]float64, len(vol.Samples))
	copy(sorted, vol.Samples)
	sort.Float64s(sorted)

	lo := stat.Quantile(loFrac, stat.Empirical, sorted, nil)
	hi := stat.Quantile(hiFrac, stat.Empirical, sorted, nil)

	width = hi - lo
	if width < render.MinWindowWidth {
		width = render.MinWindowWidth
	}
	level = (hi + lo) / 2

	return level, width
}

// SliceInfo describes the slices of a volume: how many there are, which one
// to show first, and which contain any signal at all.
type SliceInfo struct {
	// TotalSlices is the depth of the volume.
	TotalSlices int

	// RecommendedSlice is the middle slice, the conventional first view.
	RecommendedSlice int

	// NonEmptySlices lists indices of slices with at least one non-zero
	// voxel.
	NonEmptySlices []int
}

// DescribeSlices scans the volume and reports slice information.
func DescribeSlices(vol *models.Volume) SliceInfo {
	info := SliceInfo{
		TotalSlices:      vol.Depth,
		RecommendedSlice: vol.Depth / 2,
	}

	planeSize := vol.Width * vol.Height
	for z := 0; z < vol.Depth; z++ {
		offset := z * planeSize
		for i := 0; i < planeSize; i++ {
			if vol.Samples[offset+i] != 0 {
				info.NonEmptySlices = append(info.NonEmptySlices, z)
				break
			}
		}
	}

	return info
}

// minMax returns the smallest and largest values in data.
func minMax(data []float64) (min, max float64) {
	if len(data) == 0 {
		return 0, 0
	}

	min, max = data[0], data[0]
	for _, v := range data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	return min, max
}
