// Package render implements the windowing and projection pipeline that turns
// a scalar intensity volume into a displayable 8-bit grayscale frame.
//
// The pipeline is a pure function of (volume, view state): extract a plane
// (single slice or maximum intensity projection), apply the radiological
// window/level contrast transform, and quantize to 8-bit. It performs no
// I/O, holds no state, and completes synchronously in time proportional to
// the volume size, so the host is free to call it on every parameter change.
package render

import (
	"fmt"
	"math"

	"dicomvolview/internal/models"
)

// ProjectionMode selects how the volume is reduced to a 2D plane.
type ProjectionMode int

const (
	// SingleSlice extracts one XY plane at the view's slice index.
	SingleSlice ProjectionMode = iota

	// MaxIntensity projects the brightest voxel along z for each (x, y).
	MaxIntensity
)

// String returns a human-readable name for the projection mode.
func (m ProjectionMode) String() string {
	switch m {
	case SingleSlice:
		return "slice"
	case MaxIntensity:
		return "mip"
	default:
		return fmt.Sprintf("ProjectionMode(%d)", int(m))
	}
}

// MinWindowWidth is the smallest usable window width. Widths at or below
// zero are clamped up to this value instead of failing, because a zero
// width is a normal transient state while the user drags a width slider.
const MinWindowWidth = 1e-6

// ViewState is a snapshot of the user-controlled view parameters. The host
// mutates it between calls; Render only ever reads it.
type ViewState struct {
	// SliceIndex is the z position for SingleSlice mode. Out-of-range
	// values are clamped, never rejected.
	SliceIndex int

	// WindowLevel is the center intensity of the display window.
	WindowLevel float64

	// WindowWidth is the intensity span mapped onto the full display
	// range. Values <= MinWindowWidth are clamped up before use.
	WindowWidth float64

	// Projection selects single-slice or maximum intensity projection.
	Projection ProjectionMode
}

// ExtractSlice returns a copy of the XY plane at the given z index.
// The index is clamped to [0, Depth-1], so a slider overshooting the
// volume bounds still yields a valid plane. For a 2D volume (depth 1)
// this is the whole sample buffer.
func ExtractSlice(vol *models.Volume, sliceIndex int) []float64 {
	idx := clampInt(sliceIndex, 0, vol.Depth-1)

	planeSize := vol.Width * vol.Height
	plane := make([]float64, planeSize)
	copy(plane, vol.Samples[idx*planeSize:(idx+1)*planeSize])

	return plane
}

// ComputeMIP computes the maximum intensity projection along z: for each
// (x, y) the output holds the brightest voxel across all slices. For a
// depth-1 volume this degenerates to a copy of the single slice.
func ComputeMIP(vol *models.Volume) []float64 {
	planeSize := vol.Width * vol.Height
	plane := make([]float64, planeSize)
	copy(plane, vol.Samples[:planeSize])

	for z := 1; z < vol.Depth; z++ {
		offset := z * planeSize
		for i := 0; i < planeSize; i++ {
			if v := vol.Samples[offset+i]; v > plane[i] {
				plane[i] = v
			}
		}
	}

	return plane
}

// ApplyWindowLevel maps raw intensities into [0, 1] using the standard
// radiological window/level transform: values at or below level-width/2
// map to 0, values at or above level+width/2 map to 1, and values between
// follow a linear ramp.
//
// A width at or below MinWindowWidth is clamped to MinWindowWidth rather
// than rejected, so the transform never divides by zero. NaN inputs
// propagate as NaN; the final quantization step clamps them.
func ApplyWindowLevel(plane []float64, level, width float64) []float64 {
	if width < MinWindowWidth {
		width = MinWindowWidth
	}

	minVal := level - width/2
	maxVal := level + width/2
	scale := 1.0 / (maxVal - minVal)

	out := make([]float64, len(plane))
	for i, v := range plane {
		switch {
		case v <= minVal:
			out[i] = 0
		case v >= maxVal:
			out[i] = 1
		default:
			out[i] = (v - minVal) * scale
		}
	}

	return out
}

// ToFrame quantizes a normalized plane into an 8-bit grayscale frame.
// Each value is rounded to round(n*255) and clamped to [0, 255]; NaN
// clamps to 0 so the output buffer is always well-formed. A plane whose
// length does not match width*height is a fatal input error.
func ToFrame(plane []float64, width, height int) (*models.RenderedFrame, error) {
	if len(plane) != width*height {
		return nil, fmt.Errorf("plane length %d does not match frame dimensions %dx%d", len(plane), width, height)
	}

	pixels := make([]uint8, len(plane))
	for i, n := range plane {
		v := math.Round(n * 255)
		switch {
		case v > 255:
			pixels[i] = 255
		case v >= 0:
			pixels[i] = uint8(v)
		default:
			// Negative values and NaN both land here.
			pixels[i] = 0
		}
	}

	return &models.RenderedFrame{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}, nil
}

// Render produces a displayable frame from a volume and a view state
// snapshot. Identical inputs always yield byte-identical pixel buffers.
func Render(vol *models.Volume, view ViewState) (*models.RenderedFrame, error) {
	var plane []float64
	switch view.Projection {
	case MaxIntensity:
		plane = ComputeMIP(vol)
	default:
		plane = ExtractSlice(vol, view.SliceIndex)
	}

	normalized := ApplyWindowLevel(plane, view.WindowLevel, view.WindowWidth)

	return ToFrame(normalized, vol.Width, vol.Height)
}

// clampInt clamps v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
