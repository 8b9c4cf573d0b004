package models

import (
	"fmt"
)

// Volume represents a 3D scalar intensity volume decoded from a medical
// image series. For 2D images Depth is 1.
//
// Samples is stored as a flat 1D array in row-major order with depth as the
// slowest-varying index: index = z*Width*Height + y*Width + x.
//
// A Volume is constructed once by a loader and never mutated afterwards;
// rendering operations copy data out rather than writing into it, so a
// Volume may be shared freely across concurrent render calls.
type Volume struct {
	// Width is the width of the volume in voxels
	Width int

	// Height is the height of the volume in voxels
	Height int

	// Depth is the depth of the volume in voxels (1 for 2D images)
	Depth int

	// Spacing is the physical size of each voxel in mm along x, y, z.
	// Defaults to {1, 1, 1} when the source carries no spacing information.
	Spacing [3]float64

	// Samples is the flat intensity data in row-major order
	Samples []float64
}

// NewVolume constructs a Volume and validates that the sample buffer matches
// the declared dimensions. A mismatch is a fatal construction error: the
// caller must not attempt to render from a volume that failed validation.
func NewVolume(width, height, depth int, spacing [3]float64, samples []float64) (*Volume, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("volume dimensions must be positive, got %dx%dx%d", width, height, depth)
	}

	expected := width * height * depth
	if len(samples) != expected {
		return nil, fmt.Errorf("sample buffer length %d does not match dimensions %dx%dx%d (expected %d)",
			len(samples), width, height, depth, expected)
	}

	for i, s := range spacing {
		if s <= 0 {
			spacing[i] = 1.0
		}
	}

	return &Volume{
		Width:   width,
		Height:  height,
		Depth:   depth,
		Spacing: spacing,
		Samples: samples,
	}, nil
}

// NumVoxels returns the total number of voxels in the volume.
func (v *Volume) NumVoxels() int {
	return v.Width * v.Height * v.Depth
}

// At returns the intensity at voxel coordinates (x, y, z).
// Coordinates are assumed to be within bounds.
func (v *Volume) At(x, y, z int) float64 {
	return v.Samples[z*v.Width*v.Height+y*v.Width+x]
}

// RenderedFrame is a displayable 2D grayscale raster produced by the
// rendering pipeline. Pixels has length Width*Height with each value
// in [0, 255].
type RenderedFrame struct {
	// Width and Height are the frame dimensions in pixels
	Width  int
	Height int

	// Pixels is the 8-bit grayscale data in row-major order
	Pixels []uint8
}
