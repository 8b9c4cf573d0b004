package render

import (
	"fmt"
	"image"

	"dicomvolview/internal/models"
)

// ExtractAxisSlice extracts a 2D plane from the volume along the specified
// axis. For "z" this is the usual XY slice and agrees exactly with
// ExtractSlice; "x" produces a ZY plane (depth across, height down) and "y"
// an XZ plane (width across, depth down). The position is clamped to the
// valid range for the axis.
func ExtractAxisSlice(vol *models.Volume, axis string, position int) ([]float64, error) {
	switch axis {
	case "x", "X":
		pos := clampInt(position, 0, vol.Width-1)

		plane := make([]float64, vol.Depth*vol.Height)
		for y := 0; y < vol.Height; y++ {
			for z := 0; z < vol.Depth; z++ {
				plane[y*vol.Depth+z] = vol.At(pos, y, z)
			}
		}
		return plane, nil

	case "y", "Y":
		pos := clampInt(position, 0, vol.Height-1)

		plane := make([]float64, vol.Width*vol.Depth)
		for z := 0; z < vol.Depth; z++ {
			for x := 0; x < vol.Width; x++ {
				plane[z*vol.Width+x] = vol.At(x, pos, z)
			}
		}
		return plane, nil

	case "z", "Z":
		return ExtractSlice(vol, position), nil

	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}
}

// AxisPlaneDims returns the (width, height) of a plane extracted along the
// given axis.
func AxisPlaneDims(vol *models.Volume, axis string) (int, int, error) {
	switch axis {
	case "x", "X":
		return vol.Depth, vol.Height, nil
	case "y", "Y":
		return vol.Width, vol.Depth, nil
	case "z", "Z":
		return vol.Width, vol.Height, nil
	default:
		return 0, 0, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}
}

// AxisExtent returns the number of slice positions along the given axis.
func AxisExtent(vol *models.Volume, axis string) (int, error) {
	switch axis {
	case "x", "X":
		return vol.Width, nil
	case "y", "Y":
		return vol.Height, nil
	case "z", "Z":
		return vol.Depth, nil
	default:
		return 0, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}
}

// RenderAxis windows and quantizes the plane at the given position along an
// axis. For axis "z" this is equivalent to Render in SingleSlice mode.
func RenderAxis(vol *models.Volume, view ViewState, axis string, position int) (*models.RenderedFrame, error) {
	plane, err := ExtractAxisSlice(vol, axis, position)
	if err != nil {
		return nil, err
	}

	w, h, err := AxisPlaneDims(vol, axis)
	if err != nil {
		return nil, err
	}

	normalized := ApplyWindowLevel(plane, view.WindowLevel, view.WindowWidth)

	return ToFrame(normalized, w, h)
}

// FrameImage wraps a rendered frame as an image.Gray for drawing or
// encoding. The pixel buffer is copied so the frame stays untouched by
// later image mutations.
func FrameImage(frame *models.RenderedFrame) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, frame.Width, frame.Height))

	for y := 0; y < frame.Height; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+frame.Width], frame.Pixels[y*frame.Width:(y+1)*frame.Width])
	}

	return img
}
