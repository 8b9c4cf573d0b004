package render

import (
	"testing"
)

// TestExtractAxisSliceZ verifies that the z axis path agrees exactly with
// ExtractSlice.
func TestExtractAxisSliceZ(t *testing.T) {
	vol := rampVolume(t, 4, 3, 5)

	for z := 0; z < vol.Depth; z++ {
		axisPlane, err := ExtractAxisSlice(vol, "z", z)
		if err != nil {
			t.Fatalf("Failed to extract z slice %d: %v", z, err)
		}

		direct := ExtractSlice(vol, z)
		for i := range direct {
			if axisPlane[i] != direct[i] {
				t.Errorf("z-axis slice %d mismatch at %d: %f vs %f", z, i, axisPlane[i], direct[i])
			}
		}
	}
}

// TestExtractAxisSliceXY verifies plane contents and dimensions for x and y
// axis extraction.
func TestExtractAxisSliceXY(t *testing.T) {
	width, height, depth := 4, 3, 5
	vol := rampVolume(t, width, height, depth)

	xPlane, err := ExtractAxisSlice(vol, "x", 2)
	if err != nil {
		t.Fatalf("Failed to extract x slice: %v", err)
	}
	if len(xPlane) != depth*height {
		t.Fatalf("Expected x plane length %d, got %d", depth*height, len(xPlane))
	}
	for y := 0; y < height; y++ {
		for z := 0; z < depth; z++ {
			expected := vol.At(2, y, z)
			if got := xPlane[y*depth+z]; got != expected {
				t.Errorf("x plane mismatch at (z=%d,y=%d): expected %f, got %f", z, y, expected, got)
			}
		}
	}

	yPlane, err := ExtractAxisSlice(vol, "y", 1)
	if err != nil {
		t.Fatalf("Failed to extract y slice: %v", err)
	}
	if len(yPlane) != width*depth {
		t.Fatalf("Expected y plane length %d, got %d", width*depth, len(yPlane))
	}
	for z := 0; z < depth; z++ {
		for x := 0; x < width; x++ {
			expected := vol.At(x, 1, z)
			if got := yPlane[z*width+x]; got != expected {
				t.Errorf("y plane mismatch at (x=%d,z=%d): expected %f, got %f", x, z, expected, got)
			}
		}
	}

	if _, err := ExtractAxisSlice(vol, "invalid", 0); err == nil {
		t.Error("Expected error for invalid axis, got nil")
	}
}

// TestAxisPlaneDims verifies the reported plane dimensions per axis.
func TestAxisPlaneDims(t *testing.T) {
	vol := rampVolume(t, 4, 3, 5)

	cases := []struct {
		axis string
		w, h int
	}{
		{"x", 5, 3},
		{"y", 4, 5},
		{"z", 4, 3},
	}

	for _, tc := range cases {
		w, h, err := AxisPlaneDims(vol, tc.axis)
		if err != nil {
			t.Fatalf("AxisPlaneDims(%s) failed: %v", tc.axis, err)
		}
		if w != tc.w || h != tc.h {
			t.Errorf("Expected %s plane dims %dx%d, got %dx%d", tc.axis, tc.w, tc.h, w, h)
		}
	}

	if _, _, err := AxisPlaneDims(vol, "q"); err == nil {
		t.Error("Expected error for invalid axis, got nil")
	}
}

// TestRenderAxis verifies that the axis render path produces a frame with
// the axis plane dimensions.
func TestRenderAxis(t *testing.T) {
	vol := rampVolume(t, 4, 3, 5)
	view := ViewState{WindowLevel: 30, WindowWidth: 60}

	frame, err := RenderAxis(vol, view, "x", 1)
	if err != nil {
		t.Fatalf("RenderAxis failed: %v", err)
	}

	if frame.Width != 5 || frame.Height != 3 {
		t.Errorf("Expected 5x3 frame, got %dx%d", frame.Width, frame.Height)
	}
}

// TestFrameImage verifies the grayscale image bridge preserves pixel values.
func TestFrameImage(t *testing.T) {
	vol := rampVolume(t, 4, 4, 1)

	frame, err := Render(vol, ViewState{WindowLevel: 8, WindowWidth: 16})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	img := FrameImage(frame)
	bounds := img.Bounds()
	if bounds.Dx() != 4 || bounds.Dy() != 4 {
		t.Fatalf("Expected 4x4 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := img.GrayAt(x, y).Y; got != frame.Pixels[y*4+x] {
				t.Errorf("Image pixel mismatch at (%d,%d): expected %d, got %d",
					x, y, frame.Pixels[y*4+x], got)
			}
		}
	}
}

// TestPresetByName verifies preset lookup and the unknown-name error.
func TestPresetByName(t *testing.T) {
	preset, err := PresetByName("Lung")
	if err != nil {
		t.Fatalf("Failed to look up lung preset: %v", err)
	}
	if preset.Level != -600 || preset.Width != 1500 {
		t.Errorf("Expected lung preset -600/1500, got %f/%f", preset.Level, preset.Width)
	}

	view := preset.View(3, MaxIntensity)
	if view.SliceIndex != 3 || view.Projection != MaxIntensity {
		t.Errorf("Preset view not populated correctly: %+v", view)
	}

	if _, err := PresetByName("nonexistent"); err == nil {
		t.Error("Expected error for unknown preset, got nil")
	}
}
