package volstats

import (
	"math"
	"testing"

	"dicomvolview/internal/models"
	"dicomvolview/pkg/render"
)

func mustVolume(t *testing.T, width, height, depth int, samples []float64) *models.Volume {
	t.Helper()

	vol, err := models.NewVolume(width, height, depth, [3]float64{1, 1, 1}, samples)
	if err != nil {
		t.Fatalf("Failed to construct volume: %v", err)
	}
	return vol
}

// TestSummarize verifies min/max/mean on a small known volume.
func TestSummarize(t *testing.T) {
	vol := mustVolume(t, 2, 2, 1, []float64{1, 2, 3, 4})

	s := Summarize(vol)
	if s.Min != 1 || s.Max != 4 {
		t.Errorf("Expected min/max 1/4, got %f/%f", s.Min, s.Max)
	}
	if math.Abs(s.Mean-2.5) > 1e-12 {
		t.Errorf("Expected mean 2.5, got %f", s.Mean)
	}
	if s.Voxels != 4 {
		t.Errorf("Expected 4 voxels, got %d", s.Voxels)
	}
}

// TestHistogram verifies bin counts and the flat-volume degenerate case.
func TestHistogram(t *testing.T) {
	vol := mustVolume(t, 4, 1, 1, []float64{0, 1, 2, 3})

	hist := Histogram(vol, 4)
	for i, count := range hist {
		if count != 1 {
			t.Errorf("Expected 1 sample in bin %d, got %d", i, count)
		}
	}

	flat := mustVolume(t, 2, 2, 1, []float64{5, 5, 5, 5})
	flatHist := Histogram(flat, 4)
	if flatHist[0] != 4 {
		t.Errorf("Expected all mass in bin 0 for flat volume, got %v", flatHist)
	}
}

// TestEntropy verifies that a flat volume has zero entropy and a uniform
// two-value volume has one bit.
func TestEntropy(t *testing.T) {
	flat := mustVolume(t, 2, 2, 1, []float64{7, 7, 7, 7})
	if e := Entropy(flat); e != 0 {
		t.Errorf("Expected zero entropy for flat volume, got %f", e)
	}

	twoValue := mustVolume(t, 2, 2, 1, []float64{0, 0, 100, 100})
	if e := Entropy(twoValue); math.Abs(e-1.0) > 1e-9 {
		t.Errorf("Expected 1 bit of entropy, got %f", e)
	}
}

// TestAutoWindowFullRange verifies the full-range window on a known ramp.
func TestAutoWindowFullRange(t *testing.T) {
	samples := []float64{0, 25, 50, 75, 100, 10, 90, 60}
	vol := mustVolume(t, 2, 2, 2, samples)

	level, width := AutoWindow(vol, 0, 1)
	if math.Abs(level-50) > 1e-9 {
		t.Errorf("Expected level 50, got %f", level)
	}
	if math.Abs(width-100) > 1e-9 {
		t.Errorf("Expected width 100, got %f", width)
	}
}

// TestAutoWindowFlatVolume verifies that a flat volume still yields a
// usable window.
func TestAutoWindowFlatVolume(t *testing.T) {
	vol := mustVolume(t, 2, 2, 1, []float64{3, 3, 3, 3})

	level, width := AutoWindow(vol, 0, 1)
	if width < render.MinWindowWidth {
		t.Errorf("Expected width >= %g, got %g", render.MinWindowWidth, width)
	}
	if level != 3 {
		t.Errorf("Expected level 3, got %f", level)
	}

	// The suggested window must render finite pixels.
	frame, err := render.Render(vol, render.ViewState{WindowLevel: level, WindowWidth: width})
	if err != nil {
		t.Fatalf("Render with auto window failed: %v", err)
	}
	if len(frame.Pixels) != 4 {
		t.Fatalf("Expected 4 pixels, got %d", len(frame.Pixels))
	}
}

// TestDescribeSlices verifies slice counting and non-empty detection.
func TestDescribeSlices(t *testing.T) {
	samples := []float64{
		0, 0, 0, 0, // slice 0: empty
		0, 1, 0, 0, // slice 1: signal
		0, 0, 0, 0, // slice 2: empty
		2, 0, 0, 3, // slice 3: signal
		0, 0, 0, 0, // slice 4: empty
	}
	vol := mustVolume(t, 2, 2, 5, samples)

	info := DescribeSlices(vol)
	if info.TotalSlices != 5 {
		t.Errorf("Expected 5 slices, got %d", info.TotalSlices)
	}
	if info.RecommendedSlice != 2 {
		t.Errorf("Expected recommended slice 2, got %d", info.RecommendedSlice)
	}

	expected := []int{1, 3}
	if len(info.NonEmptySlices) != len(expected) {
		t.Fatalf("Expected non-empty slices %v, got %v", expected, info.NonEmptySlices)
	}
	for i, z := range expected {
		if info.NonEmptySlices[i] != z {
			t.Errorf("Expected non-empty slice %d at position %d, got %d", z, i, info.NonEmptySlices[i])
		}
	}
}
