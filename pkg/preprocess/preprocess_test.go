package preprocess

import (
	"math"
	"testing"
)

// TestNormalize verifies min-max rescaling and the flat-plane case.
func TestNormalize(t *testing.T) {
	out := Normalize([]float64{10, 20, 30})

	expected := []float64{0, 0.5, 1}
	for i, want := range expected {
		if math.Abs(out[i]-want) > 1e-12 {
			t.Errorf("Expected %f at %d, got %f", want, i, out[i])
		}
	}

	flat := Normalize([]float64{4, 4, 4})
	for i, v := range flat {
		if v != 0 {
			t.Errorf("Expected flat plane to normalize to zeros, got %f at %d", v, i)
		}
	}
}

// TestAdjustContrast verifies mean-preserving contrast scaling and identity
// at factor 1.
func TestAdjustContrast(t *testing.T) {
	plane := []float64{0, 2, 4} // mean 2

	out := AdjustContrast(plane, 2)
	expected := []float64{-2, 2, 6}
	for i, want := range expected {
		if math.Abs(out[i]-want) > 1e-12 {
			t.Errorf("Expected %f at %d, got %f", want, i, out[i])
		}
	}

	identity := AdjustContrast(plane, 1)
	for i := range plane {
		if math.Abs(identity[i]-plane[i]) > 1e-12 {
			t.Errorf("Factor 1 must be the identity, got %f at %d", identity[i], i)
		}
	}
}

// TestEqualizeHistogram verifies that equalization spans [0, 1] and keeps
// intensity ordering.
func TestEqualizeHistogram(t *testing.T) {
	plane := []float64{0, 0, 0, 0, 50, 50, 100, 200}

	out := EqualizeHistogram(plane, 256)

	min, max := out[0], out[0]
	for _, v := range out {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min != 0 || math.Abs(max-1) > 1e-12 {
		t.Errorf("Expected output to span [0,1], got [%f,%f]", min, max)
	}

	// Order preservation: equal inputs map equal, larger inputs map >=.
	if out[0] != out[1] {
		t.Errorf("Equal inputs must map equally: %f vs %f", out[0], out[1])
	}
	if out[4] < out[0] || out[6] < out[4] || out[7] < out[6] {
		t.Errorf("Equalization must preserve ordering, got %v", out)
	}
}

// TestSmoothGaussian verifies mass preservation on a constant plane and the
// sigma<=0 no-op.
func TestSmoothGaussian(t *testing.T) {
	plane := make([]float64, 25)
	for i := range plane {
		plane[i] = 3
	}

	out := SmoothGaussian(plane, 5, 5, 1.0)
	for i, v := range out {
		if math.Abs(v-3) > 1e-9 {
			t.Errorf("Constant plane must stay constant, got %f at %d", v, i)
		}
	}

	spike := []float64{0, 0, 0, 0, 10, 0, 0, 0, 0}
	smoothed := SmoothGaussian(spike, 3, 3, 0.8)
	if smoothed[4] >= 10 {
		t.Errorf("Expected spike to flatten, got %f", smoothed[4])
	}
	if smoothed[0] <= 0 {
		t.Errorf("Expected spike mass to spread to neighbors, got %f", smoothed[0])
	}

	noop := SmoothGaussian(spike, 3, 3, 0)
	for i := range spike {
		if noop[i] != spike[i] {
			t.Errorf("Expected sigma 0 to be a no-op, got %f at %d", noop[i], i)
		}
	}
}

// TestMedianFilter3x3 verifies that an isolated spike is removed and the
// borders are copied.
func TestMedianFilter3x3(t *testing.T) {
	plane := []float64{
		1, 1, 1,
		1, 99, 1,
		1, 1, 1,
	}

	out := MedianFilter3x3(plane, 3, 3)
	if out[4] != 1 {
		t.Errorf("Expected spike replaced with median 1, got %f", out[4])
	}
	if out[0] != 1 || out[8] != 1 {
		t.Errorf("Expected borders copied unchanged, got %f and %f", out[0], out[8])
	}

	// Tiny planes pass through untouched.
	small := []float64{5, 6}
	passthrough := MedianFilter3x3(small, 2, 1)
	for i := range small {
		if passthrough[i] != small[i] {
			t.Errorf("Expected small plane passthrough, got %f at %d", passthrough[i], i)
		}
	}
}

// TestApplyOrderAndPurity verifies the filter chain runs and leaves the
// input plane untouched.
func TestApplyOrderAndPurity(t *testing.T) {
	plane := []float64{0, 10, 20, 30, 40, 50, 60, 70, 80}
	original := make([]float64, len(plane))
	copy(original, plane)

	opts := Options{Normalize: true, ContrastFactor: 1.5, SmoothSigma: 0.5}
	if !opts.Enabled() {
		t.Fatal("Expected options to report enabled")
	}

	out := Apply(plane, 3, 3, opts)
	if len(out) != len(plane) {
		t.Fatalf("Expected output length %d, got %d", len(plane), len(out))
	}

	for i := range plane {
		if plane[i] != original[i] {
			t.Errorf("Apply must not mutate its input, changed at %d: %f", i, plane[i])
		}
	}

	if (Options{}).Enabled() {
		t.Error("Zero options must report disabled")
	}
	if !(Options{MedianFilter: true}).Enabled() {
		t.Error("Median-only options must report enabled")
	}
}
