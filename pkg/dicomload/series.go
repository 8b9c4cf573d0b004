// Package dicomload reads DICOM series from disk and assembles them into
// renderable volumes. File-format parsing is delegated to
// github.com/suyashkumar/dicom; this package handles series grouping,
// slice ordering, rescale application, and volume assembly.
package dicomload

import (
	"sort"
)

// Instance is one DICOM file belonging to a series, with the ordering
// metadata needed to place it in the volume.
type Instance struct {
	// Path is the file the instance was parsed from.
	Path string

	// InstanceNumber orders instances within a series.
	InstanceNumber int

	// SliceLocation is the physical position along the slice axis, used
	// as a tiebreaker when instance numbers collide or are absent.
	SliceLocation float64
}

// SeriesInfo describes one DICOM series found in a directory.
type SeriesInfo struct {
	// UID is the SeriesInstanceUID.
	UID string

	// Description is the SeriesDescription, when present.
	Description string

	// Modality is the DICOM modality code (MR, CT, ...).
	Modality string

	// PatientID and StudyDate carry over from the source headers.
	PatientID string
	StudyDate string

	// Rows and Columns are the per-slice image dimensions.
	Rows    int
	Columns int

	// PixelSpacing is the in-plane physical spacing (row, column) in mm;
	// zero when the source carries none.
	PixelSpacing [2]float64

	// SliceThickness is the slice spacing in mm; zero when unknown.
	SliceThickness float64

	// WindowLevel and WindowWidth are the source's suggested display
	// window; both zero when the headers carry none.
	WindowLevel float64
	WindowWidth float64

	// Instances are the series' files in anatomical order.
	Instances []Instance
}

// SliceCount returns the number of instances in the series.
func (s *SeriesInfo) SliceCount() int {
	return len(s.Instances)
}

// HasWindow reports whether the source headers carried a display window.
func (s *SeriesInfo) HasWindow() bool {
	return s.WindowWidth > 0
}

// sortInstances orders instances by instance number, breaking ties with
// slice location, then path for determinism.
func sortInstances(instances []Instance) {
	sort.Slice(instances, func(i, j int) bool {
		a, b := instances[i], instances[j]
		if a.InstanceNumber != b.InstanceNumber {
			return a.InstanceNumber < b.InstanceNumber
		}
		if a.SliceLocation != b.SliceLocation {
			return a.SliceLocation < b.SliceLocation
		}
		return a.Path < b.Path
	})
}

// modalityPriority orders modalities for series recommendation; earlier is
// preferred.
var modalityPriority = []string{"MR", "CT", "CR", "DX", "US"}

// RecommendSeries picks the series best suited for initial display: the
// highest-priority modality present, and among those the series with the
// most slices. Returns nil for an empty list.
func RecommendSeries(series []*SeriesInfo) *SeriesInfo {
	if len(series) == 0 {
		return nil
	}

	for _, modality := range modalityPriority {
		var best *SeriesInfo
		for _, s := range series {
			if s.Modality != modality {
				continue
			}
			if best == nil || s.SliceCount() > best.SliceCount() {
				best = s
			}
		}
		if best != nil {
			return best
		}
	}

	// No priority modality present: fall back to the largest series.
	best := series[0]
	for _, s := range series[1:] {
		if s.SliceCount() > best.SliceCount() {
			best = s
		}
	}
	return best
}
