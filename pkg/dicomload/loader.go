package dicomload

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"dicomvolview/internal/models"
)

// ScanDirectory parses every DICOM file in dir, groups the instances by
// SeriesInstanceUID, and returns the series sorted by UID with their
// instances in anatomical order. Files that fail to parse are skipped;
// an error is returned only when the directory itself cannot be read or
// contains no parseable DICOM at all.
func ScanDirectory(dir string) ([]*SeriesInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	byUID := make(map[string]*SeriesInfo)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !looksLikeDICOM(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		ds, err := dicom.ParseFile(path, nil, dicom.SkipPixelData())
		if err != nil {
			// Mixed directories are common; ignore what isn't DICOM.
			continue
		}

		uid := stringTag(&ds, tag.SeriesInstanceUID)
		if uid == "" {
			uid = "unknown"
		}

		series, ok := byUID[uid]
		if !ok {
			series = &SeriesInfo{
				UID:            uid,
				Description:    stringTag(&ds, tag.SeriesDescription),
				Modality:       stringTag(&ds, tag.Modality),
				PatientID:      stringTag(&ds, tag.PatientID),
				StudyDate:      stringTag(&ds, tag.StudyDate),
				Rows:           intTag(&ds, tag.Rows),
				Columns:        intTag(&ds, tag.Columns),
				SliceThickness: floatTag(&ds, tag.SliceThickness),
				WindowLevel:    floatTag(&ds, tag.WindowCenter),
				WindowWidth:    floatTag(&ds, tag.WindowWidth),
			}
			if spacing := floatsTag(&ds, tag.PixelSpacing); len(spacing) >= 2 {
				series.PixelSpacing = [2]float64{spacing[0], spacing[1]}
			}
			byUID[uid] = series
		}

		series.Instances = append(series.Instances, Instance{
			Path:           path,
			InstanceNumber: intTag(&ds, tag.InstanceNumber),
			SliceLocation:  floatTag(&ds, tag.SliceLocation),
		})
	}

	if len(byUID) == 0 {
		return nil, fmt.Errorf("no DICOM files found in %s", dir)
	}

	series := make([]*SeriesInfo, 0, len(byUID))
	for _, s := range byUID {
		sortInstances(s.Instances)
		series = append(series, s)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].UID < series[j].UID })

	return series, nil
}

// LoadSeries decodes the pixel data of every instance in the series and
// assembles a volume, applying RescaleSlope/RescaleIntercept when present
// so CT volumes come out in Hounsfield units. Instances must agree on
// dimensions; a mismatch is a fatal construction error.
func LoadSeries(series *SeriesInfo) (*models.Volume, error) {
	if series == nil || series.SliceCount() == 0 {
		return nil, fmt.Errorf("series has no instances")
	}

	var (
		width, height int
		samples       []float64
	)

	for i, inst := range series.Instances {
		ds, err := dicom.ParseFile(inst.Path, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", inst.Path, err)
		}

		plane, w, h, err := decodePlane(&ds)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", inst.Path, err)
		}

		if i == 0 {
			width, height = w, h
			samples = make([]float64, 0, w*h*series.SliceCount())
		} else if w != width || h != height {
			return nil, fmt.Errorf("instance %s has dimensions %dx%d, series is %dx%d",
				inst.Path, w, h, width, height)
		}

		samples = append(samples, plane...)
	}

	spacing := [3]float64{series.PixelSpacing[1], series.PixelSpacing[0], series.SliceThickness}

	vol, err := models.NewVolume(width, height, len(series.Instances), spacing, samples)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble volume for series %s: %w", series.UID, err)
	}

	return vol, nil
}

// decodePlane extracts the first frame of a dataset as float intensities
// with rescale slope/intercept applied.
func decodePlane(ds *dicom.Dataset) ([]float64, int, int, error) {
	el, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("missing pixel data: %w", err)
	}

	info := dicom.MustGetPixelDataInfo(el.Value)
	if len(info.Frames) == 0 {
		return nil, 0, 0, fmt.Errorf("pixel data contains no frames")
	}

	native, err := info.Frames[0].GetNativeFrame()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to get native frame: %w", err)
	}

	slope := floatTag(ds, tag.RescaleSlope)
	if slope == 0 {
		slope = 1
	}
	intercept := floatTag(ds, tag.RescaleIntercept)

	w, h := native.Cols, native.Rows
	plane := make([]float64, w*h)
	for i := 0; i < w*h && i < len(native.Data); i++ {
		// First sample per pixel; viewer volumes are single-channel.
		plane[i] = float64(native.Data[i][0])*slope + intercept
	}

	return plane, w, h, nil
}

// looksLikeDICOM filters directory entries worth parsing: .dcm files and
// extensionless files (many archives ship instances with bare numeric
// names).
func looksLikeDICOM(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".dcm" || ext == ".dicom" || ext == ""
}

// stringTag returns the first string value of a tag, or "".
func stringTag(ds *dicom.Dataset, t tag.Tag) string {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return ""
	}
	if strs, ok := el.Value.GetValue().([]string); ok && len(strs) > 0 {
		return strings.TrimSpace(strs[0])
	}
	return ""
}

// intTag returns the first integer value of a tag, parsing string-encoded
// (IS) values as needed. Returns 0 when absent.
func intTag(ds *dicom.Dataset, t tag.Tag) int {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return 0
	}

	switch v := el.Value.GetValue().(type) {
	case []int:
		if len(v) > 0 {
			return v[0]
		}
	case []string:
		if len(v) > 0 {
			if n, err := strconv.Atoi(strings.TrimSpace(v[0])); err == nil {
				return n
			}
		}
	}
	return 0
}

// floatTag returns the first float value of a tag, parsing string-encoded
// (DS) values as needed. Returns 0 when absent.
func floatTag(ds *dicom.Dataset, t tag.Tag) float64 {
	values := floatsTag(ds, t)
	if len(values) == 0 {
		return 0
	}
	return values[0]
}

// floatsTag returns all float values of a tag, parsing string-encoded (DS)
// values as needed.
func floatsTag(ds *dicom.Dataset, t tag.Tag) []float64 {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return nil
	}

	switch v := el.Value.GetValue().(type) {
	case []float64:
		return v
	case []int:
		out := make([]float64, len(v))
		for i, n := range v {
			out[i] = float64(n)
		}
		return out
	case []string:
		out := make([]float64, 0, len(v))
		for _, s := range v {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				continue
			}
			out = append(out, f)
		}
		return out
	}
	return nil
}
