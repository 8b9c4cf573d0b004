package dicomload

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"dicomvolview/internal/models"
)

// LoadJPEGStack builds a volume from a directory of JPEG slice images,
// ordered by the numeric part of their filenames. sliceGap is the physical
// distance between consecutive slices in mm; when it rounds to more than
// one voxel, intermediate slices are filled by linear interpolation between
// neighbors so the volume is roughly isotropic. Intensities are normalized
// to [0, 1].
func LoadJPEGStack(dir string, sliceGap float64) (*models.Volume, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var imageFiles []string
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".jpg" || ext == ".jpeg" {
			imageFiles = append(imageFiles, entry.Name())
		}
	}
	if len(imageFiles) == 0 {
		return nil, fmt.Errorf("no JPG images found in %s", dir)
	}

	// Numeric filename order preserves the anatomical slice sequence.
	sort.Slice(imageFiles, func(i, j int) bool {
		return extractNumber(imageFiles[i]) < extractNumber(imageFiles[j])
	})

	var (
		width, height int
		planes        [][]float64
	)
	for _, name := range imageFiles {
		img, err := loadJPEG(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to load image %s: %w", name, err)
		}

		bounds := img.Bounds()
		if planes == nil {
			width, height = bounds.Dx(), bounds.Dy()
		} else if bounds.Dx() != width || bounds.Dy() != height {
			return nil, fmt.Errorf("image %s has dimensions %dx%d, stack is %dx%d",
				name, bounds.Dx(), bounds.Dy(), width, height)
		}

		planes = append(planes, imageToFloat(img))
	}

	gap := int(sliceGap)
	if gap < 1 {
		gap = 1
	}

	depth := (len(planes)-1)*gap + 1
	samples := make([]float64, 0, width*height*depth)
	for i, plane := range planes {
		samples = append(samples, plane...)

		if i == len(planes)-1 {
			break
		}

		// Fill the physical gap with linear blends of the neighbors.
		next := planes[i+1]
		for g := 1; g < gap; g++ {
			t := float64(g) / float64(gap)
			blend := make([]float64, len(plane))
			for p := range plane {
				blend[p] = (1-t)*plane[p] + t*next[p]
			}
			samples = append(samples, blend...)
		}
	}

	spacing := [3]float64{1, 1, sliceGap / float64(gap)}

	return models.NewVolume(width, height, depth, spacing, samples)
}

// extractNumber extracts the numeric part from a filename for ordering.
func extractNumber(filename string) int {
	numStr := ""
	for _, c := range filepath.Base(filename) {
		if c >= '0' && c <= '9' {
			numStr += string(c)
		}
	}

	if numStr != "" {
		if num, err := strconv.Atoi(numStr); err == nil {
			return num
		}
	}
	return 0
}

// loadJPEG loads a JPEG image from a file.
func loadJPEG(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return jpeg.Decode(file)
}

// imageToFloat converts an image to grayscale floats in [0, 1].
func imageToFloat(img image.Image) []float64 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	result := make([]float64, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, _, _, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			result[y*width+x] = float64(r) / 65535.0
		}
	}

	return result
}
