// Package export writes rendered frames to disk as PNG or JPEG images,
// one frame at a time or as whole slice sequences along an axis.
package export

import (
	"fmt"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"dicomvolview/internal/models"
	"dicomvolview/pkg/render"
)

// Options controls the output raster format.
type Options struct {
	// Format is "png" or "jpeg". Empty defaults to png.
	Format string

	// JPEGQuality is the encoder quality for jpeg output (1-100);
	// 0 defaults to 90.
	JPEGQuality int
}

// extension returns the filename extension for the configured format.
func (o Options) extension() string {
	if strings.EqualFold(o.Format, "jpeg") || strings.EqualFold(o.Format, "jpg") {
		return "jpg"
	}
	return "png"
}

// SaveFrame writes a rendered frame to path, choosing the encoder from the
// file extension (.png, .jpg, .jpeg). Unknown extensions are an error.
func SaveFrame(frame *models.RenderedFrame, path string, opts Options) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	img := render.FrameImage(frame)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		if err := png.Encode(file, img); err != nil {
			return fmt.Errorf("failed to encode png: %w", err)
		}
	case ".jpg", ".jpeg":
		quality := opts.JPEGQuality
		if quality <= 0 {
			quality = 90
		}
		if err := jpeg.Encode(file, img, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("failed to encode jpeg: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output extension: %s", filepath.Ext(path))
	}

	return nil
}

// SaveSliceSequence renders every position along the given axis with the
// view's window and writes the frames to outputDir as
// slice_<axis>_NNN.<ext>. The view's slice index is ignored; its window
// and nothing else carries over to each frame.
func SaveSliceSequence(vol *models.Volume, view render.ViewState, axis, outputDir string, opts Options) error {
	extent, err := render.AxisExtent(vol, axis)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ext := opts.extension()
	for pos := 0; pos < extent; pos++ {
		frame, err := render.RenderAxis(vol, view, axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.%s", strings.ToLower(axis), pos, ext))
		if err := SaveFrame(frame, filename, opts); err != nil {
			return err
		}
	}

	return nil
}
