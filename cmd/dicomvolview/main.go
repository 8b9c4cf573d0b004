package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"dicomvolview/internal/models"
	"dicomvolview/pkg/config"
	"dicomvolview/pkg/dicomload"
	"dicomvolview/pkg/export"
	"dicomvolview/pkg/preprocess"
	"dicomvolview/pkg/render"
	"dicomvolview/pkg/volstats"
)

func main() {
	// Parse command line arguments
	inputDir := flag.String("input", "", "Directory containing a DICOM series (or JPEG slices with -jpeg-stack)")
	jpegStack := flag.Bool("jpeg-stack", false, "Treat the input directory as a stack of JPEG slices")
	sliceGap := flag.Float64("gap", 1.0, "Inter-slice gap in mm for JPEG stacks")
	outputDir := flag.String("output", "rendered", "Directory to write rendered frames")
	sliceIndex := flag.Int("slice", -1, "Slice index to render (-1 = middle slice)")
	mip := flag.Bool("mip", false, "Render a maximum intensity projection instead of a single slice")
	presetName := flag.String("preset", "", "Window preset name (e.g. lung, bone, brain)")
	level := flag.Float64("level", 0, "Explicit window level (used when -width > 0)")
	width := flag.Float64("width", 0, "Explicit window width (overrides preset and source window)")
	axis := flag.String("axis", "z", "Slice axis: x, y, or z")
	sequence := flag.Bool("sequence", false, "Render every slice along the axis instead of one frame")
	configPath := flag.String("config", "dicomvolview.yaml", "Path to YAML configuration file")
	showStats := flag.Bool("stats", false, "Print volume intensity statistics")
	flag.Parse()

	// Validate inputs
	if *inputDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	fmt.Println("================================")
	fmt.Println("DICOM VOLUME VIEWER - WINDOW/LEVEL AND PROJECTION RENDERING")
	fmt.Println("================================")

	// Step 1: Load the volume
	fmt.Println("Step 1: Loading volume...")
	vol, sourceWindow := loadVolume(*inputDir, *jpegStack, *sliceGap)
	fmt.Printf("Loaded volume %dx%dx%d (spacing %.2fx%.2fx%.2f mm)\n",
		vol.Width, vol.Height, vol.Depth,
		vol.Spacing[0], vol.Spacing[1], vol.Spacing[2])

	if *showStats {
		printStats(vol)
	}

	// Step 2: Resolve the display window
	fmt.Println("Step 2: Resolving display window...")
	view := resolveWindow(cfg, vol, sourceWindow, *presetName, *level, *width)
	if *mip || strings.EqualFold(cfg.Rendering.Projection, "mip") {
		view.Projection = render.MaxIntensity
	}

	info := volstats.DescribeSlices(vol)
	view.SliceIndex = *sliceIndex
	if view.SliceIndex < 0 {
		view.SliceIndex = info.RecommendedSlice
	}
	fmt.Printf("Window level=%.1f width=%.1f, projection=%s\n",
		view.WindowLevel, view.WindowWidth, view.Projection)

	opts := export.Options{Format: cfg.Output.Format, JPEGQuality: cfg.Output.JPEGQuality}

	// Step 3: Render and save
	if *sequence {
		fmt.Printf("Step 3: Rendering %s-axis slice sequence to %s...\n", *axis, *outputDir)
		if err := export.SaveSliceSequence(vol, view, *axis, *outputDir, opts); err != nil {
			log.Fatalf("Failed to save slice sequence: %v", err)
		}
		fmt.Println("Sequence rendering completed!")
		return
	}

	fmt.Println("Step 3: Rendering frame...")
	frame := renderFrame(vol, view, *axis, cfg.Preprocess)

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	name := frameName(view, *axis, opts)
	path := filepath.Join(*outputDir, name)
	if err := export.SaveFrame(frame, path, opts); err != nil {
		log.Fatalf("Failed to save frame: %v", err)
	}

	fmt.Printf("Rendered frame saved to: %s\n", path)
}

// loadVolume loads either a DICOM series or a JPEG slice stack and returns
// the volume along with the source's display window (nil when the source
// carries none).
func loadVolume(dir string, jpegStack bool, sliceGap float64) (*models.Volume, *render.WindowPreset) {
	if jpegStack {
		vol, err := dicomload.LoadJPEGStack(dir, sliceGap)
		if err != nil {
			log.Fatalf("Failed to load JPEG stack: %v", err)
		}
		return vol, nil
	}

	series, err := dicomload.ScanDirectory(dir)
	if err != nil {
		log.Fatalf("Failed to scan DICOM directory: %v", err)
	}

	fmt.Printf("Found %d series:\n", len(series))
	for _, s := range series {
		fmt.Printf("  %s  %-3s %3d slices  %s\n", s.UID, s.Modality, s.SliceCount(), s.Description)
	}

	chosen := dicomload.RecommendSeries(series)
	fmt.Printf("Loading series %s (%s, %d slices)\n", chosen.UID, chosen.Modality, chosen.SliceCount())

	vol, err := dicomload.LoadSeries(chosen)
	if err != nil {
		log.Fatalf("Failed to load series: %v", err)
	}

	if chosen.HasWindow() {
		return vol, &render.WindowPreset{
			Name:  "source",
			Level: chosen.WindowLevel,
			Width: chosen.WindowWidth,
		}
	}
	return vol, nil
}

// resolveWindow picks the display window, strongest source first: explicit
// flags, named preset (config file then builtins), the source's own window,
// and finally percentile auto-windowing.
func resolveWindow(cfg *config.Config, vol *models.Volume, sourceWindow *render.WindowPreset,
	presetName string, level, width float64) render.ViewState {

	if width > 0 {
		return render.ViewState{WindowLevel: level, WindowWidth: width}
	}

	if presetName == "" {
		presetName = cfg.Rendering.Preset
	}
	if presetName != "" {
		if custom, ok := cfg.PresetByName(presetName); ok {
			return render.ViewState{WindowLevel: custom.Level, WindowWidth: custom.Width}
		}
		preset, err := render.PresetByName(presetName)
		if err != nil {
			log.Fatalf("Failed to resolve window preset: %v", err)
		}
		return preset.View(0, render.SingleSlice)
	}

	if cfg.Rendering.Width > 0 {
		return render.ViewState{WindowLevel: cfg.Rendering.Level, WindowWidth: cfg.Rendering.Width}
	}

	if sourceWindow != nil {
		fmt.Println("Using display window from source headers")
		return sourceWindow.View(0, render.SingleSlice)
	}

	autoLevel, autoWidth := volstats.AutoWindow(vol, cfg.Rendering.AutoWindowLow, cfg.Rendering.AutoWindowHigh)
	fmt.Printf("Auto-windowing from intensity distribution\n")
	return render.ViewState{WindowLevel: autoLevel, WindowWidth: autoWidth}
}

// renderFrame produces one frame, routing through the preprocessing chain
// when any filter is enabled.
func renderFrame(vol *models.Volume, view render.ViewState, axis string, pre preprocess.Options) *models.RenderedFrame {
	if !pre.Enabled() && strings.EqualFold(axis, "z") {
		frame, err := render.Render(vol, view)
		if err != nil {
			log.Fatalf("Failed to render frame: %v", err)
		}
		return frame
	}

	var (
		plane []float64
		err   error
	)
	if view.Projection == render.MaxIntensity {
		plane = render.ComputeMIP(vol)
		axis = "z"
	} else {
		plane, err = render.ExtractAxisSlice(vol, axis, view.SliceIndex)
		if err != nil {
			log.Fatalf("Failed to extract slice: %v", err)
		}
	}

	w, h, err := render.AxisPlaneDims(vol, axis)
	if err != nil {
		log.Fatalf("Failed to resolve plane dimensions: %v", err)
	}

	if pre.Enabled() {
		fmt.Println("Applying preprocessing filters...")
		plane = preprocess.Apply(plane, w, h, pre)
	}

	normalized := render.ApplyWindowLevel(plane, view.WindowLevel, view.WindowWidth)
	frame, err := render.ToFrame(normalized, w, h)
	if err != nil {
		log.Fatalf("Failed to quantize frame: %v", err)
	}
	return frame
}

// frameName builds the output filename for a single rendered frame.
func frameName(view render.ViewState, axis string, opts export.Options) string {
	ext := "png"
	if strings.EqualFold(opts.Format, "jpeg") || strings.EqualFold(opts.Format, "jpg") {
		ext = "jpg"
	}

	if view.Projection == render.MaxIntensity {
		return fmt.Sprintf("mip.%s", ext)
	}
	return fmt.Sprintf("slice_%s_%03d.%s", strings.ToLower(axis), view.SliceIndex, ext)
}

// printStats prints the volume intensity statistics.
func printStats(vol *models.Volume) {
	summary := volstats.Summarize(vol)
	info := volstats.DescribeSlices(vol)

	fmt.Println("\nVolume statistics:")
	fmt.Println("==================")
	fmt.Printf("Voxels: %d\n", summary.Voxels)
	fmt.Printf("Intensity range: [%.2f, %.2f]\n", summary.Min, summary.Max)
	fmt.Printf("Mean: %.3f  StdDev: %.3f\n", summary.Mean, summary.StdDev)
	fmt.Printf("Entropy: %.3f bits\n", volstats.Entropy(vol))
	fmt.Printf("Slices: %d total, %d non-empty, recommended: %d\n\n",
		info.TotalSlices, len(info.NonEmptySlices), info.RecommendedSlice)
}
