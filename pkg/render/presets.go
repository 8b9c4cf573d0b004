package render

import (
	"fmt"
	"sort"
	"strings"
)

// WindowPreset is a named window/level pair. The builtin table covers the
// standard CT display windows; loaders may add modality-specific presets
// from the source metadata.
type WindowPreset struct {
	Name  string
	Level float64
	Width float64
}

// View returns a ViewState using this preset's window with the given slice
// index and projection mode.
func (p WindowPreset) View(sliceIndex int, mode ProjectionMode) ViewState {
	return ViewState{
		SliceIndex:  sliceIndex,
		WindowLevel: p.Level,
		WindowWidth: p.Width,
		Projection:  mode,
	}
}

// builtinPresets are the conventional CT windows in Hounsfield units.
var builtinPresets = map[string]WindowPreset{
	"soft-tissue": {Name: "soft-tissue", Level: 50, Width: 400},
	"lung":        {Name: "lung", Level: -600, Width: 1500},
	"bone":        {Name: "bone", Level: 400, Width: 1800},
	"brain":       {Name: "brain", Level: 40, Width: 80},
	"abdomen":     {Name: "abdomen", Level: 60, Width: 400},
	"mediastinum": {Name: "mediastinum", Level: 50, Width: 350},
}

// PresetByName looks up a window preset by name, case-insensitively.
func PresetByName(name string) (WindowPreset, error) {
	p, ok := builtinPresets[strings.ToLower(name)]
	if !ok {
		return WindowPreset{}, fmt.Errorf("unknown window preset: %q (available: %s)",
			name, strings.Join(PresetNames(), ", "))
	}
	return p, nil
}

// PresetNames returns the builtin preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(builtinPresets))
	for name := range builtinPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
