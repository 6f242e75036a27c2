package preflight

import (
	"path/filepath"

	"vidtools/internal/config"
	"vidtools/internal/presets"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll checks the state locations vt writes to: the preset directory, the
// history directory (when history is on) and the preset file itself. Binary
// checks are reported separately by CheckSystemDeps.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{CheckWritableDir("Preset directory", filepath.Dir(cfg.Paths.PresetFile))}
	if cfg.History.Enabled {
		results = append(results, CheckWritableDir("History directory", filepath.Dir(cfg.Paths.HistoryDB)))
	}
	return append(results, CheckPresetFile(presets.NewStore(cfg.Paths.PresetFile, nil)))
}
