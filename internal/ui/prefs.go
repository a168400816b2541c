package ui

import (
	"fyne.io/fyne/v2"

	"Kaleidoboard/internal/config"
	"Kaleidoboard/internal/render"
	"Kaleidoboard/internal/state"
)

// LoadDrawingConfig reads the persisted symmetry and stroke weight, using
// fallback for missing keys and snapping stored values onto the sliders.
func LoadDrawingConfig(p fyne.Preferences, fallback state.Config) state.Config {
	cfg := state.Config{
		Symmetry:     config.ClampSymmetry(p.IntWithFallback(config.PrefSymmetry, fallback.Symmetry)),
		StrokeWeight: config.ClampStrokeWeight(p.FloatWithFallback(config.PrefStrokeWeight, fallback.StrokeWeight)),
	}
	if err := cfg.Validate(); err != nil {
		render.Logger().Warn("[UI] stored preferences rejected", "err", err)
		return state.DefaultConfig()
	}
	return cfg
}

func StoreSymmetry(p fyne.Preferences, n int) {
	p.SetInt(config.PrefSymmetry, n)
}

func StoreStrokeWeight(p fyne.Preferences, w float64) {
	p.SetFloat(config.PrefStrokeWeight, w)
}
