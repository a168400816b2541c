package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"Kaleidoboard/internal/config"
	"Kaleidoboard/internal/export"
	"Kaleidoboard/internal/render"
	"Kaleidoboard/internal/session"
	"Kaleidoboard/internal/state"
)

// ControlPanel is the toolbar above the board: record, play, snapshot,
// export, reset and the settings drawer with the two sliders. Opening the
// drawer locks the board, closing it unlocks.
type ControlPanel struct {
	win   fyne.Window
	ctrl  *session.Controller
	board *BoardWidget
	prefs fyne.Preferences
	cfg   config.Config

	recordBtn   *widget.Button
	playBtn     *widget.Button
	settingsBtn *widget.Button
	status      *widget.Label

	strokeLabel    *widget.Label
	strokeSlider   *widget.Slider
	symmetryLabel  *widget.Label
	symmetrySlider *widget.Slider
	drawer         *fyne.Container

	unsubscribe func()
}

func NewControlPanel(win fyne.Window, ctrl *session.Controller, board *BoardWidget, prefs fyne.Preferences, cfg config.Config) *ControlPanel {
	p := &ControlPanel{
		win:    win,
		ctrl:   ctrl,
		board:  board,
		prefs:  prefs,
		cfg:    cfg,
		status: widget.NewLabel("Ready"),
	}

	p.recordBtn = widget.NewButtonWithIcon("", theme.MediaRecordIcon(), ctrl.ToggleRecord)
	p.playBtn = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), ctrl.TogglePlay)
	p.settingsBtn = widget.NewButtonWithIcon("", theme.SettingsIcon(), p.toggleSettings)

	live := ctrl.Config()
	p.strokeLabel = widget.NewLabel("")
	p.strokeSlider = widget.NewSlider(config.MinStrokeWeight, config.MaxStrokeWeight)
	p.strokeSlider.Step = 1
	p.strokeSlider.Value = live.StrokeWeight
	p.strokeSlider.OnChanged = p.setStrokeWeight

	p.symmetryLabel = widget.NewLabel("")
	p.symmetrySlider = widget.NewSlider(config.MinSymmetry, config.MaxSymmetry)
	p.symmetrySlider.Step = config.SymmetryStep
	p.symmetrySlider.Value = float64(live.Symmetry)
	p.symmetrySlider.OnChanged = func(v float64) { p.setSymmetry(int(v)) }
	p.updateLabels(live)

	p.drawer = container.NewVBox(p.strokeLabel, p.strokeSlider, p.symmetryLabel, p.symmetrySlider)
	p.drawer.Hide()

	board.OnStatus = p.status.SetText
	p.unsubscribe = ctrl.Subscribe(p.onModeChange)
	return p
}

// Content assembles the panel.
func (p *ControlPanel) Content() fyne.CanvasObject {
	buttons := container.NewHBox(
		p.recordBtn,
		p.playBtn,
		widget.NewButtonWithIcon("", theme.MediaPhotoIcon(), p.saveSnapshot),
		widget.NewButtonWithIcon("", theme.DocumentSaveIcon(), p.exportRecording),
		widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), p.ctrl.ClearCanvas),
		p.settingsBtn,
	)
	bar := container.NewHBox(p.status, layout.NewSpacer(), buttons)
	return container.NewVBox(bar, p.drawer)
}

func (p *ControlPanel) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
	}
}

func (p *ControlPanel) updateLabels(cfg state.Config) {
	p.strokeLabel.SetText(fmt.Sprintf("Stroke Width (%g)", cfg.StrokeWeight))
	p.symmetryLabel.SetText(fmt.Sprintf("Symmetry (%d)", cfg.Symmetry))
}

func (p *ControlPanel) setStrokeWeight(w float64) {
	w = config.ClampStrokeWeight(w)
	p.ctrl.SetStrokeWeight(w)
	StoreStrokeWeight(p.prefs, w)
	p.updateLabels(p.ctrl.Config())
}

func (p *ControlPanel) setSymmetry(n int) {
	n = config.ClampSymmetry(n)
	p.ctrl.SetSymmetry(n)
	StoreSymmetry(p.prefs, n)
	p.updateLabels(p.ctrl.Config())
}

func (p *ControlPanel) toggleSettings() {
	if p.drawer.Visible() {
		p.drawer.Hide()
		p.settingsBtn.SetIcon(theme.SettingsIcon())
	} else {
		p.drawer.Show()
		p.settingsBtn.SetIcon(theme.CancelIcon())
	}
	p.ctrl.ToggleLock()
}

func (p *ControlPanel) onModeChange(m state.Mode) {
	switch m {
	case state.ModeRecording:
		p.recordBtn.SetIcon(theme.MediaStopIcon())
		p.playBtn.SetIcon(theme.MediaPlayIcon())
	case state.ModePlaying:
		p.recordBtn.SetIcon(theme.MediaRecordIcon())
		p.playBtn.SetIcon(theme.MediaPauseIcon())
	case state.ModeDrawing:
		p.recordBtn.SetIcon(theme.MediaRecordIcon())
		p.playBtn.SetIcon(theme.MediaPlayIcon())
	}
	p.status.SetText(modeStatus(m, p.ctrl.LogLen()))
}

func modeStatus(m state.Mode, segments int) string {
	switch m {
	case state.ModeRecording:
		return "Recording"
	case state.ModePlaying:
		return fmt.Sprintf("Playing %d segments", segments)
	case state.ModeLocked:
		return "Locked"
	default:
		if segments > 0 {
			return fmt.Sprintf("Drawing (%d segments recorded)", segments)
		}
		return "Drawing"
	}
}

func (p *ControlPanel) saveSnapshot() {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			p.fail("Save failed", err)
			return
		}
		if w == nil {
			return
		}
		p.board.SaveToFile(w)
	}, p.win)
	d.SetFileName(p.cfg.ExportName + ".png")
	d.Show()
}

func (p *ControlPanel) exportRecording() {
	segs := p.ctrl.Segments()
	if len(segs) == 0 {
		p.status.SetText("Nothing recorded yet")
		return
	}
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			p.fail("Export failed", err)
			return
		}
		if w == nil {
			return
		}
		p.writeRecording(w, segs)
	}, p.win)
	d.SetFileName(state.NewExportName(p.cfg.ExportName) + ".pdf")
	d.Show()
}

func (p *ControlPanel) writeRecording(w fyne.URIWriteCloser, segs []state.Segment) {
	defer func() {
		if err := w.Close(); err != nil {
			render.Logger().Warn("[UI] closing export writer", "err", err)
		}
	}()
	err := export.WritePDF(w, segs, float64(p.cfg.Width), float64(p.cfg.Height), p.cfg.BackgroundColor())
	if err != nil {
		p.fail("Export failed", err)
		return
	}
	p.status.SetText(fmt.Sprintf("Exported %d segments to %s", len(segs), w.URI().Name()))
}

func (p *ControlPanel) fail(msg string, err error) {
	render.Logger().Warn("[UI] "+msg, "err", err)
	p.status.SetText(msg)
	dialog.ShowError(err, p.win)
}
