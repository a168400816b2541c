package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"Kaleidoboard/internal/config"
	"Kaleidoboard/internal/export"
	"Kaleidoboard/internal/render"
	"Kaleidoboard/internal/session"
	"Kaleidoboard/internal/state"
	"Kaleidoboard/internal/ui"
)

func main() {
	configPath := flag.String("config", "kaleidoboard.toml", "path to the TOML settings file")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	dryRun := flag.Bool("dry-run", false, "draw a test pattern headless, export it and exit")
	outDir := flag.String("out", ".", "output directory for -dry-run exports")
	writeConfig := flag.String("write-config", "", "write the effective settings as TOML to this path and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	render.SetLogger(logger)

	if *writeConfig != "" {
		if err := config.Save(*writeConfig, cfg); err != nil {
			logger.Error("writing config failed", "err", err)
			os.Exit(1)
		}
		logger.Info("Config written", "path", *writeConfig)
		return
	}

	if *dryRun {
		if err := runHeadless(cfg, logger, *outDir); err != nil {
			logger.Error("dry run failed", "err", err)
			os.Exit(1)
		}
		return
	}

	logger.Info("Starting kaleidoscope", "width", cfg.Width, "height", cfg.Height, "symmetry", cfg.Symmetry)
	ui.RunApp(cfg, logger)
}

// runHeadless records a spiral stroke on an offscreen canvas, then writes
// the live canvas as PNG and the recording as a replayed PNG and a PDF.
func runHeadless(cfg config.Config, logger *slog.Logger, outDir string) error {
	surface := render.NewRasterSurface(cfg.Width, cfg.Height)
	defer surface.Close()

	ctrl := session.NewController(surface,
		session.WithConfig(cfg.Drawing()),
		session.WithScheduler(session.NewManualScheduler()),
		session.WithBackground(cfg.BackgroundColor()),
		session.WithLogger(logger),
	)
	ctrl.ClearCanvas()
	ctrl.ToggleRecord()

	w, h := float64(cfg.Width), float64(cfg.Height)
	cx, cy := w/2, h/2
	maxR := math.Min(w, h) / 2
	prev := session.Pointer{X: cx + 1, Y: cy}
	for i := 1; i <= 360; i++ {
		t := float64(i) * math.Pi / 45
		r := maxR * float64(i) / 400
		p := session.Pointer{X: cx + r*math.Cos(t), Y: cy + r*math.Sin(t), PX: prev.X, PY: prev.Y, Pressed: true}
		ctrl.Frame(p)
		prev = p
	}
	ctrl.ToggleRecord()

	rec := render.NewRecorder(w, h)
	n := ctrl.ReplayInto(rec)
	logger.Info("Recorded spiral", "segments", n, "lines", rec.Count(render.CallLine), "log", ctrl.LogID())

	name := state.NewExportName(cfg.ExportName)
	pngPath := filepath.Join(outDir, name+".png")
	if err := surface.SavePNG(pngPath); err != nil {
		return err
	}
	replayPath := filepath.Join(outDir, name+"-replay.png")
	if err := export.WritePNGFile(replayPath, ctrl.Segments(), cfg.Width, cfg.Height, cfg.BackgroundColor()); err != nil {
		return err
	}
	pdfPath := filepath.Join(outDir, name+".pdf")
	if err := export.WritePDFFile(pdfPath, ctrl.Segments(), w, h, cfg.BackgroundColor()); err != nil {
		return err
	}
	logger.Info("Dry run written", "png", pngPath, "replay", replayPath, "pdf", pdfPath)
	return nil
}
