package ui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"

	"Kaleidoboard/internal/config"
	"Kaleidoboard/internal/session"
)

const AppID = "io.kaleidoboard.app"

func RunApp(cfg config.Config, logger *slog.Logger) {
	myApp := app.NewWithID(AppID)
	myWindow := myApp.NewWindow("Kaleidoscopic Wunderbar")
	myWindow.Resize(fyne.NewSize(float32(cfg.Width), float32(cfg.Height)))

	surface := NewLiveSurface(cfg.Width, cfg.Height)
	defer surface.Close()

	prefs := myApp.Preferences()
	ctrl := session.NewController(surface,
		session.WithConfig(LoadDrawingConfig(prefs, cfg.Drawing())),
		session.WithScheduler(session.TimerScheduler{Dispatch: fyne.Do}),
		session.WithTickInterval(cfg.TickInterval),
		session.WithBackground(cfg.BackgroundColor()),
		session.WithLogger(logger),
	)
	ctrl.ClearCanvas()

	board := NewBoardWidget(ctrl, surface)
	panel := NewControlPanel(myWindow, ctrl, board, prefs, cfg)
	defer panel.Close()

	content := container.NewBorder(panel.Content(), nil, nil, nil, board)
	myWindow.SetContent(content)

	myApp.Lifecycle().SetOnStarted(board.Start)
	myApp.Lifecycle().SetOnStopped(board.Stop)
	myWindow.ShowAndRun()
}
