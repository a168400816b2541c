package ui

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/gogpu/gg"

	"Kaleidoboard/internal/render"
	"Kaleidoboard/internal/session"
)

// LiveSurface marks itself dirty whenever pixels change so the widget only
// copies the raster when there is something new to show.
type LiveSurface struct {
	*render.RasterSurface
	dirty atomic.Bool
}

func (s *LiveSurface) Line(x1, y1, x2, y2 float64) {
	s.RasterSurface.Line(x1, y1, x2, y2)
	s.dirty.Store(true)
}

func (s *LiveSurface) Background(c gg.RGBA) {
	s.RasterSurface.Background(c)
	s.dirty.Store(true)
}

// BoardWidget shows the kaleidoscope canvas and turns pointer drags into
// controller frames.
type BoardWidget struct {
	widget.BaseWidget
	ctrl    *session.Controller
	surface *LiveSurface
	image   *canvas.Image
	anim    *fyne.Animation

	mu      sync.Mutex
	pressed bool
	last    fyne.Position

	OnStatus func(string)
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)

// NewLiveSurface wraps a raster surface for use by a BoardWidget.
func NewLiveSurface(width, height int) *LiveSurface {
	return &LiveSurface{RasterSurface: render.NewRasterSurface(width, height)}
}

func NewBoardWidget(ctrl *session.Controller, surface *LiveSurface) *BoardWidget {
	b := &BoardWidget{
		ctrl:    ctrl,
		surface: surface,
		image:   canvas.NewImageFromImage(surface.Image()),
	}
	b.image.FillMode = canvas.ImageFillStretch
	b.image.ScaleMode = canvas.ImageScaleFastest
	b.image.SetMinSize(fyne.NewSize(float32(surface.Width()), float32(surface.Height())))
	b.ExtendBaseWidget(b)
	return b
}

// Start begins refreshing the displayed image once per frame. Playback
// draws from timer callbacks, so pointer events alone are not enough.
func (b *BoardWidget) Start() {
	b.anim = fyne.NewAnimation(time.Second, func(float32) { b.syncImage() })
	b.anim.RepeatCount = fyne.AnimationRepeatForever
	b.anim.Curve = fyne.AnimationLinear
	b.anim.Start()
}

func (b *BoardWidget) Stop() {
	if b.anim != nil {
		b.anim.Stop()
	}
}

func (b *BoardWidget) syncImage() {
	if !b.surface.dirty.Swap(false) {
		return
	}
	b.image.Image = b.surface.Image()
	b.image.Refresh()
}

func (b *BoardWidget) SetStatus(text string) {
	if b.OnStatus != nil {
		b.OnStatus(text)
	}
}

// toSurface maps a widget position to surface pixels.
func (b *BoardWidget) toSurface(p fyne.Position) (float64, float64) {
	size := b.Size()
	if size.Width == 0 || size.Height == 0 {
		return float64(p.X), float64(p.Y)
	}
	sx := b.surface.Width() / float64(size.Width)
	sy := b.surface.Height() / float64(size.Height)
	return float64(p.X) * sx, float64(p.Y) * sy
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.mu.Lock()
	b.pressed = true
	b.last = e.Position
	b.mu.Unlock()
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.mu.Lock()
	b.pressed = false
	b.mu.Unlock()
}

// Dragged also arrives for touch input, where no MouseDown precedes it, so
// a drag always counts as pressed.
func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.mu.Lock()
	prev := e.Position.Subtract(e.Dragged)
	if b.pressed {
		prev = b.last
	}
	b.last = e.Position
	b.mu.Unlock()

	x, y := b.toSurface(e.Position)
	px, py := b.toSurface(prev)
	b.ctrl.Frame(session.Pointer{X: x, Y: y, PX: px, PY: py, Pressed: true})
	b.syncImage()
}

func (b *BoardWidget) DragEnd() {
	b.mu.Lock()
	b.pressed = false
	b.mu.Unlock()
}

// SaveToFile writes a PNG snapshot of the canvas to writer and closes it.
func (b *BoardWidget) SaveToFile(writer fyne.URIWriteCloser) {
	defer func() {
		if err := writer.Close(); err != nil {
			render.Logger().Warn("[UI] closing snapshot writer", "err", err)
		}
	}()
	if err := b.surface.WritePNG(writer); err != nil {
		render.Logger().Warn("[UI] snapshot failed", "uri", writer.URI().String(), "err", err)
		b.SetStatus("Error saving snapshot")
		return
	}
	render.Logger().Info("[UI] snapshot saved", "uri", writer.URI().String())
	b.SetStatus(fmt.Sprintf("Saved %s", writer.URI().Name()))
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(b.image)
}
