package render

import (
	"fmt"
	"image"
	"io"
	"math"
	"sync"

	"github.com/gogpu/gg"
)

// RasterSurface is a Surface backed by a gg software context. It is the live
// canvas of the app and the source of PNG snapshots.
type RasterSurface struct {
	mu  sync.Mutex
	ctx *gg.Context
}

var _ Surface = (*RasterSurface)(nil)

func NewRasterSurface(width, height int) *RasterSurface {
	ctx := gg.NewContext(width, height)
	ctx.SetLineCap(gg.LineCapRound)
	return &RasterSurface{ctx: ctx}
}

func (r *RasterSurface) Push() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx.Push()
}

func (r *RasterSurface) Pop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx.Pop()
}

func (r *RasterSurface) Translate(x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx.Translate(x, y)
}

func (r *RasterSurface) Rotate(degrees float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx.Rotate(degrees * math.Pi / 180)
}

func (r *RasterSurface) Scale(sx, sy float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx.Scale(sx, sy)
}

func (r *RasterSurface) Stroke(c gg.RGBA) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx.SetRGBA(c.R, c.G, c.B, c.A)
}

func (r *RasterSurface) StrokeWeight(w float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx.SetLineWidth(w)
}

// Line strokes immediately; paths are never batched across calls.
func (r *RasterSurface) Line(x1, y1, x2, y2 float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx.DrawLine(x1, y1, x2, y2)
	if err := r.ctx.Stroke(); err != nil {
		Logger().Warn("[RENDER] stroke failed", "err", err)
	}
}

func (r *RasterSurface) Background(c gg.RGBA) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx.ClearWithColor(c)
}

func (r *RasterSurface) Width() float64 {
	return float64(r.ctx.Width())
}

func (r *RasterSurface) Height() float64 {
	return float64(r.ctx.Height())
}

// Image returns a copy of the current pixels.
func (r *RasterSurface) Image() image.Image {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctx.Image()
}

// WritePNG encodes a snapshot of the canvas to w.
func (r *RasterSurface) WritePNG(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ctx.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG writes a snapshot of the canvas to path.
func (r *RasterSurface) SavePNG(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ctx.SavePNG(path); err != nil {
		return fmt.Errorf("save png %s: %w", path, err)
	}
	return nil
}

func (r *RasterSurface) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctx.Close()
}
