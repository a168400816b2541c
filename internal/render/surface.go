package render

import "github.com/gogpu/gg"

// Surface is the 2D drawing target. Transform calls are relative to the
// current frame and Push/Pop save and restore that frame. Angles are degrees.
type Surface interface {
	Push()
	Pop()
	Translate(x, y float64)
	Rotate(degrees float64)
	Scale(sx, sy float64)

	Stroke(c gg.RGBA)
	StrokeWeight(w float64)
	Line(x1, y1, x2, y2 float64)

	// Background fills the whole surface, ignoring the current transform.
	Background(c gg.RGBA)

	Width() float64
	Height() float64
}
