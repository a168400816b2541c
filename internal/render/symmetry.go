package render

import (
	"Kaleidoboard/internal/state"
)

// RenderSegment draws seg as a dihedral pattern of order 2*seg.Symmetry.
//
// Copy i is drawn after a cumulative rotation of i*seg.Angle degrees, once as
// is and once mirrored across the local x axis. The rotations of one call add
// up to a full turn and the whole call is bracketed by Push/Pop, so s is left
// in the transform state it had on entry. The translation to the canvas
// center is the caller's job.
func RenderSegment(seg state.Segment, s Surface) {
	d := seg.Delta

	s.Push()
	for i := 0; i < seg.Symmetry; i++ {
		s.Stroke(seg.Color)
		s.StrokeWeight(seg.StrokeWeight)
		s.Line(d.X, d.Y, d.PX, d.PY)

		s.Push()
		s.Scale(1, -1)
		s.Line(d.X, d.Y, d.PX, d.PY)
		s.Pop()

		s.Rotate(seg.Angle)
	}
	s.Pop()
}

// RenderAt renders seg with the surface origin moved to the canvas center.
func RenderAt(seg state.Segment, s Surface) {
	s.Push()
	s.Translate(state.CanvasArea(s.Width(), s.Height()).Center())
	RenderSegment(seg, s)
	s.Pop()
}
