package state

// Area is a rectangle on the canvas in surface coordinates.
type Area struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// CanvasArea covers a whole surface of the given size.
func CanvasArea(width, height float64) Area {
	return Area{Width: width, Height: height}
}

// Contains uses strict bounds: samples on the border are outside.
func (a Area) Contains(x, y float64) bool {
	return x > a.X && x < a.X+a.Width &&
		y > a.Y && y < a.Y+a.Height
}

// Center returns the midpoint of the area.
func (a Area) Center() (float64, float64) {
	return a.X + a.Width/2, a.Y + a.Height/2
}
