package state

import (
	"errors"
	"fmt"

	"github.com/gogpu/gg"
)

// Mode is the interaction state that gates how pointer input is processed.
type Mode uint8

const (
	ModeDrawing Mode = iota
	ModeLocked
	ModeRecording
	ModePlaying
)

func (m Mode) String() string {
	switch m {
	case ModeDrawing:
		return "drawing"
	case ModeLocked:
		return "locked"
	case ModeRecording:
		return "recording"
	case ModePlaying:
		return "playing"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

const (
	DefaultSymmetry     = 12
	DefaultStrokeWeight = 2.0
)

var (
	ErrInvalidSymmetry     = errors.New("symmetry must be an even integer >= 2")
	ErrInvalidStrokeWeight = errors.New("stroke weight must be positive")
)

// Config is the live symmetry and stroke configuration pushed by the controls.
type Config struct {
	Symmetry     int
	StrokeWeight float64
}

func DefaultConfig() Config {
	return Config{Symmetry: DefaultSymmetry, StrokeWeight: DefaultStrokeWeight}
}

// Angle is the rotation between two neighbouring copies, in degrees.
func (c Config) Angle() float64 {
	return 360 / float64(c.Symmetry)
}

// Validate is for the controls layer; the renderer and controller trust their input.
func (c Config) Validate() error {
	if c.Symmetry < 2 || c.Symmetry%2 != 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSymmetry, c.Symmetry)
	}
	if !(c.StrokeWeight > 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidStrokeWeight, c.StrokeWeight)
	}
	return nil
}

// PointerDelta holds the current and previous pointer sample as offsets from
// the canvas center.
type PointerDelta struct {
	X, Y   float64
	PX, PY float64
}

// NewPointerDelta converts absolute surface coordinates to center-relative ones.
func NewPointerDelta(x, y, px, py, width, height float64) PointerDelta {
	cx, cy := CanvasArea(width, height).Center()
	return PointerDelta{
		X:  x - cx,
		Y:  y - cy,
		PX: px - cx,
		PY: py - cy,
	}
}

// Segment is an immutable snapshot of one pointer drag step together with the
// styling and symmetry in effect when it was captured.
type Segment struct {
	Delta        PointerDelta
	StrokeWeight float64
	Angle        float64
	Symmetry     int
	Color        gg.RGBA
}

// NewSegment captures cfg by value. Later changes to the live configuration do
// not reach the returned segment.
func NewSegment(cfg Config, delta PointerDelta, color gg.RGBA) Segment {
	return Segment{
		Delta:        delta,
		StrokeWeight: cfg.StrokeWeight,
		Angle:        cfg.Angle(),
		Symmetry:     cfg.Symmetry,
		Color:        color,
	}
}
