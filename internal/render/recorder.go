package render

import (
	"fmt"
	"sync"

	"github.com/gogpu/gg"
)

// CallType identifies a Surface primitive.
type CallType uint8

const (
	CallPush CallType = iota
	CallPop
	CallTranslate
	CallRotate
	CallScale
	CallStroke
	CallStrokeWeight
	CallLine
	CallBackground
)

var callTypeNames = [...]string{
	CallPush:         "Push",
	CallPop:          "Pop",
	CallTranslate:    "Translate",
	CallRotate:       "Rotate",
	CallScale:        "Scale",
	CallStroke:       "Stroke",
	CallStrokeWeight: "StrokeWeight",
	CallLine:         "Line",
	CallBackground:   "Background",
}

func (t CallType) String() string {
	if int(t) < len(callTypeNames) {
		return callTypeNames[t]
	}
	return fmt.Sprintf("CallType(%d)", t)
}

// Call is one recorded primitive. Rotation and Mirrored describe the
// recorder's frame at the time of the call, accumulated since the last
// Reset.
type Call struct {
	Type     CallType
	Args     []float64
	Color    gg.RGBA
	Rotation float64
	Mirrored bool
}

type frame struct {
	rotation float64
	mirrored bool
}

// Recorder is a Surface that draws nothing and remembers every call.
// It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	width  float64
	height float64
	calls  []Call
	cur    frame
	stack  []frame
}

var _ Surface = (*Recorder)(nil)

func NewRecorder(width, height float64) *Recorder {
	return &Recorder{width: width, height: height}
}

func (r *Recorder) add(c Call) {
	c.Rotation = r.cur.rotation
	c.Mirrored = r.cur.mirrored
	r.calls = append(r.calls, c)
}

func (r *Recorder) Push() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(Call{Type: CallPush})
	r.stack = append(r.stack, r.cur)
}

func (r *Recorder) Pop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(Call{Type: CallPop})
	if n := len(r.stack); n > 0 {
		r.cur = r.stack[n-1]
		r.stack = r.stack[:n-1]
	}
}

func (r *Recorder) Translate(x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(Call{Type: CallTranslate, Args: []float64{x, y}})
}

func (r *Recorder) Rotate(degrees float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(Call{Type: CallRotate, Args: []float64{degrees}})
	r.cur.rotation += degrees
}

func (r *Recorder) Scale(sx, sy float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(Call{Type: CallScale, Args: []float64{sx, sy}})
	if (sx < 0) != (sy < 0) {
		r.cur.mirrored = !r.cur.mirrored
	}
}

func (r *Recorder) Stroke(c gg.RGBA) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(Call{Type: CallStroke, Color: c})
}

func (r *Recorder) StrokeWeight(w float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(Call{Type: CallStrokeWeight, Args: []float64{w}})
}

func (r *Recorder) Line(x1, y1, x2, y2 float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(Call{Type: CallLine, Args: []float64{x1, y1, x2, y2}})
}

func (r *Recorder) Background(c gg.RGBA) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(Call{Type: CallBackground, Color: c})
}

func (r *Recorder) Width() float64  { return r.width }
func (r *Recorder) Height() float64 { return r.height }

// Calls returns a copy of everything recorded so far.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Count returns how many calls of type t were recorded.
func (r *Recorder) Count(t CallType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Type == t {
			n++
		}
	}
	return n
}

// Depth is the current Push nesting level.
func (r *Recorder) Depth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stack)
}

// Rotation is the accumulated rotation of the current frame in degrees.
func (r *Recorder) Rotation() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cur.rotation
}

// Reset forgets all calls and returns to the identity frame.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.stack = nil
	r.cur = frame{}
}
