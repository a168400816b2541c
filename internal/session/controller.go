package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/gg"

	"Kaleidoboard/internal/render"
	"Kaleidoboard/internal/state"
)

// DefaultTickInterval paces playback at roughly 60 segments per second.
const DefaultTickInterval = 16 * time.Millisecond

// Pointer is one pointer sample in absolute surface coordinates, together
// with the previous sample.
type Pointer struct {
	X, Y    float64
	PX, PY  float64
	Pressed bool
}

// playback is the cancellation token of one playback run. A tick only
// renders while the controller still holds the same token and the tick's
// generation is the latest one scheduled for it.
type playback struct {
	cursor *state.Cursor
	timer  Timer
	gen    uint64
}

// Controller owns the mode state machine, the live configuration and the
// session log, and routes pointer input to the symmetry renderer.
type Controller struct {
	mu         sync.Mutex
	surface    render.Surface
	sched      Scheduler
	tick       time.Duration
	background gg.RGBA
	logger     *slog.Logger

	mode       state.Mode
	resumeMode state.Mode
	cfg        state.Config
	log        *state.Log
	play       *playback

	nextSub     int
	subscribers map[int]func(state.Mode)
}

// Option configures a Controller.
type Option func(*Controller)

func WithConfig(cfg state.Config) Option {
	return func(c *Controller) { c.cfg = cfg }
}

func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.sched = s }
}

func WithTickInterval(d time.Duration) Option {
	return func(c *Controller) { c.tick = d }
}

func WithBackground(col gg.RGBA) Option {
	return func(c *Controller) { c.background = col }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// NewController creates a controller in drawing mode rendering to surface.
func NewController(surface render.Surface, opts ...Option) *Controller {
	c := &Controller{
		surface:     surface,
		sched:       TimerScheduler{},
		tick:        DefaultTickInterval,
		background:  gg.Black,
		mode:        state.ModeDrawing,
		cfg:         state.DefaultConfig(),
		log:         state.NewLog(),
		subscribers: make(map[int]func(state.Mode)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = render.Logger()
	}
	return c
}

func (c *Controller) Mode() state.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Controller) Config() state.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// SetConfig replaces the live configuration. Segments already captured keep
// the values they were built with.
func (c *Controller) SetConfig(cfg state.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
}

func (c *Controller) SetSymmetry(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Symmetry = n
}

func (c *Controller) SetStrokeWeight(w float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.StrokeWeight = w
}

// Segments returns a copy of the current session log.
func (c *Controller) Segments() []state.Segment {
	return c.log.Segments()
}

func (c *Controller) LogID() string {
	return c.log.ID()
}

func (c *Controller) LogLen() int {
	return c.log.Len()
}

// PlaybackPos is the number of segments rendered by the running playback,
// or -1 when nothing is playing.
func (c *Controller) PlaybackPos() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.play == nil {
		return -1
	}
	return c.play.cursor.Pos()
}

// Subscribe registers fn to be called after every mode change, including the
// automatic return to drawing at the end of playback. fn runs without the
// controller lock held. The returned func removes the subscription.
func (c *Controller) Subscribe(fn func(state.Mode)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// setMode must be called with c.mu held. It returns the notification to run
// once the lock is released.
func (c *Controller) setMode(m state.Mode) func() {
	if m == c.mode {
		return func() {}
	}
	c.logger.Info("[SESSION] mode change", "from", c.mode, "to", m, "log", c.log.ID())
	c.mode = m
	subs := make([]func(state.Mode), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	return func() {
		for _, fn := range subs {
			fn(m)
		}
	}
}

// ToggleLock suspends all segment processing, or resumes the mode that was
// active when the lock was taken.
func (c *Controller) ToggleLock() {
	c.mu.Lock()
	var notify func()
	if c.mode == state.ModeLocked {
		notify = c.setMode(c.resumeMode)
		if c.mode == state.ModePlaying && c.play != nil {
			c.scheduleTick(c.play)
		}
	} else {
		c.resumeMode = c.mode
		if c.play != nil && c.play.timer != nil {
			c.play.timer.Stop()
			c.play.timer = nil
			c.play.gen++
		}
		notify = c.setMode(state.ModeLocked)
	}
	c.mu.Unlock()
	notify()
}

// ToggleRecord starts a fresh recording from drawing mode, or stops the
// current one. It does nothing in any other mode.
func (c *Controller) ToggleRecord() {
	c.mu.Lock()
	notify := func() {}
	switch c.mode {
	case state.ModeDrawing:
		c.log.Reset()
		notify = c.setMode(state.ModeRecording)
	case state.ModeRecording:
		c.logger.Info("[SESSION] recording stopped", "log", c.log.ID(), "segments", c.log.Len())
		notify = c.setMode(state.ModeDrawing)
	}
	c.mu.Unlock()
	notify()
}

// TogglePlay starts playback of the session log from drawing mode, or
// abandons a running playback. It does nothing in any other mode.
func (c *Controller) TogglePlay() {
	c.mu.Lock()
	notify := func() {}
	switch c.mode {
	case state.ModeDrawing:
		c.surface.Background(c.background)
		c.play = &playback{cursor: c.log.Cursor()}
		c.logger.Info("[SESSION] playback started", "log", c.log.ID(), "segments", c.log.Len())
		notify = c.setMode(state.ModePlaying)
		c.scheduleTick(c.play)
	case state.ModePlaying:
		c.logger.Info("[SESSION] playback abandoned", "log", c.log.ID(), "rendered", c.play.cursor.Pos())
		c.stopPlayback()
		notify = c.setMode(state.ModeDrawing)
	}
	c.mu.Unlock()
	notify()
}

// ClearCanvas fills the surface with the background color. The session log
// is left alone.
func (c *Controller) ClearCanvas() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.surface.Background(c.background)
}

// ResetLog empties the session log without touching the canvas. A running
// playback keeps its cursor and ends at the next tick.
func (c *Controller) ResetLog() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log.Reset()
}

// Frame processes one pointer sample. Outside the locked and playing modes,
// a pressed pointer inside the canvas becomes a segment that is rendered and,
// while recording, appended to the log.
func (c *Controller) Frame(p Pointer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == state.ModeLocked || c.mode == state.ModePlaying || !p.Pressed {
		return
	}
	w, h := c.surface.Width(), c.surface.Height()
	if !state.CanvasArea(w, h).Contains(p.X, p.Y) {
		return
	}

	delta := state.NewPointerDelta(p.X, p.Y, p.PX, p.PY, w, h)
	color := render.RainbowColor(p.Y, p.X, render.ColorRange(w, h))
	seg := state.NewSegment(c.cfg, delta, color)

	if c.mode == state.ModeRecording {
		c.log.Append(seg)
	}
	render.RenderAt(seg, c.surface)
}

// ReplayInto renders the whole session log onto s at once, with no pacing.
// The mode and the live surface are not affected.
func (c *Controller) ReplayInto(s render.Surface) int {
	segs := c.log.Segments()
	for _, seg := range segs {
		render.RenderAt(seg, s)
	}
	return len(segs)
}

// scheduleTick must be called with c.mu held. Each call starts a new
// generation, so a callback that fired before its timer was stopped finds
// itself outdated and does nothing.
func (c *Controller) scheduleTick(p *playback) {
	p.gen++
	gen := p.gen
	p.timer = c.sched.AfterFunc(c.tick, func() { c.onTick(p, gen) })
}

func (c *Controller) onTick(p *playback, gen uint64) {
	c.mu.Lock()
	if c.play != p || p.gen != gen || c.mode != state.ModePlaying {
		c.mu.Unlock()
		return
	}

	if p.cursor.Done() {
		c.logger.Info("[SESSION] playback finished", "log", c.log.ID(), "rendered", p.cursor.Pos())
		c.surface.Background(c.background)
		c.play = nil
		notify := c.setMode(state.ModeDrawing)
		c.mu.Unlock()
		notify()
		return
	}

	seg, _ := p.cursor.Next()
	c.logger.Debug("[SESSION] playback tick", "pos", p.cursor.Pos())
	render.RenderAt(seg, c.surface)
	c.scheduleTick(p)
	c.mu.Unlock()
}

// stopPlayback must be called with c.mu held.
func (c *Controller) stopPlayback() {
	if c.play == nil {
		return
	}
	if c.play.timer != nil {
		c.play.timer.Stop()
	}
	c.play = nil
}
