package session

import (
	"testing"
	"time"

	"github.com/gogpu/gg"
	"github.com/google/go-cmp/cmp"

	"Kaleidoboard/internal/render"
	"Kaleidoboard/internal/state"
)

const tick = DefaultTickInterval

func newTestController(opts ...Option) (*Controller, *render.Recorder, *ManualScheduler) {
	rec := render.NewRecorder(200, 100)
	sched := NewManualScheduler()
	opts = append([]Option{WithScheduler(sched)}, opts...)
	return NewController(rec, opts...), rec, sched
}

// drag produces a pressed pointer sample inside the 200x100 test canvas.
func drag(i int) Pointer {
	x := 20 + float64(i)
	return Pointer{X: x, Y: 30, PX: x - 1, PY: 31, Pressed: true}
}

type trigger int

const (
	toggleLock trigger = iota
	toggleRecord
	togglePlay
)

func (tr trigger) String() string {
	return [...]string{"toggle-lock", "toggle-record", "toggle-play"}[tr]
}

func fire(c *Controller, tr trigger) {
	switch tr {
	case toggleLock:
		c.ToggleLock()
	case toggleRecord:
		c.ToggleRecord()
	case togglePlay:
		c.TogglePlay()
	}
}

// enter drives a fresh controller into m. Playing is entered with a
// non-empty log so it does not end on its own.
func enter(t *testing.T, c *Controller, m state.Mode) {
	t.Helper()
	switch m {
	case state.ModeDrawing:
	case state.ModeRecording:
		c.ToggleRecord()
	case state.ModePlaying:
		c.ToggleRecord()
		c.Frame(drag(0))
		c.ToggleRecord()
		c.TogglePlay()
	case state.ModeLocked:
		c.ToggleLock()
	}
	if got := c.Mode(); got != m {
		t.Fatalf("could not enter %v, in %v", m, got)
	}
}

func TestModeTransitionTable(t *testing.T) {
	tests := []struct {
		from    state.Mode
		trigger trigger
		want    state.Mode
	}{
		{state.ModeDrawing, toggleLock, state.ModeLocked},
		{state.ModeRecording, toggleLock, state.ModeLocked},
		{state.ModePlaying, toggleLock, state.ModeLocked},
		{state.ModeLocked, toggleLock, state.ModeDrawing},

		{state.ModeDrawing, toggleRecord, state.ModeRecording},
		{state.ModeRecording, toggleRecord, state.ModeDrawing},
		{state.ModePlaying, toggleRecord, state.ModePlaying},
		{state.ModeLocked, toggleRecord, state.ModeLocked},

		{state.ModeDrawing, togglePlay, state.ModePlaying},
		{state.ModePlaying, togglePlay, state.ModeDrawing},
		{state.ModeRecording, togglePlay, state.ModeRecording},
		{state.ModeLocked, togglePlay, state.ModeLocked},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"_"+tt.trigger.String(), func(t *testing.T) {
			c, _, _ := newTestController()
			enter(t, c, tt.from)
			fire(c, tt.trigger)
			if got := c.Mode(); got != tt.want {
				t.Errorf("%v + %v = %v, want %v", tt.from, tt.trigger, got, tt.want)
			}
		})
	}
}

func TestUnlockResumesPreviousMode(t *testing.T) {
	for _, m := range []state.Mode{state.ModeDrawing, state.ModeRecording, state.ModePlaying} {
		t.Run(m.String(), func(t *testing.T) {
			c, _, _ := newTestController()
			enter(t, c, m)
			c.ToggleLock()
			c.ToggleLock()
			if got := c.Mode(); got != m {
				t.Errorf("after lock/unlock mode = %v, want %v", got, m)
			}
		})
	}
}

func TestFrameDrawingRendersWithoutLogging(t *testing.T) {
	c, rec, _ := newTestController(WithConfig(state.Config{Symmetry: 6, StrokeWeight: 2}))
	c.Frame(drag(0))
	if got := rec.Count(render.CallLine); got != 12 {
		t.Errorf("lines = %d, want 12", got)
	}
	if c.LogLen() != 0 {
		t.Errorf("LogLen() = %d in drawing mode, want 0", c.LogLen())
	}
	if rec.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", rec.Depth())
	}
}

func TestFrameIgnoresReleasedAndOutOfBounds(t *testing.T) {
	samples := []Pointer{
		{X: 50, Y: 50, PX: 49, PY: 49, Pressed: false},
		{X: 0, Y: 50, PX: 1, PY: 50, Pressed: true},
		{X: 200, Y: 50, PX: 199, PY: 50, Pressed: true},
		{X: 50, Y: 0, PX: 50, PY: 1, Pressed: true},
		{X: 50, Y: 100, PX: 50, PY: 99, Pressed: true},
		{X: -30, Y: 250, PX: -31, PY: 251, Pressed: true},
	}
	c, rec, _ := newTestController()
	c.ToggleRecord()
	for _, p := range samples {
		c.Frame(p)
	}
	if n := len(rec.Calls()); n != 0 {
		t.Errorf("%d draw calls for rejected samples, want 0", n)
	}
	if c.LogLen() != 0 {
		t.Errorf("LogLen() = %d, want 0", c.LogLen())
	}
}

func TestFrameLockedDoesNothing(t *testing.T) {
	c, rec, _ := newTestController()
	c.ToggleRecord()
	c.ToggleLock()
	c.Frame(drag(0))
	if n := len(rec.Calls()); n != 0 {
		t.Errorf("%d draw calls while locked, want 0", n)
	}
	if c.LogLen() != 0 {
		t.Errorf("LogLen() = %d while locked, want 0", c.LogLen())
	}
}

func TestRecordingCapturesSnapshots(t *testing.T) {
	c, _, _ := newTestController(WithConfig(state.Config{Symmetry: 4, StrokeWeight: 1}))
	c.ToggleRecord()
	c.Frame(drag(0))
	c.SetSymmetry(10)
	c.SetStrokeWeight(7)
	c.Frame(drag(1))
	c.ToggleRecord()

	segs := c.Segments()
	if len(segs) != 2 {
		t.Fatalf("recorded %d segments, want 2", len(segs))
	}
	if segs[0].Symmetry != 4 || segs[0].Angle != 90 || segs[0].StrokeWeight != 1 {
		t.Errorf("first segment = %+v", segs[0])
	}
	if segs[1].Symmetry != 10 || segs[1].Angle != 36 || segs[1].StrokeWeight != 7 {
		t.Errorf("second segment = %+v", segs[1])
	}
	if segs[0].Delta != (state.PointerDelta{X: -80, Y: -20, PX: -81, PY: -19}) {
		t.Errorf("first delta = %+v", segs[0].Delta)
	}
}

func TestRecordingResetsLogOnEntry(t *testing.T) {
	c, _, _ := newTestController()
	c.ToggleRecord()
	c.Frame(drag(0))
	c.Frame(drag(1))
	c.ToggleRecord()
	first := c.LogID()

	c.ToggleRecord()
	if c.LogLen() != 0 {
		t.Errorf("LogLen() = %d after new recording, want 0", c.LogLen())
	}
	if c.LogID() == first {
		t.Error("new recording kept the old log id")
	}
}

func lineSets(calls []render.Call) [][]float64 {
	var out [][]float64
	for _, c := range calls {
		if c.Type == render.CallLine && !c.Mirrored && c.Rotation == 0 {
			out = append(out, c.Args)
		}
	}
	return out
}

func TestPlaybackOrderAndPacing(t *testing.T) {
	c, rec, sched := newTestController(WithConfig(state.Config{Symmetry: 2, StrokeWeight: 1}))
	c.ToggleRecord()
	const n = 5
	for i := 0; i < n; i++ {
		c.Frame(drag(i))
	}
	c.ToggleRecord()
	recorded := lineSets(rec.Calls())
	rec.Reset()

	c.TogglePlay()
	if got := rec.Count(render.CallLine); got != 0 {
		t.Fatalf("%d lines before the first tick, want 0", got)
	}

	for i := 1; i <= n; i++ {
		sched.Advance(tick)
		if got, want := rec.Count(render.CallLine), 4*i; got != want {
			t.Fatalf("after tick %d: %d lines, want %d", i, got, want)
		}
		if c.Mode() != state.ModePlaying {
			t.Fatalf("after tick %d: mode = %v, want playing", i, c.Mode())
		}
		if c.PlaybackPos() != i {
			t.Errorf("after tick %d: PlaybackPos() = %d", i, c.PlaybackPos())
		}
	}

	if diff := cmp.Diff(recorded, lineSets(rec.Calls())); diff != "" {
		t.Errorf("playback order (-recorded +played):\n%s", diff)
	}

	sched.Advance(tick)
	if c.Mode() != state.ModeDrawing {
		t.Errorf("mode = %v after log exhausted, want drawing", c.Mode())
	}
	calls := rec.Calls()
	if last := calls[len(calls)-1]; last.Type != render.CallBackground {
		t.Errorf("last call = %v, want Background", last.Type)
	}
	if c.PlaybackPos() != -1 {
		t.Errorf("PlaybackPos() = %d after playback, want -1", c.PlaybackPos())
	}
	if sched.Pending() != 0 {
		t.Errorf("%d callbacks still pending", sched.Pending())
	}
	if c.LogLen() != n {
		t.Errorf("LogLen() = %d after playback, want %d", c.LogLen(), n)
	}
}

func TestPlaybackEmptyLogEndsOnFirstTick(t *testing.T) {
	c, _, sched := newTestController()
	c.TogglePlay()
	if c.Mode() != state.ModePlaying {
		t.Fatalf("mode = %v, want playing", c.Mode())
	}
	sched.Advance(tick)
	if c.Mode() != state.ModeDrawing {
		t.Errorf("mode = %v, want drawing", c.Mode())
	}
}

func TestPlaybackCancelStopsRendering(t *testing.T) {
	c, rec, sched := newTestController(WithConfig(state.Config{Symmetry: 2, StrokeWeight: 1}))
	c.ToggleRecord()
	for i := 0; i < 10; i++ {
		c.Frame(drag(i))
	}
	c.ToggleRecord()
	rec.Reset()

	c.TogglePlay()
	sched.Advance(3 * tick)
	c.TogglePlay()
	drawn := rec.Count(render.CallLine)
	if drawn != 12 {
		t.Fatalf("%d lines after 3 ticks, want 12", drawn)
	}

	sched.Advance(20 * tick)
	if got := rec.Count(render.CallLine); got != drawn {
		t.Errorf("%d lines drawn after cancel", got-drawn)
	}
	if c.Mode() != state.ModeDrawing {
		t.Errorf("mode = %v, want drawing", c.Mode())
	}
}

func TestPlaybackRestartAfterCancelStartsOver(t *testing.T) {
	c, rec, sched := newTestController(WithConfig(state.Config{Symmetry: 2, StrokeWeight: 1}))
	c.ToggleRecord()
	for i := 0; i < 4; i++ {
		c.Frame(drag(i))
	}
	c.ToggleRecord()

	c.TogglePlay()
	sched.Advance(2 * tick)
	c.TogglePlay()
	c.TogglePlay()
	rec.Reset()

	sched.Advance(4 * tick)
	if got := rec.Count(render.CallLine); got != 16 {
		t.Errorf("%d lines, want 16 (one run, no leftovers from the abandoned one)", got)
	}
	sched.Advance(tick)
	if c.Mode() != state.ModeDrawing {
		t.Errorf("mode = %v, want drawing", c.Mode())
	}
}

func TestPlaybackLockPausesAndResumes(t *testing.T) {
	c, rec, sched := newTestController(WithConfig(state.Config{Symmetry: 2, StrokeWeight: 1}))
	c.ToggleRecord()
	for i := 0; i < 3; i++ {
		c.Frame(drag(i))
	}
	c.ToggleRecord()
	rec.Reset()

	c.TogglePlay()
	sched.Advance(tick)
	c.ToggleLock()
	sched.Advance(10 * tick)
	if got := rec.Count(render.CallLine); got != 4 {
		t.Fatalf("%d lines while locked, want 4", got)
	}

	c.ToggleLock()
	sched.Advance(2 * tick)
	if got := rec.Count(render.CallLine); got != 12 {
		t.Errorf("%d lines after resume, want 12", got)
	}
	sched.Advance(tick)
	if c.Mode() != state.ModeDrawing {
		t.Errorf("mode = %v, want drawing", c.Mode())
	}
}

// lateScheduler models timers whose callback is already on its way when
// Stop is called: Stop reports false and the callback still runs.
type lateScheduler struct {
	*ManualScheduler
}

type lateTimer struct{}

func (lateTimer) Stop() bool { return false }

func (s lateScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.ManualScheduler.AfterFunc(d, f)
	return lateTimer{}
}

func TestPlaybackLockIgnoresLateTick(t *testing.T) {
	sched := lateScheduler{NewManualScheduler()}
	c := NewController(render.NewRecorder(200, 100), WithScheduler(sched))
	c.ToggleRecord()
	for i := 0; i < 6; i++ {
		c.Frame(drag(i))
	}
	c.ToggleRecord()

	c.TogglePlay()
	c.ToggleLock()
	c.ToggleLock()

	sched.Advance(tick)
	if got := c.PlaybackPos(); got != 1 {
		t.Fatalf("rendered %d segments in one tick, want 1", got)
	}
	sched.Advance(tick)
	if got := c.PlaybackPos(); got != 2 {
		t.Errorf("rendered %d segments in two ticks, want 2", got)
	}
	if got := sched.Pending(); got != 1 {
		t.Errorf("%d tick chains pending, want 1", got)
	}
}

func TestPlaybackIgnoresLivePointer(t *testing.T) {
	c, rec, _ := newTestController()
	enter(t, c, state.ModePlaying)
	rec.Reset()
	c.Frame(drag(3))
	if n := len(rec.Calls()); n != 0 {
		t.Errorf("%d draw calls from live input during playback", n)
	}
	if c.LogLen() != 1 {
		t.Errorf("LogLen() = %d, want 1", c.LogLen())
	}
}

func TestPlaybackSelfContained(t *testing.T) {
	record := func(live state.Config) []render.Call {
		c, rec, sched := newTestController(WithConfig(state.Config{Symmetry: 8, StrokeWeight: 3}))
		c.ToggleRecord()
		for i := 0; i < 3; i++ {
			c.Frame(drag(i))
		}
		c.ToggleRecord()
		c.SetConfig(live)
		rec.Reset()
		c.TogglePlay()
		sched.Advance(4 * tick)
		return rec.Calls()
	}

	same := record(state.Config{Symmetry: 8, StrokeWeight: 3})
	changed := record(state.Config{Symmetry: 30, StrokeWeight: 11})
	if diff := cmp.Diff(same, changed); diff != "" {
		t.Errorf("playback depends on live config (-capture config +other config):\n%s", diff)
	}
}

func TestClearCanvasAndResetLogAreIndependent(t *testing.T) {
	c, rec, _ := newTestController()
	c.ToggleRecord()
	c.Frame(drag(0))
	c.ToggleRecord()
	rec.Reset()

	c.ClearCanvas()
	if c.LogLen() != 1 {
		t.Errorf("ClearCanvas changed the log: LogLen() = %d", c.LogLen())
	}
	if rec.Count(render.CallBackground) != 1 {
		t.Errorf("ClearCanvas did not fill the background")
	}

	rec.Reset()
	c.ResetLog()
	if c.LogLen() != 0 {
		t.Errorf("LogLen() = %d after ResetLog, want 0", c.LogLen())
	}
	if n := len(rec.Calls()); n != 0 {
		t.Errorf("ResetLog issued %d draw calls", n)
	}
}

func TestSubscribeSeesAutomaticTransition(t *testing.T) {
	c, _, sched := newTestController()
	var seen []state.Mode
	cancel := c.Subscribe(func(m state.Mode) { seen = append(seen, m) })

	c.ToggleRecord()
	c.Frame(drag(0))
	c.ToggleRecord()
	c.TogglePlay()
	c.TogglePlay()
	c.TogglePlay()
	sched.Advance(2 * tick)

	want := []state.Mode{
		state.ModeRecording, state.ModeDrawing,
		state.ModePlaying, state.ModeDrawing,
		state.ModePlaying, state.ModeDrawing,
	}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("notifications (-want +got):\n%s", diff)
	}

	cancel()
	c.ToggleLock()
	if len(seen) != len(want) {
		t.Error("notification after cancel")
	}
}

func TestNoOpTriggersDoNotNotify(t *testing.T) {
	c, _, _ := newTestController()
	c.ToggleRecord()
	calls := 0
	c.Subscribe(func(state.Mode) { calls++ })
	c.TogglePlay()
	if calls != 0 {
		t.Errorf("%d notifications for a no-op trigger", calls)
	}
}

func TestReplayInto(t *testing.T) {
	c, _, _ := newTestController(WithConfig(state.Config{Symmetry: 4, StrokeWeight: 1}))
	c.ToggleRecord()
	for i := 0; i < 3; i++ {
		c.Frame(drag(i))
	}
	c.ToggleRecord()

	out := render.NewRecorder(200, 100)
	if n := c.ReplayInto(out); n != 3 {
		t.Errorf("ReplayInto() = %d, want 3", n)
	}
	if got := out.Count(render.CallLine); got != 24 {
		t.Errorf("lines = %d, want 24", got)
	}
	if c.Mode() != state.ModeDrawing {
		t.Errorf("mode = %v, want drawing", c.Mode())
	}
}

func TestFrameColorFollowsPointer(t *testing.T) {
	c, rec, _ := newTestController(WithConfig(state.Config{Symmetry: 2, StrokeWeight: 1}))
	p := drag(0)
	c.Frame(p)

	want := render.RainbowColor(p.Y, p.X, render.ColorRange(200, 100))
	for _, call := range rec.Calls() {
		if call.Type == render.CallStroke && call.Color != want {
			t.Errorf("stroke = %+v, want %+v", call.Color, want)
		}
	}
}

func TestWithBackground(t *testing.T) {
	c, rec, _ := newTestController(WithBackground(gg.White))
	c.ClearCanvas()
	calls := rec.Calls()
	if len(calls) != 1 || calls[0].Color != gg.White {
		t.Errorf("calls = %+v, want one white background", calls)
	}
}

func TestTimerSchedulerDispatch(t *testing.T) {
	done := make(chan string, 1)
	s := TimerScheduler{Dispatch: func(f func()) {
		f()
		done <- "dispatched"
	}}
	s.AfterFunc(time.Millisecond, func() {})
	select {
	case got := <-done:
		if got != "dispatched" {
			t.Errorf("got %q", got)
		}
	case <-time.After(time.Second):
		t.Fatal("callback never dispatched")
	}
}

func TestTimerSchedulerStop(t *testing.T) {
	fired := make(chan struct{}, 1)
	timer := TimerScheduler{}.AfterFunc(50*time.Millisecond, func() { fired <- struct{}{} })
	if !timer.Stop() {
		t.Fatal("Stop() = false for a pending timer")
	}
	select {
	case <-fired:
		t.Error("stopped timer fired")
	case <-time.After(100 * time.Millisecond):
	}
}
