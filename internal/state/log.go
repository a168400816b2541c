package state

import (
	"sync"
)

// Log is the ordered record of segments captured during one recording.
// It only grows while recording and is replaced wholesale by Reset.
type Log struct {
	id       string
	segments []Segment
	mu       sync.RWMutex
}

// NewLog creates an empty log with a fresh id.
func NewLog() *Log {
	return &Log{id: newLogID()}
}

// ID identifies the current recording. It changes on every Reset.
func (l *Log) ID() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.id
}

func (l *Log) Append(s Segment) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.segments = append(l.segments, s)
}

// Reset drops all segments and starts a new recording id.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.segments = nil
	l.id = newLogID()
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.segments)
}

// At returns the i-th segment and whether it exists.
func (l *Log) At(i int) (Segment, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.segments) {
		return Segment{}, false
	}
	return l.segments[i], true
}

// Segments returns a copy of the recorded segments.
func (l *Log) Segments() []Segment {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Segment, len(l.segments))
	copy(out, l.segments)
	return out
}

// Cursor reads a log front to back without draining or copying it.
type Cursor struct {
	log *Log
	pos int
}

func (l *Log) Cursor() *Cursor {
	return &Cursor{log: l}
}

// Next returns the segment under the cursor and advances it. The second
// result is false once the log is exhausted.
func (c *Cursor) Next() (Segment, bool) {
	s, ok := c.log.At(c.pos)
	if ok {
		c.pos++
	}
	return s, ok
}

// Pos is the number of segments consumed so far.
func (c *Cursor) Pos() int {
	return c.pos
}

// Done reports whether no segments are left to read.
func (c *Cursor) Done() bool {
	return c.pos >= c.log.Len()
}
