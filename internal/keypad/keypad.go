// Package keypad turns a 4x4 drive/sense matrix into debounced key
// events. Polling happens on the caller's loop; the package holds no
// locks and touches no shared state.
package keypad

import (
	"context"
	"time"
)

// Command key indices on the right-hand column of the matrix.
const (
	KeyMenu   = 3
	KeyBack   = 7
	KeySend   = 11
	KeyDelete = 15
)

// DefaultCooldown is the minimum interval before the same key is
// accepted again.
const DefaultCooldown = 150 * time.Millisecond

// DefaultInterval is the matrix poll period.
const DefaultInterval = 20 * time.Millisecond

// keyIndex maps (row, column) to the logical key index 0..15.
var keyIndex = [4][4]int{
	{0, 1, 2, 3},
	{4, 5, 6, 7},
	{8, 9, 10, 11},
	{12, 13, 14, 15},
}

// IsCommand reports whether an index is one of the four command keys.
func IsCommand(index int) bool {
	return index == KeyMenu || index == KeyBack || index == KeySend || index == KeyDelete
}

// Event is one accepted key press.
type Event struct {
	Index int
	At    time.Time
}

// Matrix is the physical 4x4 matrix: drive one row active, sense the
// columns. An all-inactive matrix is the normal idle state.
type Matrix interface {
	SetRow(row int, active bool)
	Column(col int) bool
}

// Scanner polls a Matrix and emits at most one event per key press.
type Scanner struct {
	matrix   Matrix
	cooldown time.Duration
	now      func() time.Time

	held       int // raw index currently down, -1 when idle
	lastAccept time.Time
}

func NewScanner(m Matrix, cooldown time.Duration) *Scanner {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Scanner{matrix: m, cooldown: cooldown, now: time.Now, held: -1}
}

// Poll drives each row in turn and returns the first pressed key index,
// or -1 if nothing is down. No key pressed is a steady state, not an
// error.
func (s *Scanner) Poll() int {
	for row := 0; row < 4; row++ {
		s.matrix.SetRow(row, true)
		for col := 0; col < 4; col++ {
			if s.matrix.Column(col) {
				s.matrix.SetRow(row, false)
				return keyIndex[row][col]
			}
		}
		s.matrix.SetRow(row, false)
	}
	return -1
}

// Step performs one poll cycle and reports whether a new key press was
// accepted. A held key yields exactly one event; the same key is only
// accepted again once it was released and the cooldown has elapsed
// since the last acceptance.
func (s *Scanner) Step() (Event, bool) {
	raw := s.Poll()
	if raw == s.held {
		return Event{}, false
	}
	s.held = raw
	if raw < 0 {
		return Event{}, false
	}
	now := s.now()
	if now.Sub(s.lastAccept) < s.cooldown {
		return Event{}, false
	}
	s.lastAccept = now
	return Event{Index: raw, At: now}, true
}

// Run polls until the context is cancelled, delivering events on out.
// Events are dropped if the consumer lags; scanning never stalls.
func (s *Scanner) Run(ctx context.Context, interval time.Duration, out chan<- Event) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ev, ok := s.Step(); ok {
				select {
				case out <- ev:
				default:
				}
			}
		}
	}
}
