// Package t9 implements multi-tap text entry over the 4x4 keypad:
// repeated taps on one key within the cycling window step through that
// key's candidate characters.
package t9

import "time"

// DefaultTimeout is the per-character cycling window.
const DefaultTimeout = time.Second

// DefaultLimit is the usable capacity of the composition buffer.
const DefaultLimit = 127

// candidates maps text-key indices to their tap sequence. Command key
// indices (3, 7, 11, 15) have no entry; the screen layer never feeds
// them to a session.
var candidates = map[int][]rune{
	0:  []rune("1.,!?"),
	1:  []rune("ABC2"),
	2:  []rune("DEF3"),
	4:  []rune("GHI4"),
	5:  []rune("JKL5"),
	6:  []rune("MNO6"),
	8:  []rune("PQRS7"),
	9:  []rune("TUV8"),
	10: []rune("WXYZ9"),
	12: []rune("*+-"),
	13: []rune(" 0"),
	14: []rune("#@"),
}

// Session is the multi-tap decoder state for one composition. It is not
// safe for concurrent use; the owner serializes access.
type Session struct {
	limit   int
	timeout time.Duration

	buf       []rune
	lastIndex int
	offset    int
	lastAt    time.Time
}

func NewSession(limit int, timeout time.Duration) *Session {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Session{limit: limit, timeout: timeout, lastIndex: -1}
}

// Tap feeds one text-key event. Re-tapping the pending key inside the
// window replaces the trailing character with the next candidate;
// anything else starts a new character with the first candidate.
func (s *Session) Tap(index int, at time.Time) {
	chars := candidates[index]
	if len(chars) == 0 {
		return
	}
	if index == s.lastIndex && len(s.buf) > 0 && at.Sub(s.lastAt) < s.timeout {
		s.offset = (s.offset + 1) % len(chars)
		s.buf[len(s.buf)-1] = chars[s.offset]
	} else {
		if len(s.buf) >= s.limit {
			// Buffer full: drop the newest input, keep scanning alive.
			s.lastIndex = -1
			return
		}
		s.offset = 0
		s.buf = append(s.buf, chars[0])
	}
	s.lastIndex = index
	s.lastAt = at
}

// DeleteLast removes one trailing character and breaks any pending
// cycle. Deleting from an empty buffer is a no-op.
func (s *Session) DeleteLast() {
	if len(s.buf) > 0 {
		s.buf = s.buf[:len(s.buf)-1]
	}
	s.lastIndex = -1
	s.offset = 0
}

// Expire resets the pending cycle once the window has passed. The
// buffer itself is untouched; the next tap simply starts a new
// character.
func (s *Session) Expire(at time.Time) {
	if s.lastIndex >= 0 && at.Sub(s.lastAt) >= s.timeout {
		s.lastIndex = -1
	}
}

// Take returns the composed text and resets the session for the next
// message.
func (s *Session) Take() string {
	text := string(s.buf)
	s.Clear()
	return text
}

// Clear empties the buffer and returns the session to idle.
func (s *Session) Clear() {
	s.buf = s.buf[:0]
	s.lastIndex = -1
	s.offset = 0
}

func (s *Session) Text() string {
	return string(s.buf)
}

func (s *Session) Len() int {
	return len(s.buf)
}
