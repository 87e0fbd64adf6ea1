package t9

import (
	"testing"
	"time"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestTapCyclesAndWraps(t *testing.T) {
	s := NewSession(0, 0)
	// Key "2" (index 1) carries A B C 2.
	for i, want := range []string{"A", "B", "C", "2", "A"} {
		s.Tap(1, t0.Add(time.Duration(i)*100*time.Millisecond))
		if got := s.Text(); got != want {
			t.Fatalf("tap %d: got %q, want %q", i+1, got, want)
		}
	}
}

func TestDifferentKeyStartsNewCharacter(t *testing.T) {
	s := NewSession(0, 0)
	s.Tap(1, t0)
	s.Tap(2, t0.Add(100*time.Millisecond))
	if got := s.Text(); got != "AD" {
		t.Fatalf("got %q, want AD", got)
	}
}

func TestTimeoutStartsNewCharacter(t *testing.T) {
	s := NewSession(0, 0)
	s.Tap(1, t0)
	s.Tap(1, t0.Add(DefaultTimeout))
	if got := s.Text(); got != "AA" {
		t.Fatalf("got %q, want AA", got)
	}
}

func TestExpireBreaksPendingCycle(t *testing.T) {
	s := NewSession(0, 0)
	s.Tap(1, t0)
	s.Expire(t0.Add(DefaultTimeout))
	s.Tap(1, t0.Add(DefaultTimeout+time.Millisecond))
	if got := s.Text(); got != "AA" {
		t.Fatalf("got %q, want AA", got)
	}
}

func TestDeleteRemovesOneAndNeverUnderflows(t *testing.T) {
	s := NewSession(0, 0)
	s.Tap(1, t0)
	s.Tap(2, t0.Add(100*time.Millisecond))
	s.DeleteLast()
	if got := s.Text(); got != "A" {
		t.Fatalf("got %q, want A", got)
	}
	s.DeleteLast()
	s.DeleteLast()
	if got := s.Text(); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestDeleteBreaksCycle(t *testing.T) {
	s := NewSession(0, 0)
	s.Tap(1, t0)
	s.DeleteLast()
	s.Tap(1, t0.Add(50*time.Millisecond))
	if got := s.Text(); got != "A" {
		t.Fatalf("delete must reset the cycle, got %q", got)
	}
}

func TestBufferFullDropsNewest(t *testing.T) {
	s := NewSession(2, 0)
	s.Tap(1, t0)
	s.Tap(2, t0.Add(100*time.Millisecond))
	s.Tap(4, t0.Add(200*time.Millisecond))
	if got := s.Text(); got != "AD" {
		t.Fatalf("got %q, want AD", got)
	}
}

func TestTakeClearsSession(t *testing.T) {
	s := NewSession(0, 0)
	s.Tap(9, t0) // T
	s.Tap(5, t0.Add(100*time.Millisecond))
	s.Tap(5, t0.Add(150*time.Millisecond)) // K? J->K
	if got := s.Take(); got != "TK" {
		t.Fatalf("take got %q, want TK", got)
	}
	if s.Len() != 0 {
		t.Fatal("take must clear the buffer")
	}
	s.Tap(9, t0.Add(200*time.Millisecond))
	if got := s.Text(); got != "T" {
		t.Fatalf("post-take tap got %q, want T", got)
	}
}

func TestCommandIndexIsIgnored(t *testing.T) {
	s := NewSession(0, 0)
	s.Tap(3, t0)
	s.Tap(7, t0)
	s.Tap(11, t0)
	s.Tap(15, t0)
	if s.Len() != 0 {
		t.Fatalf("command indices must not touch the buffer, got %q", s.Text())
	}
}

func TestReverseTaps(t *testing.T) {
	idx, n, ok := Taps('C')
	if !ok || idx != 1 || n != 3 {
		t.Fatalf("Taps(C) = %d,%d,%v", idx, n, ok)
	}
	idx, n, ok = Taps('h')
	if !ok || idx != 4 || n != 2 {
		t.Fatalf("Taps(h) = %d,%d,%v", idx, n, ok)
	}
	if _, _, ok := Taps('~'); ok {
		t.Fatal("Taps(~) must not resolve")
	}
}
