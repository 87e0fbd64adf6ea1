package station

import (
	"fmt"
	"testing"
)

func TestLogKeepsNewestWithinLimit(t *testing.T) {
	l := NewLog(3)
	for i := 0; i < 5; i++ {
		l.Append(fmt.Sprintf("line %d", i))
	}
	got := l.Lines()
	if len(got) != 3 {
		t.Fatalf("len %d, want 3", len(got))
	}
	if got[0] != "line 2" || got[2] != "line 4" {
		t.Fatalf("unexpected window: %v", got)
	}
}

func TestLogLinesIsACopy(t *testing.T) {
	l := NewLog(4)
	l.Append("a")
	lines := l.Lines()
	lines[0] = "mutated"
	if l.Lines()[0] != "a" {
		t.Fatal("Lines must return a copy")
	}
}

func TestLogClear(t *testing.T) {
	l := NewLog(4)
	l.Append("a")
	l.Clear()
	if l.Len() != 0 {
		t.Fatalf("len %d after clear", l.Len())
	}
}
