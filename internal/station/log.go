package station

// Log is a bounded append-only text log. Once full, the oldest entries
// are truncated so appends never block or grow without bound. Not safe
// for concurrent use; the station mutex guards every log.
type Log struct {
	limit int
	lines []string
}

// DefaultLogLimit is the retained line count per screen log.
const DefaultLogLimit = 200

func NewLog(limit int) *Log {
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	return &Log{limit: limit}
}

func (l *Log) Append(line string) {
	l.lines = append(l.lines, line)
	if len(l.lines) > l.limit {
		// Shift instead of reslicing so the backing array is reused.
		copy(l.lines, l.lines[len(l.lines)-l.limit:])
		l.lines = l.lines[:l.limit]
	}
}

func (l *Log) Lines() []string {
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

func (l *Log) Clear() {
	l.lines = l.lines[:0]
}

func (l *Log) Len() int {
	return len(l.lines)
}
