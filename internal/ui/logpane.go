package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// maxLogLines bounds the log pane.
const maxLogLines = 500

// logBuffer keeps the newest log lines. It is safe for concurrent use since
// background saves and the logging sink append from other goroutines.
type logBuffer struct {
	mu    sync.Mutex
	lines []string
	now   func() time.Time
}

func newLogBuffer() *logBuffer {
	return &logBuffer{now: time.Now}
}

// Add appends a timestamped entry and drops the oldest ones past the bound.
func (b *logBuffer) Add(format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	prefix := b.now().Format(time.Stamp)
	b.lines = append(b.lines, fmt.Sprintf("[%s] %s", prefix, fmt.Sprintf(format, args...)))
	if over := len(b.lines) - maxLogLines; over > 0 {
		b.lines = append(b.lines[:0], b.lines[over:]...)
	}
}

// Text joins the buffered entries.
func (b *logBuffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Join(b.lines, "\n")
}

// Len returns the number of buffered entries.
func (b *logBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines)
}
