package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultPath is the viewer log file, relative to the working directory.
const DefaultPath = "logs/viewer.txt"

// Level tags a log line.
type Level string

const (
	Info  Level = "INFO"
	Warn  Level = "WARN"
	Error Level = "ERROR"
)

// Logger keeps every line in memory (the debug overlay shows the tail) and appends it to a
// file on disk. Safe for concurrent use; the asset loader logs from its own goroutine.
type Logger struct {
	mu     sync.Mutex
	path   string
	mirror io.Writer
	lines  []string
	now    func() time.Time
}

// New returns a Logger writing to path and ensures its directory exists. An empty path
// keeps lines in memory only.
func New(path string) *Logger {
	if path != "" {
		_ = os.MkdirAll(filepath.Dir(path), 0755)
	}
	return &Logger{path: path, lines: make([]string, 0), now: time.Now}
}

// SetMirror copies every line to w as well (e.g. os.Stderr). nil disables mirroring.
func (l *Logger) SetMirror(w io.Writer) {
	l.mu.Lock()
	l.mirror = w
	l.mu.Unlock()
}

// Logf formats and records a line at the given level. Each entry is prefixed with
// [timestamp] LEVEL using local time.
func (l *Logger) Logf(level Level, format string, args ...any) {
	l.write(level, fmt.Sprintf(format, args...))
}

// Infof records a formatted Info line.
func (l *Logger) Infof(format string, args ...any) {
	l.Logf(Info, format, args...)
}

// Warnf records a formatted Warn line.
func (l *Logger) Warnf(format string, args ...any) {
	l.Logf(Warn, format, args...)
}

// Errorf records a formatted Error line.
func (l *Logger) Errorf(format string, args ...any) {
	l.Logf(Error, format, args...)
}

func (l *Logger) write(level Level, line string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	stamped := "[" + l.now().Format("2006-01-02 15:04:05") + "] " + string(level) + " " + line
	l.lines = append(l.lines, stamped)
	if l.mirror != nil {
		_, _ = io.WriteString(l.mirror, stamped+"\n")
	}
	if l.path == "" {
		return
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	_, _ = f.WriteString(stamped + "\n")
	_ = f.Close()
}

// Tail returns a copy of the last n lines (fewer if not that many were logged).
func (l *Logger) Tail(n int) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n > len(l.lines) {
		n = len(l.lines)
	}
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	copy(out, l.lines[len(l.lines)-n:])
	return out
}
