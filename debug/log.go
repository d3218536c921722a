package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level orders log lines by severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelNone // nothing is written
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "NONE"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelNone {
		return "?"
	}
	return levelNames[l]
}

// ParseLevel maps a config string to a Level
func ParseLevel(s string) (Level, bool) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), true
		}
	}
	if strings.EqualFold(s, "warning") {
		return LevelWarning, true
	}
	return LevelInfo, false
}

var (
	out     io.Writer
	file    *os.File
	mu      sync.Mutex
	enabled bool
	level   = LevelInfo
)

// Enable starts debug logging to ~/.config/go-turbopad/debug.log
func Enable() error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	homeDir, _ := os.UserHomeDir()
	dir := filepath.Join(homeDir, ".config", "go-turbopad")

	// Ensure directory exists
	os.MkdirAll(dir, 0755)

	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	file = f
	start(f)
	return nil
}

// EnableWriter logs to w instead of the log file
func EnableWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	closeFile()
	start(w)
}

// start must be called with mu held
func start(w io.Writer) {
	out = w
	enabled = true

	// Write directly (can't call Log - we hold the mutex)
	write("debug", "=== Debug logging started ===")
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	closeFile()
	out = nil
	enabled = false
}

func closeFile() {
	if file != nil {
		file.Close()
		file = nil
	}
}

// SetLevel drops lines below l
func SetLevel(l Level) {
	mu.Lock()
	level = l
	mu.Unlock()
}

// GetLevel returns the current threshold
func GetLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return level
}

// Log writes an info line to the debug log
func Log(category, format string, args ...any) {
	logAt(LevelInfo, category, format, args...)
}

func Debug(category, format string, args ...any) {
	logAt(LevelDebug, category, format, args...)
}

func Info(category, format string, args ...any) {
	logAt(LevelInfo, category, format, args...)
}

func Warn(category, format string, args ...any) {
	logAt(LevelWarning, category, format, args...)
}

func Error(category, format string, args ...any) {
	logAt(LevelError, category, format, args...)
}

func logAt(l Level, category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || out == nil || l < level {
		return
	}

	write(category, l.String()+" "+fmt.Sprintf(format, args...))
}

// write must be called with mu held
func write(category, msg string) {
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(out, "[%s] %-10s %s\n", ts, category, msg)
	if file != nil {
		file.Sync() // flush immediately so we see logs even on crash
	}
}

// LogEvery logs only every N calls (use for per-tick events)
var counters = make(map[string]int)

func LogEvery(n int, l Level, category, format string, args ...any) {
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if count%n == 1 || n == 1 {
		logAt(l, category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}
