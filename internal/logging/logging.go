package logging

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// LevelDebug is the debug log level
	LevelDebug LogLevel = iota
	// LevelInfo is the info log level
	LevelInfo
	// LevelWarn is the warning log level
	LevelWarn
	// LevelError is the error log level
	LevelError
)

// Sink receives every line that passes the level filter, without the level
// prefix.
type Sink func(level LogLevel, msg string)

var (
	mu           sync.RWMutex
	currentLevel LogLevel
	levelSet     bool
	sink         Sink
)

// ParseLevel maps a level name to a LogLevel. Unknown names return
// LevelInfo and false.
func ParseLevel(s string) (LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	}
	return LevelInfo, false
}

// levelFromEnv reads DEBUG first, then LOG_LEVEL.
func levelFromEnv() LogLevel {
	if debug := os.Getenv("DEBUG"); debug != "" {
		switch strings.ToLower(debug) {
		case "1", "true", "yes", "on":
			return LevelDebug
		}
	}
	lvl, _ := ParseLevel(os.Getenv("LOG_LEVEL"))
	return lvl
}

// SetLevel overrides the environment.
func SetLevel(l LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = l
	levelSet = true
}

// ResetLevel forgets SetLevel so the next call re-reads the environment.
func ResetLevel() {
	mu.Lock()
	defer mu.Unlock()
	levelSet = false
}

// SetSink installs a mirror for emitted lines. nil removes it.
func SetSink(s Sink) {
	mu.Lock()
	defer mu.Unlock()
	sink = s
}

// GetLevel returns the current log level
func GetLevel() LogLevel {
	mu.RLock()
	if levelSet {
		defer mu.RUnlock()
		return currentLevel
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if !levelSet {
		currentLevel = levelFromEnv()
		levelSet = true
	}
	return currentLevel
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	return GetLevel() <= LevelDebug
}

func emit(level LogLevel, format string, args ...interface{}) {
	if GetLevel() > level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	log.Printf("[%s] %s", strings.ToUpper(level.String()), msg)

	mu.RLock()
	s := sink
	mu.RUnlock()
	if s != nil {
		s(level, msg)
	}
}

// Debug logs a debug message (only if DEBUG=true or LOG_LEVEL=debug)
func Debug(format string, args ...interface{}) {
	emit(LevelDebug, format, args...)
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	emit(LevelInfo, format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	emit(LevelWarn, format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	emit(LevelError, format, args...)
}

// Fatal logs an error message and exits
func Fatal(format string, args ...interface{}) {
	log.Fatalf("[FATAL] "+format, args...)
}

// String returns the string representation of a log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}
