package logging

import (
	"path/filepath"
	"strings"
	"sync"
)

// Enumeration of the log levels.  Each level displays everything the levels
// below it do.
const (
	LogLevelSilent  = iota // nothing at all
	LogLevelError          // errors and the closing message
	LogLevelWarning        // warnings, shown once compilation finishes
	LogLevelVerbose        // the compile header and phase spinners (default)
)

// Logger collects and displays the messages of a compilation.  Messages may be
// logged from multiple goroutines.
type Logger struct {
	LogLevel int

	// buildPath is the directory error paths are displayed relative to
	buildPath string

	mu         sync.Mutex
	errorCount int

	// warnings are held back until the end of compilation
	warnings []LogMessage
}

func newLogger(buildPath string, loglevel int) *Logger {
	return &Logger{buildPath: buildPath, LogLevel: loglevel}
}

// handleMsg displays errors immediately and holds on to warnings
func (l *Logger) handleMsg(lm LogMessage) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !lm.isError() {
		if l.LogLevel >= LogLevelWarning {
			l.warnings = append(l.warnings, lm)
		}

		return
	}

	l.errorCount++
	if l.LogLevel > LogLevelSilent {
		// the message replaces the spinner of the phase that failed
		displayEndPhase(false)
		lm.display()
	}
}

// flushWarnings displays the held warnings and returns how many there were
func (l *Logger) flushWarnings() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, w := range l.warnings {
		w.display()
	}

	n := len(l.warnings)
	l.warnings = nil
	return n
}

// displayPath shortens a path relative to the build path when possible
func (l *Logger) displayPath(path string) string {
	if l.buildPath != "" {
		if rel, err := filepath.Rel(l.buildPath, path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}

	return filepath.Base(path)
}
