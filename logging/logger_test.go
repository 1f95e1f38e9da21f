package logging

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestInitializeLevels(t *testing.T) {
	defer func(l *Logger) { logger = l }(logger)

	tests := []struct {
		name  string
		level int
	}{
		{"silent", LogLevelSilent},
		{"error", LogLevelError},
		{"warn", LogLevelWarning},
		{"warning", LogLevelWarning},
		{"verbose", LogLevelVerbose},
		{"", LogLevelVerbose},
	}

	for _, test := range tests {
		Initialize("", test.name)
		if logger.LogLevel != test.level {
			t.Errorf("%q: expected level %d, got %d", test.name, test.level, logger.LogLevel)
		}
	}
}

func TestLoggerCountsErrorsAndHoldsWarnings(t *testing.T) {
	l := newLogger("", LogLevelSilent)
	l.handleMsg(&ConfigError{Kind: "Build", Message: "broken"})
	l.handleMsg(&BuildWarning{Kind: "Format", Message: "skipped"})

	if l.errorCount != 1 {
		t.Errorf("expected 1 error, got %d", l.errorCount)
	}

	if len(l.warnings) != 0 {
		t.Errorf("silent logger kept %d warnings", len(l.warnings))
	}

	l = newLogger("", LogLevelWarning)
	l.handleMsg(&BuildWarning{Kind: "Format", Message: "skipped"})
	l.handleMsg(&BuildWarning{Kind: "Output", Message: "kept"})

	if n := l.flushWarnings(); n != 2 {
		t.Errorf("expected 2 warnings flushed, got %d", n)
	}

	if n := l.flushWarnings(); n != 0 {
		t.Errorf("expected warnings to be cleared, got %d", n)
	}
}

func TestLogErrorCountsTypedErrors(t *testing.T) {
	defer func(l *Logger) { logger = l }(logger)
	Initialize("", "silent")

	lctx := &LogContext{FilePath: "main.fu"}
	LogError(lctx, &LiteralError{Text: "2147483648", Message: "integer literal out of range"})
	LogError(nil, fmt.Errorf("writing output: %w", os.ErrPermission))

	if ErrorCount() != 2 {
		t.Errorf("expected 2 errors, got %d", ErrorCount())
	}
}

func TestDisplayPath(t *testing.T) {
	root := filepath.Join("home", "proj")

	tests := []struct {
		buildPath, path, expected string
	}{
		{root, filepath.Join(root, "src", "main.fu"), filepath.Join("src", "main.fu")},
		{root, filepath.Join("elsewhere", "lib.fu"), "lib.fu"},
		{"", filepath.Join(root, "main.fu"), "main.fu"},
	}

	for _, test := range tests {
		l := newLogger(test.buildPath, LogLevelError)
		if got := l.displayPath(test.path); got != test.expected {
			t.Errorf("displayPath(%q) with build path %q: expected %q, got %q", test.path, test.buildPath, test.expected, got)
		}
	}
}

func TestReadLines(t *testing.T) {
	f, err := ioutil.TempFile("", "fusion-lines")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())

	f.WriteString("one\ntwo\nthree\n")
	f.Close()

	lines, err := readLines(f.Name(), 2, 5)
	if err != nil {
		t.Fatal(err)
	}

	if len(lines) != 2 || lines[0] != "two" || lines[1] != "three" {
		t.Errorf("unexpected lines: %q", lines)
	}
}

func TestCommonIndent(t *testing.T) {
	tests := []struct {
		lines    []string
		expected int
	}{
		{[]string{"    a", "  b", "      c"}, 2},
		{[]string{"    a", "", "    b"}, 4},
		{[]string{"a"}, 0},
		{[]string{"   "}, 0},
	}

	for _, test := range tests {
		if got := commonIndent(test.lines); got != test.expected {
			t.Errorf("commonIndent(%q): expected %d, got %d", test.lines, test.expected, got)
		}
	}
}
