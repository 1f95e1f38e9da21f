package logging

import (
	"errors"
	"fmt"
	"os"
)

// logger is shared by the whole compiler.  It starts out at the error level so
// that packages used as a library report nothing but errors.
var logger = newLogger("", LogLevelError)

// Initialize replaces the global logger.  Unknown log level names select the
// verbose level.
func Initialize(buildPath string, loglevelname string) {
	loglevel := LogLevelVerbose
	switch loglevelname {
	case "silent":
		loglevel = LogLevelSilent
	case "error":
		loglevel = LogLevelError
	case "warn", "warning":
		loglevel = LogLevelWarning
	}

	logger = newLogger(buildPath, loglevel)
}

// ErrorCount returns the number of errors logged since initialization
func ErrorCount() int {
	logger.mu.Lock()
	defer logger.mu.Unlock()

	return logger.errorCount
}

// LogCompileError logs an error in the user's source
func LogCompileError(lctx *LogContext, message string, kind int, pos *TextPosition) {
	logger.handleMsg(&CompileMessage{
		Message:  message,
		Kind:     kind,
		Position: pos,
		Context:  lctx,
		IsError:  true,
	})
}

// LogError logs any error produced by the compiler.  Errors that carry a
// message kind and a position are displayed as compile messages against the
// source file in lctx; everything else is displayed as a plain error.
func LogError(lctx *LogContext, err error) {
	var ce Error
	if errors.As(err, &ce) && lctx != nil {
		LogCompileError(lctx, ce.Error(), ce.MessageKind(), ce.TextPosition())
		return
	}

	logger.handleMsg(&ConfigError{Kind: "Build", Message: err.Error()})
}

// LogConfigError logs an error in the configuration of the project or of the
// compiler itself
func LogConfigError(kind, message string) {
	logger.handleMsg(&ConfigError{Kind: kind, Message: message})
}

// LogBuildWarning logs a warning raised while building rather than by the
// source itself
func LogBuildWarning(kind, warning string) {
	logger.handleMsg(&BuildWarning{Kind: kind, Message: warning})
}

// -----------------------------------------------------------------------------

// LogCompileHeader displays the compiler version and the build target
func LogCompileHeader(target string) {
	if logger.LogLevel == LogLevelVerbose {
		displayCompileHeader(target)
	}
}

// LogBeginPhase starts the spinner for a new compilation phase
func LogBeginPhase(phase string) {
	if logger.LogLevel == LogLevelVerbose {
		displayBeginPhase(phase)
	}
}

// LogEndPhase marks the current phase as succeeded
func LogEndPhase() {
	if logger.LogLevel == LogLevelVerbose {
		displayEndPhase(true)
	}
}

// LogFinished flushes the warnings and displays the closing message
func LogFinished() {
	warningCount := logger.flushWarnings()

	if logger.LogLevel > LogLevelSilent {
		displayCompilationFinished(ErrorCount() == 0, ErrorCount(), warningCount)
	}
}

// LogInfo prints an informational message if the log level is verbose
func LogInfo(tag, format string, args ...interface{}) {
	if logger.LogLevel == LogLevelVerbose {
		PrintInfoMessage(tag, fmt.Sprintf(format, args...))
	}
}

// LogFatal reports an internal compiler error and exits immediately
func LogFatal(msg string) {
	logger.mu.Lock()
	displayEndPhase(false)
	displayFatalError(msg)
	logger.mu.Unlock()

	os.Exit(1)
}
