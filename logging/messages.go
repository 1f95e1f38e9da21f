package logging

// TextPosition represents a positional range in the source text.  Lines are
// 1-indexed, columns are 0-indexed and the end column is one past the last
// character of the selection.
type TextPosition struct {
	StartLn, StartCol int
	EndLn, EndCol     int
}

// TextPositionFromRange takes two positions and computes the text position
// spanning them.
func TextPositionFromRange(start, end *TextPosition) *TextPosition {
	return &TextPosition{
		StartLn:  start.StartLn,
		StartCol: start.StartCol,
		EndLn:    end.EndLn,
		EndCol:   end.EndCol,
	}
}

// LogContext is the context in which a compile message occurs: the file being
// compiled.
type LogContext struct {
	FilePath string
}

// LogMessage is an interface for all the different kinds of messages the
// logger can process
type LogMessage interface {
	isError() bool
	display()
}

// Enumeration of the different kinds of compile messages
const (
	LMKSyntax = iota
	LMKToken
	LMKStructure
	LMKLiteral
	LMKUnsupported
	LMKCodeGen
)

// CompileMessage is a message produced by compiling user code: it is
// associated with a source file and usually a position in that file
type CompileMessage struct {
	Message  string
	Kind     int
	Position *TextPosition
	Context  *LogContext
	IsError  bool
}

func (cm *CompileMessage) isError() bool {
	return cm.IsError
}

// ConfigError is an error in the configuration of the compiler or the project
type ConfigError struct {
	Kind    string
	Message string
}

func (ce *ConfigError) isError() bool {
	return true
}

// BuildWarning is a warning issued by the build process itself (eg. a grammar
// conflict or a missing optional tool)
type BuildWarning struct {
	Kind    string
	Message string
}

func (bw *BuildWarning) isError() bool {
	return false
}
