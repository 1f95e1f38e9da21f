package logging

import "fmt"

// Error is implemented by all the errors the compiler front and back ends
// return.  The message kind determines the banner the error is displayed with.
type Error interface {
	error
	MessageKind() int
	TextPosition() *TextPosition
}

// CompileError is a syntax or token error produced while scanning and parsing
type CompileError struct {
	Kind     int
	Message  string
	Position *TextPosition
}

func (ce *CompileError) Error() string {
	return ce.Message
}

func (ce *CompileError) MessageKind() int            { return ce.Kind }
func (ce *CompileError) TextPosition() *TextPosition { return ce.Position }

// StructuralError means that a parse tree node did not have the shape lowering
// expected: an unknown rule tag, a missing child or a misplaced token.
type StructuralError struct {
	// Rule is the tag of the offending node.
	Rule string

	Message  string
	Position *TextPosition
}

func (se *StructuralError) Error() string {
	if se.Message == "" {
		return fmt.Sprintf("unexpected `%s` node", se.Rule)
	}

	return fmt.Sprintf("malformed `%s` node: %s", se.Rule, se.Message)
}

func (se *StructuralError) MessageKind() int            { return LMKStructure }
func (se *StructuralError) TextPosition() *TextPosition { return se.Position }

// LiteralError is returned when the text of a literal cannot be converted to
// its value (eg. an integer literal out of the range of a 32 bit integer).
type LiteralError struct {
	Text     string
	Message  string
	Position *TextPosition
}

func (le *LiteralError) Error() string {
	return fmt.Sprintf("invalid literal `%s`: %s", le.Text, le.Message)
}

func (le *LiteralError) MessageKind() int            { return LMKLiteral }
func (le *LiteralError) TextPosition() *TextPosition { return le.Position }

// UnsupportedConstructError is returned by a code generator when it encounters
// a construct that it has no rendering for.
type UnsupportedConstructError struct {
	Construct string
	Position  *TextPosition
}

func (ue *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("%s is not supported by code generation", ue.Construct)
}

func (ue *UnsupportedConstructError) MessageKind() int            { return LMKUnsupported }
func (ue *UnsupportedConstructError) TextPosition() *TextPosition { return ue.Position }

// CodeGenError is any other failure encountered during code generation
type CodeGenError struct {
	Message  string
	Position *TextPosition
}

func (cge *CodeGenError) Error() string {
	return cge.Message
}

func (cge *CodeGenError) MessageKind() int            { return LMKCodeGen }
func (cge *CodeGenError) TextPosition() *TextPosition { return cge.Position }

// NewCodeGenError creates a code generation error from a format string
func NewCodeGenError(pos *TextPosition, format string, args ...interface{}) *CodeGenError {
	return &CodeGenError{Message: fmt.Sprintf(format, args...), Position: pos}
}
