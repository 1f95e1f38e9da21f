package syntax

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"fusion/logging"
)

// Scanner converts a stream of source text into tokens.  Positions are counted
// the way the compiler displays them: lines start at 1 and tabs are four
// columns wide.
type Scanner struct {
	lctx *logging.LogContext

	fh  *os.File
	src *bufio.Reader

	line, col int

	// atLineStart is set once a newline has been read.  The line count is only
	// bumped when the next rune is read so that a token ending a line keeps
	// the position of that line.
	atLineStart bool

	// readErr is the first error other than EOF returned by src
	readErr error

	// buf holds the text of the token being scanned
	buf strings.Builder
}

// NewScanner opens the file at fpath for scanning
func NewScanner(fpath string, lctx *logging.LogContext) (*Scanner, error) {
	f, err := os.Open(fpath)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	s := NewScannerFromReader(f, lctx)
	s.fh = f
	return s, nil
}

// NewScannerFromReader creates a scanner reading source text from r.  The
// caller is responsible for closing r if necessary.
func NewScannerFromReader(r io.Reader, lctx *logging.LogContext) *Scanner {
	if lctx == nil {
		lctx = &logging.LogContext{FilePath: "<input>"}
	}

	return &Scanner{lctx: lctx, src: bufio.NewReader(r), line: 1}
}

// Close closes the file opened by NewScanner
func (s *Scanner) Close() error {
	if s.fh == nil {
		return nil
	}

	return s.fh.Close()
}

// IsLetter tests if a rune is an ASCII letter
func IsLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

// IsDigit tests if a rune is an ASCII digit
func IsDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isWordRune(r rune) bool {
	return IsLetter(r) || IsDigit(r) || r == '_'
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v', '\uFEFF':
		return true
	}

	return false
}

// ReadToken reads the next token.  Once the end of the source is reached every
// call returns an EOF token.  Malformed tokens produce a `*logging.CompileError`.
func (s *Scanner) ReadToken() (*Token, error) {
	for {
		s.buf.Reset()

		r, ok := s.next()
		if !ok {
			if s.readErr != nil {
				return nil, fmt.Errorf("error reading %s: %w", s.lctx.FilePath, s.readErr)
			}

			return &Token{Kind: EOF, Line: s.line, Col: s.col}, nil
		}

		if isSpace(r) {
			continue
		}

		if r == '#' {
			if err := s.skipComment(); err != nil {
				return nil, err
			}

			continue
		}

		s.buf.WriteRune(r)
		if tok, ok := s.scanToken(r); ok {
			return tok, nil
		}

		return nil, s.tokenError(fmt.Sprintf("malformed token: `%s`", s.buf.String()), s.buf.Len())
	}
}

// scanToken scans the rest of the token starting with r.  It returns false if
// the token is malformed.
func (s *Scanner) scanToken(r rune) (*Token, bool) {
	switch {
	case r == '"':
		return s.scanString()
	case r == '<':
		return s.scanHeader()
	case r == '_' || IsLetter(r):
		return s.scanWord(), true
	case IsDigit(r):
		return s.scanNumber()
	}

	if kind, ok := symbolPatterns[string(r)]; ok {
		return s.token(kind, s.buf.String()), true
	}

	return nil, false
}

func (s *Scanner) scanWord() *Token {
	s.acceptRun(isWordRune)

	word := s.buf.String()
	if kind, ok := keywordPatterns[word]; ok {
		return s.token(kind, word)
	}

	return s.token(IDENTIFIER, word)
}

// scanNumber scans a decimal integer or floating point literal.  A `.` must
// have digits on both sides and an exponent (eg. `1.5e-3`) must have digits.
func (s *Scanner) scanNumber() (*Token, bool) {
	s.acceptRun(IsDigit)

	kind := INTLIT
	if s.acceptOne(".") {
		kind = FLOATLIT

		if !s.acceptRun(IsDigit) {
			return nil, false
		}
	}

	if s.acceptOne("eE") {
		kind = FLOATLIT
		s.acceptOne("+-")

		if !s.acceptRun(IsDigit) {
			return nil, false
		}
	}

	// a number running into a word is one malformed token
	if s.accept(isWordRune) {
		return nil, false
	}

	return s.token(kind, s.buf.String()), true
}

// scanString scans a string literal.  The quotes are dropped from the token
// value and escape sequences are kept as written, but a literal whose escapes
// UnescapeString can't decode is malformed.
func (s *Scanner) scanString() (*Token, bool) {
	for {
		r, ok := s.peek()
		if !ok || r == '\n' {
			return nil, false
		}

		if r == '"' {
			value := s.buf.String()[1:]
			if _, err := UnescapeString(value); err != nil {
				return nil, false
			}

			tok := s.token(STRINGLIT, value)
			s.next()
			return tok, true
		}

		s.accept(anyRune)

		if r == '\\' {
			// the escaped rune may be anything but a line break
			if !s.accept(func(r rune) bool { return r != '\n' }) {
				return nil, false
			}
		}
	}
}

// scanHeader scans a header name such as `<stdio.h>`.  The angle brackets are
// part of the token value.
func (s *Scanner) scanHeader() (*Token, bool) {
	for {
		r, ok := s.peek()
		if !ok || strings.ContainsRune("\n\t <", r) {
			return nil, false
		}

		s.accept(anyRune)

		if r == '>' {
			if s.buf.Len() == 2 {
				return nil, false
			}

			return s.token(HEADERLIT, s.buf.String()), true
		}
	}
}

// skipComment skips the comment following a `#`.  `#! ... !#` comments may
// span lines; all other comments end at the end of the line.
func (s *Scanner) skipComment() error {
	if r, ok := s.peek(); !ok || r != '!' {
		for r, ok := s.peek(); ok && r != '\n'; r, ok = s.peek() {
			s.next()
		}

		return nil
	}

	s.next()
	for {
		r, ok := s.next()
		if !ok {
			return s.tokenError("unterminated block comment", 2)
		}

		if r == '!' {
			if r, ok := s.peek(); ok && r == '#' {
				s.next()
				return nil
			}
		}
	}
}

// -----------------------------------------------------------------------------

func anyRune(rune) bool { return true }

// next reads a rune without adding it to the token text
func (s *Scanner) next() (rune, bool) {
	r, _, err := s.src.ReadRune()
	if err != nil {
		if err != io.EOF && s.readErr == nil {
			s.readErr = err
		}

		return 0, false
	}

	if s.atLineStart {
		s.line++
		s.col = 0
		s.atLineStart = false
	}

	if r == '\t' {
		s.col += 4
	} else {
		s.col++
	}

	s.atLineStart = r == '\n'
	return r, true
}

func (s *Scanner) peek() (rune, bool) {
	r, _, err := s.src.ReadRune()
	if err != nil {
		return 0, false
	}

	s.src.UnreadRune()
	return r, true
}

// accept adds the next rune to the token text if it matches pred
func (s *Scanner) accept(pred func(rune) bool) bool {
	r, ok := s.peek()
	if !ok || !pred(r) {
		return false
	}

	s.next()
	s.buf.WriteRune(r)
	return true
}

// acceptOne accepts the next rune if it is one of chars
func (s *Scanner) acceptOne(chars string) bool {
	return s.accept(func(r rune) bool { return strings.ContainsRune(chars, r) })
}

// acceptRun accepts runes while they match pred and reports whether any were
func (s *Scanner) acceptRun(pred func(rune) bool) bool {
	n := 0
	for s.accept(pred) {
		n++
	}

	return n > 0
}

// token creates a token ending at the current position
func (s *Scanner) token(kind int, value string) *Token {
	return &Token{Kind: kind, Value: value, Line: s.line, Col: s.col}
}

// tokenError creates a token error of the given length ending at the current
// column
func (s *Scanner) tokenError(msg string, length int) error {
	startCol := s.col - length
	if startCol < 0 {
		startCol = 0
	}

	return &logging.CompileError{
		Kind:     logging.LMKToken,
		Message:  msg,
		Position: &logging.TextPosition{StartLn: s.line, StartCol: startCol, EndLn: s.line, EndCol: s.col},
	}
}
