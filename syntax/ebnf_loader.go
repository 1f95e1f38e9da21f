package syntax

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"strings"
	"unicode"
)

// Kinds of tokens in a grammar file
const (
	gtIdent = iota
	gtTerminal
	gtPunct
	gtEOF
)

type grammarToken struct {
	kind  int
	value string
	line  int
}

// grammarReader is a recursive descent parser over the tokens of a grammar file
type grammarReader struct {
	tokens []grammarToken
	pos    int
}

// loadGrammar reads an EBNF grammar.  Productions are written `name = body ;`
// where the body may use `|` alternation, `( )` groups, `[ ]` optionals and
// `{ }` repeats over `'TERMINAL'`s and production names.  `(* *)` encloses a
// comment.
func loadGrammar(r io.Reader) (*Grammar, error) {
	src, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	tokens, err := lexGrammar(string(src))
	if err != nil {
		return nil, err
	}

	gr := &grammarReader{tokens: tokens}
	g := &Grammar{Productions: make(map[string]*GrammarExpr)}

	for gr.curr().kind != gtEOF {
		name, line, body, err := gr.readProduction()
		if err != nil {
			return nil, err
		}

		if _, ok := g.Productions[name]; ok {
			return nil, fmt.Errorf("production `%s` redefined on line %d", name, line)
		}

		g.Names = append(g.Names, name)
		g.Productions[name] = body
	}

	if len(g.Names) == 0 {
		return nil, errors.New("grammar contains no productions")
	}

	return g, nil
}

// lexGrammar splits the text of a grammar into tokens.  The final token is
// always a `gtEOF` token.
func lexGrammar(src string) ([]grammarToken, error) {
	var tokens []grammarToken
	runes := []rune(src)
	line := 1

	for i := 0; i < len(runes); i++ {
		c := runes[i]

		switch {
		case c == '\n':
			line++
		case unicode.IsSpace(c) || c == '\uFEFF':
			// skip
		case c == '(' && i+1 < len(runes) && runes[i+1] == '*':
			start := line
			for i += 2; i < len(runes) && !(runes[i] == '*' && i+1 < len(runes) && runes[i+1] == ')'); i++ {
				if runes[i] == '\n' {
					line++
				}
			}

			if i >= len(runes) {
				return nil, fmt.Errorf("comment opened on line %d is never closed", start)
			}

			// skip the closing `)`
			i++
		case c == '\'':
			end := i + 1
			for end < len(runes) && runes[end] != '\'' && runes[end] != '\n' {
				end++
			}

			if end >= len(runes) || runes[end] != '\'' {
				return nil, fmt.Errorf("unterminated terminal on line %d", line)
			}

			tokens = append(tokens, grammarToken{kind: gtTerminal, value: string(runes[i+1 : end]), line: line})
			i = end
		case IsLetter(c) || c == '_':
			end := i + 1
			for end < len(runes) && (IsLetter(runes[end]) || IsDigit(runes[end]) || runes[end] == '_') {
				end++
			}

			tokens = append(tokens, grammarToken{kind: gtIdent, value: string(runes[i:end]), line: line})
			i = end - 1
		case strings.ContainsRune("=;|()[]{}", c):
			tokens = append(tokens, grammarToken{kind: gtPunct, value: string(c), line: line})
		default:
			return nil, fmt.Errorf("unexpected character `%c` on line %d", c, line)
		}
	}

	return append(tokens, grammarToken{kind: gtEOF, line: line}), nil
}

func (gr *grammarReader) curr() grammarToken {
	return gr.tokens[gr.pos]
}

func (gr *grammarReader) advance() grammarToken {
	tok := gr.tokens[gr.pos]
	if tok.kind != gtEOF {
		gr.pos++
	}

	return tok
}

// isPunct checks whether the current token is the given punctuation
func (gr *grammarReader) isPunct(p string) bool {
	tok := gr.curr()
	return tok.kind == gtPunct && tok.value == p
}

func (gr *grammarReader) expectPunct(p string) error {
	if !gr.isPunct(p) {
		return gr.unexpected()
	}

	gr.advance()
	return nil
}

func (gr *grammarReader) unexpected() error {
	tok := gr.curr()
	if tok.kind == gtEOF {
		return fmt.Errorf("unexpected end of grammar on line %d", tok.line)
	}

	return fmt.Errorf("unexpected `%s` on line %d", tok.value, tok.line)
}

// readProduction reads `name = body ;`
func (gr *grammarReader) readProduction() (string, int, *GrammarExpr, error) {
	nameTok := gr.advance()
	if nameTok.kind != gtIdent {
		gr.pos--
		return "", 0, nil, gr.unexpected()
	}

	if err := gr.expectPunct("="); err != nil {
		return "", 0, nil, err
	}

	body, err := gr.readAlternation()
	if err != nil {
		return "", 0, nil, err
	}

	if err := gr.expectPunct(";"); err != nil {
		return "", 0, nil, err
	}

	return nameTok.value, nameTok.line, body, nil
}

// readAlternation reads `seq {'|' seq}`.  A lone sequence is returned as is.
func (gr *grammarReader) readAlternation() (*GrammarExpr, error) {
	line := gr.curr().line

	first, err := gr.readSequence()
	if err != nil {
		return nil, err
	}

	if !gr.isPunct("|") {
		return first, nil
	}

	alt := &GrammarExpr{Kind: GKindAlternation, Operands: []*GrammarExpr{first}, Line: line}
	for gr.isPunct("|") {
		gr.advance()

		branch, err := gr.readSequence()
		if err != nil {
			return nil, err
		}

		alt.Operands = append(alt.Operands, branch)
	}

	return alt, nil
}

// readSequence reads one or more items.  A lone item is returned as is.
func (gr *grammarReader) readSequence() (*GrammarExpr, error) {
	seq := &GrammarExpr{Kind: GKindSequence, Line: gr.curr().line}

	for {
		tok := gr.curr()
		if tok.kind == gtEOF || (tok.kind == gtPunct && strings.Contains("|;)]}=", tok.value)) {
			break
		}

		item, err := gr.readItem()
		if err != nil {
			return nil, err
		}

		seq.Operands = append(seq.Operands, item)
	}

	switch len(seq.Operands) {
	case 0:
		return nil, fmt.Errorf("empty grammatical group on line %d", seq.Line)
	case 1:
		return seq.Operands[0], nil
	default:
		return seq, nil
	}
}

// closers maps each bracket to its closer and the kind of group it creates
var closers = map[string]struct {
	closer string
	kind   int
}{
	"(": {")", GKindGroup},
	"[": {"]", GKindOptional},
	"{": {"}", GKindRepeat},
}

func (gr *grammarReader) readItem() (*GrammarExpr, error) {
	tok := gr.advance()

	switch tok.kind {
	case gtIdent:
		return &GrammarExpr{Kind: GKindNonterminal, Name: tok.value, Line: tok.line}, nil
	case gtTerminal:
		// `''` is an explicit epsilon
		if tok.value == "" {
			return &GrammarExpr{Kind: GKindEpsilon, Line: tok.line}, nil
		}

		kind, ok := terminalKind(tok.value)
		if !ok {
			return nil, fmt.Errorf("undefined terminal `%s` on line %d", tok.value, tok.line)
		}

		return &GrammarExpr{Kind: GKindTerminal, Terminal: kind, Line: tok.line}, nil
	case gtPunct:
		if c, ok := closers[tok.value]; ok {
			inner, err := gr.readAlternation()
			if err != nil {
				return nil, err
			}

			if err := gr.expectPunct(c.closer); err != nil {
				return nil, err
			}

			return &GrammarExpr{Kind: c.kind, Operands: []*GrammarExpr{inner}, Line: tok.line}, nil
		}
	}

	gr.pos--
	return nil, gr.unexpected()
}
