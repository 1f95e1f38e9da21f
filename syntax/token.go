package syntax

// Token represents a token read in by the scanner
type Token struct {
	Kind  int
	Value string

	// Line is line number starting at 1
	Line int

	// Col is the column number counted tabs as four columns.  It is the column
	// immediately after the last character of the token.
	Col int
}

// The various kinds of a tokens supported by the scanner
const (
	// variables
	LET = iota

	// function terminators
	RETURN

	// function definitions
	FN

	// package keywords
	IMPORT

	// arithmetic operators
	PLUS
	MINUS
	STAR
	DIVIDE

	// assignment/declaration operators
	ASSIGN

	// punctuation
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	COMMA
	SEMICOLON
	COLON

	// literals (and identifiers)
	IDENTIFIER
	STRINGLIT
	INTLIT
	FLOATLIT
	HEADERLIT

	// used in parsing algorithm
	EOF
)

// token patterns (matching strings) for keywords
var keywordPatterns = map[string]int{
	"let":    LET,
	"return": RETURN,
	"fn":     FN,
	"import": IMPORT,
}

// token patterns for symbolic items - longest match wins
var symbolPatterns = map[string]int{
	"+": PLUS,
	"-": MINUS,
	"*": STAR,
	"/": DIVIDE,
	"=": ASSIGN,
	"(": LPAREN,
	")": RPAREN,
	"{": LBRACE,
	"}": RBRACE,
	",": COMMA,
	";": SEMICOLON,
	":": COLON,
}

// specialTokenNames maps the names used for the non-literal terminals in the
// grammar to their token kinds
var specialTokenNames = map[string]int{
	"IDENTIFIER": IDENTIFIER,
	"STRINGLIT":  STRINGLIT,
	"INTLIT":     INTLIT,
	"FLOATLIT":   FLOATLIT,
	"HEADERLIT":  HEADERLIT,
}

// terminalPatterns are all the names a terminal may be written as in a grammar
var terminalPatterns = []map[string]int{keywordPatterns, symbolPatterns, specialTokenNames}

// terminalKind returns the token kind named by a grammar terminal
func terminalKind(name string) (int, bool) {
	for _, patterns := range terminalPatterns {
		if kind, ok := patterns[name]; ok {
			return kind, true
		}
	}

	return 0, false
}

// TokenKindName returns a human readable name for a token kind (used in
// syntax errors)
func TokenKindName(kind int) string {
	for _, patterns := range terminalPatterns {
		for name, k := range patterns {
			if k == kind {
				return name
			}
		}
	}

	if kind == EOF {
		return "end of file"
	}

	return "<unknown>"
}
