package syntax

import (
	"fmt"
	"io"

	"fusion/logging"
)

// Parser is a shift/reduce parser driven by an LALR(1) parsing table.  The
// tree it builds has the content of anonymous productions spliced into their
// parents and contains no empty branches.  A parser is used for a single file.
type Parser struct {
	ptable *ParsingTable
	sc     *Scanner

	lookahead *Token

	// stateStack holds the states of the automaton.  It always starts with the
	// initial state 0.
	stateStack []int

	// semanticStack holds the leaves and branches that have not been reduced
	// into a parent yet
	semanticStack []ASTNode
}

// NewParser creates a parser reading tokens from sc
func NewParser(ptable *ParsingTable, sc *Scanner) *Parser {
	return &Parser{ptable: ptable, sc: sc, stateStack: []int{0}}
}

// Parse parses the whole file.  It returns the root `program` branch or the
// first token or syntax error it encounters.
func (p *Parser) Parse() (ASTNode, error) {
	if err := p.consume(); err != nil {
		return nil, err
	}

	for {
		row := p.ptable.Rows[p.stateStack[len(p.stateStack)-1]]

		action, ok := row.Actions[p.lookahead.Kind]
		if !ok {
			return nil, p.unexpectedToken()
		}

		switch action.Kind {
		case AKShift:
			if err := p.shift(action.Operand); err != nil {
				return nil, err
			}
		case AKReduce:
			p.reduce(action.Operand)
		case AKAccept:
			return p.root(), nil
		}
	}
}

// root returns the tree once the input has been accepted
func (p *Parser) root() ASTNode {
	if len(p.semanticStack) == 0 {
		return &ASTBranch{Name: _goalSymbol}
	}

	return p.semanticStack[0]
}

func (p *Parser) unexpectedToken() error {
	msg := fmt.Sprintf("unexpected token: `%s`", p.lookahead.Value)
	if p.lookahead.Kind == EOF {
		msg = "unexpected end of file"
	}

	return &logging.CompileError{
		Kind:     logging.LMKSyntax,
		Message:  msg,
		Position: TextPositionOfToken(p.lookahead),
	}
}

// shift pushes the lookahead as a leaf and reads the next token
func (p *Parser) shift(state int) error {
	p.stateStack = append(p.stateStack, state)
	p.semanticStack = append(p.semanticStack, (*ASTLeaf)(p.lookahead))

	return p.consume()
}

func (p *Parser) consume() error {
	tok, err := p.sc.ReadToken()
	if err != nil {
		return err
	}

	p.lookahead = tok
	return nil
}

// reduce pops the nodes of a rule off the stacks, pushes the branch they form
// and then follows the goto of the uncovered state
func (p *Parser) reduce(ruleRef int) {
	rule := p.ptable.Rules[ruleRef]

	base := len(p.semanticStack) - rule.Count
	branch := &ASTBranch{Name: rule.Name, Content: spliceChildren(p.semanticStack[base:])}

	p.semanticStack = append(p.semanticStack[:base], branch)
	p.stateStack = p.stateStack[:len(p.stateStack)-rule.Count]

	top := p.ptable.Rows[p.stateStack[len(p.stateStack)-1]]
	p.stateStack = append(p.stateStack, top.Gotos[rule.Name])
}

// spliceChildren builds the content of a new branch.  Empty branches are
// dropped and the content of anonymous branches takes their place.  Anonymous
// branches are spliced as they are built so one level is always enough.
func spliceChildren(children []ASTNode) []ASTNode {
	var content []ASTNode

	for _, child := range children {
		if branch, ok := child.(*ASTBranch); ok {
			if len(branch.Content) == 0 {
				continue
			}

			if isAnonProduction(branch.Name) {
				content = append(content, branch.Content...)
				continue
			}
		}

		content = append(content, child)
	}

	return content
}

// ParseReader scans and parses the source text read from r using the given
// parsing table
func ParseReader(ptable *ParsingTable, r io.Reader, lctx *logging.LogContext) (ASTNode, error) {
	p := NewParser(ptable, NewScannerFromReader(r, lctx))
	return p.Parse()
}
