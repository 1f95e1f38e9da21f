package syntax

import "fmt"

// Grammar is a set of named EBNF productions.  Names holds the production
// names in the order they were defined.
type Grammar struct {
	Names       []string
	Productions map[string]*GrammarExpr
}

// Enumeration of the kinds of grammar expressions
const (
	GKindTerminal = iota
	GKindNonterminal
	GKindEpsilon
	GKindSequence
	GKindAlternation
	GKindGroup
	GKindOptional
	GKindRepeat
)

// GrammarExpr is a node in the body of an EBNF production.  Terminals store a
// token kind, nonterminals the name of a production and all other kinds their
// operands.  Groups, optionals and repeats always have exactly one operand.
type GrammarExpr struct {
	Kind     int
	Terminal int
	Name     string
	Operands []*GrammarExpr

	// Line is the line of the grammar the expression begins on
	Line int
}

// checkReferences makes sure that every nonterminal in the grammar names a
// defined production
func (g *Grammar) checkReferences() error {
	for _, name := range g.Names {
		if err := g.checkExpr(name, g.Productions[name]); err != nil {
			return err
		}
	}

	return nil
}

func (g *Grammar) checkExpr(prodName string, expr *GrammarExpr) error {
	if expr.Kind == GKindNonterminal {
		if _, ok := g.Productions[expr.Name]; !ok {
			return fmt.Errorf("production `%s` refers to undefined production `%s` on line %d", prodName, expr.Name, expr.Line)
		}

		return nil
	}

	for _, operand := range expr.Operands {
		if err := g.checkExpr(prodName, operand); err != nil {
			return err
		}
	}

	return nil
}
