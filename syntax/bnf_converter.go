package syntax

import (
	"fmt"
	"sort"
	"strings"
)

// BNFRuleTable is the expanded form of a grammar: a flat list of rules over
// terminals and nonterminals only
type BNFRuleTable struct {
	Rules []*BNFRule

	// ByProd maps each production name to the indices of its rules
	ByProd map[string][]int
}

// BNFRule is a single rule of the expanded grammar.  An epsilon rule has no
// symbols.
type BNFRule struct {
	ProdName string
	Symbols  []BNFSymbol
}

// BNFSymbol is a terminal (a token kind) or a nonterminal (a production name).
// Terminals have an empty name.
type BNFSymbol struct {
	Terminal int
	Name     string
}

// IsTerminal reports whether the symbol is a terminal
func (s BNFSymbol) IsTerminal() bool {
	return s.Name == ""
}

func (s BNFSymbol) String() string {
	if s.IsTerminal() {
		return "'" + TokenKindName(s.Terminal) + "'"
	}

	return s.Name
}

func nonterminal(name string) BNFSymbol {
	return BNFSymbol{Name: name}
}

// isAnonProduction reports whether a production was generated during expansion.
// The parser splices the content of anonymous branches into their parent.
func isAnonProduction(name string) bool {
	return strings.HasPrefix(name, "$")
}

// expander holds the rule table as it grows during expansion
type expander struct {
	table *BNFRuleTable

	anonCount int

	// prodName is the named production currently being expanded: it is used to
	// label the anonymous productions created for it
	prodName string
}

// expandGrammar converts an EBNF grammar into BNF rules.  Every group with an
// alternation, optional and repeat becomes an anonymous production: `[a]`
// becomes `$n -> a | ε` and `{a}` becomes `$n -> a $n | ε`.
func expandGrammar(g *Grammar) *BNFRuleTable {
	e := &expander{table: &BNFRuleTable{ByProd: make(map[string][]int)}}

	// expand in name order so rule numbers are stable across runs
	names := append([]string(nil), g.Names...)
	sort.Strings(names)

	for _, name := range names {
		e.prodName = name
		e.expandProduction(name, g.Productions[name])
	}

	return e.table
}

// expandProduction adds the rules for the production `name`
func (e *expander) expandProduction(name string, body *GrammarExpr) {
	if body.Kind == GKindAlternation {
		for _, branch := range body.Operands {
			e.addRule(name, e.expandSequence(branch))
		}

		return
	}

	symbols := e.expandSequence(body)

	// a production that is nothing but an anonymous production takes over its
	// rules.  Repeats refer to themselves and so keep their anonymous name.
	if len(symbols) == 1 && isAnonProduction(symbols[0].Name) && !e.isRecursive(symbols[0].Name) {
		e.renameProduction(symbols[0].Name, name)
		return
	}

	e.addRule(name, symbols)
}

// expandSequence converts an expression into the symbols of a single rule
func (e *expander) expandSequence(expr *GrammarExpr) []BNFSymbol {
	items := []*GrammarExpr{expr}
	if expr.Kind == GKindSequence {
		items = expr.Operands
	}

	var symbols []BNFSymbol
	for _, item := range items {
		switch item.Kind {
		case GKindTerminal:
			symbols = append(symbols, BNFSymbol{Terminal: item.Terminal})
		case GKindNonterminal:
			symbols = append(symbols, nonterminal(item.Name))
		case GKindGroup:
			inner := item.Operands[0]

			// groups without alternation are just spliced in
			if inner.Kind != GKindAlternation {
				symbols = append(symbols, e.expandSequence(inner)...)
				continue
			}

			anon := e.anonName()
			e.expandProduction(anon, inner)
			symbols = append(symbols, nonterminal(anon))
		case GKindOptional:
			anon := e.anonName()
			e.expandProduction(anon, item.Operands[0])
			e.addRule(anon, nil)

			symbols = append(symbols, nonterminal(anon))
		case GKindRepeat:
			anon := e.anonName()
			e.expandProduction(anon, item.Operands[0])

			for _, ref := range e.table.ByProd[anon] {
				rule := e.table.Rules[ref]
				rule.Symbols = append(rule.Symbols, nonterminal(anon))
			}

			// added after the self references so it doesn't get one
			e.addRule(anon, nil)

			symbols = append(symbols, nonterminal(anon))
		}

		// epsilons contribute no symbols
	}

	return symbols
}

func (e *expander) addRule(prodName string, symbols []BNFSymbol) {
	e.table.ByProd[prodName] = append(e.table.ByProd[prodName], len(e.table.Rules))
	e.table.Rules = append(e.table.Rules, &BNFRule{ProdName: prodName, Symbols: symbols})
}

// renameProduction moves all the rules of one production to another
func (e *expander) renameProduction(from, to string) {
	refs := e.table.ByProd[from]
	delete(e.table.ByProd, from)

	for _, ref := range refs {
		e.table.Rules[ref].ProdName = to
	}

	e.table.ByProd[to] = append(e.table.ByProd[to], refs...)
}

// isRecursive reports whether any rule of a production refers to itself
func (e *expander) isRecursive(name string) bool {
	for _, ref := range e.table.ByProd[name] {
		for _, sym := range e.table.Rules[ref].Symbols {
			if sym.Name == name {
				return true
			}
		}
	}

	return false
}

func (e *expander) anonName() string {
	e.anonCount++
	return fmt.Sprintf("$%d-%s", e.anonCount, e.prodName)
}
