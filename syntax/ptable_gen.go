package syntax

import (
	"fmt"
	"sort"

	"fusion/logging"
)

const (
	_goalSymbol = "program"

	// _acceptSymbol is the production of the augmented start rule
	// `_END_ -> program`
	_acceptSymbol = "_END_"
)

// constructParsingTable builds the LALR(1) parsing table for a rule table.  The
// LR(0) automaton is built first and lookaheads are then propagated through it
// until nothing changes.  Shift/reduce conflicts are resolved in favor of
// SHIFT with a warning; reduce/reduce conflicts are errors.
func constructParsingTable(brt *BNFRuleTable) (*ParsingTable, error) {
	tb := &tableBuilder{
		rules:      brt,
		stateIndex: make(map[string]int),
		nullable:   make(map[string]bool),
		firsts:     make(map[string]intSet),
		ruleIndex:  make(map[PTableRule]int),
	}

	tb.augment()
	tb.computeFirstSets()
	tb.buildStates()
	tb.propagateLookaheads()

	if err := tb.buildTable(); err != nil {
		return nil, err
	}

	return tb.table, nil
}

// lrItem is an LR(0) item: a rule and the position of the dot in it
type lrItem struct {
	rule, dot int
}

// lrState is a state of the LR automaton
type lrState struct {
	// kernel is sorted so that equal kernels compare equal
	kernel []lrItem

	// items is the kernel followed by its closure
	items []lrItem

	// kernelLookaheads are the LALR(1) lookaheads of the kernel items
	kernelLookaheads map[lrItem]intSet

	gotos map[BNFSymbol]int

	// gotoOrder lists the keys of gotos in the order they were found
	gotoOrder []BNFSymbol
}

type tableBuilder struct {
	rules  *BNFRuleTable
	states []*lrState

	// stateIndex maps a kernel key to its state
	stateIndex map[string]int

	nullable map[string]bool
	firsts   map[string]intSet

	table     *ParsingTable
	ruleIndex map[PTableRule]int
}

// augment adds the rule `_END_ -> program` the automaton starts from
func (tb *tableBuilder) augment() {
	tb.rules.ByProd[_acceptSymbol] = []int{len(tb.rules.Rules)}
	tb.rules.Rules = append(tb.rules.Rules, &BNFRule{
		ProdName: _acceptSymbol,
		Symbols:  []BNFSymbol{nonterminal(_goalSymbol)},
	})
}

// computeFirstSets computes the nullability and the first set of every
// production
func (tb *tableBuilder) computeFirstSets() {
	for name := range tb.rules.ByProd {
		tb.firsts[name] = make(intSet)
	}

	for changed := true; changed; {
		changed = false

		for _, rule := range tb.rules.Rules {
			first, nullable := tb.firstOf(rule.Symbols)

			if tb.firsts[rule.ProdName].addAll(first) {
				changed = true
			}

			if nullable && !tb.nullable[rule.ProdName] {
				tb.nullable[rule.ProdName] = true
				changed = true
			}
		}
	}
}

// firstOf returns the first set of a string of symbols and whether it can
// derive the empty string
func (tb *tableBuilder) firstOf(symbols []BNFSymbol) (intSet, bool) {
	first := make(intSet)

	for _, sym := range symbols {
		if sym.IsTerminal() {
			first.add(sym.Terminal)
			return first, false
		}

		first.addAll(tb.firsts[sym.Name])
		if !tb.nullable[sym.Name] {
			return first, false
		}
	}

	return first, true
}

// symbolAfterDot returns the symbol to the right of the dot of an item
func (tb *tableBuilder) symbolAfterDot(item lrItem) (BNFSymbol, bool) {
	symbols := tb.rules.Rules[item.rule].Symbols
	if item.dot < len(symbols) {
		return symbols[item.dot], true
	}

	return BNFSymbol{}, false
}

// -----------------------------------------------------------------------------

// buildStates builds the LR(0) automaton breadth first from the start state
func (tb *tableBuilder) buildStates() {
	tb.addState([]lrItem{{rule: tb.rules.ByProd[_acceptSymbol][0]}})

	for i := 0; i < len(tb.states); i++ {
		state := tb.states[i]
		state.items = tb.closure(state.kernel)

		kernels := make(map[BNFSymbol][]lrItem)
		for _, item := range state.items {
			sym, ok := tb.symbolAfterDot(item)
			if !ok {
				continue
			}

			if _, ok := kernels[sym]; !ok {
				state.gotoOrder = append(state.gotoOrder, sym)
			}

			kernels[sym] = append(kernels[sym], lrItem{rule: item.rule, dot: item.dot + 1})
		}

		for _, sym := range state.gotoOrder {
			state.gotos[sym] = tb.addState(kernels[sym])
		}
	}
}

// addState returns the state with the given kernel, creating it if it doesn't
// exist yet
func (tb *tableBuilder) addState(kernel []lrItem) int {
	sort.Slice(kernel, func(i, j int) bool {
		if kernel[i].rule == kernel[j].rule {
			return kernel[i].dot < kernel[j].dot
		}

		return kernel[i].rule < kernel[j].rule
	})

	key := fmt.Sprint(kernel)
	if ndx, ok := tb.stateIndex[key]; ok {
		return ndx
	}

	state := &lrState{
		kernel:           kernel,
		kernelLookaheads: make(map[lrItem]intSet),
		gotos:            make(map[BNFSymbol]int),
	}

	for _, item := range kernel {
		state.kernelLookaheads[item] = make(intSet)
	}

	tb.stateIndex[key] = len(tb.states)
	tb.states = append(tb.states, state)
	return len(tb.states) - 1
}

// closure computes the LR(0) closure of a kernel
func (tb *tableBuilder) closure(kernel []lrItem) []lrItem {
	items := append([]lrItem(nil), kernel...)

	seen := make(map[lrItem]bool)
	for _, item := range items {
		seen[item] = true
	}

	for i := 0; i < len(items); i++ {
		sym, ok := tb.symbolAfterDot(items[i])
		if !ok || sym.IsTerminal() {
			continue
		}

		for _, ref := range tb.rules.ByProd[sym.Name] {
			item := lrItem{rule: ref}
			if !seen[item] {
				seen[item] = true
				items = append(items, item)
			}
		}
	}

	return items
}

// -----------------------------------------------------------------------------

// propagateLookaheads computes the kernel lookaheads of every state.  The
// lookaheads of each state are closed and pushed along its gotos until no
// kernel gains a lookahead.
func (tb *tableBuilder) propagateLookaheads() {
	start := tb.states[0]
	start.kernelLookaheads[start.kernel[0]].add(EOF)

	for changed := true; changed; {
		changed = false

		for _, state := range tb.states {
			lookaheads := tb.closeLookaheads(state)

			for _, item := range state.items {
				sym, ok := tb.symbolAfterDot(item)
				if !ok {
					continue
				}

				target := tb.states[state.gotos[sym]]
				if target.kernelLookaheads[lrItem{rule: item.rule, dot: item.dot + 1}].addAll(lookaheads[item]) {
					changed = true
				}
			}
		}
	}
}

// closeLookaheads computes the lookaheads of all the items of a state from the
// lookaheads of its kernel
func (tb *tableBuilder) closeLookaheads(state *lrState) map[lrItem]intSet {
	lookaheads := make(map[lrItem]intSet, len(state.items))
	for _, item := range state.items {
		lookaheads[item] = make(intSet)
	}

	for item, set := range state.kernelLookaheads {
		lookaheads[item].addAll(set)
	}

	for changed := true; changed; {
		changed = false

		for _, item := range state.items {
			sym, ok := tb.symbolAfterDot(item)
			if !ok || sym.IsTerminal() || len(lookaheads[item]) == 0 {
				continue
			}

			// the lookaheads of `B -> . γ` from `A -> α . B β` are FIRST(β) and,
			// if β can be empty, the lookaheads of the source item
			first, nullable := tb.firstOf(tb.rules.Rules[item.rule].Symbols[item.dot+1:])

			for _, ref := range tb.rules.ByProd[sym.Name] {
				dest := lookaheads[lrItem{rule: ref}]

				if dest.addAll(first) {
					changed = true
				}

				if nullable && dest.addAll(lookaheads[item]) {
					changed = true
				}
			}
		}
	}

	return lookaheads
}

// -----------------------------------------------------------------------------

// buildTable converts the automaton into action and goto rows
func (tb *tableBuilder) buildTable() error {
	tb.table = &ParsingTable{Rows: make([]*PTableRow, len(tb.states))}

	for i, state := range tb.states {
		row := &PTableRow{Actions: make(map[int]Action), Gotos: make(map[string]int)}
		tb.table.Rows[i] = row

		for _, sym := range state.gotoOrder {
			if sym.IsTerminal() {
				row.Actions[sym.Terminal] = Action{Kind: AKShift, Operand: state.gotos[sym]}
			} else {
				row.Gotos[sym.Name] = state.gotos[sym]
			}
		}

		lookaheads := tb.closeLookaheads(state)
		for _, item := range state.items {
			if _, ok := tb.symbolAfterDot(item); ok {
				continue
			}

			for _, lookahead := range lookaheads[item].sorted() {
				if err := tb.addReduce(row, item, lookahead); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// addReduce adds the reduction of a completed item on a lookahead
func (tb *tableBuilder) addReduce(row *PTableRow, item lrItem, lookahead int) error {
	rule := tb.rules.Rules[item.rule]
	if rule.ProdName == _acceptSymbol {
		row.Actions[lookahead] = Action{Kind: AKAccept}
		return nil
	}

	ref := tb.tableRule(PTableRule{Name: rule.ProdName, Count: len(rule.Symbols)})

	existing, ok := row.Actions[lookahead]
	if !ok {
		row.Actions[lookahead] = Action{Kind: AKReduce, Operand: ref}
		return nil
	}

	switch existing.Kind {
	case AKShift:
		logging.LogBuildWarning("Grammar", fmt.Sprintf(
			"shift/reduce conflict on `%s` resolved in favor of shift (%s)",
			TokenKindName(lookahead),
			tb.formatItem(item),
		))
	case AKReduce:
		// rules that build the same branch from the same number of nodes can't
		// be told apart by the parser and so don't conflict
		if existing.Operand != ref {
			other := tb.table.Rules[existing.Operand]
			return fmt.Errorf(
				"reduce/reduce conflict between `%s` and `%s` on `%s` (%s)",
				other.Name, rule.ProdName, TokenKindName(lookahead), tb.formatItem(item),
			)
		}
	}

	return nil
}

// tableRule returns the index of a reduction in the table, adding it if needed
func (tb *tableBuilder) tableRule(rule PTableRule) int {
	if ref, ok := tb.ruleIndex[rule]; ok {
		return ref
	}

	ref := len(tb.table.Rules)
	tb.table.Rules = append(tb.table.Rules, rule)
	tb.ruleIndex[rule] = ref
	return ref
}

// -----------------------------------------------------------------------------

// intSet is a set of token kinds
type intSet map[int]struct{}

// add adds a value and reports whether it was new
func (s intSet) add(v int) bool {
	if _, ok := s[v]; ok {
		return false
	}

	s[v] = struct{}{}
	return true
}

// addAll adds all the values of other and reports whether any were new
func (s intSet) addAll(other intSet) bool {
	added := false
	for v := range other {
		if s.add(v) {
			added = true
		}
	}

	return added
}

func (s intSet) sorted() []int {
	values := make([]int, 0, len(s))
	for v := range s {
		values = append(values, v)
	}

	sort.Ints(values)
	return values
}
