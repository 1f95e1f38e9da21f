package syntax

import "strings"

// formatItem renders an LR(0) item as `prod -> a . b` for diagnostics
func (tb *tableBuilder) formatItem(item lrItem) string {
	rule := tb.rules.Rules[item.rule]

	parts := []string{rule.ProdName, "->"}
	for i, sym := range rule.Symbols {
		if i == item.dot {
			parts = append(parts, ".")
		}

		parts = append(parts, sym.String())
	}

	if item.dot == len(rule.Symbols) {
		parts = append(parts, ".")
	}

	return strings.Join(parts, " ")
}
