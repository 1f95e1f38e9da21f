package syntax

import "fusion/logging"

// ASTNode is a node of the tree produced by the parser
type ASTNode interface {
	// Position spans all the source text of the node.  It is nil for nodes
	// with no text.
	Position() *logging.TextPosition
}

// ASTLeaf is a token in the tree
type ASTLeaf Token

func (a *ASTLeaf) Position() *logging.TextPosition {
	return TextPositionOfToken((*Token)(a))
}

// TextPositionOfToken returns the text spanned by a token.  Tokens never span
// multiple lines.
func TextPositionOfToken(tok *Token) *logging.TextPosition {
	return &logging.TextPosition{
		StartLn:  tok.Line,
		StartCol: tok.Col - len(tok.Value),
		EndLn:    tok.Line,
		EndCol:   tok.Col,
	}
}

// ASTBranch is a named sequence of nodes built by reducing a grammar rule
type ASTBranch struct {
	Name    string
	Content []ASTNode
}

// Position runs from the start of the first node to the end of the last one
func (a *ASTBranch) Position() *logging.TextPosition {
	if len(a.Content) == 0 {
		return nil
	}

	first := a.Content[0].Position()
	last := a.Content[len(a.Content)-1].Position()

	switch {
	case first == nil:
		return last
	case last == nil:
		return first
	default:
		return logging.TextPositionFromRange(first, last)
	}
}

// Len returns the number of nodes in the branch
func (a *ASTBranch) Len() int {
	return len(a.Content)
}

// Leaves returns the direct children of the branch that are tokens of the
// given kind
func (a *ASTBranch) Leaves(kind int) []*ASTLeaf {
	var leaves []*ASTLeaf
	for _, node := range a.Content {
		if leaf, ok := node.(*ASTLeaf); ok && leaf.Kind == kind {
			leaves = append(leaves, leaf)
		}
	}

	return leaves
}

// FirstBranch returns the first direct child branch with the given name
func (a *ASTBranch) FirstBranch(name string) (*ASTBranch, bool) {
	for _, node := range a.Content {
		if branch, ok := node.(*ASTBranch); ok && branch.Name == name {
			return branch, true
		}
	}

	return nil, false
}
