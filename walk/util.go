package walk

import (
	"fusion/syntax"
)

// expectBranch checks that a child of parent is a branch with the given name
func expectBranch(parent *syntax.ASTBranch, node syntax.ASTNode, name string) (*syntax.ASTBranch, error) {
	if branch, ok := node.(*syntax.ASTBranch); ok {
		if branch.Name == name {
			return branch, nil
		}

		return nil, unexpectedNode(branch)
	}

	return nil, malformedNode(parent, "expected `%s`", name)
}

// expectLeaf checks that the child of parent at ndx exists and is a leaf of
// the given kind
func expectLeaf(parent *syntax.ASTBranch, ndx int, kind int) (*syntax.ASTLeaf, error) {
	if ndx >= parent.Len() {
		return nil, malformedNode(parent, "missing `%s`", syntax.TokenKindName(kind))
	}

	if leaf, ok := parent.Content[ndx].(*syntax.ASTLeaf); ok && leaf.Kind == kind {
		return leaf, nil
	}

	return nil, malformedNode(parent, "expected `%s`", syntax.TokenKindName(kind))
}

// childAt gets the child of parent at ndx or fails if there is none
func childAt(parent *syntax.ASTBranch, ndx int, what string) (syntax.ASTNode, error) {
	if ndx >= parent.Len() {
		return nil, malformedNode(parent, "missing %s", what)
	}

	return parent.Content[ndx], nil
}
