package compiler

import "fmt"

// UnsupportedNodeError is raised when the compiler encounters an AST node
// it does not know how to lower.
type UnsupportedNodeError struct {
	Node any
}

func (e *UnsupportedNodeError) Error() string {
	return fmt.Sprintf("cannot compile expression: %#v", e.Node)
}

// ErrOrInSingleBranch is returned by CompileBoolExpr when it encounters an
// Or node. Callers must route through CompileOrBranches instead; seeing
// this error from CompileBoolExpr signals a caller bug, not a user error.
var ErrOrInSingleBranch = fmt.Errorf("OR conditions require query splitting: use CompileOrBranches instead")
