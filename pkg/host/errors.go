package host

import (
	"fmt"

	"github.com/vango-dev/vpatch/pkg/vdom"
)

// Error is the panic value of a failed host operation.
type Error struct {
	Op     string
	Node   vdom.Handle
	Reason string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("host: %s(%d): %s", e.Op, e.Node, e.Reason)
}

func fail(op string, node vdom.Handle, format string, args ...any) {
	panic(&Error{Op: op, Node: node, Reason: fmt.Sprintf(format, args...)})
}
