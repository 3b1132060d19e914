package mysqlstore

import (
	"fmt"
)

// ExecutionError wraps a driver, network, or server-reported fault. It is
// propagated verbatim as the operation's failure; nothing in this layer
// retries or rewrites the statement.
type ExecutionError struct {
	SQL string
	Err error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execute %q: %v", e.SQL, e.Err)
}

// Unwrap returns the driver-level error.
func (e *ExecutionError) Unwrap() error { return e.Err }
