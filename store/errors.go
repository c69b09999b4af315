package store

import (
	"fmt"
)

// EngineExecutionError reports that the database engine rejected or failed a
// statement. Inside a batch it is fatal: the enclosing transaction is rolled
// back and no rows are committed.
type EngineExecutionError struct {
	Op  string
	Err error
}

func (e *EngineExecutionError) Error() string {
	return fmt.Sprintf("engine failed during %s: %v", e.Op, e.Err)
}

func (e *EngineExecutionError) Unwrap() error {
	return e.Err
}
