package velox

import (
	"errors"
	"fmt"
)

// ErrClosed is returned when an Aggregator is used after Close.
var ErrClosed = errors.New("velox: aggregator closed")

// ErrAccumulatorMismatch indicates that a spilled stream does not match
// the accumulators registered for Restore.
type ErrAccumulatorMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrAccumulatorMismatch) Error() string {
	return fmt.Sprintf("velox: spilled stream holds %d accumulator states, %d registered", e.Actual, e.Expected)
}
