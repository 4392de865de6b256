// Package dag provides a dynamic task-dependency executor.
package dag

import "errors"

// ErrCycle indicates that Validate found at least one dependency cycle in.
// the graph. A cyclic graph can never drain: the nodes on the cycle wait.
// on each other forever, so Run would simply report nothing left to do.
var ErrCycle = errors.New("dependency graph contains a cycle")

// Note: DomainError (caller-meaningful worker faults) is defined in worker.go
// next to the Worker contract that raises it.
