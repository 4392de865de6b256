package dag

import (
	"fmt"
	"sort"
	"strings"
)

// Validate checks the graph for dependency cycles using Kahn's algorithm.
//
// The algorithm repeatedly strips nodes with no remaining prerequisites; if
// any node survives, it sits on (or downstream of) a cycle and is reported
// in the error. Validation runs on a snapshot and does not mutate the graph.
//
// Validate is optional and is never invoked by the Executor. Run on a cyclic
// graph does not detect the cycle (the stuck nodes are simply never
// submitted), so callers that assemble edges from untrusted input should
// validate first:
//
//	if err := g.Validate(); err != nil {
//	    return err // errors.Is(err, dag.ErrCycle)
//	}
//
// Returns nil for an acyclic (or empty) graph, or an error wrapping ErrCycle
// naming the unresolved nodes.
func (g *Graph[T]) Validate() error {
	g.mu.RLock()

	// Snapshot the in-degree of every node (number of prerequisites).
	inDegree := make(map[T]int, len(g.nodes))
	dependents := make(map[T][]T, len(g.dependingOn))
	for t := range g.nodes {
		inDegree[t] = len(g.dependedUpon[t])
	}
	for t, deps := range g.dependingOn {
		for d := range deps {
			dependents[t] = append(dependents[t], d)
		}
	}
	g.mu.RUnlock()

	queue := make([]T, 0, len(inDegree))
	for t, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, t)
		}
	}

	resolved := 0
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		resolved++

		for _, dependent := range dependents[current] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if resolved == len(inDegree) {
		return nil
	}

	stuck := make([]string, 0, len(inDegree)-resolved)
	for t, degree := range inDegree {
		if degree > 0 {
			stuck = append(stuck, fmt.Sprintf("%v", t))
		}
	}
	sort.Strings(stuck)
	return fmt.Errorf("%w: unresolved nodes: %s", ErrCycle, strings.Join(stuck, ", "))
}
