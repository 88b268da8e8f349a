package container

import (
	"fmt"
	"slices"
	"strings"

	"github.com/wakewell/servicekit/errors"
)

// Order computes a deterministic topological order over the named nodes:
// every node appears after all of its dependencies. deps returns the
// declared dependency names of a node; names it returns that are not in
// nodes are ignored by the sort (missing-dependency checks are a separate
// concern). A cycle yields an error wrapping ErrCircularDependency that
// names the nodes on the cycle, and the sort always terminates.
func Order(nodes []string, deps func(name string) []string) ([]string, error) {
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n] = true
	}

	sorted := slices.Clone(nodes)
	slices.Sort(sorted)

	visited := make(map[string]bool, len(nodes))
	visiting := make(map[string]bool, len(nodes))
	order := make([]string, 0, len(nodes))

	var visit func(name string, chain []string) error
	visit = func(name string, chain []string) error {
		if visited[name] {
			return nil
		}
		if visiting[name] {
			cycle := append(chainFrom(chain, name), name)
			return errors.WrapInvalid(
				fmt.Errorf("%w: %s", errors.ErrCircularDependency, strings.Join(cycle, " -> ")),
				"container", "Order", "sort dependency graph")
		}

		visiting[name] = true
		for _, dep := range deps(name) {
			if !known[dep] {
				continue
			}
			if err := visit(dep, append(chain, name)); err != nil {
				return err
			}
		}
		visiting[name] = false

		visited[name] = true
		order = append(order, name)
		return nil
	}

	for _, name := range sorted {
		if err := visit(name, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// chainFrom trims the chain to start at the first occurrence of name so
// the reported cycle contains only its own members.
func chainFrom(chain []string, name string) []string {
	for i, n := range chain {
		if n == name {
			return slices.Clone(chain[i:])
		}
	}
	return slices.Clone(chain)
}
