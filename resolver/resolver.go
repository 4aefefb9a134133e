// Package resolver computes a load order over a module set using Kahn's
// topological sort, priority tie-breaking, and a reverse-dependency index,
// with an LRU cache over stable resolution keys.
package resolver

import (
	"container/heap"
	"fmt"

	"github.com/xdarkicex/zephyr/module"
	"github.com/xdarkicex/zephyr/zerrors"
)

// Resolve computes a load order for modules using Kahn's algorithm:
// modules with satisfied dependencies are emitted first, ties broken by
// ascending priority then by discovery order.
func Resolve(modules []*module.Module) ([]*module.Module, error) {
	byName := make(map[string]*module.Module, len(modules))
	indexOf := make(map[string]int, len(modules))
	for i, m := range modules {
		if prior, ok := indexOf[m.Name]; ok {
			return nil, zerrors.New(zerrors.Validation, "invalid_module",
				fmt.Sprintf("duplicate module %q at indices %d and %d", m.Name, prior, i))
		}
		byName[m.Name] = m
		indexOf[m.Name] = i
	}

	inDegree := make(map[string]int, len(modules))
	dependents := make(map[string][]string) // name -> modules that require it
	for _, m := range modules {
		inDegree[m.Name] = 0
	}
	for _, m := range modules {
		for _, dep := range m.RequiredDeps {
			if _, ok := byName[dep]; !ok {
				return nil, zerrors.New(zerrors.Dependency, "missing_dependency",
					fmt.Sprintf("module %q requires %q, which is not present", m.Name, dep))
			}
			inDegree[m.Name]++
			dependents[dep] = append(dependents[dep], m.Name)
		}
	}

	pq := &priorityQueue{}
	heap.Init(pq)
	for _, m := range modules {
		if inDegree[m.Name] == 0 {
			heap.Push(pq, pqItem{module: m})
		}
	}

	var order []*module.Module
	for pq.Len() > 0 {
		item := heap.Pop(pq).(pqItem)
		m := item.module
		order = append(order, m)
		for _, depName := range dependents[m.Name] {
			inDegree[depName]--
			if inDegree[depName] == 0 {
				heap.Push(pq, pqItem{module: byName[depName]})
			}
		}
	}

	if len(order) < len(modules) {
		emitted := make(map[string]bool, len(order))
		for _, m := range order {
			emitted[m.Name] = true
		}
		var stuck []string
		for _, m := range modules {
			if !emitted[m.Name] {
				stuck = append(stuck, m.Name)
			}
		}
		return nil, zerrors.New(zerrors.Dependency, "circular_dependency",
			fmt.Sprintf("circular dependency among: %v", stuck))
	}

	return order, nil
}

// Dependents returns the set of module names in modules whose required
// deps list name, i.e. the reverse-dependency index entry for name.
func Dependents(modules []*module.Module, name string) []string {
	var out []string
	for _, m := range modules {
		for _, dep := range m.RequiredDeps {
			if dep == name {
				out = append(out, m.Name)
				break
			}
		}
	}
	return out
}

// pqItem pairs a module with its priority-queue ordering keys.
type pqItem struct {
	module *module.Module
}

// priorityQueue orders by ascending Priority, then ascending
// DiscoveryIndex (stable insertion order) as the final tie-break.
type priorityQueue []pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	a, b := pq[i].module, pq[j].module
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.DiscoveryIndex < b.DiscoveryIndex
}
func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x any)   { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
