package weld

import (
	"context"
	"fmt"
	"slices"
)

// destroyAll runs the destruction sweep for every constructed singleton.
// The base order is the reverse of the actual construction order, not
// the registry's static order, since lazy singletons construct whenever
// they are first touched. Explicit ExtraDestroyDeps constraints then
// reorder within that: a component listing another must be destroyed
// before it. Hook failures are collected and reported after the full
// sweep; they never stop destruction of the remaining slots.
func (c *Container) destroyAll(ctx context.Context) error {
	c.orderMu.Lock()
	order := make([]int, len(c.constructionOrder))
	copy(order, c.constructionOrder)
	c.orderMu.Unlock()

	slices.Reverse(order)
	order = c.applyDestroyConstraints(order)

	var hookErrs []error
	for _, idx := range order {
		s := &c.slots[idx]
		s.mu.Lock()
		if SlotState(s.state.Load()) != SlotReady {
			s.mu.Unlock()
			continue
		}
		d := c.registry.components[idx]

		if d.PreDestroy != nil {
			if err := d.PreDestroy(); err != nil {
				c.logger.Error("Pre-destroy hook failed", "component", d.ID, "error", err)
				hookErrs = append(hookErrs, fmt.Errorf("component %s: %w", d.ID, err))
			}
		}

		// The instance stays in place: a published value is never
		// mutated, because a lock-free fast-path reader that won the
		// closed check may still be loading it. The dead container
		// releases it.
		s.state.Store(int32(SlotEmpty))
		s.mu.Unlock()
		c.logger.Debug("Destroyed singleton", "component", d.ID)
		c.notify(ctx, EventTypeComponentDestroyed, map[string]any{"component": d.ID})
	}

	if len(hookErrs) > 0 {
		return &LifecycleError{Errors: hookErrs}
	}
	return nil
}

// applyDestroyConstraints reorders the destruction sweep so that for
// every constructed X listing Y in ExtraDestroyDeps, Y lands strictly
// after X. The pass is a stable topological sort seeded with the
// reverse-construction order, so unconstrained components keep their
// positions.
func (c *Container) applyDestroyConstraints(order []int) []int {
	constrained := false
	position := make(map[int]int, len(order))
	for i, idx := range order {
		position[idx] = i
	}

	// after[x] lists slots that must be destroyed after x.
	after := make(map[int][]int)
	indegree := make(map[int]int, len(order))
	for _, idx := range order {
		for _, name := range c.registry.components[idx].ExtraDestroyDeps {
			target, ok := c.registry.slotByName(name)
			if !ok {
				continue
			}
			if _, constructed := position[target]; !constructed {
				continue
			}
			after[idx] = append(after[idx], target)
			indegree[target]++
			constrained = true
		}
	}
	if !constrained {
		return order
	}

	result := make([]int, 0, len(order))
	emitted := make(map[int]bool, len(order))
	for len(result) < len(order) {
		picked := -1
		for _, idx := range order {
			if !emitted[idx] && indegree[idx] == 0 {
				picked = idx
				break
			}
		}
		if picked < 0 {
			// Constraint cycle; destroy the remainder in base order
			// rather than skipping anything.
			c.logger.Warn("Cyclic destroy-order constraints, falling back to reverse construction order")
			for _, idx := range order {
				if !emitted[idx] {
					result = append(result, idx)
				}
			}
			return result
		}
		emitted[picked] = true
		result = append(result, picked)
		for _, target := range after[picked] {
			indegree[target]--
		}
	}
	return result
}
