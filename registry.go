package weld

import (
	"fmt"
	"reflect"
)

// ExcludedComponent records why a declared component did not make it into
// the registry, retained for introspection.
type ExcludedComponent struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Registry is the immutable, resolved component set produced by
// BuildRegistry. It holds the included descriptors in slot order, the
// name and type indices used for lookups, and the exclusion records.
// A Registry is safe for concurrent use and may back any number of
// Container instances.
type Registry struct {
	components []*ComponentDescriptor
	byName     map[string]int
	byType     map[reflect.Type][]int
	excluded   []ExcludedComponent
}

// Len returns the number of included components.
func (r *Registry) Len() int {
	return len(r.components)
}

// Components returns the included descriptors in slot order.
func (r *Registry) Components() []*ComponentDescriptor {
	out := make([]*ComponentDescriptor, len(r.components))
	copy(out, r.components)
	return out
}

// Excluded returns the components that were declared but filtered out,
// with the reason each one was excluded.
func (r *Registry) Excluded() []ExcludedComponent {
	out := make([]ExcludedComponent, len(r.excluded))
	copy(out, r.excluded)
	return out
}

// ContainsName reports whether a component with the given id is included.
func (r *Registry) ContainsName(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// ContainsType reports whether at least one included component produces a
// type assignable to t.
func (r *Registry) ContainsType(t TypeToken) bool {
	return len(r.slotsForType(t)) > 0
}

func (r *Registry) slotByName(name string) (int, bool) {
	idx, ok := r.byName[name]
	return idx, ok
}

// slotsForType returns the slots producing types assignable to t, in
// slot order. Exact token matches are indexed; interface satisfaction
// falls back to an assignability scan, the same way name-less service
// lookups match by interface elsewhere in this codebase's lineage.
func (r *Registry) slotsForType(t TypeToken) []int {
	if t.IsZero() {
		return nil
	}
	if exact, ok := r.byType[t.t]; ok && t.t.Kind() != reflect.Interface {
		return exact
	}
	var slots []int
	for i, d := range r.components {
		if d.Type.AssignableTo(t) {
			slots = append(slots, i)
		}
	}
	return slots
}

// selectSlot narrows a multi-candidate type match to a single slot using
// primary marking. Zero candidates and unresolved ambiguity are reported
// through the supplied sentinel so resolve-time and runtime callers can
// wrap with their own taxonomy.
func (r *Registry) selectSlot(candidates []int, t TypeToken, notFound error) (int, error) {
	switch len(candidates) {
	case 0:
		return -1, fmt.Errorf("%w: type %s", notFound, t)
	case 1:
		return candidates[0], nil
	}

	primary := -1
	for _, idx := range candidates {
		if !r.components[idx].Primary {
			continue
		}
		if primary >= 0 {
			return -1, fmt.Errorf("%w: type %s has multiple primary components", ErrAmbiguousDependency, t)
		}
		primary = idx
	}
	if primary < 0 {
		return -1, fmt.Errorf("%w: type %s matches %d components", ErrAmbiguousDependency, t, len(candidates))
	}
	return primary, nil
}

// slotForRef resolves a dependency selector to one slot. A named selector
// with a type qualifier additionally checks assignability.
func (r *Registry) slotForRef(ref DependencyRef, notFound error) (int, error) {
	if ref.Name != "" {
		idx, ok := r.slotByName(ref.Name)
		if !ok {
			return -1, fmt.Errorf("%w: name %q", notFound, ref.Name)
		}
		if !ref.Type.IsZero() && !r.components[idx].Type.AssignableTo(ref.Type) {
			return -1, fmt.Errorf("%w: component %q produces %s, not %s",
				ErrTypeMismatch, ref.Name, r.components[idx].Type, ref.Type)
		}
		return idx, nil
	}
	return r.selectSlot(r.slotsForType(ref.Type), ref.Type, notFound)
}
