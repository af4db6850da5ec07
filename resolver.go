package weld

import (
	"fmt"
	"reflect"
	"strings"
)

// ResolveOptions carries the environment a resolver run evaluates
// conditions against.
type ResolveOptions struct {
	// ActiveProfiles is the set of profile names active for this run.
	ActiveProfiles []string
	// Properties backs property-match conditions. Nil behaves as an
	// empty source: every lookup reports the key missing.
	Properties PropertySource
	// Logger receives resolution diagnostics. Nil disables logging.
	Logger Logger
}

// BuildRegistry resolves the declared descriptor set into an immutable
// Registry. It orders descriptors so every component referenced by a
// presence/absence condition is decided first, evaluates conditions,
// validates the dependency edges of the included subset, and rejects
// required-dependency cycles that are not broken by a deferred edge.
//
// Resolution failures are fatal: a partially resolved graph is never
// returned.
func BuildRegistry(descriptors []*ComponentDescriptor, opts ResolveOptions) (*Registry, error) {
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	if err := validateDescriptors(descriptors); err != nil {
		return nil, err
	}

	order, err := conditionOrder(descriptors)
	if err != nil {
		return nil, err
	}

	ctx := newConditionContext(opts.ActiveProfiles, opts.Properties, logger)
	reasons := make(map[string]string)
	for _, idx := range order {
		d := descriptors[idx]
		included, reason := evaluateConditions(d, ctx)
		ctx.record(d, included)
		if included {
			logger.Debug("Component included", "component", d.ID)
		} else {
			reasons[d.ID] = reason
			logger.Debug("Component excluded", "component", d.ID, "reason", reason)
		}
	}

	reg := &Registry{
		byName: make(map[string]int),
		byType: make(map[reflect.Type][]int),
	}
	for _, d := range descriptors {
		if reason, excluded := reasons[d.ID]; excluded {
			reg.excluded = append(reg.excluded, ExcludedComponent{ID: d.ID, Reason: reason})
			continue
		}
		idx := len(reg.components)
		reg.components = append(reg.components, d)
		reg.byName[d.ID] = idx
		reg.byType[d.Type.t] = append(reg.byType[d.Type.t], idx)
	}

	if err := validateDependencies(reg); err != nil {
		return nil, err
	}
	if err := detectConstructionCycles(reg); err != nil {
		return nil, err
	}

	logger.Info("Registry resolved", "included", reg.Len(), "excluded", len(reg.excluded))
	return reg, nil
}

func validateDescriptors(descriptors []*ComponentDescriptor) error {
	seen := make(map[string]struct{}, len(descriptors))
	for _, d := range descriptors {
		if d.ID == "" {
			return fmt.Errorf("%w: type %s", ErrEmptyID, d.Type)
		}
		if d.Factory == nil {
			return fmt.Errorf("%w: %s", ErrNilFactory, d.ID)
		}
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateComponent, d.ID)
		}
		seen[d.ID] = struct{}{}
	}
	return nil
}

// conditionOrder topologically orders descriptors so that everything a
// presence/absence/type condition refers to is evaluated first.
// Descriptors without incoming condition edges keep declaration order as
// the stable tie-break. A reference cycle cannot be decided in any order
// and is reported rather than silently broken.
func conditionOrder(descriptors []*ComponentDescriptor) ([]int, error) {
	byID := make(map[string]int, len(descriptors))
	for i, d := range descriptors {
		byID[d.ID] = i
	}

	deps := func(i int) []int {
		var out []int
		for _, cond := range descriptors[i].Conditions {
			switch cond.Kind {
			case ConditionComponentPresent, ConditionComponentAbsent:
				for _, ref := range cond.Components {
					out = append(out, refTargets(descriptors, byID, i, ref)...)
				}
			case ConditionTypePresent:
				out = append(out, typeTargets(descriptors, i, cond.Type)...)
			}
		}
		return out
	}

	order := make([]int, 0, len(descriptors))
	visited := make([]bool, len(descriptors))
	onStack := make([]bool, len(descriptors))

	var visit func(int) error
	visit = func(node int) error {
		if onStack[node] {
			return fmt.Errorf("%w: %s", ErrCyclicCondition, descriptors[node].ID)
		}
		if visited[node] {
			return nil
		}
		onStack[node] = true
		for _, dep := range deps(node) {
			if err := visit(dep); err != nil {
				return err
			}
		}
		onStack[node] = false
		visited[node] = true
		order = append(order, node)
		return nil
	}

	for i := range descriptors {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// refTargets maps one condition reference to the declared descriptors it
// depends on. A name that matches nothing yields no edge; the condition
// simply sees the component as absent.
func refTargets(descriptors []*ComponentDescriptor, byID map[string]int, self int, ref ComponentRef) []int {
	if ref.Name != "" {
		if idx, ok := byID[ref.Name]; ok && idx != self {
			return []int{idx}
		}
		return nil
	}
	return typeTargets(descriptors, self, ref.Type)
}

func typeTargets(descriptors []*ComponentDescriptor, self int, t TypeToken) []int {
	if t.IsZero() {
		return nil
	}
	var out []int
	for i, d := range descriptors {
		if i != self && d.Type.AssignableTo(t) {
			out = append(out, i)
		}
	}
	return out
}

// validateDependencies checks every included component's required
// selectors and explicit init constraints against the included set.
func validateDependencies(reg *Registry) error {
	for _, d := range reg.components {
		for _, ref := range d.Dependencies {
			if ref.Kind != DependencyRequired {
				continue
			}
			if _, err := reg.slotForRef(ref, ErrUnresolvedDependency); err != nil {
				return fmt.Errorf("component %s: %w", d.ID, err)
			}
		}
		for _, name := range d.ExtraInitDeps {
			if !reg.ContainsName(name) {
				return fmt.Errorf("component %s: %w: init dependency %q",
					d.ID, ErrUnresolvedDependency, name)
			}
		}
	}
	return nil
}

// detectConstructionCycles rejects cycles among required edges. Deferred
// provider edges are excluded: a cycle broken by one resolves lazily and
// is legal.
func detectConstructionCycles(reg *Registry) error {
	edges := make([][]int, reg.Len())
	for i, d := range reg.components {
		for _, ref := range d.Dependencies {
			if ref.Kind != DependencyRequired {
				continue
			}
			// Validated above, so resolution cannot fail here.
			if target, err := reg.slotForRef(ref, ErrUnresolvedDependency); err == nil {
				edges[i] = append(edges[i], target)
			}
		}
		for _, name := range d.ExtraInitDeps {
			if target, ok := reg.slotByName(name); ok {
				edges[i] = append(edges[i], target)
			}
		}
	}

	visited := make([]bool, reg.Len())
	onStack := make([]bool, reg.Len())
	var stack []string

	var visit func(int) error
	visit = func(node int) error {
		if onStack[node] {
			chain := append(stack, reg.components[node].ID)
			return fmt.Errorf("%w: %s", ErrCircularDependency, strings.Join(chain, " -> "))
		}
		if visited[node] {
			return nil
		}
		onStack[node] = true
		stack = append(stack, reg.components[node].ID)
		for _, dep := range edges[node] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		onStack[node] = false
		visited[node] = true
		return nil
	}

	for i := range reg.components {
		if err := visit(i); err != nil {
			return err
		}
	}
	return nil
}
