package weld

import (
	"fmt"
	"reflect"

	"github.com/golobby/cast"
)

// ConditionKind discriminates the flat Condition union.
type ConditionKind int

const (
	// ConditionPropertyMatch includes the component when a property
	// equals an expected value.
	ConditionPropertyMatch ConditionKind = iota
	// ConditionTypePresent includes the component when at least one
	// already-decided component produces an assignable type.
	ConditionTypePresent
	// ConditionComponentPresent includes the component when the
	// referenced components are included, per the strategy.
	ConditionComponentPresent
	// ConditionComponentAbsent includes the component when the
	// referenced components are all excluded or undeclared.
	ConditionComponentAbsent
	// ConditionProfileMatch includes the component when its listed
	// profiles intersect (any) or are covered by (all) the active set.
	ConditionProfileMatch
)

func (k ConditionKind) String() string {
	switch k {
	case ConditionPropertyMatch:
		return "property-match"
	case ConditionTypePresent:
		return "type-present"
	case ConditionComponentPresent:
		return "component-present"
	case ConditionComponentAbsent:
		return "component-absent"
	case ConditionProfileMatch:
		return "profile-match"
	default:
		return "unknown"
	}
}

// MatchStrategy selects how a multi-target condition combines its targets.
type MatchStrategy int

const (
	// MatchAny satisfies the condition when at least one target matches.
	MatchAny MatchStrategy = iota
	// MatchAll requires every target to match.
	MatchAll
)

// Condition is one inclusion gate on a descriptor. Only the fields
// relevant to Kind are consulted.
type Condition struct {
	Kind ConditionKind

	// PropertyMatch fields.
	Property       string
	Expected       string
	MatchIfMissing bool

	// TypePresent field.
	Type TypeToken

	// ComponentPresent/ComponentAbsent fields.
	Components []ComponentRef
	Strategy   MatchStrategy

	// ProfileMatch fields.
	Profiles []string
}

// OnProperty builds a property-match condition.
func OnProperty(name, expected string) Condition {
	return Condition{Kind: ConditionPropertyMatch, Property: name, Expected: expected}
}

// OnPropertyOrMissing builds a property-match condition that also holds
// when the property is absent from the source.
func OnPropertyOrMissing(name, expected string) Condition {
	return Condition{Kind: ConditionPropertyMatch, Property: name, Expected: expected, MatchIfMissing: true}
}

// OnType builds a type-present condition.
func OnType(t TypeToken) Condition {
	return Condition{Kind: ConditionTypePresent, Type: t}
}

// OnComponents builds a component-present condition.
func OnComponents(strategy MatchStrategy, refs ...ComponentRef) Condition {
	return Condition{Kind: ConditionComponentPresent, Strategy: strategy, Components: refs}
}

// OnMissingComponents builds a component-absent condition.
func OnMissingComponents(refs ...ComponentRef) Condition {
	return Condition{Kind: ConditionComponentAbsent, Components: refs}
}

// OnProfiles builds a profile-match condition.
func OnProfiles(strategy MatchStrategy, names ...string) Condition {
	return Condition{Kind: ConditionProfileMatch, Strategy: strategy, Profiles: names}
}

// PropertySource supplies property values to condition evaluation.
// The properties subpackage ships file, environment, and watching
// implementations; any type with this method works.
type PropertySource interface {
	// Lookup returns the value for key and whether it was found.
	Lookup(key string) (any, bool, error)
}

// conditionContext accumulates inclusion decisions during one resolver
// run. Decisions for components referenced by presence/absence conditions
// are always recorded before the referencing descriptor is evaluated; the
// resolver's condition-ordering pass guarantees that.
type conditionContext struct {
	profiles   map[string]struct{}
	properties PropertySource
	logger     Logger

	// decided holds every processed descriptor with its inclusion result,
	// in evaluation order.
	decided  []decidedComponent
	included map[string]bool
}

type decidedComponent struct {
	descriptor *ComponentDescriptor
	included   bool
}

func newConditionContext(activeProfiles []string, props PropertySource, logger Logger) *conditionContext {
	profiles := make(map[string]struct{}, len(activeProfiles))
	for _, p := range activeProfiles {
		profiles[p] = struct{}{}
	}
	return &conditionContext{
		profiles:   profiles,
		properties: props,
		logger:     logger,
		included:   make(map[string]bool),
	}
}

func (ctx *conditionContext) record(d *ComponentDescriptor, included bool) {
	ctx.decided = append(ctx.decided, decidedComponent{descriptor: d, included: included})
	ctx.included[d.ID] = included
}

// typeIncluded reports whether any decided, included component produces a
// type assignable to t.
func (ctx *conditionContext) typeIncluded(t TypeToken) bool {
	for _, dc := range ctx.decided {
		if dc.included && dc.descriptor.Type.AssignableTo(t) {
			return true
		}
	}
	return false
}

// refIncluded reports whether a component reference resolves to at least
// one decided, included component.
func (ctx *conditionContext) refIncluded(ref ComponentRef) bool {
	if ref.Name != "" {
		return ctx.included[ref.Name]
	}
	if !ref.Type.IsZero() {
		return ctx.typeIncluded(ref.Type)
	}
	return false
}

// evaluateConditions decides inclusion for one descriptor. All conditions
// must hold; the returned reason describes the first failure for the
// registry's exclusion records. A failing property lookup is logged and
// treated as unsatisfied rather than aborting resolution.
func evaluateConditions(d *ComponentDescriptor, ctx *conditionContext) (bool, string) {
	// The descriptor-level profile set is an implicit any-of profile match.
	if len(d.Profiles) > 0 && !matchProfiles(d.Profiles, MatchAny, ctx.profiles) {
		return false, fmt.Sprintf("component restricted to profiles %v", d.Profiles)
	}

	for _, cond := range d.Conditions {
		if !evaluateCondition(d, cond, ctx) {
			return false, describeCondition(cond)
		}
	}
	return true, ""
}

func evaluateCondition(d *ComponentDescriptor, cond Condition, ctx *conditionContext) bool {
	switch cond.Kind {
	case ConditionPropertyMatch:
		return matchProperty(d, cond, ctx)

	case ConditionTypePresent:
		return ctx.typeIncluded(cond.Type)

	case ConditionComponentPresent:
		if len(cond.Components) == 0 {
			return true
		}
		matched := 0
		for _, ref := range cond.Components {
			if ctx.refIncluded(ref) {
				matched++
			}
		}
		if cond.Strategy == MatchAll {
			return matched == len(cond.Components)
		}
		return matched > 0

	case ConditionComponentAbsent:
		for _, ref := range cond.Components {
			if ctx.refIncluded(ref) {
				return false
			}
		}
		return true

	case ConditionProfileMatch:
		return matchProfiles(cond.Profiles, cond.Strategy, ctx.profiles)

	default:
		ctx.logger.Warn("Unknown condition kind, treating as unsatisfied", "component", d.ID, "kind", int(cond.Kind))
		return false
	}
}

// matchProperty compares the looked-up value against the expected string,
// coercing the expectation to the value's type first so "true" matches a
// boolean property and "8080" matches an integer one.
func matchProperty(d *ComponentDescriptor, cond Condition, ctx *conditionContext) bool {
	if ctx.properties == nil {
		return cond.MatchIfMissing
	}

	value, found, err := ctx.properties.Lookup(cond.Property)
	if err != nil {
		ctx.logger.Warn("Property lookup failed, treating condition as unsatisfied",
			"component", d.ID, "property", cond.Property, "error", err)
		return false
	}
	if !found {
		return cond.MatchIfMissing
	}

	if s, ok := value.(string); ok {
		return s == cond.Expected
	}

	expected, err := cast.FromType(cond.Expected, reflect.TypeOf(value))
	if err != nil {
		// Incomparable as a typed value; fall back to string rendering.
		return fmt.Sprintf("%v", value) == cond.Expected
	}
	return reflect.DeepEqual(value, expected)
}

func matchProfiles(wanted []string, strategy MatchStrategy, active map[string]struct{}) bool {
	if len(wanted) == 0 {
		return true
	}
	matched := 0
	for _, p := range wanted {
		if _, ok := active[p]; ok {
			matched++
		}
	}
	if strategy == MatchAll {
		return matched == len(wanted)
	}
	return matched > 0
}

func describeCondition(cond Condition) string {
	switch cond.Kind {
	case ConditionPropertyMatch:
		return fmt.Sprintf("property %q != %q", cond.Property, cond.Expected)
	case ConditionTypePresent:
		return fmt.Sprintf("no included component of type %s", cond.Type)
	case ConditionComponentPresent:
		return fmt.Sprintf("required components not present: %s", describeRefs(cond.Components))
	case ConditionComponentAbsent:
		return fmt.Sprintf("conflicting components present: %s", describeRefs(cond.Components))
	case ConditionProfileMatch:
		return fmt.Sprintf("profiles %v not active", cond.Profiles)
	default:
		return "unsatisfied condition"
	}
}

func describeRefs(refs []ComponentRef) string {
	out := ""
	for i, ref := range refs {
		if i > 0 {
			out += ", "
		}
		if ref.Name != "" {
			out += ref.Name
		} else {
			out += ref.Type.String()
		}
	}
	return out
}
