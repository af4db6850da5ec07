// Package weld provides a component-graph runtime: given a finalized set of
// component descriptors it resolves which components are included, validates
// their dependency graph, and manages lazily constructed instances with
// single-flight guarantees and ordered lifecycle hooks.
//
// Descriptors are produced externally (typically by code generation or an
// explicit registration step), resolved once into an immutable Registry, and
// served by one or more Container instances:
//
//	registry, err := weld.BuildRegistry(descriptors, weld.ResolveOptions{
//		ActiveProfiles: []string{"production"},
//		Properties:     properties.NewEnvSource("APP"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	container, err := weld.NewContainer(registry)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer container.Close(context.Background())
//
//	svc, err := weld.Get[*OrderService](container)
package weld

import "reflect"

// Scope controls how many instances of a component a container creates.
type Scope int

const (
	// ScopeSingleton components are constructed at most once per container
	// and destroyed when the container closes.
	ScopeSingleton Scope = iota
	// ScopePrototype components are constructed on every resolution call
	// and are never tracked by the container afterwards.
	ScopePrototype
)

func (s Scope) String() string {
	switch s {
	case ScopeSingleton:
		return "singleton"
	case ScopePrototype:
		return "prototype"
	default:
		return "unknown"
	}
}

// TypeToken is an opaque identity for the type a component produces.
// Tokens compare by exact type; lookups additionally fall back to
// interface assignability so a component producing *Postgres can satisfy
// a request for a Database interface.
type TypeToken struct {
	t reflect.Type
}

// TypeOf returns the TypeToken for T. T may be an interface or a concrete
// type; pointer types keep their pointer identity.
func TypeOf[T any]() TypeToken {
	return TypeToken{t: reflect.TypeOf((*T)(nil)).Elem()}
}

// TokenOf returns the TypeToken for a live value's dynamic type.
func TokenOf(v any) TypeToken {
	return TypeToken{t: reflect.TypeOf(v)}
}

// IsZero reports whether the token carries no type.
func (tt TypeToken) IsZero() bool { return tt.t == nil }

// AssignableTo reports whether a value of this token's type can be
// assigned to the other token's type.
func (tt TypeToken) AssignableTo(other TypeToken) bool {
	if tt.t == nil || other.t == nil {
		return false
	}
	return tt.t.AssignableTo(other.t)
}

func (tt TypeToken) String() string {
	if tt.t == nil {
		return "<none>"
	}
	return tt.t.String()
}

// DependencyKind describes how a declared dependency is consumed.
type DependencyKind int

const (
	// DependencyRequired dependencies must match exactly one included
	// component; resolution fails otherwise.
	DependencyRequired DependencyKind = iota
	// DependencyOptional dependencies may match zero components.
	DependencyOptional
	// DependencyCollection dependencies collect every matching component.
	DependencyCollection
	// DependencyDeferred dependencies are handed to the consumer as a
	// Provider and only resolve when the provider is invoked. A deferred
	// edge does not participate in construction-cycle detection, which is
	// how intentional cycles are broken.
	DependencyDeferred
)

func (k DependencyKind) String() string {
	switch k {
	case DependencyRequired:
		return "required"
	case DependencyOptional:
		return "optional"
	case DependencyCollection:
		return "collection"
	case DependencyDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// DependencyRef selects another component by type, name, or both.
type DependencyRef struct {
	Type TypeToken
	Name string
	Kind DependencyKind
}

// ComponentRef names a component for presence/absence conditions,
// by id or by produced type.
type ComponentRef struct {
	Name string
	Type TypeToken
}

// Resolver is the view of a container handed to component factories.
// It carries the logical call chain so that a factory transitively
// requesting its own slot fails with ErrCircularDependency instead of
// deadlocking.
type Resolver interface {
	// Named resolves a component by id.
	Named(name string) (any, error)
	// Typed resolves the single component matching the token.
	Typed(t TypeToken) (any, error)
	// TypedNamed resolves by id and asserts the produced type.
	TypedNamed(t TypeToken, name string) (any, error)
	// All resolves every included component assignable to the token,
	// in registry order.
	All(t TypeToken) ([]any, error)
	// Optional resolves the component matching the token if one is
	// included; the bool reports whether a match existed.
	Optional(t TypeToken) (any, bool, error)
	// Deferred returns a provider that resolves the token on invocation,
	// on a fresh call chain. It never constructs eagerly.
	Deferred(t TypeToken) func() (any, error)
}

// Factory constructs one component instance, requesting its dependencies
// through the supplied Resolver. Factories must not retain the Resolver
// beyond the call.
type Factory func(r Resolver) (any, error)

// Hook is a zero-argument lifecycle callback bound to an instance by the
// descriptor producer.
type Hook func() error

// ComponentDescriptor is the immutable description of one component.
// Descriptors are created once by the discovery layer and must not be
// mutated after being handed to BuildRegistry.
type ComponentDescriptor struct {
	// ID is the component's unique qualified name.
	ID string
	// Type identifies what the factory produces.
	Type TypeToken
	// Scope selects singleton or prototype semantics.
	Scope Scope
	// Lazy singletons construct on first access; non-lazy singletons
	// construct eagerly when the container is built.
	Lazy bool
	// Primary marks this descriptor as the winner when a by-type lookup
	// matches several components.
	Primary bool
	// Dependencies declares what the factory will request, in order.
	Dependencies []DependencyRef
	// Conditions gate inclusion; all must hold.
	Conditions []Condition
	// Profiles restricts the component to the listed profiles. Empty
	// means always eligible.
	Profiles []string
	// PostCreate runs after the factory, before the instance is published.
	PostCreate Hook
	// PreDestroy runs during container close, at most once.
	PreDestroy Hook
	// ExtraInitDeps names components that must be fully constructed
	// before this one initializes, augmenting the declared dependencies.
	ExtraInitDeps []string
	// ExtraDestroyDeps names components that must be destroyed strictly
	// after this one.
	ExtraDestroyDeps []string
	// Factory produces the instance.
	Factory Factory
}
