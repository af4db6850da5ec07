package weld

import "fmt"

// Get resolves the single included component assignable to T.
func Get[T any](c *Container) (T, error) {
	return asTyped[T]((&frame{c: c}).Typed(TypeOf[T]()))
}

// GetNamed resolves a component by id and asserts it satisfies T.
func GetNamed[T any](c *Container, name string) (T, error) {
	return asTyped[T]((&frame{c: c}).TypedNamed(TypeOf[T](), name))
}

// GetAll resolves every included component assignable to T, in registry
// order. Prototype components construct fresh instances per call.
func GetAll[T any](c *Container) ([]T, error) {
	instances, err := (&frame{c: c}).All(TypeOf[T]())
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(instances))
	for _, inst := range instances {
		v, ok := inst.(T)
		if !ok {
			return nil, fmt.Errorf("%w: have %T", ErrTypeMismatch, inst)
		}
		out = append(out, v)
	}
	return out, nil
}

// TryGet resolves T if a matching component is included. The bool
// reports whether a match existed; construction failures, ambiguity, and
// a closed container still surface as errors.
func TryGet[T any](c *Container) (T, bool, error) {
	var zero T
	inst, found, err := (&frame{c: c}).Optional(TypeOf[T]())
	if err != nil || !found {
		return zero, found, err
	}
	v, ok := inst.(T)
	if !ok {
		return zero, true, fmt.Errorf("%w: have %T", ErrTypeMismatch, inst)
	}
	return v, true, nil
}

// Contains reports whether the registry includes a component assignable
// to T. It never constructs anything.
func Contains[T any](c *Container) bool {
	return c.registry.ContainsType(TypeOf[T]())
}

func asTyped[T any](inst any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	v, ok := inst.(T)
	if !ok {
		return zero, fmt.Errorf("%w: have %T", ErrTypeMismatch, inst)
	}
	return v, nil
}
