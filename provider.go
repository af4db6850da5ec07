package weld

// Provider is a deferred, zero-argument resolution handle. Obtaining a
// provider never constructs the target; invoking it resolves on a fresh
// call chain, which is how a consumer breaks a construction cycle with
// one of its dependencies.
type Provider[T any] func() (T, error)

// GetProvider returns a provider for the single component assignable
// to T.
func GetProvider[T any](c *Container) Provider[T] {
	return func() (T, error) {
		return Get[T](c)
	}
}

// GetNamedProvider returns a provider for a component id.
func GetNamedProvider[T any](c *Container, name string) Provider[T] {
	return func() (T, error) {
		return GetNamed[T](c, name)
	}
}
