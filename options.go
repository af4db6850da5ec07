package weld

// Option configures a Container during construction.
type Option func(*Container) error

// WithLogger sets the logger the container and its resolution paths log
// through.
func WithLogger(logger Logger) Option {
	return func(c *Container) error {
		if logger == nil {
			logger = noopLogger{}
		}
		c.logger = logger
		return nil
	}
}

// WithObserver registers an observer for container lifecycle events.
// Multiple observers run in registration order.
func WithObserver(fn ObserverFunc) Option {
	return func(c *Container) error {
		if fn != nil {
			c.observers = append(c.observers, fn)
		}
		return nil
	}
}
