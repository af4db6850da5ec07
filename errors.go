package weld

import (
	"errors"
	"strings"
)

var (
	// Resolution errors, fatal to BuildRegistry
	ErrDuplicateComponent   = errors.New("duplicate component id")
	ErrCyclicCondition      = errors.New("cyclic presence condition between components")
	ErrUnresolvedDependency = errors.New("required dependency matches no included component")
	ErrAmbiguousDependency  = errors.New("dependency matches multiple components and none is primary")

	// Runtime lookup and construction errors, returned per call
	ErrComponentNotFound  = errors.New("component not found")
	ErrContainerClosed    = errors.New("container is closed")
	ErrCircularDependency = errors.New("circular dependency detected during construction")
	ErrTypeMismatch       = errors.New("component does not satisfy requested type")

	// Descriptor validation errors
	ErrNilFactory  = errors.New("component descriptor has no factory")
	ErrEmptyID     = errors.New("component descriptor has no id")
	ErrNilRegistry = errors.New("registry is nil")
)

// LifecycleError collects pre-destroy hook failures from a container
// close sweep. Destruction is best-effort: every constructed singleton is
// swept even when earlier hooks fail, and the failures are reported
// together afterwards.
type LifecycleError struct {
	Errors []error
}

func (e *LifecycleError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return "lifecycle hook errors: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the collected errors to errors.Is/As.
func (e *LifecycleError) Unwrap() []error {
	return e.Errors
}
