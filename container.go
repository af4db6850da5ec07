package weld

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// SlotState is the lifecycle state of one singleton slot.
type SlotState int32

const (
	// SlotEmpty slots have never been constructed.
	SlotEmpty SlotState = iota
	// SlotInProgress slots have a factory running; concurrent callers
	// block on the slot guard until it finishes.
	SlotInProgress
	// SlotReady slots hold a fully constructed, hook-initialized
	// instance. Publication happens-after the post-create hook.
	SlotReady
)

func (s SlotState) String() string {
	switch s {
	case SlotEmpty:
		return "empty"
	case SlotInProgress:
		return "in-progress"
	case SlotReady:
		return "ready"
	default:
		return "unknown"
	}
}

// slot is one mutable cell of the container, corresponding 1:1 to a
// registry index. The state field is the only cross-thread publication
// point: instance is written before the release-store to SlotReady and
// only read after an acquire-load observes SlotReady.
type slot struct {
	mu       sync.Mutex
	state    atomic.Int32
	instance any
}

// Container serves instances for one Registry. It is safe for concurrent
// use by any number of goroutines; the only synchronization in the hot
// path is the per-slot guard, so unrelated slots never contend.
type Container struct {
	registry  *Registry
	slots     []slot
	logger    Logger
	observers []ObserverFunc
	closed    atomic.Bool

	orderMu           sync.Mutex
	constructionOrder []int
	destroyOnce       sync.Once
	destroyErr        error
}

// NewContainer builds a runtime for the registry and eagerly constructs
// every non-lazy singleton in registry order. An eager construction
// failure tears down anything already constructed and returns the error.
func NewContainer(registry *Registry, opts ...Option) (*Container, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}

	c := &Container{
		registry: registry,
		slots:    make([]slot, registry.Len()),
		logger:   noopLogger{},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	for i, d := range registry.components {
		if d.Scope != ScopeSingleton || d.Lazy {
			continue
		}
		if _, err := c.resolveSlot(&frame{c: c}, i); err != nil {
			closeErr := c.Close(context.Background())
			if closeErr != nil {
				c.logger.Error("Teardown after failed eager initialization reported errors", "error", closeErr)
			}
			return nil, fmt.Errorf("eager initialization of component %s failed: %w", d.ID, err)
		}
	}

	return c, nil
}

// Registry returns the registry this container was built from.
func (c *Container) Registry() *Registry {
	return c.registry
}

// IsClosed reports whether Close has been called.
func (c *Container) IsClosed() bool {
	return c.closed.Load()
}

// State returns the slot state for a component id. Unknown ids report
// SlotEmpty and false.
func (c *Container) State(name string) (SlotState, bool) {
	idx, ok := c.registry.slotByName(name)
	if !ok {
		return SlotEmpty, false
	}
	return SlotState(c.slots[idx].state.Load()), true
}

// GetByName resolves a component by id without a compile-time type.
func (c *Container) GetByName(name string) (any, error) {
	return (&frame{c: c}).Named(name)
}

// ContainsNamed reports whether the registry includes the id. It never
// constructs anything.
func (c *Container) ContainsNamed(name string) bool {
	return c.registry.ContainsName(name)
}

// Close destroys every constructed singleton in reverse construction
// order and transitions the container to closed; subsequent resolution
// calls fail with ErrContainerClosed. Close is idempotent: the sweep runs
// once and later calls return nil.
func (c *Container) Close(ctx context.Context) error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	c.destroyOnce.Do(func() {
		c.destroyErr = c.destroyAll(ctx)
	})
	c.notify(ctx, EventTypeContainerClosed, map[string]any{"components": c.registry.Len()})
	c.logger.Info("Container closed", "components", c.registry.Len())
	return c.destroyErr
}

// resolveSlot is the single entry point for instance resolution. The
// frame carries the slots currently constructing on this logical call
// chain; re-entering one is a construction cycle and fails fast instead
// of deadlocking on the slot guard.
func (c *Container) resolveSlot(f *frame, idx int) (any, error) {
	if c.closed.Load() {
		return nil, ErrContainerClosed
	}
	d := c.registry.components[idx]

	if d.Scope == ScopePrototype {
		if f.onPath(idx) {
			return nil, fmt.Errorf("%w: %s", ErrCircularDependency, f.chain(c, idx))
		}
		inst, err := c.construct(f, idx, d)
		if err != nil {
			return nil, err
		}
		c.logger.Debug("Constructed prototype", "component", d.ID)
		return inst, nil
	}

	s := &c.slots[idx]

	// Fast path: acquire-load of the published state.
	if SlotState(s.state.Load()) == SlotReady {
		return s.instance, nil
	}

	if f.onPath(idx) {
		return nil, fmt.Errorf("%w: %s", ErrCircularDependency, f.chain(c, idx))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have finished while we waited on the guard.
	if SlotState(s.state.Load()) == SlotReady {
		return s.instance, nil
	}
	if c.closed.Load() {
		return nil, ErrContainerClosed
	}

	s.state.Store(int32(SlotInProgress))
	inst, err := c.construct(f, idx, d)
	if err != nil {
		s.state.Store(int32(SlotEmpty))
		return nil, err
	}

	// Publish under orderMu so a close cannot slip between the closed
	// check and the order append: either the sweep's snapshot sees this
	// slot, or this check sees the closed flag and unwinds. The instance
	// write must still happen-before the release-store to SlotReady that
	// fast-path readers acquire-load.
	c.orderMu.Lock()
	if c.closed.Load() {
		c.orderMu.Unlock()
		s.state.Store(int32(SlotEmpty))
		if d.PreDestroy != nil {
			if hookErr := d.PreDestroy(); hookErr != nil {
				c.logger.Error("Pre-destroy hook failed", "component", d.ID, "error", hookErr)
			}
		}
		return nil, ErrContainerClosed
	}
	s.instance = inst
	s.state.Store(int32(SlotReady))
	c.constructionOrder = append(c.constructionOrder, idx)
	c.orderMu.Unlock()

	c.logger.Debug("Constructed singleton", "component", d.ID, "slot", idx)
	c.notify(context.Background(), EventTypeComponentConstructed, map[string]any{
		"component": d.ID,
		"scope":     d.Scope.String(),
	})
	return inst, nil
}

// construct runs the factory and the post-create hook. The instance is
// not visible to any other caller until both have succeeded.
func (c *Container) construct(f *frame, idx int, d *ComponentDescriptor) (any, error) {
	inst, err := d.Factory(f.child(idx))
	if err != nil {
		return nil, fmt.Errorf("factory for component %s failed: %w", d.ID, err)
	}
	if inst != nil && !d.Type.IsZero() && !TokenOf(inst).AssignableTo(d.Type) {
		return nil, fmt.Errorf("%w: factory for %s produced %T, declared %s",
			ErrTypeMismatch, d.ID, inst, d.Type)
	}
	if d.PostCreate != nil {
		if err := d.PostCreate(); err != nil {
			return nil, fmt.Errorf("post-create hook for component %s failed: %w", d.ID, err)
		}
	}
	return inst, nil
}

// frame is the resolver view handed to factories. Each construction
// level appends its slot to the path, so the path is exactly the chain
// of slots in progress on this logical call.
type frame struct {
	c    *Container
	path []int
}

func (f *frame) child(idx int) *frame {
	path := make([]int, len(f.path), len(f.path)+1)
	copy(path, f.path)
	return &frame{c: f.c, path: append(path, idx)}
}

func (f *frame) onPath(idx int) bool {
	for _, p := range f.path {
		if p == idx {
			return true
		}
	}
	return false
}

func (f *frame) chain(c *Container, idx int) string {
	names := make([]string, 0, len(f.path)+1)
	for _, p := range f.path {
		names = append(names, c.registry.components[p].ID)
	}
	names = append(names, c.registry.components[idx].ID)
	return strings.Join(names, " -> ")
}

// Named implements Resolver.
func (f *frame) Named(name string) (any, error) {
	idx, ok := f.c.registry.slotByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrComponentNotFound, name)
	}
	return f.c.resolveSlot(f, idx)
}

// Typed implements Resolver.
func (f *frame) Typed(t TypeToken) (any, error) {
	reg := f.c.registry
	idx, err := reg.selectSlot(reg.slotsForType(t), t, ErrComponentNotFound)
	if err != nil {
		return nil, err
	}
	return f.c.resolveSlot(f, idx)
}

// TypedNamed implements Resolver.
func (f *frame) TypedNamed(t TypeToken, name string) (any, error) {
	inst, err := f.Named(name)
	if err != nil {
		return nil, err
	}
	if inst != nil && !t.IsZero() && !TokenOf(inst).AssignableTo(t) {
		return nil, fmt.Errorf("%w: component %q is %T, requested %s", ErrTypeMismatch, name, inst, t)
	}
	return inst, nil
}

// All implements Resolver.
func (f *frame) All(t TypeToken) ([]any, error) {
	if f.c.closed.Load() {
		return nil, ErrContainerClosed
	}
	slots := f.c.registry.slotsForType(t)
	out := make([]any, 0, len(slots))
	for _, idx := range slots {
		inst, err := f.c.resolveSlot(f, idx)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

// Optional implements Resolver.
func (f *frame) Optional(t TypeToken) (any, bool, error) {
	if f.c.closed.Load() {
		return nil, false, ErrContainerClosed
	}
	reg := f.c.registry
	slots := reg.slotsForType(t)
	if len(slots) == 0 {
		return nil, false, nil
	}
	idx, err := reg.selectSlot(slots, t, ErrComponentNotFound)
	if err != nil {
		return nil, false, err
	}
	inst, err := f.c.resolveSlot(f, idx)
	if err != nil {
		return nil, false, err
	}
	return inst, true, nil
}

// Deferred implements Resolver. The returned provider captures the
// container, not the frame: invoking it later starts a fresh call chain,
// which is what lets a deferred edge break a construction cycle.
func (f *frame) Deferred(t TypeToken) func() (any, error) {
	c := f.c
	return func() (any, error) {
		return (&frame{c: c}).Typed(t)
	}
}
