package beans

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"slices"
	"sync"

	"github.com/0xalexb/hjarta-beans/logging"

	"go.uber.org/multierr"
)

// State is the resolution state of a bean name.
type State int

const (
	// StateUnresolved means the bean is known from configuration but not yet materialized.
	StateUnresolved State = iota
	// StateConstructing means resolution is in progress.
	StateConstructing
	// StateReady means the bean is fully materialized and available to lookups.
	StateReady
	// StateFailed means resolution failed; the bean is never returned by lookups.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateConstructing:
		return "constructing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Entry is a diagnostic snapshot of a registry entry.
type Entry struct {
	Name  string
	State State
	Type  string
	Err   error
}

type entry struct {
	name     string
	state    State
	instance any
	// exposed marks an instance that references may use while its own properties are still being bound.
	exposed bool
	// bound marks an instance supplied through Register before configuration for the same name was resolved.
	bound bool
	err   error
}

// Registry is the named and typed store of realized beans.
//
// Each runtime owns its own Registry; there is no package-level instance.
// Resolution holds the write lock, lookups take the read lock, so lookups are
// safe for concurrent use once startup has finished.
type Registry struct {
	mu           sync.RWMutex
	entries      map[string]*entry
	order        []string
	readyOrder   []string
	descriptors  map[string]Descriptor
	catalog      *Catalog
	introspector Introspector
	logger       *slog.Logger
	failFast     bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithCatalog sets the catalog used to resolve type names.
func WithCatalog(catalog *Catalog) RegistryOption {
	return func(r *Registry) {
		if catalog != nil {
			r.catalog = catalog
		}
	}
}

// WithIntrospector replaces the reflection based field introspection.
func WithIntrospector(introspector Introspector) RegistryOption {
	return func(r *Registry) {
		if introspector != nil {
			r.introspector = introspector
		}
	}
}

// WithLogger sets the logger used for resolution events.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logging.ForComponent(logger, "beans")
	}
}

// FailFast stops resolution at the first failing property or bean.
func FailFast(failFast bool) RegistryOption {
	return func(r *Registry) {
		r.failFast = failFast
	}
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	registry := &Registry{
		entries:      make(map[string]*entry),
		descriptors:  make(map[string]Descriptor),
		catalog:      NewCatalog(),
		introspector: NewReflectIntrospector(),
		logger:       logging.ForComponent(nil, "beans"),
	}

	for _, apply := range opts {
		apply(registry)
	}

	return registry
}

// Catalog returns the catalog used to resolve type names.
func (r *Registry) Catalog() *Catalog {
	return r.catalog
}

// Register binds instance to name and makes it Ready.
// Registering the identical instance again is a no-op; a different instance fails with ErrDuplicateName.
func (r *Registry) Register(name string, instance any) error {
	if name == "" {
		return ErrEmptyName
	}

	if instance == nil {
		return ErrNilInstance
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[name]; ok {
		switch {
		case (existing.state == StateReady || existing.bound) && sameInstance(existing.instance, instance):
			return nil
		case existing.bound:
			return fmt.Errorf("%w: %q is already bound to %T", ErrDuplicateName, name, existing.instance)
		case existing.state != StateUnresolved:
			return fmt.Errorf("%w: %q is already %s", ErrDuplicateName, name, existing.state)
		}
	}

	current := r.entry(name)
	current.instance = instance
	current.bound = true

	if _, configured := r.descriptors[name]; configured {
		// configuration for this name is applied to the bound instance on resolution
		return nil
	}

	r.markReady(current)

	return nil
}

// Resolve materializes a single descriptor and everything it references.
func (r *Registry) Resolve(descriptor Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.addDescriptor(descriptor)

	err := r.resolve(descriptor.Alias, nil)
	if err != nil {
		return &BeanError{Alias: descriptor.Alias, Err: err}
	}

	return nil
}

// ResolveAll materializes descriptors in order. Every failed bean is reported in the
// returned error, which wraps ErrStartup; use FailedBeans to inspect them.
func (r *Registry) ResolveAll(descriptors []Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, descriptor := range descriptors {
		r.addDescriptor(descriptor)
	}

	var failures []error

	for _, descriptor := range descriptors {
		err := r.resolve(descriptor.Alias, nil)
		if err == nil {
			continue
		}

		failures = append(failures, &BeanError{Alias: descriptor.Alias, Err: err})

		if r.failFast {
			break
		}
	}

	if len(failures) > 0 {
		r.logger.Error("bean resolution failed", slog.Int("failed", len(failures)))

		return fmt.Errorf("%w: %w", ErrStartup, multierr.Combine(failures...))
	}

	r.logger.Info("beans resolved", slog.Int("count", len(r.readyOrder)))

	return nil
}

// Entries returns a snapshot of every known bean, including failed ones, in discovery order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.order))

	for _, name := range r.order {
		current := r.entries[name]

		snapshot := Entry{Name: name, State: current.state, Err: current.err}
		if current.instance != nil {
			snapshot.Type = reflect.TypeOf(current.instance).String()
		}

		entries = append(entries, snapshot)
	}

	return entries
}

// Close tears down Ready beans in reverse readiness order. Beans implementing
// io.Closer or Close(context.Context) error are closed once each; errors are aggregated.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		errs   error
		closed []any
	)

	for _, name := range slices.Backward(r.readyOrder) {
		instance := r.entries[name].instance

		if slices.ContainsFunc(closed, func(other any) bool { return sameInstance(other, instance) }) {
			continue
		}

		err := closeInstance(ctx, instance)
		if err != nil {
			r.logger.Error("failed to close bean", slog.String("name", name), slog.Any("error", err))

			errs = multierr.Append(errs, fmt.Errorf("closing %q: %w", name, err))
		}

		closed = append(closed, instance)
	}

	return errs
}

func closeInstance(ctx context.Context, instance any) error {
	switch closer := instance.(type) {
	case interface{ Close(ctx context.Context) error }:
		return closer.Close(ctx)
	case io.Closer:
		return closer.Close()
	default:
		return nil
	}
}

func (r *Registry) addDescriptor(descriptor Descriptor) {
	if _, exists := r.descriptors[descriptor.Alias]; exists {
		return
	}

	r.descriptors[descriptor.Alias] = descriptor

	current := r.entry(descriptor.Alias)
	if current.state == StateReady && current.bound {
		// a pre-bound instance is reopened so the configuration can be applied to it
		current.state = StateUnresolved
		r.readyOrder = slices.DeleteFunc(r.readyOrder, func(name string) bool { return name == descriptor.Alias })
	}
}

// entry returns the entry for name, creating an Unresolved one if needed.
func (r *Registry) entry(name string) *entry {
	current, ok := r.entries[name]
	if !ok {
		current = &entry{name: name, state: StateUnresolved}
		r.entries[name] = current
		r.order = append(r.order, name)
	}

	return current
}

func (r *Registry) markReady(current *entry) {
	current.state = StateReady
	current.exposed = true
	current.err = nil
	r.readyOrder = append(r.readyOrder, current.name)

	r.logger.Debug("bean ready", slog.String("name", current.name), slog.String("type", fmt.Sprintf("%T", current.instance)))
}

func (r *Registry) markFailed(current *entry, err error) error {
	current.state = StateFailed
	current.err = err

	r.logger.Warn("bean failed", slog.String("name", current.name), slog.Any("error", err))

	return err
}

// sameInstance reports whether a and b are the same object: pointer-like values by address,
// other comparable values by equality.
func sameInstance(left, right any) bool {
	leftValue, rightValue := reflect.ValueOf(left), reflect.ValueOf(right)
	if !leftValue.IsValid() || !rightValue.IsValid() || leftValue.Type() != rightValue.Type() {
		return false
	}

	switch leftValue.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return leftValue.Pointer() == rightValue.Pointer()
	case reflect.Slice:
		return leftValue.Pointer() == rightValue.Pointer() && leftValue.Len() == rightValue.Len()
	default:
		if !leftValue.Comparable() || !rightValue.Comparable() {
			return false
		}

		return leftValue.Equal(rightValue)
	}
}
