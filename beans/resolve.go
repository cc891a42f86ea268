package beans

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"go.uber.org/multierr"
)

// resolve brings alias to Ready or Failed. chain holds the aliases currently being
// materialized and is used to report cycles.
func (r *Registry) resolve(alias string, chain []string) error {
	current, known := r.entries[alias]
	descriptor, configured := r.descriptors[alias]

	if !known && !configured {
		return fmt.Errorf("%w: %q", ErrBeanNotFound, alias)
	}

	current = r.entry(alias)

	switch current.state {
	case StateReady:
		return nil
	case StateFailed:
		return current.err
	case StateConstructing:
		if current.exposed {
			return nil
		}

		return fmt.Errorf("%w: %s", ErrCyclicReference, strings.Join(append(slices.Clone(chain), alias), " -> "))
	case StateUnresolved:
	}

	if !configured {
		return fmt.Errorf("%w: %q", ErrBeanNotFound, alias)
	}

	current.state = StateConstructing
	chain = append(slices.Clone(chain), alias)

	instance, err := r.materialize(current, descriptor, chain)
	if err != nil {
		return r.markFailed(current, err)
	}

	if current.bound && !sameInstance(current.instance, instance) {
		return r.markFailed(current, fmt.Errorf("%w: %q is already bound to %T", ErrDuplicateName, alias, current.instance))
	}

	current.instance = instance
	current.exposed = true

	errs := descriptor.Err
	if errs == nil || !r.failFast {
		binder := NewBinder(r.introspector, chainResolver{registry: r, chain: chain})
		errs = multierr.Append(errs, binder.BindAll(instance, descriptor.Properties, r.failFast))
	}

	if errs != nil {
		return r.markFailed(current, errs)
	}

	r.markReady(current)

	return nil
}

// materialize produces the root instance of a bean from its directive.
func (r *Registry) materialize(current *entry, descriptor Descriptor, chain []string) (any, error) {
	if !descriptor.HasDirective {
		if current.bound {
			return current.instance, nil
		}

		return map[string]any{}, nil
	}

	directive := descriptor.Directive

	switch directive.Kind {
	case DirectiveClass:
		return r.catalog.New(directive.Target)
	case DirectiveType:
		typ, err := r.catalog.Type(directive.Target)
		if err != nil {
			return nil, err
		}

		if current.bound && matchesType(reflect.TypeOf(current.instance), typ) {
			return current.instance, nil
		}

		return r.single(typ, current.name)
	case DirectiveBean:
		return r.reference(directive, chain)
	case DirectivePlain:
	}

	if r.catalog.Has(directive.Target) {
		return r.catalog.New(directive.Target)
	}

	if current.bound {
		return current.instance, nil
	}

	return directive.Raw, nil
}

// resolveDirective produces the value of a directive used as a property value.
func (r *Registry) resolveDirective(directive Directive, chain []string) (any, error) {
	switch directive.Kind {
	case DirectiveClass:
		return r.catalog.New(directive.Target)
	case DirectiveType:
		typ, err := r.catalog.Type(directive.Target)
		if err != nil {
			return nil, err
		}

		return r.single(typ, "")
	case DirectiveBean:
		return r.reference(directive, chain)
	default:
		return directive.Raw, nil
	}
}

func (r *Registry) reference(directive Directive, chain []string) (any, error) {
	if directive.Err != nil {
		return nil, directive.Err
	}

	err := r.resolve(directive.Target, chain)
	if err != nil {
		return nil, fmt.Errorf("reference %q: %w", directive.Target, err)
	}

	instance := r.entries[directive.Target].instance
	if directive.Method == "" {
		return instance, nil
	}

	return invokeAccessor(instance, directive.Method)
}

// single returns the only Ready bean of type typ, ignoring the entry named exclude.
func (r *Registry) single(typ reflect.Type, exclude string) (any, error) {
	matches := r.readyOfType(typ, exclude)
	if len(matches) != 1 {
		return nil, fmt.Errorf("%w: found %d beans of type %s", ErrAmbiguousOrMissingType, len(matches), typ)
	}

	return matches[0], nil
}

// readyOfType returns the distinct Ready instances assignable to typ, in readiness order.
func (r *Registry) readyOfType(typ reflect.Type, exclude string) []any {
	var matches []any

	for _, name := range r.readyOrder {
		if name == exclude {
			continue
		}

		instance := r.entries[name].instance
		if !matchesType(reflect.TypeOf(instance), typ) {
			continue
		}

		if slices.ContainsFunc(matches, func(other any) bool { return sameInstance(other, instance) }) {
			continue
		}

		matches = append(matches, instance)
	}

	return matches
}

// matchesType reports whether an instance of type have satisfies want.
// A pointer to a struct satisfies the struct type itself.
func matchesType(have, want reflect.Type) bool {
	if have == nil || want == nil {
		return false
	}

	if have.AssignableTo(want) {
		return true
	}

	return want.Kind() != reflect.Pointer && want.Kind() != reflect.Interface &&
		have.Kind() == reflect.Pointer && have.Elem() == want
}

// chainResolver resolves property directives while a bean is being materialized.
// It runs under the registry lock held by the resolution in progress.
type chainResolver struct {
	registry *Registry
	chain    []string
}

func (c chainResolver) ResolveDirective(directive Directive) (any, error) {
	return c.registry.resolveDirective(directive, c.chain)
}
