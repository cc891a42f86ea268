package beans

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/iancoleman/strcase"
)

//nolint:gochecknoglobals // reflect type handle
var errorType = reflect.TypeFor[error]()

// LookupByName returns the Ready bean registered as name.
func (r *Registry) LookupByName(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	current, ok := r.entries[name]
	if !ok || current.state != StateReady {
		return nil, false
	}

	return current.instance, true
}

// LookupByType returns every distinct Ready bean assignable to typ, in readiness order.
// For a struct type, pointers to it match as well.
func (r *Registry) LookupByType(typ reflect.Type) []any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.readyOfType(typ, "")
}

// ResolveDirective implements DirectiveResolver. A "#class:" directive constructs a new
// instance without registering it.
func (r *Registry) ResolveDirective(directive Directive) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.resolveDirective(directive, nil)
}

// ResolveValue parses raw as a directive and resolves it. Plain values are returned unchanged.
func (r *Registry) ResolveValue(raw string) (any, error) {
	return r.ResolveDirective(ParseDirective(raw))
}

// LookupAs returns the Ready bean registered as name if it is a T.
func LookupAs[T any](registry *Registry, name string) (T, bool) {
	var zero T

	instance, ok := registry.LookupByName(name)
	if !ok {
		return zero, false
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, false
	}

	return typed, true
}

// FindByType returns every distinct Ready bean of type T.
func FindByType[T any](registry *Registry) []T {
	instances := registry.LookupByType(reflect.TypeFor[T]())

	found := make([]T, 0, len(instances))

	for _, instance := range instances {
		if typed, ok := instance.(T); ok {
			found = append(found, typed)
		}
	}

	return found
}

// LookupAndConvert resolves raw (e.g. "#bean:myfoo?method=getName") and converts the result to T.
func LookupAndConvert[T any](registry *Registry, raw string) (T, error) {
	var zero T

	resolved, err := registry.ResolveValue(raw)
	if err != nil {
		return zero, err
	}

	converted, err := convertValue(reflect.TypeFor[T](), resolved)
	if err != nil {
		return zero, fmt.Errorf("%w: %q: %w", ErrTypeCoercion, raw, err)
	}

	typed, _ := converted.Interface().(T)

	return typed, nil
}

// invokeAccessor calls the accessor named method on instance and returns its result.
// "getName", "GetName" and "Name" are tried in turn, first as methods and then as
// exported fields or map keys.
func invokeAccessor(instance any, method string) (any, error) {
	value := reflect.ValueOf(instance)
	names := accessorNames(method)

	for _, name := range names {
		accessor := value.MethodByName(name)
		if accessor.IsValid() {
			return callAccessor(accessor, method)
		}
	}

	target := reflect.Indirect(value)

	switch target.Kind() {
	case reflect.Struct:
		for _, name := range names {
			field := target.FieldByName(name)
			if field.IsValid() && field.CanInterface() {
				return field.Interface(), nil
			}
		}
	case reflect.Map:
		if target.Type().Key().Kind() == reflect.String {
			for _, name := range mapKeyNames(method, names) {
				item := target.MapIndex(reflect.ValueOf(name).Convert(target.Type().Key()))
				if item.IsValid() {
					return item.Interface(), nil
				}
			}
		}
	default:
	}

	return nil, fmt.Errorf("%w: %q on %T", ErrMethodNotFound, method, instance)
}

func callAccessor(accessor reflect.Value, method string) (any, error) {
	signature := accessor.Type()

	if signature.NumIn() != 0 {
		return nil, fmt.Errorf("%w: %q takes arguments", ErrMethodNotFound, method)
	}

	switch {
	case signature.NumOut() == 1:
		return accessor.Call(nil)[0].Interface(), nil
	case signature.NumOut() == 2 && signature.Out(1) == errorType:
		out := accessor.Call(nil)
		if !out[1].IsNil() {
			err, _ := out[1].Interface().(error)

			return nil, fmt.Errorf("calling %q: %w", method, err)
		}

		return out[0].Interface(), nil
	default:
		return nil, fmt.Errorf("%w: %q does not return a single value", ErrMethodNotFound, method)
	}
}

// accessorNames maps an accessor name to the Go identifiers it may correspond to.
func accessorNames(method string) []string {
	names := []string{method, strcase.ToCamel(method)}

	for _, prefix := range []string{"get", "Get", "is", "Is"} {
		if rest, ok := strings.CutPrefix(method, prefix); ok && rest != "" {
			names = append(names, strcase.ToCamel(rest))

			break
		}
	}

	return slices.Compact(names)
}

// mapKeyNames adds the lower camel form of every accessor name, so "getRegion" finds "region".
func mapKeyNames(method string, names []string) []string {
	keys := []string{method}

	for _, name := range names {
		keys = append(keys, name, strcase.ToLowerCamel(name))
	}

	return keys
}
