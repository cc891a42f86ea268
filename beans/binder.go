package beans

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/multierr"
)

var errNotNavigable = errors.New("value cannot hold nested properties")

// maxListGrowth bounds how far past its current length a slice may be grown by one index.
const maxListGrowth = 1024

// DirectiveResolver produces the value behind a "#class:", "#type:" or "#bean:" directive.
type DirectiveResolver interface {
	ResolveDirective(directive Directive) (any, error)
}

// Assignment is a parsed property path and its raw value.
type Assignment struct {
	Key   string
	Path  Path
	Value string
}

// Binder applies property paths onto bean instances.
//
// Intermediate structs, pointers, maps and slices are created on demand.
// Values carrying a directive prefix are resolved through the DirectiveResolver;
// other values are coerced from their string form into the declared field type.
type Binder struct {
	introspector Introspector
	resolver     DirectiveResolver
}

// NewBinder creates a Binder. A nil introspector defaults to a ReflectIntrospector;
// a nil resolver makes directive values fail to bind.
func NewBinder(introspector Introspector, resolver DirectiveResolver) *Binder {
	if introspector == nil {
		introspector = NewReflectIntrospector()
	}

	return &Binder{
		introspector: introspector,
		resolver:     resolver,
	}
}

// BindAll binds every assignment onto target. Failures are collected and returned together
// unless failFast is set, in which case binding stops at the first failure.
func (b *Binder) BindAll(target any, assignments []Assignment, failFast bool) error {
	var errs error

	for _, assignment := range assignments {
		err := b.Bind(target, assignment.Path, assignment.Value)
		if err == nil {
			continue
		}

		if failFast {
			return err
		}

		errs = multierr.Append(errs, err)
	}

	return errs
}

// Bind applies raw at path on target. Target must be a non-nil pointer or a map.
func (b *Binder) Bind(target any, path Path, raw string) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: empty path", ErrMalformedPath)
	}

	root := reflect.ValueOf(target)

	switch {
	case !root.IsValid():
		return fmt.Errorf("%w: %s: nil target", ErrTypeCoercion, path)
	case root.Kind() == reflect.Pointer && root.IsNil():
		return fmt.Errorf("%w: %s: nil target", ErrTypeCoercion, path)
	case root.Kind() == reflect.Map && root.IsNil():
		return fmt.Errorf("%w: %s: nil map target", ErrTypeCoercion, path)
	case root.Kind() != reflect.Pointer && root.Kind() != reflect.Map:
		return fmt.Errorf("%w: %s: cannot bind properties onto %T", ErrTypeCoercion, path, target)
	}

	op := operation{binder: b, field: path.String(), raw: raw}

	_, err := op.through(root, func(current reflect.Value) (reflect.Value, error) {
		return op.segment(current, path)
	})

	return err
}

// operation carries the context of a single Bind call.
type operation struct {
	binder *Binder
	field  string
	raw    string
}

// through dereferences pointers and interfaces, allocating nil ones, applies fn to the
// innermost value and stores the result back.
func (op operation) through(value reflect.Value, fn func(reflect.Value) (reflect.Value, error)) (reflect.Value, error) {
	switch value.Kind() {
	case reflect.Pointer:
		ptr := value
		if ptr.IsNil() {
			ptr = reflect.New(value.Type().Elem())
		}

		inner, err := op.through(ptr.Elem(), fn)
		if err != nil {
			return value, err
		}

		ptr.Elem().Set(inner)

		return ptr, nil
	case reflect.Interface:
		var inner reflect.Value

		switch {
		case !value.IsNil():
			inner = value.Elem()
		case value.Type().NumMethod() == 0:
			inner = reflect.ValueOf(map[string]any{})
		default:
			return value, op.fail(errNotNavigable)
		}

		result, err := op.through(inner, fn)
		if err != nil {
			return value, err
		}

		out := reflect.New(value.Type()).Elem()
		out.Set(result)

		return out, nil
	default:
		return fn(value)
	}
}

// segment applies the first segment of path to current and returns the updated value.
func (op operation) segment(current reflect.Value, path Path) (reflect.Value, error) {
	seg := path[0]

	if seg.Name == "" {
		return op.element(current, seg, path[1:])
	}

	switch current.Kind() {
	case reflect.Struct:
		return op.structMember(current, seg, path[1:])
	case reflect.Map:
		return op.mapEntry(current, seg.Name, func(existing reflect.Value) (reflect.Value, error) {
			return op.step(existing, seg, path[1:])
		})
	default:
		return current, op.fail(fmt.Errorf("%w: %s has no property %q", errNotNavigable, current.Type(), seg.Name))
	}
}

func (op operation) structMember(current reflect.Value, seg Segment, rest Path) (reflect.Value, error) {
	field, ok := findField(op.binder.introspector.Fields(current.Type()), seg.Name)
	if !ok {
		return current, fmt.Errorf("%w: field %q: %s has no property %q", ErrUnknownProperty, op.field, current.Type(), seg.Name)
	}

	out := reflect.New(current.Type()).Elem()
	out.Set(current)

	member := out.FieldByIndex(field.Index)

	updated, err := op.step(member, seg, rest)
	if err != nil {
		return current, err
	}

	member.Set(updated)

	return out, nil
}

// step continues with the value selected by the segment name: it either assigns the final
// value, applies the segment's key/index, or descends into the remaining path.
func (op operation) step(member reflect.Value, seg Segment, rest Path) (reflect.Value, error) {
	if seg.Kind != SegmentField {
		return op.element(member, Segment{Kind: seg.Kind, Key: seg.Key, Index: seg.Index}, rest)
	}

	if len(rest) == 0 {
		return op.assign(member.Type())
	}

	return op.through(member, func(inner reflect.Value) (reflect.Value, error) {
		return op.segment(inner, rest)
	})
}

// element applies a map key or list index to value.
func (op operation) element(value reflect.Value, seg Segment, rest Path) (reflect.Value, error) {
	return op.through(value, func(container reflect.Value) (reflect.Value, error) {
		next := func(existing reflect.Value) (reflect.Value, error) {
			if len(rest) == 0 {
				return op.assign(existing.Type())
			}

			return op.through(existing, func(inner reflect.Value) (reflect.Value, error) {
				return op.segment(inner, rest)
			})
		}

		switch container.Kind() {
		case reflect.Map:
			return op.mapEntry(container, seg.Key, next)
		case reflect.Slice, reflect.Array:
			if seg.Kind != SegmentListIndex {
				return container, op.fail(fmt.Errorf("index %q is not a list position", seg.Key))
			}

			return op.listElement(container, seg.Index, next)
		default:
			return container, op.fail(fmt.Errorf("%w: %s cannot be indexed", errNotNavigable, container.Type()))
		}
	})
}

func (op operation) mapEntry(
	container reflect.Value,
	rawKey string,
	next func(existing reflect.Value) (reflect.Value, error),
) (reflect.Value, error) {
	mapType := container.Type()

	key, err := coerceScalar(mapType.Key(), rawKey)
	if err != nil {
		return container, op.fail(fmt.Errorf("map key %q: %w", rawKey, err))
	}

	if container.IsNil() {
		container = reflect.MakeMap(mapType)
	}

	existing := container.MapIndex(key)
	if !existing.IsValid() {
		existing = reflect.Zero(mapType.Elem())
	}

	updated, err := next(existing)
	if err != nil {
		return container, err
	}

	container.SetMapIndex(key, updated)

	return container, nil
}

func (op operation) listElement(
	container reflect.Value,
	index int,
	next func(existing reflect.Value) (reflect.Value, error),
) (reflect.Value, error) {
	list := container

	switch {
	case container.Kind() == reflect.Array:
		if index >= container.Len() {
			return container, op.fail(fmt.Errorf("index %d out of range for %s", index, container.Type()))
		}

		list = reflect.New(container.Type()).Elem()
		list.Set(container)
	case index-container.Len() >= maxListGrowth:
		return container, op.fail(fmt.Errorf("index %d is too far past the end of %s (len %d)", index, container.Type(), container.Len()))
	case index >= container.Len():
		grown := reflect.MakeSlice(container.Type(), index+1, index+1)
		reflect.Copy(grown, container)
		list = grown
	}

	item := list.Index(index)

	updated, err := next(item)
	if err != nil {
		return container, err
	}

	item.Set(updated)

	return list, nil
}

// assign produces the final value for a field of type t.
func (op operation) assign(t reflect.Type) (reflect.Value, error) {
	directive := ParseDirective(op.raw)
	if directive.Kind == DirectivePlain {
		value, err := coerceScalar(t, op.raw)
		if err != nil {
			return reflect.Value{}, op.fail(err)
		}

		return value, nil
	}

	if op.binder.resolver == nil {
		return reflect.Value{}, op.fail(fmt.Errorf("no resolver for directive %q", op.raw))
	}

	resolved, err := op.binder.resolver.ResolveDirective(directive)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("field %q: %w", op.field, err)
	}

	value, err := convertValue(t, resolved)
	if err != nil {
		return reflect.Value{}, op.fail(err)
	}

	return value, nil
}

func (op operation) fail(err error) error {
	return fmt.Errorf("%w: field %q value %q: %w", ErrTypeCoercion, op.field, op.raw, err)
}
