package beans

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

//nolint:gochecknoglobals // reflect type handles
var (
	durationType        = reflect.TypeFor[time.Duration]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	stringerType        = reflect.TypeFor[fmt.Stringer]()
)

// coerceScalar converts a literal string into a value of type t.
func coerceScalar(t reflect.Type, raw string) (reflect.Value, error) {
	if t == durationType {
		duration, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(duration), nil
	}

	if t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(textUnmarshalerType) {
		target := reflect.New(t)

		unmarshaler, _ := target.Interface().(encoding.TextUnmarshaler)

		err := unmarshaler.UnmarshalText([]byte(raw))
		if err != nil {
			return reflect.Value{}, err
		}

		return target.Elem(), nil
	}

	value := reflect.New(t).Elem()

	switch t.Kind() {
	case reflect.String:
		value.SetString(raw)
	case reflect.Bool:
		parsed, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return reflect.Value{}, err
		}

		value.SetBool(parsed)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 0, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}

		value.SetInt(parsed)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		parsed, err := strconv.ParseUint(strings.TrimSpace(raw), 0, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}

		value.SetUint(parsed)
	case reflect.Float32, reflect.Float64:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}

		value.SetFloat(parsed)
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return reflect.Value{}, fmt.Errorf("cannot assign a literal to interface %s", t)
		}

		value.Set(reflect.ValueOf(raw))
	case reflect.Pointer:
		inner, err := coerceScalar(t.Elem(), raw)
		if err != nil {
			return reflect.Value{}, err
		}

		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(inner)

		return ptr, nil
	case reflect.Slice:
		return coerceList(t, raw)
	default:
		return reflect.Value{}, fmt.Errorf("cannot assign a literal to %s", t)
	}

	return value, nil
}

// coerceList converts a comma separated literal into a slice; []byte takes the raw bytes.
func coerceList(t reflect.Type, raw string) (reflect.Value, error) {
	if t.Elem().Kind() == reflect.Uint8 {
		return reflect.ValueOf([]byte(raw)).Convert(t), nil
	}

	if strings.TrimSpace(raw) == "" {
		return reflect.MakeSlice(t, 0, 0), nil
	}

	parts := strings.Split(raw, ",")
	list := reflect.MakeSlice(t, len(parts), len(parts))

	for i, part := range parts {
		item, err := coerceScalar(t.Elem(), strings.TrimSpace(part))
		if err != nil {
			return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
		}

		list.Index(i).Set(item)
	}

	return list, nil
}

// convertValue adapts a resolved bean to type t.
// Values are assigned directly, through a pointer indirection, or re-coerced from their string form.
func convertValue(t reflect.Type, resolved any) (reflect.Value, error) {
	if resolved == nil {
		return reflect.Zero(t), nil
	}

	value := reflect.ValueOf(resolved)

	switch {
	case value.Type().AssignableTo(t):
		out := reflect.New(t).Elem()
		out.Set(value)

		return out, nil
	case value.Kind() == reflect.Pointer && !value.IsNil() && value.Elem().Type().AssignableTo(t):
		return value.Elem(), nil
	case t.Kind() == reflect.Pointer && value.Type().AssignableTo(t.Elem()):
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(value)

		return ptr, nil
	case value.Kind() == reflect.String:
		return coerceScalar(t, value.String())
	case t.Kind() == reflect.String && value.Type().Implements(stringerType):
		stringer, _ := resolved.(fmt.Stringer)

		return reflect.ValueOf(stringer.String()).Convert(t), nil
	case isNumeric(value.Kind()) && isNumeric(t.Kind()):
		return value.Convert(t), nil
	default:
		return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", value.Type(), t)
	}
}

func isNumeric(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
