package beans

import (
	"reflect"
	"strings"
	"sync"

	"github.com/iancoleman/strcase"
)

// tagName is the struct tag that renames or hides a field for binding.
const tagName = "bean"

// Field describes a bindable field of a struct type.
type Field struct {
	Name  string
	Index []int
	Type  reflect.Type
}

// Introspector reports the bindable fields of a type.
// The Binder and Registry only learn about struct shapes through this interface.
type Introspector interface {
	Fields(t reflect.Type) []Field
}

// ReflectIntrospector implements Introspector with package reflect.
//
// Exported fields are bindable under their Go name or the name given in a
// `bean:"name"` tag; `bean:"-"` hides a field. Fields of embedded structs are
// promoted. Results are cached per type.
type ReflectIntrospector struct {
	cache sync.Map
}

// NewReflectIntrospector creates a ReflectIntrospector.
func NewReflectIntrospector() *ReflectIntrospector {
	return &ReflectIntrospector{}
}

// Fields returns the bindable fields of t. Pointers are dereferenced; non-struct types have no fields.
func (r *ReflectIntrospector) Fields(t reflect.Type) []Field {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	if cached, ok := r.cache.Load(t); ok {
		fields, _ := cached.([]Field)

		return fields
	}

	fields := collectFields(t, nil)
	r.cache.Store(t, fields)

	return fields
}

func collectFields(t reflect.Type, parent []int) []Field {
	var fields []Field

	for i := range t.NumField() {
		structField := t.Field(i)
		index := append(append([]int(nil), parent...), i)

		tag := structField.Tag.Get(tagName)
		if tag == "-" {
			continue
		}

		if structField.Anonymous && tag == "" && structField.Type.Kind() == reflect.Struct {
			fields = append(fields, collectFields(structField.Type, index)...)

			continue
		}

		if !structField.IsExported() {
			continue
		}

		name := structField.Name
		if tag != "" {
			name = tag
		}

		fields = append(fields, Field{Name: name, Index: index, Type: structField.Type})
	}

	return fields
}

// findField matches a property name against fields, ignoring case and separators,
// so "containerName", "container-name" and "container_name" all select ContainerName.
func findField(fields []Field, name string) (Field, bool) {
	wanted := normalizeName(name)

	for _, field := range fields {
		if normalizeName(field.Name) == wanted {
			return field, true
		}
	}

	return Field{}, false
}

func normalizeName(name string) string {
	return strings.ToLower(strcase.ToCamel(name))
}
