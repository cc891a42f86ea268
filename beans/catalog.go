package beans

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// Catalog maps type names used in "#class:" and "#type:" directives to Go types.
//
// A type registered with RegisterType is known by its fully qualified name
// ("github.com/acme/app/blob.Configuration"), its short name ("blob.Configuration")
// and any extra aliases passed at registration.
type Catalog struct {
	mu    sync.RWMutex
	types map[string]catalogType
}

type catalogType struct {
	typ     reflect.Type
	factory func() any
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		types: make(map[string]catalogType),
	}
}

// RegisterType makes T constructible through "#class:" and findable through "#type:".
// Struct types are constructed as *T, maps are created empty, pointer types allocate their element.
func RegisterType[T any](catalog *Catalog, aliases ...string) {
	typ := reflect.TypeFor[T]()

	catalog.add(typ, func() any { return newInstance(typ) }, aliases)
}

// RegisterFactory makes T constructible through factory instead of its zero value.
func RegisterFactory[T any](catalog *Catalog, factory func() T, aliases ...string) {
	typ := reflect.TypeFor[T]()

	catalog.add(typ, func() any { return factory() }, aliases)
}

// RegisterInterface makes interface type T available to "#type:" lookups. It cannot be constructed.
func RegisterInterface[T any](catalog *Catalog, aliases ...string) {
	catalog.add(reflect.TypeFor[T](), nil, aliases)
}

func (c *Catalog) add(typ reflect.Type, factory func() any, aliases []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := catalogType{typ: typ, factory: factory}

	for _, name := range typeNames(typ) {
		c.types[name] = entry
	}

	for _, alias := range aliases {
		c.types[alias] = entry
	}
}

// Type returns the type registered under name.
func (c *Catalog) Type(name string) (reflect.Type, error) {
	entry, err := c.lookup(name)
	if err != nil {
		return nil, err
	}

	return entry.typ, nil
}

// New constructs a fresh instance of the type registered under name.
func (c *Catalog) New(name string) (any, error) {
	entry, err := c.lookup(name)
	if err != nil {
		return nil, err
	}

	if entry.factory == nil {
		return nil, fmt.Errorf("%w: %s cannot be constructed", ErrUnknownType, name)
	}

	return entry.factory(), nil
}

// Has reports whether name is registered.
func (c *Catalog) Has(name string) bool {
	_, err := c.lookup(name)

	return err == nil
}

// Names returns every registered name, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.types))
	for name := range c.types {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

func (c *Catalog) lookup(name string) (catalogType, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.types[name]
	if !ok || name == "" {
		return catalogType{}, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}

	return entry, nil
}

func typeNames(typ reflect.Type) []string {
	named := typ
	if named.Kind() == reflect.Pointer && named.Name() == "" {
		named = named.Elem()
	}

	if named.Name() == "" {
		return nil
	}

	short := named.String()
	if named.PkgPath() == "" {
		return []string{short}
	}

	return []string{named.PkgPath() + "." + named.Name(), short}
}

func newInstance(typ reflect.Type) any {
	switch typ.Kind() {
	case reflect.Map:
		return reflect.MakeMap(typ).Interface()
	case reflect.Pointer:
		return reflect.New(typ.Elem()).Interface()
	default:
		return reflect.New(typ).Interface()
	}
}
