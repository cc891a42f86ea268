// Package beans materializes named objects from flat configuration keys and
// keeps them in a Registry that can be queried by name or by type.
//
// Keys follow the shape <namespace>.beans.<alias>[.<path>]. The value of the
// bare alias key decides how the bean comes to life:
//
//	app.beans.foo=#class:blob.Configuration      construct a registered type
//	app.beans.myfoo=#type:example.Foo            reuse the single bean of that type
//	app.beans.name=#bean:myfoo?method=getName    reference another bean or its accessor
//	app.beans.greeting=hello                     literal value
//
// Remaining keys are bound onto the bean as property paths. Paths support
// nested fields, map keys and list indices:
//
//	app.beans.foo.containerName=orders
//	app.beans.foo.metadata[owner]=payments
//	app.beans.foo.routes[0].name=primary
//
// An alias that only has property keys becomes a map[string]any bean.
//
// Go has no class loader, so "#class:" and "#type:" names are looked up in a
// Catalog where types are registered ahead of time. Reflection is confined to
// the Introspector, Binder and Registry.
//
// Resolution runs once, single-threaded, during startup (see NewModule). Every
// failed bean is reported in one aggregated error; lookups never return beans
// that failed. After startup the Registry is safe for concurrent lookups.
package beans
