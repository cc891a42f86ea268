// Package properties parses Java-style .properties files with github.com/magiconair/properties.
//
// Usage:
//
//	parser := properties.NewParser()
//	props, err := parser.ParseProperties(data, "")
//
// A file such as
//
//	app.beans.foo = #class:blob.Configuration
//	app.beans.foo.containerName = invoices
//
// yields the keys in file order, ready for the bean registry.
package properties
