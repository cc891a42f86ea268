// Package config loads typed settings and flat bean properties.
//
// Two shapes of configuration are supported:
//   - Provider parses a section of a document into a struct, then applies
//     Defaulter and Validator when the struct implements them.
//   - PropertiesProvider flattens a document into ordered dot-separated
//     Properties ("app.beans.myfoo.map[key1]=value1") for the bean registry.
//
// Both read raw bytes through a DataFetcher and delegate decoding to a parser
// (config/parser/yaml or config/parser/properties).
//
// # Path Navigation
//
// Paths use colon (:) as the separator:
//
//	"beans"                 -> config["beans"]
//	"diagnostics:listener"  -> config["diagnostics"]["listener"]
//	""                      -> entire document
//
// # Example
//
//	settings, err := config.Provider(&beans.Settings{}, "beans")(yamlparser.NewParser(), fetcher)
//	props, err := config.PropertiesProvider("")(propsparser.NewParser(), fetcher)
package config
