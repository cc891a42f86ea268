package config

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrNoProperties is returned by PropertiesProvider when the source holds no keys.
var ErrNoProperties = errors.New("no properties found")

// Parser defines an interface for parsing configuration data into a target structure.
//
// The path parameter specifies a navigation path within the configuration data
// using colon (:) as the separator for nested keys. For example:
//   - "beans" navigates to config["beans"]
//   - "diagnostics:listener" navigates two levels deep
//   - "" (empty path) means parse the entire document
//
// Parser implementations are responsible for path navigation internally.
type Parser interface {
	Parse(data []byte, target any, path string) error
}

// Property is a single flat configuration entry such as "app.beans.foo.counter=123".
type Property struct {
	Key   string
	Value string
}

// Properties is an ordered list of flat entries, in document order.
type Properties []Property

// Get returns the last value recorded for key.
func (p Properties) Get(key string) (string, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Key == key {
			return p[i].Value, true
		}
	}

	return "", false
}

// PropertiesParser flattens configuration data into dot-separated keys.
// The path parameter has the same meaning as for Parser.
type PropertiesParser interface {
	ParseProperties(data []byte, path string) (Properties, error)
}

// DataFetcher defines an interface for reading configuration data.
type DataFetcher interface {
	Fetch() ([]byte, error)
}

// Validator defines an interface for validating configuration structures.
type Validator interface {
	Validate() error
}

// Defaulter defines an interface for setting default values in configuration structures.
type Defaulter interface {
	SetDefaults() (changed bool)
}

// Provider returns a function that reads, parses, sets defaults, and validates configuration data.
func Provider[T any](target *T, path string) func(Parser, DataFetcher) (*T, error) {
	return func(parser Parser, dataSourcer DataFetcher) (*T, error) {
		data, err := dataSourcer.Fetch()
		if err != nil {
			return nil, fmt.Errorf("reading data error: %w", err)
		}

		err = parser.Parse(data, target, path)
		if err != nil {
			return nil, fmt.Errorf("parsing error: %w", err)
		}

		targetDefaulter, isDefaulter := any(target).(Defaulter)
		if isDefaulter {
			changed := targetDefaulter.SetDefaults()
			if changed {
				slog.Debug("defaults applied", slog.String("path", path))
			}
		}

		targetValidatable, isValidatable := any(target).(Validator)
		if isValidatable {
			err := targetValidatable.Validate()
			if err != nil {
				return nil, fmt.Errorf("validating error: %w", err)
			}
		}

		return target, nil
	}
}

// PropertiesProvider returns a function that reads data and flattens it into Properties.
// An empty result is reported as ErrNoProperties.
func PropertiesProvider(path string) func(PropertiesParser, DataFetcher) (Properties, error) {
	return func(parser PropertiesParser, dataSourcer DataFetcher) (Properties, error) {
		data, err := dataSourcer.Fetch()
		if err != nil {
			return nil, fmt.Errorf("reading data error: %w", err)
		}

		props, err := parser.ParseProperties(data, path)
		if err != nil {
			return nil, fmt.Errorf("parsing error: %w", err)
		}

		if len(props) == 0 {
			return nil, ErrNoProperties
		}

		slog.Debug("properties loaded", slog.String("path", path), slog.Int("count", len(props)))

		return props, nil
	}
}
