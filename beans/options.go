package beans

import (
	"errors"
	"strings"

	"github.com/0xalexb/hjarta-beans/config"
)

// DefaultNamespace is the key namespace used when none is configured: keys look like "app.beans.<alias>".
const DefaultNamespace = "app"

// ErrInvalidNamespace is returned when the configured namespace cannot prefix property keys.
var ErrInvalidNamespace = errors.New("namespace must be non-empty and must not start or end with a dot")

// Settings configures the bean module. It can be loaded with config.Provider from
// YAML ("namespace", "fail_fast") or .properties files.
type Settings struct {
	Namespace string `properties:"namespace,default=app" yaml:"namespace"`
	FailFast  bool   `properties:"fail_fast,default=false" yaml:"fail_fast"`
}

// SetDefaults sets default values for the Settings.
func (s *Settings) SetDefaults() bool {
	if s.Namespace != "" {
		return false
	}

	s.Namespace = DefaultNamespace

	return true
}

// Validate validates the Settings.
func (s *Settings) Validate() error {
	if s.Namespace == "" || strings.HasPrefix(s.Namespace, ".") || strings.HasSuffix(s.Namespace, ".") {
		return ErrInvalidNamespace
	}

	return nil
}

// Prefix returns the key prefix every bean property starts with.
func (s *Settings) Prefix() string {
	return s.Namespace + ".beans"
}

type binding struct {
	name     string
	instance any
}

type moduleConfig struct {
	adjust   []func(*Settings)
	props    config.Properties
	bindings []binding
	types    []func(*Catalog)
}

// Option defines a function type for configuring the bean module.
type Option func(*moduleConfig)

// WithNamespace overrides the namespace of the bean keys.
func WithNamespace(namespace string) Option {
	return func(cfg *moduleConfig) {
		cfg.adjust = append(cfg.adjust, func(s *Settings) { s.Namespace = namespace })
	}
}

// WithFailFast stops resolution at the first failure instead of collecting all of them.
func WithFailFast(failFast bool) Option {
	return func(cfg *moduleConfig) {
		cfg.adjust = append(cfg.adjust, func(s *Settings) { s.FailFast = failFast })
	}
}

// WithProperty adds a single property. Properties given as options are applied after
// those supplied through DI, so they win on conflicting keys.
func WithProperty(key, value string) Option {
	return func(cfg *moduleConfig) {
		cfg.props = append(cfg.props, config.Property{Key: key, Value: value})
	}
}

// WithProperties adds a batch of properties, e.g. the result of config.PropertiesProvider.
func WithProperties(props config.Properties) Option {
	return func(cfg *moduleConfig) {
		cfg.props = append(cfg.props, props...)
	}
}

// WithBinding registers an existing instance under name before resolution, so it can be
// found by "#type:" and "#bean:" directives and receive properties of the same name.
func WithBinding(name string, instance any) Option {
	return func(cfg *moduleConfig) {
		cfg.bindings = append(cfg.bindings, binding{name: name, instance: instance})
	}
}

// WithTypes registers types in the Catalog used by "#class:" and "#type:".
func WithTypes(register func(*Catalog)) Option {
	return func(cfg *moduleConfig) {
		if register != nil {
			cfg.types = append(cfg.types, register)
		}
	}
}
