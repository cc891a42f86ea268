package hjarta

import (
	"github.com/0xalexb/hjarta-beans/beans"
	"github.com/0xalexb/hjarta-beans/listener"

	"go.uber.org/fx"
)

// Options holds configuration settings for the application.
type Options struct {
	Modules  []fx.Option
	LogLevel string
	// Beans holds the bean module options. The module is installed when WithBeans or
	// WithDiagnostics is used.
	Beans        []beans.Option
	BeansEnabled bool
}

// Option defines a function type for applying configuration options.
type Option func(*Options)

// WithModules adds Fx modules to the application.
func WithModules(modules ...fx.Option) Option {
	return func(opts *Options) {
		opts.Modules = append(opts.Modules, modules...)
	}
}

// WithBeans installs the bean registry. Beans are resolved when the application starts and
// any failed bean makes Start return the aggregated error. Call it more than once to add options.
func WithBeans(opts ...beans.Option) Option {
	return func(o *Options) {
		o.BeansEnabled = true
		o.Beans = append(o.Beans, opts...)
	}
}

// WithDiagnostics serves the bean registry's entries as JSON on a named HTTP listener
// (GET /beans, GET /beans/{name}). It installs the bean registry if WithBeans was not used.
// When options are provided (e.g., listener.WithAddress), the listener Config is supplied to DI
// automatically; otherwise it must be provided under the same name.
func WithDiagnostics(name string, opts ...listener.Option) Option {
	return func(o *Options) {
		o.BeansEnabled = true
		o.Modules = append(o.Modules, diagnosticsModule(name, opts...))
	}
}

// WithLogLevel sets the log level for the application.
// Valid levels are: "debug", "info", "warn", "error".
// If not set or invalid, defaults to "info".
func WithLogLevel(level string) Option {
	return func(opts *Options) {
		opts.LogLevel = level
	}
}
