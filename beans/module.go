package beans

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/0xalexb/hjarta-beans/config"

	"go.uber.org/fx"
	"go.uber.org/multierr"
)

// ModuleName is the fx module name of the bean registry.
const ModuleName = "beans"

// ModuleParams are the optional dependencies of the bean module.
// Settings and Properties are typically produced by config.Provider and config.PropertiesProvider.
type ModuleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Logger     *slog.Logger      `optional:"true"`
	Settings   *Settings         `optional:"true"`
	Catalog    *Catalog          `optional:"true"`
	Properties config.Properties `optional:"true"`
}

// NewModule creates an Fx module providing a *Registry.
// Beans are resolved in an OnStart hook, so any failed bean aborts application start with
// an aggregated error. Ready beans are closed in an OnStop hook.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func NewModule(opts ...Option) fx.Option {
	var cfg moduleConfig

	for _, apply := range opts {
		apply(&cfg)
	}

	return fx.Module(ModuleName,
		fx.Provide(func(params ModuleParams) (*Registry, error) {
			return newModuleRegistry(params, cfg)
		}),
	)
}

func newModuleRegistry(params ModuleParams, cfg moduleConfig) (*Registry, error) {
	var settings Settings
	if params.Settings != nil {
		settings = *params.Settings
	}

	for _, adjust := range cfg.adjust {
		adjust(&settings)
	}

	settings.SetDefaults()

	err := settings.Validate()
	if err != nil {
		return nil, err
	}

	catalog := params.Catalog
	if catalog == nil {
		catalog = NewCatalog()
	}

	for _, register := range cfg.types {
		register(catalog)
	}

	registry := NewRegistry(
		WithCatalog(catalog),
		WithLogger(params.Logger),
		FailFast(settings.FailFast),
	)

	for _, bound := range cfg.bindings {
		err := registry.Register(bound.name, bound.instance)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", bound.name, err)
		}
	}

	store := NewStore(params.Properties...)
	for _, prop := range cfg.props {
		store.Set(prop.Key, prop.Value)
	}

	prefix := settings.Prefix()

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			err := registry.ResolveAll(Descriptors(store, prefix))
			if err != nil {
				// fx skips OnStop for a failed OnStart, so beans that did become Ready are closed here.
				return multierr.Append(err, registry.Close(ctx))
			}

			return nil
		},
		OnStop: registry.Close,
	})

	return registry, nil
}
