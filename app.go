// Package hjarta bootstraps an Fx application around a property-driven bean registry.
package hjarta

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/0xalexb/hjarta-beans/beans"
	"github.com/0xalexb/hjarta-beans/inspect"
	"github.com/0xalexb/hjarta-beans/listener"
	"github.com/0xalexb/hjarta-beans/listener/middleware"
	"github.com/0xalexb/hjarta-beans/logging"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

var errAppNotInitialized = errors.New("app not initialized")

// App is a configured starting point for application using Fx.
type App struct {
	app      *fx.App
	registry *beans.Registry
}

// NewApp creates a new instance of App with Fx configured.
func NewApp(opts ...Option) *App {
	var options Options

	for _, apply := range opts {
		apply(&options)
	}

	app := &App{}
	app.app = configure(&options, app)

	return app
}

func configure(options *Options, app *App) *fx.App {
	logger := createLogger(options.LogLevel, os.Stderr)
	slog.SetDefault(logger)

	modules := options.Modules
	if options.BeansEnabled {
		modules = append(modules,
			beans.NewModule(options.Beans...),
			fx.Populate(&app.registry),
		)
	}

	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger}
		}),
		fx.Supply(logging.LoggerConfig{Level: options.LogLevel}),
		fx.Supply(logger),
		fx.Options(modules...),
	)
}

func createLogger(level string, w io.Writer) *slog.Logger {
	config := logging.LoggerConfig{Level: level}

	return logging.NewLogger(config, w)
}

//nolint:ireturn // fx.Option is the standard return type for Fx modules
func diagnosticsModule(name string, opts ...listener.Option) fx.Option {
	return fx.Options(
		fx.Provide(fx.Annotate(
			func(registry *beans.Registry, logger *slog.Logger) http.Handler {
				return middleware.Chain(inspect.NewHandler(registry, logger),
					middleware.RequestID(),
					middleware.Logging(logger),
					middleware.Recovery(logger),
				)
			},
			fx.ResultTags(fmt.Sprintf(`name:"%s"`, name)),
		)),
		listener.NewModule(name, opts...),
	)
}

// Registry returns the bean registry, or nil when the beans module is not installed.
// Beans are available once Start has returned successfully.
func (app *App) Registry() *beans.Registry {
	if app == nil {
		return nil
	}

	return app.registry
}

// Err returns the error encountered while building the application graph, if any.
func (app *App) Err() error {
	if app == nil || app.app == nil {
		return errAppNotInitialized
	}

	return app.app.Err() //nolint:wrapcheck
}

// Start starts the Fx application.
func (app *App) Start() error {
	if app != nil && app.app != nil {
		err := app.app.Start(context.Background())
		if err != nil {
			return fmt.Errorf("failed to start app: %w", err)
		}

		return nil
	}

	return errAppNotInitialized
}

// Run starts the application and blocks until an OS signal is received, then shuts down gracefully.
func (app *App) Run() {
	if app == nil || app.app == nil {
		slog.Error("attempted to run an uninitialized app")

		return
	}

	app.app.Run()
}

// Stop stops the Fx application gracefully.
func (app *App) Stop() error {
	if app != nil && app.app != nil {
		err := app.app.Stop(context.Background())
		if err != nil {
			return fmt.Errorf("failed to stop app: %w", err)
		}

		return nil
	}

	return errAppNotInitialized
}
