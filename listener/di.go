package listener

import (
	"fmt"
	"log/slog"
	"net/http"

	"go.uber.org/fx"
)

// NewModule creates an Fx module for a named HTTP listener.
// The name is used as both the module name and the DI named tag for http.Handler, Config
// and the resulting *Server.
// If any options are passed, the module supplies Config to DI from those options.
// Otherwise, Config must be provided externally (e.g., via config.Provider).
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func NewModule(name string, opts ...Option) fx.Option {
	if name == "" {
		return fx.Error(ErrEmptyName)
	}

	var cfg Config

	for _, apply := range opts {
		apply(&cfg)
	}

	tag := fmt.Sprintf(`name:"%s"`, name)

	var moduleOpts []fx.Option

	if len(opts) > 0 {
		moduleOpts = append(moduleOpts, fx.Supply(fx.Annotate(cfg, fx.ResultTags(tag))))
	}

	moduleOpts = append(moduleOpts,
		fx.Provide(fx.Annotate(
			func(
				lifecycle fx.Lifecycle, shutdowner fx.Shutdowner,
				handler http.Handler, listenerCfg Config, logger *slog.Logger,
			) (*Server, error) {
				var srv *Server

				srv, err := NewServer(name, handler, listenerCfg, logger, func() {
					shutdownErr := shutdowner.Shutdown()
					if shutdownErr != nil {
						srv.logger.Error("failed to trigger shutdown", "error", shutdownErr)
					}
				})
				if err != nil {
					return nil, err
				}

				lifecycle.Append(fx.Hook{
					OnStart: srv.Start,
					OnStop:  srv.Stop,
				})

				return srv, nil
			},
			fx.ParamTags("", "", tag, tag, `optional:"true"`),
			fx.ResultTags(tag),
		)),
		fx.Invoke(fx.Annotate(func(*Server) {}, fx.ParamTags(tag))),
	)

	return fx.Module(name, moduleOpts...)
}
