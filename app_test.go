package hjarta_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	hjarta "github.com/0xalexb/hjarta-beans"
	"github.com/0xalexb/hjarta-beans/beans"
	"github.com/0xalexb/hjarta-beans/listener"
	"github.com/0xalexb/hjarta-beans/listener/middleware"
	"github.com/0xalexb/hjarta-beans/logging"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestNewApp_CreatesAppWithDefaultLogLevel(t *testing.T) {
	t.Parallel()

	app := hjarta.NewApp()
	require.NotNil(t, app)
}

func TestNewApp_WithLogLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		level string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			app := hjarta.NewApp(hjarta.WithLogLevel(tc.level))
			require.NotNil(t, app)
		})
	}
}

func TestNewApp_WithModules(t *testing.T) {
	t.Parallel()

	var invoked bool

	module := fx.Module("test",
		fx.Invoke(func() {
			invoked = true
		}),
	)

	app := hjarta.NewApp(hjarta.WithModules(module))
	require.NotNil(t, app)

	err := app.Start()
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Stop() })
	require.True(t, invoked)
}

func TestNewApp_LoggerIsAvailableInFxContainer(t *testing.T) {
	t.Parallel()

	var capturedLogger *slog.Logger

	module := fx.Module("test",
		fx.Invoke(func(logger *slog.Logger) {
			capturedLogger = logger
		}),
	)

	app := hjarta.NewApp(
		hjarta.WithLogLevel("debug"),
		hjarta.WithModules(module),
	)
	require.NotNil(t, app)

	err := app.Start()
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Stop() })
	require.NotNil(t, capturedLogger)
}

func TestNewApp_LoggerOutputsJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	config := logging.LoggerConfig{Level: "INFO"}
	logger := logging.NewLogger(config, &buf)

	logger.Info("test message", slog.String("key", "value"))

	var logEntry map[string]any

	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err, "output should be valid JSON")
	require.Equal(t, "test message", logEntry["msg"])
	require.Equal(t, "value", logEntry["key"])
	require.Equal(t, "INFO", logEntry["level"])
}

func TestNewApp_LoggerRespectsLogLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	config := logging.LoggerConfig{Level: "ERROR"}
	logger := logging.NewLogger(config, &buf)

	logger.Info("should not appear")
	require.Empty(t, buf.String(), "info log should not be written when level is error")

	logger.Error("should appear")
	require.NotEmpty(t, buf.String(), "error log should be written when level is error")
}

func TestNewApp_LoggerConfigIsSupplied(t *testing.T) {
	t.Parallel()

	var capturedConfig logging.LoggerConfig

	module := fx.Module("test",
		fx.Invoke(func(config logging.LoggerConfig) {
			capturedConfig = config
		}),
	)

	app := hjarta.NewApp(
		hjarta.WithLogLevel("warn"),
		hjarta.WithModules(module),
	)
	require.NotNil(t, app)

	err := app.Start()
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Stop() })
	require.Equal(t, "warn", capturedConfig.Level)
}

func TestNewApp_InjectedLoggerHasCorrectLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		configLevel   string
		logLevel      slog.Level
		shouldLog     bool
		expectedLevel string
	}{
		{
			name:          "debug level logs debug",
			configLevel:   "DEBUG",
			logLevel:      slog.LevelDebug,
			shouldLog:     true,
			expectedLevel: "DEBUG",
		},
		{
			name:          "info level does not log debug",
			configLevel:   "INFO",
			logLevel:      slog.LevelDebug,
			shouldLog:     false,
			expectedLevel: "",
		},
		{
			name:          "error level does not log info",
			configLevel:   "ERROR",
			logLevel:      slog.LevelInfo,
			shouldLog:     false,
			expectedLevel: "",
		},
		{
			name:          "error level logs error",
			configLevel:   "ERROR",
			logLevel:      slog.LevelError,
			shouldLog:     true,
			expectedLevel: "ERROR",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			config := logging.LoggerConfig{Level: testCase.configLevel}
			logger := logging.NewLogger(config, &buf)

			logger.Log(context.Background(), testCase.logLevel, "test message")

			if testCase.shouldLog {
				require.NotEmpty(t, buf.String(), "log should be written")

				var logEntry map[string]any

				err := json.Unmarshal(buf.Bytes(), &logEntry)
				require.NoError(t, err, "output should be valid JSON")
				require.Equal(t, testCase.expectedLevel, logEntry["level"])
			} else {
				require.Empty(t, buf.String(), "log should not be written")
			}
		})
	}
}

func TestApp_Stop(t *testing.T) {
	t.Parallel()

	var stopCalled bool

	module := fx.Module("test",
		fx.Invoke(func(lc fx.Lifecycle) {
			lc.Append(fx.Hook{
				OnStop: func(_ context.Context) error {
					stopCalled = true

					return nil
				},
			})
		}),
	)

	app := hjarta.NewApp(hjarta.WithModules(module))
	require.NotNil(t, app)

	err := app.Start()
	require.NoError(t, err)

	err = app.Stop()
	require.NoError(t, err)
	require.True(t, stopCalled, "OnStop hook should be called")
}

func TestApp_StopOnNilApp(t *testing.T) {
	t.Parallel()

	var app *hjarta.App

	err := app.Stop()
	require.Error(t, err)
}

func TestApp_StartOnNilApp(t *testing.T) {
	t.Parallel()

	var app *hjarta.App

	err := app.Start()
	require.Error(t, err)
}

func TestApp_RunOnNilApp(t *testing.T) {
	t.Parallel()

	var app *hjarta.App

	require.NotPanics(t, func() {
		app.Run()
	})
}

func TestApp_Run(t *testing.T) {
	t.Parallel()

	module := fx.Module("test",
		fx.Invoke(func(shutdowner fx.Shutdowner) {
			go func() {
				_ = shutdowner.Shutdown()
			}()
		}),
	)

	app := hjarta.NewApp(hjarta.WithModules(module))
	require.NotNil(t, app)

	require.NotPanics(t, func() {
		app.Run()
	})
}

type Counter struct {
	Start int
	Step  int
}

func registerCounter(catalog *beans.Catalog) {
	beans.RegisterType[Counter](catalog, "Counter")
}

func TestNewApp_WithBeans(t *testing.T) {
	t.Parallel()

	app := hjarta.NewApp(
		hjarta.WithLogLevel("error"),
		hjarta.WithBeans(
			beans.WithTypes(registerCounter),
			beans.WithProperty("app.beans.counter", "#class:Counter"),
		),
		hjarta.WithBeans(beans.WithProperty("app.beans.counter.step", "2")),
	)
	require.NoError(t, app.Err())

	err := app.Start()
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Stop() })

	counter, ok := beans.LookupAs[*Counter](app.Registry(), "counter")
	require.True(t, ok)
	assert.Equal(t, &Counter{Step: 2}, counter)
}

func TestNewApp_FailedBeanAbortsStart(t *testing.T) {
	t.Parallel()

	app := hjarta.NewApp(
		hjarta.WithLogLevel("error"),
		hjarta.WithBeans(
			beans.WithTypes(registerCounter),
			beans.WithProperty("app.beans.counter", "#class:Counter"),
			beans.WithProperty("app.beans.counter.step", "two"),
		),
	)

	err := app.Start()
	require.ErrorIs(t, err, beans.ErrStartup)
	require.ErrorIs(t, err, beans.ErrTypeCoercion)

	_, ok := app.Registry().LookupByName("counter")
	assert.False(t, ok)
}

func TestNewApp_WithoutBeans(t *testing.T) {
	t.Parallel()

	app := hjarta.NewApp(hjarta.WithLogLevel("error"))
	require.NoError(t, app.Err())
	assert.Nil(t, app.Registry())

	var nilApp *hjarta.App

	assert.Nil(t, nilApp.Registry())
	require.Error(t, nilApp.Err())
}

func TestNewApp_WithDiagnostics(t *testing.T) {
	t.Parallel()

	var srv *listener.Server

	app := hjarta.NewApp(
		hjarta.WithLogLevel("error"),
		hjarta.WithBeans(
			beans.WithProperty("app.beans.greeting", "hello"),
		),
		hjarta.WithDiagnostics("diagnostics", listener.WithAddress("127.0.0.1:0")),
		hjarta.WithModules(fx.Invoke(fx.Annotate(
			func(s *listener.Server) { srv = s },
			fx.ParamTags(`name:"diagnostics"`),
		))),
	)

	require.NoError(t, app.Start())
	t.Cleanup(func() { _ = app.Stop() })

	req, err := http.NewRequestWithContext(
		context.Background(), http.MethodGet, fmt.Sprintf("http://%s/beans/greeting", srv.Addr()), nil,
	)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req) //nolint:gosec // G704: test code, URL from test server
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"name":"greeting","state":"ready","type":"string"}`, string(body))
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
}
