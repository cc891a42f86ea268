// Package logging builds the JSON slog loggers shared by the bean registry, the
// diagnostics listener and the CLI. Every subsystem logs through ForComponent so
// records can be filtered by the "component" attribute.
package logging
