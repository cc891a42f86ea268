// Package yaml parses YAML configuration with github.com/goccy/go-yaml.
//
// Parse decodes a section into a struct; ParseProperties flattens a section into
// ordered bean properties, decoding maps as yaml.MapSlice so document order is kept.
// Colon-separated paths ("app:beans") are converted to YAML path syntax ("$.app.beans").
package yaml
