package properties

import (
	"errors"
	"fmt"
	"strings"

	"github.com/0xalexb/hjarta-beans/config"

	"github.com/magiconair/properties"
)

// ErrEmptyData is returned when the input data is empty.
var ErrEmptyData = errors.New("empty data")

// ErrPathNotFound is returned when no key lies below the requested path.
var ErrPathNotFound = errors.New("path not found")

// Parser implements config.Parser and config.PropertiesParser for Java-style .properties data.
//
// Values are loaded without ${} expansion so bean directives and literal dollar signs are
// kept verbatim. Note that the format itself treats backslash as an escape: a key
// containing an escaped dot must be written with a double backslash ("my\\.name").
type Parser struct {
	loader properties.Loader
}

// NewParser creates a new properties parser reading UTF-8 input.
func NewParser() *Parser {
	return &Parser{
		loader: properties.Loader{
			Encoding:         properties.UTF8,
			DisableExpansion: true,
			IgnoreMissing:    false,
		},
	}
}

// Parse decodes the keys below path into target using the "properties" struct tag.
// Path segments are separated by colon and map to dotted key prefixes ("app:beans" -> "app.beans.").
func (p *Parser) Parse(data []byte, target any, path string) error {
	props, err := p.load(data, path)
	if err != nil {
		return err
	}

	err = props.Decode(target)
	if err != nil {
		return fmt.Errorf("decoding properties: %w", err)
	}

	return nil
}

// ParseProperties returns the keys below path, relative to it, in file order.
func (p *Parser) ParseProperties(data []byte, path string) (config.Properties, error) {
	props, err := p.load(data, path)
	if err != nil {
		return nil, err
	}

	keys := props.Keys()
	result := make(config.Properties, 0, len(keys))

	for _, key := range keys {
		value, _ := props.Get(key)
		result = append(result, config.Property{Key: key, Value: value})
	}

	return result, nil
}

func (p *Parser) load(data []byte, path string) (*properties.Properties, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}

	props, err := p.loader.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading properties: %w", err)
	}

	if path == "" {
		return props, nil
	}

	section := stripPrefix(props, keyPrefix(path))
	if section.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}

	return section, nil
}

// stripPrefix keeps the keys below prefix with the prefix removed. Unlike
// Properties.FilterStripPrefix the result keeps expansion disabled, so values such as
// "${...}" survive.
func stripPrefix(props *properties.Properties, prefix string) *properties.Properties {
	section := properties.NewProperties()
	section.DisableExpansion = true

	for _, key := range props.Keys() {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok || rest == "" {
			continue
		}

		value, _ := props.Get(key)
		_, _, _ = section.Set(rest, value)
	}

	return section
}

// keyPrefix converts a colon-separated path to a dotted key prefix.
func keyPrefix(path string) string {
	return strings.Join(strings.Split(path, ":"), ".") + "."
}
