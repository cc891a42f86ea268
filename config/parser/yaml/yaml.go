package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/0xalexb/hjarta-beans/config"

	"github.com/goccy/go-yaml"
)

// ErrEmptyData is returned when the input data is empty.
var ErrEmptyData = errors.New("empty data")

// ErrPathNotFound is returned when the specified path is not found in the YAML document.
var ErrPathNotFound = errors.New("path not found")

// Parser implements config.Parser and config.PropertiesParser for YAML data.
type Parser struct{}

// NewParser creates a new YAML parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses YAML data and unmarshals it into the target.
// The path parameter specifies a navigation path using colon (:) as separator.
// Empty path parses the entire document.
func (p *Parser) Parse(data []byte, target any, path string) error {
	if len(data) == 0 {
		return ErrEmptyData
	}

	if path == "" {
		err := yaml.Unmarshal(data, target)
		if err != nil {
			return fmt.Errorf("unmarshal error: %w", err)
		}

		return nil
	}

	pathObj, err := compilePath(path)
	if err != nil {
		return err
	}

	err = pathObj.Read(bytes.NewReader(data), target)
	if err != nil {
		return pathError(path, err)
	}

	return nil
}

// ParseProperties flattens the YAML document (or the section at path) into dot-separated
// keys in document order. Sequences become bracketed indices, so
//
//	app:
//	  beans:
//	    myfoo:
//	      tags: [a, b]
//
// yields "app.beans.myfoo.tags[0]=a" and "app.beans.myfoo.tags[1]=b".
// Keys are relative to path.
func (p *Parser) ParseProperties(data []byte, path string) (config.Properties, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}

	var document any

	if path == "" {
		err := yaml.UnmarshalWithOptions(data, &document, yaml.UseOrderedMap())
		if err != nil {
			return nil, fmt.Errorf("unmarshal error: %w", err)
		}
	} else {
		pathObj, err := compilePath(path)
		if err != nil {
			return nil, err
		}

		node, err := pathObj.ReadNode(bytes.NewReader(data))
		if err != nil {
			return nil, pathError(path, err)
		}

		err = yaml.NodeToValue(node, &document, yaml.UseOrderedMap())
		if err != nil {
			return nil, fmt.Errorf("decoding path %q: %w", path, err)
		}
	}

	var props config.Properties

	flatten("", document, &props)

	return props, nil
}

func flatten(prefix string, value any, props *config.Properties) {
	switch typed := value.(type) {
	case yaml.MapSlice:
		for _, item := range typed {
			key := fmt.Sprint(item.Key)
			if prefix != "" {
				key = prefix + "." + key
			}

			flatten(key, item.Value, props)
		}
	case []any:
		for i, item := range typed {
			flatten(prefix+"["+strconv.Itoa(i)+"]", item, props)
		}
	case nil:
		if prefix != "" {
			*props = append(*props, config.Property{Key: prefix, Value: ""})
		}
	default:
		if prefix != "" {
			*props = append(*props, config.Property{Key: prefix, Value: fmt.Sprint(typed)})
		}
	}
}

func compilePath(path string) (*yaml.Path, error) {
	pathObj, err := yaml.PathString(convertToYAMLPath(path))
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}

	return pathObj, nil
}

func pathError(path string, err error) error {
	if yaml.IsNotFoundNodeError(err) {
		return fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}

	return fmt.Errorf("reading path %q: %w", path, err)
}

// convertToYAMLPath converts a colon-separated path to goccy/go-yaml PathString format.
// Examples:
//   - "beans" -> "$.beans"
//   - "diagnostics:listener" -> "$.diagnostics.listener"
func convertToYAMLPath(path string) string {
	return "$." + strings.Join(strings.Split(path, ":"), ".")
}
