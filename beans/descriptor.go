package beans

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Descriptor is everything the configuration says about one bean alias.
//
// HasDirective is false when the alias only appears with property keys; such a
// bean is materialized as a map[string]any. Err collects malformed keys, which
// fail the bean when it is resolved.
type Descriptor struct {
	Alias        string
	Directive    Directive
	HasDirective bool
	Properties   []Assignment
	Err          error
}

// Descriptors groups the store entries below prefix by root alias, in order of first appearance.
// Prefix is the full bean root, e.g. "app.beans".
func Descriptors(store *Store, prefix string) []Descriptor {
	var (
		descriptors []Descriptor
		positions   = make(map[string]int)
	)

	for _, entry := range store.EntriesWithPrefix(prefix + ".") {
		alias, rest, hasPath := splitAlias(entry.Key)

		position, seen := positions[alias]
		if !seen {
			descriptors = append(descriptors, Descriptor{Alias: alias})
			position = len(descriptors) - 1
			positions[alias] = position
		}

		descriptor := &descriptors[position]

		switch {
		case alias == "":
			descriptor.Err = multierr.Append(descriptor.Err,
				fmt.Errorf("%w: missing alias in %q", ErrMalformedPath, prefix+"."+entry.Key))
		case !hasPath:
			descriptor.Directive = ParseDirective(entry.Value)
			descriptor.HasDirective = true
		default:
			path, err := ParsePath(rest)
			if err != nil {
				descriptor.Err = multierr.Append(descriptor.Err, fmt.Errorf("property %q: %w", prefix+"."+entry.Key, err))

				continue
			}

			descriptor.Properties = append(descriptor.Properties, Assignment{
				Key:   rest,
				Path:  path,
				Value: entry.Value,
			})
		}
	}

	return descriptors
}

// splitAlias separates the alias from the property path. A bracket directly after the
// alias stays part of the path so "foo[key]" addresses the bean itself.
func splitAlias(key string) (string, string, bool) {
	end := strings.IndexAny(key, ".[")
	if end < 0 {
		return key, "", false
	}

	if key[end] == '[' {
		return key[:end], key[end:], true
	}

	return key[:end], key[end+1:], true
}
