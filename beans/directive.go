package beans

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DirectiveKind identifies how a bean value is produced.
type DirectiveKind int

const (
	// DirectivePlain is a literal value without a recognized prefix.
	DirectivePlain DirectiveKind = iota
	// DirectiveClass constructs a new instance of a catalog type ("#class:").
	DirectiveClass
	// DirectiveType looks up the single bean of a catalog type ("#type:").
	DirectiveType
	// DirectiveBean references a bean by name ("#bean:"), optionally calling an accessor on it.
	DirectiveBean
)

const (
	classPrefix = "#class:"
	typePrefix  = "#type:"
	beanPrefix  = "#bean:"
	methodParam = "method"
)

func (k DirectiveKind) String() string {
	switch k {
	case DirectivePlain:
		return "plain"
	case DirectiveClass:
		return "class"
	case DirectiveType:
		return "type"
	case DirectiveBean:
		return "bean"
	default:
		return "unknown"
	}
}

// Directive is the parsed form of a configuration value.
// Target is the type name for Class and Type directives and the bean name for Bean directives.
// Method is only set for Bean directives carrying "?method=". Err is set when the query
// of a Bean directive is malformed or names anything but a single non-empty method; the
// directive then fails when resolved.
type Directive struct {
	Kind   DirectiveKind
	Target string
	Method string
	Raw    string
	Err    error
}

// ParseDirective classifies raw. Prefixes are case-sensitive; anything else is DirectivePlain.
func ParseDirective(raw string) Directive {
	if target, ok := strings.CutPrefix(raw, classPrefix); ok {
		return Directive{Kind: DirectiveClass, Target: strings.TrimSpace(target), Raw: raw}
	}

	if target, ok := strings.CutPrefix(raw, typePrefix); ok {
		return Directive{Kind: DirectiveType, Target: strings.TrimSpace(target), Raw: raw}
	}

	if target, ok := strings.CutPrefix(raw, beanPrefix); ok {
		name, query, _ := strings.Cut(target, "?")
		directive := Directive{Kind: DirectiveBean, Target: strings.TrimSpace(name), Raw: raw}

		if query != "" {
			directive.Method, directive.Err = parseMethod(query)
			if directive.Err != nil {
				directive.Err = fmt.Errorf("%w: %q: %w", ErrMalformedDirective, raw, directive.Err)
			}
		}

		return directive
	}

	return Directive{Kind: DirectivePlain, Target: raw, Raw: raw}
}

// IsDirective reports whether raw carries a recognized directive prefix.
func IsDirective(raw string) bool {
	return ParseDirective(raw).Kind != DirectivePlain
}

func parseMethod(query string) (string, error) {
	values, err := url.ParseQuery(query)
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	for key := range values {
		if key != methodParam {
			return "", fmt.Errorf("unknown parameter %q", key)
		}
	}

	methods := values[methodParam]
	if len(methods) != 1 || strings.TrimSpace(methods[0]) == "" {
		return "", errors.New("expected exactly one non-empty method") //nolint:err113
	}

	return strings.TrimSpace(methods[0]), nil
}
