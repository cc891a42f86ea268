package beans

import (
	"errors"
	"fmt"
)

// ErrMalformedPath is returned when a property key has unbalanced brackets or empty segments.
var ErrMalformedPath = errors.New("malformed property path")

// ErrTypeCoercion is returned when a value cannot be converted to the type of the target field.
var ErrTypeCoercion = errors.New("type coercion failed")

// ErrMalformedDirective is returned for a "#bean:" directive whose query cannot be used.
var ErrMalformedDirective = errors.New("malformed bean directive")

// ErrUnknownProperty is returned when a path segment names a field the target does not have.
var ErrUnknownProperty = errors.New("unknown property")

// ErrAmbiguousOrMissingType is returned when a type lookup does not yield exactly one bean.
var ErrAmbiguousOrMissingType = errors.New("ambiguous or missing bean type")

// ErrCyclicReference is returned when beans reference each other before either is constructed.
var ErrCyclicReference = errors.New("cyclic bean reference")

// ErrDuplicateName is returned when a different instance is registered under a name already in use.
var ErrDuplicateName = errors.New("duplicate bean name")

// ErrUnknownType is returned when a type name is not registered in the Catalog.
var ErrUnknownType = errors.New("unknown type")

// ErrBeanNotFound is returned when a referenced bean does not exist.
var ErrBeanNotFound = errors.New("bean not found")

// ErrMethodNotFound is returned when a "?method=" accessor cannot be found or called.
var ErrMethodNotFound = errors.New("accessor not found")

// ErrEmptyName is returned when a bean is registered without a name.
var ErrEmptyName = errors.New("bean name must not be empty")

// ErrNilInstance is returned when a nil instance is registered.
var ErrNilInstance = errors.New("bean instance must not be nil")

// ErrStartup wraps the aggregated failures of a resolution run.
var ErrStartup = errors.New("bean resolution failed")

// BeanError reports the terminal failure of a single bean.
type BeanError struct {
	Alias string
	Err   error
}

func (e *BeanError) Error() string {
	return fmt.Sprintf("bean %q: %v", e.Alias, e.Err)
}

func (e *BeanError) Unwrap() error {
	return e.Err
}

// FailedBeans extracts every BeanError contained in err, in the order they were reported.
func FailedBeans(err error) []*BeanError {
	var failures []*BeanError

	var walk func(error)

	walk = func(current error) {
		if current == nil {
			return
		}

		if beanErr, ok := current.(*BeanError); ok { //nolint:errorlint // walking the tree manually
			failures = append(failures, beanErr)

			return
		}

		switch unwrapper := current.(type) { //nolint:errorlint // walking the tree manually
		case interface{ Unwrap() []error }:
			for _, inner := range unwrapper.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(unwrapper.Unwrap())
		}
	}

	walk(err)

	return failures
}
