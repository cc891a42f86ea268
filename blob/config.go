package blob

import (
	"fmt"
	"maps"
	"time"
)

// Configuration holds the defaults of the container operations. Exchange headers override
// every field they set, even with a zero value.
type Configuration struct {
	Prefix            string             `yaml:"prefix"`
	MaxResults        int                `yaml:"max_results"`
	IncludeMetadata   bool               `yaml:"include_metadata"`
	Timeout           time.Duration      `yaml:"timeout"`
	Metadata          map[string]string  `yaml:"metadata"`
	PublicAccess      PublicAccess       `yaml:"public_access"`
	RequestConditions *RequestConditions `yaml:"-"`
}

// Validate validates the Configuration.
func (c *Configuration) Validate() error {
	switch {
	case c.MaxResults < 0:
		return fmt.Errorf("%w: max results %d", ErrInvalidConfiguration, c.MaxResults)
	case c.Timeout < 0:
		return fmt.Errorf("%w: timeout %s", ErrInvalidConfiguration, c.Timeout)
	case !c.PublicAccess.Valid():
		return fmt.Errorf("%w: public access %q", ErrInvalidConfiguration, c.PublicAccess)
	default:
		return nil
	}
}

// resolve returns the configuration in effect for exchange. The receiver is never modified.
func (c *Configuration) resolve(exchange *Exchange) (Configuration, error) {
	effective := *c
	effective.Metadata = maps.Clone(c.Metadata)

	if c.RequestConditions != nil {
		conditions := *c.RequestConditions
		effective.RequestConditions = &conditions
	}

	err := exchange.applyTo(&effective)
	if err != nil {
		return Configuration{}, err
	}

	err = effective.Validate()
	if err != nil {
		return Configuration{}, err
	}

	return effective, nil
}

func (c *Configuration) listOptions() ListOptions {
	return ListOptions{
		Prefix:          c.Prefix,
		MaxResults:      c.MaxResults,
		IncludeMetadata: c.IncludeMetadata,
	}
}
