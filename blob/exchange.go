package blob

import (
	"fmt"
	"maps"

	"dario.cat/mergo"
	"github.com/spf13/cast"
	"go.uber.org/multierr"
)

// Request headers read by ContainerOperations.
const (
	HeaderPrefix            = "blob.prefix"
	HeaderMaxResults        = "blob.max_results"
	HeaderIncludeMetadata   = "blob.include_metadata"
	HeaderTimeout           = "blob.timeout"
	HeaderMetadata          = "blob.metadata"
	HeaderPublicAccess      = "blob.public_access"
	HeaderRequestConditions = "blob.request_conditions"
)

// Response headers set on OperationResponse.Headers.
const (
	HeaderETag         = "blob.etag"
	HeaderLastModified = "blob.last_modified"
	HeaderRequestID    = "blob.request_id"
	HeaderDate         = "blob.date"
)

// Exchange carries the headers of a single operation call.
type Exchange struct {
	headers map[string]any
}

// NewExchange creates an Exchange holding a copy of headers.
func NewExchange(headers map[string]any) *Exchange {
	exchange := &Exchange{headers: make(map[string]any, len(headers))}
	maps.Copy(exchange.headers, headers)

	return exchange
}

// SetHeader sets a header value.
func (e *Exchange) SetHeader(name string, value any) {
	if e.headers == nil {
		e.headers = make(map[string]any)
	}

	e.headers[name] = value
}

// Header returns a header value.
func (e *Exchange) Header(name string) (any, bool) {
	value, ok := e.headers[name]

	return value, ok && value != nil
}

// applyTo writes every header that is set onto cfg, including explicit zero values.
// Metadata and request conditions are merged field by field; all conversion errors are
// reported together.
func (e *Exchange) applyTo(cfg *Configuration) error {
	var errs []error

	read := func(name string, apply func(any) error) {
		value, ok := e.Header(name)
		if !ok {
			return
		}

		err := apply(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrInvalidHeader, name, err))
		}
	}

	read(HeaderPrefix, func(value any) (err error) {
		cfg.Prefix, err = cast.ToStringE(value)

		return err
	})
	read(HeaderMaxResults, func(value any) (err error) {
		cfg.MaxResults, err = cast.ToIntE(value)

		return err
	})
	read(HeaderIncludeMetadata, func(value any) (err error) {
		cfg.IncludeMetadata, err = cast.ToBoolE(value)

		return err
	})
	read(HeaderTimeout, func(value any) (err error) {
		cfg.Timeout, err = cast.ToDurationE(value)

		return err
	})
	read(HeaderMetadata, func(value any) error {
		metadata, err := cast.ToStringMapStringE(value)
		if err != nil {
			return err
		}

		if cfg.Metadata == nil {
			cfg.Metadata = make(map[string]string, len(metadata))
		}

		return mergo.Merge(&cfg.Metadata, metadata, mergo.WithOverride) //nolint:wrapcheck
	})
	read(HeaderPublicAccess, func(value any) error {
		access, err := cast.ToStringE(value)
		if err != nil {
			return err
		}

		cfg.PublicAccess = PublicAccess(access)

		return nil
	})
	read(HeaderRequestConditions, func(value any) error {
		var conditions RequestConditions

		switch typed := value.(type) {
		case *RequestConditions:
			conditions = *typed
		case RequestConditions:
			conditions = typed
		default:
			return fmt.Errorf("unable to use %T as request conditions", value)
		}

		if cfg.RequestConditions == nil {
			cfg.RequestConditions = &RequestConditions{}
		}

		return mergo.Merge(cfg.RequestConditions, conditions, mergo.WithOverride) //nolint:wrapcheck
	})

	return multierr.Combine(errs...)
}

func (h ResponseHeaders) toMap() map[string]any {
	headers := make(map[string]any, 4)

	if h.ETag != "" {
		headers[HeaderETag] = h.ETag
	}

	if !h.LastModified.IsZero() {
		headers[HeaderLastModified] = h.LastModified
	}

	if h.RequestID != "" {
		headers[HeaderRequestID] = h.RequestID
	}

	if !h.Date.IsZero() {
		headers[HeaderDate] = h.Date
	}

	return headers
}
