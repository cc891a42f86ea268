package blob

import (
	"context"
	"errors"
	"time"
)

// ErrNilClient is returned when an operation runs without a ContainerClient.
var ErrNilClient = errors.New("container client must not be nil")

// ErrInvalidHeader is returned when an exchange header holds a value of the wrong kind.
var ErrInvalidHeader = errors.New("invalid header value")

// ErrInvalidConfiguration is returned when a Configuration fails validation.
var ErrInvalidConfiguration = errors.New("invalid blob configuration")

// PublicAccess is the anonymous read access level of a container.
type PublicAccess string

const (
	// PublicAccessNone keeps the container private.
	PublicAccessNone PublicAccess = ""
	// PublicAccessContainer allows anonymous listing and reading.
	PublicAccessContainer PublicAccess = "container"
	// PublicAccessBlob allows anonymous reading of blobs only.
	PublicAccessBlob PublicAccess = "blob"
)

// Valid reports whether a is a known access level.
func (a PublicAccess) Valid() bool {
	switch a {
	case PublicAccessNone, PublicAccessContainer, PublicAccessBlob:
		return true
	default:
		return false
	}
}

// RequestConditions restrict a delete to a container in the expected state.
type RequestConditions struct {
	IfMatch           string
	IfNoneMatch       string
	IfModifiedSince   time.Time
	IfUnmodifiedSince time.Time
	LeaseID           string
}

// ListOptions select the blobs returned by ContainerClient.ListBlobs.
// A MaxResults of zero means no limit.
type ListOptions struct {
	Prefix          string
	MaxResults      int
	IncludeMetadata bool
}

// Item describes one blob in a listing.
type Item struct {
	Name         string            `json:"name"`
	Size         int64             `json:"size"`
	ETag         string            `json:"etag,omitempty"`
	LastModified time.Time         `json:"last_modified"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// ResponseHeaders are the protocol headers returned by container calls.
type ResponseHeaders struct {
	ETag         string
	LastModified time.Time
	RequestID    string
	Date         time.Time
}

// ContainerClient is the storage backend of one container.
type ContainerClient interface {
	ListBlobs(ctx context.Context, opts ListOptions) ([]Item, error)
	CreateContainer(ctx context.Context, metadata map[string]string, access PublicAccess) (ResponseHeaders, error)
	DeleteContainer(ctx context.Context, conditions *RequestConditions) (ResponseHeaders, error)
}

// OperationResponse is the result of a container operation: the listing for ListBlobs,
// true for the mutating calls, plus the response headers keyed by the Header* constants.
type OperationResponse struct {
	Body    any
	Headers map[string]any
}
