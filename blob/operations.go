package blob

import (
	"context"
	"fmt"
	"time"
)

// ContainerOperations runs container-level operations against a ContainerClient.
type ContainerOperations struct {
	Configuration Configuration
	Client        ContainerClient
}

// NewContainerOperations creates ContainerOperations. The client must not be nil.
func NewContainerOperations(cfg Configuration, client ContainerClient) (*ContainerOperations, error) {
	if client == nil {
		return nil, ErrNilClient
	}

	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &ContainerOperations{Configuration: cfg, Client: client}, nil
}

// ListBlobs lists the blobs of the container. The response body is a []Item.
func (o *ContainerOperations) ListBlobs(ctx context.Context, exchange *Exchange) (*OperationResponse, error) {
	if o.Client == nil {
		return nil, ErrNilClient
	}

	if exchange == nil {
		items, err := o.Client.ListBlobs(ctx, ListOptions{})
		if err != nil {
			return nil, fmt.Errorf("listing blobs: %w", err)
		}

		return &OperationResponse{Body: items, Headers: map[string]any{}}, nil
	}

	cfg, err := o.Configuration.resolve(exchange)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, cfg.Timeout)
	defer cancel()

	items, err := o.Client.ListBlobs(ctx, cfg.listOptions())
	if err != nil {
		return nil, fmt.Errorf("listing blobs: %w", err)
	}

	return &OperationResponse{Body: items, Headers: map[string]any{}}, nil
}

// CreateContainer creates the container with the metadata and public access in effect.
func (o *ContainerOperations) CreateContainer(ctx context.Context, exchange *Exchange) (*OperationResponse, error) {
	if o.Client == nil {
		return nil, ErrNilClient
	}

	if exchange == nil {
		headers, err := o.Client.CreateContainer(ctx, nil, PublicAccessNone)
		if err != nil {
			return nil, fmt.Errorf("creating container: %w", err)
		}

		return &OperationResponse{Body: true, Headers: headers.toMap()}, nil
	}

	cfg, err := o.Configuration.resolve(exchange)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, cfg.Timeout)
	defer cancel()

	headers, err := o.Client.CreateContainer(ctx, cfg.Metadata, cfg.PublicAccess)
	if err != nil {
		return nil, fmt.Errorf("creating container: %w", err)
	}

	return &OperationResponse{Body: true, Headers: headers.toMap()}, nil
}

// DeleteContainer deletes the container, subject to the request conditions in effect.
func (o *ContainerOperations) DeleteContainer(ctx context.Context, exchange *Exchange) (*OperationResponse, error) {
	if o.Client == nil {
		return nil, ErrNilClient
	}

	if exchange == nil {
		headers, err := o.Client.DeleteContainer(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("deleting container: %w", err)
		}

		return &OperationResponse{Body: true, Headers: headers.toMap()}, nil
	}

	cfg, err := o.Configuration.resolve(exchange)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, cfg.Timeout)
	defer cancel()

	headers, err := o.Client.DeleteContainer(ctx, cfg.RequestConditions)
	if err != nil {
		return nil, fmt.Errorf("deleting container: %w", err)
	}

	return &OperationResponse{Body: true, Headers: headers.toMap()}, nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, timeout)
}
