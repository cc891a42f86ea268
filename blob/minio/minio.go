// Package minio implements blob.ContainerClient on an S3-compatible bucket through minio-go.
package minio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/0xalexb/hjarta-beans/beans"
	"github.com/0xalexb/hjarta-beans/blob"
	"github.com/0xalexb/hjarta-beans/logging"

	"github.com/goccy/go-json"
	miniolib "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/tags"
)

// ErrEmptyEndpoint is returned when no endpoint is configured.
var ErrEmptyEndpoint = errors.New("endpoint must not be empty")

// ErrEmptyBucket is returned when no bucket is configured.
var ErrEmptyBucket = errors.New("bucket must not be empty")

// ErrPreconditionFailed is returned when a delete's request conditions do not hold.
var ErrPreconditionFailed = errors.New("request conditions not met")

// Config holds the connection settings of a bucket.
type Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	Secure    bool   `yaml:"secure"`
	Bucket    string `yaml:"bucket"`
}

// Validate validates the Config.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return ErrEmptyEndpoint
	}

	if c.Bucket == "" {
		return ErrEmptyBucket
	}

	return nil
}

// bucketAPI is the part of *miniolib.Client the container client uses.
type bucketAPI interface {
	ListObjects(ctx context.Context, bucket string, opts miniolib.ListObjectsOptions) <-chan miniolib.ObjectInfo
	MakeBucket(ctx context.Context, bucket string, opts miniolib.MakeBucketOptions) error
	RemoveBucket(ctx context.Context, bucket string) error
	BucketExists(ctx context.Context, bucket string) (bool, error)
	SetBucketTagging(ctx context.Context, bucket string, tags *tags.Tags) error
	SetBucketPolicy(ctx context.Context, bucket, policy string) error
}

// Client is a blob.ContainerClient for one bucket. Its Config can be bound as bean
// properties; the connection is opened on first use.
type Client struct {
	Config Config

	mu     sync.Mutex
	api    bucketAPI
	logger *slog.Logger
}

var _ blob.ContainerClient = (*Client)(nil)

// New creates a Client and connects it.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	client := &Client{Config: cfg, logger: logging.ForComponent(logger, "blob.minio")}

	_, err := client.bucket()
	if err != nil {
		return nil, err
	}

	return client, nil
}

// RegisterTypes makes Client available to "#class:" directives as MinioClient.
func RegisterTypes(catalog *beans.Catalog) {
	beans.RegisterType[Client](catalog, "MinioClient")
}

func (c *Client) bucket() (bucketAPI, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.api != nil {
		return c.api, nil
	}

	err := c.Config.Validate()
	if err != nil {
		return nil, err
	}

	api, err := miniolib.New(c.Config.Endpoint, &miniolib.Options{
		Creds:  credentials.NewStaticV4(c.Config.AccessKey, c.Config.SecretKey, ""),
		Secure: c.Config.Secure,
		Region: c.Config.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", c.Config.Endpoint, err)
	}

	c.api = api

	return c.api, nil
}

func (c *Client) log() *slog.Logger {
	if c.logger == nil {
		return logging.ForComponent(nil, "blob.minio")
	}

	return c.logger
}

// ListBlobs lists the objects of the bucket.
func (c *Client) ListBlobs(ctx context.Context, opts blob.ListOptions) ([]blob.Item, error) {
	api, err := c.bucket()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var items []blob.Item

	for object := range api.ListObjects(ctx, c.Config.Bucket, miniolib.ListObjectsOptions{
		Prefix:       opts.Prefix,
		Recursive:    true,
		MaxKeys:      opts.MaxResults,
		WithMetadata: opts.IncludeMetadata,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("listing %s: %w", c.Config.Bucket, object.Err)
		}

		item := blob.Item{
			Name:         object.Key,
			Size:         object.Size,
			ETag:         object.ETag,
			LastModified: object.LastModified,
		}

		if opts.IncludeMetadata && len(object.UserMetadata) > 0 {
			item.Metadata = map[string]string(object.UserMetadata)
		}

		items = append(items, item)

		if opts.MaxResults > 0 && len(items) == opts.MaxResults {
			break
		}
	}

	c.log().DebugContext(ctx, "listed blobs", "bucket", c.Config.Bucket, "count", len(items))

	return items, nil
}

// CreateContainer creates the bucket, tags it with metadata and applies the public access policy.
func (c *Client) CreateContainer(
	ctx context.Context, metadata map[string]string, access blob.PublicAccess,
) (blob.ResponseHeaders, error) {
	api, err := c.bucket()
	if err != nil {
		return blob.ResponseHeaders{}, err
	}

	err = api.MakeBucket(ctx, c.Config.Bucket, miniolib.MakeBucketOptions{Region: c.Config.Region})
	if err != nil {
		return blob.ResponseHeaders{}, fmt.Errorf("creating bucket %s: %w", c.Config.Bucket, err)
	}

	if len(metadata) > 0 {
		bucketTags, err := tags.MapToBucketTags(metadata)
		if err != nil {
			return blob.ResponseHeaders{}, fmt.Errorf("bucket tags: %w", err)
		}

		err = api.SetBucketTagging(ctx, c.Config.Bucket, bucketTags)
		if err != nil {
			return blob.ResponseHeaders{}, fmt.Errorf("tagging bucket %s: %w", c.Config.Bucket, err)
		}
	}

	if access != blob.PublicAccessNone {
		policy, err := publicPolicy(c.Config.Bucket, access)
		if err != nil {
			return blob.ResponseHeaders{}, err
		}

		err = api.SetBucketPolicy(ctx, c.Config.Bucket, policy)
		if err != nil {
			return blob.ResponseHeaders{}, fmt.Errorf("setting policy of %s: %w", c.Config.Bucket, err)
		}
	}

	c.log().InfoContext(ctx, "created bucket", "bucket", c.Config.Bucket, "access", string(access))

	return blob.ResponseHeaders{Date: time.Now().UTC()}, nil
}

// DeleteContainer removes the bucket. A non-empty IfMatch condition requires the bucket to
// exist; the other conditions have no S3 equivalent and are ignored.
func (c *Client) DeleteContainer(ctx context.Context, conditions *blob.RequestConditions) (blob.ResponseHeaders, error) {
	api, err := c.bucket()
	if err != nil {
		return blob.ResponseHeaders{}, err
	}

	if conditions != nil && conditions.IfMatch != "" {
		exists, err := api.BucketExists(ctx, c.Config.Bucket)
		if err != nil {
			return blob.ResponseHeaders{}, fmt.Errorf("checking bucket %s: %w", c.Config.Bucket, err)
		}

		if !exists {
			return blob.ResponseHeaders{}, fmt.Errorf("%w: bucket %s does not exist", ErrPreconditionFailed, c.Config.Bucket)
		}
	}

	err = api.RemoveBucket(ctx, c.Config.Bucket)
	if err != nil {
		return blob.ResponseHeaders{}, fmt.Errorf("removing bucket %s: %w", c.Config.Bucket, err)
	}

	c.log().InfoContext(ctx, "deleted bucket", "bucket", c.Config.Bucket)

	return blob.ResponseHeaders{Date: time.Now().UTC()}, nil
}

type policyStatement struct {
	Effect    string              `json:"Effect"`
	Principal map[string][]string `json:"Principal"`
	Action    []string            `json:"Action"`
	Resource  []string            `json:"Resource"`
}

type bucketPolicy struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

// publicPolicy renders the anonymous read policy for access.
func publicPolicy(bucket string, access blob.PublicAccess) (string, error) {
	statement := policyStatement{
		Effect:    "Allow",
		Principal: map[string][]string{"AWS": {"*"}},
		Action:    []string{"s3:GetObject"},
		Resource:  []string{"arn:aws:s3:::" + bucket + "/*"},
	}

	if access == blob.PublicAccessContainer {
		statement.Action = append(statement.Action, "s3:ListBucket")
		statement.Resource = append(statement.Resource, "arn:aws:s3:::"+bucket)
	}

	policy, err := json.Marshal(bucketPolicy{Version: "2012-10-17", Statement: []policyStatement{statement}})
	if err != nil {
		return "", fmt.Errorf("encoding bucket policy: %w", err)
	}

	return string(policy), nil
}
