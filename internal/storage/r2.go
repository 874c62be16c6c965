package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3ClientAPI defines the subset of the S3 API the R2 client uses.
// This allows for mocking in tests.
type S3ClientAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// R2Client implements Client against Cloudflare R2 through its
// S3-compatible API.
type R2Client struct {
	bucket string
	client S3ClientAPI
}

// R2Option is a functional option for configuring the R2 client.
type R2Option func(*R2Client)

// WithS3Client sets a custom S3 client (for testing).
func WithS3Client(client S3ClientAPI) R2Option {
	return func(c *R2Client) {
		c.client = client
	}
}

// NewR2Client creates a client for one bucket. Construction is lazy: no
// network call happens until the first Put/Get/List.
func NewR2Client(ctx context.Context, accessKeyID, secretAccessKey, endpointURL, bucket string, opts ...R2Option) (*R2Client, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is empty")
	}

	c := &R2Client{bucket: bucket}
	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		// R2 ignores the region but the SDK requires one; "auto" is the
		// value Cloudflare documents.
		cfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion("auto"),
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
			),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load storage client config: %w", err)
		}

		c.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.BaseEndpoint = &endpointURL
			o.UsePathStyle = true
		})
	}

	return c, nil
}

// Put writes an object under key with the given content type.
func (c *R2Client) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: &c.bucket,
		Key:    &key,
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = &contentType
	}

	if _, err := c.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return nil
}

// Get reads the object at key.
func (c *R2Client) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &c.bucket,
		Key:    &key,
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, NotFoundError{Key: key}
		}
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	return out.Body, nil
}

// List returns all keys under prefix, following pagination.
func (c *R2Client) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	var continuation *string

	for {
		out, err := c.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            &c.bucket,
			Prefix:            &prefix,
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list objects under %s: %w", prefix, err)
		}
		for _, obj := range out.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			return keys, nil
		}
		continuation = out.NextContinuationToken
	}
}

func isNoSuchKey(err error) bool {
	var noSuchKey *types.NoSuchKey
	return errors.As(err, &noSuchKey)
}
