package s3store

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/driftaudit/iac-reconciler/internal/core/ports"
	"github.com/driftaudit/iac-reconciler/internal/errors"
)

const reportContentType = "application/json"

type Config struct {
	// Endpoint overrides the S3 endpoint, for LocalStack and other local
	// object stores. Path-style addressing is forced when set.
	Endpoint string `mapstructure:"endpoint"`
	Region   string `mapstructure:"region"`
}

// S3API is the subset of the S3 client the store uses, extracted so tests
// can stub it.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
}

// Client persists serialized analysis reports in an S3-compatible bucket.
type Client struct {
	api    S3API
	region string
	logger ports.Logger
}

var _ ports.ObjectStore = (*Client)(nil)

func NewClient(ctx context.Context, cfg Config, logger ports.Logger) (*Client, error) {
	if logger == nil {
		return nil, errors.New(errors.CodeConfigValidation, "logger cannot be nil for object store")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageAuthError, "failed to load AWS configuration")
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Client{api: api, region: awsCfg.Region, logger: logger}, nil
}

// NewClientWithAPI wires a prebuilt S3 API, used by tests.
func NewClientWithAPI(api S3API, region string, logger ports.Logger) *Client {
	return &Client{api: api, region: region, logger: logger}
}

func (c *Client) Upload(ctx context.Context, data []byte, bucket, key string) error {
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(reportContentType),
	})
	if err != nil {
		return classifyError(err, fmt.Sprintf("failed to upload report to s3://%s/%s", bucket, key))
	}
	c.logger.Infof(ctx, "Uploaded report to s3://%s/%s (%d bytes)", bucket, key, len(data))
	return nil
}

func (c *Client) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classifyError(err, fmt.Sprintf("failed to download report from s3://%s/%s", bucket, key))
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageAPIError,
			fmt.Sprintf("failed to read report body from s3://%s/%s", bucket, key))
	}
	return data, nil
}

// EnsureBucket creates the bucket when it does not exist yet. A bucket
// already owned by the caller is success.
func (c *Client) EnsureBucket(ctx context.Context, bucket string) error {
	_, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		return nil
	}

	c.logger.Debugf(ctx, "Bucket %s not reachable, attempting to create it", bucket)
	input := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
	if cfg := bucketLocation(c.region); cfg != nil {
		input.CreateBucketConfiguration = cfg
	}
	if _, err := c.api.CreateBucket(ctx, input); err != nil {
		if isBucketOwned(err) {
			return nil
		}
		return classifyError(err, fmt.Sprintf("failed to create bucket %s", bucket))
	}
	c.logger.Infof(ctx, "Created bucket %s", bucket)
	return nil
}

func (c *Client) ListBuckets(ctx context.Context) ([]string, error) {
	out, err := c.api.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, classifyError(err, "failed to list buckets")
	}
	names := make([]string, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		names = append(names, aws.ToString(b.Name))
	}
	return names, nil
}
