package s3store

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftaudit/iac-reconciler/internal/core/ports"
	"github.com/driftaudit/iac-reconciler/internal/errors"
)

type noopLogger struct{}

func (noopLogger) Debugf(ctx context.Context, format string, args ...any) {}

func (noopLogger) Infof(ctx context.Context, format string, args ...any) {}

func (noopLogger) Warnf(ctx context.Context, format string, args ...any) {}

func (noopLogger) Errorf(ctx context.Context, err error, format string, args ...any) {}

func (noopLogger) WithFields(fields map[string]any) ports.Logger { return noopLogger{} }

// stubS3 lets each test inject the behavior of individual S3 calls.
type stubS3 struct {
	putObject    func(*s3.PutObjectInput) (*s3.PutObjectOutput, error)
	getObject    func(*s3.GetObjectInput) (*s3.GetObjectOutput, error)
	headBucket   func(*s3.HeadBucketInput) (*s3.HeadBucketOutput, error)
	createBucket func(*s3.CreateBucketInput) (*s3.CreateBucketOutput, error)
	listBuckets  func(*s3.ListBucketsInput) (*s3.ListBucketsOutput, error)
}

func (s *stubS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return s.putObject(params)
}

func (s *stubS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return s.getObject(params)
}

func (s *stubS3) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return s.headBucket(params)
}

func (s *stubS3) CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	return s.createBucket(params)
}

func (s *stubS3) ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	return s.listBuckets(params)
}

func TestClient_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		var got *s3.PutObjectInput
		stub := &stubS3{putObject: func(in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
			got = in
			return &s3.PutObjectOutput{}, nil
		}}
		c := NewClientWithAPI(stub, "us-east-1", noopLogger{})

		err := c.Upload(ctx, []byte(`{"analysis":[]}`), "reports", "run-1.json")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "reports", aws.ToString(got.Bucket))
		assert.Equal(t, "run-1.json", aws.ToString(got.Key))
		assert.Equal(t, reportContentType, aws.ToString(got.ContentType))

		body, err := io.ReadAll(got.Body)
		require.NoError(t, err)
		assert.Equal(t, `{"analysis":[]}`, string(body))
	})

	t.Run("auth failure classified", func(t *testing.T) {
		stub := &stubS3{putObject: func(*s3.PutObjectInput) (*s3.PutObjectOutput, error) {
			return nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}
		}}
		c := NewClientWithAPI(stub, "us-east-1", noopLogger{})

		err := c.Upload(ctx, []byte("x"), "reports", "k")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeStorageAuthError))
	})

	t.Run("other api failure classified", func(t *testing.T) {
		stub := &stubS3{putObject: func(*s3.PutObjectInput) (*s3.PutObjectOutput, error) {
			return nil, &smithy.GenericAPIError{Code: "SlowDown", Message: "throttled"}
		}}
		c := NewClientWithAPI(stub, "us-east-1", noopLogger{})

		err := c.Upload(ctx, []byte("x"), "reports", "k")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeStorageAPIError))
	})
}

func TestClient_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		stub := &stubS3{getObject: func(in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
			assert.Equal(t, "reports", aws.ToString(in.Bucket))
			return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(`{"summary":{}}`))}, nil
		}}
		c := NewClientWithAPI(stub, "us-east-1", noopLogger{})

		data, err := c.Download(ctx, "reports", "run-1.json")
		require.NoError(t, err)
		assert.Equal(t, `{"summary":{}}`, string(data))
	})

	t.Run("missing object", func(t *testing.T) {
		stub := &stubS3{getObject: func(*s3.GetObjectInput) (*s3.GetObjectOutput, error) {
			return nil, &s3types.NoSuchKey{}
		}}
		c := NewClientWithAPI(stub, "us-east-1", noopLogger{})

		_, err := c.Download(ctx, "reports", "nope.json")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeStorageAPIError))
	})
}

func TestClient_EnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("bucket already reachable", func(t *testing.T) {
		created := false
		stub := &stubS3{
			headBucket: func(*s3.HeadBucketInput) (*s3.HeadBucketOutput, error) {
				return &s3.HeadBucketOutput{}, nil
			},
			createBucket: func(*s3.CreateBucketInput) (*s3.CreateBucketOutput, error) {
				created = true
				return &s3.CreateBucketOutput{}, nil
			},
		}
		c := NewClientWithAPI(stub, "us-east-1", noopLogger{})

		require.NoError(t, c.EnsureBucket(ctx, "reports"))
		assert.False(t, created)
	})

	t.Run("creates when head fails", func(t *testing.T) {
		var createIn *s3.CreateBucketInput
		stub := &stubS3{
			headBucket: func(*s3.HeadBucketInput) (*s3.HeadBucketOutput, error) {
				return nil, &s3types.NotFound{}
			},
			createBucket: func(in *s3.CreateBucketInput) (*s3.CreateBucketOutput, error) {
				createIn = in
				return &s3.CreateBucketOutput{}, nil
			},
		}
		c := NewClientWithAPI(stub, "eu-west-1", noopLogger{})

		require.NoError(t, c.EnsureBucket(ctx, "reports"))
		require.NotNil(t, createIn)
		require.NotNil(t, createIn.CreateBucketConfiguration)
		assert.Equal(t, s3types.BucketLocationConstraint("eu-west-1"), createIn.CreateBucketConfiguration.LocationConstraint)
	})

	t.Run("us-east-1 omits the location constraint", func(t *testing.T) {
		var createIn *s3.CreateBucketInput
		stub := &stubS3{
			headBucket: func(*s3.HeadBucketInput) (*s3.HeadBucketOutput, error) {
				return nil, &s3types.NotFound{}
			},
			createBucket: func(in *s3.CreateBucketInput) (*s3.CreateBucketOutput, error) {
				createIn = in
				return &s3.CreateBucketOutput{}, nil
			},
		}
		c := NewClientWithAPI(stub, "us-east-1", noopLogger{})

		require.NoError(t, c.EnsureBucket(ctx, "reports"))
		require.NotNil(t, createIn)
		assert.Nil(t, createIn.CreateBucketConfiguration)
	})

	t.Run("already owned is success", func(t *testing.T) {
		stub := &stubS3{
			headBucket: func(*s3.HeadBucketInput) (*s3.HeadBucketOutput, error) {
				return nil, &s3types.NotFound{}
			},
			createBucket: func(*s3.CreateBucketInput) (*s3.CreateBucketOutput, error) {
				return nil, &s3types.BucketAlreadyOwnedByYou{}
			},
		}
		c := NewClientWithAPI(stub, "us-east-1", noopLogger{})

		assert.NoError(t, c.EnsureBucket(ctx, "reports"))
	})

	t.Run("create failure surfaces", func(t *testing.T) {
		stub := &stubS3{
			headBucket: func(*s3.HeadBucketInput) (*s3.HeadBucketOutput, error) {
				return nil, &s3types.NotFound{}
			},
			createBucket: func(*s3.CreateBucketInput) (*s3.CreateBucketOutput, error) {
				return nil, &smithy.GenericAPIError{Code: "InvalidAccessKeyId", Message: "bad key"}
			},
		}
		c := NewClientWithAPI(stub, "us-east-1", noopLogger{})

		err := c.EnsureBucket(ctx, "reports")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeStorageAuthError))
	})
}

func TestClient_ListBuckets(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		stub := &stubS3{listBuckets: func(*s3.ListBucketsInput) (*s3.ListBucketsOutput, error) {
			return &s3.ListBucketsOutput{Buckets: []s3types.Bucket{
				{Name: aws.String("reports")},
				{Name: aws.String("archive")},
			}}, nil
		}}
		c := NewClientWithAPI(stub, "us-east-1", noopLogger{})

		names, err := c.ListBuckets(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"reports", "archive"}, names)
	})

	t.Run("failure", func(t *testing.T) {
		stub := &stubS3{listBuckets: func(*s3.ListBucketsInput) (*s3.ListBucketsOutput, error) {
			return nil, fmt.Errorf("connection refused")
		}}
		c := NewClientWithAPI(stub, "us-east-1", noopLogger{})

		_, err := c.ListBuckets(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeStorageAPIError))
	})
}
