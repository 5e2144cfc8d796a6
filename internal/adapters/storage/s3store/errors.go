package s3store

import (
	stderrs "errors"
	"strings"

	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/driftaudit/iac-reconciler/internal/errors"
)

// classifyError maps S3 failures onto the application's error taxonomy so
// credential problems surface differently from transport/API problems.
func classifyError(err error, message string) error {
	var apiErr smithy.APIError
	if stderrs.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken":
			return errors.Wrap(err, errors.CodeStorageAuthError, message)
		}
	}
	if strings.Contains(err.Error(), "no EC2 IMDS role found") ||
		strings.Contains(err.Error(), "failed to retrieve credentials") {
		return errors.Wrap(err, errors.CodeStorageAuthError, message)
	}
	return errors.Wrap(err, errors.CodeStorageAPIError, message)
}

func isBucketOwned(err error) bool {
	var owned *s3types.BucketAlreadyOwnedByYou
	var exists *s3types.BucketAlreadyExists
	return stderrs.As(err, &owned) || stderrs.As(err, &exists)
}

// bucketLocation builds the location constraint for bucket creation.
// us-east-1 is the S3 default and must be omitted.
func bucketLocation(region string) *s3types.CreateBucketConfiguration {
	if region == "" || region == "us-east-1" {
		return nil
	}
	return &s3types.CreateBucketConfiguration{
		LocationConstraint: s3types.BucketLocationConstraint(region),
	}
}
