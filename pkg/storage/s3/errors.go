package s3

import (
	"context"
	"fmt"
	"net"

	"github.com/minio/minio-go/v7"

	"github.com/buildtrace/artpack/pkg/storage/status"
)

func errInvalidBucket(bucket string) error {
	return status.ErrInvalidResource.Wrap(fmt.Errorf("invalid s3 bucket name: %q", bucket))
}

func errMissingCredentials() error {
	return status.ErrUnauthorized.Wrap(fmt.Errorf("static credentials source requires an access key and a secret key"))
}

func errUnknownCredentialsSource(source string) error {
	return status.ErrInvalidResource.Wrap(fmt.Errorf("unknown credentials source: %q", source))
}

// toSentinelErrors maps backend API errors to the sentinels defined by
// the storage status package
func toSentinelErrors(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return status.ErrNotFound.Wrap(err)
	case "AccessDenied":
		return status.ErrForbidden.Wrap(err)
	case "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return status.ErrUnauthorized.Wrap(err)
	case "PreconditionFailed":
		// failed If-None-Match precondition: the key appeared first
		return status.ErrExists.Wrap(err)
	case "SlowDown", "RequestTimeout", "InternalError", "ServiceUnavailable":
		return status.ErrStorageTransient.Wrap(err)
	}
	if resp.StatusCode >= 500 {
		return status.ErrStorageTransient.Wrap(err)
	}
	if resp.StatusCode == 412 {
		return status.ErrExists.Wrap(err)
	}
	if netErr, isNet := err.(net.Error); isNet && netErr.Timeout() {
		return status.ErrStorageTransient.Wrap(err)
	}
	if err == context.DeadlineExceeded {
		return status.ErrStorageTransient.Wrap(err)
	}
	return status.ErrStorageAPI.Wrap(err)
}
